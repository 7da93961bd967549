package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, DataFormatVersion, info.DataFormat)
}

func TestVersionInfo_String(t *testing.T) {
	info := VersionInfo{
		Version:   "2.1.0",
		BuildTime: "2024-05-01T10:00:00Z",
		GitCommit: "abc123",
		GoVersion: "go1.23.0",
		Platform:  "linux/amd64",
	}

	assert.Equal(t, "prenoms 2.1.0 (commit abc123, built 2024-05-01T10:00:00Z, go1.23.0 linux/amd64)", info.String())
}
