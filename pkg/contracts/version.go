package contracts

import (
	"fmt"
	"runtime"
)

const (
	Version = "1.0.0"

	// DataFormatVersion changes whenever the exported file layout does
	DataFormatVersion = "v1"
)

// Stamped by build.go through -ldflags -X
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version    string `json:"version"`
	BuildTime  string `json:"build_time"`
	GitCommit  string `json:"git_commit"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	DataFormat string `json:"data_format"`
}

func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:    Version,
		BuildTime:  BuildTime,
		GitCommit:  GitCommit,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		DataFormat: DataFormatVersion,
	}
}

// String renders the info on one line, e.g.
// "prenoms 1.0.0 (commit abc123, built 2024-05-01T10:00:00Z, go1.23.0 linux/amd64)"
func (v VersionInfo) String() string {
	return fmt.Sprintf("prenoms %s (commit %s, built %s, %s %s)",
		v.Version, v.GitCommit, v.BuildTime, v.GoVersion, v.Platform)
}
