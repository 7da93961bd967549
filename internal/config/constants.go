package config

import "prenomscli/pkg/contracts"

// Application constants
const (
	AppName    = "prenoms"
	AppVersion = contracts.Version

	// EnvPrefix is the prefix of every environment override (PRENOMS_INPUT_DIR, ...)
	EnvPrefix = "PRENOMS"

	DefaultEncoding = "utf-8"
	DefaultLogFile  = "prenoms_processing.log"
	DefaultTopN     = 10
)
