package config

import "os"

// Engine captures process-level configuration. Snapshot file names are fixed
// by the interchange format; only the directory and log settings vary per
// deployment.
type Engine struct {
	DataDir   string
	LogLevel  string
	LogFormat string
}

// FromEnv builds an Engine config from environment variables so main stays
// lean.
func FromEnv() Engine {
	dataDir := os.Getenv("BTOCORE_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	level := os.Getenv("BTOCORE_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	format := os.Getenv("BTOCORE_LOG_FORMAT")
	if format == "" {
		format = "text"
	}
	return Engine{DataDir: dataDir, LogLevel: level, LogFormat: format}
}
