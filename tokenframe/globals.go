package internal

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// DefaultAppName is used for config directories and the env prefix
	DefaultAppName    = "tokenframe"
	DefaultEnvPrefix  = strings.ToUpper(DefaultAppName)
	DefaultConfigPath = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultConfigFile = filepath.Join(DefaultConfigPath, "config.yaml")

	// DefaultSpec splits on runs of whitespace
	DefaultSpec = `\s+`
	// DefaultChunkRows is the number of rows per chunk when a frame is built without a layout
	DefaultChunkRows = 1024
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// GetLoggerWithLevel returns GetLogger filtered at the named level.
// Unknown level names fall back to info.
func GetLoggerWithLevel(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return GetLogger().Level(lvl)
}
