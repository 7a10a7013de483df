// Package appconfig loads the shared project.toml and sets up run loggers
// for the command-line tools.
package appconfig

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
	"github.com/google/uuid"
)

// DefaultConfigPath is the config file read when no -config flag is given.
const DefaultConfigPath = "project.toml"

// Load decodes configuration into cfg. When configURL is set the config is
// fetched remotely; otherwise path is read as TOML. A missing local file
// leaves cfg untouched.
func Load(path, configURL string, cfg any) error {
	if configURL != "" {
		return loadFromURL(configURL, cfg)
	}

	_, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	return nil
}

// loadFromURL fetches the config through configurator, logging to a
// throwaway bootstrap log in the temp directory.
func loadFromURL(configURL string, cfg any) error {
	bootstrapLogger, err := logger.New(os.TempDir(), "asset-tools-bootstrap.log")
	if err != nil {
		return fmt.Errorf("failed to create bootstrap logger: %w", err)
	}

	defer func() {
		if closeErr := bootstrapLogger.Close(); closeErr != nil {
			log.Printf("Warning: failed to close bootstrap logger: %v", closeErr)
		}
	}()

	err = configurator.LoadFromURL(configURL, cfg, bootstrapLogger)
	if err != nil {
		return fmt.Errorf("failed to load configuration from URL %s: %w", configURL, err)
	}

	return nil
}

// NewLogger creates a timestamped log file in logDir, or in logs/<tool>
// under the working directory when logDir is empty.
func NewLogger(logDir, tool string) (*logger.Logger, error) {
	if logDir == "" {
		logDir = filepath.Join("logs", tool)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("20060102_150405"))

	appLogger, err := logger.New(logDir, logFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return appLogger, nil
}

// NewRunID returns an identifier that tags one tool invocation in the logs.
func NewRunID() string {
	return uuid.New().String()
}
