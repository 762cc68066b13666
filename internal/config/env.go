// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	defaultLogDirectory = "logs"
	defaultLogFilename  = "info.log"
	productionEnv       = "production"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")

	// validLevels lists the level names accepted for LOG_LEVEL and transport declarations.
	validLevels = []string{"trace", "debug", "info", "warn", "warning", "error"}
)

// Config holds the environment-driven logging settings. It is built once by the
// application entry point and handed to the logger factory.
type Config struct {
	LogPath          string `env:"LOG_PATH"`
	LogFilename      string `env:"LOG_FILENAME" envDefault:"info.log"`
	CreatePath       bool   `env:"LOG_CREATE_PATH" envDefault:"true"`
	EnableDefaultLog bool   `env:"ENABLE_DEFAULT_LOG" envDefault:"true"`
	Environment      string `env:"NODE_ENV"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	JSONFormat       bool   `env:"LOG_JSON_FORMAT" envDefault:"false"`
	TransportsFile   string `env:"LOG_TRANSPORTS_FILE"`
}

// LoadConfig reads the logging configuration from the environment, resolves
// every path to its absolute form and validates the result. Extra transports
// declared in TransportsFile are not loaded here, see LoadTransports.
func LoadConfig() (*Config, error) {
	config, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if err := config.resolve(); err != nil {
		return nil, err
	}

	if err := validateEnvironmentVariables(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// resolve fills the values that cannot be expressed as static defaults.
func (c *Config) resolve() error {
	if c.LogFilename == "" {
		c.LogFilename = defaultLogFilename
	}

	logPath := c.LogPath
	if logPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("%w: cannot resolve working directory: %w", ErrEnvVariablesNotValid, err)
		}
		logPath = filepath.Join(cwd, defaultLogDirectory)
	}

	absPath, err := filepath.Abs(logPath)
	if err != nil {
		return fmt.Errorf("%w: LOG_PATH %q: %w", ErrEnvVariablesNotValid, logPath, err)
	}
	c.LogPath = absPath

	return nil
}

func validateEnvironmentVariables(config *Config) error {
	envError := make([]string, 0)

	if !IsValidLevel(config.LogLevel) {
		envError = append(envError, fmt.Sprintf("LOG_LEVEL %q is not a valid level", config.LogLevel))
	}
	if strings.ContainsRune(config.LogFilename, filepath.Separator) {
		envError = append(envError, "LOG_FILENAME must not contain path separators")
	}

	if len(envError) > 0 {
		return fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, strings.Join(envError, ", "))
	}
	return nil
}

// DefaultFilenamePath returns the fully qualified path of the default log file.
func (c *Config) DefaultFilenamePath() string {
	return filepath.Join(c.LogPath, c.LogFilename)
}

// IsProduction reports whether the process runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, productionEnv)
}

// IsValidLevel reports whether level names a known severity, ignoring case.
func IsValidLevel(level string) bool {
	return slices.Contains(validLevels, strings.ToLower(level))
}
