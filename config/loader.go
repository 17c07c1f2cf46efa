package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "standardslib.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/standardslib"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"

	// EnvSourceDir overrides source.dir
	EnvSourceDir = "STANDARDSLIB_SOURCE_DIR"
	// EnvOutputDir overrides output.dir
	EnvOutputDir = "STANDARDSLIB_OUTPUT_DIR"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger

	// WorkDir and HomeDir replace the process directories when set.
	WorkDir string
	HomeDir string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/standardslib/config.yaml)
// 3. Project config (standardslib.yaml in current or parent directories),
// or explicit when it is not empty
// 4. Environment variables
func (l *Loader) Load(explicit string) (*Config, error) {
	config := DefaultConfig()

	// Load user config
	if userConfigPath := l.userConfigPath(); userConfigPath != "" {
		if err := config.Overlay(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	// Load project config
	projectConfigPath := explicit
	if projectConfigPath == "" {
		projectConfigPath = l.findProjectConfig()
	}
	if projectConfigPath != "" {
		if err := config.Overlay(projectConfigPath); err != nil {
			if explicit != "" {
				return nil, err
			}
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		} else {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	l.applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnv applies environment variable overrides
func (l *Loader) applyEnv(config *Config) {
	if dir := os.Getenv(EnvSourceDir); dir != "" {
		config.Source.Dir = dir
		l.logger.Debug("Source dir from environment", slog.String("dir", dir))
	}
	if dir := os.Getenv(EnvOutputDir); dir != "" {
		config.Output.Dir = dir
		l.logger.Debug("Output dir from environment", slog.String("dir", dir))
	}
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	userConfigPath := l.userConfigPath()

	if _, err := os.Stat(userConfigPath); err == nil {
		return nil
	}

	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home := l.HomeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for standardslib.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	dir := l.WorkDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
