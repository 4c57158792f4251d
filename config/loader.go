package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// ConfigFile is the name of the config file looked up next to the
// binary when no explicit path is given.
const ConfigFile = "relidx.yaml"

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Defaults (templates beside the binary, docs two levels up)
// 2. Config file (explicit path, or relidx.yaml next to the binary)
// Relative directories in the result are resolved against the binary's
// own directory, so the tool behaves the same from any working
// directory.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	config := DefaultConfig()

	path := explicitPath
	if path == "" {
		path = filepath.Join(l.binaryDir(), ConfigFile)
	}

	if fileConfig, err := LoadFromFile(path); err == nil {
		l.logger.Debug("loaded config file", slog.String("path", path))
		config.Merge(fileConfig)
	} else if explicitPath != "" {
		// An explicitly named config file must exist.
		return nil, err
	} else if !os.IsNotExist(err) {
		l.logger.Warn("failed to load config file", slog.String("path", path), slog.String("error", err.Error()))
	}

	config.DocsDir = l.resolve(config.DocsDir)
	config.TemplatesDir = l.resolve(config.TemplatesDir)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// resolve anchors a relative path at the binary's directory.
func (l *Loader) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(l.binaryDir(), path))
}

// binaryDir returns the directory holding the running binary, falling
// back to the working directory.
func (l *Loader) binaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			return cwd
		}
		return "."
	}
	return filepath.Dir(exe)
}
