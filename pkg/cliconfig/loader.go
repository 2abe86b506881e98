package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for global config
	GlobalConfigDir = "hookd"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".hookdrc.yaml", ".hookdrc.yml"}

// GlobalConfigFileNames are the names to search for global config (in order).
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// FindLocalConfig searches for .hookdrc.yaml or .hookdrc.yml in dir.
// Returns empty string if not found.
func FindLocalConfig(dir string) string {
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindGlobalConfig returns the path to the global config file.
// Returns empty string if not found.
func FindGlobalConfig() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range GlobalConfigFileNames {
		path := filepath.Join(configDir, GlobalConfigDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadConfigFile loads a CLIConfig from a YAML file.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(path, data)
}

// ParseConfig decodes YAML config data. path is used in error messages.
func ParseConfig(path string, data []byte) (*CLIConfig, error) {
	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, newConfigError(path, err)
	}

	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, newConfigError(path, err)
	}
	cfg.SetFields = make(map[string]bool, len(keys))
	for k := range keys {
		cfg.SetFields[k] = true
	}

	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

func newConfigError(path string, err error) *ConfigError {
	ce := &ConfigError{Path: path, Message: err.Error()}
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		ce.Message = typeErr.Errors[0]
	}
	return ce
}

// LoadAll loads configuration from every file and environment source and
// merges them. Flags are applied by the caller.
// Precedence: env > local config > global config > defaults
func LoadAll() (*CLIConfig, error) {
	cfg := NewDefault()

	if globalPath := FindGlobalConfig(); globalPath != "" {
		globalCfg, err := LoadConfigFile(globalPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, globalCfg, SourceGlobal)
	}

	if cwd, err := os.Getwd(); err == nil {
		if localPath := FindLocalConfig(cwd); localPath != "" {
			localCfg, err := LoadConfigFile(localPath)
			if err != nil {
				return nil, err
			}
			MergeConfig(cfg, localCfg, SourceLocal)
		}
	}

	LoadEnvConfig(cfg, os.Getenv)

	return cfg, nil
}
