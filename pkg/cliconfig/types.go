// Package cliconfig provides configuration types and loading for the hookd CLI.
package cliconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getmockd/hookd/pkg/logging"
)

// CLIConfig represents the complete configuration for hookd.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.hookdrc.yaml in current directory)
// 4. Global config file (~/.config/hookd/config.yaml)
// 5. Default values (lowest priority)
type CLIConfig struct {
	// Server settings
	Host         string `yaml:"host" json:"host"`
	Port         int    `yaml:"port" json:"port"`
	ReadTimeout  int    `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout" json:"writeTimeout"`

	// Capture settings
	MaxEntriesPerSpace int      `yaml:"maxEntriesPerSpace" json:"maxEntriesPerSpace"`
	RateLimitPerMinute int      `yaml:"rateLimitPerMinute" json:"rateLimitPerMinute"`
	RateLimitBurst     int      `yaml:"rateLimitBurst" json:"rateLimitBurst"`
	MaxBodyBytes       int64    `yaml:"maxBodyBytes" json:"maxBodyBytes"`
	HeartbeatInterval  int      `yaml:"heartbeatInterval" json:"heartbeatInterval"`
	SubscriberBuffer   int      `yaml:"subscriberBuffer" json:"subscriberBuffer"`
	CORSOrigins        []string `yaml:"corsOrigins,omitempty" json:"corsOrigins,omitempty"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`

	// Client settings
	ServerURL string `yaml:"serverUrl" json:"serverUrl"`
	JSON      bool   `yaml:"json" json:"json"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records which keys a config file set explicitly, so an
	// explicit false can override a true from a lower-precedence source.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)

// Addr returns the listen address.
func (c *CLIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeoutDuration returns ReadTimeout in seconds as a Duration.
func (c *CLIConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns WriteTimeout in seconds as a Duration.
func (c *CLIConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// HeartbeatDuration returns HeartbeatInterval in seconds as a Duration.
func (c *CLIConfig) HeartbeatDuration() time.Duration {
	return time.Duration(c.HeartbeatInterval) * time.Second
}

// Validate checks that all values are within range.
func (c *CLIConfig) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range (0-65535)", c.Port))
	}
	if c.ReadTimeout < 0 || c.ReadTimeout > 3600 {
		errs = append(errs, fmt.Errorf("readTimeout %d is out of range (0-3600)", c.ReadTimeout))
	}
	if c.WriteTimeout < 0 || c.WriteTimeout > 3600 {
		errs = append(errs, fmt.Errorf("writeTimeout %d is out of range (0-3600)", c.WriteTimeout))
	}
	if c.MaxEntriesPerSpace < 1 || c.MaxEntriesPerSpace > 100000 {
		errs = append(errs, fmt.Errorf("maxEntriesPerSpace %d is out of range (1-100000)", c.MaxEntriesPerSpace))
	}
	if c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Errorf("rateLimitPerMinute %d must be positive", c.RateLimitPerMinute))
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("rateLimitBurst %d must be positive", c.RateLimitBurst))
	}
	if c.MaxBodyBytes < 1 {
		errs = append(errs, fmt.Errorf("maxBodyBytes %d must be positive", c.MaxBodyBytes))
	}
	if c.HeartbeatInterval < 1 || c.HeartbeatInterval > 300 {
		errs = append(errs, fmt.Errorf("heartbeatInterval %d is out of range (1-300)", c.HeartbeatInterval))
	}
	if c.SubscriberBuffer < 1 {
		errs = append(errs, fmt.Errorf("subscriberBuffer %d must be positive", c.SubscriberBuffer))
	}
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat))
	}
	return errors.Join(errs...)
}
