package cliconfig

import (
	"strconv"

	"github.com/getmockd/hookd/pkg/capture"
	"github.com/getmockd/hookd/pkg/eventbus"
	"github.com/getmockd/hookd/pkg/ratelimit"
	"github.com/getmockd/hookd/pkg/requestlog"
)

// DefaultHost is the default listen host.
const DefaultHost = "localhost"

// DefaultPort is the default HTTP port.
const DefaultPort = 4380

// DefaultReadTimeout is the default read timeout in seconds.
const DefaultReadTimeout = 30

// DefaultWriteTimeout is the default write timeout in seconds.
// Configured response delays count against it; observer streams are exempt.
const DefaultWriteTimeout = 60

// DefaultServerURL returns the API base URL for a local server on port.
func DefaultServerURL(port int) string {
	if port == 0 {
		port = DefaultPort
	}
	return "http://localhost:" + strconv.Itoa(port)
}

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		Host:               DefaultHost,
		Port:               DefaultPort,
		ReadTimeout:        DefaultReadTimeout,
		WriteTimeout:       DefaultWriteTimeout,
		MaxEntriesPerSpace: requestlog.DefaultMaxEntriesPerSpace,
		RateLimitPerMinute: ratelimit.DefaultRatePerMinute,
		RateLimitBurst:     ratelimit.DefaultCapacity,
		MaxBodyBytes:       capture.DefaultMaxBodyBytes,
		HeartbeatInterval:  int(eventbus.DefaultHeartbeatInterval.Seconds()),
		SubscriberBuffer:   eventbus.DefaultBufferSize,
		LogLevel:           "info",
		LogFormat:          "text",
		ServerURL:          DefaultServerURL(DefaultPort),
		Sources:            make(map[string]string),
	}
	for _, key := range []string{
		"host", "port", "readTimeout", "writeTimeout",
		"maxEntriesPerSpace", "rateLimitPerMinute", "rateLimitBurst", "maxBodyBytes",
		"heartbeatInterval", "subscriberBuffer", "logLevel", "logFormat", "serverUrl", "json",
	} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}
