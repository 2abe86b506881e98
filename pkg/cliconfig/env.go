package cliconfig

import (
	"strconv"
	"strings"
)

// Environment variable names
const (
	EnvHost               = "HOOKD_HOST"
	EnvPort               = "HOOKD_PORT"
	EnvReadTimeout        = "HOOKD_READ_TIMEOUT"
	EnvWriteTimeout       = "HOOKD_WRITE_TIMEOUT"
	EnvMaxEntriesPerSpace = "HOOKD_MAX_ENTRIES_PER_SPACE"
	EnvRateLimitPerMinute = "HOOKD_RATE_LIMIT_PER_MINUTE"
	EnvRateLimitBurst     = "HOOKD_RATE_LIMIT_BURST"
	EnvMaxBodyBytes       = "HOOKD_MAX_BODY_BYTES"
	EnvHeartbeatInterval  = "HOOKD_HEARTBEAT_INTERVAL"
	EnvSubscriberBuffer   = "HOOKD_SUBSCRIBER_BUFFER"
	EnvCORSOrigins        = "HOOKD_CORS_ORIGINS"
	EnvLogLevel           = "HOOKD_LOG_LEVEL"
	EnvLogFormat          = "HOOKD_LOG_FORMAT"
	EnvServerURL          = "HOOKD_SERVER_URL"
	EnvJSON               = "HOOKD_JSON"
)

// LoadEnvConfig loads configuration from environment variables using getenv.
// It only sets values that are present; unparsable numbers are ignored.
func LoadEnvConfig(cfg *CLIConfig, getenv func(string) string) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	strs := []struct {
		env string
		key string
		dst *string
	}{
		{EnvHost, "host", &cfg.Host},
		{EnvLogLevel, "logLevel", &cfg.LogLevel},
		{EnvLogFormat, "logFormat", &cfg.LogFormat},
		{EnvServerURL, "serverUrl", &cfg.ServerURL},
	}
	for _, s := range strs {
		if v := getenv(s.env); v != "" {
			*s.dst = v
			cfg.Sources[s.key] = SourceEnv
		}
	}

	ints := []struct {
		env string
		key string
		dst *int
	}{
		{EnvPort, "port", &cfg.Port},
		{EnvReadTimeout, "readTimeout", &cfg.ReadTimeout},
		{EnvWriteTimeout, "writeTimeout", &cfg.WriteTimeout},
		{EnvMaxEntriesPerSpace, "maxEntriesPerSpace", &cfg.MaxEntriesPerSpace},
		{EnvRateLimitPerMinute, "rateLimitPerMinute", &cfg.RateLimitPerMinute},
		{EnvRateLimitBurst, "rateLimitBurst", &cfg.RateLimitBurst},
		{EnvHeartbeatInterval, "heartbeatInterval", &cfg.HeartbeatInterval},
		{EnvSubscriberBuffer, "subscriberBuffer", &cfg.SubscriberBuffer},
	}
	for _, i := range ints {
		if v := getenv(i.env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*i.dst = n
				cfg.Sources[i.key] = SourceEnv
			}
		}
	}

	if v := getenv(EnvMaxBodyBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxBodyBytes = n
			cfg.Sources["maxBodyBytes"] = SourceEnv
		}
	}

	if v := getenv(EnvCORSOrigins); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
		cfg.Sources["corsOrigins"] = SourceEnv
	}

	if v := getenv(EnvJSON); v != "" {
		cfg.JSON = v == "true" || v == "1" || v == "yes"
		cfg.Sources["json"] = SourceEnv
	}
}
