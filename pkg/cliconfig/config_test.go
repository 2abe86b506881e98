package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *CLIConfig)
		wantErr string
	}{
		{name: "valid defaults", modify: func(*CLIConfig) {}},
		{name: "port too high", modify: func(c *CLIConfig) { c.Port = 70000 }, wantErr: "port 70000 is out of range"},
		{name: "port negative", modify: func(c *CLIConfig) { c.Port = -1 }, wantErr: "port -1 is out of range"},
		{name: "read timeout too high", modify: func(c *CLIConfig) { c.ReadTimeout = 9999 }, wantErr: "readTimeout 9999 is out of range"},
		{name: "write timeout negative", modify: func(c *CLIConfig) { c.WriteTimeout = -1 }, wantErr: "writeTimeout -1 is out of range"},
		{name: "zero entries", modify: func(c *CLIConfig) { c.MaxEntriesPerSpace = 0 }, wantErr: "maxEntriesPerSpace 0 is out of range"},
		{name: "zero rate", modify: func(c *CLIConfig) { c.RateLimitPerMinute = 0 }, wantErr: "rateLimitPerMinute 0 must be positive"},
		{name: "zero burst", modify: func(c *CLIConfig) { c.RateLimitBurst = 0 }, wantErr: "rateLimitBurst 0 must be positive"},
		{name: "zero body limit", modify: func(c *CLIConfig) { c.MaxBodyBytes = 0 }, wantErr: "maxBodyBytes 0 must be positive"},
		{name: "heartbeat too long", modify: func(c *CLIConfig) { c.HeartbeatInterval = 301 }, wantErr: "heartbeatInterval 301 is out of range"},
		{name: "zero buffer", modify: func(c *CLIConfig) { c.SubscriberBuffer = 0 }, wantErr: "subscriberBuffer 0 must be positive"},
		{name: "bad log level", modify: func(c *CLIConfig) { c.LogLevel = "loud" }, wantErr: `logLevel "loud"`},
		{name: "bad log format", modify: func(c *CLIConfig) { c.LogFormat = "xml" }, wantErr: `logFormat "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, 500, cfg.MaxEntriesPerSpace)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 15, cfg.HeartbeatInterval)
	assert.Equal(t, "http://localhost:4380", cfg.ServerURL)
	assert.Equal(t, "localhost:4380", cfg.Addr())
	assert.Equal(t, SourceDefault, cfg.Sources["port"])
}

func TestMergeConfig_BasicFields(t *testing.T) {
	target := NewDefault()
	source := &CLIConfig{
		Port:        9000,
		LogLevel:    "debug",
		CORSOrigins: []string{"https://example.com"},
	}

	MergeConfig(target, source, SourceLocal)

	assert.Equal(t, 9000, target.Port)
	assert.Equal(t, "debug", target.LogLevel)
	assert.Equal(t, []string{"https://example.com"}, target.CORSOrigins)
	assert.Equal(t, SourceLocal, target.Sources["port"])
	assert.Equal(t, SourceLocal, target.Sources["corsOrigins"])
	// untouched fields keep their default source
	assert.Equal(t, DefaultHost, target.Host)
	assert.Equal(t, SourceDefault, target.Sources["host"])
}

func TestMergeConfig_ExplicitFalse(t *testing.T) {
	target := NewDefault()
	target.JSON = true

	source, err := ParseConfig("test.yaml", []byte("json: false\n"))
	require.NoError(t, err)

	MergeConfig(target, source, SourceLocal)
	assert.False(t, target.JSON)
	assert.Equal(t, SourceLocal, target.Sources["json"])
}

func TestMergeConfig_Nil(t *testing.T) {
	target := NewDefault()
	MergeConfig(target, nil, SourceLocal)
	assert.Equal(t, DefaultPort, target.Port)
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
port: 5000
maxEntriesPerSpace: 50
corsOrigins:
  - http://localhost:3000
logFormat: json
`)
	cfg, err := ParseConfig("cfg.yaml", data)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, 50, cfg.MaxEntriesPerSpace)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.SetFields["port"])
	assert.False(t, cfg.SetFields["host"])
}

func TestParseConfig_TypeError(t *testing.T) {
	_, err := ParseConfig("bad.yaml", []byte("port: lots\n"))
	require.Error(t, err)

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "bad.yaml", ce.Path)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestConfigError_Error(t *testing.T) {
	assert.Equal(t, "a.yaml (line 3): boom", (&ConfigError{Path: "a.yaml", Line: 3, Message: "boom"}).Error())
	assert.Equal(t, "a.yaml: boom", (&ConfigError{Path: "a.yaml", Message: "boom"}).Error())
}

func TestFindLocalConfig(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindLocalConfig(dir))

	path := filepath.Join(dir, ".hookdrc.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 1\n"), 0o600))
	assert.Equal(t, path, FindLocalConfig(dir))

	preferred := filepath.Join(dir, ".hookdrc.yaml")
	require.NoError(t, os.WriteFile(preferred, []byte("port: 2\n"), 0o600))
	assert.Equal(t, preferred, FindLocalConfig(dir))
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnvConfig(t *testing.T) {
	env := map[string]string{
		EnvPort:               "7000",
		EnvMaxBodyBytes:       "1024",
		EnvCORSOrigins:        "https://a.test, https://b.test,",
		EnvLogLevel:           "warn",
		EnvJSON:               "true",
		EnvRateLimitPerMinute: "not-a-number",
	}
	cfg := NewDefault()
	LoadEnvConfig(cfg, func(k string) string { return env[k] })

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.JSON)
	assert.Equal(t, SourceEnv, cfg.Sources["port"])

	// unparsable values are ignored
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, SourceDefault, cfg.Sources["rateLimitPerMinute"])
}

func TestLoadAll_LocalOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hookdrc.yaml"), []byte("port: 4999\nlogLevel: debug\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvLogLevel, "error")

	cfg, err := LoadAll()
	require.NoError(t, err)

	assert.Equal(t, 4999, cfg.Port)
	assert.Equal(t, SourceLocal, cfg.Sources["port"])
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, SourceEnv, cfg.Sources["logLevel"])
}
