package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CAREVAULT_CONFIG_PATH", t.TempDir()) // no file present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 480, cfg.TokenTTL)
	assert.Equal(t, 1000, cfg.APIPatientListLimitMax)
	assert.Equal(t, 8, cfg.PasswordMinLength)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.SignupEnabled)
	assert.Equal(t, "default", cfg.Source("token_ttl"))
	assert.Equal(t, 8*time.Minute, cfg.TokenLifetime())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "token_ttl: 900\npassword_min_length: 12\nsignup_enabled: false\ntrusted_proxies:\n  - 10.0.0.0/8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
	t.Setenv("CAREVAULT_CONFIG_PATH", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 900, cfg.TokenTTL)
	assert.Equal(t, "file", cfg.Source("token_ttl"))
	assert.Equal(t, 12, cfg.PasswordMinLength)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
	// A file value equal to a type's zero value still counts as set.
	assert.False(t, cfg.SignupEnabled)
	assert.Equal(t, "file", cfg.Source("signup_enabled"))
	// Untouched attributes keep defaults
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "default", cfg.Source("bcrypt_cost"))
}

func TestEnvOverridesFileSignupEnabled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("signup_enabled: false\n"), 0o600))
	t.Setenv("CAREVAULT_CONFIG_PATH", dir)
	t.Setenv("CAREVAULT_SIGNUP_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.SignupEnabled)
	assert.Equal(t, "environment", cfg.Source("signup_enabled"))
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("token_ttl: 900\n"), 0o600))
	t.Setenv("CAREVAULT_CONFIG_PATH", dir)
	t.Setenv("CAREVAULT_TOKEN_TTL", "120")
	t.Setenv("CAREVAULT_SIGNUP_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.TokenTTL)
	assert.Equal(t, "environment", cfg.Source("token_ttl"))
	assert.False(t, cfg.SignupEnabled)
	assert.Equal(t, "environment", cfg.Source("signup_enabled"))
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("token_ttl: [not a number"), 0o600))
	t.Setenv("CAREVAULT_CONFIG_PATH", dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }, true},
		{"bad bcrypt cost", func(c *Config) { c.BcryptCost = 99 }, true},
		{"bad proxy cidr", func(c *Config) { c.TrustedProxies = []string{"not-a-cidr"} }, true},
		{"plain proxy ip ok", func(c *Config) { c.TrustedProxies = []string{"192.168.1.1"} }, false},
		{"zero list limit", func(c *Config) { c.APIPatientListLimitMax = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsTrustedProxy(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.1"}

	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.True(t, cfg.IsTrustedProxy("192.168.1.1"))
	assert.False(t, cfg.IsTrustedProxy("172.16.0.1"))
	assert.False(t, cfg.IsTrustedProxy("not-an-ip"))
}
