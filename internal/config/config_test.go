package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Clearenv()
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	t.Cleanup(os.Clearenv)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingDBPassword(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	defer os.Clearenv()

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_WeakSecretInProduction(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("ENV", "production")
	os.Setenv("JWT_SECRET", "only-twenty-chars!!")

	_, err := Load()
	assert.Error(t, err)
}

func TestLockoutConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Lockout.MaxFailedAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Lockout.FailedWindow)
	assert.Equal(t, 1*time.Hour, cfg.Lockout.FailedBlockDuration)
	assert.Equal(t, 5, cfg.Lockout.MaxSuccessfulLogins)
	assert.Equal(t, 10*time.Minute, cfg.Lockout.SuccessWindow)
	assert.Equal(t, 5*time.Hour, cfg.Lockout.SuspiciousBlockDuration)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.SessionTTL)
}

func TestLockoutConfig_RejectsNonPositiveThreshold(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("LOCKOUT_MAX_FAILED", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestRedisConfig_AddrFromHostAndPort(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("REDIS_HOST", "cache.internal")
	os.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", cfg.Redis.Addr)
}

func TestRedisConfig_EmptyByDefault(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestServerConfig_Timeouts_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	tests := []struct {
		name     string
		actual   time.Duration
		expected time.Duration
	}{
		{"ReadTimeout", cfg.Server.ReadTimeout, 15 * time.Second},
		{"WriteTimeout", cfg.Server.WriteTimeout, 15 * time.Second},
		{"IdleTimeout", cfg.Server.IdleTimeout, 60 * time.Second},
	}

	for _, tt := range tests {
		if tt.actual != tt.expected {
			t.Errorf("%s: got %v, want %v", tt.name, tt.actual, tt.expected)
		}
	}
}

func TestServerConfig_Timeouts_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	// Invalid duration should fall back to default
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout with invalid value: got %v, want %v", cfg.Server.ReadTimeout, 15*time.Second)
	}
}

func TestServerConfig_AllowedOrigins_Production(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("ENV", "production")
	os.Setenv("JWT_SECRET", "a-much-longer-production-secret-value-0123")
	os.Setenv("ALLOWED_ORIGINS", "https://frontdesk.example.org, https://admin.example.org")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://frontdesk.example.org", "https://admin.example.org"}, cfg.Server.AllowedOrigins)
}
