package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataPath: "/some/path", Backend: BackendBadger},
		Metadata: MetadataConfig{
			TierTimeout: 10 * time.Second,
			RateLimit:   5,
			Burst:       5,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Backends(t *testing.T) {
	for _, backend := range []string{BackendBadger, BackendSQLite} {
		cfg := validConfig()
		cfg.Storage.Backend = backend
		assert.NoError(t, cfg.Validate(), backend)
	}

	cfg := validConfig()
	cfg.Storage.Backend = "localstorage"
	assert.Error(t, cfg.Validate())
}

func TestValidate_MetadataLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Metadata.TierTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Metadata.Burst = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("DATA_PATH", "")
	t.Setenv("STORAGE_BACKEND", "")

	cfg, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, filepath.Join(home, "ResearchQueue", "data"), cfg.Storage.DataPath)
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, "8787", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Metadata.TierTimeout)
	assert.Equal(t, "staging", cfg.Metadata.Environment)
	assert.Equal(t, "https://staging-website-info-api-mxa2.encr.app/url-info", cfg.Metadata.FallbackURL)
	assert.True(t, cfg.Search.Enabled)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORAGE_BACKEND", "badger")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load([]string{
		"-env-file", filepath.Join(dir, "missing.env"),
		"-storage-backend", "sqlite",
		"-data-path", dir,
	})
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, dir, cfg.Storage.DataPath)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# local overrides\nMETADATA_TIER_TIMEOUT=\"3s\"\nCORS_ALLOWED_ORIGINS=http://a.test, http://b.test\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	// Registered for cleanup so values set by loadEnvFile do not leak.
	t.Setenv("METADATA_TIER_TIMEOUT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	require.NoError(t, os.Unsetenv("METADATA_TIER_TIMEOUT"))
	require.NoError(t, os.Unsetenv("CORS_ALLOWED_ORIGINS"))

	cfg, err := Load([]string{"-env-file", envPath, "-data-path", dir})
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Metadata.TierTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	_, err := Load([]string{"-env-file", filepath.Join(dir, "x"), "-data-path", dir, "-metadata-timeout", "soon"})
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/rq", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "rq"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)
}
