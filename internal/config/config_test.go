package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("STORAGE_BASE_URL", "")
	t.Setenv("REPORT_LOCALE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("REPORT_ARCHIVE_RETENTION", "")
	t.Setenv("REPORT_PRUNE_INTERVAL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "fr", cfg.Report.Locale)
	assert.Equal(t, "http://localhost:8080/files", cfg.Storage.BaseURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
	assert.Equal(t, 720*time.Hour, cfg.Report.ArchiveRetention)
	assert.Equal(t, time.Hour, cfg.Report.PruneInterval)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("STORAGE_BASE_URL", "https://cdn.example.com/files/")
	t.Setenv("REPORT_LOCALE", "EN")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "https://cdn.example.com/files", cfg.Storage.BaseURL)
	assert.Equal(t, "en", cfg.Report.Locale)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "postgres://postgres:pw@localhost:6543/teamops?sslmode=disable", cfg.DatabaseURL())
}

func TestLoadInvalidPort(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_PORT", "http")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: DriverSQLite, SQLitePath: "teamops.db"},
			JWT:      JWTConfig{Secret: "secret"},
			Storage:  StorageConfig{Type: "local"},
			Report:   ReportConfig{Locale: "fr", ArchiveRetention: time.Hour, PruneInterval: time.Minute},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid sqlite", func(c *Config) {}, true},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, false},
		{"postgres without password", func(c *Config) { c.Database.Driver = DriverPostgres }, false},
		{"postgres with password", func(c *Config) {
			c.Database.Driver = DriverPostgres
			c.Database.Password = "pw"
		}, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, false},
		{"unknown storage", func(c *Config) { c.Storage.Type = "minio" }, false},
		{"unknown locale", func(c *Config) { c.Report.Locale = "de" }, false},
		{"zero retention", func(c *Config) { c.Report.ArchiveRetention = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"noisy": slog.LevelInfo,
	}
	for in, want := range levels {
		c := Config{App: AppConfig{LogLevel: in}}
		assert.Equal(t, want, c.SlogLevel(), in)
	}
}
