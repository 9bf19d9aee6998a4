// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.True(t, cfg.Server.AutoMigrate)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenDuration)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("JWT_SECRET", "shared-secret")
	t.Setenv("JWT_ACCESS_TOKEN_DURATION", "5m")
	t.Setenv("CORS_ORIGIN", "https://a.example.com/, https://b.example.com")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.HTTPPort)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "shared-secret", cfg.JWT.AccessSecret)
	assert.Equal(t, "shared-secret", cfg.JWT.RefreshSecret)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenDuration)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Server.AutoMigrate)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "taskflow", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=taskflow sslmode=disable", d.DSN())

	d.URL = "postgres://u:p@db:5432/taskflow"
	assert.Equal(t, "postgres://u:p@db:5432/taskflow", d.DSN())
}

func TestConfig_Validate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	// Defaults are fine in development.
	assert.NoError(t, cfg.Validate())

	cfg.Server.Environment = "production"
	assert.Error(t, cfg.Validate())

	cfg.JWT.AccessSecret = "real-access-secret"
	cfg.JWT.RefreshSecret = "real-refresh-secret"
	assert.NoError(t, cfg.Validate())

	cfg.JWT.AccessTokenDuration = 0
	assert.Error(t, cfg.Validate())
}
