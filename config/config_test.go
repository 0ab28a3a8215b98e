package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentChecks(t *testing.T) {
	cfg := &Config{GoEnv: "test"}
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())

	cfg.GoEnv = "production"
	assert.True(t, cfg.IsProduction())

	cfg.GoEnv = "development"
	assert.True(t, cfg.IsDevelopment())
}

func TestValidate(t *testing.T) {
	cfg := &Config{GoEnv: "production"}
	assert.Error(t, cfg.Validate(), "DATABASE_URL is required outside the test environment")

	cfg.DatabaseURL = "postgresql://localhost:5432/oficina"
	assert.NoError(t, cfg.Validate())

	// Tests run against in-memory databases, no URL needed
	cfg = &Config{GoEnv: "test"}
	assert.NoError(t, cfg.Validate())
}

func TestGetEnvDefault(t *testing.T) {
	os.Unsetenv("OFICINA_CONFIG_TEST_KEY")
	assert.Equal(t, "fallback", getEnv("OFICINA_CONFIG_TEST_KEY", "fallback"))

	os.Setenv("OFICINA_CONFIG_TEST_KEY", "value")
	defer os.Unsetenv("OFICINA_CONFIG_TEST_KEY")
	assert.Equal(t, "value", getEnv("OFICINA_CONFIG_TEST_KEY", "fallback"))
}

func TestSetAndGetConfig(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	cfg := &Config{Port: "9090"}
	SetConfig(cfg)
	assert.Equal(t, cfg, GetConfig())
}
