package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadFromAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "app:\n  name: test\n")
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, 3, cfg.Generation.MaxAttempts)
	assert.Equal(t, 300*time.Millisecond, cfg.Generation.BackoffBase)
	assert.Equal(t, 4, cfg.Generation.MaxParallelChapters)
	assert.Equal(t, 10*time.Minute, cfg.Cache.ShareTTL)
	assert.Equal(t, 10, cfg.Security.RateLimit.GenerationPerMinute)
	assert.Equal(t, 168*time.Hour, cfg.Security.JWT.Expiration)
}

func TestLoadFromExpandsEnvAndMergesEnvFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
llm:
  default_provider: openai
  providers:
    openai:
      api_key: ${TEST_OPENAI_KEY:}
      model: ${TEST_OPENAI_MODEL:gpt-4o-mini}
`)
	writeConfig(t, dir, "config.staging.yaml", "generation:\n  max_parallel_chapters: 2\n")
	t.Setenv("APP_ENV", "staging")
	t.Setenv("TEST_OPENAI_KEY", "sk-test")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Generation.MaxParallelChapters)

	name, p, ok := cfg.LLM.ActiveProvider()
	assert.True(t, ok)
	assert.Equal(t, "openai", name)
	assert.Equal(t, "sk-test", p.APIKey)
	assert.Equal(t, "gpt-4o-mini", p.Model)
}

func TestLoadFromMissingBaseFile(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestActiveProviderWithoutKey(t *testing.T) {
	c := LLMConfig{
		DefaultProvider: "openai",
		Providers:       map[string]ProviderConfig{"openai": {Model: "gpt-4o-mini"}},
	}
	_, _, ok := c.ActiveProvider()
	assert.False(t, ok)

	_, _, ok = LLMConfig{}.ActiveProvider()
	assert.False(t, ok)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("EXPAND_SET", "v")
	assert.Equal(t, "a=v b=d c=${EXPAND_MISSING}", expandEnv("a=${EXPAND_SET} b=${EXPAND_UNSET:d} c=${EXPAND_MISSING}"))
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Server.HTTP.Port = 8080
	cfg.Generation.MaxAttempts = 3
	cfg.Generation.MaxParallelChapters = 4
	require.NoError(t, cfg.Validate())

	cfg.App.Env = "production"
	assert.Error(t, cfg.Validate())

	cfg.Security.JWT.Secret = "s"
	cfg.Generation.MaxAttempts = 0
	assert.Error(t, cfg.Validate())
}
