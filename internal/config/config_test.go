package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GROQ_API_KEY", "env-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerAddress, cfg.BasicConfig.ServerAddress)
	assert.Equal(t, "disk", cfg.BasicConfig.UploadBackend)
	assert.Equal(t, DefaultProvider, cfg.Completion.Provider)
	assert.Equal(t, DefaultModel, cfg.Completion.Model)
	assert.Equal(t, DefaultMaxTokens, cfg.Completion.MaxTokens)
	assert.Equal(t, "env-key", cfg.Completion.APIKey)
}

func TestLoadFileAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pdfchat.json")
	body := `{
		"basic_config": {"server_address": ":9000", "upload_dir": "uploads", "upload_backend": "sqlite"},
		"completion": {"provider": "OpenAI", "model": "gpt-4o-mini", "api_key": "file-key"},
		"databases": {"sqlite3": {"dsn": "uploads.db"}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("PDFCHAT_COMPLETION_MAX_TOKENS", "256")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.BasicConfig.ServerAddress)
	assert.Equal(t, filepath.Join(dir, "uploads"), cfg.BasicConfig.UploadDir)
	assert.Equal(t, "sqlite3", cfg.BasicConfig.UploadBackend)
	assert.Equal(t, "openai", cfg.Completion.Provider)
	assert.Equal(t, "file-key", cfg.Completion.APIKey)
	assert.Equal(t, 256, cfg.Completion.MaxTokens)
	assert.Equal(t, filepath.Join(dir, "uploads.db"), cfg.Databases["sqlite3"].DSN)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PDFCHAT_BASIC_CONFIG_UPLOAD_BACKEND", "s3")
	_, err := Load("")
	require.Error(t, err)
}

func TestCredentialEnv(t *testing.T) {
	assert.Equal(t, "GROQ_API_KEY", CompletionConfig{Provider: "groq"}.CredentialEnv())
	assert.Equal(t, "ANTHROPIC_API_KEY", CompletionConfig{Provider: "claude"}.CredentialEnv())
	assert.Equal(t, "MISTRAL_API_KEY", CompletionConfig{Provider: "mistral"}.CredentialEnv())
}
