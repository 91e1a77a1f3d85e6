package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "ai:\n  apiKey: sk-test\nauth:\n  jwtSecret: s\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "disk", cfg.Storage.Backend)
	assert.Equal(t, "uploads", cfg.Storage.Dir)
	assert.Equal(t, "prompts/ux-analysis.txt", cfg.AI.PromptPath)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMinutes)
}

func TestLoadEnvOverridesSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("JWT_SECRET", "secret-from-env")
	t.Setenv("DB_PASSWORD", "db-from-env")

	path := writeConfig(t, `
ai:
  apiKey: sk-from-file
auth:
  jwtSecret: secret-from-file
database:
  password: db-from-file
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-from-env", cfg.AI.APIKey)
	assert.Equal(t, "secret-from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "db-from-env", cfg.Database.Password)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		var c Config
		c.AI.APIKey = "sk-test"
		c.AI.PromptPath = "prompts/ux-analysis.txt"
		c.Auth.JWTSecret = "secret"
		c.Database.Driver = "mysql"
		c.Storage.Backend = "disk"
		return &c
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.AI.APIKey = ""
	assert.ErrorContains(t, c.Validate(), "ai.apiKey")

	c = base()
	c.Auth.JWTSecret = "  "
	assert.ErrorContains(t, c.Validate(), "auth.jwtSecret")

	c = base()
	c.Database.Driver = "sqlite"
	assert.ErrorContains(t, c.Validate(), "database driver")

	c = base()
	c.Storage.Backend = "s3"
	assert.ErrorContains(t, c.Validate(), "storage backend")
}

func TestDSNHelpers(t *testing.T) {
	var c Config
	c.Database.Host = "db.local"
	c.Database.Port = 3306
	c.Database.User = "uxlens"
	c.Database.Password = "pw"
	c.Database.Name = "uxlens"

	assert.Equal(t,
		"uxlens:pw@tcp(db.local:3306)/uxlens?parseTime=true&charset=utf8mb4&loc=UTC",
		c.MySQLDSN())

	c.Database.Port = 5432
	assert.Equal(t,
		"host=db.local port=5432 user=uxlens password=pw dbname=uxlens sslmode=disable",
		c.PostgresDSN())

	c.Database.SSLMode = "require"
	assert.Contains(t, c.PostgresDSN(), "sslmode=require")
}
