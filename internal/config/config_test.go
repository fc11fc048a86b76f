package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LETZCODE_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5000, cfg.Server.Port)
	require.Equal(t, "letzcode.db", cfg.DB.Path)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	require.Empty(t, cfg.Redis.URL)
	require.True(t, cfg.MCP.Enabled)
	require.Equal(t, "http", cfg.MCP.Transport)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("LETZCODE_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  cors_origin: https://letzcode.example
db:
  path: /tmp/file.db
auth:
  jwt_secret: from-file
  token_ttl: 1h
redis:
  url: redis://localhost:6379/0
log:
  level: debug
mcp:
  enabled: false
`), 0o600))

	t.Setenv("LETZCODE_CONFIG_PATH", path)
	t.Setenv("LETZCODE_JWT_SECRET", "")
	t.Setenv("LETZCODE_DB_PATH", "/tmp/env.db")
	t.Setenv("LETZCODE_LOG_PATH", "/tmp/letzcode.log")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "https://letzcode.example", cfg.Server.CORSOrigin)
	require.Equal(t, "/tmp/env.db", cfg.DB.Path)
	require.Equal(t, "from-file", cfg.Auth.JWTSecret)
	require.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/tmp/letzcode.log", cfg.Log.Path)
	require.False(t, cfg.MCP.Enabled)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("LETZCODE_JWT_SECRET", "secret")
	t.Setenv("LETZCODE_SERVER_PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_StdioTransport(t *testing.T) {
	t.Setenv("LETZCODE_JWT_SECRET", "secret")
	t.Setenv("LETZCODE_MCP_TRANSPORT", "stdio")
	t.Setenv("LETZCODE_MCP_TOKEN", "agent-token")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.MCP.Transport)
	require.Equal(t, "agent-token", cfg.MCP.Token)

	t.Setenv("LETZCODE_MCP_TRANSPORT", "carrier-pigeon")
	_, err = Load()
	require.Error(t, err)
}
