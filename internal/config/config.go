package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Auth   AuthConfig   `yaml:"auth"`
	Redis  RedisConfig  `yaml:"redis"`
	Log    LogConfig    `yaml:"log"`
	MCP    MCPConfig    `yaml:"mcp"`
}

type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// RedisConfig enables realtime fan-out when URL is set.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// LogConfig selects the log level. Path, when set, sends logs to a
// size-capped file instead of the console.
type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// MCPConfig controls the agent tool surface. Transport is "http" (mounted
// at /mcp) or "stdio", where Token authenticates every call.
type MCPConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Transport string `yaml:"transport"`
	Token     string `yaml:"token"`
}

// Load reads configuration from an optional .env file, an optional YAML
// file and environment variables, in increasing precedence.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       5000,
			CORSOrigin: "http://localhost:5173",
		},
		DB: DBConfig{
			Path: "letzcode.db",
		},
		Auth: AuthConfig{
			TokenTTL: 7 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "http",
		},
	}

	if path := os.Getenv("LETZCODE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("LETZCODE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("LETZCODE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LETZCODE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if origin := os.Getenv("LETZCODE_CORS_ORIGIN"); origin != "" {
		cfg.Server.CORSOrigin = origin
	}
	if dbPath := os.Getenv("LETZCODE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if secret := os.Getenv("LETZCODE_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if ttlStr := os.Getenv("LETZCODE_TOKEN_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LETZCODE_TOKEN_TTL: %w", err)
		}
		cfg.Auth.TokenTTL = ttl
	}
	if url := os.Getenv("LETZCODE_REDIS_URL"); url != "" {
		cfg.Redis.URL = url
	}
	if level := os.Getenv("LETZCODE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("LETZCODE_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	if enabled := os.Getenv("LETZCODE_MCP_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LETZCODE_MCP_ENABLED: %w", err)
		}
		cfg.MCP.Enabled = v
	}
	if transport := os.Getenv("LETZCODE_MCP_TRANSPORT"); transport != "" {
		cfg.MCP.Transport = transport
	}
	if token := os.Getenv("LETZCODE_MCP_TOKEN"); token != "" {
		cfg.MCP.Token = token
	}

	if cfg.Auth.JWTSecret == "" {
		return Config{}, errors.New("LETZCODE_JWT_SECRET is required")
	}
	if cfg.MCP.Transport != "http" && cfg.MCP.Transport != "stdio" {
		return Config{}, fmt.Errorf("invalid mcp transport %q", cfg.MCP.Transport)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
