package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Server config defaults. The TOML file is optional; env vars win over it.
const (
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 8000
	DefaultTransport = "stdio"
)

// Config holds the server-side settings: transport selection, listen
// address for the HTTP transport, and logging.
type Config struct {
	Environment string `toml:"-"`

	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Transport string `toml:"transport"` // stdio | http

	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the config for the given environment from a TOML file, then
// applies env var overrides (SYSTM_MCP_HOST, SYSTM_MCP_PORT,
// SYSTM_MCP_TRANSPORT). A missing file is not an error: defaults apply.
func Load(env, path string) (*Config, error) {
	cfg := &Config{
		Environment: env,
		Host:        DefaultHost,
		Port:        DefaultPort,
		Transport:   DefaultTransport,
		LogLevel:    "info",
		LogToStdout: true,
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var parsed Toml
			if _, err := toml.DecodeFile(path, &parsed); err != nil {
				return nil, fmt.Errorf("decode config file %s: %w", path, err)
			}
			fromFile, err := parsed.Get(env)
			if err != nil {
				return nil, err
			}
			if fromFile != nil {
				fromFile.Environment = env
				applyDefaults(fromFile)
				cfg = fromFile
			}
		}
	}

	if host := os.Getenv("SYSTM_MCP_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("SYSTM_MCP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SYSTM_MCP_PORT %q: %w", port, err)
		}
		cfg.Port = p
	}
	if transport := os.Getenv("SYSTM_MCP_TRANSPORT"); transport != "" {
		cfg.Transport = strings.ToLower(transport)
	}

	switch cfg.Transport {
	case "stdio", "http":
	default:
		return nil, fmt.Errorf("unknown transport: %s", cfg.Transport)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Transport == "" {
		cfg.Transport = DefaultTransport
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
