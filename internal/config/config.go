package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "BLOGPORTAL_CONFIG"
	listenAddrEnv     = "LISTEN_ADDR"
	storeBaseURLEnv   = "STORE_BASE_URL"
	masterPasswordEnv = "MASTER_PASSWORD"
	sessionSecretEnv  = "SESSION_SECRET"
	logLevelEnv       = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Auth    AuthConfig    `yaml:"auth"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig describes the portal's own listen address.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StoreConfig points at the remote blog store API.
type StoreConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// AuthConfig carries the single deployment-wide override secret. An empty
// value disables the override entirely.
type AuthConfig struct {
	MasterPassword string `yaml:"masterPassword"`
}

// SessionConfig configures the cookie session used for flash messages and
// pending password challenges.
type SessionConfig struct {
	Secret string `yaml:"secret"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(storeBaseURLEnv); v != "" {
		c.Store.BaseURL = v
	}

	if v := os.Getenv(masterPasswordEnv); v != "" {
		c.Auth.MasterPassword = v
	}

	if v := os.Getenv(sessionSecretEnv); v != "" {
		c.Session.Secret = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server = override.Server
	}

	if override.Store.BaseURL != "" {
		base.Store = override.Store
	}

	if override.Auth.MasterPassword != "" {
		base.Auth = override.Auth
	}

	if override.Session.Secret != "" {
		base.Session = override.Session
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server:  ServerConfig{Addr: "127.0.0.1:8080"},
		Store:   StoreConfig{BaseURL: "http://localhost:9090/api/v1"},
		Auth:    AuthConfig{MasterPassword: ""},
		Session: SessionConfig{Secret: "dev-insecure-secret-change-me-now"},
		Logging: LoggingConfig{Level: "info"},
	}
}
