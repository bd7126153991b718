package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/xxxsen/common/logger"
)

const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config is built once at process start and never mutated afterwards.
type Config struct {
	Port        int              `json:"port" env:"PORT"`
	Store       StoreConfig      `json:"store" envPrefix:"STORE_"`
	JWT         JWTConfig        `json:"jwt"`
	BcryptCost  int              `json:"bcrypt_cost" env:"BCRYPT_COST"`
	UserCache   UserCacheConfig  `json:"user_cache" envPrefix:"USER_CACHE_"`
	CORSOrigins []string         `json:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	LogConfig   logger.LogConfig `json:"log_config"`

	// MONGODB_URI is read as STORE_URI with type mongo. Only the variable
	// carries over: documents need password_hash and lower-cased emails.
	LegacyMongoURI string `json:"-" env:"MONGODB_URI"`
}

type StoreConfig struct {
	Type           string `json:"type" env:"TYPE"`
	URI            string `json:"uri" env:"URI"`
	Database       string `json:"database" env:"DATABASE"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"TIMEOUT_SECONDS"`
}

type JWTConfig struct {
	Secret     string `json:"secret" env:"SECRET_KEY"`
	Algorithm  string `json:"algorithm" env:"ALGORITHM"`
	TTLMinutes int    `json:"ttl_minutes" env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
}

// UserCacheConfig sizes the user lookup cache. A negative size disables it.
type UserCacheConfig struct {
	Size       int `json:"size" env:"SIZE"`
	TTLSeconds int `json:"ttl_seconds" env:"TTL_SECONDS"`
}

func (c StoreConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

func (c UserCacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Load reads the optional JSON file at path and then applies environment
// overrides. An empty path means environment only.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Store.URI == "" && cfg.LegacyMongoURI != "" {
		cfg.Store.URI = cfg.LegacyMongoURI
		if cfg.Store.Type == "" {
			cfg.Store.Type = StoreMongo
		}
	}
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	cfg.Store.Type = strings.ToLower(strings.TrimSpace(cfg.Store.Type))
	if cfg.Store.Type == "" {
		cfg.Store.Type = StoreMemory
	}
	if cfg.Store.Database == "" {
		cfg.Store.Database = "business_card_db"
	}
	if cfg.Store.TimeoutSeconds == 0 {
		cfg.Store.TimeoutSeconds = 5
	}
	if cfg.JWT.Algorithm == "" {
		cfg.JWT.Algorithm = "HS256"
	}
	if cfg.JWT.TTLMinutes == 0 {
		cfg.JWT.TTLMinutes = 30
	}
	if cfg.UserCache.Size == 0 {
		cfg.UserCache.Size = 1024
	}
	if cfg.UserCache.TTLSeconds == 0 {
		cfg.UserCache.TTLSeconds = 60
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.LogConfig.File == "" {
		cfg.LogConfig.Console = true
	}
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("jwt algorithm must be HS256, HS384 or HS512")
	}
	if c.JWT.TTLMinutes < 0 {
		return fmt.Errorf("jwt ttl_minutes must be positive")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.Store.TimeoutSeconds < 0 {
		return fmt.Errorf("store timeout_seconds must be positive")
	}
	switch c.Store.Type {
	case StoreMemory:
	case StoreMongo, StorePostgres, StoreSQLite:
		if c.Store.URI == "" {
			return fmt.Errorf("store uri is required for %s store", c.Store.Type)
		}
	default:
		return fmt.Errorf("store type must be one of memory, mongo, postgres, sqlite")
	}
	return nil
}
