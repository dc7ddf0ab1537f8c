package config

import (
	"github.com/vietddude/headlines/internal/api"
	"github.com/vietddude/headlines/internal/infra/netprobe"
	"github.com/vietddude/headlines/internal/infra/newsapi"
	redisclient "github.com/vietddude/headlines/internal/infra/redis"
	"github.com/vietddude/headlines/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   api.Config         `yaml:"server"`
	Logging  LoggingConfig      `yaml:"logging"`
	NewsAPI  newsapi.Config     `yaml:"newsapi"`
	Network  netprobe.Config    `yaml:"network"`
	Cache    CacheConfig        `yaml:"cache"`
	Redis    redisclient.Config `yaml:"redis"`
	Database postgres.Config    `yaml:"database"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// CacheConfig selects where the article snapshot is stored.
type CacheConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite, redis, postgres
	Path   string `yaml:"path"`   // sqlite only
}
