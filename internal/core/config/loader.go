package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v2"

	"github.com/vietddude/headlines/internal/api"
	"github.com/vietddude/headlines/internal/infra/netprobe"
	"github.com/vietddude/headlines/internal/infra/newsapi"
	"github.com/vietddude/headlines/internal/infra/storage"
)

// APIKeyEnv is consulted when newsapi.api_key is empty.
const APIKeyEnv = "NEWS_API_KEY"

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(data)
}

// LoadOptional behaves like Load but falls back to defaults when the file does not exist.
func LoadOptional(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return parse(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	def := api.DefaultConfig()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Port
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = def.ReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = def.WriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = def.IdleTimeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.NewsAPI.APIKey == "" {
		cfg.NewsAPI.APIKey = os.Getenv(APIKeyEnv)
	}
	if cfg.NewsAPI.BaseURL == "" {
		cfg.NewsAPI.BaseURL = newsapi.DefaultBaseURL
	}
	if cfg.NewsAPI.Country == "" {
		cfg.NewsAPI.Country = newsapi.DefaultCountry
	}
	if cfg.NewsAPI.Category == "" {
		cfg.NewsAPI.Category = newsapi.DefaultCategory
	}
	if cfg.NewsAPI.ConnectTimeout == 0 {
		cfg.NewsAPI.ConnectTimeout = newsapi.DefaultTimeout
	}
	if cfg.NewsAPI.ReadTimeout == 0 {
		cfg.NewsAPI.ReadTimeout = newsapi.DefaultTimeout
	}

	if cfg.Network.Mode == "" {
		cfg.Network.Mode = netprobe.ModeAuto
	}
	if cfg.Network.CheckAddress == "" {
		cfg.Network.CheckAddress = netprobe.DefaultCheckAddress
	}
	if cfg.Network.CheckInterval == 0 {
		cfg.Network.CheckInterval = netprobe.DefaultCheckInterval
	}
	if cfg.Network.DialTimeout == 0 {
		cfg.Network.DialTimeout = netprobe.DefaultDialTimeout
	}

	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = storage.DriverSQLite
	}
	if cfg.Cache.Driver == storage.DriverSQLite && cfg.Cache.Path == "" {
		cfg.Cache.Path = DefaultCachePath()
	}
}

// DefaultCachePath is the sqlite file under the user's cache directory.
func DefaultCachePath() string {
	return filepath.Join(xdg.CacheHome, "headlines", "cache.db")
}

// Validate checks option values and cross-section requirements.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format))
	}

	switch c.Network.Mode {
	case netprobe.ModeAuto, netprobe.ModeOnline, netprobe.ModeOffline:
	default:
		errs = append(errs, fmt.Errorf("network.mode must be auto, online or offline, got %q", c.Network.Mode))
	}

	switch c.Cache.Driver {
	case storage.DriverMemory, storage.DriverSQLite:
	case storage.DriverRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url is required for the redis cache driver"))
		}
	case storage.DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url is required for the postgres cache driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, c.Cache.Driver))
	}

	return errors.Join(errs...)
}
