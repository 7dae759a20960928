package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Topsis/internal/criteria"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Engine   EngineConfig   `yaml:"engine"`
	Ranking  RankingConfig  `yaml:"ranking"`
	Criteria criteria.Set   `yaml:"criteria"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port               int    `yaml:"port"`
	MetricsPort        int    `yaml:"metrics_port"`
	AdminToken         string `yaml:"admin_token"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type DatasetConfig struct {
	Path             string `yaml:"path"`
	IDColumn         string `yaml:"id_column"`
	ImageURLTemplate string `yaml:"image_url_template"`
	CacheTTLSeconds  int    `yaml:"cache_ttl_seconds"`
}

type EngineConfig struct {
	Epsilon float64 `yaml:"epsilon"`
}

type RankingConfig struct {
	DefaultTopN int `yaml:"default_top_n"`
	PodiumSize  int `yaml:"podium_size"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Dataset.CacheTTLSeconds) * time.Second
}

// Validate checks the parts of the configuration a ranking depends on.
func (c *Config) Validate() error {
	if err := c.Criteria.Validate(); err != nil {
		return fmt.Errorf("criteria: %w", err)
	}
	if c.Engine.Epsilon <= 0 {
		return fmt.Errorf("engine epsilon must be positive, got %v", c.Engine.Epsilon)
	}
	if c.Dataset.IDColumn == "" {
		return fmt.Errorf("dataset id_column is required")
	}
	if c.Ranking.DefaultTopN <= 0 {
		return fmt.Errorf("ranking default_top_n must be positive, got %d", c.Ranking.DefaultTopN)
	}
	return nil
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 120,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Dataset: DatasetConfig{
			Path:             "data/smartphones.csv",
			IDColumn:         "Alternative",
			ImageURLTemplate: "https://placehold.co/500x500/EAEAEA/000000?text={label}&font=roboto",
			CacheTTLSeconds:  300,
		},
		Engine: EngineConfig{
			Epsilon: topsis.DefaultEpsilon,
		},
		Ranking: RankingConfig{
			DefaultTopN: 10,
			PodiumSize:  3,
		},
		Criteria: criteria.Default(),
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxAgeDays: 28,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TOPSIS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("TOPSIS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("TOPSIS_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("TOPSIS_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("TOPSIS_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("TOPSIS_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("TOPSIS_DATASET_PATH"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("TOPSIS_DATASET_ID_COLUMN"); v != "" {
		cfg.Dataset.IDColumn = v
	}
	if v := os.Getenv("TOPSIS_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Dataset.CacheTTLSeconds = n
		}
	}
	if v := os.Getenv("TOPSIS_ENGINE_EPSILON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.Epsilon = f
		}
	}
	if v := os.Getenv("TOPSIS_DEFAULT_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ranking.DefaultTopN = n
		}
	}
	if v := os.Getenv("TOPSIS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TOPSIS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TOPSIS_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}
