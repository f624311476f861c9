package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MaxPagesCeiling is the hard page limit per run, regardless of what the
// caller asks for.
const MaxPagesCeiling = 3

// Config holds all runtime settings for the scraper.
type Config struct {
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ScraperConfig controls the search run and the browser session.
type ScraperConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Keyword     string        `mapstructure:"keyword"`
	MaxPages    int           `mapstructure:"max_pages"`
	Headless    bool          `mapstructure:"headless"`
	PageDelay   time.Duration `mapstructure:"page_delay"`
	WaitTimeout time.Duration `mapstructure:"wait_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	CSVPath     string        `mapstructure:"csv_path"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Load reads configuration from an optional config.yaml, FLIPKART_* environment
// variables, and defaults, in that order of precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("FLIPKART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; env vars and defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scraper.base_url", "https://www.flipkart.com")
	v.SetDefault("scraper.keyword", "smartphone")
	v.SetDefault("scraper.max_pages", MaxPagesCeiling)
	v.SetDefault("scraper.headless", true)
	v.SetDefault("scraper.page_delay", "2s")
	v.SetDefault("scraper.wait_timeout", "15s")
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("scraper.csv_path", "output/products.csv")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "flipkart_scraper")
	v.SetDefault("database.sslmode", "disable")
}

func validate(cfg *Config) error {
	if cfg.Scraper.BaseURL == "" {
		return fmt.Errorf("scraper base URL is required")
	}
	if cfg.Scraper.MaxPages < 1 {
		cfg.Scraper.MaxPages = 1
	}
	if cfg.Scraper.MaxPages > MaxPagesCeiling {
		cfg.Scraper.MaxPages = MaxPagesCeiling
	}
	if cfg.Scraper.PageDelay < 0 {
		return fmt.Errorf("page delay must not be negative")
	}
	if cfg.Scraper.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be positive")
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	return nil
}
