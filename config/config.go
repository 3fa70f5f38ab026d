package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

type Config struct {
	Log          Logger       `mapstructure:"logger"`
	API          API          `mapstructure:"api"`
	Storage      Storage      `mapstructure:"storage"`
	DB           Database     `mapstructure:"database"`
	AlphaVantage AlphaVantage `mapstructure:"alpha_vantage"`
	Quote        Quote        `mapstructure:"quote"`
	Cache        Cache        `mapstructure:"cache"`
	Scheduler    Scheduler    `mapstructure:"scheduler"`
	Demo         Demo         `mapstructure:"demo"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port             int           `mapstructure:"port"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitPerSec  float64       `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst   int           `mapstructure:"rate_limit_burst"`
	RateLimitExpires time.Duration `mapstructure:"rate_limit_expires"`
}

type Storage struct {
	Driver string `mapstructure:"driver"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
	MigrationsPath  string `mapstructure:"migrations_path"`
}

type AlphaVantage struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	RetryCount          int           `mapstructure:"retry_count"`
}

type Quote struct {
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	CompanyInfoTTL    time.Duration `mapstructure:"company_info_ttl"`
}

type Scheduler struct {
	RefreshPricesCron string        `mapstructure:"refresh_prices_cron"`
	TimeoutDuration   time.Duration `mapstructure:"timeout_duration"`
}

type Demo struct {
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	PortfolioName string `mapstructure:"portfolio_name"`
	SeedHoldings  bool   `mapstructure:"seed_holdings"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	v.SetDefault("api.port", 5000)
	v.SetDefault("api.shutdown_timeout", 10*time.Second)
	v.SetDefault("api.rate_limit_per_sec", 10)
	v.SetDefault("api.rate_limit_burst", 30)
	v.SetDefault("api.rate_limit_expires", 3*time.Minute)

	v.SetDefault("storage.driver", StorageDriverMemory)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "portfolio")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.time_zone", "")
	v.SetDefault("database.max_idle_conns", 0)
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.conn_max_lifetime", "")
	v.SetDefault("database.log_level", "Warn")
	v.SetDefault("database.migrations_path", "file://migrations")

	v.SetDefault("alpha_vantage.base_url", "https://www.alphavantage.co")
	v.SetDefault("alpha_vantage.api_key", "demo")
	v.SetDefault("alpha_vantage.timeout", 10*time.Second)
	v.SetDefault("alpha_vantage.max_request_per_minute", 0)
	v.SetDefault("alpha_vantage.retry_count", 0)

	v.SetDefault("quote.max_concurrency", 5)

	v.SetDefault("cache.default_expiration", 10*time.Minute)
	v.SetDefault("cache.cleanup_interval", 15*time.Minute)
	v.SetDefault("cache.company_info_ttl", 24*time.Hour)

	v.SetDefault("scheduler.refresh_prices_cron", "")
	v.SetDefault("scheduler.timeout_duration", 2*time.Minute)

	v.SetDefault("demo.username", "demo")
	v.SetDefault("demo.password", "demo123")
	v.SetDefault("demo.portfolio_name", "AUROVA Portfolio")
	v.SetDefault("demo.seed_holdings", true)
}

// Load reads config.yaml from the working directory, then lets environment
// variables (and a local .env file) override it, e.g. ALPHA_VANTAGE_API_KEY.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverMemory, StorageDriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Quote.MaxConcurrency <= 0 {
		return fmt.Errorf("quote.max_concurrency must be positive, got %d", c.Quote.MaxConcurrency)
	}
	if c.AlphaVantage.RetryCount < 0 {
		return fmt.Errorf("alpha_vantage.retry_count must not be negative, got %d", c.AlphaVantage.RetryCount)
	}
	return nil
}
