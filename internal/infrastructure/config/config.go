package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Screens that accept a search field override
var Screens = []string{"accounts", "profiles", "plans", "services", "invoices"}

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Listing   ListingConfig
	Billing   BillingConfig
	Data      DataConfig
	Cache     CacheConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                string
	Issuer                string
	AccessTokenExpiration time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	TrustedProxies   []string
	CORSAllowOrigins []string
}

// ListingConfig holds list engine settings shared by every screen
type ListingConfig struct {
	PageSize             int
	DefaultSortField     string
	DefaultSortDirection string
	Locale               string
	// SearchFields narrows the fields taking part in searchTerm matching,
	// keyed by screen name. A missing screen keeps its full field list.
	SearchFields map[string][]string
}

// BillingConfig holds billing calculation settings
type BillingConfig struct {
	LateFeeRate decimal.Decimal
}

// DataConfig points at the record dataset loaded at startup
type DataConfig struct {
	Source          string // file or s3
	SeedFile        string
	RefreshInterval time.Duration // 0 disables periodic reloads
	Storage         StorageConfig
}

// StorageConfig holds S3-compatible object storage settings for the s3 source
type StorageConfig struct {
	Endpoint     string
	Region       string
	Bucket       string
	Key          string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	UsePathStyle bool
}

// CacheConfig holds billing summary cache settings
type CacheConfig struct {
	Backend string // none, memory or redis
	TTL     time.Duration

	// FallbackToMemory keeps the memory cache when Redis is unreachable
	FallbackToMemory bool
	Redis            RedisConfig
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TelemetryConfig holds OpenTelemetry tracing and metrics settings
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	Insecure          bool
	MetricsEnabled    bool
	MetricsInterval   time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with BILLADMIN_ prefix (e.g., BILLADMIN_JWT_SECRET)
// 2. Variables from an optional .env file
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("BILLADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	lateFee, err := parseDecimal(v.GetString("billing.late_fee_rate"))
	if err != nil {
		return nil, fmt.Errorf("billing.late_fee_rate: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			Issuer:                v.GetString("jwt.issuer"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		},
		Listing: ListingConfig{
			PageSize:             v.GetInt("listing.page_size"),
			DefaultSortField:     v.GetString("listing.default_sort_field"),
			DefaultSortDirection: v.GetString("listing.default_sort_direction"),
			Locale:               v.GetString("listing.locale"),
			SearchFields:         make(map[string][]string),
		},
		Billing: BillingConfig{
			LateFeeRate: lateFee,
		},
		Data: DataConfig{
			Source:          v.GetString("data.source"),
			SeedFile:        v.GetString("data.seed_file"),
			RefreshInterval: v.GetDuration("data.refresh_interval"),
			Storage: StorageConfig{
				Endpoint:     v.GetString("data.storage.endpoint"),
				Region:       v.GetString("data.storage.region"),
				Bucket:       v.GetString("data.storage.bucket"),
				Key:          v.GetString("data.storage.key"),
				AccessKey:    v.GetString("data.storage.access_key"),
				SecretKey:    v.GetString("data.storage.secret_key"),
				UseSSL:       v.GetBool("data.storage.use_ssl"),
				UsePathStyle: v.GetBool("data.storage.use_path_style"),
			},
		},
		Cache: CacheConfig{
			Backend:          v.GetString("cache.backend"),
			TTL:              v.GetDuration("cache.ttl"),
			FallbackToMemory: v.GetBool("cache.fallback_to_memory"),
			Redis: RedisConfig{
				Host:     v.GetString("cache.redis.host"),
				Port:     v.GetInt("cache.redis.port"),
				Password: v.GetString("cache.redis.password"),
				DB:       v.GetInt("cache.redis.db"),
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
		},
	}

	for _, screen := range Screens {
		if fields := v.GetStringSlice("listing.search_fields." + screen); len(fields) > 0 {
			cfg.Listing.SearchFields[screen] = fields
		}
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "billadmin"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "billadmin"
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Listing.PageSize == 0 {
		cfg.Listing.PageSize = 10
	}
	if cfg.Listing.DefaultSortField == "" {
		cfg.Listing.DefaultSortField = "createdAt"
	}
	if cfg.Listing.DefaultSortDirection == "" {
		cfg.Listing.DefaultSortDirection = "desc"
	}
	if cfg.Listing.Locale == "" {
		cfg.Listing.Locale = "en"
	}
	if cfg.Billing.LateFeeRate.IsZero() {
		cfg.Billing.LateFeeRate = decimal.RequireFromString("2.5")
	}
	if cfg.Data.Source == "" {
		cfg.Data.Source = "file"
	}
	if cfg.Data.SeedFile == "" {
		cfg.Data.SeedFile = "data/seed.json"
	}
	if cfg.Data.Storage.Region == "" {
		cfg.Data.Storage.Region = "us-east-1"
	}
	if cfg.Data.Storage.Key == "" {
		cfg.Data.Storage.Key = "billadmin/seed.json"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = time.Minute
	}
	if cfg.Cache.Redis.Host == "" {
		cfg.Cache.Redis.Host = "localhost"
	}
	if cfg.Cache.Redis.Port == 0 {
		cfg.Cache.Redis.Port = 6379
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Listing.PageSize < 0 {
		return fmt.Errorf("listing.page_size cannot be negative")
	}
	switch c.Listing.DefaultSortDirection {
	case "asc", "desc":
	default:
		return fmt.Errorf("listing.default_sort_direction must be asc or desc, got %q", c.Listing.DefaultSortDirection)
	}
	if c.Billing.LateFeeRate.IsNegative() {
		return fmt.Errorf("billing.late_fee_rate cannot be negative")
	}
	switch c.Data.Source {
	case "file":
	case "s3":
		if c.Data.Storage.Bucket == "" {
			return fmt.Errorf("data.storage.bucket is required for the s3 source")
		}
	default:
		return fmt.Errorf("data.source must be file or s3, got %q", c.Data.Source)
	}
	if c.Data.RefreshInterval < 0 {
		return fmt.Errorf("data.refresh_interval cannot be negative")
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be none, memory or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl cannot be negative")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0 and 1")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
	}

	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
