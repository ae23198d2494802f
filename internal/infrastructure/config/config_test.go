package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"BILLADMIN_APP_NAME":                       os.Getenv("BILLADMIN_APP_NAME"),
		"BILLADMIN_APP_ENV":                        os.Getenv("BILLADMIN_APP_ENV"),
		"BILLADMIN_APP_PORT":                       os.Getenv("BILLADMIN_APP_PORT"),
		"BILLADMIN_JWT_SECRET":                     os.Getenv("BILLADMIN_JWT_SECRET"),
		"BILLADMIN_LISTING_PAGE_SIZE":              os.Getenv("BILLADMIN_LISTING_PAGE_SIZE"),
		"BILLADMIN_LISTING_DEFAULT_SORT_DIRECTION": os.Getenv("BILLADMIN_LISTING_DEFAULT_SORT_DIRECTION"),
		"BILLADMIN_LISTING_SEARCH_FIELDS_INVOICES": os.Getenv("BILLADMIN_LISTING_SEARCH_FIELDS_INVOICES"),
		"BILLADMIN_BILLING_LATE_FEE_RATE":          os.Getenv("BILLADMIN_BILLING_LATE_FEE_RATE"),
		"BILLADMIN_DATA_SEED_FILE":                 os.Getenv("BILLADMIN_DATA_SEED_FILE"),
		"BILLADMIN_JWT_ACCESS_TOKEN_EXPIRATION":    os.Getenv("BILLADMIN_JWT_ACCESS_TOKEN_EXPIRATION"),
		"BILLADMIN_DATA_SOURCE":                    os.Getenv("BILLADMIN_DATA_SOURCE"),
		"BILLADMIN_DATA_STORAGE_BUCKET":            os.Getenv("BILLADMIN_DATA_STORAGE_BUCKET"),
		"BILLADMIN_DATA_REFRESH_INTERVAL":          os.Getenv("BILLADMIN_DATA_REFRESH_INTERVAL"),
		"BILLADMIN_TELEMETRY_ENABLED":              os.Getenv("BILLADMIN_TELEMETRY_ENABLED"),
		"BILLADMIN_TELEMETRY_SAMPLING_RATIO":       os.Getenv("BILLADMIN_TELEMETRY_SAMPLING_RATIO"),
		"BILLADMIN_CACHE_BACKEND":                  os.Getenv("BILLADMIN_CACHE_BACKEND"),
		"BILLADMIN_CACHE_TTL":                      os.Getenv("BILLADMIN_CACHE_TTL"),
		"BILLADMIN_CACHE_REDIS_PORT":               os.Getenv("BILLADMIN_CACHE_REDIS_PORT"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "billadmin", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, 10, cfg.Listing.PageSize)
		assert.Equal(t, "createdAt", cfg.Listing.DefaultSortField)
		assert.Equal(t, "desc", cfg.Listing.DefaultSortDirection)
		assert.Empty(t, cfg.Listing.SearchFields)
		assert.True(t, decimal.RequireFromString("2.5").Equal(cfg.Billing.LateFeeRate))
		assert.Equal(t, "data/seed.json", cfg.Data.SeedFile)
		assert.Equal(t, "file", cfg.Data.Source)
		assert.Zero(t, cfg.Data.RefreshInterval)
		assert.Equal(t, "billadmin/seed.json", cfg.Data.Storage.Key)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.False(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "localhost:4317", cfg.Telemetry.CollectorEndpoint)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, time.Minute, cfg.Telemetry.MetricsInterval)
		assert.Equal(t, "memory", cfg.Cache.Backend)
		assert.Equal(t, time.Minute, cfg.Cache.TTL)
		assert.Equal(t, "localhost", cfg.Cache.Redis.Host)
		assert.Equal(t, 6379, cfg.Cache.Redis.Port)
	})

	t.Run("loads the s3 source with a bucket", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_DATA_SOURCE", "s3")
		os.Setenv("BILLADMIN_DATA_STORAGE_BUCKET", "billing-snapshots")
		os.Setenv("BILLADMIN_DATA_REFRESH_INTERVAL", "5m")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "s3", cfg.Data.Source)
		assert.Equal(t, "billing-snapshots", cfg.Data.Storage.Bucket)
		assert.Equal(t, 5*time.Minute, cfg.Data.RefreshInterval)
	})

	t.Run("requires a bucket for the s3 source", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_DATA_SOURCE", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data.storage.bucket")
	})

	t.Run("rejects an unknown data source", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_DATA_SOURCE", "ftp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data.source")
	})

	t.Run("rejects a sampling ratio above one", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_TELEMETRY_ENABLED", "true")
		os.Setenv("BILLADMIN_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("loads the redis cache settings", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_CACHE_BACKEND", "redis")
		os.Setenv("BILLADMIN_CACHE_TTL", "30s")
		os.Setenv("BILLADMIN_CACHE_REDIS_PORT", "6380")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "redis", cfg.Cache.Backend)
		assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
		assert.Equal(t, 6380, cfg.Cache.Redis.Port)
	})

	t.Run("rejects an unknown cache backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_CACHE_BACKEND", "memcached")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache.backend")
	})

	t.Run("loads values from environment variables with BILLADMIN prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_APP_NAME", "test-app")
		os.Setenv("BILLADMIN_APP_PORT", "9000")
		os.Setenv("BILLADMIN_LISTING_PAGE_SIZE", "25")
		os.Setenv("BILLADMIN_LISTING_DEFAULT_SORT_DIRECTION", "asc")
		os.Setenv("BILLADMIN_LISTING_SEARCH_FIELDS_INVOICES", "invoiceNumber accountName")
		os.Setenv("BILLADMIN_BILLING_LATE_FEE_RATE", "3.75")
		os.Setenv("BILLADMIN_DATA_SEED_FILE", "/tmp/records.json")
		os.Setenv("BILLADMIN_JWT_ACCESS_TOKEN_EXPIRATION", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, 25, cfg.Listing.PageSize)
		assert.Equal(t, "asc", cfg.Listing.DefaultSortDirection)
		assert.Equal(t, []string{"invoiceNumber", "accountName"}, cfg.Listing.SearchFields["invoices"])
		assert.True(t, decimal.RequireFromString("3.75").Equal(cfg.Billing.LateFeeRate))
		assert.Equal(t, "/tmp/records.json", cfg.Data.SeedFile)
		assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiration)
	})

	t.Run("rejects an unparsable late fee rate", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_BILLING_LATE_FEE_RATE", "two")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "late_fee_rate")
	})

	t.Run("rejects an unknown sort direction", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_LISTING_DEFAULT_SORT_DIRECTION", "sideways")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "default_sort_direction")
	})

	t.Run("requires jwt secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required")
	})

	t.Run("requires a long jwt secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_APP_ENV", "production")
		os.Setenv("BILLADMIN_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("accepts production with a strong secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLADMIN_APP_ENV", "production")
		os.Setenv("BILLADMIN_JWT_SECRET", "this-is-a-very-long-secret-key-for-production")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Listing: ListingConfig{PageSize: 50, DefaultSortField: "name"},
		Billing: BillingConfig{LateFeeRate: decimal.NewFromInt(4)},
	}
	applyDefaults(cfg)

	assert.Equal(t, 50, cfg.Listing.PageSize)
	assert.Equal(t, "name", cfg.Listing.DefaultSortField)
	assert.True(t, decimal.NewFromInt(4).Equal(cfg.Billing.LateFeeRate))
	assert.Equal(t, "desc", cfg.Listing.DefaultSortDirection)
}
