package cache

import (
	"fmt"

	"github.com/billadmin/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Backend names accepted by the factory
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// StoreFactory creates stores based on configuration
type StoreFactory struct {
	cfg    config.CacheConfig
	logger *zap.Logger
	dial   func(config.RedisConfig) (Store, error)
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.CacheConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		cfg:    cfg,
		logger: zap.NewNop(),
		dial: func(rc config.RedisConfig) (Store, error) {
			return NewRedisStore(rc)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore builds the configured backend. When Redis cannot be reached
// and FallbackToMemory is set, a MemoryStore is returned instead.
func (f *StoreFactory) CreateStore() (Store, error) {
	switch f.cfg.Backend {
	case BackendNone:
		f.logger.Info("Summary cache disabled")
		return NopStore{}, nil
	case "", BackendMemory:
		f.logger.Info("Using in-memory summary cache", zap.Duration("ttl", f.cfg.TTL))
		return NewMemoryStore(), nil
	case BackendRedis:
		store, err := f.dial(f.cfg.Redis)
		if err == nil {
			f.logger.Info("Using Redis summary cache",
				zap.String("host", f.cfg.Redis.Host),
				zap.Int("port", f.cfg.Redis.Port),
				zap.Duration("ttl", f.cfg.TTL),
			)
			return store, nil
		}
		if !f.cfg.FallbackToMemory {
			return nil, fmt.Errorf("redis cache unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory summary cache. "+
			"Instances will not share cached summaries.",
			zap.Error(err),
		)
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", f.cfg.Backend)
	}
}
