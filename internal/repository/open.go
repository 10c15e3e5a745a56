package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"redfragances/internal/config"
)

// Open builds the Store selected by cfg. The returned close func releases the
// backend's connections and is never nil.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.OpenTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.OpenTimeout)
		defer cancel()
	}
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", config.BackendMemory:
		logger.Info("using in-memory store; data is lost on restart")
		return NewMemoryStore(), noop, nil
	case config.BackendFile:
		logger.Info("using file store", zap.String("dir", cfg.Dir))
		return NewFileStore(cfg.Dir), noop, nil
	case config.BackendSQLite:
		s, err := OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using sqlite store", zap.String("path", cfg.DSN))
		return s, s.Close, nil
	case config.BackendPostgres:
		s, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using postgres store")
		return s, s.Close, nil
	case config.BackendRedis:
		s, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.KeyPrefix)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using redis store", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
		return s, s.Close, nil
	case config.BackendNATS:
		s, err := OpenNATS(cfg.NATSURL, cfg.NATSBucket)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using nats key-value store", zap.String("url", cfg.NATSURL), zap.String("bucket", cfg.NATSBucket))
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
