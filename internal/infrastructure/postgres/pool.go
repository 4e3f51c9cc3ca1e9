package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type PoolConfig struct {
	DSN         string
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
	Attempts    int
	RetryDelay  time.Duration
}

func NewPool(ctx context.Context, dsn string, maxConns, minConns int32, maxConnLife time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxConnLife
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Connect opens the pool, retrying a fixed number of times with a fixed delay.
// The last error is returned once all attempts fail.
func Connect(ctx context.Context, pc PoolConfig, logger *logrus.Logger) (*pgxpool.Pool, error) {
	attempts := pc.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 1; i <= attempts; i++ {
		pool, err := NewPool(ctx, pc.DSN, pc.MaxConns, pc.MinConns, pc.MaxConnLife)
		if err == nil {
			logger.WithField("attempt", i).Info("connected to postgres")
			return pool, nil
		}
		lastErr = err
		logger.WithError(err).WithFields(logrus.Fields{"attempt": i, "of": attempts}).Warn("postgres connection failed")
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pc.RetryDelay):
		}
	}
	return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", attempts, lastErr)
}
