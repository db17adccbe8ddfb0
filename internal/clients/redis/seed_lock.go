package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
	"github.com/phoenixvc/mystira-backend/internal/utils"
)

// SeedLock serializes master-data seeding across concurrently starting
// instances. The per-catalog existence checks already make seeding
// idempotent; the lock just keeps two instances from racing the same
// bounded-fetch window.
type SeedLock interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
	Close() error
}

type seedLock struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewSeedLock(logg *logger.Logger) (SeedLock, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", logg))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &seedLock{
		log:    logg.With("service", "RedisSeedLock"),
		rdb:    rdb,
		prefix: "mystira:seed:",
	}, nil
}

func (l *seedLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, l.prefix+name, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (l *seedLock) Release(ctx context.Context, name string) error {
	return l.rdb.Del(ctx, l.prefix+name).Err()
}

func (l *seedLock) Close() error {
	return l.rdb.Close()
}
