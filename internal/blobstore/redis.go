package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/terraincognita07/lunara/internal/logger"
)

const DefaultRedisPrefix = "lunara:"

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Redis struct {
	rdb    *goredis.Client
	prefix string
	log    *logger.Logger
}

// NewRedis connects and pings before returning so a bad address fails at
// startup instead of on the first request.
func NewRedis(ctx context.Context, options RedisOptions, log *logger.Logger) (*Redis, error) {
	addr := strings.TrimSpace(options.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if log == nil {
		log = logger.Nop()
	}
	prefix := options.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    options.Password,
		DB:          options.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{
		rdb:    rdb,
		prefix: prefix,
		log:    log.With("store", "RedisBlobStore"),
	}, nil
}

func (store *Redis) key(key string) string {
	return store.prefix + key
}

func (store *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := store.rdb.Get(ctx, store.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (store *Redis) Set(ctx context.Context, key string, value []byte) error {
	return store.rdb.Set(ctx, store.key(key), value, 0).Err()
}

func (store *Redis) Close() error {
	if store == nil || store.rdb == nil {
		return nil
	}
	return store.rdb.Close()
}
