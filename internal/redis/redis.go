package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/playmatatu/cuesim/internal/config"
	"github.com/redis/go-redis/v9"
)

var ErrNoRedis = errors.New("REDIS_URL is not set")

// Open connects to Redis and returns the table store for cfg.TableID.
// Timeouts come from cfg.ConnectTimeout; the client is named after the table
// so CLIENT LIST shows which server holds which connection.
func Open(ctx context.Context, cfg *config.Config) (*TableStore, error) {
	if cfg.RedisURL == "" {
		return nil, ErrNoRedis
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.ClientName = "cuesim-" + cfg.TableID
	if cfg.ConnectTimeout > 0 {
		opt.DialTimeout = cfg.ConnectTimeout
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewTableStore(client, cfg.SnapshotTTL), nil
}
