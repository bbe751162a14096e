// Package redis keeps read caches in Redis, encoded with msgpack.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"social-app-go/internal/config"
	groupsdomain "social-app-go/internal/domain/groups"
	"social-app-go/pkg/logger"
)

const (
	groupKeyPrefix   = "groups:slug:"
	operationTimeout = 500 * time.Millisecond
)

func NewClient(ctx context.Context, cfg config.CacheConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// GroupCache stores groups by slug. Redis failures are logged and treated as misses.
type GroupCache struct {
	client goredis.UniversalClient
	log    logger.Logger
}

type cachedGroup struct {
	ID          string    `msgpack:"id"`
	Name        string    `msgpack:"name"`
	Slug        string    `msgpack:"slug"`
	Description string    `msgpack:"description"`
	CreatedAt   time.Time `msgpack:"created_at"`
}

func NewGroupCache(client goredis.UniversalClient, log logger.Logger) *GroupCache {
	return &GroupCache{client: client, log: log}
}

func (c *GroupCache) GetBySlug(ctx context.Context, slug string) (*groupsdomain.Group, bool) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, groupKeyPrefix+slug).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("cache: redis get failed", "slug", slug, "err", err)
		}
		return nil, false
	}

	var cached cachedGroup
	if err := msgpack.Unmarshal(data, &cached); err != nil {
		c.log.Warn("cache: decode group failed", "slug", slug, "err", err)
		return nil, false
	}

	return &groupsdomain.Group{
		ID:          cached.ID,
		Name:        cached.Name,
		Slug:        cached.Slug,
		Description: cached.Description,
		CreatedAt:   cached.CreatedAt,
	}, true
}

func (c *GroupCache) SetBySlug(ctx context.Context, slug string, group *groupsdomain.Group, ttl time.Duration) {
	if group == nil || ttl <= 0 {
		c.DeleteBySlug(ctx, slug)
		return
	}

	data, err := msgpack.Marshal(cachedGroup{
		ID:          group.ID,
		Name:        group.Name,
		Slug:        group.Slug,
		Description: group.Description,
		CreatedAt:   group.CreatedAt,
	})
	if err != nil {
		c.log.Warn("cache: encode group failed", "slug", slug, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()
	if err := c.client.Set(ctx, groupKeyPrefix+slug, data, ttl).Err(); err != nil {
		c.log.Warn("cache: redis set failed", "slug", slug, "err", err)
	}
}

func (c *GroupCache) DeleteBySlug(ctx context.Context, slug string) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()
	if err := c.client.Del(ctx, groupKeyPrefix+slug).Err(); err != nil {
		c.log.Warn("cache: redis delete failed", "slug", slug, "err", err)
	}
}
