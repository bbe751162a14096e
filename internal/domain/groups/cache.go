package groups

import (
	"context"
	"time"
)

// Cache holds groups by slug. Counts are never cached.
type Cache interface {
	GetBySlug(ctx context.Context, slug string) (*Group, bool)
	SetBySlug(ctx context.Context, slug string, group *Group, ttl time.Duration)
	DeleteBySlug(ctx context.Context, slug string)
}

type noopCache struct{}

func (noopCache) GetBySlug(context.Context, string) (*Group, bool) {
	return nil, false
}

func (noopCache) SetBySlug(context.Context, string, *Group, time.Duration) {}

func (noopCache) DeleteBySlug(context.Context, string) {}
