package inmemory

import (
	"context"
	"sync"
	"time"

	groupsdomain "social-app-go/internal/domain/groups"
)

type GroupCache struct {
	mu    sync.RWMutex
	items map[string]groupItem
	now   func() time.Time
}

type groupItem struct {
	value     groupsdomain.Group
	expiresAt time.Time
}

func NewGroupCache() *GroupCache {
	return &GroupCache{
		items: make(map[string]groupItem),
		now:   time.Now,
	}
}

func (c *GroupCache) GetBySlug(_ context.Context, slug string) (*groupsdomain.Group, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[slug]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[slug]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, slug)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	return &value, true
}

func (c *GroupCache) SetBySlug(ctx context.Context, slug string, group *groupsdomain.Group, ttl time.Duration) {
	if group == nil || ttl <= 0 {
		c.DeleteBySlug(ctx, slug)
		return
	}

	c.mu.Lock()
	c.items[slug] = groupItem{
		value:     *group,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *GroupCache) DeleteBySlug(_ context.Context, slug string) {
	c.mu.Lock()
	delete(c.items, slug)
	c.mu.Unlock()
}
