package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tenderops/procurement-backend/internal/masters/domain"
)

const (
	orgKeyPrefix  = "master:org:"  // Cached organisation: master:org:{id}
	itemKeyPrefix = "master:item:" // Cached item: master:item:{id}
	locKeyPrefix  = "master:loc:"  // Cached location: master:loc:{id}

	defaultCacheTTL = time.Hour
)

// CachedRepository is a read-through cache in front of the masters
// repository. Master rows change rarely but are read on every project code
// generation, so the three getters go through Redis. Cache failures degrade
// to plain DB reads.
type CachedRepository struct {
	*Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCached wraps repo with a Redis read-through cache.
func NewCached(repo *Repository, client *redis.Client, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedRepository{Repository: repo, client: client, ttl: ttl}
}

func (c *CachedRepository) GetOrganisation(ctx context.Context, id int64) (*domain.Organisation, error) {
	key := fmt.Sprintf("%s%d", orgKeyPrefix, id)

	if data, err := c.client.Get(ctx, key).Result(); err == nil {
		var o domain.Organisation
		if err := json.Unmarshal([]byte(data), &o); err == nil {
			return &o, nil
		}
	}

	o, err := c.Repository.GetOrganisation(ctx, id)
	if err != nil || o == nil {
		return o, err
	}
	c.store(ctx, key, o)
	return o, nil
}

func (c *CachedRepository) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	key := fmt.Sprintf("%s%d", itemKeyPrefix, id)

	if data, err := c.client.Get(ctx, key).Result(); err == nil {
		var it domain.Item
		if err := json.Unmarshal([]byte(data), &it); err == nil {
			return &it, nil
		}
	}

	it, err := c.Repository.GetItem(ctx, id)
	if err != nil || it == nil {
		return it, err
	}
	c.store(ctx, key, it)
	return it, nil
}

func (c *CachedRepository) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	key := fmt.Sprintf("%s%d", locKeyPrefix, id)

	if data, err := c.client.Get(ctx, key).Result(); err == nil {
		var l domain.Location
		if err := json.Unmarshal([]byte(data), &l); err == nil {
			return &l, nil
		}
	}

	l, err := c.Repository.GetLocation(ctx, id)
	if err != nil || l == nil {
		return l, err
	}
	c.store(ctx, key, l)
	return l, nil
}

func (c *CachedRepository) DeleteOrganisation(ctx context.Context, id int64) error {
	if err := c.Repository.DeleteOrganisation(ctx, id); err != nil {
		return err
	}
	c.client.Del(ctx, fmt.Sprintf("%s%d", orgKeyPrefix, id))
	return nil
}

func (c *CachedRepository) DeleteItem(ctx context.Context, id int64) error {
	if err := c.Repository.DeleteItem(ctx, id); err != nil {
		return err
	}
	c.client.Del(ctx, fmt.Sprintf("%s%d", itemKeyPrefix, id))
	return nil
}

func (c *CachedRepository) DeleteLocation(ctx context.Context, id int64) error {
	if err := c.Repository.DeleteLocation(ctx, id); err != nil {
		return err
	}
	c.client.Del(ctx, fmt.Sprintf("%s%d", locKeyPrefix, id))
	return nil
}

func (c *CachedRepository) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}
