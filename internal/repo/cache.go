package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/itinerary-planner/backend/internal/domain"
)

// activityKeyPrefix namespaces cached activity records in Redis.
const activityKeyPrefix = "itinerary:activity:"

// DefaultActivityCacheTTL is used when NewCachedActivityRepo is given a zero TTL.
const DefaultActivityCacheTTL = 5 * time.Minute

// cachedActivityRepo is a read-through Redis cache in front of another
// ActivityRepo. Reads are served from Redis when possible; writes go to the
// inner repo and then evict the affected keys.
//
// Redis failures never fail a request: reads fall through to the inner repo
// and are logged at warn level.
type cachedActivityRepo struct {
	inner ActivityRepo
	rdb   redis.UniversalClient
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedActivityRepo wraps inner with a Redis read-through cache.
func NewCachedActivityRepo(inner ActivityRepo, rdb redis.UniversalClient, ttl time.Duration, log *slog.Logger) ActivityRepo {
	if ttl <= 0 {
		ttl = DefaultActivityCacheTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &cachedActivityRepo{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func activityKey(id uuid.UUID) string {
	return activityKeyPrefix + id.String()
}

func (c *cachedActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return c.inner.Create(ctx, a)
}

// GetByID serves a single activity from cache, loading and storing it on a miss.
func (c *cachedActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	found, err := c.FindByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return domain.Activity{}, err
	}
	if len(found) == 0 {
		return domain.Activity{}, fmt.Errorf("repo.CachedActivityRepo.GetByID: %w", domain.ErrNotFound)
	}
	return found[0], nil
}

// FindByIDs fetches all keys with one MGET, loads the misses from the inner
// repo in one call, and writes them back with one pipeline.
func (c *cachedActivityRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Activity, error) {
	if len(ids) == 0 {
		return []domain.Activity{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = activityKey(id)
	}

	out := make([]domain.Activity, 0, len(ids))
	var misses []uuid.UUID

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.WarnContext(ctx, "activity cache read failed", "error", err)
		misses = ids
	} else {
		for i, v := range vals {
			a, ok := decodeCached(v)
			if !ok {
				misses = append(misses, ids[i])
				continue
			}
			out = append(out, a)
		}
	}

	if len(misses) == 0 {
		return out, nil
	}

	loaded, err := c.inner.FindByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	c.store(ctx, loaded)

	return append(out, loaded...), nil
}

func (c *cachedActivityRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Activity, int64, error) {
	return c.inner.ListPaged(ctx, p)
}

func (c *cachedActivityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	updated, err := c.inner.Update(ctx, a)
	if err != nil {
		return domain.Activity{}, err
	}
	c.evict(ctx, activityKey(a.ID))
	return updated, nil
}

func (c *cachedActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.evict(ctx, activityKey(id))
	return nil
}

// DeleteAll clears the inner repo, then drops every cached activity key.
func (c *cachedActivityRepo) DeleteAll(ctx context.Context) (int64, error) {
	n, err := c.inner.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	var keys []string
	iter := c.rdb.Scan(ctx, 0, activityKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.WarnContext(ctx, "activity cache scan failed", "error", err)
		return n, nil
	}
	c.evict(ctx, keys...)
	return n, nil
}

// store writes activities to Redis. Failures are logged and otherwise ignored.
func (c *cachedActivityRepo) store(ctx context.Context, activities []domain.Activity) {
	if len(activities) == 0 {
		return
	}
	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, a := range activities {
			b, err := json.Marshal(a)
			if err != nil {
				return err
			}
			pipe.Set(ctx, activityKey(a.ID), b, c.ttl)
		}
		return nil
	})
	if err != nil {
		c.log.WarnContext(ctx, "activity cache write failed", "error", err)
	}
}

func (c *cachedActivityRepo) evict(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		c.log.WarnContext(ctx, "activity cache evict failed", "error", err)
	}
}

// decodeCached turns one MGET value into an Activity. A nil value is a miss;
// an undecodable value is treated as a miss too.
func decodeCached(v any) (domain.Activity, bool) {
	s, ok := v.(string)
	if !ok {
		return domain.Activity{}, false
	}
	var a domain.Activity
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return domain.Activity{}, false
	}
	return a, true
}
