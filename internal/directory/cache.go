package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vetfinder-my/platform/pkg/logging"
)

const listingKey = "directory:clinics"

// CachedRepository wraps a Repository with a Redis read-through cache for
// the full listing, which the public browse and search pages hit on every
// request. Writes pass through and drop the cached listing.
type CachedRepository struct {
	inner  Repository
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedRepository wraps a repository with a listing cache.
func NewCachedRepository(inner Repository, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedRepository {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepository{inner: inner, redis: redisClient, ttl: ttl, logger: logger}
}

func (r *CachedRepository) SelectAll(ctx context.Context) ([]Clinic, error) {
	data, err := r.redis.Get(ctx, listingKey).Bytes()
	if err == nil {
		var out []Clinic
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		// Corrupt cache entry: fall through to the store and rewrite it.
		r.logger.Warn("directory cache: dropping unreadable listing entry")
	} else if err != redis.Nil {
		r.logger.Warn("directory cache: read failed", "error", err)
	}

	out, err := r.inner.SelectAll(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(out); err == nil {
		if err := r.redis.Set(ctx, listingKey, data, r.ttl).Err(); err != nil {
			r.logger.Warn("directory cache: write failed", "error", err)
		}
	}
	return out, nil
}

func (r *CachedRepository) SelectByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return r.inner.SelectByID(ctx, id)
}

func (r *CachedRepository) Insert(ctx context.Context, c Clinic) (*Clinic, error) {
	created, err := r.inner.Insert(ctx, c)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return created, nil
}

func (r *CachedRepository) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Clinic, error) {
	updated, err := r.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return updated, nil
}

func (r *CachedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedRepository) invalidate(ctx context.Context) {
	if err := r.redis.Del(ctx, listingKey).Err(); err != nil {
		r.logger.Warn("directory cache: invalidate failed", "error", fmt.Errorf("del %s: %w", listingKey, err))
	}
}
