package refclient

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/smartcity/staff-service/internal/domain"
)

// CachedResolver caches resolved references in Redis so repeated list
// enrichment does not hammer the location service. Only successful
// resolutions are cached; not-found and failures always fall through.
type CachedResolver struct {
	next   Resolver
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedResolver wraps a resolver with a Redis cache. A zero ttl or nil
// client disables caching.
func NewCachedResolver(next Resolver, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedResolver {
	return &CachedResolver{next: next, client: client, ttl: ttl, logger: logger}
}

// GetCity resolves a city, preferring the cache.
func (r *CachedResolver) GetCity(ctx context.Context, id, token string) (*domain.CityRef, error) {
	key := "ref:city:" + id
	var cached domain.CityRef
	if r.lookup(ctx, key, &cached) {
		return &cached, nil
	}
	city, err := r.next.GetCity(ctx, id, token)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, city)
	return city, nil
}

// GetVillage resolves a village, preferring the cache.
func (r *CachedResolver) GetVillage(ctx context.Context, id, token string) (*domain.VillageRef, error) {
	key := "ref:village:" + id
	var cached domain.VillageRef
	if r.lookup(ctx, key, &cached) {
		return &cached, nil
	}
	village, err := r.next.GetVillage(ctx, id, token)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, village)
	return village, nil
}

func (r *CachedResolver) enabled() bool {
	return r.client != nil && r.ttl > 0
}

func (r *CachedResolver) lookup(ctx context.Context, key string, out any) bool {
	if !r.enabled() {
		return false
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Debug("reference cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

func (r *CachedResolver) store(ctx context.Context, key string, val any) {
	if !r.enabled() {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.Debug("reference cache write failed", zap.String("key", key), zap.Error(err))
	}
}
