package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"contractor-estimate-be/internal/entity"
)

// EstimateCache keeps recently served estimate documents in memory so the
// chat flow can show the current document without a round trip per message.
// Entries are stored as deep copies; callers get copies back, never the
// cached pointer.
type EstimateCache struct {
	cache *cache.Cache
}

func NewEstimateCache() *EstimateCache {
	// Default expiration of 15 minutes, purge sweep every 5.
	c := cache.New(15*time.Minute, 5*time.Minute)
	return &EstimateCache{
		cache: c,
	}
}

func (r *EstimateCache) Save(estimate *entity.Estimate) {
	if estimate == nil {
		return
	}
	r.cache.Set(estimate.Id.String(), estimate.Clone(), cache.DefaultExpiration)
}

func (r *EstimateCache) Get(id uuid.UUID) (*entity.Estimate, bool) {
	if x, found := r.cache.Get(id.String()); found {
		return x.(*entity.Estimate).Clone(), true
	}
	return nil, false
}

func (r *EstimateCache) Invalidate(id uuid.UUID) {
	r.cache.Delete(id.String())
}
