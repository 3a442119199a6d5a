package enrich

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/infoshield/infoshield/internal/cache"
	"github.com/infoshield/infoshield/internal/model"
)

// CachedEnricher wraps an enricher with a cache layer. Conditions for a
// location change slowly relative to query volume, so repeated queries for
// the same place reuse one lookup.
type CachedEnricher struct {
	inner Enricher
	store cache.Cache
	ttl   time.Duration
}

// NewCachedEnricher wraps inner with the given cache
func NewCachedEnricher(inner Enricher, store cache.Cache, ttl time.Duration) *CachedEnricher {
	return &CachedEnricher{
		inner: inner,
		store: store,
		ttl:   ttl,
	}
}

func (e *CachedEnricher) Enrich(ctx context.Context, location string) (*model.SituationContext, error) {
	key := cache.Key("enrich", strings.ToLower(strings.TrimSpace(location)))

	if data, found := e.store.Get(key); found {
		var sc model.SituationContext
		if err := json.Unmarshal(data, &sc); err == nil {
			return &sc, nil
		}
		// Corrupt entry: drop it and fall through to a fresh lookup
		_ = e.store.Delete(key)
	}

	sc, err := e.inner.Enrich(ctx, location)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(sc); err == nil {
		_ = e.store.Set(key, data, e.ttl)
	}

	return sc, nil
}
