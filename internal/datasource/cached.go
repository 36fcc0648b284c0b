package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/kestrelstack/survfit-engine/internal/cache"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

// CachedClient wraps a Client with a TTL-bounded cache.Provider lookup, the same
// read-through-cache shape the teacher wires between its repo clients and internal/cache.
type CachedClient struct {
	client   *Client
	provider cache.Provider
	ttl      time.Duration
}

// NewCachedClient returns a Client decorated with read-through caching.
func NewCachedClient(client *Client, provider cache.Provider, ttl time.Duration) *CachedClient {
	if provider == nil {
		provider = cache.NoopProvider{}
	}
	return &CachedClient{client: client, provider: provider, ttl: ttl}
}

// FetchObservations returns a cached observation set if present and unexpired, otherwise loads it
// from the underlying Client and populates the cache.
func (c *CachedClient) FetchObservations(ctx context.Context, datasetID string) (models.ObservationSet, error) {
	key := "datasource:observations:" + datasetID

	if raw, err := c.provider.Get(ctx, key); err == nil {
		var cached models.ObservationSet
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// Cache backend errors are not fatal; fall through to the live fetch.
		_ = err
	}

	obs, err := c.client.FetchObservations(ctx, datasetID)
	if err != nil {
		return models.ObservationSet{}, err
	}

	if raw, err := json.Marshal(obs); err == nil {
		_ = c.provider.Set(ctx, key, raw, c.ttl)
	}
	return obs, nil
}
