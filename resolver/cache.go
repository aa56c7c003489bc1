package resolver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/apex/log"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pseudovision/pseudovision/common"
)

// cachingResolver fronts another CollectionResolver with a memcached cache,
// for deployments that repeatedly resolve large trakt/playlist collections
// across successive builds.
type cachingResolver struct {
	inner  CollectionResolver
	client *memcache.Client
	ttl    time.Duration
}

// NewCachingResolver wraps inner with a memcached-backed cache of resolved
// item lists, keyed by collection ID, each entry valid for ttl.
func NewCachingResolver(inner CollectionResolver, client *memcache.Client, ttl time.Duration) CollectionResolver {
	return &cachingResolver{inner: inner, client: client, ttl: ttl}
}

func (r *cachingResolver) Resolve(ctxt context.Context, collectionID string) ([]common.MediaItem, error) {
	key := "pseudovision:collection:" + collectionID

	if cached, err := r.client.Get(key); err == nil {
		var items []common.MediaItem
		if jsonErr := json.Unmarshal(cached.Value, &items); jsonErr == nil {
			return items, nil
		}
		log.WithField("collection", collectionID).Warn("Failed to decode cached collection, refetching")
	}

	items, err := r.inner.Resolve(ctxt, collectionID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(items); err == nil {
		setErr := r.client.Set(&memcache.Item{
			Key: key, Value: encoded, Expiration: int32(r.ttl.Seconds()),
		})
		if setErr != nil {
			log.WithField("collection", collectionID).WithError(setErr).Warn("Failed to cache resolved collection")
		}
	}

	return items, nil
}
