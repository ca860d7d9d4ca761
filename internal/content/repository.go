// Package content is the data-access layer for every site collection. All
// reads go through a cache-aside path: serve from the local cache while the
// entry is fresh, otherwise fetch from the document store, normalize and
// re-cache. All writes go straight to the store and invalidate the affected
// cache keys, so the next read repopulates.
package content

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/kyangwi/portfolio/internal/cache"
	"github.com/kyangwi/portfolio/internal/docstore"
	"github.com/kyangwi/portfolio/pkg/apperror"
	"github.com/kyangwi/portfolio/pkg/logger"
)

const (
	// TTL is how long a cached entry is served before the next read goes
	// back to the store.
	TTL = time.Hour

	// maxCachePayloadBytes guards the cache against oversized entries
	// (base64 cover images can get large). Payloads at or above this size
	// are served from the store but never cached.
	maxCachePayloadBytes = 4 << 20
)

// Notifier broadcasts content mutations so other instances can drop their
// own cache entries. Delivery is best effort; a failed publish never fails
// the write that triggered it.
type Notifier interface {
	ContentChanged(ctx context.Context, entity Entity, action, id string) error
}

// Repository serves every collection through one cache policy. The zero
// value is not usable; construct with New.
type Repository struct {
	store    docstore.Store
	cache    cache.Store
	log      logger.Logger
	notifier Notifier
	now      func() time.Time
}

type Option func(*Repository)

// WithClock overrides the time source. Used in tests to move past the TTL.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithNotifier attaches a mutation broadcaster.
func WithNotifier(n Notifier) Option {
	return func(r *Repository) { r.notifier = n }
}

func New(store docstore.Store, c cache.Store, log logger.Logger, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		cache: c,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// envelope is the stored cache record: the payload plus the write instant
// the TTL is measured from.
type envelope struct {
	Data     json.RawMessage `json:"data"`
	StoredAt time.Time       `json:"stored_at"`
}

// fetchThrough is the cache-aside read path shared by every accessor. A
// fresh cache hit short-circuits; a miss, an expired entry or a corrupt
// entry falls through to fetch. Corrupt entries are purged. Store failures
// surface as ErrUnavailable; cache failures only degrade to a store read.
func fetchThrough[T any](ctx context.Context, r *Repository, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if raw, err := r.cache.Get(ctx, key); err == nil {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			r.log.Warn("purging corrupt cache entry", zap.String("key", key), zap.Error(err))
			r.purge(ctx, key)
		} else if r.now().Sub(env.StoredAt) < TTL {
			var out T
			if err := json.Unmarshal(env.Data, &out); err == nil {
				return out, nil
			}
			r.log.Warn("purging undecodable cache payload", zap.String("key", key), zap.Error(err))
			r.purge(ctx, key)
		}
	}

	out, err := fetch(ctx)
	if err != nil {
		return zero, apperror.NewUnavailable("fetch "+key, err)
	}
	r.fill(ctx, key, out)
	return out, nil
}

// fill writes a fresh envelope. Failures are logged and swallowed: a dead
// cache must never fail a read that already has the data in hand.
func (r *Repository) fill(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.log.Warn("cache fill: encode payload", zap.String("key", key), zap.Error(err))
		return
	}
	raw, err := json.Marshal(envelope{Data: data, StoredAt: r.now()})
	if err != nil {
		r.log.Warn("cache fill: encode envelope", zap.String("key", key), zap.Error(err))
		return
	}
	if len(raw) >= maxCachePayloadBytes {
		r.log.Warn("cache fill: payload too large, skipping",
			zap.String("key", key), zap.Int("bytes", len(raw)))
		return
	}
	if err := r.cache.Set(ctx, key, raw, TTL); err != nil {
		r.log.Warn("cache fill failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *Repository) purge(ctx context.Context, key string) {
	if err := r.cache.Delete(ctx, key); err != nil {
		r.log.Warn("cache purge failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate drops the entity's collection key plus any per-item keys, then
// notifies peers. Cache and notifier failures are logged, never returned:
// the store write already succeeded and stale-until-TTL is an acceptable
// worst case.
func (r *Repository) invalidate(ctx context.Context, entity Entity, action string, ids ...string) {
	r.purge(ctx, entity.CollectionKey())
	for _, id := range ids {
		if id == "" {
			continue
		}
		r.purge(ctx, entity.ItemKey(id))
	}

	if r.notifier == nil {
		return
	}
	id := ""
	if len(ids) > 0 {
		id = ids[0]
	}
	if err := r.notifier.ContentChanged(ctx, entity, action, id); err != nil {
		r.log.Warn("content change notify failed",
			zap.String("entity", string(entity)), zap.String("action", action), zap.Error(err))
	}
}

// InvalidateEntity drops the cache keys for one entity without touching the
// store. The worker calls this when a peer instance reports a mutation.
func (r *Repository) InvalidateEntity(ctx context.Context, entity Entity, ids ...string) {
	r.purge(ctx, entity.CollectionKey())
	for _, id := range ids {
		if id == "" {
			continue
		}
		r.purge(ctx, entity.ItemKey(id))
	}
}
