// Package cache is the read-through cache in front of the analytics
// aggregates. Entries are keyed by namespace, user, business and window and
// are dropped by Invalidate whenever the underlying ledger changes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is used when GetOrCompute is called without a TTL
const DefaultTTL = 300 * time.Second

// Namespaces of the cached endpoint classes
const (
	NamespaceDashboard    = "dashboard"
	NamespaceSummary      = "summary"
	NamespaceTransactions = "transactions"
	NamespaceHealth       = "health"
	NamespaceBudgets      = "budgets"
	NamespaceSuppliers    = "suppliers"
)

// DefaultNamespaces are invalidated together on every ledger write
var DefaultNamespaces = []string{
	NamespaceDashboard,
	NamespaceSummary,
	NamespaceTransactions,
	NamespaceHealth,
	NamespaceBudgets,
	NamespaceSuppliers,
}

// CanonicalWindows are the period values Invalidate clears. Entries cached
// under any other window only expire through their TTL.
var CanonicalWindows = []string{"7", "30", "90", "365"}

// AllTimeWindow is the window of results that take no period, such as
// budget analytics. Invalidate clears it along with the canonical windows.
const AllTimeWindow = "all"

func invalidatedWindows() []string {
	return append(append([]string{}, CanonicalWindows...), AllTimeWindow)
}

// Store is the backing key/value store of a Cache. Get reports a miss with
// ok=false and a nil error; Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Cache wraps a Store with key derivation, read-through and invalidation
type Cache struct {
	store      Store
	defaultTTL time.Duration
	namespaces []string
	group      singleflight.Group

	mu      sync.Mutex
	pending map[string]*fill
}

// fill is one in-flight computation. Invalidate marks it stale so its result
// does not outlive the write that invalidated it.
type fill struct {
	stale bool
}

// New creates a Cache. A non-positive defaultTTL falls back to DefaultTTL and
// an empty namespace list to DefaultNamespaces.
func New(store Store, defaultTTL time.Duration, namespaces ...string) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if len(namespaces) == 0 {
		namespaces = DefaultNamespaces
	}
	return &Cache{
		store:      store,
		defaultTTL: defaultTTL,
		namespaces: namespaces,
		pending:    make(map[string]*fill),
	}
}

// DefaultTTL returns the TTL applied when callers pass zero
func (c *Cache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Key derives the cache key of a request. A nil user is "anon" and a nil
// business is the "all businesses" key, which never collides with a
// business-specific key.
func Key(namespace string, userID uuid.UUID, businessID *uuid.UUID, window string) string {
	user := "anon"
	if userID != uuid.Nil {
		user = userID.String()
	}
	business := ""
	if businessID != nil {
		business = businessID.String()
	}
	return fmt.Sprintf("%s:user_%s:business_%s:period_%s", namespace, user, business, window)
}

// GetOrCompute returns the cached value under key or runs fn and caches its
// result for ttl. Errors from fn are returned as-is and never cached. Store
// failures are logged and the value is computed directly. Concurrent misses
// on one key share a single fn call, which runs detached from the caller's
// cancellation so one disconnecting caller does not fail the others. A result
// whose key is invalidated while fn runs is returned but not kept.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed, computing directly")
	} else if ok {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		fillCtx := context.WithoutCancel(ctx)
		f := c.beginFill(key)
		value, err := fn(fillCtx)
		if err != nil {
			c.endFill(key, f)
			return value, err
		}
		c.put(fillCtx, key, value, ttl)
		if c.endFill(key, f) {
			if err := c.store.Delete(fillCtx, key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Failed to drop invalidated cache entry")
			}
		}
		return value, nil
	})
	typed, _ := v.(T)
	return typed, err
}

func (c *Cache) beginFill(key string) *fill {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := &fill{}
	c.pending[key] = f
	return f
}

// endFill reports whether the key was invalidated since beginFill
func (c *Cache) endFill(key string, f *fill) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[key] == f {
		delete(c.pending, key)
	}
	return f.stale
}

// markStale flags the in-flight computation of key and detaches later
// callers from it
func (c *Cache) markStale(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.pending[key]; ok {
		f.stale = true
	}
	c.group.Forget(key)
}

func (c *Cache) put(ctx context.Context, key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache value not serializable, skipping")
		return
	}
	if err := c.store.Set(ctx, key, payload, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Invalidate deletes every canonical-window and all-time entry of the user for
// the given business and for the "all businesses" scope, across all namespaces. It
// attempts every key and returns the joined delete errors.
func (c *Cache) Invalidate(ctx context.Context, userID uuid.UUID, businessID *uuid.UUID) error {
	var errs []error
	deleted := 0
	for _, ns := range c.namespaces {
		for _, window := range invalidatedWindows() {
			keys := []string{Key(ns, userID, nil, window)}
			if businessID != nil {
				keys = append(keys, Key(ns, userID, businessID, window))
			}
			for _, key := range keys {
				c.markStale(key)
				if err := c.store.Delete(ctx, key); err != nil {
					errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
					continue
				}
				deleted++
			}
		}
	}

	event := log.Debug().Str("user_id", userID.String()).Int("keys", deleted)
	if businessID != nil {
		event = event.Str("business_id", businessID.String())
	}
	event.Msg("Invalidated analytics cache")

	return errors.Join(errs...)
}
