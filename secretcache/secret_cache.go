// Package secretcache provides the cachette.SecretCache implementation: a
// concurrency-safe in-memory cache of aliased secrets with background
// refresh, bounded exponential retry, and change notifications.
package secretcache

import (
	"context"
	"sync"
	"time"

	"github.com/evergreen-ci/cachette"
	"github.com/evergreen-ci/cachette/secretsmanager"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/recovery"
	"github.com/pkg/errors"
)

// BasicSecretCache provides a cachette.SecretCache implementation that keeps
// one in-memory cache per instance. Fetches for different aliases run
// concurrently and never short-circuit each other; a fetch that exhausts its
// retries leaves any previously cached value in place.
type BasicSecretCache struct {
	opts       *Options
	source     cachette.SecretSource
	ownsSource bool
	store      *Store
	registry   *registry
	policy     RetryPolicy
	bus        *eventBus
	logger     grip.Journaler

	schedMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewBasicSecretCache creates a new secret cache from the given options. The
// options are validated before any background activity starts; no fetch is
// attempted until Initialize or FetchAllSecrets is called.
func NewBasicSecretCache(opts Options) (*BasicSecretCache, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}

	c := &BasicSecretCache{
		opts:     &opts,
		source:   opts.Source,
		store:    NewStore(),
		registry: newRegistry(opts.SecretMappings),
		policy: RetryPolicy{
			MaxRetries: *opts.MaxRetries,
			RetryDelay: *opts.RetryDelay,
		},
		bus:    newEventBus(),
		logger: opts.Logger,
	}

	if c.source == nil {
		source, err := secretsmanager.NewBasicSource(*opts.AWSOpts)
		if err != nil {
			return nil, errors.Wrap(err, "setting up default secret source")
		}
		c.source = source
		c.ownsSource = true
	}

	return c, nil
}

// Initialize eagerly fetches every tracked secret and then starts the
// scheduled background refresh. Per-alias fetch failures are reported
// through error notifications rather than the returned error.
func (c *BasicSecretCache) Initialize(ctx context.Context) error {
	if err := c.FetchAllSecrets(ctx); err != nil {
		return errors.Wrap(err, "fetching initial secrets")
	}

	c.StartScheduledRefresh()

	return nil
}

// GetSecret returns the cached entry for the given alias. The second return
// value is false if the alias has never been successfully fetched.
func (c *BasicSecretCache) GetSecret(alias string) (cachette.Entry, bool) {
	return c.store.Get(alias)
}

// GetAllSecrets returns a point-in-time snapshot of all cached entries. The
// snapshot may mix pre- and post-refresh values if taken while a refresh
// cycle is in flight.
func (c *BasicSecretCache) GetAllSecrets() map[string]cachette.Entry {
	return c.store.Entries()
}

// FetchAllSecrets fetches every tracked secret concurrently and waits for
// all fetches to finish, successes and exhausted failures alike. Per-alias
// failures are reported through error notifications and logging rather than
// the returned error; the returned error is non-nil only if the context is
// cancelled.
func (c *BasicSecretCache) FetchAllSecrets(ctx context.Context) error {
	var wg sync.WaitGroup
	for alias, id := range c.registry.snapshot() {
		wg.Add(1)
		go func(alias, id string) {
			defer wg.Done()
			defer recovery.LogStackTraceAndContinue("secret fetch", alias)

			_ = c.fetchWithRetry(ctx, alias, id)
		}(alias, id)
	}
	wg.Wait()

	return errors.Wrap(ctx.Err(), "fetching secrets")
}

// AddAliasMapping upserts the mapping from alias to provider identifier and
// synchronously fetches the secret, populating the cache before returning.
// If the fetch exhausts its retries, the mapping is still kept (the next
// refresh cycle will retry it) and the fetch error is both returned and
// reported through an error notification.
func (c *BasicSecretCache) AddAliasMapping(ctx context.Context, alias, id string) error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(alias == "", "alias cannot be empty")
	catcher.NewWhen(id == "", "provider identifier cannot be empty")
	if catcher.HasErrors() {
		return catcher.Resolve()
	}

	c.registry.put(alias, id)

	return c.fetchWithRetry(ctx, alias, id)
}

// RemoveAliasMapping removes the alias and its cached entry. This is purely
// local bookkeeping - the secret stored with the provider is unaffected.
func (c *BasicSecretCache) RemoveAliasMapping(alias string) {
	c.registry.delete(alias)
	c.store.Delete(alias)

	c.publish(cachette.Event{
		Kind:      cachette.EventRemove,
		Alias:     alias,
		Timestamp: time.Now(),
	})
	c.logInfo(message.Fields{
		"message": "removed alias mapping",
		"alias":   alias,
	})
}

// ClearCache stops the scheduled refresh and drops all cached entries. Alias
// mappings remain defined, so a later refresh repopulates the cache.
func (c *BasicSecretCache) ClearCache() {
	c.StopScheduledRefresh()
	c.store.Clear()

	c.publish(cachette.Event{
		Kind:      cachette.EventClear,
		Timestamp: time.Now(),
	})
	c.logInfo(message.Fields{
		"message": "cleared secret cache",
	})
}

// GetCacheStats returns statistics about the cache's current contents.
func (c *BasicSecretCache) GetCacheStats() cachette.CacheStats {
	return cachette.CacheStats{
		Size: c.store.Len(),
	}
}

// Subscribe registers a handler for notifications of the given kind and
// returns an identifier that can be passed to Unsubscribe. Handlers for one
// alias are invoked in the order its notifications are produced. Handlers
// registered while events are disabled are kept but never invoked.
func (c *BasicSecretCache) Subscribe(kind cachette.EventKind, handler EventHandler) int {
	return c.bus.subscribe(kind, handler)
}

// Unsubscribe removes a previously registered handler.
func (c *BasicSecretCache) Unsubscribe(kind cachette.EventKind, id int) {
	c.bus.unsubscribe(kind, id)
}

// Close stops the scheduled refresh and cleans up the cache's resources,
// including the default secret source if the cache constructed it.
func (c *BasicSecretCache) Close(ctx context.Context) error {
	c.StopScheduledRefresh()

	if c.ownsSource {
		return errors.Wrap(c.source.Close(ctx), "closing secret source")
	}

	return nil
}

// fetchWithRetry fetches a single secret, retrying failed attempts with
// exponential backoff per the cache's retry policy. Attempts for one alias
// are strictly ordered; the backoff suspension does not block fetches for
// other aliases. After retries are exhausted it reports the failure and
// leaves the store untouched.
func (c *BasicSecretCache) fetchWithRetry(ctx context.Context, alias, id string) error {
	for attempt := 1; ; attempt++ {
		err := c.fetchOne(ctx, alias, id)
		if err == nil {
			return nil
		}

		if c.policy.ShouldRetry(attempt) && ctx.Err() == nil {
			timer := time.NewTimer(c.policy.Delay(attempt))
			select {
			case <-timer.C:
				continue
			case <-ctx.Done():
				timer.Stop()
				err = errors.Wrap(ctx.Err(), "waiting to retry")
			}
		}

		fetchErr := &cachette.FetchError{
			Alias:    alias,
			Attempts: attempt,
			Cause:    err,
		}
		c.publish(cachette.Event{
			Kind:      cachette.EventError,
			Alias:     alias,
			Err:       fetchErr,
			Timestamp: time.Now(),
		})
		c.logError(message.WrapError(fetchErr, message.Fields{
			"message":  "giving up fetching secret",
			"alias":    alias,
			"attempts": attempt,
		}))

		return fetchErr
	}
}

// fetchOne performs a single fetch attempt. On success it compares the
// decoded value against the cached entry and, if the value is new or
// changed, replaces the entry and sends an update notification. An unchanged
// value writes nothing and notifies nobody.
func (c *BasicSecretCache) fetchOne(ctx context.Context, alias, id string) error {
	payload, err := c.source.GetValue(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "getting value for secret '%s'", alias)
	}

	val, err := decodePayload(payload)
	if err != nil {
		return errors.Wrapf(err, "decoding value for secret '%s'", alias)
	}

	if current, ok := c.store.Get(alias); ok && current.Value.Equal(val) {
		return nil
	}

	entry := cachette.Entry{
		Value:     val,
		FetchedAt: time.Now(),
	}
	c.store.Put(alias, entry)

	c.publish(cachette.Event{
		Kind:      cachette.EventUpdate,
		Alias:     alias,
		Value:     &entry.Value,
		Timestamp: entry.FetchedAt,
	})
	c.logInfo(message.Fields{
		"message": "cached new secret value",
		"alias":   alias,
		"kind":    val.Kind(),
	})

	return nil
}

func (c *BasicSecretCache) publish(e cachette.Event) {
	if c.opts.DisableEvents {
		return
	}
	c.bus.publish(e)
}

func (c *BasicSecretCache) logInfo(msg message.Fields) {
	if c.logger == nil {
		return
	}
	c.logger.Info(msg)
}

func (c *BasicSecretCache) logError(msg message.Composer) {
	if c.logger == nil {
		return
	}
	c.logger.Error(msg)
}

var _ cachette.SecretCache = (*BasicSecretCache)(nil)
