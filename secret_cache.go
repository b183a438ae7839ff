package cachette

import (
	"context"
	"time"
)

// SecretCache represents a client-side cache of secrets tracked by alias. An
// alias is a caller-chosen short name mapped to the provider's full resource
// identifier; the mapping is mutable at runtime. Cached values are held in
// memory only and refreshed in the background on a fixed interval.
type SecretCache interface {
	// Initialize eagerly fetches every tracked secret and then starts the
	// scheduled background refresh. Per-alias fetch failures are reported
	// through error notifications rather than the returned error, so
	// initialization succeeds even if every fetch fails.
	Initialize(ctx context.Context) error
	// GetSecret returns the cached entry for the given alias. The second
	// return value is false if the alias has never been successfully
	// fetched.
	GetSecret(alias string) (Entry, bool)
	// GetAllSecrets returns a point-in-time snapshot of all cached entries.
	GetAllSecrets() map[string]Entry
	// FetchAllSecrets fetches every tracked secret concurrently and waits
	// for all fetches to finish, successes and exhausted failures alike.
	FetchAllSecrets(ctx context.Context) error
	// StartScheduledRefresh starts the recurring background refresh. It is a
	// no-op if the refresh is already running.
	StartScheduledRefresh()
	// StopScheduledRefresh stops the recurring background refresh. It is a
	// no-op if the refresh is already stopped. It does not cancel a refresh
	// cycle that is already in flight.
	StopScheduledRefresh()
	// AddAliasMapping upserts the mapping from alias to provider identifier
	// and synchronously fetches the secret before returning.
	AddAliasMapping(ctx context.Context, alias, id string) error
	// RemoveAliasMapping removes the alias and its cached entry. This is
	// purely local bookkeeping - the secret stored with the provider is
	// unaffected.
	RemoveAliasMapping(alias string)
	// ClearCache stops the scheduled refresh and drops all cached entries.
	// Alias mappings remain defined.
	ClearCache()
	// GetCacheStats returns statistics about the cache's current contents.
	GetCacheStats() CacheStats
	// Close stops the scheduled refresh and cleans up the cache's resources.
	Close(ctx context.Context) error
}

// Entry is a cached secret value along with the time it was last
// successfully fetched. Entries are replaced wholesale when a secret's value
// changes and are never mutated in place.
type Entry struct {
	Value     Value
	FetchedAt time.Time
}

// CacheStats contains statistics about a SecretCache's contents.
type CacheStats struct {
	// Size is the number of aliases with a cached entry.
	Size int
}
