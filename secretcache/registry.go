package secretcache

import "sync"

// registry is the live mapping from alias to provider identifier. It is read
// by the fetch engine's fan-out and mutated by alias add/remove operations,
// so access is serialized. No ordering is guaranteed.
type registry struct {
	mu  sync.RWMutex
	ids map[string]string
}

func newRegistry(mappings map[string]string) *registry {
	ids := make(map[string]string, len(mappings))
	for alias, id := range mappings {
		ids[alias] = id
	}
	return &registry{ids: ids}
}

func (r *registry) put(alias, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ids[alias] = id
}

func (r *registry) delete(alias string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ids, alias)
}

// snapshot returns a point-in-time copy of the mapping for the fetch
// engine's fan-out.
func (r *registry) snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make(map[string]string, len(r.ids))
	for alias, id := range r.ids {
		ids[alias] = id
	}
	return ids
}
