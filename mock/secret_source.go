package mock

import (
	"context"
	"sync"

	"github.com/evergreen-ci/cachette"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

// StoredSecret is a representation of a secret kept in the global fake
// secret storage.
type StoredSecret struct {
	// ID is the provider identifier for the secret.
	ID string
	// Value is the secret's text value, if it is a text secret.
	Value string
	// BinaryValue is the secret's raw value, if it is a binary secret.
	BinaryValue []byte
	// IsDeleted marks the secret as deleted on the fake service.
	IsDeleted bool
}

// globalSecretStore is a simplified in-memory stand-in for a remote secret
// storage service. Unlike a real remote service, it is shared process-wide,
// so tests that use it should reset it. Access is serialized because the
// cache's fetch engine reads it from concurrent goroutines.
var (
	globalMu          sync.RWMutex
	globalSecretStore map[string]StoredSecret
)

func init() {
	ResetGlobalSecretStore()
}

// ResetGlobalSecretStore resets the global fake secret storage to an
// initialized but clean state.
func ResetGlobalSecretStore() {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalSecretStore = map[string]StoredSecret{}
}

// PutGlobalSecret adds or replaces a secret in the global fake secret
// storage.
func PutGlobalSecret(s StoredSecret) {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalSecretStore[s.ID] = s
}

// GetGlobalSecret returns a secret from the global fake secret storage.
func GetGlobalSecret(id string) (StoredSecret, bool) {
	globalMu.RLock()
	defer globalMu.RUnlock()

	s, ok := globalSecretStore[id]
	return s, ok
}

// DeleteGlobalSecret removes a secret from the global fake secret storage.
func DeleteGlobalSecret(id string) {
	globalMu.Lock()
	defer globalMu.Unlock()

	delete(globalSecretStore, id)
}

// SecretSource provides a mock implementation of a cachette.SecretSource.
// This makes it possible to introspect on inputs to the source and control
// the source's output. By default, it resolves secrets against the global
// fake secret storage. It is safe for concurrent use.
type SecretSource struct {
	mu sync.Mutex

	// GetValueInput is the ID from the most recent GetValue call.
	GetValueInput *string
	// GetValueOutput, if set, is returned by every GetValue call.
	GetValueOutput *cachette.Payload
	// GetValueError, if set, is returned by every GetValue call.
	GetValueError error
	// FailuresBeforeSuccess makes the first N GetValue calls per ID fail
	// with a transient error before the default behavior applies.
	FailuresBeforeSuccess int

	// CloseError, if set, is returned by Close.
	CloseError error

	calls    []string
	failures map[string]int
}

// GetValue saves the input and returns the mock secret's payload. The mock
// output can be customized. By default, it resolves the ID against the
// global fake secret storage.
func (s *SecretSource) GetValue(ctx context.Context, id string) (*cachette.Payload, error) {
	s.mu.Lock()
	s.GetValueInput = utility.ToStringPtr(id)
	s.calls = append(s.calls, id)

	if s.failures == nil {
		s.failures = map[string]int{}
	}
	if s.failures[id] < s.FailuresBeforeSuccess {
		s.failures[id]++
		s.mu.Unlock()
		return nil, errors.Errorf("transient failure getting secret '%s'", id)
	}

	out := s.GetValueOutput
	outErr := s.GetValueError
	s.mu.Unlock()

	if out != nil || outErr != nil {
		return out, outErr
	}

	stored, ok := GetGlobalSecret(id)
	if !ok {
		return nil, errors.Errorf("secret '%s' not found", id)
	}
	if stored.IsDeleted {
		return nil, errors.Errorf("secret '%s' is deleted", id)
	}

	if stored.BinaryValue != nil {
		return &cachette.Payload{Binary: stored.BinaryValue}, nil
	}
	return &cachette.Payload{String: utility.ToStringPtr(stored.Value)}, nil
}

// Close closes the mock source. The mock output can be customized. By
// default, it is a no-op that returns no error.
func (s *SecretSource) Close(ctx context.Context) error {
	return s.CloseError
}

// Calls returns the IDs of all GetValue calls in order.
func (s *SecretSource) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string{}, s.calls...)
}

// CallCount returns the number of GetValue calls made for the given ID.
func (s *SecretSource) CallCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, call := range s.calls {
		if call == id {
			n++
		}
	}
	return n
}
