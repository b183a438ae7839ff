package cachette

import "context"

// SecretSource represents an external secret-management service that can
// resolve a provider identifier to a secret payload. Implementations must be
// safe for concurrent use and must handle retrying transient transport
// failures and backoff on their own; the cache applies its own retry policy
// on top for fetch-level failures.
type SecretSource interface {
	// GetValue returns the payload of the secret identified by ID.
	GetValue(ctx context.Context, id string) (*Payload, error)
	// Close closes the source and cleans up its resources. Implementations
	// should ensure that this is idempotent.
	Close(ctx context.Context) error
}

// Payload is the raw result of resolving a secret against a SecretSource.
// Exactly one of String or Binary is expected to be populated.
type Payload struct {
	// String is the secret's value when the source stores it as text.
	String *string
	// Binary is the secret's value when the source stores it as raw bytes.
	Binary []byte
}
