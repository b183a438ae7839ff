package cachette

import "fmt"

// FetchError indicates that fetching a secret failed after exhausting all
// permitted retry attempts. The cache reports it through error notifications
// and leaves any previously cached value in place.
type FetchError struct {
	// Alias is the alias whose fetch failed.
	Alias string
	// Attempts is the total number of attempts made, including the initial
	// one.
	Attempts int
	// Cause is the error from the final attempt.
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching secret '%s' failed after %d attempts: %v", e.Alias, e.Attempts, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
