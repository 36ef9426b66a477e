package assetcache

import "fmt"

// LoadError is the single failure kind reported by the cache. It wraps
// whatever the loader reported for the identifier; network failures, parse
// failures and contained loader panics are not distinguished.
type LoadError struct {
	// ID is the identifier whose load failed.
	ID string

	// Err is the loader's error.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
