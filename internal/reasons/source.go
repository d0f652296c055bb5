package reasons

import (
	"context"
	"errors"
)

var (
	// ErrSourceNotFound signals that the catalog source does not exist. Cache degrades it to the
	// placeholder catalog instead of failing.
	ErrSourceNotFound = errors.New("catalog source not found")
	// ErrMalformedCatalog signals a source that exists but cannot be turned into entries.
	ErrMalformedCatalog = errors.New("malformed catalog")
)

// Source reads the raw catalog entries from wherever they are kept.
type Source interface {
	// Fetch returns the entries in source order. It returns an error wrapping ErrSourceNotFound
	// when the underlying file, object, or table is absent.
	Fetch(ctx context.Context) ([]Entry, error)
	// Location describes the source for logs, e.g. "gs://bucket/reasons.json".
	Location() string
}
