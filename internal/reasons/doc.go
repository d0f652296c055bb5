// Package reasons owns the catalog of humorous 404 explanations served by the service.
//
// The package is split into three pieces:
//   - Entry and Catalog model the content. A Catalog is immutable once built and is never empty
//     when it comes out of a Cache.
//   - Cache memoizes the catalog read from a Source. The first Load fetches, concurrent first
//     callers share that fetch, and Invalidate forces the next Load to fetch again. A missing
//     source degrades to a single placeholder entry; a malformed source is an error.
//   - Selector picks entries uniformly at random, optionally narrowed to a category. When the
//     category has no entries it silently falls back to the whole catalog.
//
// Sources live in internal/storage (local file, GCS, S3, Postgres, memory).
package reasons
