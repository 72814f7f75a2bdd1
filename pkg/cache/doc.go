// Package cache stores single-item API responses in Redis and revalidates
// them with conditional requests.
//
// Only detail lookups (a movie, its reviews, a character) go through the
// cache. Paged list fetches never do: every page is a fresh round trip.
//
// # Basic Usage
//
//	manager := cache.NewManager(redis.NewClient(&redis.Options{Addr: "localhost:6379"}))
//
//	key := cache.KeyFromURL(u)
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch, then manager.Set(ctx, key, cache.EntryFromResponse(resp, body))
//	}
//
// # Conditional Requests
//
// A fresh entry is served without touching the network. A stale entry that
// still carries an ETag or Last-Modified value is revalidated:
//
//	cache.AddConditionalHeaders(req, entry)
//	// 304 -> manager.Refresh(ctx, key, entry, resp.Header)
//
// Stale entries are kept in Redis for RevalidationWindow after they expire so
// they can be revalidated instead of refetched.
//
// # Metrics
//
//   - mortyverse_cache_hits_total{state="fresh|revalidated"}
//   - mortyverse_cache_misses_total
//   - mortyverse_cache_stored_bytes_total
//   - mortyverse_cache_not_modified_total
//   - mortyverse_cache_errors_total{operation}
package cache
