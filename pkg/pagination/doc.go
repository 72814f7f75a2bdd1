// Package pagination fetches many pages of a list gateway in parallel.
//
// The first page is fetched on its own to learn the total page count; the
// remaining pages (capped by MaxPages) are spread across a worker pool and
// the items are returned in page order:
//
//	fetcher := pagination.NewBatchFetcher(characters.Gateway(), pagination.DefaultConfig())
//	result, err := fetcher.FetchAll(ctx, "smith")
//
// A failed page stops the pool; the pages fetched so far are returned with
// the error.
package pagination
