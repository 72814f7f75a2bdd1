package pagination

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Sternrassler/mortyverse/pkg/listing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds batch fetcher configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel page requests.
	MaxConcurrency int

	// Timeout per page fetch.
	Timeout time.Duration

	// MaxPages caps how many pages are fetched. Zero means all.
	MaxPages int
}

// DefaultConfig returns a configuration suited to the public APIs.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
	}
}

// Result holds the items of every fetched page, in page order.
type Result[T any] struct {
	Items        []T
	TotalPages   int
	FetchedPages int
}

type pageResult[T any] struct {
	page  int
	items []T
	err   error
}

// BatchFetcher fetches all pages of a gateway with a worker pool.
type BatchFetcher[T any] struct {
	gateway listing.Gateway[T]
	config  Config
	logger  zerolog.Logger
}

// NewBatchFetcher creates a batch fetcher. Non-positive settings fall back
// to the defaults.
func NewBatchFetcher[T any](gateway listing.Gateway[T], config Config) *BatchFetcher[T] {
	defaults := DefaultConfig()
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = defaults.MaxConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxPages < 0 {
		config.MaxPages = 0
	}

	return &BatchFetcher[T]{
		gateway: gateway,
		config:  config,
		logger:  log.With().Str("component", "pagination").Logger(),
	}
}

// FetchAll fetches every page for query.
func (bf *BatchFetcher[T]) FetchAll(ctx context.Context, query string) (Result[T], error) {
	start := time.Now()

	first, err := bf.fetch(ctx, 1, query)
	if err != nil {
		return Result[T]{}, fmt.Errorf("failed to fetch first page: %w", err)
	}

	lastPage := first.TotalPages
	if !first.HasMore {
		lastPage = 1
	}
	if bf.config.MaxPages > 0 && lastPage > bf.config.MaxPages {
		lastPage = bf.config.MaxPages
	}

	pages := map[int][]T{1: first.Items}

	if lastPage > 1 {
		bf.logger.Info().
			Str("query", query).
			Int("total_pages", first.TotalPages).
			Int("fetching", lastPage).
			Msg("Starting parallel page fetch")

		err = bf.fetchRest(ctx, query, lastPage, pages)
	}

	result := Result[T]{
		Items:        collect(pages),
		TotalPages:   first.TotalPages,
		FetchedPages: len(pages),
	}

	if err != nil {
		bf.logger.Warn().
			Err(err).
			Int("fetched_pages", result.FetchedPages).
			Int("wanted_pages", lastPage).
			Msg("Worker error - returning partial results")
		return result, fmt.Errorf("worker error (partial data: %d/%d pages): %w", result.FetchedPages, lastPage, err)
	}

	bf.logger.Info().
		Str("query", query).
		Int("pages", result.FetchedPages).
		Int("items", len(result.Items)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return result, nil
}

func (bf *BatchFetcher[T]) fetchRest(ctx context.Context, query string, lastPage int, pages map[int][]T) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pageQueue := make(chan int, lastPage)
	for page := 2; page <= lastPage; page++ {
		pageQueue <- page
	}
	close(pageQueue)

	results := make(chan pageResult[T], lastPage)

	var wg sync.WaitGroup
	for i := 0; i < bf.config.MaxConcurrency; i++ {
		wg.Add(1)
		go bf.worker(ctx, query, pageQueue, results, &wg, i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("page %d: %w", r.page, r.err)
				cancel()
			}
			continue
		}
		pages[r.page] = r.items
	}

	return firstErr
}

// worker processes pages from the queue until it drains or the context ends.
func (bf *BatchFetcher[T]) worker(ctx context.Context, query string, pageQueue <-chan int, results chan<- pageResult[T], wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	pagesProcessed := 0

	for page := range pageQueue {
		if ctx.Err() != nil {
			bf.logger.Debug().
				Int("worker_id", workerID).
				Int("pages_processed", pagesProcessed).
				Msg("Worker stopping (context cancelled)")
			return
		}

		res, err := bf.fetch(ctx, page, query)
		results <- pageResult[T]{page: page, items: res.Items, err: err}
		if err != nil {
			return
		}
		pagesProcessed++
	}

	if pagesProcessed > 0 {
		bf.logger.Debug().
			Int("worker_id", workerID).
			Int("pages_processed", pagesProcessed).
			Msg("Worker completed")
	}
}

func (bf *BatchFetcher[T]) fetch(ctx context.Context, page int, query string) (listing.PageResult[T], error) {
	pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
	defer cancel()
	return bf.gateway(pageCtx, page, query)
}

func collect[T any](pages map[int][]T) []T {
	order := make([]int, 0, len(pages))
	total := 0
	for page, items := range pages {
		order = append(order, page)
		total += len(items)
	}
	sort.Ints(order)

	items := make([]T, 0, total)
	for _, page := range order {
		items = append(items, pages[page]...)
	}
	return items
}
