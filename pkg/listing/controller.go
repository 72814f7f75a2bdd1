package listing

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the controller configuration.
type Config struct {
	// Name labels logs and metrics (e.g. "movies").
	Name string

	// Debounce is the quiet window for SetSearchText. Zero acts on the next
	// timer tick.
	Debounce time.Duration
}

// DefaultConfig returns the default configuration for a named list.
func DefaultConfig(name string) Config {
	return Config{
		Name:     name,
		Debounce: DefaultDebounce,
	}
}

// Controller owns the state of one paginated, searchable list.
// All methods are safe for concurrent use and never block on the network.
type Controller[T Item] struct {
	gateway Gateway[T]
	config  Config
	logger  zerolog.Logger

	mu         sync.Mutex
	state      State[T]
	query      string // last acted-upon search value
	gen        uint64
	cancel     context.CancelFunc // in-flight page-1 load
	nextCancel context.CancelFunc // in-flight next-page load
	closed     bool

	root      context.Context
	stop      context.CancelFunc
	debouncer *Debouncer[string]

	subs    map[int]chan State[T]
	nextSub int
}

// NewController creates a controller in the Idle state.
func NewController[T Item](gateway Gateway[T], cfg Config) (*Controller[T], error) {
	if gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}

	if cfg.Debounce < 0 {
		return nil, fmt.Errorf("debounce must be >= 0 (got %v)", cfg.Debounce)
	}

	if cfg.Name == "" {
		cfg.Name = "list"
	}

	root, stop := context.WithCancel(context.Background())

	c := &Controller[T]{
		gateway: gateway,
		config:  cfg,
		logger: log.With().
			Str("component", "listing").
			Str("list", cfg.Name).
			Logger(),
		state: Idle[T](),
		root:  root,
		stop:  stop,
		subs:  make(map[int]chan State[T]),
	}
	c.debouncer = NewDebouncer(cfg.Debounce, c.applySearch)

	return c, nil
}

// Name returns the list name.
func (c *Controller[T]) Name() string {
	return c.config.Name
}

// State returns the current state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Query returns the last acted-upon search value.
func (c *Controller[T]) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// StartLoading loads page 1 for the active query. No-op unless Idle.
func (c *Controller[T]) StartLoading() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state.Kind != KindIdle {
		return
	}
	c.reload(c.query)
}

// Retry reloads page 1 for the active query from Error (or Idle).
// Other states are left alone.
func (c *Controller[T]) Retry() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.state.Kind != KindError && c.state.Kind != KindIdle {
		return
	}
	c.logger.Debug().Str("query", c.query).Msg("Retrying")
	c.reload(c.query)
}

// SetSearchText records new search text. The controller acts once the text
// has been quiet for the debounce window, and only if it differs from the
// last acted-upon value.
func (c *Controller[T]) SetSearchText(text string) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return
	}
	c.debouncer.Push(text)
}

// LoadNextPage fetches the page after the current one and appends it.
// No-op unless the state is Loaded with more pages and no load in progress.
func (c *Controller[T]) LoadNextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.state.CanLoadMore() {
		return
	}

	next := c.state
	next.IsLoadingMore = true
	c.setState(next)

	ctx, cancel := context.WithCancel(c.root)
	c.nextCancel = cancel

	page := next.CurrentPage + 1
	ListFetches.WithLabelValues(c.config.Name, "next").Inc()
	go c.fetchNext(ctx, cancel, c.gen, page, c.query)
}

// Subscribe returns a channel that receives the current state and then every
// change. The channel holds only the latest snapshot; a slow reader skips
// intermediate states. It is closed by unsubscribe or Close.
func (c *Controller[T]) Subscribe() (<-chan State[T], func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State[T], 1)
	if c.closed {
		ch <- c.state
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Close cancels the debounce timer and in-flight loads and closes all
// subscriptions. The state is frozen afterwards. Close is idempotent.
func (c *Controller[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	c.debouncer.Stop()
	c.stop()
	c.cancel = nil
	c.nextCancel = nil

	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}

	c.logger.Debug().Msg("Controller closed")
	return nil
}

// applySearch runs when the debounce window elapses.
func (c *Controller[T]) applySearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if text == c.query {
		c.logger.Debug().Str("query", text).Msg("Search unchanged, skipping")
		return
	}
	c.reload(text)
}

// reload starts a new generation and loads page 1. Caller holds c.mu.
func (c *Controller[T]) reload(query string) {
	c.gen++
	if c.cancel != nil {
		c.cancel()
	}
	if c.nextCancel != nil {
		c.nextCancel()
		c.nextCancel = nil
	}

	ctx, cancel := context.WithCancel(c.root)
	c.cancel = cancel
	c.query = query
	c.setState(Loading[T]())

	ListFetches.WithLabelValues(c.config.Name, "first").Inc()
	go c.fetchFirst(ctx, cancel, c.gen, query)
}

func (c *Controller[T]) fetchFirst(ctx context.Context, cancel context.CancelFunc, gen uint64, query string) {
	defer cancel()

	start := time.Now()
	result, err := c.gateway(ctx, 1, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		StaleResults.WithLabelValues(c.config.Name).Inc()
		c.logger.Debug().Str("query", query).Msg("Discarding stale page-1 result")
		return
	}
	c.cancel = nil

	if err != nil {
		c.logger.Warn().Err(err).Str("query", query).Msg("Page-1 load failed")
		c.setState(Failed[T](err.Error()))
		return
	}

	c.logger.Debug().
		Str("query", query).
		Int("items", len(result.Items)).
		Bool("has_more", result.HasMore).
		Dur("duration", time.Since(start)).
		Msg("Page-1 loaded")
	c.setState(Loaded(slices.Clone(result.Items), 1, result.HasMore, false))
}

func (c *Controller[T]) fetchNext(ctx context.Context, cancel context.CancelFunc, gen uint64, page int, query string) {
	defer cancel()

	result, err := c.gateway(ctx, page, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen || c.state.Kind != KindLoaded || !c.state.IsLoadingMore {
		StaleResults.WithLabelValues(c.config.Name).Inc()
		c.logger.Debug().Int("page", page).Msg("Discarding stale next-page result")
		return
	}
	c.nextCancel = nil

	if err != nil {
		c.logger.Warn().Err(err).Int("page", page).Msg("Next-page load failed")
		c.setState(Failed[T](err.Error()))
		return
	}

	items := make([]T, 0, len(c.state.Items)+len(result.Items))
	items = append(items, c.state.Items...)
	items = append(items, result.Items...)

	c.logger.Debug().
		Int("page", page).
		Int("items", len(items)).
		Bool("has_more", result.HasMore).
		Msg("Next page loaded")
	c.setState(Loaded(items, page, result.HasMore, false))
}

// setState replaces the state and notifies subscribers. Caller holds c.mu.
func (c *Controller[T]) setState(s State[T]) {
	c.logger.Debug().
		Str("from", c.state.String()).
		Str("to", s.String()).
		Msg("State transition")
	c.state = s

	for _, ch := range c.subs {
		select {
		case ch <- s:
		default:
			// Replace the unread snapshot. Sends only happen under c.mu,
			// so the slot is free after the drain.
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}
