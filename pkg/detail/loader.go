// Package detail provides a one-shot asynchronous loader for detail screens:
// a movie, its reviews or a character.
package detail

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Kind tags the variant held by a State.
type Kind int

const (
	// KindIdle: no load requested yet.
	KindIdle Kind = iota
	// KindLoading: a fetch is in flight.
	KindLoading
	// KindLoaded: the value is available.
	KindLoaded
	// KindError: the last fetch failed.
	KindError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindLoading:
		return "loading"
	case KindLoaded:
		return "loaded"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// State is a snapshot of a Loader.
type State[T any] struct {
	Kind    Kind
	Value   T
	Message string
}

// Fetch loads the value.
type Fetch[T any] func(ctx context.Context) (T, error)

// Config holds the loader configuration.
type Config struct {
	// Name labels logs.
	Name string

	// MessagePrefix is prepended to error messages
	// (e.g. "Failed to load reviews: ").
	MessagePrefix string
}

// Loader runs fetch at most once per Load or Retry and tracks the outcome.
type Loader[T any] struct {
	fetch  Fetch[T]
	config Config
	logger zerolog.Logger

	mu     sync.Mutex
	state  State[T]
	gen    uint64
	closed bool
	root   context.Context
	stop   context.CancelFunc

	subs    map[int]chan State[T]
	nextSub int
}

// New creates an Idle loader.
func New[T any](fetch Fetch[T], cfg Config) (*Loader[T], error) {
	if fetch == nil {
		return nil, fmt.Errorf("fetch is required")
	}
	if cfg.Name == "" {
		cfg.Name = "detail"
	}

	root, stop := context.WithCancel(context.Background())
	return &Loader[T]{
		fetch:  fetch,
		config: cfg,
		logger: log.With().Str("component", "detail").Str("name", cfg.Name).Logger(),
		root:   root,
		stop:   stop,
		subs:   make(map[int]chan State[T]),
	}, nil
}

// State returns the current state.
func (l *Loader[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load starts the fetch. No-op unless Idle.
func (l *Loader[T]) Load() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.state.Kind != KindIdle {
		return
	}
	l.start()
}

// Retry restarts the fetch after a failure. No-op unless Error.
func (l *Loader[T]) Retry() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.state.Kind != KindError {
		return
	}
	l.start()
}

// Subscribe returns a latest-value channel of states, closed by unsubscribe
// or Close.
func (l *Loader[T]) Subscribe() (<-chan State[T], func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan State[T], 1)
	ch <- l.state
	if l.closed {
		close(ch)
		return ch, func() {}
	}

	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if sub, ok := l.subs[id]; ok {
				delete(l.subs, id)
				close(sub)
			}
		})
	}
}

// Close cancels an in-flight fetch and closes subscriptions. Idempotent.
func (l *Loader[T]) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	l.stop()
	for id, ch := range l.subs {
		close(ch)
		delete(l.subs, id)
	}
	return nil
}

// start moves to Loading and runs the fetch. Caller holds l.mu.
func (l *Loader[T]) start() {
	l.gen++
	gen := l.gen
	l.setState(State[T]{Kind: KindLoading})

	go func() {
		value, err := l.fetch(l.root)

		l.mu.Lock()
		defer l.mu.Unlock()

		if l.closed || gen != l.gen {
			return
		}
		if err != nil {
			l.logger.Warn().Err(err).Msg("Detail load failed")
			l.setState(State[T]{Kind: KindError, Message: l.config.MessagePrefix + err.Error()})
			return
		}
		l.setState(State[T]{Kind: KindLoaded, Value: value})
	}()
}

func (l *Loader[T]) setState(s State[T]) {
	l.logger.Debug().Str("from", l.state.Kind.String()).Str("to", s.Kind.String()).Msg("State transition")
	l.state = s
	for _, ch := range l.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}
