package listing

import "fmt"

// Kind tags the variant held by a State.
type Kind int

const (
	// KindIdle: nothing loaded, nothing in flight.
	KindIdle Kind = iota
	// KindLoading: a page-1 load is in flight.
	KindLoading
	// KindLoaded: items accumulated for the active query.
	KindLoaded
	// KindError: the last load failed.
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

// State is a snapshot of a list. Only the fields of its Kind are meaningful.
// Items is shared between snapshots and must not be modified.
type State[T Item] struct {
	Kind          Kind
	Items         []T
	CurrentPage   int
	HasMore       bool
	IsLoadingMore bool
	Message       string
}

// Idle returns the initial state.
func Idle[T Item]() State[T] {
	return State[T]{Kind: KindIdle}
}

// Loading returns the page-1 loading state.
func Loading[T Item]() State[T] {
	return State[T]{Kind: KindLoading}
}

// Loaded returns a loaded state.
func Loaded[T Item](items []T, currentPage int, hasMore, isLoadingMore bool) State[T] {
	return State[T]{
		Kind:          KindLoaded,
		Items:         items,
		CurrentPage:   currentPage,
		HasMore:       hasMore,
		IsLoadingMore: isLoadingMore,
	}
}

// Failed returns an error state carrying message.
func Failed[T Item](message string) State[T] {
	return State[T]{Kind: KindError, Message: message}
}

// Equal compares two states variant by variant. Items compare by identifier.
func (s State[T]) Equal(o State[T]) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case KindLoaded:
		return s.CurrentPage == o.CurrentPage &&
			s.HasMore == o.HasMore &&
			s.IsLoadingMore == o.IsLoadingMore &&
			SameItems(s.Items, o.Items)
	case KindError:
		return s.Message == o.Message
	default:
		return true
	}
}

// CanLoadMore reports whether LoadNextPage would act on this state.
func (s State[T]) CanLoadMore() bool {
	return s.Kind == KindLoaded && s.HasMore && !s.IsLoadingMore
}

// String renders the state for logs.
func (s State[T]) String() string {
	switch s.Kind {
	case KindLoaded:
		return fmt.Sprintf("loaded(items=%d page=%d hasMore=%t loadingMore=%t)",
			len(s.Items), s.CurrentPage, s.HasMore, s.IsLoadingMore)
	case KindError:
		return fmt.Sprintf("error(%q)", s.Message)
	default:
		return s.Kind.String()
	}
}
