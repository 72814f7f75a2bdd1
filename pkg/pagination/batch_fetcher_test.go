package pagination

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sternrassler/mortyverse/pkg/listing"
)

// pagesOf serves total pages, each holding its own page number twice.
func pagesOf(total int, calls *atomic.Int32) listing.Gateway[int] {
	return func(ctx context.Context, page int, _ string) (listing.PageResult[int], error) {
		calls.Add(1)
		// Later pages finish first to exercise ordering.
		time.Sleep(time.Duration(total-page) * time.Millisecond)
		return listing.NewPageResult([]int{page, page}, page, total), nil
	}
}

func TestNewBatchFetcher_Defaults(t *testing.T) {
	bf := NewBatchFetcher[int](nil, Config{MaxPages: -1})

	if bf.config.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d, want 4", bf.config.MaxConcurrency)
	}
	if bf.config.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", bf.config.Timeout)
	}
	if bf.config.MaxPages != 0 {
		t.Errorf("MaxPages = %d, want 0", bf.config.MaxPages)
	}
}

func TestFetchAll_OrderedItems(t *testing.T) {
	var calls atomic.Int32
	bf := NewBatchFetcher(pagesOf(6, &calls), Config{MaxConcurrency: 3})

	result, err := bf.FetchAll(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	want := []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6}
	if len(result.Items) != len(want) {
		t.Fatalf("len(Items) = %d, want %d", len(result.Items), len(want))
	}
	for i := range want {
		if result.Items[i] != want[i] {
			t.Errorf("Items[%d] = %d, want %d", i, result.Items[i], want[i])
		}
	}

	if result.FetchedPages != 6 || result.TotalPages != 6 {
		t.Errorf("FetchedPages/TotalPages = %d/%d, want 6/6", result.FetchedPages, result.TotalPages)
	}
	if calls.Load() != 6 {
		t.Errorf("calls = %d, want 6", calls.Load())
	}
}

func TestFetchAll_SinglePage(t *testing.T) {
	var calls atomic.Int32
	bf := NewBatchFetcher(pagesOf(1, &calls), DefaultConfig())

	result, err := bf.FetchAll(context.Background(), "q")
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if result.FetchedPages != 1 || calls.Load() != 1 {
		t.Errorf("FetchedPages = %d, calls = %d, want 1, 1", result.FetchedPages, calls.Load())
	}
}

func TestFetchAll_MaxPages(t *testing.T) {
	var calls atomic.Int32
	bf := NewBatchFetcher(pagesOf(40, &calls), Config{MaxConcurrency: 2, MaxPages: 3})

	result, err := bf.FetchAll(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if result.FetchedPages != 3 {
		t.Errorf("FetchedPages = %d, want 3", result.FetchedPages)
	}
	if result.TotalPages != 40 {
		t.Errorf("TotalPages = %d, want 40", result.TotalPages)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetchAll_FirstPageError(t *testing.T) {
	boom := errors.New("boom")
	bf := NewBatchFetcher(func(context.Context, int, string) (listing.PageResult[int], error) {
		return listing.PageResult[int]{}, boom
	}, DefaultConfig())

	_, err := bf.FetchAll(context.Background(), "")
	if !errors.Is(err, boom) {
		t.Fatalf("FetchAll() error = %v, want boom", err)
	}
	if !strings.Contains(err.Error(), "failed to fetch first page") {
		t.Errorf("error = %q, want first-page context", err.Error())
	}
}

func TestFetchAll_PartialResults(t *testing.T) {
	boom := errors.New("page 3 exploded")
	var mu sync.Mutex
	seen := map[int]bool{}

	bf := NewBatchFetcher(func(_ context.Context, page int, _ string) (listing.PageResult[int], error) {
		mu.Lock()
		seen[page] = true
		mu.Unlock()
		if page == 3 {
			return listing.PageResult[int]{}, boom
		}
		return listing.NewPageResult([]int{page}, page, 3), nil
	}, Config{MaxConcurrency: 1})

	result, err := bf.FetchAll(context.Background(), "")
	if !errors.Is(err, boom) {
		t.Fatalf("FetchAll() error = %v, want boom", err)
	}
	if result.FetchedPages != 2 {
		t.Errorf("FetchedPages = %d, want 2", result.FetchedPages)
	}
	if len(result.Items) != 2 || result.Items[0] != 1 || result.Items[1] != 2 {
		t.Errorf("Items = %v, want [1 2]", result.Items)
	}
}
