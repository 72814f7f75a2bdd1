package listing

import "testing"

func TestSame(t *testing.T) {
	a := testItem{ID: 1, Label: "Rick"}
	b := testItem{ID: 1, Label: "Rick Sanchez (C-137)"}
	c := testItem{ID: 2, Label: "Rick"}

	if !Same(a, b) {
		t.Error("Same(a, b) = false, want true for equal IDs")
	}
	if Same(a, c) {
		t.Error("Same(a, c) = true, want false for different IDs")
	}
}

func TestSameItems(t *testing.T) {
	tests := []struct {
		name string
		a, b []testItem
		want bool
	}{
		{"both empty", nil, []testItem{}, true},
		{"same ids other labels", []testItem{{1, "a"}, {2, "b"}}, []testItem{{1, "x"}, {2, "y"}}, true},
		{"different order", items(1, 2), items(2, 1), false},
		{"different length", items(1), items(1, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameItems(tt.a, tt.b); got != tt.want {
				t.Errorf("SameItems() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b State[testItem]
		want bool
	}{
		{"idle", Idle[testItem](), Idle[testItem](), true},
		{"idle vs loading", Idle[testItem](), Loading[testItem](), false},
		{"loaded by identifier", Loaded([]testItem{{1, "a"}}, 1, true, false), Loaded([]testItem{{1, "b"}}, 1, true, false), true},
		{"loaded page differs", Loaded(items(1), 1, true, false), Loaded(items(1), 2, true, false), false},
		{"loaded loading-more differs", Loaded(items(1), 1, true, false), Loaded(items(1), 1, true, true), false},
		{"error message", Failed[testItem]("x"), Failed[testItem]("x"), true},
		{"error message differs", Failed[testItem]("x"), Failed[testItem]("y"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_CanLoadMore(t *testing.T) {
	tests := []struct {
		state State[testItem]
		want  bool
	}{
		{Idle[testItem](), false},
		{Loading[testItem](), false},
		{Failed[testItem]("x"), false},
		{Loaded(items(1), 1, false, false), false},
		{Loaded(items(1), 1, true, true), false},
		{Loaded(items(1), 1, true, false), true},
	}

	for _, tt := range tests {
		if got := tt.state.CanLoadMore(); got != tt.want {
			t.Errorf("%s.CanLoadMore() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		page, total int
		want        bool
	}{
		{1, 3, true},
		{3, 3, false},
		{1, 1, false},
		{1, 0, false},
	}

	for _, tt := range tests {
		got := NewPageResult(items(1), tt.page, tt.total)
		if got.HasMore != tt.want {
			t.Errorf("NewPageResult(page=%d, total=%d).HasMore = %v, want %v", tt.page, tt.total, got.HasMore, tt.want)
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindLoaded.String() != "loaded" {
		t.Errorf("KindLoaded.String() = %q", KindLoaded.String())
	}
	if Kind(42).String() != "kind(42)" {
		t.Errorf("Kind(42).String() = %q", Kind(42).String())
	}
}
