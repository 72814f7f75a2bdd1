package tmdb

import "testing"

func TestMovieDetails_RuntimeFormatted(t *testing.T) {
	minutes := func(n int) *int { return &n }

	tests := []struct {
		name    string
		runtime *int
		want    string
	}{
		{"unknown", nil, ""},
		{"zero", minutes(0), ""},
		{"minutes only", minutes(45), "45m"},
		{"whole hours", minutes(120), "2h"},
		{"hours and minutes", minutes(139), "2h 19m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MovieDetails{Runtime: tt.runtime}.RuntimeFormatted()
			if got != tt.want {
				t.Errorf("RuntimeFormatted() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
	}{
		{"1994-09-23", true},
		{"", false},
		{"23.09.1994", false},
		{"1994-13-40", false},
	}

	for _, tt := range tests {
		got := parseDate(tt.in)
		if (got != nil) != tt.wantOK {
			t.Errorf("parseDate(%q) = %v, want ok=%v", tt.in, got, tt.wantOK)
		}
	}
}

func TestConfiguration_Endpoints(t *testing.T) {
	cfg := Configuration{BaseURL: "https://api.example.com/3/", APIKey: "k"}

	tests := []struct {
		got  string
		want string
	}{
		{cfg.topRatedURL(2), "https://api.example.com/3/movie/top_rated?api_key=k&page=2"},
		{cfg.searchURL("the thing", 1), "https://api.example.com/3/search/movie?api_key=k&page=1&query=the+thing"},
		{cfg.movieURL(550), "https://api.example.com/3/movie/550?api_key=k"},
		{cfg.reviewsURL(550), "https://api.example.com/3/movie/550/reviews?api_key=k"},
		{cfg.imageURL("w500", "/p.jpg"), "https://image.tmdb.org/t/p/w500/p.jpg"},
		{cfg.imageURL("w500", ""), ""},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
