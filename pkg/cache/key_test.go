package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "path only",
			key: Key{
				Host: "api.themoviedb.org",
				Path: "/3/movie/550",
			},
			want: "mortyverse:http:api.themoviedb.org/3/movie/550",
		},
		{
			name: "api key is dropped",
			key: Key{
				Host:  "api.themoviedb.org",
				Path:  "/3/movie/550",
				Query: url.Values{"api_key": []string{"secret"}},
			},
			want: "mortyverse:http:api.themoviedb.org/3/movie/550",
		},
		{
			name: "query params sorted",
			key: Key{
				Host: "api.themoviedb.org",
				Path: "/3/movie/550/reviews/",
				Query: url.Values{
					"page":     []string{"1"},
					"language": []string{"en-US"},
				},
			},
			want: "mortyverse:http:api.themoviedb.org/3/movie/550/reviews:language=en-US:page=1",
		},
		{
			name: "host lowercased",
			key: Key{
				Host: "RickAndMortyAPI.com",
				Path: "/api/character/1",
			},
			want: "mortyverse:http:rickandmortyapi.com/api/character/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyFromURL(t *testing.T) {
	u, err := url.Parse("https://api.themoviedb.org/3/movie/550?api_key=k&language=de")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	got := KeyFromURL(u).String()
	want := "mortyverse:http:api.themoviedb.org/3/movie/550:language=de"
	if got != want {
		t.Errorf("KeyFromURL().String() = %q, want %q", got, want)
	}
}
