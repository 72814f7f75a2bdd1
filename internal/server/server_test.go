package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sternrassler/mortyverse/pkg/client"
	"github.com/Sternrassler/mortyverse/pkg/listing"
	"github.com/Sternrassler/mortyverse/pkg/rickmorty"
	"github.com/Sternrassler/mortyverse/pkg/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMovies struct {
	lastPage  int
	lastQuery string
	err       error
}

func (f *fakeMovies) FetchMovies(_ context.Context, page int, query string) (listing.PageResult[tmdb.Movie], error) {
	f.lastPage, f.lastQuery = page, query
	if f.err != nil {
		return listing.PageResult[tmdb.Movie]{}, f.err
	}
	return listing.NewPageResult([]tmdb.Movie{{ID: 278, Title: "The Shawshank Redemption"}}, page, 2), nil
}

func (f *fakeMovies) MovieDetails(_ context.Context, id int) (tmdb.MovieDetails, error) {
	if id == 404 {
		return tmdb.MovieDetails{}, &tmdb.MovieNotFoundError{ID: id}
	}
	return tmdb.MovieDetails{ID: id, Title: "Fight Club"}, nil
}

func (f *fakeMovies) Reviews(_ context.Context, id int) ([]tmdb.Review, error) {
	return nil, nil
}

type fakeCharacters struct{}

func (fakeCharacters) FetchCharacters(_ context.Context, page int, _ string) (listing.PageResult[rickmorty.Character], error) {
	return listing.NewPageResult([]rickmorty.Character{{ID: 1, Name: "Rick Sanchez"}}, page, 1), nil
}

func (fakeCharacters) Character(_ context.Context, id int) (rickmorty.Character, error) {
	if id == 9999 {
		return rickmorty.Character{}, fmt.Errorf("%w: id %d", rickmorty.ErrCharacterNotFound, id)
	}
	return rickmorty.Character{ID: id, Name: "Morty Smith"}, nil
}

func newTestServer(t *testing.T, movies Movies) *httptest.Server {
	t.Helper()
	s, err := New(Config{Movies: movies, Characters: fakeCharacters{}})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestNew_RequiresCharacters(t *testing.T) {
	_, err := New(Config{})
	assert.EqualError(t, err, "characters repository is required")
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeMovies{})

	status, body := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)

	status, _ = get(t, srv, "/ready")
	assert.Equal(t, http.StatusOK, status)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeMovies{})

	status, body := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "go_goroutines")
}

func TestMoviesEndpoint(t *testing.T) {
	movies := &fakeMovies{}
	srv := newTestServer(t, movies)

	status, body := get(t, srv, "/v1/movies?page=2&query=shawshank")
	require.Equal(t, http.StatusOK, status)

	var page pageResponse[tmdb.Movie]
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Equal(t, 2, page.Page)
	assert.False(t, page.HasMore)
	require.Len(t, page.Results, 1)
	assert.Equal(t, 278, page.Results[0].ID)

	assert.Equal(t, 2, movies.lastPage)
	assert.Equal(t, "shawshank", movies.lastQuery)
}

func TestMoviesEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		path      string
		status    int
		wantClass string
	}{
		{"bad page", nil, "/v1/movies?page=zero", http.StatusBadRequest, ""},
		{"negative page", nil, "/v1/movies?page=-1", http.StatusBadRequest, ""},
		{"upstream status", &client.APIError{StatusCode: 500, ErrorClass: client.ErrorClassStatus, Message: "unexpected response", Err: errors.New("internal trace id=42")}, "/v1/movies", http.StatusBadGateway, "status"},
		{"cooldown", &client.APIError{ErrorClass: client.ErrorClassRateLimited, Message: "rate limited", Err: client.ErrRequestBlocked}, "/v1/movies", http.StatusTooManyRequests, ""},
		{"network", errors.New("dial tcp: refused"), "/v1/movies", http.StatusBadGateway, "network"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeMovies{err: tt.err})
			status, body := get(t, srv, tt.path)
			assert.Equal(t, tt.status, status)

			var resp errorResponse
			require.NoError(t, json.Unmarshal([]byte(body), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.wantClass, resp.Class)
			if tt.status == http.StatusBadGateway {
				assert.Equal(t, "upstream request failed", resp.Error)
				assert.NotContains(t, body, "trace id")
				assert.NotContains(t, body, "dial tcp")
			}
		})
	}
}

func TestMovieEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeMovies{})

	status, body := get(t, srv, "/v1/movies/550")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Fight Club")

	status, body = get(t, srv, "/v1/movies/404")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Movie not found with id 404.")

	status, _ = get(t, srv, "/v1/movies/abc")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = get(t, srv, "/v1/movies/550/reviews")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"results":[]`)
}

func TestMoviesDisabledWithoutTMDB(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := get(t, srv, "/v1/movies")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.True(t, strings.Contains(body, "tmdb.api_key"))

	status, _ = get(t, srv, "/v1/characters")
	assert.Equal(t, http.StatusOK, status)
}

func TestCharacterEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := get(t, srv, "/v1/characters?query=rick")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Rick Sanchez")

	status, body = get(t, srv, "/v1/characters/2")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Morty Smith")

	status, _ = get(t, srv, "/v1/characters/9999")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s, err := New(Config{Characters: fakeCharacters{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	assert.NoError(t, <-done)
}
