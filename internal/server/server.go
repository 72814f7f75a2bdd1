// Package server exposes the movie and character gateways as a small JSON
// HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/mortyverse/pkg/client"
	"github.com/Sternrassler/mortyverse/pkg/listing"
	"github.com/Sternrassler/mortyverse/pkg/metrics"
	"github.com/Sternrassler/mortyverse/pkg/rickmorty"
	"github.com/Sternrassler/mortyverse/pkg/tmdb"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Movies is the movie repository the server reads from.
type Movies interface {
	FetchMovies(ctx context.Context, page int, query string) (listing.PageResult[tmdb.Movie], error)
	MovieDetails(ctx context.Context, id int) (tmdb.MovieDetails, error)
	Reviews(ctx context.Context, id int) ([]tmdb.Review, error)
}

// Characters is the character repository the server reads from.
type Characters interface {
	FetchCharacters(ctx context.Context, page int, query string) (listing.PageResult[rickmorty.Character], error)
	Character(ctx context.Context, id int) (rickmorty.Character, error)
}

// Config holds server dependencies. Movies may be nil when no TMDB key is
// configured; Redis may be nil when caching is off.
type Config struct {
	Movies         Movies
	Characters     Characters
	Redis          *redis.Client
	RequestTimeout time.Duration
}

// Server routes API requests to the repositories.
type Server struct {
	config Config
	mux    *http.ServeMux
	logger zerolog.Logger
}

// pageResponse is the JSON shape of a list page.
type pageResponse[T any] struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
	Results    []T  `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
	Class string `json:"class,omitempty"`
}

// New creates a server.
func New(cfg Config) (*Server, error) {
	if cfg.Characters == nil {
		return nil, fmt.Errorf("characters repository is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
		logger: log.With().Str("component", "server").Logger(),
	}

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ready", s.handleReady)
	s.mux.Handle("GET /metrics", metrics.Handler())
	s.mux.HandleFunc("GET /v1/movies", s.handleMovies)
	s.mux.HandleFunc("GET /v1/movies/{id}", s.handleMovie)
	s.mux.HandleFunc("GET /v1/movies/{id}/reviews", s.handleReviews)
	s.mux.HandleFunc("GET /v1/characters", s.handleCharacters)
	s.mux.HandleFunc("GET /v1/characters/{id}", s.handleCharacter)

	return s, nil
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.config.Redis != nil {
		if err := s.config.Redis.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "READY")
}

func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	if !s.moviesEnabled(w) {
		return
	}
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	result, err := s.config.Movies.FetchMovies(ctx, page, r.URL.Query().Get("query"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(result))
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	if !s.moviesEnabled(w) {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	details, err := s.config.Movies.MovieDetails(ctx, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	if !s.moviesEnabled(w) {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	reviews, err := s.config.Movies.Reviews(ctx, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if reviews == nil {
		reviews = []tmdb.Review{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "results": reviews})
}

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	result, err := s.config.Characters.FetchCharacters(ctx, page, r.URL.Query().Get("query"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(result))
}

func (s *Server) handleCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	character, err := s.config.Characters.Character(ctx, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, character)
}

func (s *Server) moviesEnabled(w http.ResponseWriter) bool {
	if s.config.Movies == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "movies unavailable: tmdb.api_key not set"})
		return false
	}
	return true
}

// writeError maps repository errors: not found → 404, local cooldown → 429,
// anything else upstream → 502.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, tmdb.ErrMovieNotFound), errors.Is(err, rickmorty.ErrCharacterNotFound):
		status = http.StatusNotFound
	case client.ClassOf(err) == client.ErrorClassRateLimited:
		status = http.StatusTooManyRequests
	}

	if status != http.StatusBadGateway {
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	// Upstream bodies and transport detail stay in the log.
	class := client.ClassOf(err)
	if class == "" {
		class = client.ErrorClassNetwork
	}
	s.logger.Warn().Err(err).Str("class", string(class)).Msg("Upstream request failed")
	writeJSON(w, status, errorResponse{Error: "upstream request failed", Class: string(class)})
}

func toPage[T any](result listing.PageResult[T]) pageResponse[T] {
	items := result.Items
	if items == nil {
		items = []T{}
	}
	return pageResponse[T]{
		Page:       result.Page,
		TotalPages: result.TotalPages,
		HasMore:    result.HasMore,
		Results:    items,
	}
}

func pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid page %q", raw)})
		return 0, false
	}
	return page, true
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid id %q", raw)})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}
