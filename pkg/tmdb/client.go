package tmdb

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Sternrassler/mortyverse/pkg/client"
	"github.com/Sternrassler/mortyverse/pkg/listing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client is the TMDB repository.
type Client struct {
	http   *client.Client
	config Configuration
	logger zerolog.Logger
}

// NewClient creates a TMDB repository over a shared transport.
func NewClient(httpClient *client.Client, cfg Configuration) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		http:   httpClient,
		config: cfg,
		logger: log.With().Str("component", "tmdb").Logger(),
	}, nil
}

// FetchMovies is the movie list gateway: top-rated for an empty query,
// search otherwise. It never touches the cache.
func (c *Client) FetchMovies(ctx context.Context, page int, query string) (listing.PageResult[Movie], error) {
	var target string
	if query == "" {
		target = c.config.topRatedURL(page)
	} else {
		target = c.config.searchURL(query, page)
	}

	c.logger.Debug().Int("page", page).Str("query", query).Msg("Fetching movies")

	var dto pageDTO[movieDTO]
	if err := c.http.GetJSON(ctx, target, &dto); err != nil {
		return listing.PageResult[Movie]{}, err
	}

	return listing.NewPageResult(c.config.mapMovies(dto.Results), page, dto.TotalPages), nil
}

// Gateway returns FetchMovies as a listing.Gateway.
func (c *Client) Gateway() listing.Gateway[Movie] {
	return c.FetchMovies
}

// MovieDetails loads one movie. A 404 yields a *MovieNotFoundError.
func (c *Client) MovieDetails(ctx context.Context, id int) (MovieDetails, error) {
	var dto movieDetailsDTO
	if err := c.http.GetJSONCached(ctx, c.config.movieURL(id), &dto); err != nil {
		if client.IsStatus(err, http.StatusNotFound) {
			return MovieDetails{}, &MovieNotFoundError{ID: id, Err: err}
		}
		return MovieDetails{}, err
	}
	return c.config.mapMovieDetails(dto), nil
}

// Reviews loads the first page of reviews for a movie.
func (c *Client) Reviews(ctx context.Context, id int) ([]Review, error) {
	var dto pageDTO[reviewDTO]
	if err := c.http.GetJSONCached(ctx, c.config.reviewsURL(id), &dto); err != nil {
		if client.IsStatus(err, http.StatusNotFound) {
			return nil, &MovieNotFoundError{ID: id, Err: err}
		}
		return nil, err
	}
	return c.config.mapReviews(dto.Results), nil
}
