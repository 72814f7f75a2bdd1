// Package tmdb is the gateway to The Movie Database API: top-rated and
// search listings, movie details and reviews.
package tmdb

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// DefaultImageBaseURL is the TMDB image CDN root; a size segment follows.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"

	posterSize   = "w500"
	backdropSize = "original"
	avatarSize   = "w200"
)

// Configuration holds the TMDB endpoint settings.
type Configuration struct {
	BaseURL      string
	APIKey       string
	ImageBaseURL string
}

// DefaultConfiguration returns the public TMDB endpoints for apiKey.
func DefaultConfiguration(apiKey string) Configuration {
	return Configuration{
		BaseURL:      DefaultBaseURL,
		APIKey:       apiKey,
		ImageBaseURL: DefaultImageBaseURL,
	}
}

// Validate checks the configuration.
func (c Configuration) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("tmdb api key is required")
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid tmdb base url %q: %w", c.BaseURL, err)
	}
	return nil
}

// topRatedURL builds /movie/top_rated for page.
func (c Configuration) topRatedURL(page int) string {
	return c.endpoint("/movie/top_rated", url.Values{"page": {strconv.Itoa(page)}})
}

// searchURL builds /search/movie for query and page.
func (c Configuration) searchURL(query string, page int) string {
	return c.endpoint("/search/movie", url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	})
}

// movieURL builds /movie/{id}.
func (c Configuration) movieURL(id int) string {
	return c.endpoint(fmt.Sprintf("/movie/%d", id), nil)
}

// reviewsURL builds /movie/{id}/reviews.
func (c Configuration) reviewsURL(id int) string {
	return c.endpoint(fmt.Sprintf("/movie/%d/reviews", id), nil)
}

func (c Configuration) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.APIKey)
	return strings.TrimRight(c.BaseURL, "/") + path + "?" + params.Encode()
}

func (c Configuration) imageURL(size, path string) string {
	if path == "" {
		return ""
	}
	base := c.ImageBaseURL
	if base == "" {
		base = DefaultImageBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}
