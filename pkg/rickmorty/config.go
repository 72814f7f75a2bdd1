// Package rickmorty is the gateway to the Rick and Morty API character
// endpoints.
package rickmorty

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://rickandmortyapi.com/api"

// Configuration holds the endpoint settings.
type Configuration struct {
	BaseURL string
}

// DefaultConfiguration returns the public endpoint.
func DefaultConfiguration() Configuration {
	return Configuration{BaseURL: DefaultBaseURL}
}

// Validate checks the configuration.
func (c Configuration) Validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid rickmorty base url %q: %w", c.BaseURL, err)
	}
	return nil
}

func (c Configuration) charactersURL(page int, name string) string {
	params := url.Values{"page": {strconv.Itoa(page)}}
	if name != "" {
		params.Set("name", name)
	}
	return strings.TrimRight(c.BaseURL, "/") + "/character?" + params.Encode()
}

func (c Configuration) characterURL(id int) string {
	return fmt.Sprintf("%s/character/%d", strings.TrimRight(c.BaseURL, "/"), id)
}
