package rickmorty

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Sternrassler/mortyverse/pkg/client"
	"github.com/Sternrassler/mortyverse/pkg/listing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrCharacterNotFound is returned when a character lookup answers 404.
var ErrCharacterNotFound = errors.New("character not found")

// Client is the character repository.
type Client struct {
	http   *client.Client
	config Configuration
	logger zerolog.Logger
}

// NewClient creates a repository over a shared transport.
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
		logger: log.With().Str("component", "rickmorty").Logger(),
	}, nil
}

// FetchCharacters is the character list gateway. A non-empty query filters
// by name.
func (c *Client) FetchCharacters(ctx context.Context, page int, query string) (listing.PageResult[Character], error) {
	c.logger.Debug().Int("page", page).Str("query", query).Msg("Fetching characters")

	var dto pageDTO
	if err := c.http.GetJSON(ctx, c.config.charactersURL(page, query), &dto); err != nil {
		return listing.PageResult[Character]{}, err
	}

	return listing.NewPageResult(mapCharacters(dto.Results), page, dto.Info.Pages), nil
}

// Gateway returns FetchCharacters as a listing.Gateway.
func (c *Client) Gateway() listing.Gateway[Character] {
	return c.FetchCharacters
}

// Character loads one character by id.
func (c *Client) Character(ctx context.Context, id int) (Character, error) {
	var dto characterDTO
	if err := c.http.GetJSONCached(ctx, c.config.characterURL(id), &dto); err != nil {
		if client.IsStatus(err, http.StatusNotFound) {
			return Character{}, fmt.Errorf("%w: id %d", ErrCharacterNotFound, id)
		}
		return Character{}, err
	}
	return mapCharacter(dto), nil
}
