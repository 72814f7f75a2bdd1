package rickmorty

import (
	"time"

	"github.com/samber/lo"
)

// Character is a Rick and Morty character.
type Character struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	Species      string    `json:"species"`
	Type         string    `json:"type,omitempty"`
	Gender       string    `json:"gender"`
	Origin       string    `json:"origin,omitempty"`
	Location     string    `json:"location,omitempty"`
	Image        string    `json:"image"`
	EpisodeCount int       `json:"episode_count"`
	Created      time.Time `json:"created"`
}

// Identifier implements listing.Item.
func (c Character) Identifier() int { return c.ID }

type placeDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type characterDTO struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   string   `json:"gender"`
	Origin   placeDTO `json:"origin"`
	Location placeDTO `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	Created  string   `json:"created"`
}

type infoDTO struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

type pageDTO struct {
	Info    infoDTO        `json:"info"`
	Results []characterDTO `json:"results"`
}

func mapCharacter(dto characterDTO) Character {
	return Character{
		ID:           dto.ID,
		Name:         dto.Name,
		Status:       dto.Status,
		Species:      dto.Species,
		Type:         dto.Type,
		Gender:       dto.Gender,
		Origin:       dto.Origin.Name,
		Location:     dto.Location.Name,
		Image:        dto.Image,
		EpisodeCount: len(dto.Episode),
		Created:      parseCreated(dto.Created),
	}
}

func mapCharacters(dtos []characterDTO) []Character {
	return lo.Map(dtos, func(dto characterDTO, _ int) Character {
		return mapCharacter(dto)
	})
}

// parseCreated parses "2017-11-04T18:48:46.250Z". Malformed values yield the
// zero time.
func parseCreated(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
