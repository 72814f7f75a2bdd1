package tmdb

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

const releaseDateLayout = "2006-01-02"

func (c Configuration) mapMovie(dto movieDTO) Movie {
	return Movie{
		ID:          dto.ID,
		Title:       dto.Title,
		Overview:    dto.Overview,
		PosterURL:   c.imageURL(posterSize, dto.PosterPath),
		ReleaseDate: parseDate(dto.ReleaseDate),
		VoteAverage: dto.VoteAverage,
	}
}

func (c Configuration) mapMovies(dtos []movieDTO) []Movie {
	return lo.Map(dtos, func(dto movieDTO, _ int) Movie {
		return c.mapMovie(dto)
	})
}

func (c Configuration) mapMovieDetails(dto movieDetailsDTO) MovieDetails {
	return MovieDetails{
		ID:          dto.ID,
		Title:       dto.Title,
		Overview:    dto.Overview,
		PosterURL:   c.imageURL(posterSize, dto.PosterPath),
		BackdropURL: c.imageURL(backdropSize, dto.BackdropPath),
		ReleaseDate: parseDate(dto.ReleaseDate),
		VoteAverage: dto.VoteAverage,
		VoteCount:   dto.VoteCount,
		Runtime:     dto.Runtime,
		Genres: lo.Map(dto.Genres, func(g genreDTO, _ int) Genre {
			return Genre{ID: g.ID, Name: g.Name}
		}),
		Status:           dto.Status,
		Tagline:          dto.Tagline,
		Budget:           dto.Budget,
		Revenue:          dto.Revenue,
		OriginalLanguage: dto.OriginalLanguage,
	}
}

func (c Configuration) mapReviews(dtos []reviewDTO) []Review {
	return lo.Map(dtos, func(dto reviewDTO, _ int) Review {
		review := Review{
			ID:        dto.ID,
			Author:    dto.Author,
			Content:   strings.TrimSpace(dto.Content),
			CreatedAt: parseTimestamp(dto.CreatedAt),
		}
		if d := dto.AuthorDetails; d != nil {
			review.AuthorDetails = &AuthorDetails{
				Name:      d.Name,
				Username:  d.Username,
				AvatarURL: c.avatarURL(lo.FromPtr(d.AvatarPath)),
				Rating:    d.Rating,
			}
		}
		return review
	})
}

// avatarURL resolves avatar paths. Gravatar-backed avatars arrive as
// "/https://..." and are used verbatim.
func (c Configuration) avatarURL(path string) string {
	if strings.HasPrefix(path, "/http") {
		return strings.TrimPrefix(path, "/")
	}
	return c.imageURL(avatarSize, path)
}

// parseDate parses a TMDB calendar date. Empty or malformed dates yield nil.
func parseDate(s string) *time.Time {
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// parseTimestamp accepts RFC 3339 (with or without fractional seconds) and
// falls back to a calendar date.
func parseTimestamp(s string) *time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &t
	}
	if len(s) >= len(releaseDateLayout) {
		return parseDate(s[:len(releaseDateLayout)])
	}
	return nil
}
