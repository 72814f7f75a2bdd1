package tmdb

import (
	"fmt"
	"time"
)

// Movie is a list entry.
type Movie struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Overview    string     `json:"overview"`
	PosterURL   string     `json:"poster_url,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	VoteAverage float64    `json:"vote_average"`
}

// Identifier implements listing.Item.
func (m Movie) Identifier() int { return m.ID }

// Rating renders the vote average with one decimal.
func (m Movie) Rating() string {
	return fmt.Sprintf("%.1f", m.VoteAverage)
}

// Year returns the release year, or "" when unknown.
func (m Movie) Year() string {
	if m.ReleaseDate == nil {
		return ""
	}
	return m.ReleaseDate.Format("2006")
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the full record behind a detail screen.
type MovieDetails struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	Overview         string     `json:"overview"`
	PosterURL        string     `json:"poster_url,omitempty"`
	BackdropURL      string     `json:"backdrop_url,omitempty"`
	ReleaseDate      *time.Time `json:"release_date,omitempty"`
	VoteAverage      float64    `json:"vote_average"`
	VoteCount        int        `json:"vote_count"`
	Runtime          *int       `json:"runtime,omitempty"`
	Genres           []Genre    `json:"genres"`
	Status           string     `json:"status"`
	Tagline          string     `json:"tagline,omitempty"`
	Budget           int64      `json:"budget"`
	Revenue          int64      `json:"revenue"`
	OriginalLanguage string     `json:"original_language"`
}

// RuntimeFormatted renders the runtime as "2h 19m", or "" when unknown.
func (d MovieDetails) RuntimeFormatted() string {
	if d.Runtime == nil || *d.Runtime <= 0 {
		return ""
	}
	hours, minutes := *d.Runtime/60, *d.Runtime%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}

// Rating renders the vote average with one decimal.
func (d MovieDetails) Rating() string {
	return fmt.Sprintf("%.1f", d.VoteAverage)
}

// AuthorDetails carries the optional reviewer profile.
type AuthorDetails struct {
	Name      string   `json:"name,omitempty"`
	Username  string   `json:"username,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
}

// RatingFormatted renders the reviewer's rating, or "" when absent.
func (a AuthorDetails) RatingFormatted() string {
	if a.Rating == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *a.Rating)
}

// Review is a user review of a movie.
type Review struct {
	ID            string         `json:"id"`
	Author        string         `json:"author"`
	Content       string         `json:"content"`
	CreatedAt     *time.Time     `json:"created_at,omitempty"`
	AuthorDetails *AuthorDetails `json:"author_details,omitempty"`
}
