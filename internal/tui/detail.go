package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/Sternrassler/mortyverse/pkg/detail"
	"github.com/Sternrassler/mortyverse/pkg/rickmorty"
	"github.com/Sternrassler/mortyverse/pkg/tmdb"
)

// maxReviewLength truncates review bodies in the detail view.
const maxReviewLength = 400

// detailView is an open detail screen.
type detailView interface {
	// start begins loading and returns the commands watching the loaders.
	start() tea.Cmd
	retry()
	view(width int, spin string) string
	close()
}

// movieDetail shows a movie and its reviews. The two loads fail independently.
type movieDetail struct {
	movie   tmdb.Movie
	details *detail.Loader[tmdb.MovieDetails]
	reviews *detail.Loader[[]tmdb.Review]
}

func newMovieDetail(source MovieSource, movie tmdb.Movie) (*movieDetail, error) {
	details, err := detail.New(func(ctx context.Context) (tmdb.MovieDetails, error) {
		return source.MovieDetails(ctx, movie.ID)
	}, detail.Config{Name: "movie"})
	if err != nil {
		return nil, err
	}

	reviews, err := detail.New(func(ctx context.Context) ([]tmdb.Review, error) {
		return source.Reviews(ctx, movie.ID)
	}, detail.Config{Name: "reviews", MessagePrefix: "Failed to load reviews: "})
	if err != nil {
		_ = details.Close()
		return nil, err
	}

	return &movieDetail{movie: movie, details: details, reviews: reviews}, nil
}

func (d *movieDetail) start() tea.Cmd {
	detailsCh, _ := d.details.Subscribe()
	reviewsCh, _ := d.reviews.Subscribe()
	d.details.Load()
	d.reviews.Load()
	return tea.Batch(watchDetail(detailsCh), watchDetail(reviewsCh))
}

func (d *movieDetail) retry() {
	d.details.Retry()
	d.reviews.Retry()
}

func (d *movieDetail) close() {
	_ = d.details.Close()
	_ = d.reviews.Close()
}

func (d *movieDetail) view(width int, spin string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.movie.Title))
	if year := d.movie.Year(); year != "" {
		b.WriteString(subtitleStyle.Render(" (" + year + ")"))
	}
	b.WriteString("\n")

	s := d.details.State()
	switch s.Kind {
	case detail.KindIdle, detail.KindLoading:
		b.WriteString(spin + " Loading details...\n")
	case detail.KindError:
		b.WriteString(errorStyle.Render(s.Message) + "\n")
	case detail.KindLoaded:
		b.WriteString(renderMovieDetails(s.Value, width))
	}

	b.WriteString("\n" + titleStyle.Render("Reviews") + "\n")
	r := d.reviews.State()
	switch r.Kind {
	case detail.KindIdle, detail.KindLoading:
		b.WriteString(spin + " Loading reviews...\n")
	case detail.KindError:
		b.WriteString(errorStyle.Render(r.Message) + "\n")
	case detail.KindLoaded:
		b.WriteString(renderReviews(r.Value, width))
	}

	if s.Kind == detail.KindError || r.Kind == detail.KindError {
		b.WriteString("\n" + dimStyle.Render("Press r to retry"))
	}
	return b.String()
}

func renderMovieDetails(d tmdb.MovieDetails, width int) string {
	var facts []string
	if rt := d.RuntimeFormatted(); rt != "" {
		facts = append(facts, rt)
	}
	if len(d.Genres) > 0 {
		facts = append(facts, strings.Join(lo.Map(d.Genres, func(g tmdb.Genre, _ int) string {
			return g.Name
		}), ", "))
	}
	if d.Status != "" {
		facts = append(facts, d.Status)
	}

	var b strings.Builder
	b.WriteString(ratingStyle.Render("★ "+d.Rating()) + dimStyle.Render(fmt.Sprintf(" (%d votes)", d.VoteCount)))
	if len(facts) > 0 {
		b.WriteString(dimStyle.Render("  " + strings.Join(facts, " · ")))
	}
	b.WriteString("\n")
	if d.Tagline != "" {
		b.WriteString(subtitleStyle.Render(d.Tagline) + "\n")
	}
	if d.Overview != "" {
		b.WriteString("\n" + wrap(d.Overview, width) + "\n")
	}
	return b.String()
}

func renderReviews(reviews []tmdb.Review, width int) string {
	if len(reviews) == 0 {
		return dimStyle.Render("No reviews yet") + "\n"
	}

	var b strings.Builder
	for _, r := range reviews {
		header := r.Author
		if r.AuthorDetails != nil {
			if rating := r.AuthorDetails.RatingFormatted(); rating != "" {
				header += " " + ratingStyle.Render("★ "+rating)
			}
		}
		b.WriteString(selectedStyle.Render(header) + "\n")
		b.WriteString(wrap(truncate(r.Content, maxReviewLength), width) + "\n\n")
	}
	return b.String()
}

// characterDetail shows a single character.
type characterDetail struct {
	character rickmorty.Character
	loader    *detail.Loader[rickmorty.Character]
}

func newCharacterDetail(source CharacterSource, character rickmorty.Character) (*characterDetail, error) {
	loader, err := detail.New(func(ctx context.Context) (rickmorty.Character, error) {
		return source.Character(ctx, character.ID)
	}, detail.Config{Name: "character"})
	if err != nil {
		return nil, err
	}
	return &characterDetail{character: character, loader: loader}, nil
}

func (d *characterDetail) start() tea.Cmd {
	ch, _ := d.loader.Subscribe()
	d.loader.Load()
	return watchDetail(ch)
}

func (d *characterDetail) retry() { d.loader.Retry() }

func (d *characterDetail) close() { _ = d.loader.Close() }

func (d *characterDetail) view(width int, spin string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.character.Name) + "\n")

	s := d.loader.State()
	switch s.Kind {
	case detail.KindIdle, detail.KindLoading:
		b.WriteString(spin + " Loading character...")
	case detail.KindError:
		b.WriteString(errorStyle.Render(s.Message) + "\n\n" + dimStyle.Render("Press r to retry"))
	case detail.KindLoaded:
		c := s.Value
		rows := [][2]string{
			{"Status", c.Status},
			{"Species", c.Species},
			{"Type", c.Type},
			{"Gender", c.Gender},
			{"Origin", c.Origin},
			{"Location", c.Location},
			{"Episodes", fmt.Sprintf("%d", c.EpisodeCount)},
		}
		for _, row := range lo.Filter(rows, func(r [2]string, _ int) bool { return r[1] != "" }) {
			b.WriteString(dimStyle.Render(fmt.Sprintf("%-10s", row[0])) + row[1] + "\n")
		}
		if c.Image != "" {
			b.WriteString("\n" + dimStyle.Render(c.Image))
		}
	}
	return wrap(b.String(), width)
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
