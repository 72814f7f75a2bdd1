package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/mortyverse/pkg/tmdb"
)

// movieOutput is the JSON shape printed by movie.
type movieOutput struct {
	tmdb.MovieDetails
	Reviews      []tmdb.Review `json:"reviews"`
	ReviewsError string        `json:"reviews_error,omitempty"`
}

func (a *app) movieCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "movie <id>",
		Short: "Show a movie and its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			movies, err := a.movies(ctx)
			if err != nil {
				return err
			}

			details, err := movies.MovieDetails(ctx, id)
			if err != nil {
				return err
			}

			// Reviews failing does not hide the details.
			out := movieOutput{MovieDetails: details, Reviews: []tmdb.Review{}}
			reviews, err := movies.Reviews(ctx, id)
			if err != nil {
				log.Warn().Err(err).Int("movie_id", id).Msg("Failed to load reviews")
				out.ReviewsError = "Failed to load reviews: " + err.Error()
			} else {
				out.Reviews = reviews
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, out)
			}

			release := ""
			if details.ReleaseDate != nil {
				release = details.ReleaseDate.Format("2006-01-02")
			}
			if err := writeFields(w, [][2]string{
				{"Title", details.Title},
				{"Tagline", details.Tagline},
				{"Released", release},
				{"Runtime", details.RuntimeFormatted()},
				{"Genres", strings.Join(lo.Map(details.Genres, func(g tmdb.Genre, _ int) string { return g.Name }), ", ")},
				{"Rating", fmt.Sprintf("%s (%d votes)", details.Rating(), details.VoteCount)},
				{"Status", details.Status},
				{"Language", details.OriginalLanguage},
				{"Poster", details.PosterURL},
			}); err != nil {
				return err
			}
			if details.Overview != "" {
				fmt.Fprintf(w, "\n%s\n", details.Overview)
			}

			fmt.Fprintln(w)
			switch {
			case out.ReviewsError != "":
				fmt.Fprintln(w, out.ReviewsError)
			case len(out.Reviews) == 0:
				fmt.Fprintln(w, "No reviews yet")
			default:
				fmt.Fprintf(w, "Reviews (%d):\n", len(out.Reviews))
				for _, r := range out.Reviews {
					rating := ""
					if r.AuthorDetails != nil && r.AuthorDetails.RatingFormatted() != "" {
						rating = " [" + r.AuthorDetails.RatingFormatted() + "]"
					}
					fmt.Fprintf(w, "- %s%s\n", r.Author, rating)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) characterCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "character <id>",
		Short: "Show a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			characters, err := a.characters(ctx)
			if err != nil {
				return err
			}

			c, err := characters.Character(ctx, id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, c)
			}

			return writeFields(w, [][2]string{
				{"Name", c.Name},
				{"Status", c.Status},
				{"Species", c.Species},
				{"Type", c.Type},
				{"Gender", c.Gender},
				{"Origin", c.Origin},
				{"Location", c.Location},
				{"Episodes", strconv.Itoa(c.EpisodeCount)},
				{"Image", c.Image},
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
