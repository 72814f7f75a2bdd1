package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/mortyverse/internal/tui"
	"github.com/Sternrassler/mortyverse/pkg/listing"
	"github.com/Sternrassler/mortyverse/pkg/pagination"
	"github.com/Sternrassler/mortyverse/pkg/rickmorty"
	"github.com/Sternrassler/mortyverse/pkg/tmdb"
)

type listOptions struct {
	page     int
	query    string
	all      bool
	maxPages int
	json     bool
}

// listOutput is the JSON shape printed by list.
type listOutput[T any] struct {
	Page         int  `json:"page,omitempty"`
	TotalPages   int  `json:"total_pages"`
	FetchedPages int  `json:"fetched_pages,omitempty"`
	HasMore      bool `json:"has_more"`
	Results      []T  `json:"results"`
}

func (a *app) listCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:       "list movies|characters",
		Short:     "Print a page of movies or characters",
		Long:      "Print one page of top rated (or matching) movies, or of characters. With --all every page is fetched concurrently.",
		Example:   "  mortyverse list characters --query rick --all\n  mortyverse list movies --page 2 --json",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"movies", "characters"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.page < 1 {
				return fmt.Errorf("--page must be >= 1 (got %d)", opts.page)
			}

			tab, err := tui.ParseTab(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if tab == tui.TabMovies {
				movies, err := a.movies(ctx)
				if err != nil {
					return err
				}
				return printList(ctx, out, movies.Gateway(), opts, []string{"ID", "Title", "Year", "Rating"}, movieRow)
			}

			characters, err := a.characters(ctx)
			if err != nil {
				return err
			}
			return printList(ctx, out, characters.Gateway(), opts, []string{"ID", "Name", "Status", "Species", "Origin"}, characterRow)
		},
	}

	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "page to print")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "search text")
	cmd.Flags().BoolVar(&opts.all, "all", false, "fetch every page")
	cmd.Flags().IntVar(&opts.maxPages, "max-pages", 0, "cap pages fetched with --all (0 = no cap)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")
	return cmd
}

func printList[T listing.Item](ctx context.Context, w io.Writer, gateway listing.Gateway[T], opts listOptions, headers []string, row func(T) []string) error {
	var (
		output  listOutput[T]
		listErr error
	)

	if opts.all {
		fetcher := pagination.NewBatchFetcher(gateway, pagination.Config{MaxPages: opts.maxPages})
		result, err := fetcher.FetchAll(ctx, opts.query)
		if err != nil && len(result.Items) == 0 {
			return err
		}
		if err != nil {
			log.Warn().Err(err).Msg("Printing partial results")
			listErr = err
		}
		output = listOutput[T]{
			TotalPages:   result.TotalPages,
			FetchedPages: result.FetchedPages,
			HasMore:      result.FetchedPages < result.TotalPages,
			Results:      result.Items,
		}
	} else {
		result, err := gateway(ctx, opts.page, opts.query)
		if err != nil {
			return err
		}
		output = listOutput[T]{
			Page:       result.Page,
			TotalPages: result.TotalPages,
			HasMore:    result.HasMore,
			Results:    result.Items,
		}
	}

	if output.Results == nil {
		output.Results = []T{}
	}

	if opts.json {
		if err := writeJSON(w, output); err != nil {
			return err
		}
		return listErr
	}

	if len(output.Results) == 0 {
		fmt.Fprintln(w, "No results")
		return listErr
	}

	if err := writeTable(w, headers, lo.Map(output.Results, func(item T, _ int) []string {
		return row(item)
	})); err != nil {
		return err
	}

	switch {
	case opts.all:
		fmt.Fprintf(w, "%d items from %d of %d pages\n", len(output.Results), output.FetchedPages, max(output.TotalPages, output.FetchedPages))
	case output.HasMore:
		fmt.Fprintf(w, "Page %d of %d (next: --page %d)\n", output.Page, output.TotalPages, output.Page+1)
	default:
		fmt.Fprintf(w, "Page %d of %d\n", output.Page, max(output.TotalPages, output.Page))
	}
	return listErr
}

func movieRow(m tmdb.Movie) []string {
	return []string{strconv.Itoa(m.ID), m.Title, m.Year(), m.Rating()}
}

func characterRow(c rickmorty.Character) []string {
	return []string{strconv.Itoa(c.ID), c.Name, c.Status, c.Species, c.Origin}
}
