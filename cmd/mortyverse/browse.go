package main

import (
	"github.com/spf13/cobra"

	"github.com/Sternrassler/mortyverse/internal/tui"
)

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "browse [movies|characters]",
		Short:     "Browse movies and characters in the terminal",
		Long:      "Open the terminal browser. The movies list needs tmdb.api_key; without it only characters are shown. Logs go to logging.file.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"movies", "characters"},
		RunE: func(cmd *cobra.Command, args []string) error {
			tab := tui.TabCharacters
			if a.cfg.RequireTMDB() == nil {
				tab = tui.TabMovies
			}
			if len(args) == 1 {
				var err error
				if tab, err = tui.ParseTab(args[0]); err != nil {
					return err
				}
			}

			if err := a.logToFile(); err != nil {
				return err
			}

			ctx := cmd.Context()
			opts := tui.Options{Debounce: a.cfg.List.Debounce, Tab: tab}

			characters, err := a.characters(ctx)
			if err != nil {
				return err
			}
			opts.Characters = characters

			if movies, err := a.movies(ctx); err == nil {
				opts.Movies = movies
			} else if tab == tui.TabMovies {
				return err
			}

			return tui.Run(ctx, opts)
		},
	}
}
