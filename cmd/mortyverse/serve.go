package main

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/mortyverse/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve movies and characters as a JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			characters, err := a.characters(ctx)
			if err != nil {
				return err
			}

			cfg := server.Config{
				Characters:     characters,
				Redis:          a.redis,
				RequestTimeout: a.cfg.HTTP.Timeout,
			}
			if movies, err := a.movies(ctx); err != nil {
				log.Warn().Err(err).Msg("Movie endpoints disabled")
			} else {
				cfg.Movies = movies
			}

			srv, err := server.New(cfg)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, a.cfg.Server.Addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	lo.Must0(a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr")))
	return cmd
}
