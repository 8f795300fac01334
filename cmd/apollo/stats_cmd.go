package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "stats",
		Short: "Print library counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger, closeLog, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()
			db, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			tracks, err := db.CountTracks(ctx)
			if err != nil {
				return err
			}
			albums, err := db.CountAlbums(ctx)
			if err != nil {
				return err
			}
			playlists, err := db.CountPlaylists(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tracks: %d\nalbums: %d\nplaylists: %d\n", tracks, albums, playlists)
			return nil
		},
	}
}
