package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	var (
		limit int
		offset int
		albums bool
	)
	cmd := &cobra.Command{
		Use: "list",
		Short: "List tracks (or albums with --albums)",
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

			if albums {
				items, err := db.ListAlbums(ctx, limit, offset)
				if err != nil {
					return err
				}
				for _, a := range items {
					fmt.Fprintln(cmd.OutOrStdout(), formatAlbumLine(a))
				}
				return nil
			}
			items, err := db.ListTracks(ctx, limit, offset)
			if err != nil {
				return err
			}
			for _, t := range items {
				fmt.Fprintln(cmd.OutOrStdout(), formatTrackLine(t))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")
	cmd.Flags().BoolVar(&albums, "albums", false, "list albums instead of tracks")
	return cmd
}
