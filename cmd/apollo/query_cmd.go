package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariejan/apollo/internal/playlist"
	"github.com/ariejan/apollo/internal/query"
)

func newQueryCmd(flags *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use: "query <expression>",
		Short: "Run a query-language expression against the library",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := query.Parse(args[0])
			if err != nil {
				return userErrf("%w", err)
			}
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

			filter := playlist.Compile(q)
			tracks, err := db.QueryTracks(ctx, filter, "", limit)
			if err != nil {
				return err
			}
			for _, t := range tracks {
				fmt.Fprintln(cmd.OutOrStdout(), formatTrackLine(t))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (0 = unlimited)")
	return cmd
}
