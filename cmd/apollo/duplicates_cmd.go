package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDuplicatesCmd(flags *globalFlags) *cobra.Command {
	var toleranceMs int64
	cmd := &cobra.Command{
		Use: "duplicates",
		Short: "Find exact (file-hash) and similar (duration-tolerance) duplicate tracks",
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

			exact, err := db.FindExactDuplicates(ctx)
			if err != nil {
				return err
			}
			printDuplicateGroups(cmd, "exact", exact)

			if toleranceMs > 0 {
				similar, err := db.FindSimilarDuplicates(ctx, toleranceMs)
				if err != nil {
					return err
				}
				printDuplicateGroups(cmd, "similar", similar)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&toleranceMs, "tolerance-ms", 0, "also find similar duplicates within this duration tolerance (0 disables)")
	return cmd
}
