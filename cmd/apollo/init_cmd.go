package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariejan/apollo/internal/config"
)

func newInitCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "init",
		Short: "Create a default config file and an empty library database",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.configPath
			if path == "" {
				defaultPath, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			cfg := config.Default()
			if flags.libraryDB != "" {
				cfg.Library.Database = flags.libraryDB
			}
			if err := config.Save(path, cfg); err != nil {
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
			fmt.Fprintf(cmd.OutOrStdout(), "initialized config at %s and library at %s\n", path, config.ExpandPath(cfg.Library.Database))
			return nil
		},
	}
}
