package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ariejan/apollo/internal/pathtemplate"
)

func newOrganizeCmd(flags *globalFlags) *cobra.Command {
	var (
		dryRun bool
		template string
	)
	cmd := &cobra.Command{
		Use: "organize",
		Short: "Print the on-disk path each track would be renamed to under the configured path template",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			tmplSource := cfg.Import.PathTemplate
			if template != "" {
				tmplSource = template
			}
			tmpl, err := pathtemplate.Parse(tmplSource)
			if err != nil {
				return userErrf("%w", err)
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

			total, err := db.CountTracks(ctx)
			if err != nil {
				return err
			}
			tracks, err := db.ListTracks(ctx, total, 0)
			if err != nil {
				return err
			}
			for _, t := range tracks {
				rendered, err := pathtemplate.RenderPath(tmpl, pathtemplate.ContextFromTrack(t))
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), " %s: %v\n", t.Path, err)
					continue
				}
				root := filepath.Dir(t.Path)
				if len(cfg.Library.Roots) > 0 {
					root = cfg.Library.Roots[0]
				}
				dest := filepath.Join(root, rendered)
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", t.Path, dest)
				if dryRun {
					continue
				}
				if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), " %s: %v\n", t.Path, err)
					continue
				}
				if err := os.Rename(t.Path, dest); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), " %s: %v\n", t.Path, err)
					continue
				}
				t.Path = dest
				if err := db.UpdateTrack(ctx, t); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), " %s: %v\n", t.Path, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "print the renamed paths without moving files")
	cmd.Flags().StringVar(&template, "template", "", "override the configured import.path_template")
	return cmd
}
