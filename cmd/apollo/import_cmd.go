package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariejan/apollo/internal/importer"
	"github.com/ariejan/apollo/internal/sources/coverart"
	"github.com/ariejan/apollo/internal/sources/musicbrainz"
)

func newImportCmd(flags *globalFlags) *cobra.Command {
	var (
		enrich bool
		groupIntoAlbums bool
		fetchCoverArt bool
		writeTags bool
		computeHashes bool
		followSymlinks bool
		maxDepth int
	)
	cmd := &cobra.Command{
		Use: "import <root>...",
		Short: "Scan one or more directories and import audio files into the library",
		Args: cobra.MinimumNArgs(1),
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

			im := &importer.Importer{Store: db}
			if enrich {
				client := musicbrainz.NewClient(cfg.MusicBrainz.AppName, cfg.MusicBrainz.AppVersion, cfg.MusicBrainz.ContactEmail)
				im.Metadata = musicbrainz.NewCachedClient(client, cfg.MusicBrainz.CacheTTLSecs, cfg.MusicBrainz.CacheMaxEntries)
			}
			if fetchCoverArt {
				im.CoverArt = coverart.NewClient(cfg.MusicBrainz.AppName, cfg.MusicBrainz.AppVersion)
			}

			opts := importer.Options{
				Roots: args,
				MaxDepth: maxDepth,
				FollowSymlinks: followSymlinks,
				ComputeHashes: computeHashes,
				Enrich: enrich,
				EnrichThreshold: cfg.Import.EnrichThreshold,
				GroupIntoAlbums: groupIntoAlbums,
				FetchCoverArt: fetchCoverArt,
				WriteTags: writeTags,
			}
			result, err := im.Import(ctx, opts, &importer.Cancel{}, func(e importer.Event) {
					switch e.Kind {
					case "scanning":
						fmt.Fprintf(cmd.OutOrStdout(), "scanning: %d files found\n", e.FilesFound)
					case "importing":
						fmt.Fprintf(cmd.OutOrStdout(), "\rimporting: %d imported, %d skipped, %d failed", e.Imported, e.Skipped, e.Failed)
					case "complete":
						fmt.Fprintln(cmd.OutOrStdout())
					}
				})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "done: %d imported, %d skipped, %d failed, cancelled=%v\n",
				result.Imported, result.Skipped, result.Failed, result.Cancelled)
			for _, ie := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), " %s: %s\n", ie.Path, ie.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&enrich, "enrich", false, "look up matches against MusicBrainz")
	cmd.Flags().BoolVar(&groupIntoAlbums, "group-into-albums", true, "group imported tracks into albums")
	cmd.Flags().BoolVar(&fetchCoverArt, "fetch-cover-art", false, "fetch front cover art for new albums")
	cmd.Flags().BoolVar(&writeTags, "write-tags", false, "write enriched metadata back to the audio files")
	cmd.Flags().BoolVar(&computeHashes, "compute-hashes", false, "compute file hashes for duplicate detection")
	cmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "follow symlinked directories while scanning")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum directory recursion depth (0 = unlimited)")
	return cmd
}
