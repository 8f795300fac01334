package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/playlist"
	"github.com/ariejan/apollo/internal/query"
)

func newPlaylistCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use: "playlist",
		Short: "Manage playlists",
	}
	cmd.AddCommand(
		newPlaylistCreateCmd(flags),
		newPlaylistListCmd(flags),
		newPlaylistShowCmd(flags),
		newPlaylistAddTrackCmd(flags),
		newPlaylistRemoveTrackCmd(flags),
		newPlaylistDeleteCmd(flags),
	)
	return cmd
}

func newPlaylistCreateCmd(flags *globalFlags) *cobra.Command {
	var (
		smartQuery string
		sort string
	)
	cmd := &cobra.Command{
		Use: "create <name> [track-id]...",
		Short: "Create a static playlist (from trailing track ids) or a smart playlist (with --query)",
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

			p := model.Playlist{
				ID: model.NewPlaylistID(),
				Name: args[0],
			}
			if smartQuery != "" {
				q, err := query.Parse(smartQuery)
				if err != nil {
					return userErrf("%w", err)
				}
				p.Kind = model.PlaylistSmart
				p.Query = q
				p.Sort = model.SortOrder(sort)
			} else {
				p.Kind = model.PlaylistStatic
				for _, idStr := range args[1:] {
					id, err := model.ParseTrackID(idStr)
					if err != nil {
						return userErrf("invalid track id %q: %w", idStr, err)
					}
					p.TrackIDs = append(p.TrackIDs, id)
				}
			}
			if err := p.Validate(); err != nil {
				return userErrf("%w", err)
			}
			if err := db.AddPlaylist(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created playlist %q [%s]\n", p.Name, p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&smartQuery, "query", "", "create a smart playlist from this query-language expression")
	cmd.Flags().StringVar(&sort, "sort", string(model.SortArtist), "smart-playlist sort order")
	return cmd
}

func newPlaylistListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "list",
		Short: "List all playlists",
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

			total, err := db.CountPlaylists(ctx)
			if err != nil {
				return err
			}
			playlists, err := db.ListPlaylists(ctx, total, 0)
			if err != nil {
				return err
			}
			for _, p := range playlists {
				fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] (%s)\n", p.Name, p.ID, p.Kind)
			}
			return nil
		},
	}
}

func newPlaylistShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "show <id>",
		Short: "Show a playlist's resolved track membership",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParsePlaylistID(args[0])
			if err != nil {
				return userErrf("invalid playlist id: %w", err)
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

			p, err := db.GetPlaylist(ctx, id)
			if err != nil {
				return err
			}
			tracks, err := playlist.Tracks(ctx, db, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", p.Name, p.Kind)
			for _, t := range tracks {
				fmt.Fprintln(cmd.OutOrStdout(), " "+formatTrackLine(t))
			}
			return nil
		},
	}
}

func newPlaylistAddTrackCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "add-track <playlist-id> <track-id>",
		Short: "Add a track to a static playlist",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutatePlaylistTrackCLI(flags, cmd, args, true)
		},
	}
}

func newPlaylistRemoveTrackCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "remove-track <playlist-id> <track-id>",
		Short: "Remove a track from a static playlist",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutatePlaylistTrackCLI(flags, cmd, args, false)
		},
	}
}

func mutatePlaylistTrackCLI(flags *globalFlags, cmd *cobra.Command, args []string, add bool) error {
	playlistID, err := model.ParsePlaylistID(args[0])
	if err != nil {
		return userErrf("invalid playlist id: %w", err)
	}
	trackID, err := model.ParseTrackID(args[1])
	if err != nil {
		return userErrf("invalid track id: %w", err)
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

	if add {
		if err := db.AddTrackToPlaylist(ctx, playlistID, trackID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", trackID, playlistID)
		return nil
	}
	if err := db.RemoveTrackFromPlaylist(ctx, playlistID, trackID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s from %s\n", trackID, playlistID)
	return nil
}

func newPlaylistDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "delete <id>",
		Short: "Delete a playlist",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParsePlaylistID(args[0])
			if err != nil {
				return userErrf("invalid playlist id: %w", err)
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
			if err := db.RemovePlaylist(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted playlist %s\n", id)
			return nil
		},
	}
}
