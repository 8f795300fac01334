package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pelletier/go-toml/v2"

	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/storage"
)

func tomlString(v any) (string, error) {
	b, err := toml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatTrackLine(t model.Track) string {
	year := ""
	if t.HasYear {
		year = fmt.Sprintf(" (%d)", t.Year)
	}
	return fmt.Sprintf("%s - %s%s [%s]", t.Artist, t.Title, year, t.ID)
}

func formatAlbumLine(a model.Album) string {
	year := ""
	if a.HasYear {
		year = fmt.Sprintf(" (%d)", a.Year)
	}
	return fmt.Sprintf("%s - %s%s [%d tracks] [%s]", a.Artist, a.Title, year, a.TrackCount, a.ID)
}

func printDuplicateGroups(cmd *cobra.Command, kind string, groups []storage.DuplicateGroup) {
	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintf(out, "no %s duplicates found\n", kind)
		return
	}
	for _, g := range groups {
		fmt.Fprintf(out, "%s duplicate group %q (%d tracks):\n", kind, g.Key, len(g.Tracks))
		for _, t := range g.Tracks {
			fmt.Fprintf(out, " %s\n", formatTrackLine(t))
		}
	}
}
