// Package playlist implements the smart-playlist query compiler and result
// assembly described in: turning a query.Query AST into a
// storage filter, applying sort and limits, and resolving Static playlists
// by stored membership.
package playlist

import (
	"strconv"

	"github.com/ariejan/apollo/internal/query"
	"github.com/ariejan/apollo/internal/storage"
)

// Compile turns q into a storage.Filter's compilation
// rules. A nil query.Query compiles to storage.NoFilter.
func Compile(q query.Query) storage.Filter {
	if q == nil {
		return storage.NoFilter
	}
	where, args := compile(q)
	return storage.Filter{Where: where, Args: args}
}

func compile(q query.Query) (string, []any) {
	switch v := q.(type) {
	case query.All:
		return "1=1", nil
	case query.Text:
		pattern := "%" + v.Value + "%"
		return "(title LIKE ? OR artist LIKE ? OR album LIKE ?)", []any{pattern, pattern, pattern}
	case query.FieldMatch:
		return compileField(v)
	case query.YearRange:
		return "year BETWEEN ? AND ?", []any{v.Start, v.End}
	case query.And:
		return joinClauses("AND", v.Operands)
	case query.Or:
		return joinClauses("OR", v.Operands)
	case query.Not:
		where, args := compile(v.Operand)
		return "NOT (" + where + ")", args
	default:
		return "1=1", nil
	}
}

func compileField(f query.FieldMatch) (string, []any) {
	switch f.Field {
	case query.FieldArtist:
		return "artist LIKE ?", []any{"%" + f.Value + "%"}
	case query.FieldAlbumArtist:
		return "album_artist LIKE ?", []any{"%" + f.Value + "%"}
	case query.FieldAlbum:
		return "album LIKE ?", []any{"%" + f.Value + "%"}
	case query.FieldTitle:
		return "title LIKE ?", []any{"%" + f.Value + "%"}
	case query.FieldYear:
		year, ok := parseYear(f.Value)
		if !ok {
			return "0=1", nil
		}
		return "year = ?", []any{year}
	case query.FieldGenre:
		return "genres LIKE ?", []any{`%"` + f.Value + `%`}
	case query.FieldPath:
		return "path LIKE ?", []any{f.Value + "%"}
	default:
		return "0=1", nil
	}
}

func joinClauses(op string, operands []query.Query) (string, []any) {
	if len(operands) == 0 {
		return "1=1", nil
	}
	var where string
	var args []any
	for i, o := range operands {
		w, a := compile(o)
		if i == 0 {
			where = w
		} else {
			where += " " + op + " " + w
		}
		args = append(args, a...)
	}
	return "(" + where + ")", args
}

func parseYear(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
