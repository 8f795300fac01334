// Package query implements the search/query language: a small parser
// that turns a user search string into a typed Query AST, later compiled
// by internal/playlist into a storage filter.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Field is the closed set of queryable Track columns.
type Field string

const (
	FieldArtist Field = "artist"
	FieldAlbumArtist Field = "album_artist"
	FieldAlbum Field = "album"
	FieldTitle Field = "title"
	FieldYear Field = "year"
	FieldGenre Field = "genre"
	FieldPath Field = "path"
)

// Query is a tagged variant over the search-language AST.
type Query interface {
	isQuery()
}

// All matches every track.
type All struct{}

// Text is a free-text query matched against title/artist/album.
type Text struct {
	Value string
}

// FieldMatch is a field:value query.
type FieldMatch struct {
	Field Field
	Value string
}

// YearRange matches years N..M inclusive.
type YearRange struct {
	Start int
	End int
}

// And is the logical conjunction of its operands.
type And struct{ Operands []Query }

// Or is the logical disjunction of its operands.
type Or struct{ Operands []Query }

// Not negates its single operand.
type Not struct{ Operand Query }

func (All) isQuery() {}
func (Text) isQuery() {}
func (FieldMatch) isQuery() {}
func (YearRange) isQuery() {}
func (And) isQuery() {}
func (Or) isQuery() {}
func (Not) isQuery() {}

// ParseError is returned by Parse for malformed input.
type ParseError struct {
	Input string
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("query: parse error in %q: %s", e.Input, e.Msg)
}

var fieldAliases = map[string]Field{
	"artist": FieldArtist,
	"album_artist": FieldAlbumArtist,
	"albumartist": FieldAlbumArtist,
	"album": FieldAlbum,
	"title": FieldTitle,
	"year": FieldYear,
	"genre": FieldGenre,
	"path": FieldPath,
}

// Parse turns a raw search string into a Query AST.
//
// Trimmed empty input yields All. Input containing a colon splits on the
// first colon; the left side must name a known field (case-insensitive,
// with album_artist/albumartist aliased) or parsing fails. For the year
// field, "N..M" produces a YearRange. Anything else with no colon
// produces a Text query.
func Parse(input string) (Query, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return All{}, nil
	}

	idx := strings.Index(trimmed, ":")
	if idx < 0 {
		return Text{Value: trimmed}, nil
	}

	rawField := strings.ToLower(strings.TrimSpace(trimmed[:idx]))
	value := trimmed[idx+1:]

	field, ok := fieldAliases[rawField]
	if !ok {
		return nil, &ParseError{Input: input, Msg: fmt.Sprintf("unknown field %q", rawField)}
	}

	if field == FieldYear {
		if start, end, ok := parseYearRange(value); ok {
			return YearRange{Start: start, End: end}, nil
		}
	}

	return FieldMatch{Field: field, Value: value}, nil
}

func parseYearRange(value string) (int, int, bool) {
	parts := strings.SplitN(value, "..", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

// String renders a Query back to its canonical textual form. And/Or/Not
// are reachable only via programmatic construction, so they render using
// a small infix/prefix notation for debugging rather than a form Parse
// can re-read.
func String(q Query) string {
	switch v := q.(type) {
	case All:
		return ""
	case Text:
		return v.Value
	case FieldMatch:
		return string(v.Field) + ":" + v.Value
	case YearRange:
		return fmt.Sprintf("year:%d..%d", v.Start, v.End)
	case And:
		return joinOperands("AND", v.Operands)
	case Or:
		return joinOperands("OR", v.Operands)
	case Not:
		return "NOT(" + String(v.Operand) + ")"
	default:
		return ""
	}
}

func joinOperands(op string, operands []Query) string {
	parts := make([]string, len(operands))
	for i, o := range operands {
		parts[i] = String(o)
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}
