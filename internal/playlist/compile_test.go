package playlist

import (
	"testing"

	"github.com/ariejan/apollo/internal/query"
	"github.com/ariejan/apollo/internal/storage"
)

func TestCompile_All(t *testing.T) {
	f := Compile(query.All{})
	if f.Where != "1=1" || len(f.Args) != 0 {
		t.Fatalf("got %+v", f)
	}
}

func TestCompile_Nil(t *testing.T) {
	f := Compile(nil)
	if f.Where != storage.NoFilter.Where || len(f.Args) != 0 {
		t.Fatalf("got %+v, want NoFilter", f)
	}
}

func TestCompile_Text(t *testing.T) {
	f := Compile(query.Text{Value: "midnight"})
	if f.Where != "(title LIKE ? OR artist LIKE ? OR album LIKE ?)" {
		t.Fatalf("where = %q", f.Where)
	}
	if len(f.Args) != 3 || f.Args[0] != "%midnight%" {
		t.Fatalf("args = %v", f.Args)
	}
}

func TestCompile_FieldMatch(t *testing.T) {
	cases := []struct {
		field query.Field
		wantCol string
		wantArgs int
	}{
		{query.FieldArtist, "artist LIKE ?", 1},
		{query.FieldAlbumArtist, "album_artist LIKE ?", 1},
		{query.FieldAlbum, "album LIKE ?", 1},
		{query.FieldTitle, "title LIKE ?", 1},
		{query.FieldGenre, "genres LIKE ?", 1},
		{query.FieldPath, "path LIKE ?", 1},
	}
	for _, c := range cases {
		f := Compile(query.FieldMatch{Field: c.field, Value: "x"})
		if f.Where != c.wantCol || len(f.Args) != c.wantArgs {
			t.Errorf("field %v: got %q %v, want %q", c.field, f.Where, f.Args, c.wantCol)
		}
	}
}

func TestCompile_FieldYear_ExactEquality(t *testing.T) {
	f := Compile(query.FieldMatch{Field: query.FieldYear, Value: "1997"})
	if f.Where != "year = ?" || f.Args[0] != 1997 {
		t.Fatalf("got %+v", f)
	}
}

func TestCompile_FieldYear_InvalidNeverMatches(t *testing.T) {
	f := Compile(query.FieldMatch{Field: query.FieldYear, Value: "not-a-year"})
	if f.Where != "0=1" {
		t.Fatalf("got %+v", f)
	}
}

func TestCompile_FieldYear_Negative(t *testing.T) {
	f := Compile(query.FieldMatch{Field: query.FieldYear, Value: "-50"})
	if f.Where != "year = ?" || f.Args[0] != -50 {
		t.Fatalf("got %+v", f)
	}
}

func TestCompile_FieldPath_PrefixMatch(t *testing.T) {
	f := Compile(query.FieldMatch{Field: query.FieldPath, Value: "/music/Radiohead"})
	if f.Args[0] != "/music/Radiohead%" {
		t.Fatalf("got %v", f.Args)
	}
}

func TestCompile_YearRange(t *testing.T) {
	f := Compile(query.YearRange{Start: 1990, End: 1999})
	if f.Where != "year BETWEEN ? AND ?" || f.Args[0] != 1990 || f.Args[1] != 1999 {
		t.Fatalf("got %+v", f)
	}
}

func TestCompile_And(t *testing.T) {
	f := Compile(query.And{Operands: []query.Query{
				query.FieldMatch{Field: query.FieldArtist, Value: "Radiohead"},
				query.YearRange{Start: 1990, End: 1999},
			}})
	want := "(artist LIKE ? AND year BETWEEN ? AND ?)"
	if f.Where != want || len(f.Args) != 3 {
		t.Fatalf("got %q %v, want %q", f.Where, f.Args, want)
	}
}

func TestCompile_Or(t *testing.T) {
	f := Compile(query.Or{Operands: []query.Query{
				query.Text{Value: "jazz"},
				query.Text{Value: "blues"},
			}})
	if f.Where != "((title LIKE ? OR artist LIKE ? OR album LIKE ?) OR (title LIKE ? OR artist LIKE ? OR album LIKE ?))" {
		t.Fatalf("got %q", f.Where)
	}
	if len(f.Args) != 6 {
		t.Fatalf("args = %v", f.Args)
	}
}

func TestCompile_Not(t *testing.T) {
	f := Compile(query.Not{Operand: query.FieldMatch{Field: query.FieldGenre, Value: "polka"}})
	if f.Where != "NOT (genres LIKE ?)" || len(f.Args) != 1 {
		t.Fatalf("got %+v", f)
	}
}
