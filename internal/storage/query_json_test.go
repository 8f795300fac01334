package storage

import (
	"testing"

	"github.com/ariejan/apollo/internal/query"
)

func TestMarshalUnmarshalQuery_RoundTrip(t *testing.T) {
	cases := []query.Query{
		query.All{},
		query.Text{Value: "midnight"},
		query.FieldMatch{Field: query.FieldArtist, Value: "Radiohead"},
		query.YearRange{Start: 1990, End: 1999},
		query.Not{Operand: query.Text{Value: "skip"}},
		query.And{Operands: []query.Query{query.Text{Value: "a"}, query.Text{Value: "b"}}},
		query.Or{Operands: []query.Query{query.FieldMatch{Field: query.FieldGenre, Value: "jazz"}}},
	}
	for _, q := range cases {
		s, err := marshalQuery(q)
		if err != nil {
			t.Fatalf("marshalQuery(%#v): %v", q, err)
		}
		got, err := unmarshalQuery(s)
		if err != nil {
			t.Fatalf("unmarshalQuery(%q): %v", s, err)
		}
		if query.String(got) != query.String(q) {
			t.Errorf("round trip mismatch: got %#v, want %#v", got, q)
		}
	}
}

func TestMarshalUnmarshalQuery_NilRoundTripsToEmptyString(t *testing.T) {
	s, err := marshalQuery(nil)
	if err != nil || s != "" {
		t.Fatalf("marshalQuery(nil) = %q, %v", s, err)
	}
	got, err := unmarshalQuery("")
	if err != nil || got != nil {
		t.Fatalf("unmarshalQuery(\"\") = %v, %v", got, err)
	}
}
