package storage

import (
	"encoding/json"
	"fmt"

	"github.com/ariejan/apollo/internal/query"
)

// queryEnvelope is the JSON-on-disk shape of a query.Query, used for the
// playlists.query column. query.Query is a closed interface over several
// struct variants, so a discriminated envelope is needed to
// round-trip it, the same JSON-blob-column idiom CineVault's uses for
// queue_items.track_json.
type queryEnvelope struct {
	Type string `json:"type"`
	Value string `json:"value,omitempty"`
	Field string `json:"field,omitempty"`
	Start int `json:"start,omitempty"`
	End int `json:"end,omitempty"`
	Operand *queryEnvelope `json:"operand,omitempty"`
	Operands []queryEnvelope `json:"operands,omitempty"`
}

// marshalQuery renders q as a JSON string; nil encodes as "".
func marshalQuery(q query.Query) (string, error) {
	if q == nil {
		return "", nil
	}
	env, err := encodeQuery(q)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshal query: %w", err)
	}
	return string(b), nil
}

// unmarshalQuery parses a JSON string produced by marshalQuery; "" decodes
// as nil.
func unmarshalQuery(s string) (query.Query, error) {
	if s == "" {
		return nil, nil
	}
	var env queryEnvelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return nil, fmt.Errorf("unmarshal query: %w", err)
	}
	return decodeQuery(env)
}

func encodeQuery(q query.Query) (queryEnvelope, error) {
	switch v := q.(type) {
	case query.All:
		return queryEnvelope{Type: "all"}, nil
	case query.Text:
		return queryEnvelope{Type: "text", Value: v.Value}, nil
	case query.FieldMatch:
		return queryEnvelope{Type: "field", Field: string(v.Field), Value: v.Value}, nil
	case query.YearRange:
		return queryEnvelope{Type: "year_range", Start: v.Start, End: v.End}, nil
	case query.And:
		operands, err := encodeOperands(v.Operands)
		return queryEnvelope{Type: "and", Operands: operands}, err
	case query.Or:
		operands, err := encodeOperands(v.Operands)
		return queryEnvelope{Type: "or", Operands: operands}, err
	case query.Not:
		inner, err := encodeQuery(v.Operand)
		if err != nil {
			return queryEnvelope{}, err
		}
		return queryEnvelope{Type: "not", Operand: &inner}, nil
	default:
		return queryEnvelope{}, fmt.Errorf("encode query: unsupported variant %T", q)
	}
}

func encodeOperands(operands []query.Query) ([]queryEnvelope, error) {
	out := make([]queryEnvelope, len(operands))
	for i, o := range operands {
		env, err := encodeQuery(o)
		if err != nil {
			return nil, err
		}
		out[i] = env
	}
	return out, nil
}

func decodeQuery(env queryEnvelope) (query.Query, error) {
	switch env.Type {
	case "all":
		return query.All{}, nil
	case "text":
		return query.Text{Value: env.Value}, nil
	case "field":
		return query.FieldMatch{Field: query.Field(env.Field), Value: env.Value}, nil
	case "year_range":
		return query.YearRange{Start: env.Start, End: env.End}, nil
	case "and":
		operands, err := decodeOperands(env.Operands)
		return query.And{Operands: operands}, err
	case "or":
		operands, err := decodeOperands(env.Operands)
		return query.Or{Operands: operands}, err
	case "not":
		if env.Operand == nil {
			return nil, fmt.Errorf("decode query: not missing operand")
		}
		inner, err := decodeQuery(*env.Operand)
		if err != nil {
			return nil, err
		}
		return query.Not{Operand: inner}, nil
	default:
		return nil, fmt.Errorf("decode query: unknown type %q", env.Type)
	}
}

func decodeOperands(envs []queryEnvelope) ([]query.Query, error) {
	out := make([]query.Query, len(envs))
	for i, e := range envs {
		q, err := decodeQuery(e)
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return out, nil
}
