package zodmini

import (
	"bytes"
	"context"
	"io"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Source abstracts over polymorphic input sources that decode raw bytes into
// the engine's value vocabulary (map[string]any, []any, string, bool,
// json.Number, nil).
type Source interface {
	Decode() (any, error)
}

// JSONBytes wraps a JSON document. Numbers are preserved as json.Number so no
// precision is lost before validation.
func JSONBytes(data []byte) Source { return jsonSource{r: bytes.NewReader(data)} }

// JSONReader wraps a JSON stream.
func JSONReader(r io.Reader) Source { return jsonSource{r: r} }

type jsonSource struct{ r io.Reader }

func (s jsonSource) Decode() (any, error) {
	dec := gojson.NewDecoder(s.r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// YAMLBytes wraps a YAML document. Decoded values are normalized into the
// engine vocabulary (string-keyed maps, []any elements).
func YAMLBytes(data []byte) Source { return yamlSource{data: data} }

type yamlSource struct{ data []byte }

func (s yamlSource) Decode() (any, error) {
	var v any
	if err := yaml.Unmarshal(s.data, &v); err != nil {
		return nil, err
	}
	return normalizeYAML(v), nil
}

// normalizeYAML rewrites yaml.v3 output into the engine vocabulary; interface
// keys become strings, nested containers are normalized recursively.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, mv := range t {
			out[k] = normalizeYAML(mv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, mv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = yamlKeyString(k)
			}
			out[ks] = normalizeYAML(mv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, ev := range t {
			out[i] = normalizeYAML(ev)
		}
		return out
	default:
		return v
	}
}

func yamlKeyString(k any) string {
	b, err := yaml.Marshal(k)
	if err != nil {
		return ""
	}
	return string(bytes.TrimRight(b, "\n"))
}

// ParseFrom decodes the source and validates the result against the schema.
// Decode failures surface as a single parse_error issue at the root.
func ParseFrom(ctx context.Context, s *Schema, src Source) (any, error) {
	v, err := src.Decode()
	if err != nil {
		return nil, Issues{{Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return s.Parse(ctx, v)
}

// ParseFromAsync is ParseFrom over the asynchronous entry point.
func ParseFromAsync(ctx context.Context, s *Schema, src Source) (any, error) {
	v, err := src.Decode()
	if err != nil {
		return nil, Issues{{Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return s.ParseAsync(ctx, v)
}
