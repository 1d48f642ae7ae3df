package zodmini

import (
	"sort"
	"time"

	js "github.com/BrunoFelixDeSousa/zodmini/jsonschema"
)

// JSONSchema projects the schema node tree into a JSON Schema representation.
// The projection is structural: user-supplied refinements and transforms have
// no JSON Schema counterpart and are omitted.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	switch s.kind {
	case KindString:
		out := &js.Schema{Type: "string"}
		s.projectStringChecks(out)
		return out, nil
	case KindNumber:
		out := &js.Schema{Type: "number"}
		s.projectNumberChecks(out)
		return out, nil
	case KindBool:
		return &js.Schema{Type: "boolean"}, nil
	case KindDate:
		return &js.Schema{Type: "string", Format: "date-time"}, nil
	case KindNull:
		return &js.Schema{Type: "null"}, nil
	case KindUndefined:
		// No JSON Schema counterpart; an absent value never appears in a document.
		return &js.Schema{}, nil
	case KindLiteral:
		return &js.Schema{Const: jsonValue(s.literal)}, nil
	case KindEnum:
		vals := make([]any, len(s.enumVals))
		for i, v := range s.enumVals {
			vals[i] = jsonValue(v)
		}
		return &js.Schema{Enum: vals}, nil
	case KindObject:
		return s.projectObject()
	case KindArray:
		inner, err := s.elem.JSONSchema()
		if err != nil {
			return nil, err
		}
		out := &js.Schema{Type: "array", Items: inner}
		for _, c := range s.checks {
			switch c.id {
			case "min":
				out.MinItems = ptrInt(int(c.n))
			case "max":
				out.MaxItems = ptrInt(int(c.n))
			case "length":
				out.MinItems = ptrInt(int(c.n))
				out.MaxItems = ptrInt(int(c.n))
			}
		}
		return out, nil
	case KindTuple:
		out := &js.Schema{Type: "array"}
		for _, it := range s.items {
			ps, err := it.JSONSchema()
			if err != nil {
				return nil, err
			}
			out.PrefixItems = append(out.PrefixItems, ps)
		}
		if s.rest != nil {
			rs, err := s.rest.JSONSchema()
			if err != nil {
				return nil, err
			}
			out.Items = rs
		} else {
			n := len(s.items)
			out.MinItems = ptrInt(n)
			out.MaxItems = ptrInt(n)
		}
		return out, nil
	case KindUnion:
		out := &js.Schema{}
		for _, alt := range s.alts {
			as, err := alt.JSONSchema()
			if err != nil {
				return nil, err
			}
			out.OneOf = append(out.OneOf, as)
		}
		return out, nil
	case KindDiscriminatedUnion:
		// oneOf with variant schemas; the discriminator is documented implicitly
		out := &js.Schema{}
		for _, b := range s.branches {
			bs, err := b.schema.JSONSchema()
			if err != nil {
				return nil, err
			}
			out.OneOf = append(out.OneOf, bs)
		}
		return out, nil
	case KindIntersection:
		ls, err := s.left.JSONSchema()
		if err != nil {
			return nil, err
		}
		rs, err := s.right.JSONSchema()
		if err != nil {
			return nil, err
		}
		return &js.Schema{AllOf: []*js.Schema{ls, rs}}, nil
	case KindRecord:
		vs, err := s.elem.JSONSchema()
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "object", AdditionalProperties: vs}, nil
	case KindOptional:
		return s.inner.JSONSchema()
	case KindNullable:
		inner, err := s.inner.JSONSchema()
		if err != nil {
			return nil, err
		}
		return &js.Schema{OneOf: []*js.Schema{inner, {Type: "null"}}}, nil
	case KindDefault:
		inner, err := s.inner.JSONSchema()
		if err != nil {
			return nil, err
		}
		out := *inner
		out.Default = jsonValue(s.defval)
		return &out, nil
	case KindEffects:
		return s.inner.JSONSchema()
	}
	return &js.Schema{}, nil
}

func (s *Schema) projectObject() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(s.fields))
	var req []string
	for _, f := range s.fields {
		ps, err := f.schema.JSONSchema()
		if err != nil {
			return nil, err
		}
		props[f.name] = ps
		if f.schema.kind != KindOptional && f.schema.kind != KindDefault {
			req = append(req, f.name)
		}
	}
	// Required list (sorted for deterministic output)
	sort.Strings(req)
	var additional any
	switch s.unknown {
	case UnknownStrict:
		additional = false
	case UnknownStrip, UnknownPassthrough:
		// Runtime accepts unknown keys (then discards them under strip), so
		// JSON Schema marks them as accepted.
		additional = true
	}
	return &js.Schema{Type: "object", Properties: props, Required: req, AdditionalProperties: additional}, nil
}

func (s *Schema) projectStringChecks(out *js.Schema) {
	for _, c := range s.checks {
		switch c.id {
		case "min":
			out.MinLength = ptrInt(int(c.n))
		case "max":
			out.MaxLength = ptrInt(int(c.n))
		case "length":
			out.MinLength = ptrInt(int(c.n))
			out.MaxLength = ptrInt(int(c.n))
		case "regex":
			out.Pattern = c.re.String()
		case "email":
			out.Format = "email"
		case "url":
			out.Format = "uri"
		case "uuid":
			out.Format = "uuid"
		}
	}
}

func (s *Schema) projectNumberChecks(out *js.Schema) {
	for _, c := range s.checks {
		switch c.id {
		case "min":
			if c.inclusive {
				out.Minimum = ptrFloat(c.n)
			} else {
				out.ExclusiveMinimum = ptrFloat(c.n)
			}
		case "max":
			if c.inclusive {
				out.Maximum = ptrFloat(c.n)
			} else {
				out.ExclusiveMaximum = ptrFloat(c.n)
			}
		case "int":
			out.Type = "integer"
		case "multiple_of":
			out.MultipleOf = ptrFloat(c.n)
		}
	}
}

// jsonValue maps engine values onto JSON-representable ones for const/enum/default.
func jsonValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return v
}

func ptrInt(v int) *int { return &v }

func ptrFloat(v float64) *float64 { return &v }
