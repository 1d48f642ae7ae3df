package zodmini

import "fmt"

// Object combinators. All act one level deep (nested object schemas are never
// traversed), always return a new node, and panic on a non-object receiver —
// misuse is a construction-time error, not a validation-time one.

// Extend returns an object with additional fields appended. On a name
// collision the additional field's schema wins, keeping the original
// declaration position.
func (s *Schema) Extend(fields ...ObjectField) *Schema {
	s.requireObject("Extend")
	out := make([]ObjectField, len(s.fields))
	copy(out, s.fields)
	idx := make(map[string]int, len(s.fieldIndex))
	for k, v := range s.fieldIndex {
		idx[k] = v
	}
	for _, f := range fields {
		if i, exists := idx[f.name]; exists {
			out[i] = f
			continue
		}
		idx[f.name] = len(out)
		out = append(out, f)
	}
	c := s.clone()
	c.fields = out
	c.fieldIndex = idx
	c.needsAsync = false
	for _, f := range out {
		c.needsAsync = c.needsAsync || f.schema.needsAsync
	}
	return c
}

// Merge is Extend with the other object's shape; b's unknown-key policy is
// not inherited.
func (s *Schema) Merge(b *Schema) *Schema {
	s.requireObject("Merge")
	if b == nil || b.kind != KindObject {
		panic("zodmini: Merge requires an object schema argument")
	}
	return s.Extend(b.fields...)
}

// Partial wraps every field's schema in Optional. Already-Optional fields are
// left as-is (no double wrap).
func (s *Schema) Partial() *Schema {
	s.requireObject("Partial")
	return s.partialFields(nil)
}

// PartialFields wraps only the named fields in Optional.
func (s *Schema) PartialFields(names ...string) *Schema {
	s.requireObject("PartialFields")
	return s.partialFields(nameSet(s, "PartialFields", names))
}

func (s *Schema) partialFields(selected map[string]bool) *Schema {
	out := make([]ObjectField, len(s.fields))
	for i, f := range s.fields {
		if selected == nil || selected[f.name] {
			f.schema = f.schema.Optional()
		}
		out[i] = f
	}
	c := s.clone()
	c.fields = out
	return c
}

// Required unwraps Optional from every field's schema; the inverse of Partial.
func (s *Schema) Required() *Schema {
	s.requireObject("Required")
	return s.requiredFields(nil)
}

// RequiredFields unwraps Optional from only the named fields.
func (s *Schema) RequiredFields(names ...string) *Schema {
	s.requireObject("RequiredFields")
	return s.requiredFields(nameSet(s, "RequiredFields", names))
}

func (s *Schema) requiredFields(selected map[string]bool) *Schema {
	out := make([]ObjectField, len(s.fields))
	for i, f := range s.fields {
		if selected == nil || selected[f.name] {
			f.schema = f.schema.unwrapOptional()
		}
		out[i] = f
	}
	c := s.clone()
	c.fields = out
	return c
}

// Pick projects the shape down to the named fields, preserving their relative
// declaration order.
func (s *Schema) Pick(names ...string) *Schema {
	s.requireObject("Pick")
	selected := nameSet(s, "Pick", names)
	return s.project(func(name string) bool { return selected[name] })
}

// Omit projects the shape down to everything but the named fields.
func (s *Schema) Omit(names ...string) *Schema {
	s.requireObject("Omit")
	selected := nameSet(s, "Omit", names)
	return s.project(func(name string) bool { return !selected[name] })
}

func (s *Schema) project(keep func(string) bool) *Schema {
	out := make([]ObjectField, 0, len(s.fields))
	idx := make(map[string]int)
	async := false
	for _, f := range s.fields {
		if !keep(f.name) {
			continue
		}
		idx[f.name] = len(out)
		out = append(out, f)
		async = async || f.schema.needsAsync
	}
	c := s.clone()
	c.fields = out
	c.fieldIndex = idx
	c.needsAsync = async
	return c
}

func nameSet(s *Schema, op string, names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := s.fieldIndex[n]; !ok {
			panic(fmt.Sprintf("zodmini: %s references unknown field %q", op, n))
		}
		set[n] = true
	}
	return set
}
