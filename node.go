package zodmini

import (
	"fmt"
	"strconv"
)

// Kind enumerates the closed set of schema node kinds.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindDate
	KindNull
	KindUndefined
	KindLiteral
	KindEnum
	KindObject
	KindArray
	KindTuple
	KindUnion
	KindDiscriminatedUnion
	KindIntersection
	KindRecord
	KindOptional
	KindNullable
	KindDefault
	KindEffects
)

var kindNames = map[Kind]string{
	KindString:             "string",
	KindNumber:             "number",
	KindBool:               "boolean",
	KindDate:               "date",
	KindNull:               "null",
	KindUndefined:          "undefined",
	KindLiteral:            "literal",
	KindEnum:               "enum",
	KindObject:             "object",
	KindArray:              "array",
	KindTuple:              "tuple",
	KindUnion:              "union",
	KindDiscriminatedUnion: "discriminated_union",
	KindIntersection:       "intersection",
	KindRecord:             "record",
	KindOptional:           "optional",
	KindNullable:           "nullable",
	KindDefault:            "default",
	KindEffects:            "effects",
}

func (k Kind) String() string { return kindNames[k] }

// UnknownPolicy controls how unknown object keys are handled.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys (default).
	UnknownStrict                           // Reject unknown keys with an error.
	UnknownPassthrough                      // Copy unknown keys through unchanged.
)

// absentType is the "value was not provided" sentinel, distinct from JSON null.
type absentType struct{}

func (absentType) String() string { return "undefined" }

// Absent marks a missing value (an object key that was not present). Optional
// schemas succeed immediately on Absent; Default schemas substitute their
// default for it.
var Absent = absentType{}

// IsAbsent reports whether v is the Absent sentinel.
func IsAbsent(v any) bool { _, ok := v.(absentType); return ok }

// ObjectField pairs a field name with its schema, preserving declaration order.
type ObjectField struct {
	name   string
	schema *Schema
}

// Field declares one object field.
func Field(name string, s *Schema) ObjectField {
	if s == nil {
		panic(fmt.Sprintf("zodmini: nil schema for field %q", name))
	}
	return ObjectField{name: name, schema: s}
}

type duBranch struct {
	tags   []any
	schema *Schema
}

// Schema is an immutable description of an expected value shape. Modifier
// methods and combinators always return a new node; an already-built node is
// never mutated, so any number of concurrent validations may share one tree.
type Schema struct {
	kind    Kind
	checks  []check
	effects []Effect

	literal  any
	enumVals []any

	fields     []ObjectField  // Object (declaration order)
	fieldIndex map[string]int // Object (name -> fields index)
	unknown    UnknownPolicy  // Object

	elem *Schema // Array element / Record value

	items []*Schema // Tuple fixed prefix
	rest  *Schema   // Tuple rest

	alts []*Schema // Union alternatives (declaration order)

	discKey     string             // DiscriminatedUnion
	branches    []duBranch         // DiscriminatedUnion (declaration order)
	branchByTag map[string]*Schema // DiscriminatedUnion (tagKey -> branch)

	left, right *Schema // Intersection

	inner  *Schema // Optional / Nullable / Default / Effects
	defval any     // Default

	// needsAsync is precomputed at construction: true when any effect in this
	// subtree is asynchronous. The sync walker fails fast on such nodes and the
	// async walker fans out only where this is set.
	needsAsync bool
}

// Kind returns the node kind.
func (s *Schema) Kind() Kind { return s.kind }

// clone returns a shallow copy safe to extend: slice headers are re-sliced to
// their own length so appends never leak into the receiver.
func (s *Schema) clone() *Schema {
	c := *s
	c.checks = s.checks[:len(s.checks):len(s.checks)]
	c.effects = s.effects[:len(s.effects):len(s.effects)]
	return &c
}

// ---- constructors ----

// String matches string values exactly (no coercion).
func String() *Schema { return &Schema{kind: KindString} }

// Number matches numeric values: float64, json.Number, and Go integer kinds.
func Number() *Schema { return &Schema{kind: KindNumber} }

// Bool matches bool values.
func Bool() *Schema { return &Schema{kind: KindBool} }

// Date matches time.Time values; the zero time is reported as invalid_date.
func Date() *Schema { return &Schema{kind: KindDate} }

// Null matches only the null sentinel (nil).
func Null() *Schema { return &Schema{kind: KindNull} }

// Undefined matches only the Absent sentinel.
func Undefined() *Schema { return &Schema{kind: KindUndefined} }

// Literal matches exactly the given value. Numeric literals compare by value,
// so a json.Number input matches a float64 literal.
func Literal(v any) *Schema { return &Schema{kind: KindLiteral, literal: v} }

// Enum matches any of the given literal values.
func Enum(values ...any) *Schema {
	if len(values) == 0 {
		panic("zodmini: Enum requires at least one value")
	}
	return &Schema{kind: KindEnum, enumVals: values}
}

// Object matches key-value mappings with the given ordered fields. Unknown
// keys are stripped by default; see Strict and Passthrough. A duplicate field
// name is a construction-time error.
func Object(fields ...ObjectField) *Schema {
	idx := make(map[string]int, len(fields))
	async := false
	for i, f := range fields {
		if _, dup := idx[f.name]; dup {
			panic(fmt.Sprintf("zodmini: duplicate object field %q", f.name))
		}
		idx[f.name] = i
		async = async || f.schema.needsAsync
	}
	return &Schema{kind: KindObject, fields: fields, fieldIndex: idx, unknown: UnknownStrip, needsAsync: async}
}

// Array matches sequences whose elements all satisfy elem.
func Array(elem *Schema) *Schema {
	if elem == nil {
		panic("zodmini: Array requires an element schema")
	}
	return &Schema{kind: KindArray, elem: elem, needsAsync: elem.needsAsync}
}

// Tuple matches fixed-arity sequences, element-wise. Use Rest to validate
// elements beyond the fixed prefix.
func Tuple(items ...*Schema) *Schema {
	async := false
	for _, it := range items {
		if it == nil {
			panic("zodmini: nil tuple element schema")
		}
		async = async || it.needsAsync
	}
	return &Schema{kind: KindTuple, items: items, needsAsync: async}
}

// Rest returns a tuple accepting extra elements validated against rest.
func (s *Schema) Rest(rest *Schema) *Schema {
	if s.kind != KindTuple {
		panic("zodmini: Rest is only valid on tuple schemas")
	}
	if rest == nil {
		panic("zodmini: nil rest schema")
	}
	c := s.clone()
	c.rest = rest
	c.needsAsync = c.needsAsync || rest.needsAsync
	return c
}

// Union matches the first alternative that validates, in declaration order.
func Union(alts ...*Schema) *Schema {
	if len(alts) == 0 {
		panic("zodmini: Union requires at least one alternative")
	}
	async := false
	for _, a := range alts {
		async = async || a.needsAsync
	}
	return &Schema{kind: KindUnion, alts: alts, needsAsync: async}
}

// DiscriminatedUnion dispatches on the value of the key field. Every branch
// must be an Object schema whose key field is a Literal or Enum; the branch's
// discriminator values are derived from it at construction time, giving O(1)
// dispatch and a single-issue error at the discriminator path.
func DiscriminatedUnion(key string, branchSchemas ...*Schema) *Schema {
	if key == "" {
		panic("zodmini: DiscriminatedUnion requires a discriminator key")
	}
	if len(branchSchemas) == 0 {
		panic("zodmini: DiscriminatedUnion requires at least one branch")
	}
	byTag := make(map[string]*Schema)
	branches := make([]duBranch, 0, len(branchSchemas))
	async := false
	for _, b := range branchSchemas {
		if b == nil || b.kind != KindObject {
			panic("zodmini: DiscriminatedUnion branches must be Object schemas")
		}
		i, ok := b.fieldIndex[key]
		if !ok {
			panic(fmt.Sprintf("zodmini: branch is missing discriminator field %q", key))
		}
		var tags []any
		switch fs := b.fields[i].schema; fs.kind {
		case KindLiteral:
			tags = []any{fs.literal}
		case KindEnum:
			tags = fs.enumVals
		default:
			panic(fmt.Sprintf("zodmini: discriminator field %q must be a Literal or Enum", key))
		}
		for _, tag := range tags {
			k := tagKey(tag)
			if _, dup := byTag[k]; dup {
				panic(fmt.Sprintf("zodmini: duplicate discriminator value %v", tag))
			}
			byTag[k] = b
		}
		branches = append(branches, duBranch{tags: tags, schema: b})
		async = async || b.needsAsync
	}
	return &Schema{kind: KindDiscriminatedUnion, discKey: key, branches: branches, branchByTag: byTag, needsAsync: async}
}

// tagKey canonicalizes a discriminator value for O(1) lookup; numeric tags
// compare by value regardless of representation, matching literalEqual.
func tagKey(tag any) string {
	if f, ok := numFloat(tag); ok {
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("%T:%v", tag, tag)
}

// Intersection matches values satisfying both sides; their outputs are merged
// (objects by key union).
func Intersection(a, b *Schema) *Schema {
	if a == nil || b == nil {
		panic("zodmini: Intersection requires two schemas")
	}
	return &Schema{kind: KindIntersection, left: a, right: b, needsAsync: a.needsAsync || b.needsAsync}
}

// Record matches key-value mappings with arbitrary string keys whose values
// all satisfy value.
func Record(value *Schema) *Schema {
	if value == nil {
		panic("zodmini: Record requires a value schema")
	}
	return &Schema{kind: KindRecord, elem: value, needsAsync: value.needsAsync}
}

// ---- wrappers ----

// Optional accepts the Absent sentinel, succeeding immediately without running
// the inner node or its effects. Re-applying Optional is a no-op.
func (s *Schema) Optional() *Schema {
	if s.kind == KindOptional {
		return s
	}
	return &Schema{kind: KindOptional, inner: s, needsAsync: s.needsAsync}
}

// Nullable accepts nil, succeeding immediately without running the inner node.
func (s *Schema) Nullable() *Schema {
	if s.kind == KindNullable {
		return s
	}
	return &Schema{kind: KindNullable, inner: s, needsAsync: s.needsAsync}
}

// Default substitutes v for an absent input, then validates the substituted
// value against the receiver.
func (s *Schema) Default(v any) *Schema {
	return &Schema{kind: KindDefault, inner: s, defval: v, needsAsync: s.needsAsync}
}

// unwrapOptional returns the innermost non-Optional node.
func (s *Schema) unwrapOptional() *Schema {
	if s.kind == KindOptional {
		return s.inner
	}
	return s
}

// ---- object policy modifiers ----

func (s *Schema) requireObject(op string) {
	if s.kind != KindObject {
		panic(fmt.Sprintf("zodmini: %s is only valid on object schemas", op))
	}
}

// Strict makes unknown keys an error (one unrecognized_keys issue listing all
// extras).
func (s *Schema) Strict() *Schema {
	s.requireObject("Strict")
	c := s.clone()
	c.unknown = UnknownStrict
	return c
}

// Strip drops unknown keys from the output (the default policy).
func (s *Schema) Strip() *Schema {
	s.requireObject("Strip")
	c := s.clone()
	c.unknown = UnknownStrip
	return c
}

// Passthrough copies unknown keys through to the output unchanged.
func (s *Schema) Passthrough() *Schema {
	s.requireObject("Passthrough")
	c := s.clone()
	c.unknown = UnknownPassthrough
	return c
}
