package zodmini

import (
	"context"
	"reflect"
	"sort"
	"time"

	"github.com/BrunoFelixDeSousa/zodmini/i18n"
)

type walkMode int

const (
	modeSync walkMode = iota
	modeAsync
)

// invalidSentinel marks an aborted subtree: the value's base kind did not
// match, so no usable value exists and downstream refinements must not run.
// Constraint-check failures instead return the typed value alongside their
// issues (a "dirty" result), which keeps refinements running so every
// violation is reported (and transforms suppressed).
type invalidSentinel struct{}

var invalidVal = invalidSentinel{}

func isInvalid(v any) bool { _, ok := v.(invalidSentinel); return ok }

// walker is the recursive evaluator shared by the synchronous and
// asynchronous entry points. It is read-only and safe to share across the
// goroutines the async coordinator spawns; all per-call state lives in walk
// arguments and return values.
type walker struct {
	mode walkMode
	ctx  context.Context
}

// walk validates v against s at path p. It returns the output value and the
// accumulated issues; the value is invalidVal when the subtree aborted. A
// structural mismatch at a node stops descent into that subtree but never
// suppresses sibling accumulation, which happens in the callers' merge loops.
func (w *walker) walk(s *Schema, v any, p Path) (any, Issues) {
	switch s.kind {
	case KindOptional:
		if IsAbsent(v) {
			return Absent, nil
		}
		return w.walk(s.inner, v, p)
	case KindNullable:
		if v == nil {
			return nil, nil
		}
		return w.walk(s.inner, v, p)
	case KindDefault:
		if IsAbsent(v) {
			v = s.defval
		}
		return w.walk(s.inner, v, p)
	case KindEffects:
		return w.walkEffects(s, v, p)
	case KindString:
		str, ok := v.(string)
		if !ok {
			return invalidVal, Issues{invalidType(p, "string", v)}
		}
		return str, s.runChecks(str, p)
	case KindNumber:
		if !isNumber(v) {
			return invalidVal, Issues{invalidType(p, "number", v)}
		}
		return v, s.runChecks(v, p)
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return invalidVal, Issues{invalidType(p, "boolean", v)}
		}
		return b, nil
	case KindDate:
		t, ok := v.(time.Time)
		if !ok {
			return invalidVal, Issues{invalidType(p, "date", v)}
		}
		if t.IsZero() {
			return invalidVal, Issues{{Path: p, Code: CodeInvalidDate, Message: i18n.T(CodeInvalidDate, nil)}}
		}
		return t, s.runChecks(t, p)
	case KindNull:
		if v != nil {
			return invalidVal, Issues{invalidType(p, "null", v)}
		}
		return nil, nil
	case KindUndefined:
		if !IsAbsent(v) {
			return invalidVal, Issues{invalidType(p, "undefined", v)}
		}
		return Absent, nil
	case KindLiteral:
		if !literalEqual(v, s.literal) {
			return invalidVal, Issues{{
				Path:    p,
				Code:    CodeInvalidLiteral,
				Message: i18n.T(CodeInvalidLiteral, nil),
				Params:  map[string]any{"expected": s.literal, "received": v},
			}}
		}
		return v, nil
	case KindEnum:
		for _, opt := range s.enumVals {
			if literalEqual(v, opt) {
				return v, nil
			}
		}
		return invalidVal, Issues{{
			Path:    p,
			Code:    CodeInvalidEnumValue,
			Message: i18n.T(CodeInvalidEnumValue, nil),
			Params:  map[string]any{"options": s.enumVals, "received": v},
		}}
	case KindObject:
		return w.walkObject(s, v, p)
	case KindArray:
		return w.walkArray(s, v, p)
	case KindTuple:
		return w.walkTuple(s, v, p)
	case KindUnion:
		return w.walkUnion(s, v, p)
	case KindDiscriminatedUnion:
		return w.walkDiscriminatedUnion(s, v, p)
	case KindIntersection:
		return w.walkIntersection(s, v, p)
	case KindRecord:
		return w.walkRecord(s, v, p)
	}
	return invalidVal, Issues{{Path: p, Code: CodeParseError, Message: "unhandled schema kind"}}
}

func (w *walker) walkObject(s *Schema, v any, p Path) (any, Issues) {
	m, ok := v.(map[string]any)
	if !ok {
		return invalidVal, Issues{invalidType(p, "object", v)}
	}
	res := w.each(len(s.fields), s.needsAsync, func(i int) (any, Issues) {
		f := s.fields[i]
		fv, exists := m[f.name]
		if !exists {
			fv = Absent
		}
		return w.walk(f.schema, fv, p.child(Key(f.name)))
	})
	out := make(map[string]any, len(m))
	var iss Issues
	aborted := false
	for i, f := range s.fields {
		iss = AppendIssues(iss, res[i].iss...)
		if isInvalid(res[i].val) {
			aborted = true
			continue
		}
		if IsAbsent(res[i].val) {
			continue
		}
		out[f.name] = res[i].val
	}
	// unknown keys in key-sorted order for deterministic behavior
	var extras []string
	for k := range m {
		if _, known := s.fieldIndex[k]; !known {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	switch s.unknown {
	case UnknownStrict:
		if len(extras) > 0 {
			iss = AppendIssues(iss, Issue{
				Path:    p,
				Code:    CodeUnrecognizedKeys,
				Message: i18n.T(CodeUnrecognizedKeys, nil),
				Params:  map[string]any{"keys": extras},
			})
		}
	case UnknownStrip:
		// drop
	case UnknownPassthrough:
		for _, k := range extras {
			out[k] = m[k]
		}
	}
	if aborted {
		return invalidVal, iss
	}
	return out, iss
}

func (w *walker) walkArray(s *Schema, v any, p Path) (any, Issues) {
	arr, ok := v.([]any)
	if !ok {
		return invalidVal, Issues{invalidType(p, "array", v)}
	}
	// length bounds first, then element issues, matching pre-order traversal
	iss := s.runChecks(arr, p)
	res := w.each(len(arr), s.needsAsync, func(i int) (any, Issues) {
		return w.walk(s.elem, arr[i], p.child(Index(i)))
	})
	out := make([]any, len(arr))
	aborted := false
	for i := range arr {
		iss = AppendIssues(iss, res[i].iss...)
		if isInvalid(res[i].val) {
			aborted = true
			continue
		}
		out[i] = res[i].val
	}
	if aborted {
		return invalidVal, iss
	}
	return out, iss
}

func (w *walker) walkTuple(s *Schema, v any, p Path) (any, Issues) {
	arr, ok := v.([]any)
	if !ok {
		return invalidVal, Issues{invalidType(p, "array", v)}
	}
	var iss Issues
	if len(arr) < len(s.items) {
		iss = AppendIssues(iss, *tooSmall(p, float64(len(s.items)), true, KindTuple))
	}
	if len(arr) > len(s.items) && s.rest == nil {
		iss = AppendIssues(iss, *tooBig(p, float64(len(s.items)), true, KindTuple))
	}
	n := len(arr)
	if n > len(s.items) && s.rest == nil {
		n = len(s.items)
	}
	res := w.each(n, s.needsAsync, func(i int) (any, Issues) {
		es := s.rest
		if i < len(s.items) {
			es = s.items[i]
		}
		return w.walk(es, arr[i], p.child(Index(i)))
	})
	out := make([]any, n)
	aborted := false
	for i := 0; i < n; i++ {
		iss = AppendIssues(iss, res[i].iss...)
		if isInvalid(res[i].val) {
			aborted = true
			continue
		}
		out[i] = res[i].val
	}
	if aborted {
		return invalidVal, iss
	}
	return out, iss
}

func (w *walker) walkIntersection(s *Schema, v any, p Path) (any, Issues) {
	sides := []*Schema{s.left, s.right}
	res := w.each(2, s.needsAsync, func(i int) (any, Issues) {
		return w.walk(sides[i], v, p)
	})
	var iss Issues
	iss = AppendIssues(iss, res[0].iss...)
	iss = AppendIssues(iss, res[1].iss...)
	if len(iss) > 0 {
		return invalidVal, iss
	}
	merged, mi := mergeValues(res[0].val, res[1].val, p)
	if mi != nil {
		return invalidVal, Issues{*mi}
	}
	return merged, nil
}

func (w *walker) walkRecord(s *Schema, v any, p Path) (any, Issues) {
	m, ok := v.(map[string]any)
	if !ok {
		return invalidVal, Issues{invalidType(p, "object", v)}
	}
	// runtime keys carry no declaration order; sort for deterministic issues
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	res := w.each(len(keys), s.needsAsync, func(i int) (any, Issues) {
		return w.walk(s.elem, m[keys[i]], p.child(Key(keys[i])))
	})
	out := make(map[string]any, len(m))
	var iss Issues
	aborted := false
	for i, k := range keys {
		iss = AppendIssues(iss, res[i].iss...)
		if isInvalid(res[i].val) {
			aborted = true
			continue
		}
		out[k] = res[i].val
	}
	if aborted {
		return invalidVal, iss
	}
	return out, iss
}

// walkEffects runs the pipeline: preprocess, inner validation, then refine/
// superRefine/transform in declaration order. An aborted inner result stops
// the pipeline; a dirty one (constraint issues over a well-typed value) keeps
// refinements running so every violation is reported. Transforms run only
// when nothing in this node has failed.
func (w *walker) walkEffects(s *Schema, v any, p Path) (any, Issues) {
	cur := v
	for _, e := range s.effects {
		if e.kind == effectPreprocess {
			cur = e.preprocess(cur)
		}
	}
	out, iss := w.walk(s.inner, cur, p)
	if isInvalid(out) {
		return out, iss
	}
	cur = out
	for _, e := range s.effects {
		if e.async && w.mode == modeSync {
			// never silently skip an async effect on the sync path
			iss = AppendIssues(iss, Issue{Path: p, Code: CodeAsyncEffect, Message: i18n.T(CodeAsyncEffect, nil)})
			return invalidVal, iss
		}
		switch e.kind {
		case effectPreprocess:
			// applied before the inner walk
		case effectRefine:
			ok, err := w.runRefine(e, cur)
			if err != nil {
				iss = AppendIssues(iss, rebaseIssues(p, issuesFromErr(nil, err))...)
				continue
			}
			if !ok {
				msg := e.message
				if msg == "" {
					msg = i18n.T(CodeCustom, nil)
				}
				iss = AppendIssues(iss, Issue{Path: p.join(e.at), Code: CodeCustom, Message: msg})
			}
		case effectSuperRefine:
			rc := &RefineContext{}
			if e.async {
				if err := e.superRefineAsync(w.ctx, cur, rc); err != nil {
					iss = AppendIssues(iss, rebaseIssues(p, issuesFromErr(nil, err))...)
				}
			} else {
				e.superRefine(cur, rc)
			}
			for _, it := range rc.issues {
				it.Path = p.join(it.Path)
				iss = AppendIssues(iss, it)
			}
		case effectTransform:
			if len(iss) > 0 {
				continue
			}
			var nv any
			var err error
			if e.async {
				nv, err = e.transformAsync(w.ctx, cur)
			} else {
				nv, err = e.transform(cur)
			}
			if err != nil {
				iss = AppendIssues(iss, rebaseIssues(p, issuesFromErr(nil, err))...)
				continue
			}
			cur = nv
		}
	}
	return cur, iss
}

func (w *walker) runRefine(e Effect, v any) (bool, error) {
	if e.async {
		return e.refineAsync(w.ctx, v)
	}
	return e.refine(v), nil
}

// ---- helpers ----

func invalidType(p Path, expected string, v any) Issue {
	received := valueKindName(v)
	return Issue{
		Path:    p,
		Code:    CodeInvalidType,
		Message: i18n.T(CodeInvalidType, map[string]string{"expected": expected, "received": received}),
		Params:  map[string]any{"expected": expected, "received": received},
	}
}

// literalEqual compares values the way Literal/Enum nodes match: numbers by
// numeric value regardless of representation, everything else structurally.
func literalEqual(a, b any) bool {
	if af, aok := numFloat(a); aok {
		bf, bok := numFloat(b)
		return bok && af == bf
	}
	if at, aok := a.(time.Time); aok {
		bt, bok := b.(time.Time)
		return bok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}

// rebaseIssues rewrites issue paths emitted relative to a node under the
// node's absolute path.
func rebaseIssues(base Path, iss Issues) Issues {
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		it.Path = base.join(it.Path)
		out = append(out, it)
	}
	return out
}

// mergeValues merges the outputs of an intersection's two sides: objects by
// key union (shared keys merge recursively), equal-length arrays element-wise,
// equal scalars as-is. Anything else is an invalid_intersection_types issue at
// the conflicting path.
func mergeValues(a, b any, p Path) (any, *Issue) {
	am, aObj := a.(map[string]any)
	bm, bObj := b.(map[string]any)
	if aObj && bObj {
		out := make(map[string]any, len(am)+len(bm))
		for k, av := range am {
			out[k] = av
		}
		for k, bv := range bm {
			av, shared := out[k]
			if !shared {
				out[k] = bv
				continue
			}
			mv, mi := mergeValues(av, bv, p.child(Key(k)))
			if mi != nil {
				return nil, mi
			}
			out[k] = mv
		}
		return out, nil
	}
	aa, aArr := a.([]any)
	ba, bArr := b.([]any)
	if aArr && bArr {
		if len(aa) != len(ba) {
			return nil, intersectionIssue(p)
		}
		out := make([]any, len(aa))
		for i := range aa {
			mv, mi := mergeValues(aa[i], ba[i], p.child(Index(i)))
			if mi != nil {
				return nil, mi
			}
			out[i] = mv
		}
		return out, nil
	}
	if literalEqual(a, b) {
		return a, nil
	}
	return nil, intersectionIssue(p)
}

func intersectionIssue(p Path) *Issue {
	return &Issue{
		Path:    p,
		Code:    CodeInvalidIntersectionTypes,
		Message: i18n.T(CodeInvalidIntersectionTypes, nil),
	}
}
