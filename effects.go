package zodmini

import (
	"context"

	"github.com/BrunoFelixDeSousa/zodmini/i18n"
)

type effectKind int

const (
	effectPreprocess effectKind = iota
	effectRefine
	effectSuperRefine
	effectTransform
)

// Effect is one entry of a node's refinement/transform pipeline. Effects run
// in declaration order after the wrapped node validates; Preprocess is the
// exception and runs on the raw value before any type check.
type Effect struct {
	kind  effectKind
	async bool

	preprocess func(any) any

	refine      func(any) bool
	refineAsync func(context.Context, any) (bool, error)
	message     string
	at          Path // optional path override, relative to the node

	superRefine      func(any, *RefineContext)
	superRefineAsync func(context.Context, any, *RefineContext) error

	transform      func(any) (any, error)
	transformAsync func(context.Context, any) (any, error)
}

// RefineContext is the issue-collector capability handed to SuperRefine
// callbacks. Issue paths are relative to the refined node; the engine rebases
// them under the node's absolute path.
type RefineContext struct {
	issues Issues
}

// AddIssue appends one issue. An empty Code defaults to custom; an empty
// Message is filled from the message catalog for the code.
func (rc *RefineContext) AddIssue(it Issue) {
	if it.Code == "" {
		it.Code = CodeCustom
	}
	if it.Message == "" {
		it.Message = i18n.T(it.Code, nil)
	}
	rc.issues = AppendIssues(rc.issues, it)
}

// AddIssueAt is shorthand for a custom issue at a relative path.
func (rc *RefineContext) AddIssueAt(p Path, message string) {
	rc.AddIssue(Issue{Path: p, Code: CodeCustom, Message: message})
}

// withEffect appends an effect, wrapping non-Effects nodes first so the
// pipeline always hangs off a single Effects node.
func (s *Schema) withEffect(e Effect) *Schema {
	if s.kind == KindEffects {
		c := s.clone()
		c.effects = append(c.effects, e)
		c.needsAsync = c.needsAsync || e.async
		return c
	}
	return &Schema{kind: KindEffects, inner: s, effects: []Effect{e}, needsAsync: s.needsAsync || e.async}
}

// Preprocess applies fn to the raw value before inner's type check runs.
func Preprocess(fn func(any) any, inner *Schema) *Schema {
	if fn == nil || inner == nil {
		panic("zodmini: Preprocess requires a mapping and an inner schema")
	}
	e := Effect{kind: effectPreprocess, preprocess: fn}
	// Preprocess must run before the wrapped pipeline, so it always starts a
	// fresh Effects node instead of appending to an existing one.
	return &Schema{kind: KindEffects, inner: inner, effects: []Effect{e}, needsAsync: inner.needsAsync}
}

// Refine attaches a predicate post-check. A false result appends one custom
// issue at the node's path with the given message.
func (s *Schema) Refine(pred func(any) bool, message string) *Schema {
	if pred == nil {
		panic("zodmini: Refine requires a predicate")
	}
	return s.withEffect(Effect{kind: effectRefine, refine: pred, message: message})
}

// RefineAt is Refine with the issue reported at a path relative to the node.
func (s *Schema) RefineAt(pred func(any) bool, message string, at Path) *Schema {
	if pred == nil {
		panic("zodmini: RefineAt requires a predicate")
	}
	return s.withEffect(Effect{kind: effectRefine, refine: pred, message: message, at: at})
}

// RefineAsync attaches an asynchronous predicate post-check. It only runs
// under ParseAsync/SafeParseAsync; the synchronous entry points report an
// async_effect issue instead of silently skipping it. A non-nil error from the
// callback surfaces as a custom issue carrying the error as Cause.
func (s *Schema) RefineAsync(pred func(context.Context, any) (bool, error), message string) *Schema {
	if pred == nil {
		panic("zodmini: RefineAsync requires a predicate")
	}
	return s.withEffect(Effect{kind: effectRefine, refineAsync: pred, message: message, async: true})
}

// SuperRefine attaches a context-aware post-check that may emit any number of
// issues at sub-paths of its choosing.
func (s *Schema) SuperRefine(fn func(v any, rc *RefineContext)) *Schema {
	if fn == nil {
		panic("zodmini: SuperRefine requires a callback")
	}
	return s.withEffect(Effect{kind: effectSuperRefine, superRefine: fn})
}

// SuperRefineAsync is the asynchronous form of SuperRefine. The callback's
// return signals "done emitting"; a non-nil error surfaces as a custom issue.
func (s *Schema) SuperRefineAsync(fn func(ctx context.Context, v any, rc *RefineContext) error) *Schema {
	if fn == nil {
		panic("zodmini: SuperRefineAsync requires a callback")
	}
	return s.withEffect(Effect{kind: effectSuperRefine, superRefineAsync: fn, async: true})
}

// Transform replaces the validated value with fn's output. It never runs when
// any prior check in the same node failed.
func (s *Schema) Transform(fn func(any) (any, error)) *Schema {
	if fn == nil {
		panic("zodmini: Transform requires a mapping")
	}
	return s.withEffect(Effect{kind: effectTransform, transform: fn})
}

// TransformAsync is the asynchronous form of Transform.
func (s *Schema) TransformAsync(fn func(context.Context, any) (any, error)) *Schema {
	if fn == nil {
		panic("zodmini: TransformAsync requires a mapping")
	}
	return s.withEffect(Effect{kind: effectTransform, transformAsync: fn, async: true})
}
