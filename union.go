package zodmini

import "github.com/BrunoFelixDeSousa/zodmini/i18n"

// walkUnion resolves a plain union: alternatives are attempted against the
// same input and the first one that validates wins, in declaration order.
// When every alternative fails, the union reports a single invalid_union
// issue at its own path carrying the per-alternative issue lists as Params —
// no alternative's issues leak into the outer result individually.
//
// Overlapping alternatives resolve to the earliest declared match; the
// resolver never reorders or "best-matches".
func (w *walker) walkUnion(s *Schema, v any, p Path) (any, Issues) {
	if w.mode == modeAsync && s.needsAsync {
		// Probe alternatives concurrently; commitment is still to the first
		// success in declaration order, and losing probes are discarded.
		res := w.each(len(s.alts), true, func(i int) (any, Issues) {
			return w.walk(s.alts[i], v, p)
		})
		for _, r := range res {
			if len(r.iss) == 0 {
				return r.val, nil
			}
		}
		return invalidVal, Issues{unionIssue(p, collectAltIssues(res))}
	}
	altIssues := make([]Issues, 0, len(s.alts))
	for _, alt := range s.alts {
		out, iss := w.walk(alt, v, p)
		if len(iss) == 0 {
			return out, nil
		}
		altIssues = append(altIssues, iss)
	}
	return invalidVal, Issues{unionIssue(p, altIssues)}
}

func collectAltIssues(res []slotResult) []Issues {
	out := make([]Issues, 0, len(res))
	for _, r := range res {
		out = append(out, r.iss)
	}
	return out
}

func unionIssue(p Path, altIssues []Issues) Issue {
	return Issue{
		Path:    p,
		Code:    CodeInvalidUnion,
		Message: i18n.T(CodeInvalidUnion, nil),
		Params:  map[string]any{"unionIssues": altIssues},
	}
}

// walkDiscriminatedUnion dispatches on the discriminator field in O(1) with
// respect to branch count. A missing or unmapped discriminator fails with
// exactly one issue at the discriminator's path; it never falls back to
// probing every branch. A matched branch's field-level issues surface
// directly, without an invalid_union envelope.
func (w *walker) walkDiscriminatedUnion(s *Schema, v any, p Path) (any, Issues) {
	m, ok := v.(map[string]any)
	if !ok {
		return invalidVal, Issues{invalidType(p, "object", v)}
	}
	dp := p.child(Key(s.discKey))
	tag, present := m[s.discKey]
	if !present {
		return invalidVal, Issues{{
			Path:    dp,
			Code:    CodeDiscriminatorMissing,
			Message: i18n.T(CodeDiscriminatorMissing, nil),
			Hint:    "discriminator missing",
		}}
	}
	if branch, ok := s.branchByTag[tagKey(tag)]; ok {
		return w.walk(branch, v, p)
	}
	return invalidVal, Issues{{
		Path:    dp,
		Code:    CodeDiscriminatorUnknown,
		Message: i18n.T(CodeDiscriminatorUnknown, nil),
		Hint:    "unknown variant",
		Params:  map[string]any{"received": tag},
	}}
}
