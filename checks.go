package zodmini

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/BrunoFelixDeSousa/zodmini/i18n"
)

// check is one constraint evaluated after the base-kind check succeeds. All
// checks on a node are evaluated; each failure yields exactly one Issue.
type check struct {
	id string // "min", "max", "length", "gt", "lt", "multiple_of", "regex", "email", "url", "uuid", "int", "after", "before"
	n  float64
	// inclusive applies to numeric bounds: min/max are inclusive, gt/lt are not.
	inclusive bool
	re        *regexp.Regexp
	tm        time.Time
}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

func (s *Schema) addCheck(c check, validKinds ...Kind) *Schema {
	ok := false
	for _, k := range validKinds {
		if s.kind == k {
			ok = true
			break
		}
	}
	if !ok {
		panic(fmt.Sprintf("zodmini: check %q is not valid on %s schemas", c.id, s.kind))
	}
	cl := s.clone()
	cl.checks = append(cl.checks, c)
	return cl
}

// Min constrains string length, numeric value (inclusive), or array length.
func (s *Schema) Min(n float64) *Schema {
	return s.addCheck(check{id: "min", n: n, inclusive: true}, KindString, KindNumber, KindArray)
}

// Max constrains string length, numeric value (inclusive), or array length.
func (s *Schema) Max(n float64) *Schema {
	return s.addCheck(check{id: "max", n: n, inclusive: true}, KindString, KindNumber, KindArray)
}

// Length constrains string or array length exactly.
func (s *Schema) Length(n int) *Schema {
	return s.addCheck(check{id: "length", n: float64(n)}, KindString, KindArray)
}

// Regex requires string values to match the pattern.
func (s *Schema) Regex(re *regexp.Regexp) *Schema {
	if re == nil {
		panic("zodmini: Regex requires a compiled pattern")
	}
	return s.addCheck(check{id: "regex", re: re}, KindString)
}

// Email requires string values to look like an email address.
func (s *Schema) Email() *Schema { return s.addCheck(check{id: "email"}, KindString) }

// URL requires string values to parse as an absolute URL.
func (s *Schema) URL() *Schema { return s.addCheck(check{id: "url"}, KindString) }

// UUID requires string values to parse as a UUID.
func (s *Schema) UUID() *Schema { return s.addCheck(check{id: "uuid"}, KindString) }

// Int requires numeric values to be integral.
func (s *Schema) Int() *Schema { return s.addCheck(check{id: "int"}, KindNumber) }

// Gt requires numeric values to be strictly greater than n.
func (s *Schema) Gt(n float64) *Schema {
	return s.addCheck(check{id: "min", n: n}, KindNumber)
}

// Gte requires numeric values to be greater than or equal to n.
func (s *Schema) Gte(n float64) *Schema {
	return s.addCheck(check{id: "min", n: n, inclusive: true}, KindNumber)
}

// Lt requires numeric values to be strictly less than n.
func (s *Schema) Lt(n float64) *Schema {
	return s.addCheck(check{id: "max", n: n}, KindNumber)
}

// Lte requires numeric values to be less than or equal to n.
func (s *Schema) Lte(n float64) *Schema {
	return s.addCheck(check{id: "max", n: n, inclusive: true}, KindNumber)
}

// Positive requires numeric values > 0.
func (s *Schema) Positive() *Schema { return s.Gt(0) }

// Negative requires numeric values < 0.
func (s *Schema) Negative() *Schema { return s.Lt(0) }

// Nonnegative requires numeric values >= 0.
func (s *Schema) Nonnegative() *Schema { return s.Gte(0) }

// Nonpositive requires numeric values <= 0.
func (s *Schema) Nonpositive() *Schema { return s.Lte(0) }

// MultipleOf requires numeric values to be a multiple of n.
func (s *Schema) MultipleOf(n float64) *Schema {
	if n == 0 {
		panic("zodmini: MultipleOf requires a non-zero step")
	}
	return s.addCheck(check{id: "multiple_of", n: n}, KindNumber)
}

// After requires date values to be at or after t.
func (s *Schema) After(t time.Time) *Schema {
	return s.addCheck(check{id: "after", tm: t}, KindDate)
}

// Before requires date values to be at or before t.
func (s *Schema) Before(t time.Time) *Schema {
	return s.addCheck(check{id: "before", tm: t}, KindDate)
}

// runChecks evaluates every check against v; it never short-circuits.
func (s *Schema) runChecks(v any, p Path) Issues {
	var iss Issues
	for _, c := range s.checks {
		if it := s.runCheck(c, v, p); it != nil {
			iss = AppendIssues(iss, *it)
		}
	}
	return iss
}

func (s *Schema) runCheck(c check, v any, p Path) *Issue {
	switch c.id {
	case "min", "max":
		size, sized := measure(s.kind, v)
		if !sized {
			return nil
		}
		if c.id == "min" {
			if size > c.n || (c.inclusive && size == c.n) {
				return nil
			}
			return tooSmall(p, c.n, c.inclusive, s.kind)
		}
		if size < c.n || (c.inclusive && size == c.n) {
			return nil
		}
		return tooBig(p, c.n, c.inclusive, s.kind)
	case "length":
		size, sized := measure(s.kind, v)
		if !sized || size == c.n {
			return nil
		}
		if size < c.n {
			it := tooSmall(p, c.n, true, s.kind)
			it.Params["exact"] = true
			return it
		}
		it := tooBig(p, c.n, true, s.kind)
		it.Params["exact"] = true
		return it
	case "regex":
		if str, ok := v.(string); ok && !c.re.MatchString(str) {
			return formatIssue(p, "regex", c.re.String())
		}
	case "email":
		if str, ok := v.(string); ok && !emailRe.MatchString(str) {
			return formatIssue(p, "email", "")
		}
	case "url":
		if str, ok := v.(string); ok {
			if u, err := url.Parse(str); err != nil || u.Scheme == "" || u.Host == "" {
				return formatIssue(p, "url", "")
			}
		}
	case "uuid":
		if str, ok := v.(string); ok {
			if _, err := uuid.Parse(str); err != nil {
				return formatIssue(p, "uuid", "")
			}
		}
	case "int":
		if f, ok := numFloat(v); ok && math.Trunc(f) != f {
			return &Issue{
				Path:    p,
				Code:    CodeInvalidType,
				Message: i18n.T(CodeInvalidType, map[string]string{"expected": "integer"}),
				Params:  map[string]any{"expected": "integer", "received": "float"},
			}
		}
	case "multiple_of":
		if f, ok := numFloat(v); ok && floatSafeRemainder(f, c.n) != 0 {
			return &Issue{
				Path:    p,
				Code:    CodeNotMultipleOf,
				Message: i18n.T(CodeNotMultipleOf, nil),
				Params:  map[string]any{"multipleOf": c.n},
			}
		}
	case "after":
		if t, ok := v.(time.Time); ok && t.Before(c.tm) {
			it := tooSmall(p, 0, true, s.kind)
			it.Params = map[string]any{"minimum": c.tm.Format(time.RFC3339), "inclusive": true, "type": "date"}
			return it
		}
	case "before":
		if t, ok := v.(time.Time); ok && t.After(c.tm) {
			it := tooBig(p, 0, true, s.kind)
			it.Params = map[string]any{"maximum": c.tm.Format(time.RFC3339), "inclusive": true, "type": "date"}
			return it
		}
	}
	return nil
}

// measure maps a value to the magnitude min/max compare against: the numeric
// value for numbers, the rune count for strings, the element count for arrays.
func measure(k Kind, v any) (float64, bool) {
	switch k {
	case KindNumber:
		return numFloat(v)
	case KindString:
		if str, ok := v.(string); ok {
			return float64(len([]rune(str))), true
		}
	case KindArray:
		if arr, ok := v.([]any); ok {
			return float64(len(arr)), true
		}
	}
	return 0, false
}

func tooSmall(p Path, min float64, inclusive bool, k Kind) *Issue {
	return &Issue{
		Path:    p,
		Code:    CodeTooSmall,
		Message: i18n.T(CodeTooSmall, nil),
		Params:  map[string]any{"minimum": min, "inclusive": inclusive, "type": k.String()},
	}
}

func tooBig(p Path, max float64, inclusive bool, k Kind) *Issue {
	return &Issue{
		Path:    p,
		Code:    CodeTooBig,
		Message: i18n.T(CodeTooBig, nil),
		Params:  map[string]any{"maximum": max, "inclusive": inclusive, "type": k.String()},
	}
}

func formatIssue(p Path, format, hint string) *Issue {
	return &Issue{
		Path:    p,
		Code:    CodeInvalidString,
		Message: i18n.T(CodeInvalidString, map[string]string{"format": format}),
		Hint:    hint,
		Params:  map[string]any{"format": format},
	}
}

// floatSafeRemainder mirrors the decimal-scaling remainder trick so that
// 0.3 % 0.1 reports 0 rather than a float artifact.
func floatSafeRemainder(val, step float64) float64 {
	valDec := decimalDigits(val)
	stepDec := decimalDigits(step)
	dec := valDec
	if stepDec > dec {
		dec = stepDec
	}
	scale := math.Pow(10, float64(dec))
	return math.Round(val*scale) - math.Round(step*scale)*math.Trunc(math.Round(val*scale)/math.Round(step*scale))
}

func decimalDigits(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return len(s) - i - 1
		}
	}
	return 0
}

// ---- value classification ----

// numFloat widens any supported numeric representation to float64.
func numFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func isNumber(v any) bool {
	_, ok := numFloat(v)
	return ok
}

// valueKindName names a runtime value's kind for invalid_type params.
func valueKindName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case absentType:
		return "undefined"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case time.Time:
		return "date"
	}
	if isNumber(v) {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
