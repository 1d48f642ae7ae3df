package zodmini_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	z "github.com/BrunoFelixDeSousa/zodmini"
)

func TestStringChecks_AllFailuresCollected(t *testing.T) {
	ctx := context.Background()

	s := z.String().Min(5).Regex(regexp.MustCompile(`^[a-z]+@`)).Email()

	_, err := s.Parse(ctx, "ab")
	iss, _ := z.AsIssues(err)
	if len(iss) != 3 {
		t.Fatalf("expected 3 issues, got %d: %v", len(iss), iss)
	}
	if iss[0].Code != z.CodeTooSmall || iss[1].Code != z.CodeInvalidString || iss[2].Code != z.CodeInvalidString {
		t.Fatalf("unexpected codes: %v", iss)
	}
	if iss[1].Params["format"] != "regex" || iss[2].Params["format"] != "email" {
		t.Fatalf("unexpected formats: %v", iss)
	}
}

func TestStringChecks_LengthCountsRunes(t *testing.T) {
	ctx := context.Background()

	s := z.String().Min(5).Max(5)
	if _, err := s.Parse(ctx, "héllo"); err != nil {
		t.Fatalf("rune count expected, got err: %v", err)
	}
	if _, err := s.Parse(ctx, "hello!"); err == nil {
		t.Fatalf("expected too_big")
	}
}

func TestStringChecks_Formats(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		schema *z.Schema
		good   string
		bad    string
	}{
		{"email", z.String().Email(), "dev@example.com", "not-an-email"},
		{"url", z.String().URL(), "https://example.com/x", "example"},
		{"uuid", z.String().UUID(), "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "zzz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.schema.Parse(ctx, tc.good); err != nil {
				t.Fatalf("good value rejected: %v", err)
			}
			_, err := tc.schema.Parse(ctx, tc.bad)
			iss, _ := z.AsIssues(err)
			if len(iss) != 1 || iss[0].Code != z.CodeInvalidString {
				t.Fatalf("unexpected issues: %v", iss)
			}
		})
	}
}

func TestNumberChecks_Bounds(t *testing.T) {
	ctx := context.Background()

	if _, err := z.Number().Gte(0).Parse(ctx, 0); err != nil {
		t.Fatalf("inclusive bound rejected boundary: %v", err)
	}
	_, err := z.Number().Gt(0).Parse(ctx, 0)
	iss, _ := z.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != z.CodeTooSmall {
		t.Fatalf("unexpected issues: %v", iss)
	}
	if iss[0].Params["inclusive"] != false {
		t.Fatalf("exclusive bound must carry inclusive=false: %#v", iss[0].Params)
	}

	if _, err := z.Number().Lte(10).Parse(ctx, 10); err != nil {
		t.Fatalf("inclusive bound rejected boundary: %v", err)
	}
	if _, err := z.Number().Lt(10).Parse(ctx, 10); err == nil {
		t.Fatalf("expected too_big")
	}
}

func TestNumberChecks_Int(t *testing.T) {
	ctx := context.Background()

	s := z.Number().Int()
	if _, err := s.Parse(ctx, 42); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := s.Parse(ctx, json.Number("42")); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := s.Parse(ctx, 3.14)
	iss, _ := z.AsIssues(err)
	if len(iss) != 1 || iss[0].Params["expected"] != "integer" {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestNumberChecks_MultipleOf(t *testing.T) {
	ctx := context.Background()

	s := z.Number().MultipleOf(0.1)
	// 0.3/0.1 has a float artifact; the decimal-scaled remainder must not.
	if _, err := s.Parse(ctx, 0.3); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := s.Parse(ctx, 0.35)
	iss, _ := z.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != z.CodeNotMultipleOf {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestNumber_AcceptsJSONNumberAndIntegers(t *testing.T) {
	ctx := context.Background()

	s := z.Number().Min(10)
	for _, v := range []any{int64(12), uint8(12), float32(12), json.Number("12")} {
		if _, err := s.Parse(ctx, v); err != nil {
			t.Fatalf("%T rejected: %v", v, err)
		}
	}
	if _, err := s.Parse(ctx, "12"); err == nil {
		t.Fatalf("strings must not coerce to numbers")
	}
}

func TestDateChecks(t *testing.T) {
	ctx := context.Background()

	epoch := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := z.Date().After(epoch)

	if _, err := s.Parse(ctx, epoch.AddDate(1, 0, 0)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := s.Parse(ctx, epoch.AddDate(-1, 0, 0))
	iss, _ := z.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != z.CodeTooSmall {
		t.Fatalf("unexpected issues: %v", iss)
	}

	_, err = z.Date().Parse(ctx, time.Time{})
	iss, _ = z.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != z.CodeInvalidDate {
		t.Fatalf("zero time must be invalid_date: %v", iss)
	}

	if _, err := z.Date().Before(epoch).Parse(ctx, epoch.AddDate(1, 0, 0)); err == nil {
		t.Fatalf("expected too_big")
	}
}

func TestArrayChecks_BoundsBeforeElements(t *testing.T) {
	ctx := context.Background()

	s := z.Array(z.String()).Min(2).Max(3)

	_, err := s.Parse(ctx, []any{7})
	iss, _ := z.AsIssues(err)
	if len(iss) != 2 {
		t.Fatalf("expected bound and element issues, got %v", iss)
	}
	if iss[0].Code != z.CodeTooSmall || iss[0].Path.String() != "/" {
		t.Fatalf("bound issue must come first at the array path: %v", iss)
	}
	if iss[1].Code != z.CodeInvalidType || iss[1].Path.String() != "/0" {
		t.Fatalf("unexpected element issue: %v", iss)
	}
}

func TestChecks_WrongKindPanics(t *testing.T) {
	cases := map[string]func(){
		"gt on string":   func() { z.String().Gt(1) },
		"email on bool":  func() { z.Bool().Email() },
		"min on object":  func() { z.Object().Min(1) },
		"after on number": func() { z.Number().After(time.Now()) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestLiteralAndEnum(t *testing.T) {
	ctx := context.Background()

	if _, err := z.Literal("on").Parse(ctx, "on"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := z.Literal("on").Parse(ctx, "off")
	iss, _ := z.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != z.CodeInvalidLiteral {
		t.Fatalf("unexpected issues: %v", iss)
	}

	// Numeric literals match by value, whatever the representation.
	if _, err := z.Literal(1.0).Parse(ctx, json.Number("1")); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	e := z.Enum("red", "green", "blue")
	if _, err := e.Parse(ctx, "green"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err = e.Parse(ctx, "pink")
	iss, _ = z.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != z.CodeInvalidEnumValue {
		t.Fatalf("unexpected issues: %v", iss)
	}
}
