package zodmini_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"

	z "github.com/BrunoFelixDeSousa/zodmini"
)

func TestPath_JSONPointerRendering(t *testing.T) {
	cases := []struct {
		path z.Path
		want string
	}{
		{nil, "/"},
		{z.Path{z.Key("items"), z.Index(2), z.Key("price")}, "/items/2/price"},
		{z.Path{z.Key("a/b"), z.Key("c~d")}, "/a~1b/c~0d"},
		{z.Path{z.Index(0)}, "/0"},
	}
	for _, tc := range cases {
		if got := tc.path.String(); got != tc.want {
			t.Fatalf("%#v rendered %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestPath_SegmentAccessors(t *testing.T) {
	p := z.Path{z.Key("items"), z.Index(3)}

	if k, ok := p[0].Key(); !ok || k != "items" {
		t.Fatalf("unexpected key segment: %#v", p[0])
	}
	if _, ok := p[0].Idx(); ok {
		t.Fatalf("key segment must not read as index")
	}
	if i, ok := p[1].Idx(); !ok || i != 3 {
		t.Fatalf("unexpected index segment: %#v", p[1])
	}
}

func TestPath_JSONSerialization(t *testing.T) {
	b, err := gojson.Marshal(z.Path{z.Key("items"), z.Index(2)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(b) != `["items",2]` {
		t.Fatalf("unexpected json: %s", b)
	}

	// The root path serializes as an empty array, never null.
	b, err = gojson.Marshal(z.Path(nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(b) != `[]` {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := z.Issues{
		{Code: z.CodeInvalidType, Path: z.Path{z.Key("a")}},
		{Code: z.CodeTooSmall, Path: z.Path{z.Key("b")}},
		{Code: z.CodeTooBig, Path: z.Path{z.Key("c")}},
		{Code: z.CodeCustom, Path: z.Path{z.Key("d")}},
	}
	msg := iss.Error()
	if !strings.Contains(msg, "invalid_type at /a") {
		t.Fatalf("unexpected summary: %s", msg)
	}
	if !strings.Contains(msg, "(total 4)") {
		t.Fatalf("long lists must be truncated with a total: %s", msg)
	}
	if strings.Contains(msg, "/d") {
		t.Fatalf("only the first few issues should be shown: %s", msg)
	}
}

func TestAsIssues_UnwrapsWrappedErrors(t *testing.T) {
	ctx := context.Background()

	_, err := z.String().Parse(ctx, 1)
	wrapped := fmt.Errorf("request rejected: %w", err)

	iss, ok := z.AsIssues(wrapped)
	if !ok || len(iss) != 1 {
		t.Fatalf("unwrap failed: %v", wrapped)
	}

	if _, ok := z.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors must not convert")
	}
	if _, ok := z.AsIssues(nil); ok {
		t.Fatalf("nil must not convert")
	}
}

func TestIssue_JSONShape(t *testing.T) {
	ctx := context.Background()

	_, err := z.Object(z.Field("age", z.Number())).Parse(ctx, map[string]any{"age": "old"})
	iss, _ := z.AsIssues(err)

	b, merr := gojson.Marshal(iss)
	if merr != nil {
		t.Fatalf("unexpected err: %v", merr)
	}
	s := string(b)
	for _, want := range []string{`"path":["age"]`, `"code":"invalid_type"`, `"message":`} {
		if !strings.Contains(s, want) {
			t.Fatalf("serialized issue missing %s: %s", want, s)
		}
	}
}
