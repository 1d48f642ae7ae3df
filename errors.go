package zodmini

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType              = "invalid_type"
	CodeInvalidLiteral           = "invalid_literal"
	CodeInvalidEnumValue         = "invalid_enum_value"
	CodeUnrecognizedKeys         = "unrecognized_keys"
	CodeInvalidUnion             = "invalid_union"
	CodeDiscriminatorMissing     = "discriminator_missing"
	CodeDiscriminatorUnknown     = "discriminator_unknown"
	CodeInvalidIntersectionTypes = "invalid_intersection_types"
	CodeTooSmall                 = "too_small"
	CodeTooBig                   = "too_big"
	CodeNotMultipleOf            = "not_multiple_of"
	CodeInvalidString            = "invalid_string"
	CodeInvalidDate              = "invalid_date"
	// CodeAsyncEffect reports that a synchronous entry point hit a schema node
	// carrying asynchronous effects; those effects are never silently skipped.
	CodeAsyncEffect = "async_effect"
	CodeCustom      = "custom"
	CodeParseError  = "parse_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    Path   `json:"path"`
	Code    string `json:"code"` // One of the codes listed above.
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"` // Optional: remediation hints, format names, etc.
	Cause   error  `json:"-"`              // Optional: underlying error.
	// Params carries structured parameters (e.g., {"minimum":1, "inclusive":true})
	// for i18n and observability.
	Params map[string]any `json:"params,omitempty"`
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// issuesFromErr converts an error into Issues, wrapping non-Issues as a custom
// issue at the given path.
func issuesFromErr(p Path, err error) Issues {
	if err == nil {
		return nil
	}
	if i2, ok := AsIssues(err); ok {
		return i2
	}
	return Issues{{Path: p, Code: CodeCustom, Message: err.Error(), Cause: err}}
}
