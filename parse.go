package zodmini

import "context"

// ParseResult is the plain-data outcome used by the SafeParse entry points:
// validation failures are values to branch on, not errors to unwrap.
type ParseResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   Issues `json:"error,omitempty"`
}

// Parse validates v against the schema and returns the validated (and
// possibly transformed) value. On failure the returned error is the full
// ordered Issues sequence; nothing is reported early, every violation is
// collected. If any asynchronous effect is reached, Parse fails with an
// async_effect issue — use ParseAsync.
func (s *Schema) Parse(ctx context.Context, v any) (any, error) {
	return s.run(ctx, modeSync, v)
}

// ParseAsync behaves exactly like Parse but may suspend at asynchronous
// Refine/SuperRefine/Transform callbacks. With no asynchronous effects
// present, its result is identical to Parse's.
func (s *Schema) ParseAsync(ctx context.Context, v any) (any, error) {
	return s.run(ctx, modeAsync, v)
}

// SafeParse is Parse with the outcome returned as plain data; it never
// returns an error through control flow.
func (s *Schema) SafeParse(ctx context.Context, v any) ParseResult {
	return toResult(s.Parse(ctx, v))
}

// SafeParseAsync is ParseAsync with the outcome returned as plain data.
func (s *Schema) SafeParseAsync(ctx context.Context, v any) ParseResult {
	return toResult(s.ParseAsync(ctx, v))
}

// Validate reports validation issues without returning the output value.
func (s *Schema) Validate(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

// Is reports whether v conforms to the schema.
func (s *Schema) Is(ctx context.Context, v any) bool {
	return s.Validate(ctx, v) == nil
}

func (s *Schema) run(ctx context.Context, mode walkMode, v any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	w := &walker{mode: mode, ctx: ctx}
	out, iss := w.walk(s, v, nil)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func toResult(v any, err error) ParseResult {
	if err != nil {
		iss, ok := AsIssues(err)
		if !ok {
			iss = Issues{{Code: CodeParseError, Message: err.Error(), Cause: err}}
		}
		return ParseResult{Success: false, Error: iss}
	}
	return ParseResult{Success: true, Data: v}
}
