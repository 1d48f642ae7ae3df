package zodmini

// Package zodmini provides:
//
// - Declarative schema construction for untyped input data (String/Number/Object/Array/Union/...)
// - Validation that collects every violation, not just the first, via Issues (JSON Pointer, code, message)
// - A refinement/transform pipeline (Preprocess/Refine/SuperRefine/Transform) attached to any node
// - Synchronous and asynchronous parsing with identical, deterministically ordered results
//
// Design policy:
// - Schema nodes are immutable; every modifier and combinator returns a new node.
// - Keep the public engine in the root package; put message catalogs under i18n/,
//   JSON Schema projection under jsonschema/, and HTTP glue under middleware/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := zodmini.Object(
//		zodmini.Field("name", zodmini.String().Min(1)),
//		zodmini.Field("age", zodmini.Number().Int().Nonnegative().Optional()),
//	)
//	v, err := user.Parse(ctx, raw)
//	res := user.SafeParse(ctx, raw)
//	v, err = zodmini.ParseFrom(ctx, user, zodmini.JSONBytes(data))
