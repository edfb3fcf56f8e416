// Package command implements the client command pipeline: typed,
// builder-constructed commands that translate their state and per-request
// options into cluster operations, submit them, block on the asynchronous
// result and map it into a strongly-typed Response.
//
// The package focuses on:
//   - A uniform execution contract shared by all command variants:
//     validate, translate, submit, await, convert - with no client-side
//     retry and no state carried between executions
//   - Typed per-variant option setters (a builder only exposes the options
//     its operation recognizes, so unrecognized options are unrepresentable)
//   - A clean conversion boundary between wire objects and caller-defined
//     domain types via kv.Converter
//
// Commands are immutable after Build and may be executed any number of
// times; each Execute call issues a fresh cluster operation. Both a
// blocking Execute and a context-aware ExecuteContext entry point are
// provided.
//
// Failures are reported through three error types: ValidationError (a
// required field is missing, raised before any network call),
// ExecutionError (the cluster operation failed; wraps the original cause)
// and ConversionError (a supplied converter failed; wrapped inside the
// ExecutionError). "Not found" and "unchanged" are not failures - they are
// successful Responses with the corresponding flags set.
package command
