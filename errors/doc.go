// Package errors provides structured error types for the wasmvm module.
//
// Errors are categorized by Phase (which boundary crossing failed) and
// Kind (error category). Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseInstantiate, errors.KindInstantiation).
//		Detail("missing import %q", name).
//		Cause(cause).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ParseFailed(cause)
//	err := errors.Consumed("module")
//
// All errors implement the standard error interface and support
// errors.Is/As. Note that a trap is not an error: traps are reported
// as execution outcomes.
package errors
