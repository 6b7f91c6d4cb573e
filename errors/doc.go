// Package errors provides structured error types for the image-layout library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: the offending section or
// input file, the offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindBadAlign).
//		Section(".bss").
//		Value(align).
//		Detail("alignment must be a power of two").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Overflow(errors.PhaseLayout, ".data", addr)
//	err := errors.ParseFailed("layout script", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
