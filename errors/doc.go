// Package errors provides structured error types for the cartridge host.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a location path, the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTruncated).
//		Path("EmitVertex").
//		Detail("need %d bytes, %d remain", 20, 7).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(ptr, length, memSize)
//	err := errors.UnknownOpcode(0x2a, 17)
//
// The taxonomy maps onto the host's failure policy:
//
//	PhaseBoundary  refused guest memory access, never fatal
//	PhaseDecode    rejected gpu submission
//	PhaseExecute   stack discipline or reentrancy, fatal for the frame
//	PhaseRuntime   guest trap, fatal for the run
//
// All errors implement the standard error interface and support errors.Is/As.
// The exported Err* values are match targets for errors.Is.
package errors
