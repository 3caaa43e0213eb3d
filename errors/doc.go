// Package errors provides the structured error taxonomy shared by all
// class-file decode operations.
//
// Errors are categorized by Phase (which decoding stage detected the
// violation) and Kind (the violated rule). Every malformed-input
// condition has its own Kind and convenience constructor:
//
//	err := errors.EOF("Utf8 length")
//	err := errors.InvalidConstantTag(13)
//	err := errors.LengthMismatch("Code attribute", 13, 12)
//
// Length-mismatch errors carry the declared and the independently
// computed byte counts in Stated and Inferred. Resolver failures are
// wrapped by InvalidConstantRef and stay inspectable through the
// chain:
//
//	if errors.IsKind(err, errors.KindZeroIndex) { ... }
//
// All errors implement the standard error interface and support
// errors.Is and errors.As. Every failure is terminal for the decode
// call that produced it; nothing is retried or defaulted.
package errors
