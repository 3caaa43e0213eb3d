// Package classfile provides JVM class-file binary format decoding.
//
// This package implements a strict decoder for the class-file format:
// given a byte buffer it produces either a fully validated structural
// model or a precise error describing the first violation. It is a
// pure decoder — no bytecode execution, no method verification, no
// cross-file symbol resolution, no re-encoding.
//
// # Decoding
//
// Decode a complete class file:
//
//	data, _ := os.ReadFile("Main.class")
//	class, err := classfile.DecodeClass(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or drive the two core operations directly:
//
//	r := classfile.NewReader(data)
//	constant, err := classfile.DecodeConstant(r)
//	attr, err := classfile.DecodeAttribute(r, pool)
//
// # Constant Pool
//
// The constant pool is 1-indexed; index 0 is always invalid. Long and
// Double constants occupy two consecutive slots, with the second slot
// holding a Placeholder that may never be resolved directly:
//
//	entry, err := class.Constants.Resolve(idx)
//	name, err := class.Constants.UTF8(field.Name)
//	this, err := class.Constants.ClassName(class.ThisClass)
//
// # Attributes
//
// Attribute kinds are selected by resolving the attribute's name index
// to UTF-8 text. The decoder recognizes ConstantValue, Code, and
// StackMapTable; any other name is reported as a distinct
// unknown-attribute error. Every structured attribute carries a
// declared length that is cross-checked against the byte count
// actually consumed — disagreement is a length-mismatch error, never
// silently skipped.
//
// # Errors
//
// All failures are values of *errors.Error from this module's errors
// package, categorized by Kind (EOF, invalid tag, bad index, length
// mismatch, ...). A failure is terminal for the decode call that
// produced it; there are no partial results.
//
// # Concurrency
//
// Decoding is synchronous and shares no state between calls.
// Independent class files may be decoded concurrently.
package classfile
