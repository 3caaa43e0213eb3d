package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates which stage of decoding detected the error
type Phase string

const (
	PhaseDecode  Phase = "decode"  // cursor-driven constant/attribute decoding
	PhaseResolve Phase = "resolve" // constant-pool index resolution
	PhaseClass   Phase = "class"   // whole-file decoding
)

// Kind categorizes the error
type Kind string

const (
	KindEOF                     Kind = "eof"
	KindInvalidUTF8             Kind = "invalid_utf8"
	KindInvalidConstantTag      Kind = "invalid_constant_tag"
	KindInvalidMethodHandleKind Kind = "invalid_method_handle_kind"
	KindInvalidStackFrameTag    Kind = "invalid_stack_frame_tag"
	KindInvalidVerificationType Kind = "invalid_verification_type"
	KindInvalidAttributeName    Kind = "invalid_attribute_name"
	KindUnknownAttribute        Kind = "unknown_attribute"
	KindLengthMismatch          Kind = "length_mismatch"
	KindInvalidConstantRef      Kind = "invalid_constant_ref"
	KindZeroIndex               Kind = "zero_index"
	KindIndexOutOfRange         Kind = "index_out_of_range"
	KindDoubleWidthSlot         Kind = "double_width_slot"
	KindInvalidMagic            Kind = "invalid_magic"
)

// Error is the structured error type returned by every fallible decode
// operation. All violations are terminal for the decode call that
// produced them; nothing is retried or defaulted.
type Error struct {
	Value   any   // offending tag, kind byte, pool index, or pool entry
	Cause   error // underlying error, e.g. a resolver failure
	Phase   Phase
	Kind    Kind
	Context string // the field or structure being decoded
	Detail  string

	// Declared vs. independently computed byte counts, set for
	// KindLengthMismatch only.
	Stated   uint32
	Inferred uint32
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Context != "" {
		b.WriteString(" at ")
		b.WriteString(e.Context)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err (or anything it wraps) is an Error with
// the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Convenience constructors, one per condition in the taxonomy

// EOF reports that fewer bytes remain than the current field requires.
// Context names the field being parsed.
func EOF(context string) *Error {
	return &Error{
		Phase:   PhaseDecode,
		Kind:    KindEOF,
		Context: context,
		Detail:  "unexpected end of stream",
	}
}

// InvalidUTF8 reports text bytes that are not valid UTF-8.
func InvalidUTF8(context string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:   PhaseDecode,
		Kind:    KindInvalidUTF8,
		Context: context,
		Detail:  fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidConstantTag reports an unrecognized constant-pool tag byte.
func InvalidConstantTag(tag uint8) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidConstantTag,
		Detail: fmt.Sprintf("unsupported constant tag %d", tag),
		Value:  tag,
	}
}

// InvalidMethodHandleKind reports a method-handle reference kind
// outside 1..9.
func InvalidMethodHandleKind(kind uint8) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidMethodHandleKind,
		Detail: fmt.Sprintf("unsupported method handle kind %d", kind),
		Value:  kind,
	}
}

// InvalidStackFrameTag reports a stack-map frame tag in the reserved
// range 128..246.
func InvalidStackFrameTag(tag uint8) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidStackFrameTag,
		Detail: fmt.Sprintf("reserved stack map frame tag %d", tag),
		Value:  tag,
	}
}

// InvalidVerificationType reports a verification-type tag outside 0..8.
func InvalidVerificationType(kind uint8) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidVerificationType,
		Detail: fmt.Sprintf("unsupported verification type %d", kind),
		Value:  kind,
	}
}

// InvalidAttributeName reports an attribute name index that resolved to
// a non-UTF8 pool entry. The offending entry is carried in Value.
func InvalidAttributeName(entry any) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidAttributeName,
		Detail: fmt.Sprintf("attribute name resolves to %T, not a Utf8 constant", entry),
		Value:  entry,
	}
}

// UnknownAttribute reports a well-formed but unrecognized attribute
// name. This is a policy limit of the decoder, not a format violation.
func UnknownAttribute(name string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownAttribute,
		Detail: fmt.Sprintf("unknown attribute type %q", name),
		Value:  name,
	}
}

// LengthMismatch reports disagreement between a declared length field
// and the byte count actually consumed for the same structure.
func LengthMismatch(context string, stated, inferred uint32) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindLengthMismatch,
		Context:  context,
		Detail:   fmt.Sprintf("declared length %d, consumed %d", stated, inferred),
		Stated:   stated,
		Inferred: inferred,
	}
}

// InvalidConstantRef wraps a resolver failure encountered while
// following a pool index during attribute decoding.
func InvalidConstantRef(cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidConstantRef,
		Detail: "invalid constant reference",
		Cause:  cause,
	}
}

// ZeroIndex reports a lookup of pool index 0, which is never valid.
func ZeroIndex() *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindZeroIndex,
		Detail: "constant pool index 0 is always invalid",
	}
}

// OutOfRange reports a pool index beyond the highest valid slot.
func OutOfRange(index uint16, size int) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindIndexOutOfRange,
		Detail: fmt.Sprintf("constant pool index %d out of range (pool has %d slots)", index, size),
		Value:  index,
	}
}

// DoubleWidthSlot reports an index landing on the occupied-but-empty
// slot after a Long or Double constant.
func DoubleWidthSlot(index uint16) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindDoubleWidthSlot,
		Detail: fmt.Sprintf("constant pool index %d points inside a double-width constant", index),
		Value:  index,
	}
}

// InvalidMagic reports a class file that does not begin with 0xCAFEBABE.
func InvalidMagic(got uint32) *Error {
	return &Error{
		Phase:  PhaseClass,
		Kind:   KindInvalidMagic,
		Detail: fmt.Sprintf("invalid class file magic 0x%08x", got),
		Value:  got,
	}
}

// PoolSize reports a constant pool whose built slot count disagrees
// with the declared constant_pool_count.
func PoolSize(stated, inferred uint32) *Error {
	return &Error{
		Phase:    PhaseClass,
		Kind:     KindLengthMismatch,
		Context:  "constant pool",
		Detail:   fmt.Sprintf("declared %d slots, built %d", stated, inferred),
		Stated:   stated,
		Inferred: inferred,
	}
}

// TrailingBytes reports leftover input after the last class structure.
func TrailingBytes(remaining int) *Error {
	return &Error{
		Phase:  PhaseClass,
		Kind:   KindLengthMismatch,
		Detail: fmt.Sprintf("%d trailing bytes after class file end", remaining),
	}
}
