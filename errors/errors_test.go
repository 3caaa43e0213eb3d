package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseDecode,
				Kind:    KindLengthMismatch,
				Context: "Code attribute",
				Detail:  "declared length 13, consumed 12",
			},
			contains: []string{"[decode]", "length_mismatch", "Code attribute", "declared length 13"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseResolve,
				Kind:  KindZeroIndex,
			},
			contains: []string{"[resolve]", "zero_index"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInvalidConstantRef,
				Detail: "invalid constant reference",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[decode]", "invalid_constant_ref", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := InvalidConstantRef(cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:   PhaseDecode,
		Kind:    KindEOF,
		Context: "Utf8 length",
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindEOF}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseResolve, Kind: KindEOF}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidUTF8}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseDecode, Kind: KindEOF}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestIsKind(t *testing.T) {
	if !IsKind(EOF("constant tag"), KindEOF) {
		t.Error("IsKind missed a direct match")
	}
	if IsKind(EOF("constant tag"), KindInvalidUTF8) {
		t.Error("IsKind matched the wrong kind")
	}
	if IsKind(nil, KindEOF) {
		t.Error("IsKind matched nil")
	}
	if IsKind(errors.New("plain"), KindEOF) {
		t.Error("IsKind matched a plain error")
	}

	// Kinds stay visible through a wrapping Error.
	wrapped := InvalidConstantRef(ZeroIndex())
	if !IsKind(wrapped, KindInvalidConstantRef) {
		t.Error("IsKind missed the outer kind")
	}
	if !IsKind(wrapped, KindZeroIndex) {
		t.Error("IsKind missed the wrapped kind")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
	}{
		{"eof", EOF("Utf8 length"), PhaseDecode, KindEOF},
		{"invalid_utf8", InvalidUTF8("Utf8 constant", []byte{0xc3, 0x28}), PhaseDecode, KindInvalidUTF8},
		{"invalid_constant_tag", InvalidConstantTag(13), PhaseDecode, KindInvalidConstantTag},
		{"invalid_method_handle_kind", InvalidMethodHandleKind(10), PhaseDecode, KindInvalidMethodHandleKind},
		{"invalid_stack_frame_tag", InvalidStackFrameTag(128), PhaseDecode, KindInvalidStackFrameTag},
		{"invalid_verification_type", InvalidVerificationType(9), PhaseDecode, KindInvalidVerificationType},
		{"invalid_attribute_name", InvalidAttributeName(7), PhaseDecode, KindInvalidAttributeName},
		{"unknown_attribute", UnknownAttribute("SourceFile"), PhaseDecode, KindUnknownAttribute},
		{"length_mismatch", LengthMismatch("Code attribute", 13, 12), PhaseDecode, KindLengthMismatch},
		{"invalid_constant_ref", InvalidConstantRef(ZeroIndex()), PhaseDecode, KindInvalidConstantRef},
		{"zero_index", ZeroIndex(), PhaseResolve, KindZeroIndex},
		{"out_of_range", OutOfRange(10, 5), PhaseResolve, KindIndexOutOfRange},
		{"double_width_slot", DoubleWidthSlot(3), PhaseResolve, KindDoubleWidthSlot},
		{"invalid_magic", InvalidMagic(0xbadbabe), PhaseClass, KindInvalidMagic},
		{"pool_size", PoolSize(2, 1), PhaseClass, KindLengthMismatch},
		{"trailing_bytes", TrailingBytes(4), PhaseClass, KindLengthMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestLengthMismatchFields(t *testing.T) {
	err := LengthMismatch("ConstantValue attribute", 4, 2)
	if err.Stated != 4 || err.Inferred != 2 {
		t.Errorf("stated=%d inferred=%d, want 4 and 2", err.Stated, err.Inferred)
	}
	msg := err.Error()
	if !strings.Contains(msg, "4") || !strings.Contains(msg, "2") {
		t.Errorf("message %q does not mention both lengths", msg)
	}
}

func TestInvalidUTF8Preview(t *testing.T) {
	// Long payloads are truncated in the message, not dumped whole.
	data := make([]byte, 100)
	for i := range data {
		data[i] = 0xff
	}
	msg := InvalidUTF8("Utf8 constant", data).Error()
	if strings.Count(msg, "ff") > 40 {
		t.Errorf("message dumps too much payload: %q", msg)
	}
}
