package classfile

import (
	"bytes"
	"testing"

	"github.com/wippyai/jvm/errors"
)

func TestReaderReads(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09})

	if b, err := r.ReadU8("tag"); err != nil || b != 0x01 {
		t.Fatalf("ReadU8 = %#02x, %v", b, err)
	}
	if v, err := r.ReadU16("index"); err != nil || v != 0x0203 {
		t.Fatalf("ReadU16 = %#04x, %v", v, err)
	}
	if v, err := r.ReadU32("length"); err != nil || v != 0x04050607 {
		t.Fatalf("ReadU32 = %#08x, %v", v, err)
	}
	if r.Position() != 7 {
		t.Errorf("Position() = %d, want 7", r.Position())
	}
	if r.Remaining() != 2 {
		t.Errorf("Remaining() = %d, want 2", r.Remaining())
	}

	data, err := r.ReadBytes(2, "payload")
	if err != nil || !bytes.Equal(data, []byte{0x08, 0x09}) {
		t.Fatalf("ReadBytes = % x, %v", data, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestReaderU64(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	v, err := r.ReadU64("value")
	if err != nil {
		t.Fatalf("ReadU64 failed: %v", err)
	}
	if v != 0x0102030405060708 {
		t.Errorf("ReadU64 = %#016x", v)
	}
}

func TestReaderEOFDoesNotAdvance(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})
	if _, err := r.ReadU32("value"); !errors.IsKind(err, errors.KindEOF) {
		t.Fatalf("ReadU32 on 3 bytes = %v, want EOF", err)
	}
	if r.Position() != 0 {
		t.Errorf("failed read advanced the cursor to %d", r.Position())
	}
	// The shorter field still succeeds afterwards.
	if v, err := r.ReadU16("value"); err != nil || v != 0x0102 {
		t.Fatalf("ReadU16 = %#04x, %v", v, err)
	}
}

func TestReaderEOFContext(t *testing.T) {
	r := NewReader(nil)
	_, err := r.ReadU16("field count")
	e, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("error is %T, want *errors.Error", err)
	}
	if e.Context != "field count" {
		t.Errorf("Context = %q, want %q", e.Context, "field count")
	}
}

func TestReaderBytesAreCopied(t *testing.T) {
	input := []byte{0x0a, 0x0b}
	r := NewReader(input)
	data, err := r.ReadBytes(2, "payload")
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	input[0] = 0xff
	if data[0] != 0x0a {
		t.Error("ReadBytes result aliases the input buffer")
	}
}
