package classfile

import (
	"encoding/binary"

	"github.com/wippyai/jvm/errors"
)

// Reader is a forward-only cursor over class-file bytes with position
// tracking. All multi-byte reads are big-endian. Every read checks the
// remaining byte count first and fails with an EOF error naming the
// field being parsed; a failed read never advances the cursor.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte offset from the start of the input.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadU8 reads a single byte. Context names the field for diagnostics.
func (r *Reader) ReadU8(context string) (uint8, error) {
	if r.Remaining() < 1 {
		return 0, errors.EOF(context)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadU16 reads a big-endian uint16.
func (r *Reader) ReadU16(context string) (uint16, error) {
	if r.Remaining() < 2 {
		return 0, errors.EOF(context)
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadU32 reads a big-endian uint32.
func (r *Reader) ReadU32(context string) (uint32, error) {
	if r.Remaining() < 4 {
		return 0, errors.EOF(context)
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadU64 reads a big-endian uint64.
func (r *Reader) ReadU64(context string) (uint64, error) {
	if r.Remaining() < 8 {
		return 0, errors.EOF(context)
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadBytes reads exactly n bytes and returns them as a fresh slice,
// so decoded values never alias the caller's input buffer.
func (r *Reader) ReadBytes(n int, context string) ([]byte, error) {
	if r.Remaining() < n {
		return nil, errors.EOF(context)
	}
	buf := make([]byte, n)
	copy(buf, r.data[r.pos:])
	r.pos += n
	return buf, nil
}

func (r *Reader) readIndex(context string) (ConstIndex, error) {
	v, err := r.ReadU16(context)
	return ConstIndex(v), err
}
