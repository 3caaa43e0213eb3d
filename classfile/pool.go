package classfile

import (
	"github.com/wippyai/jvm/errors"
)

// ConstantPool is the shared, 1-indexed table of constants referenced
// throughout a class file. Slot i of the slice holds pool index i+1;
// index 0 is always invalid. The slot after a Long or Double entry
// holds a Placeholder and may never be resolved directly.
type ConstantPool []Constant

// Resolve returns the entry at the given 1-based index. It fails for
// index 0, for an index past the last slot, and for an index landing
// on the placeholder slot inside a double-width constant.
func (p ConstantPool) Resolve(index ConstIndex) (Constant, error) {
	if index == 0 {
		return nil, errors.ZeroIndex()
	}
	if int(index) > len(p) {
		return nil, errors.OutOfRange(uint16(index), len(p))
	}
	entry := p[index-1]
	if _, ok := entry.(Placeholder); ok {
		return nil, errors.DoubleWidthSlot(uint16(index))
	}
	return entry, nil
}

// UTF8 resolves index and returns its text, failing if the entry is
// not a Utf8 constant.
func (p ConstantPool) UTF8(index ConstIndex) (string, error) {
	entry, err := p.Resolve(index)
	if err != nil {
		return "", err
	}
	utf8, ok := entry.(ConstUtf8)
	if !ok {
		return "", errors.InvalidAttributeName(entry)
	}
	return utf8.Value, nil
}

// ClassName resolves a ClassRef index to the class's internal name.
func (p ConstantPool) ClassName(index ConstIndex) (string, error) {
	entry, err := p.Resolve(index)
	if err != nil {
		return "", err
	}
	ref, ok := entry.(ConstClassRef)
	if !ok {
		return "", errors.InvalidConstantRef(errors.InvalidAttributeName(entry))
	}
	return p.UTF8(ref.Name)
}

// readConstantPool decodes count-1 pool slots (the declared
// constant_pool_count includes the invalid index 0). Long and Double
// entries are followed by a synthesized Placeholder slot; a Long or
// Double declared in the final slot would push the placeholder past
// the declared count, which is reported as a pool-size mismatch.
func readConstantPool(r *Reader, count uint16) (ConstantPool, error) {
	slots := 0
	if count > 0 {
		slots = int(count) - 1
	}
	pool := make(ConstantPool, 0, slots)

	for len(pool) < slots {
		entry, err := DecodeConstant(r)
		if err != nil {
			return nil, err
		}
		pool = append(pool, entry)
		switch entry.(type) {
		case ConstLong, ConstDouble:
			pool = append(pool, Placeholder{})
		}
	}

	if len(pool) != slots {
		return nil, errors.PoolSize(uint32(slots), uint32(len(pool)))
	}
	return pool, nil
}
