package classfile

import (
	"math"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/jvm/errors"
)

// DecodeConstant decodes exactly one constant-pool entry from the
// cursor, dispatching on the leading tag byte. On failure the cursor
// stops at the violating field; on success it sits exactly past the
// entry. The Placeholder slot following a Long or Double is never
// produced here, only by the pool builder.
func DecodeConstant(r *Reader) (Constant, error) {
	tag, err := r.ReadU8("constant tag")
	if err != nil {
		return nil, err
	}

	switch tag {
	case TagUtf8:
		return decodeUtf8(r)
	case TagInteger:
		v, err := r.ReadU32("Integer constant")
		if err != nil {
			return nil, err
		}
		return ConstInteger{Value: int32(v)}, nil
	case TagFloat:
		// Raw bit pattern; NaN payloads survive Float32frombits.
		bits, err := r.ReadU32("Float constant")
		if err != nil {
			return nil, err
		}
		return ConstFloat{Value: math.Float32frombits(bits)}, nil
	case TagLong:
		v, err := r.ReadU64("Long constant")
		if err != nil {
			return nil, err
		}
		return ConstLong{Value: int64(v)}, nil
	case TagDouble:
		bits, err := r.ReadU64("Double constant")
		if err != nil {
			return nil, err
		}
		return ConstDouble{Value: math.Float64frombits(bits)}, nil
	case TagClassRef:
		name, err := r.readIndex("ClassRef name index")
		if err != nil {
			return nil, err
		}
		return ConstClassRef{Name: name}, nil
	case TagStringRef:
		value, err := r.readIndex("StringRef value index")
		if err != nil {
			return nil, err
		}
		return ConstStringRef{Value: value}, nil
	case TagFieldRef:
		class, nat, err := decodeRefPair(r)
		if err != nil {
			return nil, err
		}
		return ConstFieldRef{Class: class, NameAndType: nat}, nil
	case TagMethodRef:
		class, nat, err := decodeRefPair(r)
		if err != nil {
			return nil, err
		}
		return ConstMethodRef{Class: class, NameAndType: nat}, nil
	case TagInterfaceMethodRef:
		class, nat, err := decodeRefPair(r)
		if err != nil {
			return nil, err
		}
		return ConstInterfaceMethodRef{Class: class, NameAndType: nat}, nil
	case TagMethodHandle:
		return decodeMethodHandle(r)
	case TagMethodType:
		descriptor, err := r.readIndex("MethodType descriptor index")
		if err != nil {
			return nil, err
		}
		return ConstMethodType{Descriptor: descriptor}, nil
	case TagInvokeDynamic:
		bootstrap, err := r.ReadU16("InvokeDynamic bootstrap method index")
		if err != nil {
			return nil, err
		}
		nat, err := r.readIndex("InvokeDynamic name and type index")
		if err != nil {
			return nil, err
		}
		return ConstInvokeDynamic{BootstrapMethod: bootstrap, NameAndType: nat}, nil
	default:
		return nil, errors.InvalidConstantTag(tag)
	}
}

func decodeUtf8(r *Reader) (Constant, error) {
	length, err := r.ReadU16("Utf8 length")
	if err != nil {
		return nil, err
	}
	contents, err := r.ReadBytes(int(length), "Utf8 contents")
	if err != nil {
		return nil, err
	}
	// Text is accepted whole or not at all.
	if !utf8.Valid(contents) {
		return nil, errors.InvalidUTF8("Utf8 constant", contents)
	}
	return ConstUtf8{Value: string(contents)}, nil
}

func decodeRefPair(r *Reader) (class, nameAndType ConstIndex, err error) {
	class, err = r.readIndex("reference class index")
	if err != nil {
		return 0, 0, err
	}
	nameAndType, err = r.readIndex("reference name and type index")
	if err != nil {
		return 0, 0, err
	}
	return class, nameAndType, nil
}

func decodeMethodHandle(r *Reader) (Constant, error) {
	kind, err := r.ReadU8("method handle kind")
	if err != nil {
		return nil, err
	}
	ref, err := r.readIndex("method handle reference index")
	if err != nil {
		return nil, err
	}
	if kind < uint8(HandleGetField) || kind > uint8(HandleInvokeInterface) {
		return nil, errors.InvalidMethodHandleKind(kind)
	}
	return ConstMethodHandle{Kind: HandleKind(kind), Ref: ref}, nil
}

// DecodeClass decodes a complete class file from data. The first
// violation aborts the decode; there are no partial results. Decoding
// is a single sequential pass and shares no state between calls, so
// independent classes may be decoded concurrently.
func DecodeClass(data []byte) (*Class, error) {
	r := NewReader(data)
	log := Logger()

	magic, err := r.ReadU32("class file magic")
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, errors.InvalidMagic(magic)
	}

	c := &Class{}
	if c.MinorVersion, err = r.ReadU16("minor version"); err != nil {
		return nil, err
	}
	if c.MajorVersion, err = r.ReadU16("major version"); err != nil {
		return nil, err
	}

	poolCount, err := r.ReadU16("constant pool count")
	if err != nil {
		return nil, err
	}
	if c.Constants, err = readConstantPool(r, poolCount); err != nil {
		return nil, err
	}
	log.Debug("decoded constant pool",
		zap.Uint16("declared", poolCount),
		zap.Int("slots", len(c.Constants)))

	flags, err := r.ReadU16("class access flags")
	if err != nil {
		return nil, err
	}
	c.Flags = ClassFlags(flags)
	if c.ThisClass, err = r.readIndex("this class index"); err != nil {
		return nil, err
	}
	if c.SuperClass, err = r.readIndex("super class index"); err != nil {
		return nil, err
	}

	interfaceCount, err := r.ReadU16("interface count")
	if err != nil {
		return nil, err
	}
	for i := uint16(0); i < interfaceCount; i++ {
		iface, err := r.readIndex("interface index")
		if err != nil {
			return nil, err
		}
		c.Interfaces = append(c.Interfaces, iface)
	}

	fieldCount, err := r.ReadU16("field count")
	if err != nil {
		return nil, err
	}
	for i := uint16(0); i < fieldCount; i++ {
		field, err := decodeField(r, c.Constants)
		if err != nil {
			return nil, err
		}
		c.Fields = append(c.Fields, field)
	}

	methodCount, err := r.ReadU16("method count")
	if err != nil {
		return nil, err
	}
	for i := uint16(0); i < methodCount; i++ {
		method, err := decodeMethod(r, c.Constants)
		if err != nil {
			return nil, err
		}
		c.Methods = append(c.Methods, method)
	}

	if c.Attributes, err = decodeAttributeList(r, c.Constants, "class attribute count"); err != nil {
		return nil, err
	}

	if r.Remaining() != 0 {
		return nil, errors.TrailingBytes(r.Remaining())
	}

	log.Debug("decoded class",
		zap.Uint16("major", c.MajorVersion),
		zap.Int("fields", len(c.Fields)),
		zap.Int("methods", len(c.Methods)))
	return c, nil
}

func decodeField(r *Reader, pool ConstantPool) (Field, error) {
	flags, err := r.ReadU16("field access flags")
	if err != nil {
		return Field{}, err
	}
	name, err := r.readIndex("field name index")
	if err != nil {
		return Field{}, err
	}
	descriptor, err := r.readIndex("field descriptor index")
	if err != nil {
		return Field{}, err
	}
	attrs, err := decodeAttributeList(r, pool, "field attribute count")
	if err != nil {
		return Field{}, err
	}
	return Field{
		Flags:      FieldFlags(flags),
		Name:       name,
		Descriptor: descriptor,
		Attributes: attrs,
	}, nil
}

func decodeMethod(r *Reader, pool ConstantPool) (Method, error) {
	flags, err := r.ReadU16("method access flags")
	if err != nil {
		return Method{}, err
	}
	name, err := r.readIndex("method name index")
	if err != nil {
		return Method{}, err
	}
	descriptor, err := r.readIndex("method descriptor index")
	if err != nil {
		return Method{}, err
	}
	attrs, err := decodeAttributeList(r, pool, "method attribute count")
	if err != nil {
		return Method{}, err
	}
	return Method{
		Flags:      MethodFlags(flags),
		Name:       name,
		Descriptor: descriptor,
		Attributes: attrs,
	}, nil
}

func decodeAttributeList(r *Reader, pool ConstantPool, context string) ([]Attribute, error) {
	count, err := r.ReadU16(context)
	if err != nil {
		return nil, err
	}
	var attrs []Attribute
	for i := uint16(0); i < count; i++ {
		attr, err := DecodeAttribute(r, pool)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}
