package classfile

import (
	"github.com/wippyai/jvm/errors"
)

// DecodeAttribute decodes exactly one attribute from the cursor,
// resolving its name through the already-completed pool. The declared
// length of every structured variant is cross-checked against the byte
// count actually consumed for the body; the format describes itself
// twice and the two descriptions must agree exactly.
func DecodeAttribute(r *Reader, pool ConstantPool) (Attribute, error) {
	nameIndex, err := r.readIndex("attribute name index")
	if err != nil {
		return nil, err
	}
	entry, err := pool.Resolve(nameIndex)
	if err != nil {
		return nil, errors.InvalidConstantRef(err)
	}
	name, ok := entry.(ConstUtf8)
	if !ok {
		return nil, errors.InvalidAttributeName(entry)
	}

	length, err := r.ReadU32("attribute length")
	if err != nil {
		return nil, err
	}

	switch name.Value {
	case AttrConstantValue:
		return decodeConstantValue(r, nameIndex, length)
	case AttrCode:
		return decodeCode(r, pool, nameIndex, length)
	case AttrStackMapTable:
		return decodeStackMapTable(r, nameIndex, length)
	default:
		return nil, errors.UnknownAttribute(name.Value)
	}
}

func decodeConstantValue(r *Reader, name ConstIndex, length uint32) (Attribute, error) {
	// The body is a single pool index, so the only valid length is 2.
	if length != 2 {
		return nil, errors.LengthMismatch("ConstantValue attribute", length, 2)
	}
	value, err := r.readIndex("ConstantValue index")
	if err != nil {
		return nil, err
	}
	return ConstantValueAttr{Name: name, Value: value}, nil
}

func decodeCode(r *Reader, pool ConstantPool, name ConstIndex, length uint32) (Attribute, error) {
	start := r.Position()

	maxStack, err := r.ReadU16("Code max stack")
	if err != nil {
		return nil, err
	}
	maxLocals, err := r.ReadU16("Code max locals")
	if err != nil {
		return nil, err
	}

	codeLength, err := r.ReadU32("Code length")
	if err != nil {
		return nil, err
	}
	bytecode, err := r.ReadBytes(int(codeLength), "Code body")
	if err != nil {
		return nil, err
	}

	handlerCount, err := r.ReadU16("exception table length")
	if err != nil {
		return nil, err
	}
	var handlers []ExceptionHandler
	for i := uint16(0); i < handlerCount; i++ {
		handler, err := decodeExceptionHandler(r)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, handler)
	}

	attrs, err := decodeAttributeList(r, pool, "Code attribute count")
	if err != nil {
		return nil, err
	}

	if consumed := uint32(r.Position() - start); consumed != length {
		return nil, errors.LengthMismatch("Code attribute", length, consumed)
	}
	return CodeAttr{
		Name:           name,
		MaxStack:       maxStack,
		MaxLocals:      maxLocals,
		Bytecode:       bytecode,
		ExceptionTable: handlers,
		Attributes:     attrs,
	}, nil
}

func decodeExceptionHandler(r *Reader) (ExceptionHandler, error) {
	startPC, err := r.ReadU16("exception handler start pc")
	if err != nil {
		return ExceptionHandler{}, err
	}
	endPC, err := r.ReadU16("exception handler end pc")
	if err != nil {
		return ExceptionHandler{}, err
	}
	handlerPC, err := r.ReadU16("exception handler pc")
	if err != nil {
		return ExceptionHandler{}, err
	}
	catchType, err := r.readIndex("exception handler catch type")
	if err != nil {
		return ExceptionHandler{}, err
	}
	return ExceptionHandler{
		StartPC:   startPC,
		EndPC:     endPC,
		HandlerPC: handlerPC,
		CatchType: catchType,
	}, nil
}

func decodeStackMapTable(r *Reader, name ConstIndex, length uint32) (Attribute, error) {
	start := r.Position()

	count, err := r.ReadU16("stack map frame count")
	if err != nil {
		return nil, err
	}
	var frames []StackMapFrame
	for i := uint16(0); i < count; i++ {
		frame, err := decodeStackMapFrame(r)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}

	if consumed := uint32(r.Position() - start); consumed != length {
		return nil, errors.LengthMismatch("StackMapTable attribute", length, consumed)
	}
	return StackMapTableAttr{Name: name, Frames: frames}, nil
}

// decodeStackMapFrame selects the frame shape by tag range. The ranges
// carry payload: compact same-frames encode their offset delta in the
// tag, chop and append frames encode their local count as a distance
// from 251.
func decodeStackMapFrame(r *Reader) (StackMapFrame, error) {
	tag, err := r.ReadU8("stack map frame tag")
	if err != nil {
		return StackMapFrame{}, err
	}

	switch {
	case tag <= FrameTagSameMax:
		return StackMapFrame{
			Kind:        FrameSame,
			Tag:         tag,
			OffsetDelta: uint16(tag),
		}, nil

	case tag <= FrameTagSameLocals1Max:
		operand, err := decodeVerificationType(r)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{
			Kind:        FrameSameLocals1Stack,
			Tag:         tag,
			OffsetDelta: uint16(tag - FrameTagSameLocals1Min),
			Stack:       []VerificationType{operand},
		}, nil

	case tag <= FrameTagReservedMax:
		return StackMapFrame{}, errors.InvalidStackFrameTag(tag)

	case tag == FrameTagSameLocals1Ext:
		offset, err := r.ReadU16("stack map frame offset delta")
		if err != nil {
			return StackMapFrame{}, err
		}
		operand, err := decodeVerificationType(r)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{
			Kind:        FrameSameLocals1StackExtended,
			Tag:         tag,
			OffsetDelta: offset,
			Stack:       []VerificationType{operand},
		}, nil

	case tag <= FrameTagChopMax:
		offset, err := r.ReadU16("stack map frame offset delta")
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{
			Kind:        FrameChop,
			Tag:         tag,
			OffsetDelta: offset,
		}, nil

	case tag == FrameTagSameExtended:
		offset, err := r.ReadU16("stack map frame offset delta")
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{
			Kind:        FrameSameExtended,
			Tag:         tag,
			OffsetDelta: offset,
		}, nil

	case tag <= FrameTagAppendMax:
		offset, err := r.ReadU16("stack map frame offset delta")
		if err != nil {
			return StackMapFrame{}, err
		}
		appended := int(tag - frameTagChopAppendMidpoint)
		locals := make([]VerificationType, 0, appended)
		for i := 0; i < appended; i++ {
			local, err := decodeVerificationType(r)
			if err != nil {
				return StackMapFrame{}, err
			}
			locals = append(locals, local)
		}
		return StackMapFrame{
			Kind:        FrameAppend,
			Tag:         tag,
			OffsetDelta: offset,
			Locals:      locals,
		}, nil

	default: // FrameTagFull
		offset, err := r.ReadU16("stack map frame offset delta")
		if err != nil {
			return StackMapFrame{}, err
		}
		locals, err := decodeVerificationTypeList(r, "full frame local count")
		if err != nil {
			return StackMapFrame{}, err
		}
		stack, err := decodeVerificationTypeList(r, "full frame stack count")
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{
			Kind:        FrameFull,
			Tag:         tag,
			OffsetDelta: offset,
			Locals:      locals,
			Stack:       stack,
		}, nil
	}
}

func decodeVerificationTypeList(r *Reader, context string) ([]VerificationType, error) {
	count, err := r.ReadU16(context)
	if err != nil {
		return nil, err
	}
	var items []VerificationType
	for i := uint16(0); i < count; i++ {
		item, err := decodeVerificationType(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeVerificationType(r *Reader) (VerificationType, error) {
	kind, err := r.ReadU8("verification type tag")
	if err != nil {
		return VerificationType{}, err
	}

	switch VerificationKind(kind) {
	case ItemTop, ItemInteger, ItemFloat, ItemDouble, ItemLong, ItemNull, ItemUninitializedThis:
		return VerificationType{Kind: VerificationKind(kind)}, nil
	case ItemObject:
		class, err := r.readIndex("object verification type class index")
		if err != nil {
			return VerificationType{}, err
		}
		return VerificationType{Kind: ItemObject, Class: class}, nil
	case ItemUninitialized:
		offset, err := r.ReadU16("uninitialized verification type offset")
		if err != nil {
			return VerificationType{}, err
		}
		return VerificationType{Kind: ItemUninitialized, Offset: offset}, nil
	default:
		return VerificationType{}, errors.InvalidVerificationType(kind)
	}
}
