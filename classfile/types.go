package classfile

import (
	"fmt"
	"math"
)

// ConstIndex is a 1-based lookup key into a constant pool. Index 0 is
// never valid. An index is a plain value with no meaning outside the
// pool it was read against.
type ConstIndex uint16

// Constant is one entry of the constant pool. Entries are immutable
// values; the concrete type is one of the Const* structs below.
type Constant interface {
	// Tag returns the constant's wire tag, or 0 for the Placeholder
	// slot which has no wire representation.
	Tag() byte
	fmt.Stringer
}

// ConstUtf8 is a UTF-8 text entry (tag 1).
type ConstUtf8 struct {
	Value string
}

// ConstInteger is a 32-bit integer entry (tag 3).
type ConstInteger struct {
	Value int32
}

// ConstFloat is a 32-bit float entry (tag 4). The value carries the
// exact IEEE-754 bit pattern from the wire, NaN payloads included;
// compare with math.Float32bits, not ==.
type ConstFloat struct {
	Value float32
}

// Bits returns the raw IEEE-754 bit pattern.
func (c ConstFloat) Bits() uint32 { return math.Float32bits(c.Value) }

// ConstLong is a 64-bit integer entry (tag 5). It occupies two pool
// slots; the one after it holds a Placeholder.
type ConstLong struct {
	Value int64
}

// ConstDouble is a 64-bit float entry (tag 6), raw bits preserved like
// ConstFloat. Occupies two pool slots.
type ConstDouble struct {
	Value float64
}

// Bits returns the raw IEEE-754 bit pattern.
func (c ConstDouble) Bits() uint64 { return math.Float64bits(c.Value) }

// ConstClassRef is a class or interface reference (tag 7); Name points
// at the Utf8 entry holding the internal class name.
type ConstClassRef struct {
	Name ConstIndex
}

// ConstStringRef is a string literal (tag 8); Value points at a Utf8
// entry.
type ConstStringRef struct {
	Value ConstIndex
}

// ConstFieldRef references a field (tag 9).
type ConstFieldRef struct {
	Class       ConstIndex
	NameAndType ConstIndex
}

// ConstMethodRef references a class method (tag 10).
type ConstMethodRef struct {
	Class       ConstIndex
	NameAndType ConstIndex
}

// ConstInterfaceMethodRef references an interface method (tag 11).
type ConstInterfaceMethodRef struct {
	Class       ConstIndex
	NameAndType ConstIndex
}

// ConstNameAndType pairs a name with a descriptor (tag 12). The
// decoder never produces it from the wire; it exists so pools built in
// memory can hold it and the resolver can hand it back.
type ConstNameAndType struct {
	Name       ConstIndex
	Descriptor ConstIndex
}

// ConstMethodHandle is a method-handle entry (tag 15): a reference
// kind plus the index of the entry the handle wraps.
type ConstMethodHandle struct {
	Kind HandleKind
	Ref  ConstIndex
}

// ConstMethodType is a method-type entry (tag 16); Descriptor points
// at a Utf8 entry.
type ConstMethodType struct {
	Descriptor ConstIndex
}

// ConstInvokeDynamic is an invokedynamic call-site descriptor
// (tag 18). BootstrapMethod indexes the class's bootstrap-method
// table, not the constant pool.
type ConstInvokeDynamic struct {
	BootstrapMethod uint16
	NameAndType     ConstIndex
}

// Placeholder occupies the slot after a Long or Double entry so all
// other entries keep simple 1-based addressing. It is synthesized by
// the pool builder, never decoded, and resolving an index to it is an
// error.
type Placeholder struct{}

func (ConstUtf8) Tag() byte               { return TagUtf8 }
func (ConstInteger) Tag() byte            { return TagInteger }
func (ConstFloat) Tag() byte              { return TagFloat }
func (ConstLong) Tag() byte               { return TagLong }
func (ConstDouble) Tag() byte             { return TagDouble }
func (ConstClassRef) Tag() byte           { return TagClassRef }
func (ConstStringRef) Tag() byte          { return TagStringRef }
func (ConstFieldRef) Tag() byte           { return TagFieldRef }
func (ConstMethodRef) Tag() byte          { return TagMethodRef }
func (ConstInterfaceMethodRef) Tag() byte { return TagInterfaceMethodRef }
func (ConstNameAndType) Tag() byte        { return TagNameAndType }
func (ConstMethodHandle) Tag() byte       { return TagMethodHandle }
func (ConstMethodType) Tag() byte         { return TagMethodType }
func (ConstInvokeDynamic) Tag() byte      { return TagInvokeDynamic }
func (Placeholder) Tag() byte             { return 0 }

func (c ConstUtf8) String() string    { return fmt.Sprintf("Utf8 %q", c.Value) }
func (c ConstInteger) String() string { return fmt.Sprintf("Integer %d", c.Value) }
func (c ConstFloat) String() string   { return fmt.Sprintf("Float %g", c.Value) }
func (c ConstLong) String() string    { return fmt.Sprintf("Long %d", c.Value) }
func (c ConstDouble) String() string  { return fmt.Sprintf("Double %g", c.Value) }
func (c ConstClassRef) String() string {
	return fmt.Sprintf("ClassRef #%d", c.Name)
}
func (c ConstStringRef) String() string {
	return fmt.Sprintf("StringRef #%d", c.Value)
}
func (c ConstFieldRef) String() string {
	return fmt.Sprintf("FieldRef #%d.#%d", c.Class, c.NameAndType)
}
func (c ConstMethodRef) String() string {
	return fmt.Sprintf("MethodRef #%d.#%d", c.Class, c.NameAndType)
}
func (c ConstInterfaceMethodRef) String() string {
	return fmt.Sprintf("InterfaceMethodRef #%d.#%d", c.Class, c.NameAndType)
}
func (c ConstNameAndType) String() string {
	return fmt.Sprintf("NameAndType #%d:#%d", c.Name, c.Descriptor)
}
func (c ConstMethodHandle) String() string {
	return fmt.Sprintf("MethodHandle %s #%d", c.Kind, c.Ref)
}
func (c ConstMethodType) String() string {
	return fmt.Sprintf("MethodType #%d", c.Descriptor)
}
func (c ConstInvokeDynamic) String() string {
	return fmt.Sprintf("InvokeDynamic bootstrap=%d #%d", c.BootstrapMethod, c.NameAndType)
}
func (Placeholder) String() string { return "<double-width slot>" }

// Attribute is a named auxiliary record attached to a class, field,
// method, or Code body. The kind is selected by resolving NameIndex to
// UTF-8 text, not by a numeric tag; every variant keeps the
// originating name index for diagnostics.
type Attribute interface {
	// NameIndex returns the pool index the attribute's name was read
	// from.
	NameIndex() ConstIndex
	attributeName() string
}

// ConstantValueAttr holds the pool index of a field's constant initial
// value.
type ConstantValueAttr struct {
	Name  ConstIndex
	Value ConstIndex
}

func (a ConstantValueAttr) NameIndex() ConstIndex { return a.Name }
func (a ConstantValueAttr) attributeName() string { return AttrConstantValue }

// CodeAttr is a method body: stack and local limits, the raw bytecode
// (consumed verbatim, never interpreted), the exception handler table,
// and nested sub-attributes following the same attribute grammar.
type CodeAttr struct {
	Name           ConstIndex
	MaxStack       uint16
	MaxLocals      uint16
	Bytecode       []byte
	ExceptionTable []ExceptionHandler
	Attributes     []Attribute
}

func (a CodeAttr) NameIndex() ConstIndex { return a.Name }
func (a CodeAttr) attributeName() string { return AttrCode }

// ExceptionHandler is one row of a Code attribute's exception table.
// CatchType 0 means the handler catches everything (a finally block).
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType ConstIndex
}

// StackMapTableAttr holds the verifier's frame deltas for a Code body.
type StackMapTableAttr struct {
	Name   ConstIndex
	Frames []StackMapFrame
}

func (a StackMapTableAttr) NameIndex() ConstIndex { return a.Name }
func (a StackMapTableAttr) attributeName() string { return AttrStackMapTable }

// FrameKind identifies the shape of a stack-map frame. Frames are
// selected by tag range on the wire; the ranges carry payload (chop
// and append counts derive from the tag itself), so the decoded form
// keeps both the kind and the original tag byte.
type FrameKind uint8

const (
	FrameSame FrameKind = iota
	FrameSameLocals1Stack
	FrameSameLocals1StackExtended
	FrameChop
	FrameSameExtended
	FrameAppend
	FrameFull
)

var frameKindNames = map[FrameKind]string{
	FrameSame:                     "same",
	FrameSameLocals1Stack:         "same_locals_1_stack_item",
	FrameSameLocals1StackExtended: "same_locals_1_stack_item_extended",
	FrameChop:                     "chop",
	FrameSameExtended:             "same_extended",
	FrameAppend:                   "append",
	FrameFull:                     "full",
}

func (k FrameKind) String() string {
	if name, ok := frameKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// StackMapFrame is one decoded frame. OffsetDelta is always populated,
// computed from the tag for the compact forms. Locals holds appended
// locals for append frames and the full local set for full frames;
// Stack holds the single operand of the one-stack-item forms and the
// full operand stack of full frames.
type StackMapFrame struct {
	Kind        FrameKind
	Tag         byte
	OffsetDelta uint16
	Locals      []VerificationType
	Stack       []VerificationType
}

// ChoppedLocals returns how many trailing locals a chop frame discards.
func (f StackMapFrame) ChoppedLocals() int {
	if f.Kind != FrameChop {
		return 0
	}
	return int(frameTagChopAppendMidpoint - f.Tag)
}

// VerificationKind identifies a verification type (0 through 8).
type VerificationKind uint8

func (k VerificationKind) String() string {
	if name, ok := verificationKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// VerificationType is one verifier type tag. Class is set only for
// ItemObject; Offset (the allocation site's bytecode offset) only for
// ItemUninitialized.
type VerificationType struct {
	Kind   VerificationKind
	Class  ConstIndex
	Offset uint16
}

// Class is a fully decoded class file.
type Class struct {
	MinorVersion uint16
	MajorVersion uint16
	Constants    ConstantPool
	Flags        ClassFlags
	ThisClass    ConstIndex
	SuperClass   ConstIndex
	Interfaces   []ConstIndex
	Fields       []Field
	Methods      []Method
	Attributes   []Attribute
}

// Field is one field_info record.
type Field struct {
	Flags      FieldFlags
	Name       ConstIndex
	Descriptor ConstIndex
	Attributes []Attribute
}

// Method is one method_info record.
type Method struct {
	Flags      MethodFlags
	Name       ConstIndex
	Descriptor ConstIndex
	Attributes []Attribute
}
