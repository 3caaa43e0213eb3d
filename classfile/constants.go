package classfile

import "strings"

// Class file magic number.
const (
	// Magic is the class-file magic number, always the first four bytes.
	Magic uint32 = 0xCAFEBABE
)

// Constant pool tags define the binary identifiers for each constant
// kind. Tags 12 (NameAndType) and 17 (Dynamic) exist in the data model
// but are not decoded from the wire; see DecodeConstant.
const (
	TagUtf8               byte = 1  // Length-prefixed UTF-8 text
	TagInteger            byte = 3  // 32-bit integer
	TagFloat              byte = 4  // 32-bit IEEE-754 float (raw bits)
	TagLong               byte = 5  // 64-bit integer (occupies two pool slots)
	TagDouble             byte = 6  // 64-bit IEEE-754 float (occupies two pool slots)
	TagClassRef           byte = 7  // Class reference (name index)
	TagStringRef          byte = 8  // String literal (Utf8 index)
	TagFieldRef           byte = 9  // Field reference (class + name-and-type)
	TagMethodRef          byte = 10 // Method reference (class + name-and-type)
	TagInterfaceMethodRef byte = 11 // Interface method reference
	TagNameAndType        byte = 12 // Name-and-descriptor pair (model only)
	TagMethodHandle       byte = 15 // Method handle (kind + reference index)
	TagMethodType         byte = 16 // Method type (descriptor index)
	TagInvokeDynamic      byte = 18 // invokedynamic call site descriptor
)

// HandleKind identifies the reference kind of a MethodHandle constant.
// Valid kinds are 1 through 9.
type HandleKind uint8

const (
	HandleGetField         HandleKind = 1
	HandleGetStatic        HandleKind = 2
	HandlePutField         HandleKind = 3
	HandlePutStatic        HandleKind = 4
	HandleInvokeVirtual    HandleKind = 5
	HandleInvokeStatic     HandleKind = 6
	HandleInvokeSpecial    HandleKind = 7
	HandleNewInvokeSpecial HandleKind = 8
	HandleInvokeInterface  HandleKind = 9
)

var handleKindNames = map[HandleKind]string{
	HandleGetField:         "getField",
	HandleGetStatic:        "getStatic",
	HandlePutField:         "putField",
	HandlePutStatic:        "putStatic",
	HandleInvokeVirtual:    "invokeVirtual",
	HandleInvokeStatic:     "invokeStatic",
	HandleInvokeSpecial:    "invokeSpecial",
	HandleNewInvokeSpecial: "newInvokeSpecial",
	HandleInvokeInterface:  "invokeInterface",
}

func (k HandleKind) String() string {
	if name, ok := handleKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Attribute names recognized by the decoder. Any other name is a
// distinct unknown-attribute error, not a format violation.
const (
	AttrConstantValue = "ConstantValue"
	AttrCode          = "Code"
	AttrStackMapTable = "StackMapTable"
)

// Stack-map frame tag ranges. The frame kind is selected by range, not
// by exact value; tags 128 through 246 are permanently reserved.
const (
	FrameTagSameMax            byte = 63  // 0..63: same_frame
	FrameTagSameLocals1Min     byte = 64  // 64..127: same_locals_1_stack_item_frame
	FrameTagSameLocals1Max     byte = 127 //
	FrameTagReservedMin        byte = 128 // 128..246: reserved
	FrameTagReservedMax        byte = 246 //
	FrameTagSameLocals1Ext     byte = 247 // same_locals_1_stack_item_frame_extended
	FrameTagChopMin            byte = 248 // 248..250: chop_frame
	FrameTagChopMax            byte = 250 //
	FrameTagSameExtended       byte = 251 // same_frame_extended
	FrameTagAppendMin          byte = 252 // 252..254: append_frame
	FrameTagAppendMax          byte = 254 //
	FrameTagFull               byte = 255 // full_frame
	frameTagChopAppendMidpoint byte = 251 // chop count = 251-tag, append count = tag-251
)

// Verification type kinds used inside stack-map frames.
const (
	ItemTop               VerificationKind = 0
	ItemInteger           VerificationKind = 1
	ItemFloat             VerificationKind = 2
	ItemDouble            VerificationKind = 3
	ItemLong              VerificationKind = 4
	ItemNull              VerificationKind = 5
	ItemUninitializedThis VerificationKind = 6
	ItemObject            VerificationKind = 7 // followed by a class index
	ItemUninitialized     VerificationKind = 8 // followed by the allocation offset
)

var verificationKindNames = map[VerificationKind]string{
	ItemTop:               "top",
	ItemInteger:           "int",
	ItemFloat:             "float",
	ItemDouble:            "double",
	ItemLong:              "long",
	ItemNull:              "null",
	ItemUninitializedThis: "uninitializedThis",
	ItemObject:            "object",
	ItemUninitialized:     "uninitialized",
}

// ClassFlags is the access_flags bitset of a class or interface.
type ClassFlags uint16

const (
	ClassPublic     ClassFlags = 0x0001
	ClassFinal      ClassFlags = 0x0010
	ClassSuper      ClassFlags = 0x0020
	ClassInterface  ClassFlags = 0x0200
	ClassAbstract   ClassFlags = 0x0400
	ClassSynthetic  ClassFlags = 0x1000
	ClassAnnotation ClassFlags = 0x2000
	ClassEnum       ClassFlags = 0x4000
)

func (f ClassFlags) String() string {
	return flagString([]flagName{
		{uint16(ClassPublic), "public"},
		{uint16(ClassFinal), "final"},
		{uint16(ClassSuper), "super"},
		{uint16(ClassInterface), "interface"},
		{uint16(ClassAbstract), "abstract"},
		{uint16(ClassSynthetic), "synthetic"},
		{uint16(ClassAnnotation), "annotation"},
		{uint16(ClassEnum), "enum"},
	}, uint16(f))
}

// FieldFlags is the access_flags bitset of a field.
type FieldFlags uint16

const (
	FieldPublic    FieldFlags = 0x0001
	FieldPrivate   FieldFlags = 0x0002
	FieldProtected FieldFlags = 0x0004
	FieldStatic    FieldFlags = 0x0008
	FieldFinal     FieldFlags = 0x0010
	FieldVolatile  FieldFlags = 0x0040
	FieldTransient FieldFlags = 0x0080
	FieldSynthetic FieldFlags = 0x1000
	FieldEnum      FieldFlags = 0x4000
)

func (f FieldFlags) String() string {
	return flagString([]flagName{
		{uint16(FieldPublic), "public"},
		{uint16(FieldPrivate), "private"},
		{uint16(FieldProtected), "protected"},
		{uint16(FieldStatic), "static"},
		{uint16(FieldFinal), "final"},
		{uint16(FieldVolatile), "volatile"},
		{uint16(FieldTransient), "transient"},
		{uint16(FieldSynthetic), "synthetic"},
		{uint16(FieldEnum), "enum"},
	}, uint16(f))
}

// MethodFlags is the access_flags bitset of a method.
type MethodFlags uint16

const (
	MethodPublic       MethodFlags = 0x0001
	MethodPrivate      MethodFlags = 0x0002
	MethodProtected    MethodFlags = 0x0004
	MethodStatic       MethodFlags = 0x0008
	MethodFinal        MethodFlags = 0x0010
	MethodSynchronized MethodFlags = 0x0020
	MethodBridge       MethodFlags = 0x0040
	MethodVarargs      MethodFlags = 0x0080
	MethodNative       MethodFlags = 0x0100
	MethodAbstract     MethodFlags = 0x0400
	MethodStrict       MethodFlags = 0x0800
	MethodSynthetic    MethodFlags = 0x1000
)

func (f MethodFlags) String() string {
	return flagString([]flagName{
		{uint16(MethodPublic), "public"},
		{uint16(MethodPrivate), "private"},
		{uint16(MethodProtected), "protected"},
		{uint16(MethodStatic), "static"},
		{uint16(MethodFinal), "final"},
		{uint16(MethodSynchronized), "synchronized"},
		{uint16(MethodBridge), "bridge"},
		{uint16(MethodVarargs), "varargs"},
		{uint16(MethodNative), "native"},
		{uint16(MethodAbstract), "abstract"},
		{uint16(MethodStrict), "strictfp"},
		{uint16(MethodSynthetic), "synthetic"},
	}, uint16(f))
}

type flagName struct {
	bit  uint16
	name string
}

func flagString(names []flagName, bits uint16) string {
	var parts []string
	for _, fn := range names {
		if bits&fn.bit != 0 {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ")
}
