package classfile_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/wippyai/jvm/classfile"
	"github.com/wippyai/jvm/errors"
)

// sampleClass builds the bytes of a small but complete class file:
// a Main class extending java/lang/Object with one private int field
// and one public method with a trivial Code body.
func sampleClass() []byte {
	var b []byte
	b = append(b, 0xca, 0xfe, 0xba, 0xbe) // magic
	b = append(b, 0x00, 0x00)             // minor version
	b = append(b, 0x00, 0x34)             // major version 52 (Java 8)

	b = append(b, 0x00, 0x0a) // constant pool count: 9 slots
	b = append(b, 0x01, 0x00, 0x10)
	b = append(b, "java/lang/Object"...) // 1: Utf8
	b = append(b, 0x07, 0x00, 0x01)      // 2: ClassRef -> #1
	b = append(b, 0x01, 0x00, 0x04)
	b = append(b, "Main"...)        // 3: Utf8
	b = append(b, 0x07, 0x00, 0x03) // 4: ClassRef -> #3
	b = append(b, 0x01, 0x00, 0x04)
	b = append(b, "Code"...)                                            // 5: Utf8
	b = append(b, 0x01, 0x00, 0x01, 'x')                                // 6: Utf8
	b = append(b, 0x01, 0x00, 0x01, 'I')                                // 7: Utf8
	b = append(b, 0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2a) // 8: Long 42 (occupies 8 and 9)

	b = append(b, 0x00, 0x21) // access flags: public super
	b = append(b, 0x00, 0x04) // this class -> #4
	b = append(b, 0x00, 0x02) // super class -> #2
	b = append(b, 0x00, 0x00) // no interfaces

	b = append(b, 0x00, 0x01)             // one field
	b = append(b, 0x00, 0x02)             // private
	b = append(b, 0x00, 0x06, 0x00, 0x07) // name "x", descriptor "I"
	b = append(b, 0x00, 0x00)             // no field attributes

	b = append(b, 0x00, 0x01)             // one method
	b = append(b, 0x00, 0x01)             // public
	b = append(b, 0x00, 0x06, 0x00, 0x07) // name "x", descriptor "I"
	b = append(b, 0x00, 0x01)             // one method attribute
	b = append(b, 0x00, 0x05)             // attribute name -> "Code"
	b = append(b, 0x00, 0x00, 0x00, 0x0c) // declared length 12
	b = append(b, 0x00, 0x00, 0x00, 0x00) // max_stack, max_locals
	b = append(b, 0x00, 0x00, 0x00, 0x00) // code_length 0
	b = append(b, 0x00, 0x00)             // exception_table_length
	b = append(b, 0x00, 0x00)             // attributes_count

	b = append(b, 0x00, 0x00) // no class attributes
	return b
}

func TestDecodeClass(t *testing.T) {
	class, err := classfile.DecodeClass(sampleClass())
	if err != nil {
		t.Fatalf("DecodeClass failed: %v", err)
	}

	if class.MinorVersion != 0 || class.MajorVersion != 52 {
		t.Errorf("version = %d.%d, want 52.0", class.MajorVersion, class.MinorVersion)
	}
	if class.Flags != classfile.ClassPublic|classfile.ClassSuper {
		t.Errorf("flags = %#04x, want public super", uint16(class.Flags))
	}
	if len(class.Constants) != 9 {
		t.Fatalf("pool has %d slots, want 9", len(class.Constants))
	}

	this, err := class.Constants.ClassName(class.ThisClass)
	if err != nil {
		t.Fatalf("ClassName(this) failed: %v", err)
	}
	if this != "Main" {
		t.Errorf("this class = %q, want Main", this)
	}
	super, err := class.Constants.ClassName(class.SuperClass)
	if err != nil {
		t.Fatalf("ClassName(super) failed: %v", err)
	}
	if super != "java/lang/Object" {
		t.Errorf("super class = %q, want java/lang/Object", super)
	}

	entry, err := class.Constants.Resolve(8)
	if err != nil {
		t.Fatalf("Resolve(8) failed: %v", err)
	}
	if long, ok := entry.(classfile.ConstLong); !ok || long.Value != 42 {
		t.Errorf("Resolve(8) = %#v, want Long 42", entry)
	}
	// The Long's second slot stays unresolvable.
	_, err = class.Constants.Resolve(9)
	assertKind(t, err, errors.KindDoubleWidthSlot)

	if len(class.Fields) != 1 {
		t.Fatalf("decoded %d fields, want 1", len(class.Fields))
	}
	field := class.Fields[0]
	if field.Flags != classfile.FieldPrivate {
		t.Errorf("field flags = %#04x, want private", uint16(field.Flags))
	}
	if desc, _ := class.Constants.UTF8(field.Descriptor); desc != "I" {
		t.Errorf("field descriptor = %q, want I", desc)
	}

	if len(class.Methods) != 1 {
		t.Fatalf("decoded %d methods, want 1", len(class.Methods))
	}
	method := class.Methods[0]
	if len(method.Attributes) != 1 {
		t.Fatalf("method has %d attributes, want 1", len(method.Attributes))
	}
	code, ok := method.Attributes[0].(classfile.CodeAttr)
	if !ok {
		t.Fatalf("method attribute is %T, want CodeAttr", method.Attributes[0])
	}
	if code.Name != 5 {
		t.Errorf("Code name index = %d, want 5", code.Name)
	}
}

func TestDecodeClass_InvalidMagic(t *testing.T) {
	input := sampleClass()
	input[0] = 0xba
	_, err := classfile.DecodeClass(input)
	assertKind(t, err, errors.KindInvalidMagic)
}

func TestDecodeClass_TruncatedEverywhere(t *testing.T) {
	// Cutting the stream at any point must yield a decode error,
	// never a partial class.
	full := sampleClass()
	for cut := 0; cut < len(full); cut++ {
		if _, err := classfile.DecodeClass(full[:cut]); err == nil {
			t.Errorf("DecodeClass succeeded on %d of %d bytes", cut, len(full))
		}
	}
}

func TestDecodeClass_TrailingBytes(t *testing.T) {
	input := append(sampleClass(), 0x00)
	_, err := classfile.DecodeClass(input)
	assertKind(t, err, errors.KindLengthMismatch)
}

func TestDecodeClass_PoolOvershoot(t *testing.T) {
	// A Long in the pool's final declared slot pushes its placeholder
	// past the declared count.
	var b []byte
	b = append(b, 0xca, 0xfe, 0xba, 0xbe)
	b = append(b, 0x00, 0x00, 0x00, 0x34)
	b = append(b, 0x00, 0x02) // one declared slot
	b = append(b, 0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01)
	_, err := classfile.DecodeClass(b)
	assertKind(t, err, errors.KindLengthMismatch)
}

func TestDecodeClass_UnknownAttributeAborts(t *testing.T) {
	// Attribute name "Main" is well-formed but unrecognized; the
	// whole-class decode fails rather than skipping it.
	input := sampleClass()
	input[len(input)-2] = 0x00
	input[len(input)-1] = 0x01
	input = append(input, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00)
	_, err := classfile.DecodeClass(input)
	assertKind(t, err, errors.KindUnknownAttribute)
}

func TestDecodeClass_Idempotent(t *testing.T) {
	input := sampleClass()
	first, err := classfile.DecodeClass(input)
	if err != nil {
		t.Fatalf("first decode failed: %v", err)
	}
	second, err := classfile.DecodeClass(input)
	if err != nil {
		t.Fatalf("second decode failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated decodes disagree")
	}
}

func TestDecodeClass_Concurrent(t *testing.T) {
	input := sampleClass()
	want, err := classfile.DecodeClass(input)
	if err != nil {
		t.Fatalf("DecodeClass failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := classfile.DecodeClass(input)
			if err != nil {
				t.Errorf("DecodeClass failed: %v", err)
				return
			}
			if !reflect.DeepEqual(got, want) {
				t.Error("concurrent decode disagrees")
			}
		}()
	}
	wg.Wait()
}
