package classfile

import (
	"fmt"
	"strings"
)

const (
	Magic = 0xCAFEBABE
)

// AccessFlags is the raw access_flags bitmask. Only storage and naming
// live here; what a combination of flags means is up to the consumer.
type AccessFlags uint16

const (
	AccPublic     AccessFlags = 0x0001
	AccPrivate    AccessFlags = 0x0002
	AccProtected  AccessFlags = 0x0004
	AccStatic     AccessFlags = 0x0008
	AccFinal      AccessFlags = 0x0010
	AccSuper      AccessFlags = 0x0020
	AccVolatile   AccessFlags = 0x0040
	AccTransient  AccessFlags = 0x0080
	AccNative     AccessFlags = 0x0100
	AccInterface  AccessFlags = 0x0200
	AccAbstract   AccessFlags = 0x0400
	AccStrict     AccessFlags = 0x0800
	AccSynthetic  AccessFlags = 0x1000
	AccAnnotation AccessFlags = 0x2000
	AccEnum       AccessFlags = 0x4000
	AccModule     AccessFlags = 0x8000
)

var classFlagNames = []struct {
	flag AccessFlags
	name string
}{
	{AccPublic, "ACC_PUBLIC"},
	{AccPrivate, "ACC_PRIVATE"},
	{AccProtected, "ACC_PROTECTED"},
	{AccStatic, "ACC_STATIC"},
	{AccFinal, "ACC_FINAL"},
	{AccSuper, "ACC_SUPER"},
	{AccVolatile, "ACC_VOLATILE"},
	{AccTransient, "ACC_TRANSIENT"},
	{AccNative, "ACC_NATIVE"},
	{AccInterface, "ACC_INTERFACE"},
	{AccAbstract, "ACC_ABSTRACT"},
	{AccStrict, "ACC_STRICT"},
	{AccSynthetic, "ACC_SYNTHETIC"},
	{AccAnnotation, "ACC_ANNOTATION"},
	{AccEnum, "ACC_ENUM"},
	{AccModule, "ACC_MODULE"},
}

func (f AccessFlags) Has(flag AccessFlags) bool { return f&flag == flag }

// Names lists the ACC_ names of the set bits, lowest bit first, using the
// class-level meaning of each bit.
func (f AccessFlags) Names() []string {
	var names []string
	for _, fn := range classFlagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

func (f AccessFlags) String() string {
	return fmt.Sprintf("0x%04x(%s)", uint16(f), strings.Join(f.Names(), ", "))
}

type ConstantTag uint8

const (
	ConstantUtf8               ConstantTag = 1
	ConstantInteger            ConstantTag = 3
	ConstantFloat              ConstantTag = 4
	ConstantLong               ConstantTag = 5
	ConstantDouble             ConstantTag = 6
	ConstantClass              ConstantTag = 7
	ConstantString             ConstantTag = 8
	ConstantFieldref           ConstantTag = 9
	ConstantMethodref          ConstantTag = 10
	ConstantInterfaceMethodref ConstantTag = 11
	ConstantNameAndType        ConstantTag = 12
	ConstantMethodHandle       ConstantTag = 15
	ConstantMethodType         ConstantTag = 16
	ConstantInvokeDynamic      ConstantTag = 18

	// TagPlaceholder is not a class-file tag. It marks index 0 and the
	// slot after a Long or Double.
	TagPlaceholder ConstantTag = 0
)

// KnownTags lists every tag the decoder accepts, in tag order.
var KnownTags = []ConstantTag{
	ConstantUtf8,
	ConstantInteger,
	ConstantFloat,
	ConstantLong,
	ConstantDouble,
	ConstantClass,
	ConstantString,
	ConstantFieldref,
	ConstantMethodref,
	ConstantInterfaceMethodref,
	ConstantNameAndType,
	ConstantMethodHandle,
	ConstantMethodType,
	ConstantInvokeDynamic,
}

func (t ConstantTag) String() string {
	switch t {
	case ConstantUtf8:
		return "Utf8"
	case ConstantInteger:
		return "Integer"
	case ConstantFloat:
		return "Float"
	case ConstantLong:
		return "Long"
	case ConstantDouble:
		return "Double"
	case ConstantClass:
		return "Class"
	case ConstantString:
		return "String"
	case ConstantFieldref:
		return "Fieldref"
	case ConstantMethodref:
		return "Methodref"
	case ConstantInterfaceMethodref:
		return "InterfaceMethodref"
	case ConstantNameAndType:
		return "NameAndType"
	case ConstantMethodHandle:
		return "MethodHandle"
	case ConstantMethodType:
		return "MethodType"
	case ConstantInvokeDynamic:
		return "InvokeDynamic"
	case TagPlaceholder:
		return "Placeholder"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// Slots is the number of pool indices an entry with this tag occupies.
func (t ConstantTag) Slots() int {
	if t == ConstantLong || t == ConstantDouble {
		return 2
	}
	return 1
}

type MethodHandleKind uint8

const (
	RefGetField         MethodHandleKind = 1
	RefGetStatic        MethodHandleKind = 2
	RefPutField         MethodHandleKind = 3
	RefPutStatic        MethodHandleKind = 4
	RefInvokeVirtual    MethodHandleKind = 5
	RefInvokeStatic     MethodHandleKind = 6
	RefInvokeSpecial    MethodHandleKind = 7
	RefNewInvokeSpecial MethodHandleKind = 8
	RefInvokeInterface  MethodHandleKind = 9
)

func (k MethodHandleKind) Valid() bool { return k >= RefGetField && k <= RefInvokeInterface }

func (k MethodHandleKind) String() string {
	switch k {
	case RefGetField:
		return "REF_getField"
	case RefGetStatic:
		return "REF_getStatic"
	case RefPutField:
		return "REF_putField"
	case RefPutStatic:
		return "REF_putStatic"
	case RefInvokeVirtual:
		return "REF_invokeVirtual"
	case RefInvokeStatic:
		return "REF_invokeStatic"
	case RefInvokeSpecial:
		return "REF_invokeSpecial"
	case RefNewInvokeSpecial:
		return "REF_newInvokeSpecial"
	case RefInvokeInterface:
		return "REF_invokeInterface"
	default:
		return fmt.Sprintf("REF_unknown(%d)", uint8(k))
	}
}
