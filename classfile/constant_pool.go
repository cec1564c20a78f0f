package classfile

import "fmt"

// ConstantPoolEntry is one slot of the constant pool. The set of
// implementations is closed: only the types in this file satisfy it.
type ConstantPoolEntry interface {
	Tag() ConstantTag
	constant()
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }
func (c *ConstantUtf8Info) constant()        {}

type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }
func (c *ConstantIntegerInfo) constant()        {}

type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }
func (c *ConstantFloatInfo) constant()        {}

type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }
func (c *ConstantLongInfo) constant()        {}

type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }
func (c *ConstantDoubleInfo) constant()        {}

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }
func (c *ConstantClassInfo) constant()        {}

type ConstantStringInfo struct {
	StringIndex uint16
}

func (c *ConstantStringInfo) Tag() ConstantTag { return ConstantString }
func (c *ConstantStringInfo) constant()        {}

// MemberRef is the payload shared by field, method and interface method
// references.
type MemberRef struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

type ConstantFieldrefInfo struct {
	MemberRef
}

func (c *ConstantFieldrefInfo) Tag() ConstantTag { return ConstantFieldref }
func (c *ConstantFieldrefInfo) constant()        {}

type ConstantMethodrefInfo struct {
	MemberRef
}

func (c *ConstantMethodrefInfo) Tag() ConstantTag { return ConstantMethodref }
func (c *ConstantMethodrefInfo) constant()        {}

type ConstantInterfaceMethodrefInfo struct {
	MemberRef
}

func (c *ConstantInterfaceMethodrefInfo) Tag() ConstantTag { return ConstantInterfaceMethodref }
func (c *ConstantInterfaceMethodrefInfo) constant()        {}

type ConstantNameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstantNameAndTypeInfo) Tag() ConstantTag { return ConstantNameAndType }
func (c *ConstantNameAndTypeInfo) constant()        {}

type ConstantMethodHandleInfo struct {
	ReferenceKind  MethodHandleKind
	ReferenceIndex uint16
}

func (c *ConstantMethodHandleInfo) Tag() ConstantTag { return ConstantMethodHandle }
func (c *ConstantMethodHandleInfo) constant()        {}

type ConstantMethodTypeInfo struct {
	DescriptorIndex uint16
}

func (c *ConstantMethodTypeInfo) Tag() ConstantTag { return ConstantMethodType }
func (c *ConstantMethodTypeInfo) constant()        {}

type ConstantInvokeDynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantInvokeDynamicInfo) Tag() ConstantTag { return ConstantInvokeDynamic }
func (c *ConstantInvokeDynamicInfo) constant()        {}

// ConstantPlaceholder fills index 0 and the slot following a Long or
// Double. It never resolves to a usable constant.
type ConstantPlaceholder struct{}

func (c *ConstantPlaceholder) Tag() ConstantTag { return TagPlaceholder }
func (c *ConstantPlaceholder) constant()        {}

var placeholder = &ConstantPlaceholder{}

// ConstantPool is indexed exactly like the class file: pool[0] is a
// placeholder and len(pool) equals the declared constant_pool_count.
type ConstantPool []ConstantPoolEntry

func (cp ConstantPool) Len() int { return len(cp) }

// Entry resolves index to a usable constant. Index 0, indices past the end
// and the second slot of a Long or Double are all rejected.
func (cp ConstantPool) Entry(index uint16) (ConstantPoolEntry, error) {
	if index == 0 {
		return nil, &InvalidIndexError{Index: index, Reason: "index 0 is never used"}
	}
	if int(index) >= len(cp) {
		return nil, &InvalidIndexError{Index: index, Reason: fmt.Sprintf("out of range (pool has %d slots)", len(cp))}
	}
	entry := cp[index]
	if _, ok := entry.(*ConstantPlaceholder); ok || entry == nil {
		return nil, &InvalidIndexError{Index: index, Reason: "second slot of a long or double constant"}
	}
	return entry, nil
}

// WideCount is the number of Long and Double constants in the pool.
func (cp ConstantPool) WideCount() int {
	n := 0
	for _, e := range cp {
		if e == nil {
			continue
		}
		if e.Tag().Slots() == 2 {
			n++
		}
	}
	return n
}

// Addressable is the number of indices that resolve to a constant.
func (cp ConstantPool) Addressable() int {
	n := 0
	for i := 1; i < len(cp); i++ {
		if _, ok := cp[i].(*ConstantPlaceholder); !ok && cp[i] != nil {
			n++
		}
	}
	return n
}

func (cp ConstantPool) lookup(index uint16, want ...ConstantTag) (ConstantPoolEntry, error) {
	entry, err := cp.Entry(index)
	if err != nil {
		return nil, err
	}
	for _, t := range want {
		if entry.Tag() == t {
			return entry, nil
		}
	}
	return nil, &KindMismatchError{Index: index, Want: want, Got: entry.Tag()}
}

func (cp ConstantPool) GetUtf8(index uint16) (string, error) {
	entry, err := cp.lookup(index, ConstantUtf8)
	if err != nil {
		return "", err
	}
	return entry.(*ConstantUtf8Info).Value, nil
}

func (cp ConstantPool) GetInteger(index uint16) (int32, error) {
	entry, err := cp.lookup(index, ConstantInteger)
	if err != nil {
		return 0, err
	}
	return entry.(*ConstantIntegerInfo).Value, nil
}

func (cp ConstantPool) GetFloat(index uint16) (float32, error) {
	entry, err := cp.lookup(index, ConstantFloat)
	if err != nil {
		return 0, err
	}
	return entry.(*ConstantFloatInfo).Value, nil
}

func (cp ConstantPool) GetLong(index uint16) (int64, error) {
	entry, err := cp.lookup(index, ConstantLong)
	if err != nil {
		return 0, err
	}
	return entry.(*ConstantLongInfo).Value, nil
}

func (cp ConstantPool) GetDouble(index uint16) (float64, error) {
	entry, err := cp.lookup(index, ConstantDouble)
	if err != nil {
		return 0, err
	}
	return entry.(*ConstantDoubleInfo).Value, nil
}

func (cp ConstantPool) GetClass(index uint16) (*ConstantClassInfo, error) {
	entry, err := cp.lookup(index, ConstantClass)
	if err != nil {
		return nil, err
	}
	return entry.(*ConstantClassInfo), nil
}

// GetClassName resolves a Class entry to its internal name, e.g.
// "java/lang/Object".
func (cp ConstantPool) GetClassName(index uint16) (string, error) {
	class, err := cp.GetClass(index)
	if err != nil {
		return "", err
	}
	return cp.GetUtf8(class.NameIndex)
}

func (cp ConstantPool) GetString(index uint16) (string, error) {
	entry, err := cp.lookup(index, ConstantString)
	if err != nil {
		return "", err
	}
	return cp.GetUtf8(entry.(*ConstantStringInfo).StringIndex)
}

func (cp ConstantPool) GetNameAndType(index uint16) (name, descriptor string, err error) {
	entry, err := cp.lookup(index, ConstantNameAndType)
	if err != nil {
		return "", "", err
	}
	nat := entry.(*ConstantNameAndTypeInfo)
	if name, err = cp.GetUtf8(nat.NameIndex); err != nil {
		return "", "", err
	}
	if descriptor, err = cp.GetUtf8(nat.DescriptorIndex); err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}

// MemberRefName is a fully resolved field or method reference.
type MemberRefName struct {
	Class      string
	Name       string
	Descriptor string
}

func (m MemberRefName) String() string {
	return m.Class + "." + m.Name + ":" + m.Descriptor
}

func (cp ConstantPool) resolveMemberRef(ref MemberRef) (MemberRefName, error) {
	class, err := cp.GetClassName(ref.ClassIndex)
	if err != nil {
		return MemberRefName{}, err
	}
	name, desc, err := cp.GetNameAndType(ref.NameAndTypeIndex)
	if err != nil {
		return MemberRefName{}, err
	}
	return MemberRefName{Class: class, Name: name, Descriptor: desc}, nil
}

func (cp ConstantPool) GetFieldref(index uint16) (MemberRefName, error) {
	entry, err := cp.lookup(index, ConstantFieldref)
	if err != nil {
		return MemberRefName{}, err
	}
	return cp.resolveMemberRef(entry.(*ConstantFieldrefInfo).MemberRef)
}

func (cp ConstantPool) GetMethodref(index uint16) (MemberRefName, error) {
	entry, err := cp.lookup(index, ConstantMethodref)
	if err != nil {
		return MemberRefName{}, err
	}
	return cp.resolveMemberRef(entry.(*ConstantMethodrefInfo).MemberRef)
}

func (cp ConstantPool) GetInterfaceMethodref(index uint16) (MemberRefName, error) {
	entry, err := cp.lookup(index, ConstantInterfaceMethodref)
	if err != nil {
		return MemberRefName{}, err
	}
	return cp.resolveMemberRef(entry.(*ConstantInterfaceMethodrefInfo).MemberRef)
}

func (cp ConstantPool) GetMethodHandle(index uint16) (*ConstantMethodHandleInfo, error) {
	entry, err := cp.lookup(index, ConstantMethodHandle)
	if err != nil {
		return nil, err
	}
	return entry.(*ConstantMethodHandleInfo), nil
}

// GetMethodType resolves a MethodType entry to its descriptor string.
func (cp ConstantPool) GetMethodType(index uint16) (string, error) {
	entry, err := cp.lookup(index, ConstantMethodType)
	if err != nil {
		return "", err
	}
	return cp.GetUtf8(entry.(*ConstantMethodTypeInfo).DescriptorIndex)
}

func (cp ConstantPool) GetInvokeDynamic(index uint16) (*ConstantInvokeDynamicInfo, error) {
	entry, err := cp.lookup(index, ConstantInvokeDynamic)
	if err != nil {
		return nil, err
	}
	return entry.(*ConstantInvokeDynamicInfo), nil
}
