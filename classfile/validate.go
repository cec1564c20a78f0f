package classfile

import (
	"fmt"
	"strings"
)

// IndexError is one broken reference found by Validate. Where names the
// referring location, e.g. "this_class" or "#7 Methodref.class_index".
type IndexError struct {
	Where string
	Index uint16
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s -> #%d: %v", e.Where, e.Index, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

type ValidationErrors []*IndexError

func (v ValidationErrors) Error() string {
	if len(v) == 1 {
		return v[0].Error()
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d constant pool reference errors: %s", len(v), strings.Join(msgs, "; "))
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

type validator struct {
	cp   ConstantPool
	errs ValidationErrors
}

func (v *validator) fail(where string, index uint16, err error) {
	v.errs = append(v.errs, &IndexError{Where: where, Index: index, Err: err})
}

func (v *validator) expect(where string, index uint16, want ...ConstantTag) ConstantPoolEntry {
	entry, err := v.cp.lookup(index, want...)
	if err != nil {
		v.fail(where, index, err)
		return nil
	}
	return entry
}

// Validate checks every index stored in the header and the constant pool
// against the kinds the class file format requires. It runs after
// decoding, when forward references can be resolved, and returns
// ValidationErrors listing every problem, or nil.
func Validate(cf *RawClassFile) error {
	v := &validator{cp: cf.ConstantPool}

	v.expect("this_class", cf.ThisClass, ConstantClass)
	if cf.SuperClass != 0 {
		v.expect("super_class", cf.SuperClass, ConstantClass)
	}
	for i, idx := range cf.Interfaces {
		v.expect(fmt.Sprintf("interfaces[%d]", i), idx, ConstantClass)
	}

	for i := 1; i < len(cf.ConstantPool); i++ {
		v.checkEntry(uint16(i), cf.ConstantPool[i])
	}

	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

func (v *validator) checkEntry(index uint16, entry ConstantPoolEntry) {
	at := func(field string) string {
		return fmt.Sprintf("#%d %s.%s", index, entry.Tag(), field)
	}

	switch e := entry.(type) {
	case *ConstantUtf8Info, *ConstantIntegerInfo, *ConstantFloatInfo,
		*ConstantLongInfo, *ConstantDoubleInfo, *ConstantPlaceholder:
		// no references

	case *ConstantClassInfo:
		v.expect(at("name_index"), e.NameIndex, ConstantUtf8)

	case *ConstantStringInfo:
		v.expect(at("string_index"), e.StringIndex, ConstantUtf8)

	case *ConstantFieldrefInfo:
		v.checkMemberRef(at, e.MemberRef, false)

	case *ConstantMethodrefInfo:
		v.checkMemberRef(at, e.MemberRef, true)

	case *ConstantInterfaceMethodrefInfo:
		v.checkMemberRef(at, e.MemberRef, true)

	case *ConstantNameAndTypeInfo:
		v.expect(at("name_index"), e.NameIndex, ConstantUtf8)
		v.expect(at("descriptor_index"), e.DescriptorIndex, ConstantUtf8)

	case *ConstantMethodHandleInfo:
		var want []ConstantTag
		switch e.ReferenceKind {
		case RefGetField, RefGetStatic, RefPutField, RefPutStatic:
			want = []ConstantTag{ConstantFieldref}
		case RefInvokeVirtual, RefNewInvokeSpecial:
			want = []ConstantTag{ConstantMethodref}
		case RefInvokeStatic, RefInvokeSpecial:
			want = []ConstantTag{ConstantMethodref, ConstantInterfaceMethodref}
		case RefInvokeInterface:
			want = []ConstantTag{ConstantInterfaceMethodref}
		default:
			v.fail(at("reference_kind"), e.ReferenceIndex,
				fmt.Errorf("reference kind %d outside 1..9", uint8(e.ReferenceKind)))
			return
		}
		v.expect(at("reference_index"), e.ReferenceIndex, want...)

	case *ConstantMethodTypeInfo:
		if v.expect(at("descriptor_index"), e.DescriptorIndex, ConstantUtf8) != nil {
			desc, _ := v.cp.GetUtf8(e.DescriptorIndex)
			if _, err := ParseMethodDescriptor(desc); err != nil {
				v.fail(at("descriptor_index"), e.DescriptorIndex, err)
			}
		}

	case *ConstantInvokeDynamicInfo:
		v.expect(at("name_and_type_index"), e.NameAndTypeIndex, ConstantNameAndType)

	default:
		v.fail(fmt.Sprintf("#%d", index), index, fmt.Errorf("unhandled constant %T", entry))
	}
}

func (v *validator) checkMemberRef(at func(string) string, ref MemberRef, method bool) {
	v.expect(at("class_index"), ref.ClassIndex, ConstantClass)
	entry := v.expect(at("name_and_type_index"), ref.NameAndTypeIndex, ConstantNameAndType)
	if entry == nil {
		return
	}
	// A broken NameAndType is reported on its own entry.
	desc, err := v.cp.GetUtf8(entry.(*ConstantNameAndTypeInfo).DescriptorIndex)
	if err != nil {
		return
	}
	if method {
		_, err = ParseMethodDescriptor(desc)
	} else {
		_, err = ParseFieldDescriptor(desc)
	}
	if err != nil {
		v.fail(at("name_and_type_index"), ref.NameAndTypeIndex, err)
	}
}
