package format

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/cafebabe/classfile"
)

// document is the shape shared by the JSON and YAML encoders.
type document struct {
	Version           string      `json:"version" yaml:"version"`
	MinorVersion      uint16      `json:"minorVersion" yaml:"minor_version"`
	MajorVersion      uint16      `json:"majorVersion" yaml:"major_version"`
	AccessFlags       string      `json:"accessFlags" yaml:"access_flags"`
	Access            []string    `json:"access,omitempty" yaml:"access,omitempty"`
	ThisClass         classRef    `json:"thisClass" yaml:"this_class"`
	SuperClass        *classRef   `json:"superClass,omitempty" yaml:"super_class,omitempty"`
	Interfaces        []classRef  `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	ConstantPoolCount uint16      `json:"constantPoolCount" yaml:"constant_pool_count"`
	ConstantPool      []constItem `json:"constantPool" yaml:"constant_pool"`
}

type classRef struct {
	Index uint16 `json:"index" yaml:"index"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}

type constItem struct {
	Index    uint16 `json:"index" yaml:"index"`
	Tag      string `json:"tag" yaml:"tag"`
	Value    string `json:"value" yaml:"value"`
	Resolved string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
}

func buildDocument(cf *classfile.RawClassFile) document {
	doc := document{
		Version:           cf.Version(),
		MinorVersion:      cf.MinorVersion,
		MajorVersion:      cf.MajorVersion,
		AccessFlags:       fmt.Sprintf("0x%04x", uint16(cf.AccessFlags)),
		Access:            cf.AccessFlags.Names(),
		ThisClass:         resolveClass(cf.ConstantPool, cf.ThisClass),
		ConstantPoolCount: cf.ConstantPoolCount,
		ConstantPool:      constItems(cf.ConstantPool),
	}
	if cf.SuperClass != 0 {
		super := resolveClass(cf.ConstantPool, cf.SuperClass)
		doc.SuperClass = &super
	}
	for _, idx := range cf.Interfaces {
		doc.Interfaces = append(doc.Interfaces, resolveClass(cf.ConstantPool, idx))
	}
	return doc
}

func resolveClass(cp classfile.ConstantPool, index uint16) classRef {
	name, err := cp.GetClassName(index)
	if err != nil {
		return classRef{Index: index}
	}
	return classRef{Index: index, Name: displayString(name)}
}

// constItems lists every usable slot in index order.
func constItems(cp classfile.ConstantPool) []constItem {
	items := make([]constItem, 0, cp.Addressable())
	for i, entry := range cp {
		if _, ok := entry.(*classfile.ConstantPlaceholder); ok || entry == nil {
			continue
		}
		index := uint16(i)
		value, resolved := describe(cp, index, entry)
		items = append(items, constItem{
			Index:    index,
			Tag:      entry.Tag().String(),
			Value:    value,
			Resolved: resolved,
		})
	}
	return items
}

// describe renders an entry's operands the way javap does, plus the
// resolved text for entries that refer to other slots. resolved is empty
// when the references do not resolve.
func describe(cp classfile.ConstantPool, index uint16, entry classfile.ConstantPoolEntry) (value, resolved string) {
	switch c := entry.(type) {
	case *classfile.ConstantUtf8Info:
		return displayString(c.Value), ""
	case *classfile.ConstantIntegerInfo:
		return strconv.FormatInt(int64(c.Value), 10), ""
	case *classfile.ConstantFloatInfo:
		return strconv.FormatFloat(float64(c.Value), 'g', -1, 32) + "f", ""
	case *classfile.ConstantLongInfo:
		return strconv.FormatInt(c.Value, 10) + "l", ""
	case *classfile.ConstantDoubleInfo:
		return strconv.FormatFloat(c.Value, 'g', -1, 64) + "d", ""
	case *classfile.ConstantClassInfo:
		return ref(c.NameIndex), utf8At(cp, c.NameIndex)
	case *classfile.ConstantStringInfo:
		return ref(c.StringIndex), utf8At(cp, c.StringIndex)
	case *classfile.ConstantFieldrefInfo:
		return memberRef(c.MemberRef), memberAt(cp, index)
	case *classfile.ConstantMethodrefInfo:
		return memberRef(c.MemberRef), memberAt(cp, index)
	case *classfile.ConstantInterfaceMethodrefInfo:
		return memberRef(c.MemberRef), memberAt(cp, index)
	case *classfile.ConstantNameAndTypeInfo:
		return ref(c.NameIndex) + ":" + ref(c.DescriptorIndex), natAt(cp, index)
	case *classfile.ConstantMethodHandleInfo:
		return c.ReferenceKind.String() + ":" + ref(c.ReferenceIndex), memberAt(cp, c.ReferenceIndex)
	case *classfile.ConstantMethodTypeInfo:
		return ref(c.DescriptorIndex), utf8At(cp, c.DescriptorIndex)
	case *classfile.ConstantInvokeDynamicInfo:
		value = "#" + strconv.Itoa(int(c.BootstrapMethodAttrIndex)) + ":" + ref(c.NameAndTypeIndex)
		return value, natAt(cp, c.NameAndTypeIndex)
	default:
		return "", ""
	}
}

func ref(index uint16) string { return "#" + strconv.Itoa(int(index)) }

func memberRef(m classfile.MemberRef) string {
	return ref(m.ClassIndex) + "." + ref(m.NameAndTypeIndex)
}

func utf8At(cp classfile.ConstantPool, index uint16) string {
	s, err := cp.GetUtf8(index)
	if err != nil {
		return ""
	}
	return displayString(s)
}

func natAt(cp classfile.ConstantPool, index uint16) string {
	name, desc, err := cp.GetNameAndType(index)
	if err != nil {
		return ""
	}
	return displayString(name) + ":" + displayString(desc)
}

// memberAt resolves a Fieldref, Methodref or InterfaceMethodref slot.
func memberAt(cp classfile.ConstantPool, index uint16) string {
	entry, err := cp.Entry(index)
	if err != nil {
		return ""
	}
	var m classfile.MemberRefName
	switch entry.(type) {
	case *classfile.ConstantFieldrefInfo:
		m, err = cp.GetFieldref(index)
	case *classfile.ConstantMethodrefInfo:
		m, err = cp.GetMethodref(index)
	case *classfile.ConstantInterfaceMethodrefInfo:
		m, err = cp.GetInterfaceMethodref(index)
	default:
		return ""
	}
	if err != nil {
		return ""
	}
	return displayString(m.String())
}

// displayString returns s unchanged when every rune is printable, and a
// quoted Go literal otherwise so control characters and lone surrogates
// stay visible on one line.
func displayString(s string) string {
	if !utf8.ValidString(s) {
		return strconv.Quote(s)
	}
	if strings.IndexFunc(s, func(r rune) bool { return !unicode.IsPrint(r) }) >= 0 {
		return strconv.Quote(s)
	}
	return s
}
