package classfile

import (
	"encoding/binary"
	"fmt"
	"math"
)

// AppendConstant appends the class-file encoding of e (tag byte and
// payload) to dst. Placeholders have no encoding and append nothing.
func AppendConstant(dst []byte, e ConstantPoolEntry) ([]byte, error) {
	switch e.(type) {
	case nil:
		return nil, fmt.Errorf("cannot encode nil constant")
	case *ConstantPlaceholder:
		return dst, nil
	}
	dst = append(dst, byte(e.Tag()))

	switch c := e.(type) {
	case *ConstantUtf8Info:
		if i := unencodableAt(c.Value); i >= 0 {
			return nil, fmt.Errorf("%w: byte 0x%02X at %d", ErrUnencodableUtf8, c.Value[i], i)
		}
		payload := EncodeModifiedUTF8(c.Value)
		if len(payload) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: %d bytes", ErrUtf8TooLong, len(payload))
		}
		dst = binary.BigEndian.AppendUint16(dst, uint16(len(payload)))
		return append(dst, payload...), nil
	case *ConstantIntegerInfo:
		return binary.BigEndian.AppendUint32(dst, uint32(c.Value)), nil
	case *ConstantFloatInfo:
		return binary.BigEndian.AppendUint32(dst, math.Float32bits(c.Value)), nil
	case *ConstantLongInfo:
		return binary.BigEndian.AppendUint64(dst, uint64(c.Value)), nil
	case *ConstantDoubleInfo:
		return binary.BigEndian.AppendUint64(dst, math.Float64bits(c.Value)), nil
	case *ConstantClassInfo:
		return binary.BigEndian.AppendUint16(dst, c.NameIndex), nil
	case *ConstantStringInfo:
		return binary.BigEndian.AppendUint16(dst, c.StringIndex), nil
	case *ConstantFieldrefInfo:
		return appendMemberRef(dst, c.MemberRef), nil
	case *ConstantMethodrefInfo:
		return appendMemberRef(dst, c.MemberRef), nil
	case *ConstantInterfaceMethodrefInfo:
		return appendMemberRef(dst, c.MemberRef), nil
	case *ConstantNameAndTypeInfo:
		dst = binary.BigEndian.AppendUint16(dst, c.NameIndex)
		return binary.BigEndian.AppendUint16(dst, c.DescriptorIndex), nil
	case *ConstantMethodHandleInfo:
		dst = append(dst, byte(c.ReferenceKind))
		return binary.BigEndian.AppendUint16(dst, c.ReferenceIndex), nil
	case *ConstantMethodTypeInfo:
		return binary.BigEndian.AppendUint16(dst, c.DescriptorIndex), nil
	case *ConstantInvokeDynamicInfo:
		dst = binary.BigEndian.AppendUint16(dst, c.BootstrapMethodAttrIndex)
		return binary.BigEndian.AppendUint16(dst, c.NameAndTypeIndex), nil
	default:
		return nil, fmt.Errorf("cannot encode constant %T", e)
	}
}

func appendMemberRef(dst []byte, ref MemberRef) []byte {
	dst = binary.BigEndian.AppendUint16(dst, ref.ClassIndex)
	return binary.BigEndian.AppendUint16(dst, ref.NameAndTypeIndex)
}
