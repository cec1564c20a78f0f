package classfile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
)

var defaultLog = commonlog.GetLogger("cafebabe.classfile")

type Option func(*decoder)

// WithLogger routes decode diagnostics to log instead of the package logger.
func WithLogger(log commonlog.Logger) Option {
	return func(d *decoder) {
		d.log = log
	}
}

// WithValidation runs Validate on the decoded file and fails the decode if
// any cross reference is broken.
func WithValidation() Option {
	return func(d *decoder) {
		d.validate = true
	}
}

type decoder struct {
	log      commonlog.Logger
	validate bool
}

func ParseFile(path string, opts ...Option) (*RawClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class file: %w", err)
	}
	defer f.Close()
	return Parse(f, opts...)
}

func ParseBytes(data []byte, opts ...Option) (*RawClassFile, error) {
	return Parse(bytes.NewReader(data), opts...)
}

// Parse decodes the header, constant pool and interface list from rd. It
// stops right after the interfaces array; fields, methods and attributes
// are left unread for a downstream decoder.
func Parse(rd io.Reader, opts ...Option) (*RawClassFile, error) {
	return newDecoder(opts).decode(NewReader(rd))
}

// ParseFrom is Parse over a Reader the caller already owns, so that the
// caller can keep reading from the same position afterwards.
func ParseFrom(r *Reader, opts ...Option) (*RawClassFile, error) {
	return newDecoder(opts).decode(r)
}

func newDecoder(opts []Option) *decoder {
	d := &decoder{log: defaultLog}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *decoder) decode(r *Reader) (*RawClassFile, error) {
	cf, err := d.decodeHeader(r)
	if err != nil {
		d.log.Debugf("decode failed at offset %d: %s", r.Offset(), err)
		return nil, err
	}
	d.log.Debugf("decoded class file version %d.%d: %d constant pool slots, %d interfaces, %d bytes",
		cf.MajorVersion, cf.MinorVersion, len(cf.ConstantPool), len(cf.Interfaces), r.Offset())

	if d.validate {
		if err := Validate(cf); err != nil {
			d.log.Debugf("validation failed: %s", err)
			return nil, err
		}
	}
	return cf, nil
}

func (d *decoder) decodeHeader(r *Reader) (*RawClassFile, error) {
	magic := r.ReadU4()
	if r.Err() != nil {
		return nil, fmt.Errorf("failed to read magic: %w", r.Err())
	}
	if magic != Magic {
		return nil, &BadMagicError{Magic: magic}
	}

	cf := &RawClassFile{
		MinorVersion: r.ReadU2(),
		MajorVersion: r.ReadU2(),
	}
	if r.Err() != nil {
		return nil, fmt.Errorf("failed to read version: %w", r.Err())
	}

	cf.ConstantPoolCount = r.ReadU2()
	if r.Err() != nil {
		return nil, fmt.Errorf("failed to read constant pool count: %w", r.Err())
	}

	pool, err := ReadConstantPool(r, cf.ConstantPoolCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read constant pool: %w", err)
	}
	cf.ConstantPool = pool

	cf.AccessFlags = AccessFlags(r.ReadU2())
	cf.ThisClass = r.ReadU2()
	cf.SuperClass = r.ReadU2()

	interfacesCount := r.ReadU2()
	if r.Err() != nil {
		return nil, fmt.Errorf("failed to read class info: %w", r.Err())
	}

	interfaces, err := ReadInterfaces(r, interfacesCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read interfaces: %w", err)
	}
	cf.Interfaces = interfaces

	return cf, nil
}

// ReadConstantPool decodes count-1 slots of constant pool entries. The
// result has length count with a placeholder at index 0 and after every
// Long or Double. A count of 0 yields just the index 0 placeholder.
func ReadConstantPool(r *Reader, count uint16) (ConstantPool, error) {
	pool := make(ConstantPool, 1, max(int(count), 1))
	pool[0] = placeholder

	for len(pool) < int(count) {
		index := uint16(len(pool))
		offset := r.Offset()
		entry, err := readConstantPoolEntry(r, index, offset)
		if err != nil {
			return nil, err
		}
		pool = append(pool, entry)
		if entry.Tag().Slots() == 2 {
			if len(pool) >= int(count) {
				return nil, &WideConstantOverflowError{Tag: entry.Tag(), Index: index, Count: count}
			}
			pool = append(pool, placeholder)
		}
	}
	return pool, nil
}

func readConstantPoolEntry(r *Reader, index uint16, offset int64) (ConstantPoolEntry, error) {
	tag := ConstantTag(r.ReadU1())
	if r.Err() != nil {
		return nil, r.Err()
	}

	switch tag {
	case ConstantUtf8:
		length := r.ReadU2()
		payload := r.ReadBytes(int(length))
		if r.Err() != nil {
			return nil, r.Err()
		}
		value, err := DecodeModifiedUTF8(payload)
		if err != nil {
			// tag (1) + length (2) precede the payload
			return nil, &ConstantError{Index: index, Offset: offset + 3, Err: err}
		}
		return &ConstantUtf8Info{Value: value}, nil

	case ConstantInteger:
		value := r.ReadI32()
		if r.Err() != nil {
			return nil, r.Err()
		}
		return &ConstantIntegerInfo{Value: value}, nil

	case ConstantFloat:
		value := r.ReadF32()
		if r.Err() != nil {
			return nil, r.Err()
		}
		return &ConstantFloatInfo{Value: value}, nil

	case ConstantLong:
		value := r.ReadI64()
		if r.Err() != nil {
			return nil, r.Err()
		}
		return &ConstantLongInfo{Value: value}, nil

	case ConstantDouble:
		value := r.ReadF64()
		if r.Err() != nil {
			return nil, r.Err()
		}
		return &ConstantDoubleInfo{Value: value}, nil

	case ConstantClass:
		nameIndex := r.ReadU2()
		if r.Err() != nil {
			return nil, r.Err()
		}
		return &ConstantClassInfo{NameIndex: nameIndex}, nil

	case ConstantString:
		stringIndex := r.ReadU2()
		if r.Err() != nil {
			return nil, r.Err()
		}
		return &ConstantStringInfo{StringIndex: stringIndex}, nil

	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref:
		ref := MemberRef{
			ClassIndex:       r.ReadU2(),
			NameAndTypeIndex: r.ReadU2(),
		}
		if r.Err() != nil {
			return nil, r.Err()
		}
		switch tag {
		case ConstantFieldref:
			return &ConstantFieldrefInfo{MemberRef: ref}, nil
		case ConstantMethodref:
			return &ConstantMethodrefInfo{MemberRef: ref}, nil
		default:
			return &ConstantInterfaceMethodrefInfo{MemberRef: ref}, nil
		}

	case ConstantNameAndType:
		nameIndex := r.ReadU2()
		descriptorIndex := r.ReadU2()
		if r.Err() != nil {
			return nil, r.Err()
		}
		return &ConstantNameAndTypeInfo{
			NameIndex:       nameIndex,
			DescriptorIndex: descriptorIndex,
		}, nil

	case ConstantMethodHandle:
		referenceKind := MethodHandleKind(r.ReadU1())
		referenceIndex := r.ReadU2()
		if r.Err() != nil {
			return nil, r.Err()
		}
		return &ConstantMethodHandleInfo{
			ReferenceKind:  referenceKind,
			ReferenceIndex: referenceIndex,
		}, nil

	case ConstantMethodType:
		descriptorIndex := r.ReadU2()
		if r.Err() != nil {
			return nil, r.Err()
		}
		return &ConstantMethodTypeInfo{DescriptorIndex: descriptorIndex}, nil

	case ConstantInvokeDynamic:
		bootstrapMethodAttrIndex := r.ReadU2()
		nameAndTypeIndex := r.ReadU2()
		if r.Err() != nil {
			return nil, r.Err()
		}
		return &ConstantInvokeDynamicInfo{
			BootstrapMethodAttrIndex: bootstrapMethodAttrIndex,
			NameAndTypeIndex:         nameAndTypeIndex,
		}, nil

	default:
		return nil, &UnknownConstantTagError{Tag: uint8(tag), Index: index, Offset: offset}
	}
}

// ReadInterfaces reads count interface indices in declaration order.
func ReadInterfaces(r *Reader, count uint16) ([]uint16, error) {
	interfaces := make([]uint16, count)
	for i := range interfaces {
		interfaces[i] = r.ReadU2()
	}
	if r.Err() != nil {
		return nil, r.Err()
	}
	return interfaces, nil
}
