package classfile

import (
	"bytes"
	"encoding/binary"
)

// classBuilder assembles class file bytes by hand so decode tests do not
// depend on the encoder under test.
type classBuilder struct {
	buf bytes.Buffer
}

func newClassBuilder() *classBuilder {
	return &classBuilder{}
}

func (b *classBuilder) u1(v uint8) *classBuilder {
	b.buf.WriteByte(v)
	return b
}

func (b *classBuilder) u2(v uint16) *classBuilder {
	_ = binary.Write(&b.buf, binary.BigEndian, v)
	return b
}

func (b *classBuilder) u4(v uint32) *classBuilder {
	_ = binary.Write(&b.buf, binary.BigEndian, v)
	return b
}

func (b *classBuilder) u8(v uint64) *classBuilder {
	_ = binary.Write(&b.buf, binary.BigEndian, v)
	return b
}

func (b *classBuilder) raw(p ...byte) *classBuilder {
	b.buf.Write(p)
	return b
}

// header writes magic, version 0.52 and the pool count.
func (b *classBuilder) header(poolCount uint16) *classBuilder {
	return b.u4(Magic).u2(0).u2(52).u2(poolCount)
}

func (b *classBuilder) utf8(s string) *classBuilder {
	return b.u1(uint8(ConstantUtf8)).u2(uint16(len(s))).raw([]byte(s)...)
}

func (b *classBuilder) class(nameIndex uint16) *classBuilder {
	return b.u1(uint8(ConstantClass)).u2(nameIndex)
}

// tail writes access flags, this, super and the interface list.
func (b *classBuilder) tail(access, this, super uint16, interfaces ...uint16) *classBuilder {
	b.u2(access).u2(this).u2(super).u2(uint16(len(interfaces)))
	for _, i := range interfaces {
		b.u2(i)
	}
	return b
}

func (b *classBuilder) bytes() []byte {
	return b.buf.Bytes()
}

// minimalClass is a pool of Utf8 "A" and Class #1, this_class 2, no super,
// no interfaces.
func minimalClass() []byte {
	return newClassBuilder().
		header(3).
		utf8("A").
		class(1).
		tail(0x0021, 2, 0).
		bytes()
}
