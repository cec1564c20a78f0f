package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samplePool models:
//
//	#1 Utf8 demo/Point
//	#2 Class #1
//	#3 Utf8 x
//	#4 Utf8 I
//	#5 NameAndType #3:#4
//	#6 Fieldref #2.#5
//	#7 Long 42 (#8 unusable)
//	#9 Utf8 (I)V
//	#10 NameAndType #3:#9
//	#11 Methodref #2.#10
//	#12 InterfaceMethodref #2.#10
//	#13 MethodHandle REF_invokeVirtual #11
//	#14 MethodType #9
//	#15 InvokeDynamic 0:#10
//	#16 Integer -7
//	#17 Float 2.5
//	#18 Double 1e300 (#19 unusable)
//	#20 String #3
func samplePool() ConstantPool {
	return ConstantPool{
		placeholder,
		&ConstantUtf8Info{Value: "demo/Point"},
		&ConstantClassInfo{NameIndex: 1},
		&ConstantUtf8Info{Value: "x"},
		&ConstantUtf8Info{Value: "I"},
		&ConstantNameAndTypeInfo{NameIndex: 3, DescriptorIndex: 4},
		&ConstantFieldrefInfo{MemberRef{ClassIndex: 2, NameAndTypeIndex: 5}},
		&ConstantLongInfo{Value: 42},
		placeholder,
		&ConstantUtf8Info{Value: "(I)V"},
		&ConstantNameAndTypeInfo{NameIndex: 3, DescriptorIndex: 9},
		&ConstantMethodrefInfo{MemberRef{ClassIndex: 2, NameAndTypeIndex: 10}},
		&ConstantInterfaceMethodrefInfo{MemberRef{ClassIndex: 2, NameAndTypeIndex: 10}},
		&ConstantMethodHandleInfo{ReferenceKind: RefInvokeVirtual, ReferenceIndex: 11},
		&ConstantMethodTypeInfo{DescriptorIndex: 9},
		&ConstantInvokeDynamicInfo{BootstrapMethodAttrIndex: 0, NameAndTypeIndex: 10},
		&ConstantIntegerInfo{Value: -7},
		&ConstantFloatInfo{Value: 2.5},
		&ConstantDoubleInfo{Value: 1e300},
		placeholder,
		&ConstantStringInfo{StringIndex: 3},
	}
}

func TestConstantPoolEntry(t *testing.T) {
	cp := samplePool()

	tests := []struct {
		name  string
		index uint16
		ok    bool
	}{
		{"zero", 0, false},
		{"first", 1, true},
		{"long", 7, true},
		{"after long", 8, false},
		{"double", 18, true},
		{"after double", 19, false},
		{"last", 20, true},
		{"one past end", 21, false},
		{"far past end", 65535, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := cp.Entry(tt.index)
			if tt.ok {
				require.NoError(t, err)
				assert.NotNil(t, entry)
				return
			}
			assert.Nil(t, entry)
			require.ErrorIs(t, err, ErrInvalidIndex)
			var invalid *InvalidIndexError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.index, invalid.Index)
		})
	}
}

func TestConstantPoolCounts(t *testing.T) {
	cp := samplePool()
	assert.Equal(t, 21, cp.Len())
	assert.Equal(t, 2, cp.WideCount())
	assert.Equal(t, cp.Len()-1-cp.WideCount(), cp.Addressable())
}

func TestConstantPoolGetters(t *testing.T) {
	cp := samplePool()

	name, err := cp.GetClassName(2)
	require.NoError(t, err)
	assert.Equal(t, "demo/Point", name)

	n, d, err := cp.GetNameAndType(5)
	require.NoError(t, err)
	assert.Equal(t, "x", n)
	assert.Equal(t, "I", d)

	field, err := cp.GetFieldref(6)
	require.NoError(t, err)
	assert.Equal(t, "demo/Point.x:I", field.String())

	method, err := cp.GetMethodref(11)
	require.NoError(t, err)
	assert.Equal(t, MemberRefName{Class: "demo/Point", Name: "x", Descriptor: "(I)V"}, method)

	imethod, err := cp.GetInterfaceMethodref(12)
	require.NoError(t, err)
	assert.Equal(t, method, imethod)

	mh, err := cp.GetMethodHandle(13)
	require.NoError(t, err)
	assert.Equal(t, RefInvokeVirtual, mh.ReferenceKind)

	mt, err := cp.GetMethodType(14)
	require.NoError(t, err)
	assert.Equal(t, "(I)V", mt)

	indy, err := cp.GetInvokeDynamic(15)
	require.NoError(t, err)
	assert.Equal(t, uint16(10), indy.NameAndTypeIndex)

	i, err := cp.GetInteger(16)
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i)

	f, err := cp.GetFloat(17)
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), f)

	l, err := cp.GetLong(7)
	require.NoError(t, err)
	assert.Equal(t, int64(42), l)

	dd, err := cp.GetDouble(18)
	require.NoError(t, err)
	assert.Equal(t, 1e300, dd)

	s, err := cp.GetString(20)
	require.NoError(t, err)
	assert.Equal(t, "x", s)
}

func TestConstantPoolKindMismatch(t *testing.T) {
	cp := samplePool()

	_, err := cp.GetUtf8(2)
	require.ErrorIs(t, err, ErrKindMismatch)
	var mismatch *KindMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, ConstantClass, mismatch.Got)
	assert.Equal(t, []ConstantTag{ConstantUtf8}, mismatch.Want)
	assert.Contains(t, err.Error(), "Class")

	_, err = cp.GetClassName(1)
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = cp.GetFieldref(11)
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestConstantPoolGettersRejectUnusableSlots(t *testing.T) {
	cp := samplePool()

	_, err := cp.GetLong(8)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = cp.GetDouble(19)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = cp.GetUtf8(0)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestConstantTagSlots(t *testing.T) {
	for _, tag := range KnownTags {
		want := 1
		if tag == ConstantLong || tag == ConstantDouble {
			want = 2
		}
		assert.Equal(t, want, tag.Slots(), tag.String())
		assert.NotContains(t, tag.String(), "Tag(")
	}
	assert.Equal(t, "Tag(99)", ConstantTag(99).String())
}

func TestMethodHandleKind(t *testing.T) {
	for k := MethodHandleKind(1); k <= 9; k++ {
		assert.True(t, k.Valid())
		assert.NotContains(t, k.String(), "unknown")
	}
	assert.False(t, MethodHandleKind(0).Valid())
	assert.False(t, MethodHandleKind(10).Valid())
}

func TestAccessFlagsNames(t *testing.T) {
	flags := AccPublic | AccFinal | AccSuper
	assert.Equal(t, []string{"ACC_PUBLIC", "ACC_FINAL", "ACC_SUPER"}, flags.Names())
	assert.Equal(t, "0x0031(ACC_PUBLIC, ACC_FINAL, ACC_SUPER)", flags.String())
	assert.Empty(t, AccessFlags(0).Names())
}
