package classfile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBadMagic             = errors.New("bad magic")
	ErrTruncatedInput       = errors.New("truncated input")
	ErrTruncatedUTF8        = errors.New("truncated modified utf-8")
	ErrInvalidModifiedUTF8  = errors.New("invalid modified utf-8")
	ErrUnknownConstantTag   = errors.New("unknown constant pool tag")
	ErrWideConstantOverflow = errors.New("wide constant overflows constant pool")
	ErrInvalidIndex         = errors.New("invalid constant pool index")
	ErrKindMismatch         = errors.New("constant pool kind mismatch")
	ErrUtf8TooLong          = errors.New("utf8 constant too long")
	ErrUnencodableUtf8      = errors.New("utf8 constant holds bytes that have no modified utf-8 form")
)

type BadMagicError struct {
	Magic uint32
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("invalid magic number: 0x%X (expected 0x%X)", e.Magic, uint32(Magic))
}

func (e *BadMagicError) Is(target error) bool { return target == ErrBadMagic }

// TruncatedInputError reports that the source ran dry or was closed
// mid-decode. Offset is where the failing read started; Got bytes were
// consumed before the source ended.
type TruncatedInputError struct {
	Offset int64
	Want   int
	Got    int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("truncated input at offset %d: want %d bytes, got %d", e.Offset, e.Want, e.Got)
}

func (e *TruncatedInputError) Is(target error) bool { return target == ErrTruncatedInput }

// ModifiedUTF8Error carries the offset inside the Utf8 payload where
// decoding stopped.
type ModifiedUTF8Error struct {
	Offset    int
	Truncated bool
}

func (e *ModifiedUTF8Error) Error() string {
	if e.Truncated {
		return fmt.Sprintf("truncated modified utf-8 sequence at byte %d", e.Offset)
	}
	return fmt.Sprintf("invalid modified utf-8 sequence at byte %d", e.Offset)
}

func (e *ModifiedUTF8Error) Is(target error) bool {
	if e.Truncated {
		return target == ErrTruncatedUTF8
	}
	return target == ErrInvalidModifiedUTF8
}

type UnknownConstantTagError struct {
	Tag    uint8
	Index  uint16
	Offset int64
}

func (e *UnknownConstantTagError) Error() string {
	return fmt.Sprintf("unknown constant pool tag %d for entry %d at offset %d", e.Tag, e.Index, e.Offset)
}

func (e *UnknownConstantTagError) Is(target error) bool { return target == ErrUnknownConstantTag }

type WideConstantOverflowError struct {
	Tag   ConstantTag
	Index uint16
	Count uint16
}

func (e *WideConstantOverflowError) Error() string {
	return fmt.Sprintf("%s constant at entry %d needs two slots but constant pool count is %d", e.Tag, e.Index, e.Count)
}

func (e *WideConstantOverflowError) Is(target error) bool { return target == ErrWideConstantOverflow }

// ConstantError attaches the pool index and file offset of the entry whose
// payload failed to decode.
type ConstantError struct {
	Index  uint16
	Offset int64
	Err    error
}

func (e *ConstantError) Error() string {
	return fmt.Sprintf("constant pool entry %d at offset %d: %v", e.Index, e.Offset, e.Err)
}

func (e *ConstantError) Unwrap() error { return e.Err }

type InvalidIndexError struct {
	Index  uint16
	Reason string
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("invalid constant pool index %d: %s", e.Index, e.Reason)
}

func (e *InvalidIndexError) Is(target error) bool { return target == ErrInvalidIndex }

type KindMismatchError struct {
	Index uint16
	Want  []ConstantTag
	Got   ConstantTag
}

func (e *KindMismatchError) Error() string {
	want := make([]string, len(e.Want))
	for i, t := range e.Want {
		want[i] = t.String()
	}
	return fmt.Sprintf("constant pool entry %d is %s, want %s", e.Index, e.Got, strings.Join(want, " or "))
}

func (e *KindMismatchError) Is(target error) bool { return target == ErrKindMismatch }
