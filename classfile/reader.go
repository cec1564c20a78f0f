package classfile

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
)

// Reader consumes a class file front to back. All multi-byte values are
// big-endian. The first failure is latched: later reads return zero values
// and Err reports what went wrong.
type Reader struct {
	r   io.Reader
	off int64
	err error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Offset is the number of bytes consumed from the source so far.
func (r *Reader) Offset() int64 { return r.off }

func (r *Reader) Err() error { return r.err }

func (r *Reader) fill(buf []byte) bool {
	if r.err != nil {
		return false
	}
	start := r.off
	n, err := io.ReadFull(r.r, buf)
	r.off += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
			errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
			r.err = &TruncatedInputError{Offset: start, Want: len(buf), Got: n}
		} else {
			r.err = err
		}
		return false
	}
	return true
}

func (r *Reader) ReadU1() uint8 {
	var buf [1]byte
	if !r.fill(buf[:]) {
		return 0
	}
	return buf[0]
}

func (r *Reader) ReadU2() uint16 {
	var buf [2]byte
	if !r.fill(buf[:]) {
		return 0
	}
	return binary.BigEndian.Uint16(buf[:])
}

func (r *Reader) ReadU4() uint32 {
	var buf [4]byte
	if !r.fill(buf[:]) {
		return 0
	}
	return binary.BigEndian.Uint32(buf[:])
}

func (r *Reader) ReadU8() uint64 {
	var buf [8]byte
	if !r.fill(buf[:]) {
		return 0
	}
	return binary.BigEndian.Uint64(buf[:])
}

func (r *Reader) ReadI32() int32 { return int32(r.ReadU4()) }

func (r *Reader) ReadI64() int64 { return int64(r.ReadU8()) }

func (r *Reader) ReadF32() float32 { return math.Float32frombits(r.ReadU4()) }

func (r *Reader) ReadF64() float64 { return math.Float64frombits(r.ReadU8()) }

// ReadBytes returns the next n bytes, or nil once the reader has failed.
func (r *Reader) ReadBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if !r.fill(buf) {
		return nil
	}
	return buf
}
