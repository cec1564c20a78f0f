package classfile

import "unicode/utf8"

const (
	surrogateMin  = 0xD800
	surrogateMax  = 0xDFFF
	highSurrogate = 0xDBFF
)

// DecodeModifiedUTF8 decodes the text encoding used by CONSTANT_Utf8
// entries. U+0000 only appears as C0 80, and supplementary characters only
// as a six-byte surrogate pair. A surrogate that is not part of a pair is
// kept as its three-byte form, so the returned string may hold bytes that
// are not valid UTF-8 but re-encode to the exact input.
func DecodeModifiedUTF8(b []byte) (string, error) {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		b0 := b[i]
		switch {
		case b0 >= 0x01 && b0 <= 0x7F:
			out = append(out, b0)
			i++

		case b0&0xE0 == 0xC0:
			if i+1 >= len(b) {
				return "", &ModifiedUTF8Error{Offset: i, Truncated: true}
			}
			b1 := b[i+1]
			if b1&0xC0 != 0x80 {
				return "", &ModifiedUTF8Error{Offset: i + 1}
			}
			cp := rune(b0&0x1F)<<6 | rune(b1&0x3F)
			if cp != 0 && cp < 0x80 {
				return "", &ModifiedUTF8Error{Offset: i}
			}
			out = utf8.AppendRune(out, cp)
			i += 2

		case b0&0xF0 == 0xE0:
			if i+2 >= len(b) {
				return "", &ModifiedUTF8Error{Offset: i, Truncated: true}
			}
			b1, b2 := b[i+1], b[i+2]
			if b1&0xC0 != 0x80 {
				return "", &ModifiedUTF8Error{Offset: i + 1}
			}
			if b2&0xC0 != 0x80 {
				return "", &ModifiedUTF8Error{Offset: i + 2}
			}
			cp := rune(b0&0x0F)<<12 | rune(b1&0x3F)<<6 | rune(b2&0x3F)
			if cp < 0x800 {
				return "", &ModifiedUTF8Error{Offset: i}
			}
			if cp >= surrogateMin && cp <= highSurrogate && isLowSurrogateAt(b, i+3) {
				b4, b5 := b[i+4], b[i+5]
				cp = 0x10000 + (rune(b1&0x0F)<<16 | rune(b2&0x3F)<<10 | rune(b4&0x0F)<<6 | rune(b5&0x3F))
				out = utf8.AppendRune(out, cp)
				i += 6
				continue
			}
			out = appendCodePoint(out, cp)
			i += 3

		default:
			return "", &ModifiedUTF8Error{Offset: i}
		}
	}
	return string(out), nil
}

// isLowSurrogateAt reports whether b[i:i+3] is a complete three-byte
// encoding of a low surrogate.
func isLowSurrogateAt(b []byte, i int) bool {
	if i+2 >= len(b) {
		return false
	}
	return b[i] == 0xED && b[i+1]&0xF0 == 0xB0 && b[i+2]&0xC0 == 0x80
}

// appendCodePoint is utf8.AppendRune except that surrogates are written in
// their three-byte form instead of as U+FFFD.
func appendCodePoint(out []byte, cp rune) []byte {
	if cp >= surrogateMin && cp <= surrogateMax {
		return append(out, 0xE0|byte(cp>>12), 0x80|byte(cp>>6)&0x3F, 0x80|byte(cp)&0x3F)
	}
	return utf8.AppendRune(out, cp)
}

// EncodeModifiedUTF8 is the inverse of DecodeModifiedUTF8. A byte of s
// that is neither valid UTF-8 nor part of a three-byte surrogate is
// written as the code point of the same value, so 0xFF becomes C3 BF.
// Strings returned by DecodeModifiedUTF8 never contain such bytes;
// AppendConstant rejects them.
func EncodeModifiedUTF8(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		cp, size := utf8.DecodeRuneInString(s[i:])
		if cp == utf8.RuneError && size == 1 {
			if sur, ok := surrogateAt(s, i); ok {
				cp, size = sur, 3
			} else {
				// Not representable; emit the raw byte as its own code point.
				cp = rune(s[i])
			}
		}
		out = appendModifiedRune(out, cp)
		i += size
	}
	return out
}

// unencodableAt returns the offset of the first byte of s that
// EncodeModifiedUTF8 cannot reproduce, or -1.
func unencodableAt(s string) int {
	for i := 0; i < len(s); {
		cp, size := utf8.DecodeRuneInString(s[i:])
		if cp == utf8.RuneError && size == 1 {
			if _, ok := surrogateAt(s, i); !ok {
				return i
			}
			size = 3
		}
		i += size
	}
	return -1
}

func surrogateAt(s string, i int) (rune, bool) {
	if i+2 >= len(s) || s[i] != 0xED || s[i+1]&0xE0 != 0xA0 || s[i+2]&0xC0 != 0x80 {
		return 0, false
	}
	return rune(s[i]&0x0F)<<12 | rune(s[i+1]&0x3F)<<6 | rune(s[i+2]&0x3F), true
}

func appendModifiedRune(out []byte, cp rune) []byte {
	switch {
	case cp >= 0x01 && cp <= 0x7F:
		return append(out, byte(cp))
	case cp <= 0x7FF:
		return append(out, 0xC0|byte(cp>>6)&0x1F, 0x80|byte(cp)&0x3F)
	case cp <= 0xFFFF:
		return append(out, 0xE0|byte(cp>>12)&0x0F, 0x80|byte(cp>>6)&0x3F, 0x80|byte(cp)&0x3F)
	default:
		v := cp - 0x10000
		hi := rune(0xD800) + v>>10
		lo := rune(0xDC00) + v&0x3FF
		out = appendModifiedRune(out, hi)
		return appendModifiedRune(out, lo)
	}
}
