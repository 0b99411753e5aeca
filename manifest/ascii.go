package manifest

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// escapeNonASCII rewrites every non-ASCII rune of encoded JSON as a
// lowercase \uXXXX escape, using surrogate pairs above the BMP. Such runes
// only occur inside string literals, so the result is equivalent JSON.
func escapeNonASCII(b []byte) []byte {
	var i int
	for i < len(b) && b[i] < utf8.RuneSelf {
		i++
	}
	if i == len(b) {
		return b
	}

	var out = make([]byte, 0, len(b)+16)
	out = append(out, b[:i]...)
	for i < len(b) {
		if b[i] < utf8.RuneSelf {
			out = append(out, b[i])
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		i += size

		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			out = fmt.Appendf(out, `\u%04x\u%04x`, r1, r2)
		} else {
			out = fmt.Appendf(out, `\u%04x`, r)
		}
	}
	return out
}
