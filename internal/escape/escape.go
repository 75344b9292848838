// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package escape handles escape sequences in JSON string text.
//
// The resolution side works in place: Resolve compacts a byte span so that
// each escape sequence is replaced by its decoded form without allocating.
// The production side appends a quoted rendering to a caller-owned buffer.
package escape

import "go4.org/mem"

// A Handler decodes a single escape sequence. It is called with src
// positioned at an escape byte and dst at the next unwritten output
// position, and reports how many source bytes it consumed and how many
// output bytes it wrote. A handler must not write more bytes than it
// consumes, so that resolution can proceed in place, and must consume at
// least one byte. The src and dst slices may alias the same array.
type Handler func(src, dst []byte) (nsrc, ndst int)

// Resolve rewrites span in place, replacing each occurrence of the escape
// byte esc and its sequel with whatever h produces for it, and returns the
// new length of the span. Bytes outside escape sequences are preserved.
func Resolve(span []byte, esc byte, h Handler) int {
	var r, w int
	for r < len(span) {
		if span[r] == esc {
			nsrc, ndst := h(span[r:], span[w:])
			r += nsrc
			w += ndst
			continue
		}
		span[w] = span[r]
		r++
		w++
	}
	return w
}

// JSON is a Handler for the standard JSON escape sequences. The two-byte
// sequences \" \\ \/ \b \f \n \r \t decode to their single-byte values.
//
// Unicode escapes (\uXXXX) are not decoded: the backslash and the "u" pass
// through unchanged, leaving the sequence in its source form. Unrecognized
// escapes likewise pass through rather than failing.
func JSON(src, dst []byte) (nsrc, ndst int) {
	if len(src) < 2 {
		// A bare escape byte at the end of the span.
		dst[0] = src[0]
		return 1, 1
	}
	switch c := src[1]; c {
	case '"', '\\', '/':
		dst[0] = c
	case 'b':
		dst[0] = '\b'
	case 'f':
		dst[0] = '\f'
	case 'n':
		dst[0] = '\n'
	case 'r':
		dst[0] = '\r'
	case 't':
		dst[0] = '\t'
	default:
		dst[0] = src[0]
		dst[1] = c
		return 2, 2
	}
	return 2, 1
}

// AppendQuoted appends the JSON quoted form of src to buf and returns the
// extended slice. Only backslash and double-quote bytes are escaped; all
// other bytes, including control characters, are copied through verbatim.
// This is narrower than RFC 8259 requires and assumes the caller supplies
// sanitized text.
func AppendQuoted(buf []byte, src mem.RO) []byte {
	buf = append(buf, '"')
	for i := 0; i < src.Len(); i++ {
		b := src.At(i)
		if b == '\\' || b == '"' {
			buf = append(buf, '\\')
		}
		buf = append(buf, b)
	}
	return append(buf, '"')
}
