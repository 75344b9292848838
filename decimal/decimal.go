// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package decimal implements a fixed-point decimal number.
//
// A Decimal records the digits of a number exactly as written, so that
// formatting a parsed value reproduces the input text: "1.50" parses to a
// value with two fractional digits and formats back to "1.50", not "1.5".
// There is no exponent notation and no floating-point rounding.
package decimal

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// A Decimal is a signed fixed-point decimal value. The zero value is 0 with
// no fractional digits.
//
// Internally a Decimal is a scaled integer: mant counts units of
// 10^-scale. The scale records how many fractional digits were written,
// including trailing zeroes.
type Decimal struct {
	mant  int64
	scale int
}

// New constructs a Decimal with the value z and no fractional digits.
func New(z int64) Decimal { return Decimal{mant: z} }

// ErrRange is reported by Parse when a value does not fit in the
// representation.
var ErrRange = errors.New("value out of range")

// Parse parses s as a decimal number. The accepted syntax is an optional
// minus sign, one or more decimal digits, and an optional fractional part
// comprising a period and one or more further digits. Exponents are not
// accepted. Parse reports ErrRange if the digits do not fit in 64 bits of
// mantissa.
func Parse(s string) (Decimal, error) {
	var d Decimal

	rest := s
	neg := false
	if len(rest) != 0 && rest[0] == '-' {
		neg = true
		rest = rest[1:]
	}
	if rest == "" {
		return d, fmt.Errorf("parse %q: missing digits", s)
	}

	var nint int
	rest, nint = parseDigits(rest, &d)
	if nint == 0 {
		return d, fmt.Errorf("parse %q: missing integer digits", s)
	} else if nint > 1 && s[b2i(neg)] == '0' {
		return d, fmt.Errorf("parse %q: extra leading zeroes", s)
	}
	if d.mant < 0 {
		return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrRange)
	}

	if len(rest) != 0 {
		if rest[0] != '.' {
			return Decimal{}, fmt.Errorf("parse %q: invalid character %q", s, rest[0])
		}
		var nfrac int
		rest, nfrac = parseDigits(rest[1:], &d)
		if nfrac == 0 {
			return Decimal{}, fmt.Errorf("parse %q: missing fraction digits", s)
		} else if len(rest) != 0 {
			return Decimal{}, fmt.Errorf("parse %q: invalid character %q", s, rest[0])
		} else if d.mant < 0 {
			return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrRange)
		}
		d.scale = nfrac
	}
	if neg {
		d.mant = -d.mant
	}
	return d, nil
}

// parseDigits consumes a maximal prefix of decimal digits from s,
// accumulating them into d.mant, and returns the remainder of s and the
// number of digits consumed. Overflow surfaces as a negative mantissa,
// which the caller checks.
func parseDigits(s string, d *Decimal) (string, int) {
	var n int
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		if d.mant > math.MaxInt64/10 {
			d.mant = -1 // mark overflow
		} else {
			d.mant = d.mant*10 + int64(s[n]-'0')
		}
		n++
	}
	return s[n:], n
}

func b2i(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

// IsInt reports whether d was written without a fractional part.
// Note that 1.0 is not an integer by this rule: it carries one fractional
// digit, and formats with it.
func (d Decimal) IsInt() bool { return d.scale == 0 }

// Int64 returns the integer part of d, truncated toward zero.
func (d Decimal) Int64() int64 {
	m := d.mant
	for i := 0; i < d.scale; i++ {
		m /= 10
	}
	return m
}

// Float64 returns the nearest floating-point approximation of d.
func (d Decimal) Float64() float64 {
	return float64(d.mant) / math.Pow10(d.scale)
}

// Scale returns the number of fractional digits of d.
func (d Decimal) Scale() int { return d.scale }

// Cmp compares d and e numerically, returning -1, 0, or +1.
// Values equal in magnitude compare equal regardless of scale,
// so 1.50 and 1.5 are equal.
func (d Decimal) Cmp(e Decimal) int {
	dm, em := d.mant, e.mant
	for s := d.scale; s < e.scale; s++ {
		dm *= 10
	}
	for s := e.scale; s < d.scale; s++ {
		em *= 10
	}
	switch {
	case dm < em:
		return -1
	case dm > em:
		return 1
	}
	return 0
}

// String formats d with exactly the fractional digits it carries.
func (d Decimal) String() string { return string(d.Append(nil)) }

// Append appends the text of d to buf and returns the extended slice.
func (d Decimal) Append(buf []byte) []byte {
	m := d.mant
	if m < 0 {
		buf = append(buf, '-')
		m = -m
	}
	if d.scale == 0 {
		return strconv.AppendInt(buf, m, 10)
	}

	digits := strconv.FormatInt(m, 10)
	if pad := d.scale + 1 - len(digits); pad > 0 {
		// All-fractional values like 0.05 need zero padding to place the point.
		digits = "0000000000000000000"[:pad] + digits
	}
	point := len(digits) - d.scale
	buf = append(buf, digits[:point]...)
	buf = append(buf, '.')
	return append(buf, digits[point:]...)
}
