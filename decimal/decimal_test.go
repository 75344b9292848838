// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package decimal_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jstream/decimal"
)

func TestParseRoundTrip(t *testing.T) {
	// Formatting a parsed value must reproduce the input exactly,
	// trailing zeroes included.
	tests := []string{
		"0", "5", "-5", "42", "-10070",
		"0.1", "0.10", "-0.001", "1.5", "1.50", "123.456",
		"9223372036854775807", // MaxInt64
	}
	for _, test := range tests {
		d, err := decimal.Parse(test)
		if err != nil {
			t.Errorf("Parse %q failed: %v", test, err)
			continue
		}
		if got := d.String(); got != test {
			t.Errorf("Parse %q: formatted back as %q", test, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"", "-", ".", "1.", ".5", "-.5",
		"1..2", "1.2.3", "--1", "1-", "1e5", "0x10",
		"01", "-01", "00.1",
		"92233720368547758079", // too many digits
	}
	for _, test := range tests {
		if d, err := decimal.Parse(test); err == nil {
			t.Errorf("Parse %q: got %v, want error", test, d)
		}
	}
	if _, err := decimal.Parse("99999999999999999999"); !errors.Is(err, decimal.ErrRange) {
		t.Errorf("Parse overflow: got %v, want ErrRange", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		isInt bool
		whole int64
	}{
		{"0", true, 0},
		{"17", true, 17},
		{"-3", true, -3},
		{"1.0", false, 1},
		{"1.9", false, 1},
		{"-1.9", false, -1},
		{"0.25", false, 0},
		{"-0.25", false, 0},
	}
	for _, test := range tests {
		d, err := decimal.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q failed: %v", test.input, err)
			continue
		}
		if got := d.IsInt(); got != test.isInt {
			t.Errorf("IsInt %q: got %v, want %v", test.input, got, test.isInt)
		}
		if got := d.Int64(); got != test.whole {
			t.Errorf("Int64 %q: got %d, want %d", test.input, got, test.whole)
		}
	}
}

func TestCmp(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"0", "0", 0},
		{"1.5", "1.50", 0}, // scale does not affect order
		{"1", "2", -1},
		{"2", "1", 1},
		{"-1", "1", -1},
		{"0.1", "0.09", 1},
		{"-2.5", "-2.4", -1},
	}
	for _, test := range tests {
		a, err := decimal.Parse(test.a)
		if err != nil {
			t.Fatalf("Parse %q failed: %v", test.a, err)
		}
		b, err := decimal.Parse(test.b)
		if err != nil {
			t.Fatalf("Parse %q failed: %v", test.b, err)
		}
		if got := a.Cmp(b); got != test.want {
			t.Errorf("Cmp(%q, %q): got %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestFloat64(t *testing.T) {
	d, err := decimal.Parse("2.50")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := d.Float64(); got != 2.5 {
		t.Errorf("Float64: got %v, want 2.5", got)
	}
	if got := decimal.New(-7).Float64(); got != -7 {
		t.Errorf("Float64: got %v, want -7", got)
	}
}
