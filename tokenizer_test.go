// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"strings"
	"testing"

	"github.com/creachadair/jstream"
	"github.com/creachadair/jstream/internal/escape"
)

func TestTokenizerScan(t *testing.T) {
	// A 4-byte window forces repeated refills over this input.
	tok := jstream.NewStoringTokenizer(strings.NewReader(`foo "bar" baz`), 4)

	if got := tok.NextUntil(" ", 0); got != ' ' {
		t.Errorf("NextUntil: got %q, want ' '", got)
	}
	if got := string(tok.Current()); got != "foo" {
		t.Errorf("Current: got %q, want foo", got)
	}
	tok.Pop()
	tok.Skip(" ")
	if got := tok.InputOffset(); got != 4 {
		t.Errorf("InputOffset: got %d, want 4", got)
	}

	if got := tok.Peek(`"`); got != '"' {
		t.Errorf(`Peek(\"): got %q, want '"'`, got)
	}
	tok.Pop() // leading quote
	if got := tok.NextUntil(`"`, '\\'); got != '"' {
		t.Errorf("NextUntil: got %q, want '\"'", got)
	}
	tok.StoreToken(jstream.SlotValue)
	tok.Pop() // string contents
	tok.Pop() // trailing quote
	tok.Skip(" ")

	// The stored token must survive the window moving past it.
	if got := tok.NextUntil(" ", 0); got != 0 {
		t.Errorf("NextUntil at end: got %q, want 0", got)
	}
	if got := string(tok.Current()); got != "baz" {
		t.Errorf("Current: got %q, want baz", got)
	}
	if got := tok.StoredToken(jstream.SlotValue).StringCopy(); got != "bar" {
		t.Errorf("StoredToken: got %q, want bar", got)
	}
	if !tok.Completed() {
		t.Error("Completed: got false, want true")
	}
}

func TestTokenizerEscapes(t *testing.T) {
	tests := []struct {
		input string // scanned up to the first unescaped quote
		want  string // token text after escape resolution
	}{
		{`abc" tail`, "abc"},
		{`ab\"c" tail`, `ab"c`},
		{`x\\" tail`, `x\`},
		{`\\\\" tail`, `\\`},
		{`a\nb" tail`, "a\nb"},
		{"a\\u0041b\" tail", "a\\u0041b"}, // Unicode escapes pass through
	}
	for _, test := range tests {
		tok := jstream.NewTokenizer(strings.NewReader(test.input), 16)
		if got := tok.NextUntil(`"`, '\\'); got != '"' {
			t.Errorf("Input: %#q\nNextUntil: got %q, want '\"'", test.input, got)
			continue
		}
		tok.ResolveEscapes('\\', escape.JSON)
		if got := string(tok.Current()); got != test.want {
			t.Errorf("Input: %#q\nToken: got %q, want %q", test.input, got, test.want)
		}

		// The rest of the input must remain intact after compaction.
		tok.Pop() // token contents
		tok.Pop() // the quote
		tok.Skip(" ")
		tok.NextUntil(" ", 0)
		if got := string(tok.Current()); got != "tail" {
			t.Errorf("Input: %#q\nTail: got %q, want tail", test.input, got)
		}
	}
}

func TestTokenizerSkipRefills(t *testing.T) {
	const pad = 100
	input := strings.Repeat(" \t\n", pad) + "x"
	tok := jstream.NewTokenizer(strings.NewReader(input), 8)

	tok.Skip(" \r\n\t")
	if got := tok.Peek("x"); got != 'x' {
		t.Errorf("Peek: got %q, want 'x'", got)
	}
	if got := tok.InputOffset(); got != 3*pad {
		t.Errorf("InputOffset: got %d, want %d", got, 3*pad)
	}
}

func TestTokenizerCapacity(t *testing.T) {
	// No quote within the window: the scan must give up at the window edge
	// rather than consuming past it.
	tok := jstream.NewTokenizer(strings.NewReader(`aaaaaaaaaaaaaaaa"`), 8)
	if got := tok.NextUntil(`"`, '\\'); got != 0 {
		t.Errorf("NextUntil: got %q, want 0", got)
	}
	if tok.Completed() {
		t.Error("Completed: got true, want false")
	}
}

func TestTokenizerAbort(t *testing.T) {
	tok := jstream.NewStoringTokenizer(strings.NewReader("true"), 8)
	tok.Abort("boom")

	if !tok.Aborted() {
		t.Error("Aborted: got false, want true")
	}
	if got := tok.Peek("t"); got != 0 {
		t.Errorf("Peek after abort: got %q, want 0", got)
	}
	if got := tok.NextUntil(" ", 0); got != 0 {
		t.Errorf("NextUntil after abort: got %q, want 0", got)
	}
	tok.Pop() // must not panic or advance
	if got := string(tok.Current()); got != "" {
		t.Errorf("Current after abort: got %q, want empty", got)
	}
	if tok.Completed() {
		t.Error("Completed after abort: got true, want false")
	}

	// The first abort reason wins.
	tok.Abort("later")
	if got := tok.Reason(); got != "boom" {
		t.Errorf("Reason: got %q, want boom", got)
	}
}

func TestStoredTokenSlots(t *testing.T) {
	tok := jstream.NewStoringTokenizer(strings.NewReader("alpha beta"), 16)

	tok.NextUntil(" ", 0)
	tok.StoreToken(jstream.SlotValue)
	tok.Pop()
	tok.Skip(" ")
	tok.NextUntil(" ", 0)
	tok.StoreToken(jstream.SlotName)

	if got := tok.StoredToken(jstream.SlotValue).StringCopy(); got != "alpha" {
		t.Errorf("Slot 0: got %q, want alpha", got)
	}
	if got := tok.StoredToken(jstream.SlotName).StringCopy(); got != "beta" {
		t.Errorf("Slot 1: got %q, want beta", got)
	}

	// Out-of-range slots are silent no-ops.
	tok.StoreToken(-1)
	tok.StoreToken(99)
	if got := tok.StoredToken(99).Len(); got != 0 {
		t.Errorf("StoredToken(99): got %d bytes, want 0", got)
	}
}
