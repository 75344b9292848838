// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"io"
	"strings"

	"github.com/creachadair/jstream/internal/escape"

	"go4.org/mem"
)

// A Source supplies input text to a Tokenizer. Len reports the number of
// bytes remaining in the source, and must report 0 exactly when the source
// is exhausted. Both *strings.Reader and *bytes.Reader satisfy Source.
type Source interface {
	io.Reader

	// Len returns the number of unread bytes remaining in the source.
	Len() int
}

// DefaultMaxToken is the token capacity used by NewTokenizer and NewReader
// when the caller does not choose one.
const DefaultMaxToken = 64

// whitespace is the set of insignificant bytes between JSON tokens.
const whitespace = " \r\n\t"

// A Tokenizer scans an input source through a window of fixed capacity.
// No token may exceed the window capacity: a literal, number, string body,
// or property name longer than the capacity is a parse failure, reported
// through Abort, never a reallocation.
//
// The window holds one extra byte beyond its capacity for a NUL
// terminator. Scanning operations mark the end of the current token by
// saving the boundary byte (the "stop byte") and overwriting it with NUL
// in place; consuming the token shifts the terminated prefix out of the
// window and restores the saved byte at the front.
//
// Once a Tokenizer has aborted, every operation is a no-op that returns a
// neutral value, so a parse in progress unwinds without further effect.
type Tokenizer struct {
	src      Source
	nread    int // total bytes consumed from src
	aborted  bool
	reason   string
	buf      []byte // window of size+1 bytes, buf[bufLen] == 0
	size     int
	bufLen   int
	stop     int
	stopByte byte
}

// NewTokenizer constructs a Tokenizer reading from src with the given
// token capacity in bytes. If size <= 0, DefaultMaxToken is used.
func NewTokenizer(src Source, size int) *Tokenizer {
	t := &Tokenizer{src: src, size: size}
	if size <= 0 {
		t.size = DefaultMaxToken
	}
	t.buf = make([]byte, t.size+1)
	return t
}

// MaxToken returns the token capacity of t in bytes.
func (t *Tokenizer) MaxToken() int { return t.size }

// Abort marks t permanently failed for the given reason. The first reason
// recorded is retained; later calls do not replace it.
func (t *Tokenizer) Abort(reason string) {
	if !t.aborted {
		t.aborted = true
		t.reason = reason
	}
}

// Aborted reports whether t has failed.
func (t *Tokenizer) Aborted() bool { return t.aborted }

// Reason returns the reason recorded by the first call to Abort, or "".
func (t *Tokenizer) Reason() string { return t.reason }

// Completed reports whether t has consumed its input without failing.
// Note that bytes may still sit unconsumed in the window; Completed only
// reflects the state of the underlying source.
func (t *Tokenizer) Completed() bool { return !t.aborted && t.src.Len() == 0 }

// InputOffset returns the offset in the input of the first byte not yet
// consumed from the window.
func (t *Tokenizer) InputOffset() int { return t.nread - t.bufLen }

// Current returns the bytes of the current token. The slice aliases the
// window and is valid only until the next operation on t.
func (t *Tokenizer) Current() []byte { return t.buf[:t.stop] }

// Window returns the unconsumed contents of the window, for diagnostics.
func (t *Tokenizer) Window() []byte { return t.buf[:t.bufLen] }

// shiftToStop discards a terminated token: the prefix up to and including
// the terminator is shifted out of the window and the saved stop byte is
// restored at the front. A window without a terminated token is left
// unchanged.
func (t *Tokenizer) shiftToStop() {
	if t.bufLen > 0 && t.buf[t.stop] == 0 {
		copy(t.buf, t.buf[t.stop:t.bufLen+1])
		t.bufLen -= t.stop
		t.stop = 0
		t.buf[0] = t.stopByte
		t.stopByte = 0
	}
}

// fill tops up the window from the source and maintains the NUL sentinel
// at the end of the valid region.
func (t *Tokenizer) fill() {
	for t.bufLen < t.size && t.src.Len() > 0 {
		n, err := t.src.Read(t.buf[t.bufLen:t.size])
		t.nread += n
		t.bufLen += n
		if err != nil {
			if err != io.EOF {
				t.Abort("read: " + err.Error())
			}
			break
		}
		if n == 0 {
			break
		}
	}
	t.buf[t.bufLen] = 0
}

// isEscaped reports whether the byte at the stop position is preceded by
// an odd number of consecutive escape bytes, meaning the stop byte is part
// of an escape sequence rather than a true boundary.
func (t *Tokenizer) isEscaped(esc byte) bool {
	if esc == 0 || t.stop == 0 || t.stopByte == 0 {
		return false
	}
	escaped := false
	for i := t.stop; i > 0 && t.buf[i-1] == esc; i-- {
		escaped = !escaped
	}
	return escaped
}

// Peek reports the next pending byte if it is a member of set, without
// consuming it. It returns 0 if the next byte is not in set, the input is
// exhausted, or t has aborted.
func (t *Tokenizer) Peek(set string) byte {
	if t.aborted {
		return 0
	}
	t.shiftToStop()
	t.fill()
	if b := t.buf[0]; b != 0 && strings.IndexByte(set, b) >= 0 {
		return b
	}
	return 0
}

// Pop consumes the single byte at the head of the window.
func (t *Tokenizer) Pop() {
	if t.aborted {
		return
	}
	if t.stop == 0 && t.buf[0] != 0 {
		t.stop = 1
		t.stopByte = t.buf[1]
		t.buf[1] = 0
	}
	t.shiftToStop()
	t.fill()
}

// Skip consumes a maximal run of bytes from set, refilling the window as
// needed so the run may span any amount of input.
func (t *Tokenizer) Skip(set string) {
	if t.aborted {
		return
	}
	for {
		t.shiftToStop()
		t.fill()
		t.stop = spn(t.buf[:t.bufLen], set)
		if t.buf[t.stop] != 0 || t.src.Len() == 0 || t.aborted {
			break
		}
		if t.bufLen == 0 {
			t.Abort("input source stalled")
			break
		}
	}
	if t.stop > 0 {
		t.stopByte = t.buf[t.stop]
		t.buf[t.stop] = 0
		t.shiftToStop()
	}
}

// NextUntil advances the stop position to the next unescaped byte in set,
// or to the end of the window if none is found, and terminates the scanned
// span in place. It returns the stop byte found, or 0 if the window was
// exhausted first. A candidate stop byte preceded by an odd run of esc
// bytes does not stop the scan; pass esc == 0 to disable escape handling.
func (t *Tokenizer) NextUntil(set string, esc byte) byte {
	return t.scan(set, esc, cspn)
}

// NextWhile advances the stop position across a maximal run of bytes from
// set, with the same escape handling and termination as NextUntil, and
// returns the byte that ended the run.
func (t *Tokenizer) NextWhile(set string, esc byte) byte {
	return t.scan(set, esc, spn)
}

func (t *Tokenizer) scan(set string, esc byte, span func([]byte, string) int) byte {
	if t.aborted {
		return 0
	}
	t.shiftToStop()
	t.fill()
	for t.buf[t.stop] != 0 {
		t.stop += span(t.buf[t.stop:t.bufLen], set)
		t.stopByte = t.buf[t.stop]
		if !t.isEscaped(esc) {
			break
		}
		t.stop++
	}
	t.buf[t.stop] = 0
	return t.stopByte
}

// ResolveEscapes rewrites the current token in place, replacing each
// escape sequence introduced by esc with whatever h produces for it, and
// shifts the rest of the window left to close the gap. It is a no-op
// unless the window holds a terminated token.
func (t *Tokenizer) ResolveEscapes(esc byte, h escape.Handler) {
	if t.aborted || t.bufLen == 0 || t.buf[t.stop] != 0 {
		return
	}
	n := escape.Resolve(t.buf[:t.stop], esc, h)
	if removed := t.stop - n; removed > 0 {
		t.buf[n] = 0
		copy(t.buf[n+1:], t.buf[t.stop+1:t.bufLen])
		t.bufLen -= removed
		t.stop = n
		t.buf[t.bufLen] = 0
	}
}

// Token slots of a StoringTokenizer.
const (
	SlotValue = iota // the most recent scalar value
	SlotName         // the most recent property name
	numSlots
)

// A StoringTokenizer is a Tokenizer with a fixed set of capture slots.
// Storing the current token into a slot takes a snapshot that remains
// readable after the window has shifted past the token.
type StoringTokenizer struct {
	Tokenizer
	slots   [numSlots][]byte
	slotLen [numSlots]int
}

// NewStoringTokenizer constructs a StoringTokenizer reading from src with
// the given token capacity. If size <= 0, DefaultMaxToken is used.
func NewStoringTokenizer(src Source, size int) *StoringTokenizer {
	t := &StoringTokenizer{Tokenizer: *NewTokenizer(src, size)}
	for i := range t.slots {
		t.slots[i] = make([]byte, t.size)
	}
	return t
}

// StoreToken copies the current token into the given slot, replacing its
// previous contents. An out-of-range slot is a silent no-op.
func (t *StoringTokenizer) StoreToken(slot int) {
	if t.aborted || slot < 0 || slot >= numSlots {
		return
	}
	t.slotLen[slot] = copy(t.slots[slot], t.Current())
}

// StoredToken returns a view of the named slot's contents. The view is
// valid until the next StoreToken into the same slot. An out-of-range
// slot yields an empty view.
func (t *StoringTokenizer) StoredToken(slot int) mem.RO {
	if slot < 0 || slot >= numSlots {
		return mem.B(nil)
	}
	return mem.B(t.slots[slot][:t.slotLen[slot]])
}

// spn returns the length of the maximal prefix of p whose bytes are all
// members of set. A NUL byte ends the prefix unconditionally.
func spn(p []byte, set string) int {
	for i, b := range p {
		if b == 0 || strings.IndexByte(set, b) < 0 {
			return i
		}
	}
	return len(p)
}

// cspn returns the length of the maximal prefix of p whose bytes are all
// outside set. A NUL byte ends the prefix unconditionally.
func cspn(p []byte, set string) int {
	for i, b := range p {
		if b == 0 || strings.IndexByte(set, b) >= 0 {
			return i
		}
	}
	return len(p)
}
