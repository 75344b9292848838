// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/creachadair/jstream/decimal"
	"github.com/creachadair/jstream/internal/escape"

	"github.com/creachadair/mds/value"
	"go4.org/mem"
)

// MaxDepth is the number of nested structures a Writer can hold open.
// Opening more fails the Writer rather than growing the stack.
const MaxDepth = 20

// Writer operations, used as the bits of the allowed-operation mask.
type op uint8

const (
	opValue    op = 1 << iota // emit a non-string scalar
	opString                  // emit a string
	opOpenList                // open a list
	opOpenObject              // open an object
	opProperty                // start an object property
	opClose                   // close the innermost structure
)

// structure is the state of one open frame of the writer's stack.
type structure byte

const (
	sNone        structure = iota // top level, nothing open
	sEmptyObject                  // open object with no members yet
	sObject                       // open object with at least one member
	sEmptyList                    // open list with no elements yet
	sList                         // open list with at least one element
)

// A Writer emits a JSON document one token at a time to an io.Writer,
// validating the JSON grammar as it goes. Output is written immediately;
// no buffer of the document is kept.
//
// An operation that is not legal at the current position, an attempt to
// nest deeper than MaxDepth, or a short write to the underlying stream
// fails the Writer permanently: every later call is a no-op. Bytes already
// written before the failure are not retracted, so the caller must discard
// the output of a failed Writer.
//
// Optional inputs use value.Maybe; an absent value is written as null.
type Writer struct {
	w       io.Writer
	err     error
	stack   [MaxDepth]structure
	top     int
	allowed op
	scratch []byte
	one     [1]byte
}

// NewWriter constructs a Writer that emits output to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, allowed: opValue | opString | opOpenList | opOpenObject}
}

// Null writes the null constant.
func (w *Writer) Null() { w.value([]byte("null")) }

// Bool writes a boolean value, or null if v is absent.
func (w *Writer) Bool(v value.Maybe[bool]) {
	if !v.Present() {
		w.Null()
	} else if v.Get() {
		w.value([]byte("true"))
	} else {
		w.value([]byte("false"))
	}
}

// Int writes an integer value, or null if v is absent.
func (w *Writer) Int(v value.Maybe[int64]) {
	if !v.Present() {
		w.Null()
		return
	}
	w.scratch = strconv.AppendInt(w.scratch[:0], v.Get(), 10)
	w.value(w.scratch)
}

// Number writes a decimal value with its recorded precision, or null if v
// is absent.
func (w *Writer) Number(v value.Maybe[decimal.Decimal]) {
	if !v.Present() {
		w.Null()
		return
	}
	w.scratch = v.Get().Append(w.scratch[:0])
	w.value(w.scratch)
}

// String writes a quoted string value, or null if v is absent.
func (w *Writer) String(v value.Maybe[string]) {
	if !v.Present() {
		w.Null()
		return
	}
	w.quoted(mem.S(v.Get()))
}

// StringBytes writes a quoted string value from a byte slice, or null if
// v is absent.
func (w *Writer) StringBytes(v value.Maybe[[]byte]) {
	if !v.Present() {
		w.Null()
		return
	}
	w.quoted(mem.B(v.Get()))
}

// StringRO writes a quoted string value from a read-only view, or null if
// v is absent.
func (w *Writer) StringRO(v value.Maybe[mem.RO]) {
	if !v.Present() {
		w.Null()
		return
	}
	w.quoted(v.Get())
}

// OpenList opens a list. Values written before the matching Close become
// its elements.
func (w *Writer) OpenList() { w.open(opOpenList, '[', sEmptyList) }

// OpenObject opens an object. Every member must be introduced with
// Property before its value is written.
func (w *Writer) OpenObject() { w.open(opOpenObject, '{', sEmptyObject) }

// Property starts an object member with the given name and returns w, so
// the value can be chained: w.Property("n").Int(...). A property is legal
// only directly inside an object, and must be followed by exactly one
// value.
func (w *Writer) Property(name string) *Writer {
	if !w.check(opProperty, "property") {
		return w
	}
	switch w.peek() {
	case sEmptyObject:
		w.replace(sObject)
	case sObject:
		w.writeByte(',')
	}
	w.scratch = escape.AppendQuoted(w.scratch[:0], mem.S(name))
	w.write(w.scratch)
	w.writeByte(':')
	w.allowed = opValue | opString | opOpenList | opOpenObject
	return w
}

// Close ends the innermost open structure.
func (w *Writer) Close() {
	if !w.check(opClose, "close") {
		return
	}
	switch w.pop() {
	case sEmptyObject, sObject:
		w.writeByte('}')
	default: // sEmptyList, sList; sNone is excluded by the mask
		w.writeByte(']')
	}
	switch w.peek() {
	case sEmptyObject, sObject:
		w.allowed = opProperty | opClose
	case sEmptyList, sList:
		w.allowed = opValue | opString | opOpenList | opOpenObject | opClose
	default:
		w.allowed = 0 // document complete
	}
}

// End closes every structure still open, leaving the document
// syntactically complete, and returns the same error as Err. A failed
// Writer is left as it is.
func (w *Writer) End() error {
	for w.err == nil && w.peek() != sNone {
		w.Close()
	}
	return w.err
}

// Failed reports whether the Writer has failed. Failure is permanent.
func (w *Writer) Failed() bool { return w.err != nil }

// Err returns the first error that failed the Writer, or nil.
func (w *Writer) Err() error { return w.err }

// value emits text as a bare literal at the current position.
func (w *Writer) value(text []byte) {
	if !w.check(opValue, "value") {
		return
	}
	if w.peek() == sList {
		w.writeByte(',')
	}
	w.write(text)
	w.noteValue()
}

// quoted emits src as a quoted, escaped string at the current position.
func (w *Writer) quoted(src mem.RO) {
	if !w.check(opString, "string") {
		return
	}
	if w.peek() == sList {
		w.writeByte(',')
	}
	w.scratch = escape.AppendQuoted(w.scratch[:0], src)
	w.write(w.scratch)
	w.noteValue()
}

// open emits a bracket and pushes a new empty frame.
func (w *Writer) open(o op, bracket byte, frame structure) {
	label := "open list"
	if o == opOpenObject {
		label = "open object"
	}
	if !w.check(o, label) {
		return
	}
	switch w.peek() {
	case sEmptyList:
		// The nested structure counts as this list's first element.
		w.replace(sList)
	case sList:
		w.writeByte(',')
	}
	w.writeByte(bracket)
	if !w.push(frame) {
		w.fail("nesting exceeds depth limit")
		return
	}
	if frame == sEmptyObject {
		w.allowed = opProperty | opClose
	} else {
		w.allowed = opValue | opString | opOpenList | opOpenObject | opClose
	}
}

// noteValue records that a value was emitted in the current context and
// recomputes the allowed operations.
func (w *Writer) noteValue() {
	switch w.peek() {
	case sEmptyObject:
		w.replace(sObject)
		fallthrough
	case sObject:
		w.allowed = opProperty | opClose
	case sEmptyList:
		w.replace(sList)
		fallthrough
	case sList:
		w.allowed = opValue | opString | opOpenList | opOpenObject | opClose
	default:
		w.allowed = 0 // a top-level document holds exactly one value
	}
}

// check reports whether o is currently legal, failing the Writer if not.
func (w *Writer) check(o op, label string) bool {
	if w.err != nil {
		return false
	}
	if w.allowed&o == 0 {
		w.fail(fmt.Sprintf("%s not allowed here", label))
		return false
	}
	return true
}

func (w *Writer) fail(reason string) {
	if w.err == nil {
		w.err = errors.New(reason)
	}
}

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = fmt.Errorf("write: %w", err)
	}
}

func (w *Writer) writeByte(c byte) {
	w.one[0] = c
	w.write(w.one[:])
}

func (w *Writer) peek() structure { return w.stack[w.top] }

func (w *Writer) replace(s structure) { w.stack[w.top] = s }

func (w *Writer) push(s structure) bool {
	if w.top == 0 && w.stack[0] == sNone {
		w.stack[0] = s
		return true
	}
	if w.top+1 >= MaxDepth {
		return false
	}
	w.top++
	w.stack[w.top] = s
	return true
}

func (w *Writer) pop() structure {
	s := w.stack[w.top]
	if w.top == 0 {
		w.stack[0] = sNone
		return s
	}
	w.top--
	return s
}
