// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import "fmt"

// A Reader reads a single JSON document from a Source through a
// fixed-capacity token window. The document is consumed in one forward
// pass; no parse tree is built and nothing larger than the window is ever
// held in memory.
//
// Call Begin to obtain the root value, read it, then call End to verify
// that the input held exactly one document. A Reader drives exactly one
// pass; it cannot be reused.
type Reader struct {
	tok   *StoringTokenizer
	root  Value
	began bool
}

// NewReader constructs a Reader for src with token capacity
// DefaultMaxToken. No single literal, number, string value, or property
// name in the input may exceed the token capacity.
func NewReader(src Source) *Reader { return NewReaderSize(src, DefaultMaxToken) }

// NewReaderSize constructs a Reader for src with the given token capacity
// in bytes.
func NewReaderSize(src Source, maxToken int) *Reader {
	return &Reader{tok: NewStoringTokenizer(src, maxToken)}
}

// Begin parses the start of the document and returns the root value.
// Repeated calls return the same root.
func (r *Reader) Begin() *Value {
	if !r.began {
		r.began = true
		r.root = Value{tok: r.tok}
		r.root.parse()
	}
	return &r.root
}

// End finalizes the document: any unread remainder of the root value is
// drained, trailing whitespace is skipped, and if input remains after that
// the Reader fails. It returns the same error as Err.
func (r *Reader) End() error {
	if r.began {
		r.root.Skip()
	}
	r.tok.Skip(whitespace)
	if !r.tok.Aborted() && len(r.tok.Window()) != 0 {
		r.tok.Abort("trailing data after value")
	}
	return r.Err()
}

// Failed reports whether the Reader has encountered a parse failure.
// Failure is permanent: a failed Reader yields only invalid values.
func (r *Reader) Failed() bool { return r.tok.Aborted() }

// Err returns nil if the Reader has not failed; otherwise it returns a
// *ParseError describing the failure.
func (r *Reader) Err() error {
	if !r.tok.Aborted() {
		return nil
	}
	return &ParseError{
		Offset: r.tok.InputOffset(),
		Window: string(r.tok.Window()),
		Reason: r.tok.Reason(),
	}
}

// ParseError is the concrete type of errors reported by a Reader.
type ParseError struct {
	Offset int    // byte offset in the input where parsing stopped
	Window string // unconsumed contents of the token window, for context
	Reason string // description of the failure
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("at offset %d: %s", e.Offset, e.Reason)
}
