// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jstream implements a streaming JSON reader and writer for
// memory-constrained use. Both directions operate through fixed-size
// state: the reader scans its input through a bounded token window and
// never builds a parse tree; the writer emits tokens directly to its
// output and keeps only a fixed-depth structure stack.
//
// # Reading
//
// A Reader consumes one JSON document from a Source (for example a
// *strings.Reader or *bytes.Reader) in a single forward pass. Begin
// returns the root value; End verifies the document was complete and
// nothing followed it:
//
//	r := jstream.NewReader(strings.NewReader(input))
//	root := r.Begin()
//	// ... read root ...
//	if err := r.End(); err != nil {
//	   log.Fatalf("Read failed: %v", err)
//	}
//
// Scalar payloads are fetched from a value directly:
//
//	if s := root.Text(); s.Present() {
//	   fmt.Println(s.Get())
//	}
//
// Lists and objects are iterated lazily, in document order:
//
//	obj := root.Object()
//	for obj.Next() {
//	   p := obj.Property()
//	   fmt.Println(p.Name(), p.Kind())
//	}
//
// Iteration is single-pass and at-most-once: a value can be opened as a
// list or object only one time, and elements that the caller does not
// read are skipped automatically, entire subtrees included. The cursor is
// always left exactly past a value once iteration moves beyond it.
//
// No token of the input (one literal, number, string value, or property
// name) may exceed the reader's token capacity; a longer token fails the
// parse the same way malformed input does. Failure is sticky: after any
// failure the remaining operations unwind harmlessly and Err describes
// the first cause.
//
// # Writing
//
// A Writer validates grammar as tokens are pushed, so an ill-formed
// sequence of calls cannot produce well-formed output undetected:
//
//	w := jstream.NewWriter(&buf)
//	w.OpenObject()
//	w.Property("x").Int(value.Just(int64(5)))
//	w.Close()
//	if err := w.End(); err != nil {
//	   log.Fatalf("Write failed: %v", err)
//	}
//	// Output: {"x":5}
//
// End closes any structures still open. An illegal operation (such as a
// value without a property inside an object, or a second top-level value)
// fails the Writer permanently; output already written is not retracted.
//
// # Limitations
//
// Unicode escapes (\uXXXX) are not decoded on input; the backslash and
// the following text pass through into the decoded payload. On output
// only backslash and double-quote are escaped, so control characters in
// caller-supplied strings are emitted verbatim. Numbers use a fixed-point
// decimal representation (see the decimal package) that preserves
// fractional digits exactly as written; exponent notation is not
// accepted.
package jstream
