// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"

	"github.com/creachadair/jstream/decimal"
	"github.com/creachadair/jstream/internal/escape"

	"github.com/creachadair/mds/value"
	"go4.org/mem"
)

// Kind is the type of a JSON value.
type Kind byte

// Constants defining the valid Kind values.
const (
	KindInvalid Kind = iota // no value, or a failed parse
	KindNull                // the null constant
	KindBool                // true or false
	KindInt                 // number written without a fractional part
	KindDecimal             // number written with a fractional part
	KindString              // quoted string
	KindList                // list, "[...]"
	KindObject              // object, "{...}"
)

var kindStr = [...]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "boolean",
	KindInt:     "integer",
	KindDecimal: "decimal",
	KindString:  "string",
	KindList:    "list",
	KindObject:  "object",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[KindInvalid]
	}
	return kindStr[int(k)]
}

// A Value is a cursor denoting a single JSON value in the input. It does
// not hold the value's content: scalars carry their decoded payload, but a
// list or object is read lazily through the tokenizer as it is iterated.
//
// Values are single-pass. A compound value may be opened with List or
// Object at most once; afterward the value is consumed and yields only
// inert results. A Value that is dropped without being read must be
// finalized with Skip (the enclosing iterator and the Reader do this
// automatically), which drains its remaining content so the cursor lands
// exactly after the value.
type Value struct {
	tok      *StoringTokenizer
	kind     Kind
	boolv    bool
	numv     decimal.Decimal
	consumed bool
	list     *List
	obj      *Object
}

// Kind returns the kind of v.
func (v *Value) Kind() Kind { return v.kind }

// Valid reports whether v denotes a value. An invalid Value either marks
// the end of iteration or results from a parse failure; check the Reader
// to distinguish the two.
func (v *Value) Valid() bool { return v.kind != KindInvalid }

func (v *Value) reset() {
	v.kind = KindInvalid
	v.boolv = false
	v.numv = decimal.Decimal{}
	v.consumed = false
	v.list = nil
	v.obj = nil
}

// parse positions v at the next value in the input. Structural delimiters
// of a compound value are not consumed here; List and Object do that when
// the caller opens the collection.
func (v *Value) parse() {
	v.reset()
	t := v.tok
	t.Skip(whitespace)
	switch t.Peek(`ntf"-0123456789[{`) {
	case 'n':
		if v.literal("null") {
			v.kind = KindNull
		}
	case 't':
		if v.literal("true") {
			v.boolv = true
			v.kind = KindBool
		}
	case 'f':
		if v.literal("false") {
			v.kind = KindBool
		}
	case '"':
		t.Pop() // leading quote
		if t.NextUntil(`"`, '\\') != '"' {
			if t.Completed() {
				t.Abort("unterminated string")
			} else {
				t.Abort("string exceeds token capacity")
			}
			return
		}
		t.ResolveEscapes('\\', escape.JSON)
		t.StoreToken(SlotValue)
		t.Pop() // string contents
		t.Pop() // trailing quote
		v.kind = KindString
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		t.NextWhile("-0123456789.", 0)
		d, err := decimal.Parse(string(t.Current()))
		if err != nil {
			t.Abort(err.Error())
			return
		}
		v.numv = d
		if d.IsInt() {
			v.kind = KindInt
		} else {
			v.kind = KindDecimal
		}
	case '[':
		v.kind = KindList
	case '{':
		v.kind = KindObject
	default:
		if w := t.Window(); len(w) != 0 {
			t.Abort(fmt.Sprintf("unexpected character %q", w[0]))
		} else {
			t.Abort("unexpected end of input")
		}
		return
	}

	if v.Valid() {
		// Pre-skip trailing whitespace so the final value of a document
		// leaves the input fully consumed.
		t.Skip(whitespace)
	}
}

// literal consumes the next run up to a structural delimiter and requires
// it to match want exactly.
func (v *Value) literal(want string) bool {
	t := v.tok
	t.NextUntil(" \r\n\t,]}", 0)
	if string(t.Current()) != want {
		t.Abort(fmt.Sprintf("unknown constant %q", t.Current()))
		return false
	}
	t.Pop()
	return true
}

// Bool returns the payload of a boolean value, or an absent Maybe for any
// other kind.
func (v *Value) Bool() value.Maybe[bool] {
	if v.kind != KindBool {
		return value.Absent[bool]()
	}
	return value.Just(v.boolv)
}

// Int returns the integer part of a numeric value, truncated toward zero,
// or an absent Maybe for a non-numeric kind.
func (v *Value) Int() value.Maybe[int64] {
	if v.kind != KindInt && v.kind != KindDecimal {
		return value.Absent[int64]()
	}
	return value.Just(v.numv.Int64())
}

// Number returns the payload of a numeric value with its written precision
// intact, or an absent Maybe for a non-numeric kind.
func (v *Value) Number() value.Maybe[decimal.Decimal] {
	if v.kind != KindInt && v.kind != KindDecimal {
		return value.Absent[decimal.Decimal]()
	}
	return value.Just(v.numv)
}

// Text returns the decoded payload of a string value, or an absent Maybe
// for any other kind. Unicode escapes (\uXXXX) are not decoded and appear
// in their source form.
func (v *Value) Text() value.Maybe[string] {
	if v.kind != KindString {
		return value.Absent[string]()
	}
	return value.Just(v.tok.StoredToken(SlotValue).StringCopy())
}

// TextRO returns a view of the decoded payload of a string value. The
// view is valid only until the next string value is parsed.
func (v *Value) TextRO() value.Maybe[mem.RO] {
	if v.kind != KindString {
		return value.Absent[mem.RO]()
	}
	return value.Just(v.tok.StoredToken(SlotValue))
}

// List opens v for iteration as a list, consuming the opening bracket.
// If v is not a list, or was already consumed, the result is an inert
// cursor whose Next reports false immediately.
func (v *Value) List() *List {
	lst := &List{tok: v.tok}
	if v.kind != KindList || v.consumed || v.tok == nil || v.tok.Aborted() {
		return lst
	}
	v.consumed = true
	v.list = lst

	t := v.tok
	t.Skip(whitespace)
	if t.Peek("[") != '[' {
		t.Abort(`expected "["`)
		return lst
	}
	t.Pop()
	lst.open = true
	lst.cur = Value{tok: t}
	return lst
}

// Object opens v for iteration as an object, consuming the opening brace.
// If v is not an object, or was already consumed, the result is an inert
// cursor whose Next reports false immediately.
func (v *Value) Object() *Object {
	obj := &Object{tok: v.tok}
	if v.kind != KindObject || v.consumed || v.tok == nil || v.tok.Aborted() {
		return obj
	}
	v.consumed = true
	v.obj = obj

	t := v.tok
	t.Skip(whitespace)
	if t.Peek("{") != '{' {
		t.Abort(`expected "{"`)
		return obj
	}
	t.Pop()
	obj.open = true
	obj.cur = Property{Value{tok: t}}
	return obj
}

// Skip finalizes v: whatever part of its content has not been read is
// consumed and discarded, so the cursor ends up positioned exactly after
// v. Skipping an already-consumed value drains any iteration left
// unfinished; skipping a scalar is a no-op beyond marking it consumed.
func (v *Value) Skip() {
	switch v.kind {
	case KindList:
		if !v.consumed {
			v.List().drain()
		} else if v.list != nil {
			v.list.drain()
		}
	case KindObject:
		if !v.consumed {
			v.Object().drain()
		} else if v.obj != nil {
			v.obj.drain()
		}
	}
	v.consumed = true
}

// A List is a forward-only cursor over the elements of a list value.
// Iteration follows the familiar shape:
//
//	lst := v.List()
//	for lst.Next() {
//	    use(lst.Value())
//	}
//
// Each call to Next first finalizes the previous element, so an element
// the caller did not read is skipped over, subtree and all.
type List struct {
	tok     *StoringTokenizer
	cur     Value
	open    bool
	started bool
}

// Next advances to the next element, reporting whether one is available.
// Once Next has reported false it reports false forever.
func (lst *List) Next() bool {
	if !lst.open {
		return false
	}
	t := lst.tok
	if !lst.started {
		lst.started = true
		t.Skip(whitespace)
		if t.Peek("]") == ']' {
			lst.finish()
			return false
		}
		lst.cur.parse()
	} else {
		lst.cur.Skip()
		t.Skip(whitespace)
		switch t.Peek(",]") {
		case ',':
			t.Pop()
			lst.cur.parse()
		case ']':
			lst.finish()
			return false
		default:
			t.Abort(`expected "," or "]" in list`)
			lst.open = false
			return false
		}
	}
	if !lst.cur.Valid() {
		lst.open = false
		return false
	}
	return true
}

// Value returns the current element. It is valid until the next call to
// Next.
func (lst *List) Value() *Value { return &lst.cur }

func (lst *List) finish() {
	lst.tok.Pop() // closing bracket
	lst.tok.Skip(whitespace)
	lst.open = false
}

func (lst *List) drain() {
	for lst.Next() {
	}
}

// A Property is a named value inside an object. Its Value methods apply
// to the property's value.
type Property struct {
	Value
}

// parseProp positions p at the next "name": value pair in the input.
func (p *Property) parseProp() {
	p.reset()
	t := p.tok
	t.Skip(whitespace)
	if t.Peek(`"`) != '"' {
		t.Abort("expected property name")
		return
	}
	t.Pop() // leading quote
	if t.NextUntil(`"`, '\\') != '"' {
		if t.Completed() {
			t.Abort("unterminated property name")
		} else {
			t.Abort("property name exceeds token capacity")
		}
		return
	}
	t.ResolveEscapes('\\', escape.JSON)
	t.StoreToken(SlotName)
	t.Pop() // name contents
	t.Pop() // trailing quote
	t.Skip(whitespace)
	if t.Peek(":") != ':' {
		t.Abort(`expected ":" after property name`)
		return
	}
	t.Pop()
	p.Value.parse()
}

// Name returns the decoded property name.
func (p *Property) Name() string {
	if p.tok == nil {
		return ""
	}
	return p.tok.StoredToken(SlotName).StringCopy()
}

// NameRO returns a view of the decoded property name. The view is valid
// only until the next property is parsed.
func (p *Property) NameRO() mem.RO {
	if p.tok == nil {
		return mem.B(nil)
	}
	return p.tok.StoredToken(SlotName)
}

// An Object is a forward-only cursor over the properties of an object
// value, in document order. It iterates like a List:
//
//	obj := v.Object()
//	for obj.Next() {
//	    use(obj.Property())
//	}
type Object struct {
	tok     *StoringTokenizer
	cur     Property
	open    bool
	started bool
}

// Next advances to the next property, reporting whether one is available.
// Once Next has reported false it reports false forever.
func (obj *Object) Next() bool {
	if !obj.open {
		return false
	}
	t := obj.tok
	if !obj.started {
		obj.started = true
		t.Skip(whitespace)
		if t.Peek("}") == '}' {
			obj.finish()
			return false
		}
		obj.cur.parseProp()
	} else {
		obj.cur.Skip()
		t.Skip(whitespace)
		switch t.Peek(",}") {
		case ',':
			t.Pop()
			obj.cur.parseProp()
		case '}':
			obj.finish()
			return false
		default:
			t.Abort(`expected "," or "}" in object`)
			obj.open = false
			return false
		}
	}
	if !obj.cur.Valid() {
		obj.open = false
		return false
	}
	return true
}

// Property returns the current property. It is valid until the next call
// to Next.
func (obj *Object) Property() *Property { return &obj.cur }

func (obj *Object) finish() {
	obj.tok.Pop() // closing brace
	obj.tok.Skip(whitespace)
	obj.open = false
}

func (obj *Object) drain() {
	for obj.Next() {
	}
}
