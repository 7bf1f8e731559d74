package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrSyntax indicates the input is not a single well-formed JSON value.
var ErrSyntax = errors.New("malformed JSON")

// Kind tags the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Object
	Array
)

// Member is one key/value pair of an object, kept in document order.
type Member struct {
	Key   string
	Value *Value
}

// Value is a JSON value whose objects keep their members in document order.
// Numbers keep their literal text so untouched values serialize unchanged.
type Value struct {
	kind    Kind
	scalar  string
	members []Member
	items   []*Value
}

// Parse decodes exactly one JSON value from data.
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after value", ErrSyntax)
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := &Value{kind: Object}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", keyTok)
				}
				child, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				v.members = append(v.members, Member{Key: key, Value: child})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return v, nil
		case '[':
			v := &Value{kind: Array}
			for dec.More() {
				child, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				v.items = append(v.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return v, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
	case string:
		return NewString(t), nil
	case json.Number:
		return &Value{kind: Number, scalar: t.String()}, nil
	case bool:
		return NewBool(t), nil
	case nil:
		return &Value{kind: Null}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// NewObject returns an empty object.
func NewObject() *Value {
	return &Value{kind: Object}
}

// NewArray returns an array holding items.
func NewArray(items ...*Value) *Value {
	return &Value{kind: Array, items: items}
}

// NewString returns a string value.
func NewString(s string) *Value {
	return &Value{kind: String, scalar: s}
}

// NewBool returns a boolean value.
func NewBool(b bool) *Value {
	if b {
		return &Value{kind: Bool, scalar: "true"}
	}
	return &Value{kind: Bool, scalar: "false"}
}

// Kind returns the variant of v.
func (v *Value) Kind() Kind {
	return v.kind
}

// Members returns the members of an object in document order.
func (v *Value) Members() []Member {
	return v.members
}

// Items returns the elements of an array.
func (v *Value) Items() []*Value {
	return v.items
}

// Append adds items to an array.
func (v *Value) Append(items ...*Value) {
	v.items = append(v.items, items...)
}

// Text returns the textual form of a scalar: the string itself, the number or
// boolean literal, or "null". Objects and arrays have no text and return "".
func (v *Value) Text() string {
	switch v.kind {
	case Null:
		return "null"
	case Object, Array:
		return ""
	default:
		return v.scalar
	}
}

// Get returns the first member named key of an object.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != Object {
		return nil, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Lookup follows a path of object keys.
func (v *Value) Lookup(path ...string) (*Value, bool) {
	cur := v
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Set replaces the member named key of an object in place, or appends it.
// Set on a non-object is a no-op and returns false.
func (v *Value) Set(key string, value *Value) bool {
	if v.kind != Object {
		return false
	}
	for i, m := range v.members {
		if m.Key == key {
			v.members[i].Value = value
			return true
		}
	}
	v.members = append(v.members, Member{Key: key, Value: value})
	return true
}

// Delete removes every member named key and reports whether one existed.
func (v *Value) Delete(key string) bool {
	if v.kind != Object {
		return false
	}
	kept := v.members[:0]
	for _, m := range v.members {
		if m.Key != key {
			kept = append(kept, m)
		}
	}
	removed := len(kept) != len(v.members)
	v.members = kept
	return removed
}

// Find searches v for the first member named name, pre-order and depth-first:
// members are visited in document order, each member's key is checked before
// its value is descended into, and array elements are visited in order.
func (v *Value) Find(name string) (*Value, bool) {
	switch v.kind {
	case Object:
		for _, m := range v.members {
			if m.Key == name {
				return m.Value, true
			}
			if found, ok := m.Value.Find(name); ok {
				return found, true
			}
		}
	case Array:
		for _, item := range v.items {
			if found, ok := item.Find(name); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// MarshalJSON serializes v compactly, preserving member order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the compact JSON form of v.
func (v *Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}

func (v *Value) write(buf *bytes.Buffer) error {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool, Number:
		buf.WriteString(v.scalar)
	case String:
		return writeString(buf, v.scalar)
	case Object:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.write(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.write(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unknown kind %d", v.kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.WriteString(strings.TrimSuffix(sb.String(), "\n"))
	return nil
}
