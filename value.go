// Copyright (c) 2026 Tushar Sadhwani.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package zlox

import (
	"strconv"
)

// ValueType discriminates the cases of Value.
type ValueType byte

// List of value types
const (
	ValueNil ValueType = iota
	ValueBool
	ValueNumber
	ValueObject
)

// Value is a tagged variant holding a number, a boolean, nil, or a reference
// to a heap object. Values are copied freely; object lifetime is managed by
// the GlobalContext, not by values.
type Value struct {
	Type ValueType
	Num  float32
	Bool bool
	Obj  Obj
}

// Predefined values.
var (
	Nil   = Value{Type: ValueNil}
	True  = Value{Type: ValueBool, Bool: true}
	False = Value{Type: ValueBool}
)

// NumberValue returns a Value holding n.
func NumberValue(n float32) Value {
	return Value{Type: ValueNumber, Num: n}
}

// BoolValue returns True or False.
func BoolValue(b bool) Value {
	if b {
		return True
	}
	return False
}

// ObjectValue returns a Value referencing o.
func ObjectValue(o Obj) Value {
	return Value{Type: ValueObject, Obj: o}
}

// TypeName returns the name of the value's type.
func (v Value) TypeName() string {
	switch v.Type {
	case ValueNil:
		return "nil"
	case ValueBool:
		return "bool"
	case ValueNumber:
		return "number"
	case ValueObject:
		return v.Obj.TypeName()
	}
	return "unknown"
}

// String formats the value the way the print statement does: numbers in
// shortest round-trip decimal, booleans as true/false, strings as their raw
// bytes without quotes.
func (v Value) String() string {
	switch v.Type {
	case ValueNil:
		return "nil"
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueNumber:
		return strconv.FormatFloat(float64(v.Num), 'g', -1, 32)
	case ValueObject:
		return v.Obj.String()
	}
	return "unknown"
}

// Equal reports whether v equals other. Values of different types are never
// equal. Strings compare by identity of their backing storage, which
// interning makes equivalent to byte equality.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValueNil:
		return true
	case ValueBool:
		return v.Bool == other.Bool
	case ValueNumber:
		return v.Num == other.Num
	case ValueObject:
		a, aok := v.Obj.(*ObjString)
		b, bok := other.Obj.(*ObjString)
		return aok && bok && sameStorage(a.Bytes, b.Bytes)
	}
	return false
}

// Obj is the interface of heap allocated values. Every Obj is registered in
// a GlobalContext's object list at allocation.
type Obj interface {
	// TypeName returns the name of the object's type.
	TypeName() string
	// String returns a string representation of the object.
	String() string
}

// ObjString is a heap allocated string. Bytes is canonical interned storage
// shared by every equal string in the same context.
type ObjString struct {
	Bytes []byte
}

var _ Obj = (*ObjString)(nil)

// TypeName implements Obj interface.
func (*ObjString) TypeName() string {
	return "string"
}

// String implements Obj interface.
func (o *ObjString) String() string {
	return string(o.Bytes)
}

// sameStorage reports whether a and b are views of the same backing array.
// Empty slices compare equal regardless of storage.
func sameStorage(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
