// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"fmt"
	"sort"
	"time"
)

// Kind tags the variants of [Value]. The set is closed: backends produce
// values of these kinds and nothing else, and the decoder switches
// exhaustively over them.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
	KindTime
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindBlob:
		return "blob"
	}
	return fmt.Sprintf("unknown kind %d", uint8(k))
}

// Value is a single SQL value: a tagged union over the primitive column
// types supported by the system. Values are immutable once constructed and
// comparable with ==; binary payloads are held as immutable strings for
// that reason. No coercion between tags happens at this layer; typing is
// the compiler's job upstream and the decoder's job downstream.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	t    time.Time
	blob string
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Int64 returns an integer value.
func Int64(v int64) Value { return Value{kind: KindInt, i: v} }

// Float64 returns a floating point value.
func Float64(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns a text value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Time returns a timestamp value.
func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

// Blob returns a binary value. The bytes are copied.
func Blob(v []byte) Value { return Value{kind: KindBlob, blob: string(v)} }

// Kind returns the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int64 returns the integer payload. It is only meaningful for KindInt.
func (v Value) Int64() int64 { return v.i }

// Float64 returns the floating point payload. It is only meaningful for
// KindFloat.
func (v Value) Float64() float64 { return v.f }

// Text returns the text payload. It is only meaningful for KindText.
func (v Value) Text() string { return v.s }

// Bool returns the boolean payload. It is only meaningful for KindBool.
func (v Value) Bool() bool { return v.b }

// Time returns the timestamp payload. It is only meaningful for KindTime.
func (v Value) Time() time.Time { return v.t }

// Blob returns a copy of the binary payload. It is only meaningful for
// KindBlob.
func (v Value) Blob() []byte { return []byte(v.blob) }

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindText:
		return fmt.Sprintf("%q", v.s)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindBlob:
		return fmt.Sprintf("blob[%d]", len(v.blob))
	}
	return fmt.Sprintf("invalid value (kind %d)", uint8(v.kind))
}

// blobString exposes the binary payload without copying; decoding uses it
// to avoid churning allocations on every row.
func (v Value) blobString() string {
	return v.blob
}

// driverArg converts the value into an argument understood by database/sql
// drivers.
func (v Value) driverArg() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindBlob:
		return []byte(v.blob)
	}
	return nil
}

// Param is a value bound into a parameterized statement at a fixed 1-based
// ordinal position. Params are constructed by the compiler and consumed by
// the backend; their lifetime is a single statement execution. How a param
// is physically bound (positional placeholder, numbered placeholder) is the
// backend's business.
type Param struct {
	Value
	Ordinal int
}

// Bind binds a value to the given 1-based statement position.
func Bind(ordinal int, v Value) Param { return Param{Value: v, Ordinal: ordinal} }

// Args orders params by their ordinal and converts them into database/sql
// arguments. All database/sql backed backends feed placeholders this way.
func Args(params []Param) []any {
	ordered := make([]Param, len(params))
	copy(ordered, params)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Ordinal < ordered[j].Ordinal })
	args := make([]any, 0, len(ordered))
	for _, p := range ordered {
		args = append(args, p.driverArg())
	}
	return args
}
