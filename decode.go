// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// ResultCol declares the expected type of one result column.
type ResultCol struct {
	Kind     Kind
	Nullable bool
}

// Col declares a non-nullable result column of the given kind.
func Col(k Kind) ResultCol { return ResultCol{Kind: k} }

// NullableCol declares a nullable result column of the given kind.
func NullableCol(k Kind) ResultCol { return ResultCol{Kind: k, Nullable: true} }

// ResultShape declares the arity and per-column types of a query result. It
// guides decoding only; it carries no runtime SQL semantics of its own.
type ResultShape []ResultCol

// Row is one decoded result tuple. Its values match the declared shape
// position by position.
type Row []Value

// DecodeError reports a mismatch between a returned row and the declared
// result shape: wrong arity, or a value whose tag cannot represent the
// declared column type. It always indicates a mismatch between the compiled
// query and the result type declaration, i.e. a programming error.
type DecodeError struct {
	// Column is the 1-based column at fault, or 0 when the whole row is
	// (arity mismatch).
	Column int
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Column == 0 {
		return fmt.Sprintf("cannot decode row: %s", e.Reason)
	}
	return fmt.Sprintf("cannot decode column %d: %s", e.Column, e.Reason)
}

// timeLayouts are the timestamp encodings accepted from engines that return
// timestamps as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// decodeRow decodes one raw backend row against the declared shape. Every
// conversion it performs is injective per value tag: a raw value either
// matches the declared kind, is one of the explicitly allowed driver
// representations of it, or the row fails to decode. Nothing is silently
// truncated or widened beyond the declared column type.
func decodeRow(shape ResultShape, raw []Value) (Row, error) {
	if len(raw) != len(shape) {
		return nil, &DecodeError{Reason: fmt.Sprintf("expected %d columns, got %d", len(shape), len(raw))}
	}
	row := make(Row, len(raw))
	for i, v := range raw {
		dv, ok := decodeValue(shape[i], v)
		if !ok {
			return nil, &DecodeError{Column: i + 1, Reason: fmt.Sprintf("have %s, want %s", v.Kind(), shape[i].Kind)}
		}
		row[i] = dv
	}
	return row, nil
}

// decodeValue converts one raw value to the declared column type. The
// allowed cross-tag conversions exist because database/sql drivers do not
// share a representation for every SQL type: sqlite stores booleans as
// integers, mysql returns text and timestamps as byte slices, and so on.
func decodeValue(col ResultCol, v Value) (Value, bool) {
	if v.Kind() == col.Kind {
		return v, true
	}
	if v.IsNull() {
		return v, col.Nullable
	}
	switch col.Kind {
	case KindBool:
		if v.Kind() == KindInt {
			switch v.Int64() {
			case 0:
				return Bool(false), true
			case 1:
				return Bool(true), true
			}
		}
	case KindFloat:
		if v.Kind() == KindInt {
			return Float64(float64(v.Int64())), true
		}
	case KindText:
		if v.Kind() == KindBlob && utf8.ValidString(v.blobString()) {
			return Text(v.blobString()), true
		}
	case KindTime:
		var s string
		switch v.Kind() {
		case KindText:
			s = v.Text()
		case KindBlob:
			s = v.blobString()
		default:
			return Value{}, false
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return Time(t), true
			}
		}
	}
	return Value{}, false
}
