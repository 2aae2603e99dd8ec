// Copyright 2024 The ReadySet Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package value contains the scalar column value type shared by the
// writer and the materialized-state engine. It is deliberately small:
// callers outside this module never need to construct a Value from
// anything other than the Kind constructors below.
package value

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strconv"
	"time"
)

// Kind identifies which field of a Value is populated.
type Kind uint8

// The set of scalar kinds a base table column may hold. None is the
// distinguished null variant, used both for SQL NULL and as the default
// value injected for dropped columns.
const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindText
	KindBytes
	KindTimestamp
)

// Value is a sum type over the column values of the database. It is
// comparable so that it can be used directly as (part of) a Go map key,
// which KeyedState relies on. Raw byte payloads are therefore kept in
// the same string-typed field text uses rather than a []byte, which
// would make Value incomparable.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// None is the null/default value.
var None = Value{kind: KindNone}

// Int constructs an integer Value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float constructs a floating-point Value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text constructs a text Value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Bytes constructs an opaque binary Value.
func Bytes(v []byte) Value { return Value{kind: KindBytes, s: string(v)} }

// Timestamp constructs a Value holding an instant in time, truncated to
// nanosecond precision.
func Timestamp(v time.Time) Value { return Value{kind: KindTimestamp, i: v.UnixNano()} }

// Kind reports which variant the Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether this is the null/default variant.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Int returns the integer payload; valid only when Kind() == KindInt.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload; valid only when Kind() == KindFloat.
func (v Value) Float() float64 { return v.f }

// Text returns the text payload; valid only when Kind() == KindText.
func (v Value) Text() string { return v.s }

// Raw returns the binary payload; valid only when Kind() == KindBytes.
func (v Value) Raw() []byte { return []byte(v.s) }

// AsTime returns the time payload; valid only when Kind() == KindTimestamp.
func (v Value) AsTime() time.Time { return time.Unix(0, v.i).UTC() }

// Bytes returns a canonical byte encoding of the value, used for hashing
// (shard.By). It is not intended to be human-readable.
func (v Value) Bytes() []byte {
	switch v.kind {
	case KindNone:
		return []byte{byte(KindNone)}
	case KindInt:
		return append([]byte{byte(KindInt)}, strconv.AppendInt(nil, v.i, 10)...)
	case KindFloat:
		return append([]byte{byte(KindFloat)}, strconv.AppendFloat(nil, v.f, 'g', -1, 64)...)
	case KindText, KindBytes:
		return append([]byte{byte(v.kind)}, v.s...)
	case KindTimestamp:
		return append([]byte{byte(KindTimestamp)}, strconv.AppendInt(nil, v.i, 10)...)
	default:
		panic(fmt.Sprintf("value: unknown kind %d", v.kind))
	}
}

// String implements fmt.Stringer so that Values can be dropped directly
// into logrus fields without extra formatting at call sites.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	case KindBytes:
		return fmt.Sprintf("%x", v.s)
	case KindTimestamp:
		return v.AsTime().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("<unknown kind %d>", v.kind)
	}
}

// gobValue mirrors Value's private fields with exported names so
// encoding/gob, which only ever sees exported struct fields, has
// something to encode. Value implements GobEncoder/GobDecoder in terms
// of it rather than exporting its own fields, keeping construction
// funneled through the Kind constructors above.
type gobValue struct {
	Kind Kind
	I    int64
	F    float64
	S    string
}

// GobEncode implements gob.GobEncoder.
func (v Value) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(gobValue{Kind: v.kind, I: v.i, F: v.f, S: v.s})
	return buf.Bytes(), err
}

// GobDecode implements gob.GobDecoder.
func (v *Value) GobDecode(data []byte) error {
	var aux gobValue
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&aux); err != nil {
		return err
	}
	v.kind, v.i, v.f, v.s = aux.Kind, aux.I, aux.F, aux.S
	return nil
}

// Row is an ordered sequence of column values, its arity equal to the
// base table's declared column count.
type Row []Value

// Clone returns a shallow copy of the row. Values are themselves
// immutable and comparable, so a slice copy is a full deep copy.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}
