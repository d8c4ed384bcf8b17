// Copyright 2021 Dolthub, Inc.
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

// Package dynamic holds the untyped values that are appended to and read
// back from blocks. A Value is one of a closed set of shapes; converting
// it to a concrete Go type is checked and never silently coerces.
package dynamic

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/src-d/go-errors.v1"
)

// ErrInvalidConversion is returned when a Value cannot be represented as
// the requested Go type.
var ErrInvalidConversion = errors.NewKind("cannot convert %s value %s to %s")

// Kind is the shape of a Value.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	UintKind
	FloatKind
	StringKind
	BytesKind
	DecimalKind
	UUIDKind
	TimeKind
	ListKind
	MapKind
)

var kindNames = [...]string{
	NullKind:    "null",
	BoolKind:    "bool",
	IntKind:     "int",
	UintKind:    "uint",
	FloatKind:   "float",
	StringKind:  "string",
	BytesKind:   "bytes",
	DecimalKind: "decimal",
	UUIDKind:    "uuid",
	TimeKind:    "time",
	ListKind:    "list",
	MapKind:     "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("unknown(%d)", k)
}

// Value is an immutable dynamic value. The zero Value is NULL.
type Value struct {
	kind Kind
	v    any
}

// Entry is a single key/value pair of a map Value.
type Entry struct {
	Key   Value
	Value Value
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: BoolKind, v: b} }

func Int(i int64) Value { return Value{kind: IntKind, v: i} }

func Uint(u uint64) Value { return Value{kind: UintKind, v: u} }

func Float(f float64) Value { return Value{kind: FloatKind, v: f} }

func String(s string) Value { return Value{kind: StringKind, v: s} }

func Bytes(b []byte) Value { return Value{kind: BytesKind, v: b} }

func Decimal(d decimal.Decimal) Value { return Value{kind: DecimalKind, v: d} }

func UUID(u uuid.UUID) Value { return Value{kind: UUIDKind, v: u} }

func Time(t time.Time) Value { return Value{kind: TimeKind, v: t} }

// List returns a list Value of |elems| in order.
func List(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: ListKind, v: elems}
}

// Map returns a map Value of |entries|. Entries keep the order they are
// given in and duplicate keys are kept.
func Map(entries ...Entry) Value {
	if entries == nil {
		entries = []Entry{}
	}
	return Value{kind: MapKind, v: entries}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == NullKind
}

func (v Value) invalid(target string) error {
	return ErrInvalidConversion.New(v.kind, v.String(), target)
}

func (v Value) AsBool() (bool, error) {
	if v.kind == BoolKind {
		return v.v.(bool), nil
	}
	return false, v.invalid("bool")
}

// AsInt64 converts integral numbers that fit in an int64. Floats and
// decimals with a fractional part are rejected.
func (v Value) AsInt64() (int64, error) {
	switch v.kind {
	case IntKind:
		return v.v.(int64), nil
	case UintKind:
		if u := v.v.(uint64); u <= math.MaxInt64 {
			return int64(u), nil
		}
	case FloatKind:
		f := v.v.(float64)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), nil
		}
	case DecimalKind:
		d := v.v.(decimal.Decimal)
		if d.IsInteger() && d.BigInt().IsInt64() {
			return d.BigInt().Int64(), nil
		}
	}
	return 0, v.invalid("int64")
}

// AsUint64 converts non-negative integral numbers that fit in a uint64.
func (v Value) AsUint64() (uint64, error) {
	switch v.kind {
	case UintKind:
		return v.v.(uint64), nil
	case IntKind:
		if i := v.v.(int64); i >= 0 {
			return uint64(i), nil
		}
	case FloatKind:
		f := v.v.(float64)
		if f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 {
			return uint64(f), nil
		}
	case DecimalKind:
		d := v.v.(decimal.Decimal)
		if d.IsInteger() && d.Sign() >= 0 && d.BigInt().IsUint64() {
			return d.BigInt().Uint64(), nil
		}
	}
	return 0, v.invalid("uint64")
}

func (v Value) AsFloat64() (float64, error) {
	switch v.kind {
	case FloatKind:
		return v.v.(float64), nil
	case IntKind:
		return float64(v.v.(int64)), nil
	case UintKind:
		return float64(v.v.(uint64)), nil
	case DecimalKind:
		return v.v.(decimal.Decimal).InexactFloat64(), nil
	}
	return 0, v.invalid("float64")
}

func (v Value) AsString() (string, error) {
	if v.kind == StringKind {
		return v.v.(string), nil
	}
	return "", v.invalid("string")
}

// AsBytes returns the bytes of a bytes or string Value.
func (v Value) AsBytes() ([]byte, error) {
	switch v.kind {
	case BytesKind:
		return v.v.([]byte), nil
	case StringKind:
		return []byte(v.v.(string)), nil
	}
	return nil, v.invalid("bytes")
}

// AsDecimal converts numbers and numeric strings.
func (v Value) AsDecimal() (decimal.Decimal, error) {
	switch v.kind {
	case DecimalKind:
		return v.v.(decimal.Decimal), nil
	case IntKind:
		return decimal.NewFromInt(v.v.(int64)), nil
	case UintKind:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v.v.(uint64)), 0), nil
	case FloatKind:
		f := v.v.(float64)
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			return decimal.NewFromFloat(f), nil
		}
	case StringKind:
		if d, err := decimal.NewFromString(strings.TrimSpace(v.v.(string))); err == nil {
			return d, nil
		}
	}
	return decimal.Decimal{}, v.invalid("decimal")
}

// AsUUID converts uuids, their string forms and 16 byte values.
func (v Value) AsUUID() (uuid.UUID, error) {
	switch v.kind {
	case UUIDKind:
		return v.v.(uuid.UUID), nil
	case StringKind:
		if u, err := uuid.Parse(v.v.(string)); err == nil {
			return u, nil
		}
	case BytesKind:
		if u, err := uuid.FromBytes(v.v.([]byte)); err == nil {
			return u, nil
		}
	}
	return uuid.UUID{}, v.invalid("uuid")
}

// AsTime converts times and RFC 3339 strings.
func (v Value) AsTime() (time.Time, error) {
	switch v.kind {
	case TimeKind:
		return v.v.(time.Time), nil
	case StringKind:
		if t, err := time.Parse(time.RFC3339Nano, v.v.(string)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, v.invalid("time")
}

// AsList returns the elements of a list Value.
func (v Value) AsList() ([]Value, error) {
	if v.kind == ListKind {
		return v.v.([]Value), nil
	}
	return nil, v.invalid("list")
}

// AsMap returns the entries of a map Value in order.
func (v Value) AsMap() ([]Entry, error) {
	if v.kind == MapKind {
		return v.v.([]Entry), nil
	}
	return nil, v.invalid("map")
}

// Equals returns true if |v| and |other| have the same kind and equal
// contents. Map entries are compared in order.
func (v Value) Equals(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case NullKind:
		return true
	case BytesKind:
		return string(v.v.([]byte)) == string(other.v.([]byte))
	case DecimalKind:
		return v.v.(decimal.Decimal).Equal(other.v.(decimal.Decimal))
	case TimeKind:
		return v.v.(time.Time).Equal(other.v.(time.Time))
	case ListKind:
		l, r := v.v.([]Value), other.v.([]Value)
		if len(l) != len(r) {
			return false
		}
		for i := range l {
			if !l[i].Equals(r[i]) {
				return false
			}
		}
		return true
	case MapKind:
		l, r := v.v.([]Entry), other.v.([]Entry)
		if len(l) != len(r) {
			return false
		}
		for i := range l {
			if !l[i].Key.Equals(r[i].Key) || !l[i].Value.Equals(r[i].Value) {
				return false
			}
		}
		return true
	default:
		return v.v == other.v
	}
}

func (v Value) String() string {
	var sb strings.Builder
	v.format(&sb)
	return sb.String()
}

func (v Value) format(sb *strings.Builder) {
	switch v.kind {
	case NullKind:
		sb.WriteString("NULL")
	case StringKind:
		fmt.Fprintf(sb, "%q", v.v.(string))
	case BytesKind:
		sb.WriteString("0x")
		sb.WriteString(hex.EncodeToString(v.v.([]byte)))
	case TimeKind:
		sb.WriteString(v.v.(time.Time).UTC().Format(time.RFC3339Nano))
	case ListKind:
		sb.WriteByte('[')
		for i, e := range v.v.([]Value) {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.format(sb)
		}
		sb.WriteByte(']')
	case MapKind:
		sb.WriteByte('{')
		for i, e := range v.v.([]Entry) {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.Key.format(sb)
			sb.WriteString(": ")
			e.Value.format(sb)
		}
		sb.WriteByte('}')
	default:
		fmt.Fprint(sb, v.v)
	}
}
