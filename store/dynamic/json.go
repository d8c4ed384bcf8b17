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

package dynamic

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/src-d/go-errors.v1"
)

// ErrInvalidJSON is returned when a document cannot be decoded.
var ErrInvalidJSON = errors.NewKind("invalid JSON: %s")

// FromJSON decodes a JSON document. Objects become maps whose entries keep
// document order, integral numbers become ints (or uints past the int64
// range) and every other number a float.
func FromJSON(doc []byte) (Value, error) {
	if !gjson.ValidBytes(doc) {
		return Value{}, ErrInvalidJSON.New(truncate(string(doc), 64))
	}
	return fromResult(gjson.ParseBytes(doc)), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	case gjson.Number:
		return fromNumber(r)
	case gjson.String:
		return String(r.Str)
	}

	if r.IsArray() {
		elems := []Value{}
		r.ForEach(func(_, e gjson.Result) bool {
			elems = append(elems, fromResult(e))
			return true
		})
		return List(elems...)
	}

	entries := []Entry{}
	r.ForEach(func(k, e gjson.Result) bool {
		entries = append(entries, Entry{Key: String(k.Str), Value: fromResult(e)})
		return true
	})
	return Map(entries...)
}

func fromNumber(r gjson.Result) Value {
	raw := r.Raw
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Int(i)
		}
		if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return Uint(u)
		}
	}
	return Float(r.Num)
}

// ToJSON encodes |v| as JSON. Map entries keep their order, duplicate keys
// included, and their keys are written in their string form. NaN and
// infinite floats cannot be encoded. Bytes are base64 encoded, decimals are
// written as numbers and times as RFC 3339 strings.
func (v Value) ToJSON() ([]byte, error) {
	switch v.kind {
	case NullKind:
		return []byte("null"), nil
	case BoolKind:
		return strconv.AppendBool(nil, v.v.(bool)), nil
	case IntKind:
		return strconv.AppendInt(nil, v.v.(int64), 10), nil
	case UintKind:
		return strconv.AppendUint(nil, v.v.(uint64), 10), nil
	case FloatKind:
		f := v.v.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, v.invalid("json")
		}
		return scalarJSON(f)
	case StringKind:
		return quote(v.v.(string))
	case BytesKind:
		return quote(base64.StdEncoding.EncodeToString(v.v.([]byte)))
	case DecimalKind:
		return []byte(v.v.(decimal.Decimal).String()), nil
	case UUIDKind:
		return quote(v.v.(uuid.UUID).String())
	case TimeKind:
		return quote(v.v.(time.Time).UTC().Format(time.RFC3339Nano))
	case ListKind:
		doc := []byte("[]")
		for _, e := range v.v.([]Value) {
			raw, err := e.ToJSON()
			if err != nil {
				return nil, err
			}
			if doc, err = sjson.SetRawBytes(doc, "-1", raw); err != nil {
				return nil, err
			}
		}
		return doc, nil
	case MapKind:
		doc := []byte{'{'}
		for i, e := range v.v.([]Entry) {
			key, err := quote(jsonKey(e.Key))
			if err != nil {
				return nil, err
			}
			raw, err := e.Value.ToJSON()
			if err != nil {
				return nil, err
			}
			if i > 0 {
				doc = append(doc, ',')
			}
			doc = append(doc, key...)
			doc = append(doc, ':')
			doc = append(doc, raw...)
		}
		return append(doc, '}'), nil
	}
	return nil, v.invalid("json")
}

func quote(s string) ([]byte, error) {
	return scalarJSON(s)
}

// scalarJSON encodes a single string or number.
func scalarJSON(x interface{}) ([]byte, error) {
	doc, err := sjson.SetBytes([]byte("{}"), "v", x)
	if err != nil {
		return nil, err
	}
	return []byte(gjson.GetBytes(doc, "v").Raw), nil
}

func jsonKey(k Value) string {
	if k.kind == StringKind {
		return k.v.(string)
	}
	return k.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
