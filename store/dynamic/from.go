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
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// From converts a Go value into a Value. Slices and arrays become lists
// and Go maps become maps whose entries are sorted by their formatted
// key, since Go map iteration order is random. Nil pointers, slices and
// maps become NULL.
func From(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []byte:
		if t == nil {
			return Null(), nil
		}
		return Bytes(t), nil
	case decimal.Decimal:
		return Decimal(t), nil
	case uuid.UUID:
		return UUID(t), nil
	case time.Time:
		return Time(t), nil
	}
	return fromReflect(reflect.ValueOf(v))
}

// MustFrom is like From but panics on unsupported values.
func MustFrom(v any) Value {
	dv, err := From(v)
	if err != nil {
		panic(err)
	}
	return dv
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return From(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		elems := make([]Value, rv.Len())
		for i := range elems {
			e, err := From(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			elems[i] = e
		}
		return List(elems...), nil
	case reflect.Map:
		if rv.IsNil() {
			return Null(), nil
		}
		entries := make([]Entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, err := From(iter.Key().Interface())
			if err != nil {
				return Value{}, err
			}
			v, err := From(iter.Value().Interface())
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry{Key: k, Value: v})
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Key.String() < entries[j].Key.String()
		})
		return Map(entries...), nil
	}
	return Value{}, ErrInvalidConversion.New(rv.Type(), fmt.Sprintf("%v", rv.Interface()), "dynamic value")
}
