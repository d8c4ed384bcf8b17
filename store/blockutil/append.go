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

package blockutil

import (
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/dolthub/colblock/store/block"
	"github.com/dolthub/colblock/store/dynamic"
	"github.com/dolthub/colblock/store/types"
	"github.com/dolthub/colblock/store/val"
)

// AppendValue appends |v| as a value of |typ| to |bld|, which must have
// been created for |typ|. Arrays and maps are appended recursively; map
// entries are appended in the order of |v|.
//
// A builder that returned an error may hold a partial position and must
// not be built.
func AppendValue(typ *types.Type, v dynamic.Value, bld block.Builder) error {
	if v.IsNull() {
		return bld.AppendNull()
	}

	switch typ.Category() {
	case types.ScalarCategory:
		sb, ok := bld.(*block.ScalarBuilder)
		if !ok || sb.Encoding() != typ.Encoding() {
			return ErrBuilderMismatch.New(bld.Kind(), "builder", typ)
		}
		if k := v.Kind(); k == dynamic.ListKind || k == dynamic.MapKind {
			return ErrTypeMismatch.New(typ.Category(), typ, k)
		}
		return appendScalar(typ, v, sb)

	case types.ArrayCategory:
		ab, ok := bld.(*block.ArrayBuilder)
		if !ok {
			return ErrBuilderMismatch.New(bld.Kind(), "builder", typ)
		}
		elems, err := v.AsList()
		if err != nil {
			return ErrTypeMismatch.New(typ.Category(), typ, v.Kind())
		}
		eb, err := ab.BeginEntry()
		if err != nil {
			return err
		}
		for _, e := range elems {
			if err = AppendValue(typ.ElementType(), e, eb); err != nil {
				return err
			}
		}
		return ab.EndEntry()

	case types.MapCategory:
		mb, ok := bld.(*block.MapBuilder)
		if !ok {
			return ErrBuilderMismatch.New(bld.Kind(), "builder", typ)
		}
		entries, err := v.AsMap()
		if err != nil {
			return ErrTypeMismatch.New(typ.Category(), typ, v.Kind())
		}
		eb, err := mb.BeginEntry()
		if err != nil {
			return err
		}
		if err = appendEntries(typ.KeyType(), typ.ValueType(), entries, eb); err != nil {
			return err
		}
		return mb.EndEntry()
	}

	return ErrTypeMismatch.New(typ.Category(), typ, v.Kind())
}

func appendEntries(keyType, valueType *types.Type, entries []dynamic.Entry, eb *block.InterleavedBuilder) error {
	for _, e := range entries {
		if e.Key.IsNull() {
			return block.ErrNullMapKey.New()
		}
		kb, err := eb.BeginKey()
		if err != nil {
			return err
		}
		if err = AppendValue(keyType, e.Key, kb); err != nil {
			return err
		}
		vb, err := eb.BeginValue()
		if err != nil {
			return err
		}
		if err = AppendValue(valueType, e.Value, vb); err != nil {
			return err
		}
	}
	return nil
}

func appendScalar(typ *types.Type, v dynamic.Value, sb *block.ScalarBuilder) error {
	switch typ.Encoding() {
	case val.BoolEnc:
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		return sb.AppendBool(b)

	case val.Int8Enc:
		i, err := intInRange(typ, v, math.MinInt8, math.MaxInt8)
		if err != nil {
			return err
		}
		return sb.AppendInt8(int8(i))

	case val.Int16Enc:
		i, err := intInRange(typ, v, math.MinInt16, math.MaxInt16)
		if err != nil {
			return err
		}
		return sb.AppendInt16(int16(i))

	case val.Int32Enc:
		i, err := intInRange(typ, v, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		return sb.AppendInt32(int32(i))

	case val.Int64Enc:
		if typ.Name() == types.DecimalName {
			unscaled, _, err := decimalInRange(typ, v)
			if err != nil {
				return err
			}
			return sb.AppendInt64(unscaled.Int64())
		}
		i, err := v.AsInt64()
		if err != nil {
			return err
		}
		return sb.AppendInt64(i)

	case val.Float32Enc:
		f, err := v.AsFloat64()
		if err != nil {
			return err
		}
		if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
			return ErrValueOutOfRange.New(v, typ)
		}
		return sb.AppendFloat32(float32(f))

	case val.Float64Enc:
		f, err := v.AsFloat64()
		if err != nil {
			return err
		}
		return sb.AppendFloat64(f)

	case val.StringEnc:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		if n, ok := typ.Literal(0); ok && int64(utf8.RuneCountInString(s)) > n {
			return ErrValueOutOfRange.New(v, typ)
		}
		return sb.AppendString(s)

	case val.BytesEnc:
		b, err := v.AsBytes()
		if err != nil {
			return err
		}
		return sb.AppendBytes(b)

	case val.DecimalEnc:
		_, d, err := decimalInRange(typ, v)
		if err != nil {
			return err
		}
		return sb.AppendValue(val.EncodeDecimal(d))

	case val.UUIDEnc:
		u, err := v.AsUUID()
		if err != nil {
			return err
		}
		return sb.AppendUUID(u)

	case val.TimestampEnc:
		t, err := v.AsTime()
		if err != nil {
			return err
		}
		if !val.TimestampInRange(t) {
			return ErrValueOutOfRange.New(v, typ)
		}
		return sb.AppendTimestamp(t)
	}

	return ErrBuilderMismatch.New(sb.Kind(), "builder", typ)
}

func intInRange(typ *types.Type, v dynamic.Value, lo, hi int64) (int64, error) {
	i, err := v.AsInt64()
	if err != nil {
		return 0, err
	}
	if i < lo || i > hi {
		return 0, ErrValueOutOfRange.New(v, typ)
	}
	return i, nil
}

// decimalInRange rounds |v| to the scale of |typ| and checks that it has
// at most precision digits. It returns the unscaled value and the rounded
// decimal.
func decimalInRange(typ *types.Type, v dynamic.Value) (*big.Int, decimal.Decimal, error) {
	d, err := v.AsDecimal()
	if err != nil {
		return nil, decimal.Decimal{}, err
	}
	precision, _ := typ.Literal(0)
	scale, _ := typ.Literal(1)

	d = d.Round(int32(scale))
	unscaled := d.Shift(int32(scale)).BigInt()
	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(precision), nil)
	if new(big.Int).Abs(unscaled).Cmp(bound) >= 0 {
		return nil, decimal.Decimal{}, ErrValueOutOfRange.New(v, typ)
	}
	return unscaled, d, nil
}
