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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/colblock/config"
	"github.com/dolthub/colblock/store/block"
	"github.com/dolthub/colblock/store/dynamic"
	"github.com/dolthub/colblock/store/types"
	"github.com/dolthub/colblock/store/val"
)

func mustParse(t *testing.T, reg *types.Registry, sig string) *types.Type {
	typ, err := reg.Parse(sig)
	require.NoError(t, err)
	return typ
}

func mustJSON(t *testing.T, doc string) []dynamic.Value {
	v, err := dynamic.FromJSON([]byte(doc))
	require.NoError(t, err)
	vals, err := v.AsList()
	require.NoError(t, err)
	return vals
}

func TestNewBuilder(t *testing.T) {
	reg := types.NewRegistry()
	tests := []struct {
		sig  string
		kind block.Kind
	}{
		{"bigint", block.FixedWidthKind},
		{"varchar", block.VariableWidthKind},
		{"varchar(10)", block.VariableWidthKind},
		{"decimal(10,2)", block.FixedWidthKind},
		{"decimal(30,2)", block.VariableWidthKind},
		{"uuid", block.FixedWidthKind},
		{"array(bigint)", block.ArrayKind},
		{"array(array(varchar))", block.ArrayKind},
		{"map(varchar,bigint)", block.MapKind},
		{"map(bigint,map(varchar,double))", block.MapKind},
	}

	for _, test := range tests {
		t.Run(test.sig, func(t *testing.T) {
			bld, err := NewBuilder(mustParse(t, reg, test.sig), 8)
			require.NoError(t, err)
			assert.Equal(t, test.kind, bld.Kind())
			assert.Equal(t, 0, bld.Count())
		})
	}
}

func TestNewBuilderWithStatus(t *testing.T) {
	reg := types.NewRegistry()
	typ := mustParse(t, reg, "array(bigint)")
	cfg := config.Default()
	cfg.MaxBlockSize = 64

	status := NewStatus(cfg)
	bld, err := NewBuilderWithConfig(typ, 4, cfg, status)
	require.NoError(t, err)

	rows := 0
	for !status.Full() {
		require.NoError(t, AppendValue(typ, dynamic.List(dynamic.Int(1), dynamic.Int(2)), bld))
		rows++
	}
	// each row is two 8 byte elements and a 4 byte offset
	assert.Equal(t, 4, rows)
	assert.Equal(t, uint64(80), status.Size())

	bld, err = NewBuilderWithStatus(typ, 0, block.NewStatus(0))
	require.NoError(t, err)
	assert.Equal(t, block.ArrayKind, bld.Kind())
}

func TestAppendScalar(t *testing.T) {
	reg := types.NewRegistry()
	typ := mustParse(t, reg, "bigint")

	blk, err := BlockOf(typ, dynamic.Int(1), dynamic.Null(), dynamic.Int(3))
	require.NoError(t, err)
	require.Equal(t, 3, blk.Count())
	assert.False(t, blk.IsNull(0))
	assert.True(t, blk.IsNull(1))
	assert.False(t, blk.IsNull(2))

	vals, err := ReadAll(typ, blk)
	require.NoError(t, err)
	assert.True(t, dynamic.List(vals...).Equals(dynamic.List(dynamic.Int(1), dynamic.Null(), dynamic.Int(3))))
}

func TestAppendArray(t *testing.T) {
	reg := types.NewRegistry()
	typ := mustParse(t, reg, "array(bigint)")

	blk, err := BlockOf(typ, mustJSON(t, `[[1,2], [], null, [3]]`)...)
	require.NoError(t, err)
	arr := blk.(*block.ArrayBlock)
	assert.Equal(t, 4, arr.Count())
	assert.Equal(t, val.Offsets{0, 2, 2, 2, 3}, arr.Offsets())
	assert.True(t, arr.IsNull(2))
	assert.False(t, arr.IsNull(1))

	v, err := ReadValue(typ, blk, 0)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", v.String())
	v, err = ReadValue(typ, blk, 1)
	require.NoError(t, err)
	assert.Equal(t, "[]", v.String())
}

func TestAppendMap(t *testing.T) {
	reg := types.NewRegistry()
	typ := mustParse(t, reg, "map(varchar,bigint)")

	blk, err := BlockOf(typ, mustJSON(t, `[{"a":1,"b":2}, null]`)...)
	require.NoError(t, err)
	m := blk.(*block.MapBlock)
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, val.Offsets{0, 4, 4}, m.Offsets())
	assert.True(t, m.IsNull(1))

	entries := m.Entries()
	require.Equal(t, 4, entries.Count())
	expected := []dynamic.Value{dynamic.String("a"), dynamic.Int(1), dynamic.String("b"), dynamic.Int(2)}
	elemTypes := []*types.Type{typ.KeyType(), typ.ValueType(), typ.KeyType(), typ.ValueType()}
	for p := range expected {
		v, err := ReadValue(elemTypes[p], entries, p)
		require.NoError(t, err)
		assert.True(t, expected[p].Equals(v), "position %d: %s", p, v)
	}

	v, err := ReadValue(typ, blk, 0)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1, "b": 2}`, v.String())
}

func TestAppendNested(t *testing.T) {
	reg := types.NewRegistry()
	typ := mustParse(t, reg, "map<varchar,array<map<bigint,varchar>>>")

	doc := `[{"x": [{"1": "one"}, null, {}], "y": null}, {}]`
	rows := mustJSON(t, doc)
	// JSON keys are strings, so rebuild the inner maps with integer keys.
	inner := dynamic.Map(dynamic.Entry{Key: dynamic.Int(1), Value: dynamic.String("one")})
	row := dynamic.Map(
		dynamic.Entry{Key: dynamic.String("x"), Value: dynamic.List(inner, dynamic.Null(), dynamic.Map())},
		dynamic.Entry{Key: dynamic.String("y"), Value: dynamic.Null()},
	)
	_, err := BlockOf(typ, rows...)
	assert.True(t, dynamic.ErrInvalidConversion.Is(err), "%v", err)

	blk, err := BlockOf(typ, row, rows[1])
	require.NoError(t, err)
	vals, err := ReadAll(typ, blk)
	require.NoError(t, err)
	require.Len(t, vals, 2)
	assert.True(t, row.Equals(vals[0]), vals[0].String())
	assert.True(t, dynamic.Map().Equals(vals[1]), vals[1].String())
}

func TestAppendScalarRoundTrip(t *testing.T) {
	reg := types.NewRegistry()
	ts := time.Date(2021, 3, 4, 5, 6, 7, 8000, time.UTC)
	id := uuid.MustParse("7b2a9a1c-3d3e-4f5a-8b9c-0d1e2f3a4b5c")

	tests := []struct {
		sig   string
		input dynamic.Value
		read  dynamic.Value
	}{
		{"boolean", dynamic.Bool(true), dynamic.Bool(true)},
		{"tinyint", dynamic.Int(-128), dynamic.Int(-128)},
		{"smallint", dynamic.Uint(300), dynamic.Int(300)},
		{"integer", dynamic.Float(7), dynamic.Int(7)},
		{"bigint", dynamic.Int(1 << 40), dynamic.Int(1 << 40)},
		{"real", dynamic.Float(1.5), dynamic.Float(1.5)},
		{"double", dynamic.Int(2), dynamic.Float(2)},
		{"varchar", dynamic.String("héllo"), dynamic.String("héllo")},
		{"varchar(5)", dynamic.String("héllo"), dynamic.String("héllo")},
		{"varbinary", dynamic.String("raw"), dynamic.Bytes([]byte("raw"))},
		{"decimal(10,2)", dynamic.String("12.345"), dynamic.Decimal(decimal.RequireFromString("12.35"))},
		{"decimal(5)", dynamic.Int(-99999), dynamic.Decimal(decimal.NewFromInt(-99999))},
		{"decimal(30,4)", dynamic.String("12345678901234567890.12345"), dynamic.Decimal(decimal.RequireFromString("12345678901234567890.1235"))},
		{"uuid", dynamic.String(id.String()), dynamic.UUID(id)},
		{"timestamp", dynamic.String("2021-03-04T05:06:07.000008Z"), dynamic.Time(ts)},
	}

	for _, test := range tests {
		t.Run(test.sig, func(t *testing.T) {
			typ := mustParse(t, reg, test.sig)
			blk, err := BlockOf(typ, test.input, dynamic.Null())
			require.NoError(t, err)

			v, err := ReadValue(typ, blk, 0)
			require.NoError(t, err)
			assert.True(t, test.read.Equals(v), "expected %s, got %s", test.read, v)

			v, err = ReadValue(typ, blk, 1)
			require.NoError(t, err)
			assert.True(t, v.IsNull())
		})
	}
}

func TestAppendErrors(t *testing.T) {
	reg := types.NewRegistry()
	tests := []struct {
		name  string
		sig   string
		input dynamic.Value
		kind  interface{ Is(error) bool }
	}{
		{"string into bigint", "bigint", dynamic.String("abc"), dynamic.ErrInvalidConversion},
		{"fraction into bigint", "bigint", dynamic.Float(1.5), dynamic.ErrInvalidConversion},
		{"tinyint overflow", "tinyint", dynamic.Int(128), ErrValueOutOfRange},
		{"smallint underflow", "smallint", dynamic.Int(-40000), ErrValueOutOfRange},
		{"integer overflow", "integer", dynamic.Uint(1 << 40), ErrValueOutOfRange},
		{"real overflow", "real", dynamic.Float(1e300), ErrValueOutOfRange},
		{"varchar too long", "varchar(3)", dynamic.String("abcd"), ErrValueOutOfRange},
		{"bool from int", "boolean", dynamic.Int(1), dynamic.ErrInvalidConversion},
		{"malformed uuid", "uuid", dynamic.String("xyz"), dynamic.ErrInvalidConversion},
		{"malformed timestamp", "timestamp", dynamic.String("yesterday"), dynamic.ErrInvalidConversion},
		{"timestamp after range", "timestamp", dynamic.Time(time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)), ErrValueOutOfRange},
		{"timestamp before range", "timestamp", dynamic.Time(time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)), ErrValueOutOfRange},
		{"short decimal precision", "decimal(4,2)", dynamic.String("123.45"), ErrValueOutOfRange},
		{"long decimal precision", "decimal(20,0)", dynamic.String("123456789012345678901"), ErrValueOutOfRange},
		{"list for scalar", "bigint", dynamic.List(dynamic.Int(1)), ErrTypeMismatch},
		{"scalar for array", "array(bigint)", dynamic.Int(1), ErrTypeMismatch},
		{"list for map", "map(bigint,bigint)", dynamic.List(), ErrTypeMismatch},
		{"bad element", "array(tinyint)", dynamic.List(dynamic.Int(1), dynamic.Int(1000)), ErrValueOutOfRange},
		{"null map key", "map(varchar,bigint)", dynamic.Map(dynamic.Entry{Key: dynamic.Null(), Value: dynamic.Int(1)}), block.ErrNullMapKey},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			typ := mustParse(t, reg, test.sig)
			bld, err := NewBuilder(typ, 1)
			require.NoError(t, err)
			err = AppendValue(typ, test.input, bld)
			assert.True(t, test.kind.Is(err), "%v", err)
		})
	}
}

func TestAppendBuilderMismatch(t *testing.T) {
	reg := types.NewRegistry()
	bigint := mustParse(t, reg, "bigint")
	varchar := mustParse(t, reg, "varchar")
	arr := mustParse(t, reg, "array(bigint)")
	m := mustParse(t, reg, "map(bigint,bigint)")

	arrBld, err := NewBuilder(arr, 1)
	require.NoError(t, err)
	strBld, err := NewBuilder(varchar, 1)
	require.NoError(t, err)

	err = AppendValue(bigint, dynamic.Int(1), arrBld)
	assert.True(t, ErrBuilderMismatch.Is(err))
	err = AppendValue(bigint, dynamic.Int(1), strBld)
	assert.True(t, ErrBuilderMismatch.Is(err))
	err = AppendValue(arr, dynamic.List(), strBld)
	assert.True(t, ErrBuilderMismatch.Is(err))
	err = AppendValue(m, dynamic.Map(), arrBld)
	assert.True(t, ErrBuilderMismatch.Is(err))

	// NULLs are accepted by every builder
	assert.NoError(t, AppendValue(m, dynamic.Null(), arrBld))
}

func TestAppendAfterBuild(t *testing.T) {
	reg := types.NewRegistry()
	typ := mustParse(t, reg, "map(varchar,bigint)")
	bld, err := NewBuilder(typ, 1)
	require.NoError(t, err)
	_, err = bld.Build()
	require.NoError(t, err)

	err = AppendValue(typ, dynamic.Map(), bld)
	assert.True(t, block.ErrBuilderAlreadyBuilt.Is(err))
	err = AppendValue(typ, dynamic.Null(), bld)
	assert.True(t, block.ErrBuilderAlreadyBuilt.Is(err))
}
