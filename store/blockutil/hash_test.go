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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/colblock/store/dynamic"
	"github.com/dolthub/colblock/store/types"
)

func TestHashPosition(t *testing.T) {
	reg := types.NewRegistry()

	tests := []struct {
		name  string
		sig   string
		left  string
		right string
		equal bool
	}{
		{"equal ints", "bigint", `[7]`, `[7]`, true},
		{"different ints", "bigint", `[7]`, `[8]`, false},
		{"nulls", "varchar", `[null]`, `[null]`, true},
		{"null and empty", "varchar", `[null]`, `[""]`, false},
		{"equal arrays", "array(varchar)", `[["a", null]]`, `[["a", null]]`, true},
		{"array split", "array(varchar)", `[["ab", "c"]]`, `[["a", "bc"]]`, false},
		{"array order", "array(bigint)", `[[1, 2]]`, `[[2, 1]]`, false},
		{"empty and null array", "array(bigint)", `[[]]`, `[null]`, false},
		{"equal maps", "map(varchar,bigint)", `[{"a": 1, "b": 2}]`, `[{"a": 1, "b": 2}]`, true},
		{"reordered maps", "map(varchar,bigint)", `[{"a": 1, "b": 2}]`, `[{"b": 2, "a": 1}]`, false},
		{"nested", "map(varchar,array(double))", `[{"a": [1.5]}]`, `[{"a": [1.5]}]`, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			typ := mustParse(t, reg, test.sig)
			l, err := BlockOf(typ, mustJSON(t, test.left)...)
			require.NoError(t, err)
			r, err := BlockOf(typ, mustJSON(t, test.right)...)
			require.NoError(t, err)

			eq, err := EqualPositions(typ, l, 0, r, 0)
			require.NoError(t, err)
			assert.Equal(t, test.equal, eq)

			lh, err := HashPosition(typ, l, 0)
			require.NoError(t, err)
			rh, err := HashPosition(typ, r, 0)
			require.NoError(t, err)
			if test.equal {
				assert.Equal(t, lh, rh)
			} else {
				assert.NotEqual(t, lh, rh)
			}
		})
	}
}

func TestHashFloatZero(t *testing.T) {
	reg := types.NewRegistry()
	for _, sig := range []string{"real", "double"} {
		typ := mustParse(t, reg, sig)
		blk, err := BlockOf(typ, dynamic.Float(0), dynamic.Float(math.Copysign(0, -1)), dynamic.Float(math.NaN()))
		require.NoError(t, err)

		eq, err := EqualPositions(typ, blk, 0, blk, 1)
		require.NoError(t, err)
		assert.True(t, eq)

		h0, err := HashPosition(typ, blk, 0)
		require.NoError(t, err)
		h1, err := HashPosition(typ, blk, 1)
		require.NoError(t, err)
		h2, err := HashPosition(typ, blk, 2)
		require.NoError(t, err)
		assert.Equal(t, h0, h1)
		assert.NotEqual(t, h0, h2)
	}
}

func TestEquivalentMaps(t *testing.T) {
	reg := types.NewRegistry()
	typ := mustParse(t, reg, "map(varchar,bigint)")

	blk, err := BlockOf(typ, mustJSON(t, `[
		{"a": 1, "b": 2, "c": 3},
		{"c": 3, "a": 1, "b": 2},
		{"a": 1, "b": 2, "c": 4},
		{"a": 1, "b": 2},
		null,
		{"a": 1, "a": 1, "b": 2},
		{"a": 1, "b": 2, "b": 2}
	]`)...)
	require.NoError(t, err)

	tests := []struct {
		i, j       int
		equivalent bool
		equal      bool
	}{
		{0, 0, true, true},
		{0, 1, true, false},
		{0, 2, false, false},
		{0, 3, false, false},
		{0, 4, false, false},
		{4, 4, true, true},
		{5, 6, false, false},
	}
	for _, test := range tests {
		eqv, err := EquivalentMaps(typ, blk, test.i, blk, test.j)
		require.NoError(t, err)
		assert.Equal(t, test.equivalent, eqv, "equivalent(%d, %d)", test.i, test.j)

		eq, err := EqualPositions(typ, blk, test.i, blk, test.j)
		require.NoError(t, err)
		assert.Equal(t, test.equal, eq, "equal(%d, %d)", test.i, test.j)
	}

	_, err = EquivalentMaps(mustParse(t, reg, "bigint"), blk, 0, blk, 0)
	assert.True(t, ErrTypeMismatch.Is(err))
}
