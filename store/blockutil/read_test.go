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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/colblock/store/dynamic"
	"github.com/dolthub/colblock/store/types"
)

func TestTypedGetters(t *testing.T) {
	reg := types.NewRegistry()
	tinyint := mustParse(t, reg, "tinyint")
	bigint := mustParse(t, reg, "bigint")
	realType := mustParse(t, reg, "real")
	boolean := mustParse(t, reg, "boolean")
	varchar := mustParse(t, reg, "varchar")
	varbinary := mustParse(t, reg, "varbinary")
	short := mustParse(t, reg, "decimal(10,2)")

	t.Run("int64", func(t *testing.T) {
		blk, err := BlockOf(tinyint, dynamic.Int(-5), dynamic.Null())
		require.NoError(t, err)
		i, err := GetInt64(tinyint, blk, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(-5), i)
		_, err = GetInt64(tinyint, blk, 1)
		assert.True(t, ErrNullValue.Is(err))

		blk, err = BlockOf(bigint, dynamic.Int(1<<50))
		require.NoError(t, err)
		i, err = GetInt64(bigint, blk, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1<<50), i)

		blk, err = BlockOf(short, dynamic.Int(1))
		require.NoError(t, err)
		_, err = GetInt64(short, blk, 0)
		assert.True(t, ErrTypeMismatch.Is(err))
	})
	t.Run("float64", func(t *testing.T) {
		blk, err := BlockOf(realType, dynamic.Float(0.25))
		require.NoError(t, err)
		f, err := GetFloat64(realType, blk, 0)
		require.NoError(t, err)
		assert.Equal(t, 0.25, f)
		_, err = GetBool(realType, blk, 0)
		assert.True(t, ErrTypeMismatch.Is(err))
	})
	t.Run("bool", func(t *testing.T) {
		blk, err := BlockOf(boolean, dynamic.Bool(false), dynamic.Bool(true))
		require.NoError(t, err)
		b, err := GetBool(boolean, blk, 1)
		require.NoError(t, err)
		assert.True(t, b)
	})
	t.Run("string and bytes", func(t *testing.T) {
		blk, err := BlockOf(varchar, dynamic.String(""), dynamic.String("abc"))
		require.NoError(t, err)
		s, err := GetString(varchar, blk, 0)
		require.NoError(t, err)
		assert.Equal(t, "", s)
		s, err = GetString(varchar, blk, 1)
		require.NoError(t, err)
		assert.Equal(t, "abc", s)

		_, err = GetInt64(bigint, blk, 0)
		assert.True(t, ErrBuilderMismatch.Is(err))

		blk, err = BlockOf(varbinary, dynamic.Bytes([]byte{1, 2}))
		require.NoError(t, err)
		b, err := GetBytes(varbinary, blk, 0)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2}, b)
		_, err = GetString(varbinary, blk, 0)
		assert.True(t, ErrTypeMismatch.Is(err))
	})
}

func TestReadValueMismatch(t *testing.T) {
	reg := types.NewRegistry()
	arr := mustParse(t, reg, "array(bigint)")
	m := mustParse(t, reg, "map(bigint,bigint)")

	blk, err := BlockOf(arr, dynamic.List(dynamic.Int(1)))
	require.NoError(t, err)

	_, err = ReadValue(m, blk, 0)
	assert.True(t, ErrBuilderMismatch.Is(err))
	_, err = ReadValue(mustParse(t, reg, "varchar"), blk, 0)
	assert.True(t, ErrBuilderMismatch.Is(err))
	_, err = ReadValue(mustParse(t, reg, "array(varchar)"), blk, 0)
	assert.True(t, ErrBuilderMismatch.Is(err))
	assert.Panics(t, func() { _, _ = ReadValue(arr, blk, 1) })
}
