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

	"github.com/dolthub/colblock/store/block"
	"github.com/dolthub/colblock/store/dynamic"
	"github.com/dolthub/colblock/store/types"
)

func TestFixtures(t *testing.T) {
	reg := types.NewRegistry()
	varchar := mustParse(t, reg, "varchar")
	bigint := mustParse(t, reg, "bigint")

	mt, err := MapType(reg, varchar, bigint)
	require.NoError(t, err)
	assert.Same(t, mustParse(t, reg, "map(varchar,bigint)"), mt)

	t.Run("array block", func(t *testing.T) {
		blk, err := ArrayBlockOf(bigint, dynamic.Int(1), dynamic.Null(), dynamic.Int(3))
		require.NoError(t, err)
		assert.Equal(t, block.FixedWidthKind, blk.Kind())
		assert.Equal(t, 3, blk.Count())
		assert.True(t, blk.IsNull(1))
	})
	t.Run("map block", func(t *testing.T) {
		m := dynamic.Map(
			dynamic.Entry{Key: dynamic.String("k1"), Value: dynamic.Int(1)},
			dynamic.Entry{Key: dynamic.String("k2"), Value: dynamic.Null()},
		)
		blk, err := MapBlockOf(varchar, bigint, m)
		require.NoError(t, err)
		assert.Equal(t, 4, blk.Count())

		s, err := GetString(varchar, blk, 2)
		require.NoError(t, err)
		assert.Equal(t, "k2", s)
		i, err := GetInt64(bigint, blk, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), i)
		assert.True(t, blk.IsNull(3))
	})
	t.Run("map block errors", func(t *testing.T) {
		_, err := MapBlockOf(varchar, bigint, dynamic.List())
		assert.True(t, ErrTypeMismatch.Is(err))

		nullKey := dynamic.Map(dynamic.Entry{Key: dynamic.Null(), Value: dynamic.Int(1)})
		_, err = MapBlockOf(varchar, bigint, nullKey)
		assert.True(t, block.ErrNullMapKey.Is(err))
	})
}
