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
	"github.com/dolthub/colblock/store/block"
	"github.com/dolthub/colblock/store/dynamic"
	"github.com/dolthub/colblock/store/types"
)

// BlockOf builds a block of |typ| holding |values| in order.
func BlockOf(typ *types.Type, values ...dynamic.Value) (block.Block, error) {
	bld, err := NewBuilder(typ, len(values))
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if err = AppendValue(typ, v, bld); err != nil {
			return nil, err
		}
	}
	return bld.Build()
}

// ArrayBlockOf builds the element block of a single array of |elemType|
// holding |values|.
func ArrayBlockOf(elemType *types.Type, values ...dynamic.Value) (block.Block, error) {
	return BlockOf(elemType, values...)
}

// MapBlockOf builds the interleaved key/value block of the single map |m|.
// The returned block holds 2 * len(m) positions: keys at even positions and
// their values at odd ones.
func MapBlockOf(keyType, valueType *types.Type, m dynamic.Value) (*block.InterleavedBlock, error) {
	entries, err := m.AsMap()
	if err != nil {
		return nil, ErrTypeMismatch.New(types.MapCategory, "map("+keyType.Signature()+","+valueType.Signature()+")", m.Kind())
	}

	keys, err := NewBuilder(keyType, len(entries))
	if err != nil {
		return nil, err
	}
	values, err := NewBuilder(valueType, len(entries))
	if err != nil {
		return nil, err
	}
	eb := block.NewEntryBuilder(keys, values)
	if err = appendEntries(keyType, valueType, entries, eb); err != nil {
		return nil, err
	}

	blk, err := eb.Build()
	if err != nil {
		return nil, err
	}
	return blk.(*block.InterleavedBlock), nil
}
