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

package block

import (
	"github.com/dolthub/colblock/store/val"
)

// MapBlock stores Count() maps. Entries of every position live in one
// interleaved key/value block; position i owns the interleaved range
// [Offsets()[i], Offsets()[i+1]), which always has even length. NULL maps
// own empty ranges.
type MapBlock struct {
	entries *InterleavedBlock
	offs    val.Offsets
	mask    val.NullMask
}

func (b *MapBlock) Kind() Kind {
	return MapKind
}

func (b *MapBlock) Count() int {
	return b.offs.Count()
}

func (b *MapBlock) IsNull(i int) bool {
	checkPosition(i, b.Count())
	return !b.mask.Present(i)
}

// Entries returns the interleaved key/value block of every position.
func (b *MapBlock) Entries() *InterleavedBlock {
	return b.entries
}

// Offsets returns the Count()+1 offsets into Entries().
func (b *MapBlock) Offsets() val.Offsets {
	return b.offs
}

// Range returns the interleaved range of position |i|. Keys sit at even
// positions of the range and each value follows its key.
func (b *MapBlock) Range(i int) (start, end int) {
	checkPosition(i, b.Count())
	s, e := b.offs.GetBounds(i)
	return int(s), int(e)
}

// Len returns the number of entries of the map at position |i|.
func (b *MapBlock) Len(i int) int {
	start, end := b.Range(i)
	return (end - start) / 2
}

func (b *MapBlock) SizeInBytes() uint64 {
	return b.entries.SizeInBytes() + uint64(4*len(b.offs)+b.mask.Size())
}

// MapBuilder builds a MapBlock. Each position is opened with BeginEntry;
// its keys and values are appended in alternation through the returned
// InterleavedBuilder and the position is sealed with EndEntry. Duplicate
// keys are kept as appended.
type MapBuilder struct {
	entries *InterleavedBuilder
	offs    val.Offsets
	mask    val.NullMask
	open    bool
	status  *Status
	owned   bool
	built   bool
}

// NewMapBuilder returns a builder of maps whose keys are appended to
// |keys| and values to |values|.
func NewMapBuilder(keys, values Builder, sizeHint int, status *Status) *MapBuilder {
	if sizeHint < 0 {
		sizeHint = 0
	}
	entries := NewEntryBuilder(keys, values)
	entries.own()
	return &MapBuilder{
		entries: entries,
		offs:    val.NewOffsets(sizeHint),
		mask:    val.MakeNullMask(sizeHint)[:0],
		status:  status,
	}
}

func (b *MapBuilder) Kind() Kind {
	return MapKind
}

func (b *MapBuilder) Count() int {
	return b.offs.Count()
}

func (b *MapBuilder) SizeInBytes() uint64 {
	if b.built {
		return 0
	}
	return b.entries.SizeInBytes() + uint64(4*len(b.offs)+b.mask.Size())
}

// BeginEntry opens a new map position and returns the builder its keys
// and values must be appended to. The entry builder belongs to |b| and
// cannot be built on its own.
func (b *MapBuilder) BeginEntry() (*InterleavedBuilder, error) {
	if err := b.checkClosed("cannot begin an entry"); err != nil {
		return nil, err
	}
	b.open = true
	return b.entries, nil
}

// EndEntry seals the open map position. It fails if a key is still
// waiting for its value.
func (b *MapBuilder) EndEntry() error {
	if b.built {
		return ErrBuilderAlreadyBuilt.New()
	}
	if !b.open {
		return ErrOutOfOrderAppend.New("no open map entry to end")
	}
	pending, err := b.entries.pending()
	if err != nil {
		return err
	}
	if pending {
		return ErrOutOfOrderAppend.New("map key has no value")
	}
	b.open = false
	b.seal(true)
	return nil
}

// AppendNull appends a NULL map with an empty range.
func (b *MapBuilder) AppendNull() error {
	if err := b.checkClosed("cannot append null"); err != nil {
		return err
	}
	b.seal(false)
	return nil
}

func (b *MapBuilder) seal(present bool) {
	b.mask = b.mask.Append(b.offs.Count(), present)
	b.offs = b.offs.Append(uint32(b.entries.Count()))
	b.status.add(4)
}

func (b *MapBuilder) checkClosed(action string) error {
	if b.built {
		return ErrBuilderAlreadyBuilt.New()
	}
	if b.open {
		return ErrOutOfOrderAppend.New(action + " while a map entry is open")
	}
	if stray := b.entries.Count() - int(b.offs.Last()); stray != 0 {
		return ErrOutOfOrderAppend.New(action + ": entries were appended outside of a map entry")
	}
	return nil
}

func (b *MapBuilder) own() {
	b.owned = true
}

func (b *MapBuilder) Build() (Block, error) {
	if b.owned {
		return nil, ErrOwnedBuilder.New(b.Kind())
	}
	return b.build()
}

func (b *MapBuilder) build() (Block, error) {
	if err := b.checkClosed("cannot build"); err != nil {
		return nil, err
	}
	entries, err := b.entries.build()
	if err != nil {
		return nil, err
	}
	b.built = true

	blk := &MapBlock{entries: entries.(*InterleavedBlock), offs: b.offs, mask: b.mask}
	b.entries, b.offs, b.mask = nil, nil, nil
	return blk, nil
}
