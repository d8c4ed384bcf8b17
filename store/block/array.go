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

// ArrayBlock stores Count() arrays. The elements of every position live
// in one child block; position i owns the child range
// [Offsets()[i], Offsets()[i+1]). NULL arrays own empty ranges.
type ArrayBlock struct {
	values Block
	offs   val.Offsets
	mask   val.NullMask
}

func (b *ArrayBlock) Kind() Kind {
	return ArrayKind
}

func (b *ArrayBlock) Count() int {
	return b.offs.Count()
}

func (b *ArrayBlock) IsNull(i int) bool {
	checkPosition(i, b.Count())
	return !b.mask.Present(i)
}

// Values returns the child block holding the elements of every position.
func (b *ArrayBlock) Values() Block {
	return b.values
}

// Offsets returns the Count()+1 offsets into Values().
func (b *ArrayBlock) Offsets() val.Offsets {
	return b.offs
}

// Range returns the child range of position |i|.
func (b *ArrayBlock) Range(i int) (start, end int) {
	checkPosition(i, b.Count())
	s, e := b.offs.GetBounds(i)
	return int(s), int(e)
}

func (b *ArrayBlock) SizeInBytes() uint64 {
	return b.values.SizeInBytes() + uint64(4*len(b.offs)+b.mask.Size())
}

// ArrayBuilder builds an ArrayBlock. Each position is opened with
// BeginEntry, filled through the returned element builder and sealed with
// EndEntry. Positions cannot overlap.
type ArrayBuilder struct {
	values Builder
	offs   val.Offsets
	mask   val.NullMask
	open   bool
	status *Status
	owned  bool
	built  bool
}

// NewArrayBuilder returns a builder of arrays whose elements are appended
// to |values|.
func NewArrayBuilder(values Builder, sizeHint int, status *Status) *ArrayBuilder {
	if sizeHint < 0 {
		sizeHint = 0
	}
	values.own()
	return &ArrayBuilder{
		values: values,
		offs:   val.NewOffsets(sizeHint),
		mask:   val.MakeNullMask(sizeHint)[:0],
		status: status,
	}
}

func (b *ArrayBuilder) Kind() Kind {
	return ArrayKind
}

func (b *ArrayBuilder) Count() int {
	return b.offs.Count()
}

func (b *ArrayBuilder) SizeInBytes() uint64 {
	if b.built {
		return 0
	}
	return b.values.SizeInBytes() + uint64(4*len(b.offs)+b.mask.Size())
}

// BeginEntry opens a new position and returns the builder its elements
// must be appended to. The element builder belongs to |b| and cannot be
// built on its own.
func (b *ArrayBuilder) BeginEntry() (Builder, error) {
	if err := b.checkClosed("cannot begin an entry"); err != nil {
		return nil, err
	}
	b.open = true
	return b.values, nil
}

// EndEntry seals the open position.
func (b *ArrayBuilder) EndEntry() error {
	if b.built {
		return ErrBuilderAlreadyBuilt.New()
	}
	if !b.open {
		return ErrOutOfOrderAppend.New("no open array entry to end")
	}
	b.open = false
	b.seal(true)
	return nil
}

// AppendNull appends a NULL array with an empty range.
func (b *ArrayBuilder) AppendNull() error {
	if err := b.checkClosed("cannot append null"); err != nil {
		return err
	}
	b.seal(false)
	return nil
}

func (b *ArrayBuilder) seal(present bool) {
	b.mask = b.mask.Append(b.offs.Count(), present)
	b.offs = b.offs.Append(uint32(b.values.Count()))
	b.status.add(4)
}

// checkClosed verifies that no entry is open and that no elements were
// appended outside of an entry.
func (b *ArrayBuilder) checkClosed(action string) error {
	if b.built {
		return ErrBuilderAlreadyBuilt.New()
	}
	if b.open {
		return ErrOutOfOrderAppend.New(action + " while an array entry is open")
	}
	if stray := b.values.Count() - int(b.offs.Last()); stray != 0 {
		return ErrOutOfOrderAppend.New(action + ": elements were appended outside of an entry")
	}
	return nil
}

func (b *ArrayBuilder) own() {
	b.owned = true
}

func (b *ArrayBuilder) Build() (Block, error) {
	if b.owned {
		return nil, ErrOwnedBuilder.New(b.Kind())
	}
	return b.build()
}

func (b *ArrayBuilder) build() (Block, error) {
	if err := b.checkClosed("cannot build"); err != nil {
		return nil, err
	}
	values, err := b.values.build()
	if err != nil {
		return nil, err
	}
	b.built = true

	blk := &ArrayBlock{values: values, offs: b.offs, mask: b.mask}
	b.values, b.offs, b.mask = nil, nil, nil
	return blk, nil
}
