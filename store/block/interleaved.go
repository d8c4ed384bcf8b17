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

import "fmt"

// InterleavedBlock presents N column blocks as one block of alternating
// values: position p lives in column p%N at row p/N. Maps use two columns,
// so keys sit at even positions and their values at the following odd
// position.
type InterleavedBlock struct {
	columns []Block
	count   int
}

func (b *InterleavedBlock) Kind() Kind {
	return InterleavedKind
}

func (b *InterleavedBlock) Count() int {
	return b.count
}

// NumColumns returns N.
func (b *InterleavedBlock) NumColumns() int {
	return len(b.columns)
}

// Column returns column |c|.
func (b *InterleavedBlock) Column(c int) Block {
	return b.columns[c]
}

// ColumnOf returns the column block holding position |p| and the row of
// |p| within it.
func (b *InterleavedBlock) ColumnOf(p int) (Block, int) {
	checkPosition(p, b.count)
	n := len(b.columns)
	return b.columns[p%n], p / n
}

func (b *InterleavedBlock) IsNull(p int) bool {
	col, row := b.ColumnOf(p)
	return col.IsNull(row)
}

func (b *InterleavedBlock) SizeInBytes() (sz uint64) {
	for _, c := range b.columns {
		sz += c.SizeInBytes()
	}
	return
}

// InterleavedBuilder builds an InterleavedBlock. Values must be appended to
// the columns in rotation: column 0, column 1, ..., column N-1, column 0...
// Which column is due is derived from the column counts, so an append to
// the wrong column is detected on the next Begin call.
type InterleavedBuilder struct {
	columns []Builder
	mapKeys bool
	owned   bool
	built   bool
}

// NewInterleavedBuilder returns a builder that rotates over |columns|.
func NewInterleavedBuilder(columns ...Builder) *InterleavedBuilder {
	if len(columns) == 0 {
		panic("interleaved builder requires at least one column")
	}
	for _, c := range columns {
		c.own()
	}
	return &InterleavedBuilder{columns: columns}
}

// NewEntryBuilder returns a two column key/value builder whose key column
// rejects NULLs.
func NewEntryBuilder(keys, values Builder) *InterleavedBuilder {
	b := NewInterleavedBuilder(keys, values)
	b.mapKeys = true
	return b
}

func (b *InterleavedBuilder) Kind() Kind {
	return InterleavedKind
}

func (b *InterleavedBuilder) Count() (n int) {
	for _, c := range b.columns {
		n += c.Count()
	}
	return
}

func (b *InterleavedBuilder) SizeInBytes() (sz uint64) {
	for _, c := range b.columns {
		sz += c.SizeInBytes()
	}
	return
}

// due returns the column the next value must be appended to. Column
// counts are valid if they are non-increasing and differ by at most one.
func (b *InterleavedBuilder) due() (int, error) {
	last := b.columns[len(b.columns)-1].Count()
	due := 0
	for i, c := range b.columns {
		cnt := c.Count()
		switch {
		case cnt == last+1 && due == i:
			due++
		case cnt == last:
		default:
			return 0, ErrOutOfOrderAppend.New(fmt.Sprintf("column %d holds %d value(s), expected %d or %d", i, cnt, last, last+1))
		}
	}
	return due, nil
}

// BeginColumn returns the builder for column |c| if it is due.
func (b *InterleavedBuilder) BeginColumn(c int) (Builder, error) {
	if b.built {
		return nil, ErrBuilderAlreadyBuilt.New()
	}
	due, err := b.due()
	if err != nil {
		return nil, err
	}
	if c != due {
		return nil, ErrOutOfOrderAppend.New(fmt.Sprintf("expected a value for column %d, got column %d", due, c))
	}
	return b.columns[c], nil
}

// Next returns the builder of the column that is due.
func (b *InterleavedBuilder) Next() (Builder, error) {
	if b.built {
		return nil, ErrBuilderAlreadyBuilt.New()
	}
	due, err := b.due()
	if err != nil {
		return nil, err
	}
	return b.columns[due], nil
}

// BeginKey returns the key builder of a two column builder. It fails if
// the previous key has no value yet. Column builders belong to |b| and
// cannot be built on their own.
func (b *InterleavedBuilder) BeginKey() (Builder, error) {
	if b.built {
		return nil, ErrBuilderAlreadyBuilt.New()
	}
	due, err := b.due()
	if err != nil {
		return nil, err
	}
	if due != 0 {
		return nil, ErrOutOfOrderAppend.New("key appended before the previous key's value")
	}
	return b.columns[0], nil
}

// BeginValue returns the value builder of a two column builder. It fails
// unless a key is waiting for its value.
func (b *InterleavedBuilder) BeginValue() (Builder, error) {
	if b.built {
		return nil, ErrBuilderAlreadyBuilt.New()
	}
	due, err := b.due()
	if err != nil {
		return nil, err
	}
	if due != 1 {
		return nil, ErrOutOfOrderAppend.New("value appended without a preceding key")
	}
	return b.columns[1], nil
}

// AppendNull appends a NULL to the column that is due. Map keys cannot be
// NULL.
func (b *InterleavedBuilder) AppendNull() error {
	col, err := b.Next()
	if err != nil {
		return err
	}
	if b.mapKeys && col == b.columns[0] {
		return ErrNullMapKey.New()
	}
	return col.AppendNull()
}

// pending returns true if a rotation has been started but not finished.
func (b *InterleavedBuilder) pending() (bool, error) {
	due, err := b.due()
	if err != nil {
		return false, err
	}
	return due != 0, nil
}

func (b *InterleavedBuilder) own() {
	b.owned = true
}

func (b *InterleavedBuilder) Build() (Block, error) {
	if b.owned {
		return nil, ErrOwnedBuilder.New(b.Kind())
	}
	return b.build()
}

func (b *InterleavedBuilder) build() (Block, error) {
	if b.built {
		return nil, ErrBuilderAlreadyBuilt.New()
	}
	if pending, err := b.pending(); err != nil {
		return nil, err
	} else if pending {
		return nil, ErrOutOfOrderAppend.New("cannot build with an incomplete entry")
	}

	columns := make([]Block, len(b.columns))
	count := 0
	for i, c := range b.columns {
		blk, err := c.build()
		if err != nil {
			return nil, err
		}
		columns[i] = blk
		count += blk.Count()
	}
	b.built = true
	b.columns = nil

	if b.mapKeys {
		keys := columns[0]
		for i := 0; i < keys.Count(); i++ {
			if keys.IsNull(i) {
				return nil, ErrNullMapKey.New()
			}
		}
	}
	return &InterleavedBlock{columns: columns, count: count}, nil
}
