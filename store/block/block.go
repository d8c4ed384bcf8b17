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

// Package block implements immutable columnar Blocks and the append-only
// Builders that produce them.
//
// A Block holds Count() logically positioned values, each of which may be
// NULL. Scalars are stored in a flat region (fixed or variable width),
// arrays as a child block of elements plus Count()+1 offsets, and maps as
// an interleaved child block of alternating keys and values plus Count()+1
// offsets. Blocks are safe for concurrent reads. Builders are not safe for
// concurrent use.
package block

import (
	"fmt"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrOutOfOrderAppend is returned when a builder's append protocol is
	// violated, eg a map value appended without its key.
	ErrOutOfOrderAppend = errors.NewKind("out of order append: %s")

	// ErrBuilderAlreadyBuilt is returned by any call that mutates a builder
	// after Build.
	ErrBuilderAlreadyBuilt = errors.NewKind("builder has already been built")

	// ErrNullMapKey is returned when a NULL is appended as a map key.
	ErrNullMapKey = errors.NewKind("map key cannot be null")

	// ErrInvalidValueSize is returned when a raw value does not match the
	// width of a fixed width builder.
	ErrInvalidValueSize = errors.NewKind("expected a %d byte value, got %d bytes")

	// ErrOwnedBuilder is returned by Build on a builder that belongs to a
	// parent builder. Owned builders are built by their parent.
	ErrOwnedBuilder = errors.NewKind("cannot build a %s builder owned by a parent builder")

	// ErrEncodingMismatch is returned when a typed append does not match the
	// builder's encoding.
	ErrEncodingMismatch = errors.NewKind("cannot append %s value to %s builder")
)

// Kind identifies the layout of a Block and the strategy of a Builder.
// The set of kinds is closed.
type Kind uint8

const (
	FixedWidthKind Kind = iota
	VariableWidthKind
	ArrayKind
	MapKind
	InterleavedKind
)

var kindNames = map[Kind]string{
	FixedWidthKind:    "fixed width",
	VariableWidthKind: "variable width",
	ArrayKind:         "array",
	MapKind:           "map",
	InterleavedKind:   "interleaved",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Block is an immutable sequence of Count() values.
type Block interface {
	// Kind returns the layout of the block.
	Kind() Kind
	// Count returns the number of positions in the block.
	Count() int
	// IsNull returns true if position |i| is NULL.
	IsNull(i int) bool
	// SizeInBytes returns the retained size of the block.
	SizeInBytes() uint64
}

// Builder accumulates values in insertion order and produces exactly one
// Block. After Build every mutating call returns ErrBuilderAlreadyBuilt.
type Builder interface {
	// Kind returns the layout of the Block this builder produces.
	Kind() Kind
	// Count returns the number of positions appended so far.
	Count() int
	// AppendNull appends a NULL position.
	AppendNull() error
	// SizeInBytes returns the number of bytes accumulated so far.
	SizeInBytes() uint64
	// Build finalizes the builder. The builder's buffers are handed to the
	// returned Block and the builder can no longer be used. Builders passed
	// to a parent builder are built by the parent and return
	// ErrOwnedBuilder.
	Build() (Block, error)

	// own marks the builder as a child of another builder.
	own()
	// build finalizes the builder on behalf of its parent.
	build() (Block, error)
}

var _ Block = (*FixedWidthBlock)(nil)
var _ Block = (*VariableWidthBlock)(nil)
var _ Block = (*ArrayBlock)(nil)
var _ Block = (*MapBlock)(nil)
var _ Block = (*InterleavedBlock)(nil)

var _ Builder = (*ScalarBuilder)(nil)
var _ Builder = (*ArrayBuilder)(nil)
var _ Builder = (*MapBuilder)(nil)
var _ Builder = (*InterleavedBuilder)(nil)
