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

// Package blockutil connects type descriptors to blocks: it creates the
// builder tree for a type, appends dynamic values to it and reads, hashes
// and compares the positions of built blocks.
package blockutil

import (
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/colblock/config"
	"github.com/dolthub/colblock/store/block"
	"github.com/dolthub/colblock/store/types"
)

var (
	// ErrTypeMismatch is returned when the shape of a value does not match
	// the category of its type.
	ErrTypeMismatch = errors.NewKind("type mismatch: expected %s value for %s, got %s")

	// ErrBuilderMismatch is returned when a builder or block of the wrong
	// kind is used for a type.
	ErrBuilderMismatch = errors.NewKind("cannot use %s %s for type %s")

	// ErrValueOutOfRange is returned when a value converts to the Go type of
	// its scalar but does not fit the scalar's range.
	ErrValueOutOfRange = errors.NewKind("value %s is out of range for %s")

	// ErrNullValue is returned by the typed getters for NULL positions.
	ErrNullValue = errors.NewKind("value at position %d is null")
)

// NewBuilder returns the builder tree for |typ| sized for |sizeHint|
// positions with the default config.
func NewBuilder(typ *types.Type, sizeHint int) (block.Builder, error) {
	return NewBuilderWithConfig(typ, sizeHint, config.Default(), nil)
}

// NewBuilderWithStatus is like NewBuilder but reports appended bytes to
// |status|.
func NewBuilderWithStatus(typ *types.Type, sizeHint int, status *block.Status) (block.Builder, error) {
	return NewBuilderWithConfig(typ, sizeHint, config.Default(), status)
}

// NewBuilderWithConfig returns the builder tree for |typ|. Variable width
// builders reserve |cfg.ExpectedBytesPerEntry| bytes per value and nested
// builders |cfg.ExpectedEntriesPerPosition| values per parent position.
func NewBuilderWithConfig(typ *types.Type, sizeHint int, cfg *config.BuilderConfig, status *block.Status) (block.Builder, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	switch typ.Category() {
	case types.ScalarCategory:
		return block.NewScalarBuilder(typ.Encoding(), sizeHint, cfg.ExpectedBytesPerEntry, status), nil

	case types.ArrayCategory:
		elems, err := NewBuilderWithConfig(typ.ElementType(), sizeHint*cfg.ExpectedEntriesPerPosition, cfg, status)
		if err != nil {
			return nil, err
		}
		return block.NewArrayBuilder(elems, sizeHint, status), nil

	case types.MapCategory:
		childHint := sizeHint * cfg.ExpectedEntriesPerPosition
		keys, err := NewBuilderWithConfig(typ.KeyType(), childHint, cfg, status)
		if err != nil {
			return nil, err
		}
		values, err := NewBuilderWithConfig(typ.ValueType(), childHint, cfg, status)
		if err != nil {
			return nil, err
		}
		return block.NewMapBuilder(keys, values, sizeHint, status), nil

	default:
		return nil, types.ErrInvalidTypeSignature.New(typ.Signature(), "unknown category "+typ.Category().String())
	}
}

// NewStatus returns a block.Status that is full at |cfg.MaxBlockSize|.
func NewStatus(cfg *config.BuilderConfig) *block.Status {
	return block.NewStatus(uint64(cfg.MaxBlockSize))
}

// MapType resolves the map type of |key| to |value| through |reg|.
func MapType(reg *types.Registry, key, value *types.Type) (*types.Type, error) {
	return reg.MapType(key, value)
}
