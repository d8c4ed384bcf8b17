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
	"github.com/shopspring/decimal"

	"github.com/dolthub/colblock/store/block"
	"github.com/dolthub/colblock/store/dynamic"
	"github.com/dolthub/colblock/store/types"
	"github.com/dolthub/colblock/store/val"
)

type rawBlock interface {
	block.Block
	Raw(i int) []byte
}

// resolve maps position |pos| of an interleaved block to its column.
func resolve(blk block.Block, pos int) (block.Block, int) {
	for {
		ib, ok := blk.(*block.InterleavedBlock)
		if !ok {
			return blk, pos
		}
		blk, pos = ib.ColumnOf(pos)
	}
}

// ReadValue decodes position |pos| of |blk| as a value of |typ|. Map
// entries are returned in block order. Positions of interleaved blocks
// are read from the column holding them.
func ReadValue(typ *types.Type, blk block.Block, pos int) (dynamic.Value, error) {
	blk, pos = resolve(blk, pos)
	if blk.IsNull(pos) {
		return dynamic.Null(), nil
	}

	switch typ.Category() {
	case types.ScalarCategory:
		raw, err := scalarRaw(typ, blk, pos)
		if err != nil {
			return dynamic.Value{}, err
		}
		return decodeScalar(typ, raw), nil

	case types.ArrayCategory:
		ab, ok := blk.(*block.ArrayBlock)
		if !ok {
			return dynamic.Value{}, ErrBuilderMismatch.New(blk.Kind(), "block", typ)
		}
		start, end := ab.Range(pos)
		elems := make([]dynamic.Value, 0, end-start)
		for p := start; p < end; p++ {
			e, err := ReadValue(typ.ElementType(), ab.Values(), p)
			if err != nil {
				return dynamic.Value{}, err
			}
			elems = append(elems, e)
		}
		return dynamic.List(elems...), nil

	case types.MapCategory:
		mb, ok := blk.(*block.MapBlock)
		if !ok {
			return dynamic.Value{}, ErrBuilderMismatch.New(blk.Kind(), "block", typ)
		}
		start, end := mb.Range(pos)
		entries := make([]dynamic.Entry, 0, (end-start)/2)
		for p := start; p < end; p += 2 {
			k, err := ReadValue(typ.KeyType(), mb.Entries(), p)
			if err != nil {
				return dynamic.Value{}, err
			}
			v, err := ReadValue(typ.ValueType(), mb.Entries(), p+1)
			if err != nil {
				return dynamic.Value{}, err
			}
			entries = append(entries, dynamic.Entry{Key: k, Value: v})
		}
		return dynamic.Map(entries...), nil
	}

	return dynamic.Value{}, ErrBuilderMismatch.New(blk.Kind(), "block", typ)
}

// ReadAll decodes every position of |blk|.
func ReadAll(typ *types.Type, blk block.Block) ([]dynamic.Value, error) {
	vals := make([]dynamic.Value, blk.Count())
	for i := range vals {
		v, err := ReadValue(typ, blk, i)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// scalarRaw returns the encoded value at |pos|, or nil if it is NULL.
func scalarRaw(typ *types.Type, blk block.Block, pos int) ([]byte, error) {
	rb, ok := blk.(rawBlock)
	if !ok || encodingOf(rb) != typ.Encoding() {
		return nil, ErrBuilderMismatch.New(blk.Kind(), "block", typ)
	}
	return rb.Raw(pos), nil
}

func encodingOf(blk block.Block) val.Encoding {
	switch b := blk.(type) {
	case *block.FixedWidthBlock:
		return b.Encoding()
	case *block.VariableWidthBlock:
		return b.Encoding()
	}
	return val.NullEnc
}

func decodeScalar(typ *types.Type, raw []byte) dynamic.Value {
	switch typ.Encoding() {
	case val.BoolEnc:
		return dynamic.Bool(val.ReadBool(raw))
	case val.Int8Enc:
		return dynamic.Int(int64(val.ReadInt8(raw)))
	case val.Int16Enc:
		return dynamic.Int(int64(val.ReadInt16(raw)))
	case val.Int32Enc:
		return dynamic.Int(int64(val.ReadInt32(raw)))
	case val.Int64Enc:
		if typ.Name() == types.DecimalName {
			scale, _ := typ.Literal(1)
			return dynamic.Decimal(decimal.New(val.ReadInt64(raw), -int32(scale)))
		}
		return dynamic.Int(val.ReadInt64(raw))
	case val.Float32Enc:
		return dynamic.Float(float64(val.ReadFloat32(raw)))
	case val.Float64Enc:
		return dynamic.Float(val.ReadFloat64(raw))
	case val.StringEnc:
		return dynamic.String(val.ReadString(raw))
	case val.BytesEnc:
		return dynamic.Bytes(append([]byte{}, val.ReadBytes(raw)...))
	case val.DecimalEnc:
		return dynamic.Decimal(val.ReadDecimal(raw))
	case val.UUIDEnc:
		return dynamic.UUID(val.ReadUUID(raw))
	case val.TimestampEnc:
		return dynamic.Time(val.ReadTimestamp(raw))
	}
	panic("unknown encoding " + typ.Encoding().String())
}

// nonNullRaw returns the encoded value at |pos| for the typed getters.
func nonNullRaw(typ *types.Type, blk block.Block, pos int) ([]byte, error) {
	blk, row := resolve(blk, pos)
	if blk.IsNull(row) {
		return nil, ErrNullValue.New(pos)
	}
	return scalarRaw(typ, blk, row)
}

// GetInt64 reads an integer scalar.
func GetInt64(typ *types.Type, blk block.Block, pos int) (int64, error) {
	raw, err := nonNullRaw(typ, blk, pos)
	if err != nil {
		return 0, err
	}
	switch typ.Encoding() {
	case val.Int8Enc:
		return int64(val.ReadInt8(raw)), nil
	case val.Int16Enc:
		return int64(val.ReadInt16(raw)), nil
	case val.Int32Enc:
		return int64(val.ReadInt32(raw)), nil
	case val.Int64Enc:
		if typ.Name() != types.DecimalName {
			return val.ReadInt64(raw), nil
		}
	}
	return 0, ErrTypeMismatch.New("integer", typ, typ.Name())
}

// GetFloat64 reads a REAL or DOUBLE scalar.
func GetFloat64(typ *types.Type, blk block.Block, pos int) (float64, error) {
	raw, err := nonNullRaw(typ, blk, pos)
	if err != nil {
		return 0, err
	}
	switch typ.Encoding() {
	case val.Float32Enc:
		return float64(val.ReadFloat32(raw)), nil
	case val.Float64Enc:
		return val.ReadFloat64(raw), nil
	}
	return 0, ErrTypeMismatch.New("floating point", typ, typ.Name())
}

// GetBool reads a BOOLEAN scalar.
func GetBool(typ *types.Type, blk block.Block, pos int) (bool, error) {
	raw, err := nonNullRaw(typ, blk, pos)
	if err != nil {
		return false, err
	}
	if typ.Encoding() != val.BoolEnc {
		return false, ErrTypeMismatch.New("boolean", typ, typ.Name())
	}
	return val.ReadBool(raw), nil
}

// GetString reads a VARCHAR scalar.
func GetString(typ *types.Type, blk block.Block, pos int) (string, error) {
	raw, err := nonNullRaw(typ, blk, pos)
	if err != nil {
		return "", err
	}
	if typ.Encoding() != val.StringEnc {
		return "", ErrTypeMismatch.New("string", typ, typ.Name())
	}
	return val.ReadString(raw), nil
}

// GetBytes reads a VARBINARY scalar. The returned slice aliases |blk| and
// must not be modified.
func GetBytes(typ *types.Type, blk block.Block, pos int) ([]byte, error) {
	raw, err := nonNullRaw(typ, blk, pos)
	if err != nil {
		return nil, err
	}
	if typ.Encoding() != val.BytesEnc {
		return nil, ErrTypeMismatch.New("bytes", typ, typ.Name())
	}
	return val.ReadBytes(raw), nil
}
