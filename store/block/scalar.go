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
	"time"

	"github.com/google/uuid"

	"github.com/dolthub/colblock/store/val"
)

// FixedWidthBlock stores Count() values of one fixed width encoding in a
// flat region. NULL positions hold a zeroed placeholder.
type FixedWidthBlock struct {
	enc   val.Encoding
	width int
	buf   []byte
	mask  val.NullMask
	count int
}

func (b *FixedWidthBlock) Kind() Kind {
	return FixedWidthKind
}

// Encoding returns the encoding of the values of |b|.
func (b *FixedWidthBlock) Encoding() val.Encoding {
	return b.enc
}

func (b *FixedWidthBlock) Count() int {
	return b.count
}

func (b *FixedWidthBlock) IsNull(i int) bool {
	checkPosition(i, b.count)
	return !b.mask.Present(i)
}

// Raw returns the encoded value at position |i|, or nil if it is NULL.
// The returned slice aliases the block and must not be modified.
func (b *FixedWidthBlock) Raw(i int) []byte {
	if b.IsNull(i) {
		return nil
	}
	start := i * b.width
	return b.buf[start : start+b.width : start+b.width]
}

func (b *FixedWidthBlock) SizeInBytes() uint64 {
	return uint64(len(b.buf) + b.mask.Size())
}

// VariableWidthBlock stores Count() values of one variable width encoding,
// delimited by Count()+1 offsets. NULL positions are empty ranges.
type VariableWidthBlock struct {
	enc  val.Encoding
	data []byte
	offs val.Offsets
	mask val.NullMask
}

func (b *VariableWidthBlock) Kind() Kind {
	return VariableWidthKind
}

// Encoding returns the encoding of the values of |b|.
func (b *VariableWidthBlock) Encoding() val.Encoding {
	return b.enc
}

func (b *VariableWidthBlock) Count() int {
	return b.offs.Count()
}

func (b *VariableWidthBlock) IsNull(i int) bool {
	checkPosition(i, b.Count())
	return !b.mask.Present(i)
}

// Raw returns the encoded value at position |i|, or nil if it is NULL.
// Empty non-NULL values are returned as empty, non-nil slices.
func (b *VariableWidthBlock) Raw(i int) []byte {
	if b.IsNull(i) {
		return nil
	}
	start, stop := b.offs.GetBounds(i)
	v := b.data[start:stop:stop]
	if v == nil {
		v = []byte{}
	}
	return v
}

// Offsets returns the Count()+1 offsets delimiting the values of |b|.
func (b *VariableWidthBlock) Offsets() val.Offsets {
	return b.offs
}

func (b *VariableWidthBlock) SizeInBytes() uint64 {
	return uint64(len(b.data) + 4*len(b.offs) + b.mask.Size())
}

// ScalarBuilder builds a FixedWidthBlock or a VariableWidthBlock,
// depending on its encoding.
type ScalarBuilder struct {
	enc    val.Encoding
	width  int
	buf    []byte
	offs   val.Offsets
	mask   val.NullMask
	count  int
	status *Status
	owned  bool
	built  bool
}

// NewScalarBuilder returns a builder for values encoded with |enc|, with
// room for |sizeHint| values. Variable width builders reserve
// |bytesPerEntry| bytes per expected value.
func NewScalarBuilder(enc val.Encoding, sizeHint, bytesPerEntry int, status *Status) *ScalarBuilder {
	if enc == val.NullEnc {
		panic("invalid encoding")
	}
	if sizeHint < 0 {
		sizeHint = 0
	}
	b := &ScalarBuilder{
		enc:    enc,
		mask:   val.MakeNullMask(sizeHint)[:0],
		status: status,
	}
	if sz, ok := val.SizeOf(enc); ok {
		b.width = int(sz)
		b.buf = make([]byte, 0, sizeHint*b.width)
	} else {
		b.buf = make([]byte, 0, sizeHint*bytesPerEntry)
		b.offs = val.NewOffsets(sizeHint)
	}
	return b
}

func (b *ScalarBuilder) Kind() Kind {
	if b.width > 0 {
		return FixedWidthKind
	}
	return VariableWidthKind
}

// Encoding returns the encoding of the values of |b|.
func (b *ScalarBuilder) Encoding() val.Encoding {
	return b.enc
}

func (b *ScalarBuilder) Count() int {
	return b.count
}

func (b *ScalarBuilder) SizeInBytes() uint64 {
	return uint64(len(b.buf) + 4*len(b.offs) + b.mask.Size())
}

// AppendValue appends an encoded value. Fixed width builders require
// |raw| to be exactly one value wide.
func (b *ScalarBuilder) AppendValue(raw []byte) error {
	if b.built {
		return ErrBuilderAlreadyBuilt.New()
	}
	if b.width > 0 && len(raw) != b.width {
		return ErrInvalidValueSize.New(b.width, len(raw))
	}
	b.buf = append(b.buf, raw...)
	b.seal(true, len(raw))
	return nil
}

// AppendNull appends a NULL. Fixed width builders write a zeroed
// placeholder, variable width builders an empty range.
func (b *ScalarBuilder) AppendNull() error {
	if b.built {
		return ErrBuilderAlreadyBuilt.New()
	}
	for i := 0; i < b.width; i++ {
		b.buf = append(b.buf, 0)
	}
	b.seal(false, b.width)
	return nil
}

func (b *ScalarBuilder) seal(present bool, n int) {
	if b.width == 0 {
		b.offs = b.offs.Append(uint32(len(b.buf)))
		n += 4
	}
	b.mask = b.mask.Append(b.count, present)
	b.count++
	b.status.add(n)
}

// appendFixed reserves one value of |enc| and lets |write| fill it in.
func (b *ScalarBuilder) appendFixed(enc val.Encoding, write func(buf []byte)) error {
	if b.built {
		return ErrBuilderAlreadyBuilt.New()
	}
	if enc != b.enc {
		return ErrEncodingMismatch.New(enc, b.enc)
	}
	start := len(b.buf)
	for i := 0; i < b.width; i++ {
		b.buf = append(b.buf, 0)
	}
	write(b.buf[start:])
	b.seal(true, b.width)
	return nil
}

func (b *ScalarBuilder) appendVariable(enc val.Encoding, v []byte) error {
	if b.built {
		return ErrBuilderAlreadyBuilt.New()
	}
	if enc != b.enc {
		return ErrEncodingMismatch.New(enc, b.enc)
	}
	return b.AppendValue(v)
}

func (b *ScalarBuilder) AppendBool(v bool) error {
	return b.appendFixed(val.BoolEnc, func(buf []byte) { val.WriteBool(buf, v) })
}

func (b *ScalarBuilder) AppendInt8(v int8) error {
	return b.appendFixed(val.Int8Enc, func(buf []byte) { val.WriteInt8(buf, v) })
}

func (b *ScalarBuilder) AppendInt16(v int16) error {
	return b.appendFixed(val.Int16Enc, func(buf []byte) { val.WriteInt16(buf, v) })
}

func (b *ScalarBuilder) AppendInt32(v int32) error {
	return b.appendFixed(val.Int32Enc, func(buf []byte) { val.WriteInt32(buf, v) })
}

func (b *ScalarBuilder) AppendInt64(v int64) error {
	return b.appendFixed(val.Int64Enc, func(buf []byte) { val.WriteInt64(buf, v) })
}

func (b *ScalarBuilder) AppendUint64(v uint64) error {
	return b.appendFixed(val.Uint64Enc, func(buf []byte) { val.WriteUint64(buf, v) })
}

func (b *ScalarBuilder) AppendFloat32(v float32) error {
	return b.appendFixed(val.Float32Enc, func(buf []byte) { val.WriteFloat32(buf, v) })
}

func (b *ScalarBuilder) AppendFloat64(v float64) error {
	return b.appendFixed(val.Float64Enc, func(buf []byte) { val.WriteFloat64(buf, v) })
}

func (b *ScalarBuilder) AppendTimestamp(v time.Time) error {
	return b.appendFixed(val.TimestampEnc, func(buf []byte) { val.WriteTimestamp(buf, v) })
}

func (b *ScalarBuilder) AppendUUID(v uuid.UUID) error {
	return b.appendFixed(val.UUIDEnc, func(buf []byte) { val.WriteUUID(buf, v) })
}

func (b *ScalarBuilder) AppendString(v string) error {
	return b.appendVariable(val.StringEnc, []byte(v))
}

func (b *ScalarBuilder) AppendBytes(v []byte) error {
	return b.appendVariable(val.BytesEnc, v)
}

func (b *ScalarBuilder) own() {
	b.owned = true
}

func (b *ScalarBuilder) Build() (Block, error) {
	if b.owned {
		return nil, ErrOwnedBuilder.New(b.Kind())
	}
	return b.build()
}

func (b *ScalarBuilder) build() (Block, error) {
	if b.built {
		return nil, ErrBuilderAlreadyBuilt.New()
	}
	b.built = true

	mask := b.mask
	var blk Block
	if b.width > 0 {
		blk = &FixedWidthBlock{
			enc:   b.enc,
			width: b.width,
			buf:   b.buf,
			mask:  mask,
			count: b.count,
		}
	} else {
		blk = &VariableWidthBlock{
			enc:  b.enc,
			data: b.buf,
			offs: b.offs,
			mask: mask,
		}
	}
	b.buf, b.offs, b.mask = nil, nil, nil
	return blk, nil
}

func checkPosition(i, count int) {
	if i < 0 || i >= count {
		panic("position out of range")
	}
}
