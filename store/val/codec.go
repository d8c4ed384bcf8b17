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

package val

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ByteSize uint16

const (
	boolSize    ByteSize = 1
	int8Size    ByteSize = 1
	uint8Size   ByteSize = 1
	int16Size   ByteSize = 2
	uint16Size  ByteSize = 2
	int32Size   ByteSize = 4
	uint32Size  ByteSize = 4
	int64Size   ByteSize = 8
	uint64Size  ByteSize = 8
	float32Size ByteSize = 4
	float64Size ByteSize = 8
	uuidSize    ByteSize = 16

	timestampSize ByteSize = 8
)

// Encoding is the physical representation of a scalar value.
type Encoding uint8

// Constant Size Encodings
const (
	NullEnc    Encoding = 0
	Int8Enc    Encoding = 1
	Uint8Enc   Encoding = 2
	Int16Enc   Encoding = 3
	Uint16Enc  Encoding = 4
	Int32Enc   Encoding = 7
	Uint32Enc  Encoding = 8
	Int64Enc   Encoding = 9
	Uint64Enc  Encoding = 10
	Float32Enc Encoding = 11
	Float64Enc Encoding = 12
	BoolEnc    Encoding = 13

	TimestampEnc Encoding = 14
	UUIDEnc      Encoding = 18

	sentinel Encoding = 127
)

// Variable Size Encodings
const (
	StringEnc  Encoding = 128
	BytesEnc   Encoding = 129
	DecimalEnc Encoding = 130
)

var encodingNames = map[Encoding]string{
	NullEnc:      "null",
	Int8Enc:      "int8",
	Uint8Enc:     "uint8",
	Int16Enc:     "int16",
	Uint16Enc:    "uint16",
	Int32Enc:     "int32",
	Uint32Enc:    "uint32",
	Int64Enc:     "int64",
	Uint64Enc:    "uint64",
	Float32Enc:   "float32",
	Float64Enc:   "float64",
	BoolEnc:      "bool",
	TimestampEnc: "timestamp",
	UUIDEnc:      "uuid",
	StringEnc:    "string",
	BytesEnc:     "bytes",
	DecimalEnc:   "decimal",
}

func (e Encoding) String() string {
	if s, ok := encodingNames[e]; ok {
		return s
	}
	return "unknown"
}

// FixedWidth returns true if every value of |e| has the same size.
func (e Encoding) FixedWidth() bool {
	return e != NullEnc && e < sentinel
}

// SizeOf returns the size of a value encoded with |e|, or false if |e|
// is a variable size encoding.
func SizeOf(e Encoding) (ByteSize, bool) {
	switch e {
	case BoolEnc:
		return boolSize, true
	case Int8Enc:
		return int8Size, true
	case Uint8Enc:
		return uint8Size, true
	case Int16Enc:
		return int16Size, true
	case Uint16Enc:
		return uint16Size, true
	case Int32Enc:
		return int32Size, true
	case Uint32Enc:
		return uint32Size, true
	case Int64Enc:
		return int64Size, true
	case Uint64Enc:
		return uint64Size, true
	case Float32Enc:
		return float32Size, true
	case Float64Enc:
		return float64Size, true
	case TimestampEnc:
		return timestampSize, true
	case UUIDEnc:
		return uuidSize, true
	default:
		return 0, false
	}
}

func ReadBool(val []byte) bool {
	expectSize(val, boolSize)
	return val[0] == 1
}

func WriteBool(buf []byte, val bool) {
	expectSize(buf, boolSize)
	if val {
		buf[0] = byte(1)
	} else {
		buf[0] = byte(0)
	}
}

// false is less that true
func compareBool(l, r bool) int {
	if l == r {
		return 0
	}
	if !l && r {
		return -1
	}
	return 1
}

func ReadInt8(val []byte) int8 {
	expectSize(val, int8Size)
	return int8(val[0])
}

func WriteInt8(buf []byte, val int8) {
	expectSize(buf, int8Size)
	buf[0] = byte(val)
}

func ReadUint8(val []byte) uint8 {
	expectSize(val, uint8Size)
	return val[0]
}

func WriteUint8(buf []byte, val uint8) {
	expectSize(buf, uint8Size)
	buf[0] = val
}

func ReadInt16(val []byte) int16 {
	expectSize(val, int16Size)
	return int16(binary.LittleEndian.Uint16(val))
}

func WriteInt16(buf []byte, val int16) {
	expectSize(buf, int16Size)
	binary.LittleEndian.PutUint16(buf, uint16(val))
}

func ReadUint16(val []byte) uint16 {
	expectSize(val, uint16Size)
	return binary.LittleEndian.Uint16(val)
}

func WriteUint16(buf []byte, val uint16) {
	expectSize(buf, uint16Size)
	binary.LittleEndian.PutUint16(buf, val)
}

func ReadInt32(val []byte) int32 {
	expectSize(val, int32Size)
	return int32(binary.LittleEndian.Uint32(val))
}

func WriteInt32(buf []byte, val int32) {
	expectSize(buf, int32Size)
	binary.LittleEndian.PutUint32(buf, uint32(val))
}

func ReadUint32(val []byte) uint32 {
	expectSize(val, uint32Size)
	return binary.LittleEndian.Uint32(val)
}

func WriteUint32(buf []byte, val uint32) {
	expectSize(buf, uint32Size)
	binary.LittleEndian.PutUint32(buf, val)
}

func ReadInt64(val []byte) int64 {
	expectSize(val, int64Size)
	return int64(binary.LittleEndian.Uint64(val))
}

func WriteInt64(buf []byte, val int64) {
	expectSize(buf, int64Size)
	binary.LittleEndian.PutUint64(buf, uint64(val))
}

func ReadUint64(val []byte) uint64 {
	expectSize(val, uint64Size)
	return binary.LittleEndian.Uint64(val)
}

func WriteUint64(buf []byte, val uint64) {
	expectSize(buf, uint64Size)
	binary.LittleEndian.PutUint64(buf, val)
}

func ReadFloat32(val []byte) float32 {
	expectSize(val, float32Size)
	return math.Float32frombits(ReadUint32(val))
}

func WriteFloat32(buf []byte, val float32) {
	expectSize(buf, float32Size)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(val))
}

func ReadFloat64(val []byte) float64 {
	expectSize(val, float64Size)
	return math.Float64frombits(ReadUint64(val))
}

func WriteFloat64(buf []byte, val float64) {
	expectSize(buf, float64Size)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(val))
}

var (
	// MinTimestamp and MaxTimestamp bound the times TimestampEnc can hold.
	MinTimestamp = time.Unix(0, math.MinInt64).UTC()
	MaxTimestamp = time.Unix(0, math.MaxInt64).UTC()
)

// TimestampInRange returns true if |t| can be encoded with TimestampEnc
// without overflow.
func TimestampInRange(t time.Time) bool {
	return !t.Before(MinTimestamp) && !t.After(MaxTimestamp)
}

func ReadTimestamp(buf []byte) (t time.Time) {
	expectSize(buf, timestampSize)
	t = time.Unix(0, ReadInt64(buf)).UTC()
	return
}

func WriteTimestamp(buf []byte, val time.Time) {
	expectSize(buf, timestampSize)
	WriteInt64(buf, val.UnixNano())
}

func compareTimestamp(l, r time.Time) int {
	return l.Compare(r)
}

func ReadUUID(buf []byte) (u uuid.UUID) {
	expectSize(buf, uuidSize)
	copy(u[:], buf)
	return
}

func WriteUUID(buf []byte, val uuid.UUID) {
	expectSize(buf, uuidSize)
	copy(buf, val[:])
}

func ReadString(val []byte) string {
	return string(val)
}

func ReadBytes(val []byte) []byte {
	return val
}

// EncodeDecimal returns the variable size encoding of |d|.
func EncodeDecimal(d decimal.Decimal) []byte {
	return []byte(d.String())
}

// ReadDecimal decodes a value written by EncodeDecimal.
func ReadDecimal(val []byte) decimal.Decimal {
	return decimal.RequireFromString(string(val))
}

// Compare orders two encoded values of |enc|. NULLs (nil slices) are
// ordered last.
func Compare(enc Encoding, left, right []byte) int {
	if left == nil {
		if right == nil {
			return 0
		}
		return 1
	} else if right == nil {
		return -1
	}

	switch enc {
	case BoolEnc:
		return compareBool(ReadBool(left), ReadBool(right))
	case Int8Enc:
		return cmp.Compare(ReadInt8(left), ReadInt8(right))
	case Uint8Enc:
		return cmp.Compare(ReadUint8(left), ReadUint8(right))
	case Int16Enc:
		return cmp.Compare(ReadInt16(left), ReadInt16(right))
	case Uint16Enc:
		return cmp.Compare(ReadUint16(left), ReadUint16(right))
	case Int32Enc:
		return cmp.Compare(ReadInt32(left), ReadInt32(right))
	case Uint32Enc:
		return cmp.Compare(ReadUint32(left), ReadUint32(right))
	case Int64Enc:
		return cmp.Compare(ReadInt64(left), ReadInt64(right))
	case Uint64Enc:
		return cmp.Compare(ReadUint64(left), ReadUint64(right))
	case Float32Enc:
		return cmp.Compare(ReadFloat32(left), ReadFloat32(right))
	case Float64Enc:
		return cmp.Compare(ReadFloat64(left), ReadFloat64(right))
	case TimestampEnc:
		return compareTimestamp(ReadTimestamp(left), ReadTimestamp(right))
	case UUIDEnc, StringEnc, BytesEnc:
		return bytes.Compare(left, right)
	case DecimalEnc:
		return ReadDecimal(left).Cmp(ReadDecimal(right))
	default:
		panic("unknown encoding")
	}
}

func expectSize(buf []byte, sz ByteSize) {
	if ByteSize(len(buf)) != sz {
		panic("byte slice is not of expected size")
	}
}
