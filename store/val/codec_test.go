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
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	t.Run("ints", func(t *testing.T) {
		buf := make([]byte, 8)
		WriteInt64(buf, math.MinInt64)
		assert.Equal(t, int64(math.MinInt64), ReadInt64(buf))
		WriteUint64(buf, math.MaxUint64)
		assert.Equal(t, uint64(math.MaxUint64), ReadUint64(buf))
		WriteInt32(buf[:4], math.MaxInt32)
		assert.Equal(t, int32(math.MaxInt32), ReadInt32(buf[:4]))
		WriteInt16(buf[:2], math.MinInt16)
		assert.Equal(t, int16(math.MinInt16), ReadInt16(buf[:2]))
		WriteInt8(buf[:1], -7)
		assert.Equal(t, int8(-7), ReadInt8(buf[:1]))
	})
	t.Run("floats", func(t *testing.T) {
		buf := make([]byte, 8)
		WriteFloat64(buf, math.MaxFloat64)
		assert.Equal(t, math.MaxFloat64, ReadFloat64(buf))
		WriteFloat32(buf[:4], math.SmallestNonzeroFloat32)
		assert.Equal(t, float32(math.SmallestNonzeroFloat32), ReadFloat32(buf[:4]))
	})
	t.Run("bool", func(t *testing.T) {
		buf := make([]byte, 1)
		WriteBool(buf, true)
		assert.True(t, ReadBool(buf))
		WriteBool(buf, false)
		assert.False(t, ReadBool(buf))
	})
	t.Run("timestamp", func(t *testing.T) {
		ts := time.Date(2021, 6, 1, 12, 30, 0, 500, time.UTC)
		buf := make([]byte, 8)
		WriteTimestamp(buf, ts)
		assert.True(t, ts.Equal(ReadTimestamp(buf)))
	})
	t.Run("uuid", func(t *testing.T) {
		u := uuid.New()
		buf := make([]byte, 16)
		WriteUUID(buf, u)
		assert.Equal(t, u, ReadUUID(buf))
	})
	t.Run("decimal", func(t *testing.T) {
		d := decimal.RequireFromString("-12345678901234567890.125")
		assert.True(t, d.Equal(ReadDecimal(EncodeDecimal(d))))
	})
	t.Run("size mismatch panics", func(t *testing.T) {
		assert.Panics(t, func() {
			ReadInt64(make([]byte, 4))
		})
	})
}

func TestSizeOf(t *testing.T) {
	sz, ok := SizeOf(Int64Enc)
	require.True(t, ok)
	assert.Equal(t, ByteSize(8), sz)
	sz, ok = SizeOf(UUIDEnc)
	require.True(t, ok)
	assert.Equal(t, ByteSize(16), sz)
	_, ok = SizeOf(StringEnc)
	assert.False(t, ok)
	assert.True(t, BoolEnc.FixedWidth())
	assert.False(t, DecimalEnc.FixedWidth())
	assert.False(t, NullEnc.FixedWidth())
}

func TestCompare(t *testing.T) {
	one, two := make([]byte, 8), make([]byte, 8)
	WriteInt64(one, 1)
	WriteInt64(two, 2)
	assert.Equal(t, -1, Compare(Int64Enc, one, two))
	assert.Equal(t, 1, Compare(Int64Enc, two, one))
	assert.Equal(t, 0, Compare(Int64Enc, one, one))

	// nulls last
	assert.Equal(t, 1, Compare(Int64Enc, nil, one))
	assert.Equal(t, -1, Compare(Int64Enc, one, nil))
	assert.Equal(t, 0, Compare(Int64Enc, nil, nil))

	assert.Equal(t, -1, Compare(StringEnc, []byte("a"), []byte("b")))
	assert.Equal(t, 1, Compare(DecimalEnc, []byte("10.5"), []byte("9.75")))
}

func TestNullMask(t *testing.T) {
	var nm NullMask
	for i := 0; i < 20; i++ {
		nm = nm.Append(i, i%3 != 0)
	}
	assert.Equal(t, 3, nm.Size())
	assert.Equal(t, 13, nm.Count())
	for i := 0; i < 20; i++ {
		assert.Equal(t, i%3 != 0, nm.Present(i), "member %d", i)
	}
	assert.False(t, nm.Present(100))

	nm = nm.Append(0, true)
	assert.True(t, nm.Present(0))
	assert.Equal(t, 3, MakeNullMask(17).Size())
}

func TestOffsets(t *testing.T) {
	os := NewOffsets(3)
	assert.Equal(t, 0, os.Count())
	os = os.Append(2).Append(2).Append(5)
	assert.Equal(t, 3, os.Count())
	assert.Equal(t, uint32(5), os.Last())
	start, stop := os.GetBounds(2)
	assert.Equal(t, uint32(2), start)
	assert.Equal(t, uint32(5), stop)
	assert.NoError(t, os.Validate(false))
	assert.Error(t, os.Validate(true))
	assert.Error(t, Offsets{0, 3, 1}.Validate(false))
	assert.Error(t, Offsets{1}.Validate(false))
	assert.NoError(t, Offsets{0, 4, 4}.Validate(true))
}

func TestTimestampRange(t *testing.T) {
	assert.True(t, TimestampInRange(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, TimestampInRange(MinTimestamp))
	assert.True(t, TimestampInRange(MaxTimestamp))
	assert.False(t, TimestampInRange(MaxTimestamp.Add(time.Nanosecond)))
	assert.False(t, TimestampInRange(MinTimestamp.Add(-time.Nanosecond)))
	assert.False(t, TimestampInRange(time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)))

	buf := make([]byte, timestampSize)
	WriteTimestamp(buf, MaxTimestamp)
	assert.True(t, ReadTimestamp(buf).Equal(MaxTimestamp))
}
