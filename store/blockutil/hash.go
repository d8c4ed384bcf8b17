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
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"

	"github.com/dolthub/colblock/store/block"
	"github.com/dolthub/colblock/store/types"
	"github.com/dolthub/colblock/store/val"
)

// tags written ahead of each hashed value so that nested values of
// different shapes never hash the same byte stream.
const (
	nullTag byte = iota
	scalarTag
	arrayTag
	mapTag
)

// HashPosition hashes position |pos| of |blk| as a value of |typ|. Equal
// positions, as reported by EqualPositions, hash equally. All NULLs hash
// to the same value.
func HashPosition(typ *types.Type, blk block.Block, pos int) (uint64, error) {
	h := xxh3.New()
	if err := hashPosition(h, typ, blk, pos); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func hashPosition(h *xxh3.Hasher, typ *types.Type, blk block.Block, pos int) error {
	blk, pos = resolve(blk, pos)
	if blk.IsNull(pos) {
		_, _ = h.Write([]byte{nullTag})
		return nil
	}

	var lenBuf [4]byte
	switch typ.Category() {
	case types.ScalarCategory:
		raw, err := scalarRaw(typ, blk, pos)
		if err != nil {
			return err
		}
		raw = canonicalFloat(typ.Encoding(), raw)
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(raw)))
		_, _ = h.Write([]byte{scalarTag})
		_, _ = h.Write(lenBuf[:])
		_, _ = h.Write(raw)
		return nil

	case types.ArrayCategory:
		ab, ok := blk.(*block.ArrayBlock)
		if !ok {
			return ErrBuilderMismatch.New(blk.Kind(), "block", typ)
		}
		start, end := ab.Range(pos)
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(end-start))
		_, _ = h.Write([]byte{arrayTag})
		_, _ = h.Write(lenBuf[:])
		for p := start; p < end; p++ {
			if err := hashPosition(h, typ.ElementType(), ab.Values(), p); err != nil {
				return err
			}
		}
		return nil

	case types.MapCategory:
		mb, ok := blk.(*block.MapBlock)
		if !ok {
			return ErrBuilderMismatch.New(blk.Kind(), "block", typ)
		}
		start, end := mb.Range(pos)
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(end-start))
		_, _ = h.Write([]byte{mapTag})
		_, _ = h.Write(lenBuf[:])
		for p := start; p < end; p += 2 {
			if err := hashPosition(h, typ.KeyType(), mb.Entries(), p); err != nil {
				return err
			}
			if err := hashPosition(h, typ.ValueType(), mb.Entries(), p+1); err != nil {
				return err
			}
		}
		return nil
	}

	return ErrBuilderMismatch.New(blk.Kind(), "block", typ)
}

// canonicalFloat maps -0 to 0 and every NaN to one NaN, matching the
// equality of val.Compare.
func canonicalFloat(enc val.Encoding, raw []byte) []byte {
	switch enc {
	case val.Float32Enc:
		f := float64(val.ReadFloat32(raw))
		if f == 0 || math.IsNaN(f) {
			buf := make([]byte, len(raw))
			if math.IsNaN(f) {
				val.WriteFloat32(buf, float32(math.NaN()))
			}
			return buf
		}
	case val.Float64Enc:
		f := val.ReadFloat64(raw)
		if f == 0 || math.IsNaN(f) {
			buf := make([]byte, len(raw))
			if math.IsNaN(f) {
				val.WriteFloat64(buf, math.NaN())
			}
			return buf
		}
	}
	return raw
}

// EqualPositions returns true if position |i| of |a| and position |j| of
// |b| hold equal values of |typ|. Two NULLs are equal. Maps are equal if
// their entries are equal in block order; see EquivalentMaps.
func EqualPositions(typ *types.Type, a block.Block, i int, b block.Block, j int) (bool, error) {
	a, i = resolve(a, i)
	b, j = resolve(b, j)
	if an, bn := a.IsNull(i), b.IsNull(j); an || bn {
		return an == bn, nil
	}

	switch typ.Category() {
	case types.ScalarCategory:
		l, err := scalarRaw(typ, a, i)
		if err != nil {
			return false, err
		}
		r, err := scalarRaw(typ, b, j)
		if err != nil {
			return false, err
		}
		return val.Compare(typ.Encoding(), l, r) == 0, nil

	case types.ArrayCategory:
		la, lok := a.(*block.ArrayBlock)
		ra, rok := b.(*block.ArrayBlock)
		if !lok || !rok {
			return false, ErrBuilderMismatch.New(a.Kind(), "block", typ)
		}
		ls, le := la.Range(i)
		rs, re := ra.Range(j)
		if le-ls != re-rs {
			return false, nil
		}
		for k := 0; k < le-ls; k++ {
			eq, err := EqualPositions(typ.ElementType(), la.Values(), ls+k, ra.Values(), rs+k)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil

	case types.MapCategory:
		lm, lok := a.(*block.MapBlock)
		rm, rok := b.(*block.MapBlock)
		if !lok || !rok {
			return false, ErrBuilderMismatch.New(a.Kind(), "block", typ)
		}
		ls, le := lm.Range(i)
		rs, re := rm.Range(j)
		if le-ls != re-rs {
			return false, nil
		}
		for k := 0; k < le-ls; k += 2 {
			eq, err := equalEntries(typ, lm.Entries(), ls+k, rm.Entries(), rs+k)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}

	return false, ErrBuilderMismatch.New(a.Kind(), "block", typ)
}

func equalEntries(typ *types.Type, a *block.InterleavedBlock, i int, b *block.InterleavedBlock, j int) (bool, error) {
	eq, err := EqualPositions(typ.KeyType(), a, i, b, j)
	if err != nil || !eq {
		return false, err
	}
	return EqualPositions(typ.ValueType(), a, i+1, b, j+1)
}

// EquivalentMaps returns true if the maps at position |i| of |a| and
// position |j| of |b| hold the same entries regardless of their order.
// Duplicate entries are matched one to one.
func EquivalentMaps(typ *types.Type, a block.Block, i int, b block.Block, j int) (bool, error) {
	if typ.Category() != types.MapCategory {
		return false, ErrTypeMismatch.New(types.MapCategory, typ, typ.Category())
	}
	a, i = resolve(a, i)
	b, j = resolve(b, j)
	if an, bn := a.IsNull(i), b.IsNull(j); an || bn {
		return an == bn, nil
	}

	lm, lok := a.(*block.MapBlock)
	rm, rok := b.(*block.MapBlock)
	if !lok || !rok {
		return false, ErrBuilderMismatch.New(a.Kind(), "block", typ)
	}
	ls, le := lm.Range(i)
	rs, re := rm.Range(j)
	if le-ls != re-rs {
		return false, nil
	}

	// bucket the right entries by key hash
	buckets := make(map[uint64][]int, (re-rs)/2)
	for p := rs; p < re; p += 2 {
		kh, err := HashPosition(typ.KeyType(), rm.Entries(), p)
		if err != nil {
			return false, err
		}
		buckets[kh] = append(buckets[kh], p)
	}

	for p := ls; p < le; p += 2 {
		kh, err := HashPosition(typ.KeyType(), lm.Entries(), p)
		if err != nil {
			return false, err
		}
		candidates := buckets[kh]
		matched := -1
		for c, q := range candidates {
			eq, err := equalEntries(typ, lm.Entries(), p, rm.Entries(), q)
			if err != nil {
				return false, err
			}
			if eq {
				matched = c
				break
			}
		}
		if matched < 0 {
			return false, nil
		}
		buckets[kh] = append(candidates[:matched], candidates[matched+1:]...)
	}
	return true, nil
}
