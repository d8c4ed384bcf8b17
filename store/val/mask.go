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

import "math/bits"

// NullMask is a bit-array encoding a NULL bitmask.
// NULLs are encoded as 0, non-NULLs as 1.
type NullMask []byte

// MakeNullMask returns a mask with room for |count| members, all NULL.
func MakeNullMask(count int) NullMask {
	return make(NullMask, maskSize(count))
}

// maskSize returns the ByteSize of a mask with |count| members.
func maskSize(count int) int {
	return (count + 7) / 8
}

// Append grows |nm| so that member |i| exists and records its presence.
func (nm NullMask) Append(i int, present bool) NullMask {
	for len(nm) < maskSize(i+1) {
		nm = append(nm, 0)
	}
	if present {
		nm.set(i)
	} else {
		nm.unset(i)
	}
	return nm
}

// set flips bit |i| to 1
func (nm NullMask) set(i int) {
	nm[i/8] |= uint8(1) << (i % 8)
}

// unset flips bit |i| to 0
func (nm NullMask) unset(i int) {
	nm[i/8] &= ^(uint8(1) << (i % 8))
}

// Present returns true if the |i|th member is non-null.
func (nm NullMask) Present(i int) bool {
	if i/8 >= len(nm) {
		return false
	}
	query := uint8(1) << (i % 8)
	return query&nm[i/8] == query
}

// Count returns the number of members present.
func (nm NullMask) Count() (n int) {
	for _, b := range nm {
		n += bits.OnesCount8(b)
	}
	return
}

// Size returns the byte size of |nm|.
func (nm NullMask) Size() int {
	return len(nm)
}
