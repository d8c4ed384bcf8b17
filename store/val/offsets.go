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

import "fmt"

// Offsets delimits Count() consecutive ranges of a buffer or child block.
// Offsets[0] is always 0 and range i is [Offsets[i], Offsets[i+1]).
type Offsets []uint32

// NewOffsets returns empty Offsets with capacity for |count| ranges.
func NewOffsets(count int) Offsets {
	os := make(Offsets, 1, count+1)
	return os
}

// Count returns the number of ranges in |os|.
func (os Offsets) Count() int {
	if len(os) == 0 {
		return 0
	}
	return len(os) - 1
}

// GetBounds returns the start and stop of range |i|.
func (os Offsets) GetBounds(i int) (start, stop uint32) {
	return os[i], os[i+1]
}

// Last returns the end of the last range.
func (os Offsets) Last() uint32 {
	return os[len(os)-1]
}

// Append closes a new range ending at |end|.
func (os Offsets) Append(end uint32) Offsets {
	return append(os, end)
}

// Validate checks that |os| starts at zero and never decreases. If
// |even| is set every range must have an even length.
func (os Offsets) Validate(even bool) error {
	if len(os) == 0 || os[0] != 0 {
		return fmt.Errorf("offsets must begin with 0")
	}
	for i := 1; i < len(os); i++ {
		if os[i] < os[i-1] {
			return fmt.Errorf("offsets decrease at index %d: %d < %d", i, os[i], os[i-1])
		}
		if even && (os[i]-os[i-1])%2 != 0 {
			return fmt.Errorf("range %d has odd length %d", i-1, os[i]-os[i-1])
		}
	}
	return nil
}
