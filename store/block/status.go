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

// DefaultMaxBlockSize is the block size producers should cut at when no
// other limit is configured.
const DefaultMaxBlockSize uint64 = 64 * 1024

// Status tracks the bytes accumulated by a tree of builders so that a
// producer can decide when to finish the current block. Builders accept a
// nil *Status, in which case nothing is tracked.
//
// A Status is shared by the builders of one block and, like them, is not
// safe for concurrent use.
type Status struct {
	maxBlockSize uint64
	size         uint64
}

// NewStatus returns a Status that reports Full once |maxBlockSize| bytes
// have been appended.
func NewStatus(maxBlockSize uint64) *Status {
	if maxBlockSize == 0 {
		maxBlockSize = DefaultMaxBlockSize
	}
	return &Status{maxBlockSize: maxBlockSize}
}

func (s *Status) add(n int) {
	if s == nil {
		return
	}
	s.size += uint64(n)
}

// Size returns the number of bytes appended so far.
func (s *Status) Size() uint64 {
	if s == nil {
		return 0
	}
	return s.size
}

// MaxBlockSize returns the configured limit.
func (s *Status) MaxBlockSize() uint64 {
	if s == nil {
		return DefaultMaxBlockSize
	}
	return s.maxBlockSize
}

// Full returns true once the accumulated size reaches the limit.
func (s *Status) Full() bool {
	return s != nil && s.size >= s.maxBlockSize
}
