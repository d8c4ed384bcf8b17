// Copyright 2019 Dolthub, Inc.
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

package types

import (
	"fmt"

	"github.com/dolthub/colblock/store/val"
)

// Category is the structural shape of a type. It decides which block
// layout and builder strategy a type uses.
type Category uint8

// The set of categories is closed. Code switching over Category should
// handle every member.
const (
	ScalarCategory Category = iota
	ArrayCategory
	MapCategory
)

var categoryNames = map[Category]string{
	ScalarCategory: "scalar",
	ArrayCategory:  "array",
	MapCategory:    "map",
}

// String returns the name of the category.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// Base names recognized by a Registry.
const (
	BooleanName   = "BOOLEAN"
	TinyintName   = "TINYINT"
	SmallintName  = "SMALLINT"
	IntegerName   = "INTEGER"
	BigintName    = "BIGINT"
	RealName      = "REAL"
	DoubleName    = "DOUBLE"
	VarcharName   = "VARCHAR"
	VarbinaryName = "VARBINARY"
	DecimalName   = "DECIMAL"
	UUIDName      = "UUID"
	TimestampName = "TIMESTAMP"

	ArrayName = "ARRAY"
	MapName   = "MAP"
)

const (
	// MaxDecimalPrecision is the widest DECIMAL a Registry resolves.
	MaxDecimalPrecision = 38
	// MaxShortDecimalPrecision is the widest DECIMAL stored as an unscaled int64.
	MaxShortDecimalPrecision = 18
)

// scalarDef describes a scalar base name. Literal parameters are
// validated by |check| when present.
type scalarDef struct {
	enc         val.Encoding
	minLiterals int
	maxLiterals int
	check       func(lits []int64) ([]int64, val.Encoding, error)
}

var scalarDefs = map[string]scalarDef{
	BooleanName:   {enc: val.BoolEnc},
	TinyintName:   {enc: val.Int8Enc},
	SmallintName:  {enc: val.Int16Enc},
	IntegerName:   {enc: val.Int32Enc},
	BigintName:    {enc: val.Int64Enc},
	RealName:      {enc: val.Float32Enc},
	DoubleName:    {enc: val.Float64Enc},
	VarcharName:   {enc: val.StringEnc, maxLiterals: 1, check: checkVarchar},
	VarbinaryName: {enc: val.BytesEnc},
	DecimalName:   {enc: val.DecimalEnc, minLiterals: 1, maxLiterals: 2, check: checkDecimal},
	UUIDName:      {enc: val.UUIDEnc},
	TimestampName: {enc: val.TimestampEnc},
}

// IsScalarName returns true if |name| is a recognized scalar base name.
func IsScalarName(name string) bool {
	_, ok := scalarDefs[name]
	return ok
}

func checkVarchar(lits []int64) ([]int64, val.Encoding, error) {
	if len(lits) == 1 && lits[0] < 1 {
		return nil, 0, fmt.Errorf("varchar length must be positive, got %d", lits[0])
	}
	return lits, val.StringEnc, nil
}

// checkDecimal canonicalizes DECIMAL(p) to DECIMAL(p,0) and picks the
// short or long encoding from the precision.
func checkDecimal(lits []int64) ([]int64, val.Encoding, error) {
	p, s := lits[0], int64(0)
	if len(lits) == 2 {
		s = lits[1]
	}
	if p < 1 || p > MaxDecimalPrecision {
		return nil, 0, fmt.Errorf("decimal precision must be in [1, %d], got %d", MaxDecimalPrecision, p)
	}
	if s < 0 || s > p {
		return nil, 0, fmt.Errorf("decimal scale must be in [0, %d], got %d", p, s)
	}
	enc := val.DecimalEnc
	if p <= MaxShortDecimalPrecision {
		enc = val.Int64Enc
	}
	return []int64{p, s}, enc, nil
}
