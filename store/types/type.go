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

// Package types contains the type descriptors of the columnar core and the
// Registry that interns them.
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dolthub/colblock/store/val"
)

// Type describes the shape of a value: a base name plus an ordered list of
// parameters. A Type is immutable once constructed and may be shared
// between goroutines without synchronization.
//
// If Category() is ScalarCategory, Encoding() gives the physical encoding
// of its values and parameters, if any, are literals. If Category() is
// ArrayCategory or MapCategory, the parameters are the element type, or the
// key and value types, in that order.
type Type struct {
	name     string
	params   []Param
	category Category
	enc      val.Encoding
	sig      string
}

func newType(name string, params []Param, cat Category, enc val.Encoding) *Type {
	return &Type{
		name:     name,
		params:   params,
		category: cat,
		enc:      enc,
		sig:      signature(name, params),
	}
}

// Name returns the upper case base name of |t|.
func (t *Type) Name() string {
	return t.name
}

// Params returns a copy of the parameters of |t|.
func (t *Type) Params() []Param {
	return append([]Param(nil), t.params...)
}

// Param returns the ith parameter of |t|.
func (t *Type) Param(i int) Param {
	return t.params[i]
}

// NumParams returns the number of parameters of |t|.
func (t *Type) NumParams() int {
	return len(t.params)
}

// Category returns the structural category of |t|.
func (t *Type) Category() Category {
	return t.category
}

// Encoding returns the physical encoding of a scalar type, or val.NullEnc
// for structural types.
func (t *Type) Encoding() val.Encoding {
	return t.enc
}

// Signature returns the canonical signature of |t|, eg "map(varchar,bigint)".
func (t *Type) Signature() string {
	return t.sig
}

func (t *Type) String() string {
	return t.sig
}

// ElementType returns the element type of an array type.
func (t *Type) ElementType() *Type {
	if t.category != ArrayCategory {
		panic(fmt.Sprintf("%s is not an array type", t.sig))
	}
	return t.params[0].typ
}

// KeyType returns the key type of a map type.
func (t *Type) KeyType() *Type {
	if t.category != MapCategory {
		panic(fmt.Sprintf("%s is not a map type", t.sig))
	}
	return t.params[0].typ
}

// ValueType returns the value type of a map type.
func (t *Type) ValueType() *Type {
	if t.category != MapCategory {
		panic(fmt.Sprintf("%s is not a map type", t.sig))
	}
	return t.params[1].typ
}

// Literal returns the ith parameter of |t| if it is a literal.
func (t *Type) Literal(i int) (int64, bool) {
	if i >= len(t.params) || t.params[i].kind != LiteralParam {
		return 0, false
	}
	return t.params[i].lit, true
}

// Comparable returns true if values of |t| can be tested for equality and
// therefore used as map keys. Map layouts depend on insertion order, so
// maps, and anything containing a map, are not comparable.
func (t *Type) Comparable() bool {
	switch t.category {
	case ScalarCategory:
		return true
	case ArrayCategory:
		return t.ElementType().Comparable()
	default:
		return false
	}
}

// Orderable returns true if values of |t| have a total order.
func (t *Type) Orderable() bool {
	switch t.category {
	case ScalarCategory:
		return true
	case ArrayCategory:
		return t.ElementType().Orderable()
	default:
		return false
	}
}

// Equals returns true if |t| and |other| have the same base name and
// structurally equal parameter sequences. Parameter order is significant.
func (t *Type) Equals(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.name != other.name || len(t.params) != len(other.params) {
		return false
	}
	for i := range t.params {
		if !t.params[i].Equals(other.params[i]) {
			return false
		}
	}
	return true
}

// HumanReadableString renders |t| the way users write it, eg
// "MAP<VARCHAR,ARRAY<BIGINT>>" or "DECIMAL(10,2)".
func (t *Type) HumanReadableString() string {
	if len(t.params) == 0 {
		return t.name
	}
	lp, rp := "(", ")"
	if t.category != ScalarCategory {
		lp, rp = "<", ">"
	}
	var sb strings.Builder
	sb.WriteString(t.name)
	sb.WriteString(lp)
	for i, p := range t.params {
		if i != 0 {
			sb.WriteString(",")
		}
		if p.kind == TypeParam {
			sb.WriteString(p.typ.HumanReadableString())
		} else {
			sb.WriteString(strconv.FormatInt(p.lit, 10))
		}
	}
	sb.WriteString(rp)
	return sb.String()
}

// ParamKind distinguishes type parameters from literal parameters.
type ParamKind uint8

const (
	TypeParam ParamKind = iota
	LiteralParam
)

// Param is a single type parameter: either a nested Type or a literal.
type Param struct {
	kind ParamKind
	typ  *Type
	lit  int64
}

// TypeArg returns a Param holding |t|.
func TypeArg(t *Type) Param {
	return Param{kind: TypeParam, typ: t}
}

// LiteralArg returns a Param holding the literal |n|.
func LiteralArg(n int64) Param {
	return Param{kind: LiteralParam, lit: n}
}

// Kind returns whether |p| holds a Type or a literal.
func (p Param) Kind() ParamKind {
	return p.kind
}

// Type returns the Type held by |p|, or nil for literals.
func (p Param) Type() *Type {
	return p.typ
}

// Literal returns the literal held by |p|.
func (p Param) Literal() int64 {
	return p.lit
}

// Equals returns true if |p| and |other| are structurally equal.
func (p Param) Equals(other Param) bool {
	if p.kind != other.kind {
		return false
	}
	if p.kind == LiteralParam {
		return p.lit == other.lit
	}
	return p.typ.Equals(other.typ)
}

func (p Param) signature() string {
	if p.kind == LiteralParam {
		return strconv.FormatInt(p.lit, 10)
	}
	if p.typ == nil {
		return "<nil>"
	}
	return p.typ.sig
}

func signature(name string, params []Param) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(name))
	if len(params) == 0 {
		return sb.String()
	}
	sb.WriteString("(")
	for i, p := range params {
		if i != 0 {
			sb.WriteString(",")
		}
		sb.WriteString(p.signature())
	}
	sb.WriteString(")")
	return sb.String()
}
