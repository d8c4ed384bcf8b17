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
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/colblock/store/val"
)

// ErrInvalidTypeSignature is returned when a base name is unknown or its
// parameters have the wrong arity or kinds.
var ErrInvalidTypeSignature = errors.NewKind("invalid type signature '%s': %s")

// Registry interns Types by canonical signature. Resolving structurally
// equal signatures always returns the same *Type, so downstream code can
// compare types by identity. Entries are never evicted.
//
// A Registry is safe for concurrent use.
type Registry struct {
	types   sync.Map // signature -> *Type
	flight  singleflight.Group
	count   atomic.Int64
	logger  *logrus.Logger
	metrics *RegistryMetrics
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used to report newly interned types.
func WithLogger(logger *logrus.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMetrics reports resolutions to |metrics|.
func WithMetrics(metrics *RegistryMetrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = metrics
	}
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logrus.New()
		r.logger.SetOutput(io.Discard)
	}
	return r
}

// Len returns the number of interned types.
func (r *Registry) Len() int {
	return int(r.count.Load())
}

// Resolve returns the canonical Type for |name| and |params|.
func (r *Registry) Resolve(name string, params ...Param) (*Type, error) {
	t, hit, err := r.resolve(name, params)
	r.metrics.observe(hit, err)
	return t, err
}

// Parse resolves a textual signature such as "map(varchar,array(bigint))".
// Every nested type is interned as well.
func (r *Registry) Parse(sig string) (*Type, error) {
	n, err := parseSignature(sig)
	if err != nil {
		r.metrics.observe(false, err)
		return nil, ErrInvalidTypeSignature.New(sig, err.Error())
	}
	return r.resolveNode(n)
}

func (r *Registry) resolveNode(n *sigNode) (*Type, error) {
	params := make([]Param, len(n.args))
	for i, arg := range n.args {
		if arg.isLit {
			params[i] = LiteralArg(arg.lit)
			continue
		}
		t, err := r.resolveNode(arg.node)
		if err != nil {
			return nil, err
		}
		params[i] = TypeArg(t)
	}
	return r.Resolve(n.name, params...)
}

// ArrayType resolves array(|elem|).
func (r *Registry) ArrayType(elem *Type) (*Type, error) {
	return r.Resolve(ArrayName, TypeArg(elem))
}

// MapType resolves map(|key|, |value|).
func (r *Registry) MapType(key, value *Type) (*Type, error) {
	return r.Resolve(MapName, TypeArg(key), TypeArg(value))
}

// Scalar resolves an unparameterized scalar type such as BIGINT.
func (r *Registry) Scalar(name string) (*Type, error) {
	return r.Resolve(name)
}

func (r *Registry) resolve(name string, params []Param) (*Type, bool, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	params, err := r.canonicalParams(params)
	if err != nil {
		return nil, false, err
	}

	sig := signature(name, params)
	if t, ok := r.types.Load(sig); ok {
		return t.(*Type), true, nil
	}

	cat, enc, params, err := validate(name, params)
	if err != nil {
		return nil, false, ErrInvalidTypeSignature.New(sig, err.Error())
	}
	// canonicalization may have changed the parameters
	sig = signature(name, params)

	hit := true
	v, err, _ := r.flight.Do(sig, func() (interface{}, error) {
		if t, ok := r.types.Load(sig); ok {
			return t, nil
		}
		t, loaded := r.types.LoadOrStore(sig, newType(name, params, cat, enc))
		if !loaded {
			hit = false
			n := r.count.Add(1)
			r.metrics.setInterned(n)
			r.logger.WithField("signature", sig).Debug("interned type")
		}
		return t, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Type), hit, nil
}

// canonicalParams replaces nested types with this Registry's instances so
// that identity comparisons hold for the whole type tree.
func (r *Registry) canonicalParams(params []Param) ([]Param, error) {
	out := make([]Param, len(params))
	for i, p := range params {
		if p.kind == LiteralParam || p.typ == nil {
			out[i] = p
			continue
		}
		if t, ok := r.types.Load(p.typ.sig); ok && t.(*Type) == p.typ {
			out[i] = p
			continue
		}
		t, _, err := r.resolve(p.typ.name, p.typ.params)
		if err != nil {
			return nil, err
		}
		out[i] = TypeArg(t)
	}
	return out, nil
}

// validate checks arity and parameter kinds for |name| and returns the
// category, encoding and canonical parameters of the type.
func validate(name string, params []Param) (Category, val.Encoding, []Param, error) {
	switch name {
	case ArrayName:
		if err := checkTypeParams(name, params, 1); err != nil {
			return 0, 0, nil, err
		}
		return ArrayCategory, val.NullEnc, params, nil

	case MapName:
		if err := checkTypeParams(name, params, 2); err != nil {
			return 0, 0, nil, err
		}
		if !params[0].typ.Comparable() {
			return 0, 0, nil, fmt.Errorf("map key type %s is not comparable", params[0].typ.sig)
		}
		return MapCategory, val.NullEnc, params, nil
	}

	def, ok := scalarDefs[name]
	if !ok {
		return 0, 0, nil, fmt.Errorf("unknown type %s", name)
	}
	if len(params) < def.minLiterals || len(params) > def.maxLiterals {
		return 0, 0, nil, arityError(name, def.minLiterals, def.maxLiterals, len(params))
	}
	if len(params) == 0 {
		return ScalarCategory, def.enc, params, nil
	}

	lits := make([]int64, len(params))
	for i, p := range params {
		if p.kind != LiteralParam {
			return 0, 0, nil, fmt.Errorf("%s parameter %d must be a literal", name, i)
		}
		lits[i] = p.lit
	}
	lits, enc, err := def.check(lits)
	if err != nil {
		return 0, 0, nil, err
	}
	canon := make([]Param, len(lits))
	for i, l := range lits {
		canon[i] = LiteralArg(l)
	}
	return ScalarCategory, enc, canon, nil
}

func checkTypeParams(name string, params []Param, arity int) error {
	if len(params) != arity {
		return arityError(name, arity, arity, len(params))
	}
	for i, p := range params {
		if p.kind != TypeParam || p.typ == nil {
			return fmt.Errorf("%s parameter %d must be a type", name, i)
		}
	}
	return nil
}

func arityError(name string, lo, hi, got int) error {
	if lo == hi {
		return fmt.Errorf("%s expects %d parameter(s), got %d", name, lo, got)
	}
	return fmt.Errorf("%s expects between %d and %d parameters, got %d", name, lo, hi, got)
}
