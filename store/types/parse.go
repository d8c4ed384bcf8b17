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
	"strconv"
	"unicode"
)

// sigNode is a parsed, unresolved type signature.
type sigNode struct {
	name string
	args []sigArg
}

type sigArg struct {
	node  *sigNode
	lit   int64
	isLit bool
}

// sigParser is a recursive descent parser for signatures such as
// "map(varchar,array(bigint))", "map<varchar,bigint>" or "decimal(10, 2)".
type sigParser struct {
	in  []rune
	pos int
}

func parseSignature(s string) (*sigNode, error) {
	p := &sigParser{in: []rune(s)}
	n, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.in) {
		return nil, fmt.Errorf("unexpected %q at offset %d", string(p.in[p.pos:]), p.pos)
	}
	return n, nil
}

func (p *sigParser) skipSpace() {
	for p.pos < len(p.in) && unicode.IsSpace(p.in[p.pos]) {
		p.pos++
	}
}

func (p *sigParser) peek() rune {
	if p.pos >= len(p.in) {
		return 0
	}
	return p.in[p.pos]
}

func (p *sigParser) parseType() (*sigNode, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.in) {
		r := p.in[p.pos]
		if unicode.IsLetter(r) || r == '_' || (p.pos > start && unicode.IsDigit(r)) {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		if p.pos >= len(p.in) {
			return nil, fmt.Errorf("expected type name at end of input")
		}
		return nil, fmt.Errorf("expected type name at offset %d, got %q", p.pos, string(p.peek()))
	}
	n := &sigNode{name: string(p.in[start:p.pos])}

	p.skipSpace()
	var closing rune
	switch p.peek() {
	case '(':
		closing = ')'
	case '<':
		closing = '>'
	default:
		return n, nil
	}
	p.pos++

	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		n.args = append(n.args, arg)

		p.skipSpace()
		switch r := p.peek(); {
		case r == ',':
			p.pos++
		case r == closing:
			p.pos++
			return n, nil
		case r == 0:
			return nil, fmt.Errorf("missing %q", string(closing))
		default:
			return nil, fmt.Errorf("unexpected %q at offset %d", string(r), p.pos)
		}
	}
}

func (p *sigParser) parseArg() (sigArg, error) {
	p.skipSpace()
	r := p.peek()
	if r == '-' || unicode.IsDigit(r) {
		start := p.pos
		p.pos++
		for p.pos < len(p.in) && unicode.IsDigit(p.in[p.pos]) {
			p.pos++
		}
		lit, err := strconv.ParseInt(string(p.in[start:p.pos]), 10, 64)
		if err != nil {
			return sigArg{}, fmt.Errorf("invalid literal %q", string(p.in[start:p.pos]))
		}
		return sigArg{lit: lit, isLit: true}, nil
	}
	n, err := p.parseType()
	if err != nil {
		return sigArg{}, err
	}
	return sigArg{node: n}, nil
}
