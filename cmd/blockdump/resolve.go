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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/attic-labs/kingpin"
	"github.com/fatih/color"

	"github.com/dolthub/colblock/store/types"
)

func resolveCmd(app *kingpin.Application) (*kingpin.CmdClause, kingpinHandler) {
	cmd := app.Command("resolve", "Resolves a type signature and prints its canonical form and parameters")
	sig := cmd.Arg("signature", "a type signature, eg map(varchar,array(bigint))").Required().String()
	return cmd, func(e env) int {
		return runResolve(e, *sig)
	}
}

func runResolve(e env, sig string) int {
	reg, promReg := newRegistry(e)
	typ, err := reg.Parse(sig)
	if err != nil {
		e.logger.WithField("signature", sig).Error(err.Error())
		return 1
	}

	fmt.Fprintf(e.out, "signature: %s\n", typ.Signature())
	fmt.Fprintf(e.out, "type:      %s\n", typ.HumanReadableString())
	printType(e.out, typ, 0)

	if e.stats {
		printStats(e, reg, promReg)
	}
	return 0
}

// printType prints |typ| and its parameters as an indented tree.
func printType(w io.Writer, typ *types.Type, depth int) {
	indent := strings.Repeat("  ", depth)
	switch typ.Category() {
	case types.ScalarCategory:
		fmt.Fprintf(w, "%s%s %s (%s)\n", indent, color.CyanString(typ.Name()), typ.Category(), typ.Encoding())
	default:
		fmt.Fprintf(w, "%s%s %s\n", indent, color.CyanString(typ.Name()), typ.Category())
	}

	for i := 0; i < typ.NumParams(); i++ {
		p := typ.Param(i)
		if p.Kind() == types.LiteralParam {
			fmt.Fprintf(w, "%s  %d\n", indent, p.Literal())
			continue
		}
		printType(w, p.Type(), depth+1)
	}
}
