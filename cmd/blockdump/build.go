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
	"os"

	"github.com/attic-labs/kingpin"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/colblock/config"
	"github.com/dolthub/colblock/store/block"
	"github.com/dolthub/colblock/store/blockutil"
	"github.com/dolthub/colblock/store/dynamic"
	"github.com/dolthub/colblock/store/types"
)

func buildCmd(app *kingpin.Application) (*kingpin.CmdClause, kingpinHandler) {
	cmd := app.Command("build", "Builds a block from a JSON array of values and prints it")
	sig := cmd.Flag("type", "the type signature of the values").Short('t').Required().String()
	cfgPath := cmd.Flag("config", "a builder config file").Short('c').String()
	asJSON := cmd.Flag("json", "print positions as JSON").Bool()
	fixture := cmd.Arg("fixture", "a file holding a JSON array of values").Required().String()
	return cmd, func(e env) int {
		e.json = *asJSON
		return runBuild(e, *sig, *cfgPath, *fixture)
	}
}

func runBuild(e env, sig, cfgPath, fixture string) int {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		e.logger.WithField("config", cfgPath).Error(err.Error())
		return 1
	}
	if !e.verbose {
		e.logger.SetLevel(cfg.Level())
	}

	reg, promReg := newRegistry(e)
	typ, err := reg.Parse(sig)
	if err != nil {
		e.logger.WithField("signature", sig).Error(err.Error())
		return 1
	}

	rows, err := readFixture(fixture)
	if err != nil {
		e.logger.WithField("fixture", fixture).Error(err.Error())
		return 1
	}

	blk, err := buildBlock(e.logger, cfg, typ, rows)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"fixture":   fixture,
			"signature": typ.Signature(),
		}).Error(err.Error())
		return 1
	}

	if e.json {
		err = printJSON(e.out, typ, blk)
	} else {
		err = printBlock(e.out, typ, blk)
	}
	if err != nil {
		e.logger.Error(err.Error())
		return 1
	}
	if e.stats {
		printStats(e, reg, promReg)
	}
	return 0
}

func readFixture(path string) ([]dynamic.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := dynamic.FromJSON(data)
	if err != nil {
		return nil, err
	}
	return doc.AsList()
}

func buildBlock(logger *logrus.Logger, cfg *config.BuilderConfig, typ *types.Type, rows []dynamic.Value) (block.Block, error) {
	status := blockutil.NewStatus(cfg)
	bld, err := blockutil.NewBuilderWithConfig(typ, len(rows), cfg, status)
	if err != nil {
		return nil, err
	}

	warned := false
	for i, row := range rows {
		if err = blockutil.AppendValue(typ, row, bld); err != nil {
			return nil, fmt.Errorf("position %d: %s", i, err.Error())
		}
		if status.Full() && !warned {
			logger.WithFields(logrus.Fields{
				"position":       i,
				"max_block_size": humanize.IBytes(status.MaxBlockSize()),
			}).Warn("block exceeds the max block size")
			warned = true
		}
	}

	logger.WithFields(logrus.Fields{
		"positions": bld.Count(),
		"appended":  humanize.IBytes(status.Size()),
	}).Debug("building block")
	return bld.Build()
}

func printBlock(w io.Writer, typ *types.Type, blk block.Block) error {
	null := color.YellowString("NULL")
	for i := 0; i < blk.Count(); i++ {
		v, err := blockutil.ReadValue(typ, blk, i)
		if err != nil {
			return err
		}
		h, err := blockutil.HashPosition(typ, blk, i)
		if err != nil {
			return err
		}

		s := null
		if !v.IsNull() {
			s = v.String()
		}
		fmt.Fprintf(w, "%4d  %016x  %s\n", i, h, s)
	}

	switch b := blk.(type) {
	case *block.ArrayBlock:
		fmt.Fprintf(w, "offsets: %v\n", []uint32(b.Offsets()))
	case *block.MapBlock:
		fmt.Fprintf(w, "offsets: %v\n", []uint32(b.Offsets()))
	}
	fmt.Fprintf(w, "%s block, %d positions, %s\n", blk.Kind(), blk.Count(), humanize.IBytes(blk.SizeInBytes()))
	return nil
}

// printJSON prints every position of |blk| as one JSON document per line.
func printJSON(w io.Writer, typ *types.Type, blk block.Block) error {
	vals, err := blockutil.ReadAll(typ, blk)
	if err != nil {
		return err
	}
	for _, v := range vals {
		doc, err := v.ToJSON()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", doc)
	}
	return nil
}
