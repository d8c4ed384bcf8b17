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
	"io"
	"os"

	"github.com/attic-labs/kingpin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/colblock/store/types"
)

// env is what a command needs to run.
type env struct {
	out     io.Writer
	logger  *logrus.Logger
	verbose bool
	stats   bool
	json    bool
}

type kingpinHandler func(e env) int

type kingpinCommand func(app *kingpin.Application) (*kingpin.CmdClause, kingpinHandler)

var kingpinCommands = []kingpinCommand{
	resolveCmd,
	buildCmd,
}

func main() {
	// allow short (-h) help
	kingpin.EnableFileExpansion = false
	app := kingpin.New("blockdump", "Resolves type signatures and builds columnar blocks from JSON fixtures.")
	app.HelpFlag.Short('h')

	verboseVal := app.Flag("verbose", "log debug output").Short('v').Bool()
	statsVal := app.Flag("stats", "print type registry statistics when done").Bool()

	handlers := map[string]kingpinHandler{}
	for _, cmdFunction := range kingpinCommands {
		command, handler := cmdFunction(app)
		handlers[command.FullCommand()] = handler
	}

	input := kingpin.MustParse(app.Parse(os.Args[1:]))

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *verboseVal {
		logger.SetLevel(logrus.DebugLevel)
	}

	os.Exit(handlers[input](env{
		out:     os.Stdout,
		logger:  logger,
		verbose: *verboseVal,
		stats:   *statsVal,
	}))
}

// newRegistry returns the registry a command resolves its types with, and
// the Prometheus registry its metrics are recorded in.
func newRegistry(e env) (*types.Registry, *prometheus.Registry) {
	promReg := prometheus.NewRegistry()
	reg := types.NewRegistry(
		types.WithLogger(e.logger),
		types.WithMetrics(types.NewRegistryMetrics(promReg)),
	)
	return reg, promReg
}
