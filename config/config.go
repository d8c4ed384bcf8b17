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

package config

import (
	"io"
	"os"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v3"
)

const (
	EnvMaxBlockSize          = "COLBLOCK_MAX_BLOCK_SIZE"
	EnvExpectedBytesPerEntry = "COLBLOCK_EXPECTED_BYTES_PER_ENTRY"
	EnvLogLevel              = "COLBLOCK_LOG_LEVEL"
)

// ErrInvalidConfig is returned when a config file, an environment override
// or a loaded value is malformed.
var ErrInvalidConfig = errors.NewKind("invalid builder config: %s")

// ByteSize is a size in bytes that is written in YAML and the environment
// in human units, e.g. "64KiB" or "1MB".
type ByteSize uint64

func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b))
}

func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	sz, err := humanize.ParseBytes(s)
	if err != nil {
		return ErrInvalidConfig.New(err.Error())
	}
	*b = ByteSize(sz)
	return nil
}

func (b ByteSize) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

// BuilderConfig sizes the builders of a block.
type BuilderConfig struct {
	// MaxBlockSize is the size at which producers should cut a block.
	MaxBlockSize ByteSize `yaml:"max_block_size" default:"65536"`
	// ExpectedBytesPerEntry is reserved per value of variable width builders.
	ExpectedBytesPerEntry int `yaml:"expected_bytes_per_entry" default:"32"`
	// ExpectedEntriesPerPosition is the expected number of elements of an
	// array or entries of a map, used to size nested builders.
	ExpectedEntriesPerPosition int    `yaml:"expected_entries_per_position" default:"4"`
	LogLevel                   string `yaml:"log_level" default:"info"`
}

// Default returns a BuilderConfig holding the default values.
func Default() *BuilderConfig {
	cfg := &BuilderConfig{}
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the config file at |path|, if any, and applies environment
// overrides on top of it.
func Load(path string) (*BuilderConfig, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if err = decode(f, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads a config from |r| without consulting the environment.
func Parse(r io.Reader) (*BuilderConfig, error) {
	cfg := Default()
	if err := decode(r, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *BuilderConfig) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	err := decoder.Decode(cfg)
	if err == io.EOF {
		return nil
	} else if err != nil && !ErrInvalidConfig.Is(err) {
		return ErrInvalidConfig.New(err.Error())
	}
	return err
}

func applyEnv(cfg *BuilderConfig, lookup func(string) (string, bool)) error {
	if s, ok := lookup(EnvMaxBlockSize); ok {
		sz, err := humanize.ParseBytes(s)
		if err != nil {
			return ErrInvalidConfig.New(EnvMaxBlockSize + ": " + err.Error())
		}
		cfg.MaxBlockSize = ByteSize(sz)
	}
	if s, ok := lookup(EnvExpectedBytesPerEntry); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return ErrInvalidConfig.New(EnvExpectedBytesPerEntry + ": " + err.Error())
		}
		cfg.ExpectedBytesPerEntry = n
	}
	if s, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = s
	}
	return nil
}

// Validate checks that every size is positive and the log level is known.
func (c *BuilderConfig) Validate() error {
	if c.MaxBlockSize == 0 {
		return ErrInvalidConfig.New("max_block_size must be positive")
	}
	if c.ExpectedBytesPerEntry <= 0 {
		return ErrInvalidConfig.New("expected_bytes_per_entry must be positive")
	}
	if c.ExpectedEntriesPerPosition <= 0 {
		return ErrInvalidConfig.New("expected_entries_per_position must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return ErrInvalidConfig.New(err.Error())
	}
	return nil
}

// Level returns the configured log level, falling back to info.
func (c *BuilderConfig) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
