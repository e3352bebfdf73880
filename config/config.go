// Package config loads the jmmc.toml settings file.
package config

import (
	"errors"
	"fmt"
	"github.com/pelletier/go-toml/v2"
	"io"
	"io/fs"
	"os"
)

const FileName = "jmmc.toml"

type Config struct {
	Ollir  Ollir  `toml:"ollir"`
	Jasmin Jasmin `toml:"jasmin"`
	Log    Log    `toml:"log"`
}

type Ollir struct {
	Indent int `toml:"indent"`
}

// Jasmin toggles the peephole rewrites of the bytecode translator.
type Jasmin struct {
	FoldConstants     bool `toml:"fold-constants"`
	StrengthReduction bool `toml:"strength-reduction"`
	Increments        bool `toml:"increments"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Default() *Config {
	return &Config{
		Ollir: Ollir{Indent: 4},
		Jasmin: Jasmin{
			FoldConstants:     true,
			StrengthReduction: true,
			Increments:        true,
		},
		Log: Log{Level: "info", Format: "console"},
	}
}

// Load reads the file at path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads TOML from r on top of the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Ollir.Indent < 0 {
		return nil, fmt.Errorf("ollir.indent must not be negative, got %d", cfg.Ollir.Indent)
	}
	return cfg, nil
}
