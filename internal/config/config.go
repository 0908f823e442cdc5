// Package config loads compiler options (an "options object exposing
// useEH()/useGC()") from an optional project file: a plain struct
// unmarshaled from YAML, with defaults applied for anything the file
// omits.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the loadable form of the compiler's EH/GC switches, plus
// library search paths. cmd/j2wasmc discovers and reports the libraries;
// the generator does not read them.
type Options struct {
	EnableExceptionHandling bool     `yaml:"enableExceptionHandling"`
	EnableGC                bool     `yaml:"enableGC"`
	Libraries               []string `yaml:"libraries"`
}

// UseEH implements instr.Options.
func (o Options) UseEH() bool { return o.EnableExceptionHandling }

// UseGC implements instr.Options.
func (o Options) UseGC() bool { return o.EnableGC }

// Default returns the options a caller gets with no project file: GC is on
// (a struct can't be constructed without it), EH is off (exception-handling
// instructions are elided unless explicitly enabled).
func Default() Options {
	return Options{EnableExceptionHandling: false, EnableGC: true}
}

// Load reads and parses a YAML project file at path, applying Default()
// for any field the file doesn't set.
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}
