package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diversepwmeasurement/JWebAssembly/internal/classfile"
	"github.com/diversepwmeasurement/JWebAssembly/internal/compilelog"
	"github.com/diversepwmeasurement/JWebAssembly/internal/config"
	"github.com/diversepwmeasurement/JWebAssembly/internal/modulegen"
	"github.com/diversepwmeasurement/JWebAssembly/internal/wasmtext"
)

var (
	compileConfigPath string
	compileOutPath    string
	compileVerbose    bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <library.yaml>...",
	Short: "Compile one or more YAML class-library fixtures into a WAT module",
	Long: `compile reads class-file libraries from the YAML fixture format
documented by internal/classfile.LoadFixtureFile (this repo's stand-in for
a real .class-file parser — see DESIGN.md) and runs the module generation
pipeline, writing the resulting module as indented WebAssembly text.

If --config names a project file, its enableExceptionHandling/enableGC
switches and libraries list (scanned with internal/classfile.Discover,
reported but not parsed — no bytecode parser is wired in this core) are
applied before compiling.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileConfigPath, "config", "", "project config YAML (enableExceptionHandling, enableGC, libraries)")
	compileCmd.Flags().StringVar(&compileOutPath, "out", "", "output file (default: stdout)")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "enable fine-grained logging")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	level := compilelog.LevelInfo
	if compileVerbose {
		level = compilelog.LevelFine
	}
	log := compilelog.New(level)

	opts := config.Default()
	if compileConfigPath != "" {
		loaded, err := config.Load(compileConfigPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		opts = loaded
		for _, lib := range opts.Libraries {
			entries, err := classfile.Discover(lib)
			if err != nil {
				log.Logf(compilelog.LevelWarn, "skipping library %s: %v", lib, err)
				continue
			}
			log.Logf(compilelog.LevelInfo, "discovered %d class entries under %s", len(entries), lib)
		}
	}

	var classes []classfile.ClassFile
	for _, path := range args {
		fixtureClasses, err := classfile.LoadFixtureFile(path)
		if err != nil {
			return fmt.Errorf("loading fixture %s: %w", path, err)
		}
		classes = append(classes, fixtureClasses...)
	}

	out := os.Stdout
	if compileOutPath != "" {
		f, err := os.Create(compileOutPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", compileOutPath, err)
		}
		defer f.Close()
		out = f
	}

	writer := wasmtext.New(out)
	loader := classfile.NewLoader(nil)
	gen := modulegen.New(loader, writer, opts, log)

	if err := gen.Run(classes); err != nil {
		return fmt.Errorf("compiling: %w", err)
	}
	return writer.Err()
}
