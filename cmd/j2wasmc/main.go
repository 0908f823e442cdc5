// Command j2wasmc compiles a library of class files into a WebAssembly
// module: the cmd/j2wasmc entry point wiring internal/config,
// internal/classfile, and internal/modulegen behind a cobra CLI, with one
// file per subcommand.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
