package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "j2wasmc",
	Short:         "Compile class files into a WebAssembly module",
	SilenceUsage:  true,
	SilenceErrors: true,
}
