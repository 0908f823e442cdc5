package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set by -ldflags "-X main.version=..." at release build time;
// left as "dev" for local builds.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the compiler version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("j2wasmc " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
