package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// pkgCmd is a surface placeholder: §1/§6.1 mark the package manager
// itself out of scope for the core, but `axiom pkg ...` must still exist
// and exit cleanly rather than error as an unknown subcommand.
var pkgCmd = &cobra.Command{
	Use:   "pkg",
	Short: "package operations (not implemented by the core)",
	Run: func(cmd *cobra.Command, args []string) {
		libs := os.Getenv("AXIOM_LIBS")
		if libs == "" {
			libs = "(unset)"
		}
		fmt.Printf("pkg: not implemented; package store is %s\n", libs)
	},
}
