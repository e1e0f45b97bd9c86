package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var chkCmd = &cobra.Command{
	Use:   "chk <file>",
	Short: "compile a source file without running it, reporting diagnostics",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(doChk(args[0]))
	},
}

func doChk(path string) int {
	src, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "axiom: %s: %v\n", path, err)
		return 3
	}

	_, _, errs := frontend(path, src, runOptions{optimize: false})
	if len(errs) > 0 {
		printDiagnostics(path, src, errs)
		return errs[0].ExitCode()
	}

	fmt.Printf("%s: ok\n", path)
	return 0
}
