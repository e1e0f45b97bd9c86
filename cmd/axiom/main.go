// Command axiom is the Axiom language CLI (§6.1): run, chk, fmt, pkg and
// conf subcommands over a single cobra root, the pattern ajroetker-goat's
// own single-root-command CLI uses for its translation-unit driver.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	noColorFlag bool
	debugFlag   bool
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "axiom",
	Short:         "the Axiom language toolchain",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored diagnostic output")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log one trace line per executed instruction")
	rootCmd.AddCommand(runCmd, chkCmd, fmtCmd, pkgCmd, confCmd)
}

// wantColor decides whether diagnostics render in color: AXIOM_NO_COLOR,
// the --no-color flag, and a non-tty stderr all suppress it (§6.2, §6.4).
func wantColor() bool {
	if noColorFlag || os.Getenv("AXIOM_NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// wantDebug decides whether the VM logs an opcode trace (§4.G.1).
func wantDebug() bool {
	return debugFlag || os.Getenv("AXIOM_DEBUG") != ""
}

func newLogger() *zap.Logger {
	if !wantDebug() {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	// Every subcommand calls os.Exit itself with the documented code
	// (§6.1/§7: 1 compile error, 2 runtime error, 3 file-not-found, 0
	// success); an error reaching here is cobra's own domain — unknown
	// flags or a wrong argument count — which is exit code 4.
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(4)
	}
}
