package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axiom-lang/axiom/internal/config"
	"github.com/axiom-lang/axiom/internal/diag"
	"github.com/axiom-lang/axiom/internal/host"
	"github.com/axiom-lang/axiom/internal/profile"
	"github.com/axiom-lang/axiom/internal/vm"
)

var (
	runConfigPath string
	runFlame      string
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "compile and execute an Axiom source file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(doRun(args[0]))
	},
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a key=value configuration file (§6.5)")
	runCmd.Flags().StringVar(&runFlame, "flame-out", "", "write a pprof-compatible folded-stack profile here")
}

func doRun(path string) int {
	src, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "axiom: %s: %v\n", path, err)
		return 3
	}

	store := config.New()
	if runConfigPath != "" {
		text, err := os.ReadFile(runConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "axiom: %s: %v\n", runConfigPath, err)
			return 3
		}
		for _, e := range store.Load(string(text)) {
			fmt.Fprintf(os.Stderr, "axiom: config: %v\n", e)
		}
	}
	store.ApplyOSEnv()

	program, in, errs := frontend(path, src, runOptions{optimize: store.Bool("peephole_optimizer")})
	if len(errs) > 0 {
		printDiagnostics(path, src, errs)
		return 1
	}

	logger := newLogger()
	machine := vm.New(in, logger)
	machine.Debug = wantDebug()
	machine.MaxCallDepth = store.MaxCallDepth()

	var prof *profile.Profiler
	if store.Bool("profiler_enabled") || runFlame != "" {
		prof = profile.New(logger)
		machine.Profiler = prof
	}

	out := bufio.NewWriter(os.Stdout)
	host.Core(out).Install(machine)

	_, d := machine.Run(program)
	out.Flush()

	if d != nil {
		printDiagnostics(path, src, []*diag.Diagnostic{d})
		return 2
	}

	if runFlame != "" && prof != nil {
		f, err := os.Create(runFlame)
		if err != nil {
			fmt.Fprintf(os.Stderr, "axiom: %s: %v\n", runFlame, err)
			return 2
		}
		defer f.Close()
		if err := prof.WriteFlameGraph(f); err != nil {
			fmt.Fprintf(os.Stderr, "axiom: %s: %v\n", runFlame, err)
			return 2
		}
	}

	return 0
}

// printDiagnostics renders every diagnostic in errs against src, sharing
// one Renderer so rustc-style output is consistent across compile errors
// and the single runtime error that can abort a run.
func printDiagnostics(path string, src []byte, errs []*diag.Diagnostic) {
	r := diag.NewRenderer(map[string][]byte{path: src}, !wantColor())
	for _, d := range errs {
		r.Render(os.Stderr, d)
	}
}
