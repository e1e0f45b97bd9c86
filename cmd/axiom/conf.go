package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/axiom-lang/axiom/internal/config"
)

var confCmd = &cobra.Command{
	Use:   "conf",
	Short: "inspect and change the configuration store",
}

var confGetCmd = &cobra.Command{
	Use:   "get <key>",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := loadConfig()
		v, ok := store.Get(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "axiom: unknown config key %q\n", args[0])
			os.Exit(4)
		}
		fmt.Println(v)
	},
}

var confSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := loadConfig()
		if err := store.Set(args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "axiom: %v\n", err)
			os.Exit(4)
		}
		saveConfig(store)
	},
}

var confListCmd = &cobra.Command{
	Use: "list",
	Run: func(cmd *cobra.Command, args []string) {
		store := loadConfig()
		for _, name := range store.List() {
			v, _ := store.Get(name)
			fmt.Printf("%s=%v\n", name, v)
		}
	},
}

var confResetCmd = &cobra.Command{
	Use:  "reset <key>",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := loadConfig()
		if err := store.Reset(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "axiom: %v\n", err)
			os.Exit(4)
		}
		saveConfig(store)
	},
}

var confDescribeCmd = &cobra.Command{
	Use:  "describe <key>",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := loadConfig()
		p, ok := store.Describe(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "axiom: unknown config key %q\n", args[0])
			os.Exit(4)
		}
		cur, _ := store.Get(args[0])
		fmt.Printf("%s\n  type:    %s\n  default: %v\n  current: %v\n  %s\n", p.Name, kindName(p.Kind), p.Default, cur, p.Description)
	},
}

func init() {
	confCmd.AddCommand(confGetCmd, confSetCmd, confListCmd, confResetCmd, confDescribeCmd)
}

func kindName(k config.Kind) string {
	switch k {
	case config.KindBool:
		return "bool"
	case config.KindInt:
		return "int"
	default:
		return "string"
	}
}

// configPath resolves the on-disk config file under AXIOM_HOME (§6.2),
// defaulting to the user config directory the way os.UserConfigDir does
// for every other well-behaved CLI.
func configPath() string {
	home := os.Getenv("AXIOM_HOME")
	if home == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			home = filepath.Join(dir, "axiom")
		} else {
			home = "."
		}
	}
	return filepath.Join(home, "config")
}

func loadConfig() *config.Store {
	store := config.New()
	if text, err := os.ReadFile(configPath()); err == nil {
		store.Load(string(text))
	}
	store.ApplyOSEnv()
	return store
}

func saveConfig(store *config.Store) {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "axiom: %v\n", err)
		return
	}
	var b []byte
	for _, name := range store.List() {
		v, _ := store.Get(name)
		b = append(b, []byte(fmt.Sprintf("%s=%v\n", name, v))...)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "axiom: %v\n", err)
	}
}
