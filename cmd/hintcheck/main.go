package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hintcheck/hintcheck/internal/config"
	"github.com/hintcheck/hintcheck/internal/diag"
	"github.com/hintcheck/hintcheck/internal/manifest"
	"github.com/hintcheck/hintcheck/internal/types"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hintcheck <command> [options]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  check <manifest>...   Check the call sites of one or more module manifests\n")
		fmt.Fprintf(os.Stderr, "  types <manifest>      Print the resolved signatures of a module manifest\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "check":
		runCheck(args)
	case "types":
		runTypes(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a checker options YAML file")
	fs.Parse(args)

	paths := fs.Args()
	if len(paths) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: hintcheck check [-config file] <manifest>...\n")
		os.Exit(1)
	}

	opts := config.Default()
	if *configPath != "" {
		var err error
		opts, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hintcheck: %v\n", err)
			os.Exit(1)
		}
	}

	mods := make([]*manifest.Module, 0, len(paths))
	for _, path := range paths {
		m, err := manifest.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hintcheck: %v\n", err)
			os.Exit(1)
		}
		mods = append(mods, m)
	}

	// The hierarchy spans all manifests and is frozen before checking
	// starts; the per-module passes then run independently.
	oracle := manifest.BuildHierarchy(mods...)
	programs := make([]*types.Module, len(mods))
	for i, m := range mods {
		programs[i] = m.Program()
	}

	results, err := types.CheckAll(programs, oracle, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hintcheck: %v\n", err)
		os.Exit(1)
	}

	formatter := diag.NewFormatter(os.Stdout)
	failed := false
	for _, diags := range results {
		formatter.FormatAll(diags)
		if diag.HasErrors(diags) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func runTypes(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: hintcheck types <manifest>\n")
		os.Exit(1)
	}

	m, err := manifest.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "hintcheck: %v\n", err)
		os.Exit(1)
	}

	program := m.Program()
	resolver := types.NewResolver(program.Scope, manifest.BuildHierarchy(m), config.Default())
	for _, def := range program.Funcs {
		fmt.Println(resolver.ResolveSignature(def))
	}

	formatter := diag.NewFormatter(os.Stderr)
	formatter.FormatAll(resolver.Diags)
	if diag.HasErrors(resolver.Diags) {
		os.Exit(1)
	}
}
