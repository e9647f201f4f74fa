package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"minilang/config"
	"minilang/pipeline"
)

// buildCmd implements the build command: compile a source file and emit
// artifacts without running the program.
type buildCmd struct {
	noOpt      bool
	emit       string
	emitAll    bool
	outDir     string
	configPath string
}

func (*buildCmd) Name() string     { return "build" }
func (*buildCmd) Synopsis() string { return "Compile a MiniLang source file" }
func (*buildCmd) Usage() string {
	return `build [-no-opt] [-emit stage] [-emit-all] [-out-dir dir] <file>:
  Compile MiniLang code and optionally serialize stage artifacts.
`
}

func (cmd *buildCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.noOpt, "no-opt", false, "disable constant folding")
	f.StringVar(&cmd.emit, "emit", "", "serialize one stage to stdout (tokens|ast|ir|asm|machine)")
	f.BoolVar(&cmd.emitAll, "emit-all", false, "write every stage artifact into -out-dir")
	f.StringVar(&cmd.outDir, "out-dir", "", "output directory for -emit-all (default from config)")
	f.StringVar(&cmd.configPath, "config", "", "path to a minilang.toml config file")
}

func (cmd *buildCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}

	cfg, err := config.Load(cmd.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	optimize := cfg.Compile.Optimize && !cmd.noOpt
	artifacts, err := pipeline.Compile(string(data), pipeline.Options{Optimize: optimize})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	reportWarnings(artifacts)

	if cmd.emit != "" {
		if err := pipeline.Emit(artifacts, cmd.emit, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	if cmd.emitAll {
		outDir := cmd.outDir
		if outDir == "" {
			outDir = cfg.Emit.OutDir
		}
		if err := pipeline.WriteAll(artifacts, outDir); err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}

// reportWarnings prints accumulated semantic warnings to stderr.
// Warnings never fail the build.
func reportWarnings(artifacts *pipeline.Artifacts) {
	for _, warning := range artifacts.Warnings {
		fmt.Fprintln(os.Stderr, warning)
	}
}
