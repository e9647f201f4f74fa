package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"minilang/config"
	"minilang/pipeline"
	"minilang/vm"
)

// runCmd implements the run command: compile a source file and execute
// it on the VM.
type runCmd struct {
	noOpt      bool
	inputs     string
	traceIR    bool
	traceASM   bool
	traceVM    bool
	configPath string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Compile and execute MiniLang code from a source file" }
func (*runCmd) Usage() string {
	return `run [-no-opt] [-inputs "1 2 3"] [-trace-ir] [-trace-asm] [-trace-vm] <file>:
  Compile MiniLang code and run it on the VM.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.noOpt, "no-opt", false, "disable constant folding")
	f.StringVar(&cmd.inputs, "inputs", "", "whitespace-separated integers preloaded for 'read'")
	f.BoolVar(&cmd.traceIR, "trace-ir", false, "print the TAC listing before running")
	f.BoolVar(&cmd.traceASM, "trace-asm", false, "print the assembly listing before running")
	f.BoolVar(&cmd.traceVM, "trace-vm", false, "print a per-instruction execution trace")
	f.StringVar(&cmd.configPath, "config", "", "path to a minilang.toml config file")
}

// parseInputs splits a whitespace-separated list of decimal integers.
func parseInputs(raw string) ([]int64, error) {
	fields := strings.Fields(raw)
	values := make([]int64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid input %q: expected an integer", field)
		}
		values = append(values, value)
	}
	return values, nil
}

func (cmd *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if cmd.traceIR || cfg.Trace.IR {
		pipeline.Emit(artifacts, pipeline.StageIR, os.Stdout)
	}
	if cmd.traceASM || cfg.Trace.ASM {
		pipeline.Emit(artifacts, pipeline.StageASM, os.Stdout)
	}

	machine := vm.New(artifacts.Machine)
	if cmd.inputs != "" {
		values, err := parseInputs(cmd.inputs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitUsageError
		}
		machine.SetInputs(values)
	} else {
		machine.UseStdin(os.Stdin)
	}
	if cmd.traceVM || cfg.Execution.TraceVM {
		machine.EnableTrace(cfg.Execution.SnapshotCells)
	}

	outputs, runErr := machine.Run()
	for _, value := range outputs {
		fmt.Println(value)
	}
	for _, record := range machine.TraceLog() {
		fmt.Println(record)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
