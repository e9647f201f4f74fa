package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"minilang/codegen"
	"minilang/parser"
)

// Stage names accepted by Emit, in pipeline order.
const (
	StageTokens  = "tokens"
	StageAST     = "ast"
	StageIR      = "ir"
	StageASM     = "asm"
	StageMachine = "machine"
)

// Stages lists the emittable stage names in pipeline order.
var Stages = []string{StageTokens, StageAST, StageIR, StageASM, StageMachine}

// Emit serializes one stage's artifact to the writer.
func Emit(artifacts *Artifacts, stage string, out io.Writer) error {
	switch stage {
	case StageTokens:
		return EmitTokens(artifacts, out)
	case StageAST:
		return EmitAST(artifacts, out)
	case StageIR:
		return EmitIR(artifacts, out)
	case StageASM:
		return EmitASM(artifacts, out)
	case StageMachine:
		return EmitMachine(artifacts, out)
	}
	return fmt.Errorf("unknown stage %q (expected one of %v)", stage, Stages)
}

// EmitTokens writes the token listing, one token per line.
func EmitTokens(artifacts *Artifacts, out io.Writer) error {
	for _, tok := range artifacts.Tokens {
		if _, err := fmt.Fprintln(out, tok); err != nil {
			return err
		}
	}
	return nil
}

// EmitAST writes the folded program as indented JSON.
func EmitAST(artifacts *Artifacts, out io.Writer) error {
	return parser.WriteAST(artifacts.Folded, out)
}

// EmitIR writes the TAC listing, one numbered tuple per line.
func EmitIR(artifacts *Artifacts, out io.Writer) error {
	for i, instruction := range artifacts.IR {
		if _, err := fmt.Fprintf(out, "%4d: %s\n", i, instruction); err != nil {
			return err
		}
	}
	return nil
}

// EmitASM writes the assembly listing. Labels are flushed left, real
// instructions carry their instruction index (labels occupy no code
// space, so the index only advances on real instructions).
func EmitASM(artifacts *Artifacts, out io.Writer) error {
	index := 0
	for _, instruction := range artifacts.Assembly.Code {
		if instruction.Mnemonic == codegen.LABEL {
			if _, err := fmt.Fprintf(out, "%s:\n", instruction.Operand); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(out, "%4d:    %s\n", index, instruction); err != nil {
			return err
		}
		index++
	}
	return nil
}

// EmitMachine writes the linked program in its stable textual form: the
// bytecode as whitespace-separated decimals, then the symbol→address
// map, the label map and the constant-initialization map. Symbols and
// constants are ordered by address, labels by instruction index.
func EmitMachine(artifacts *Artifacts, out io.Writer) error {
	machine := artifacts.Machine

	if _, err := fmt.Fprintln(out, "code:"); err != nil {
		return err
	}
	for i := 0; i < len(machine.Code); i += 2 {
		if _, err := fmt.Fprintf(out, "%d %d\n", machine.Code[i], machine.Code[i+1]); err != nil {
			return err
		}
	}

	symbolNames := make([]string, 0, len(machine.Symbols))
	for name := range machine.Symbols {
		symbolNames = append(symbolNames, name)
	}
	sort.Slice(symbolNames, func(i, j int) bool {
		return machine.Symbols[symbolNames[i]] < machine.Symbols[symbolNames[j]]
	})
	if _, err := fmt.Fprintln(out, "symbols:"); err != nil {
		return err
	}
	for _, name := range symbolNames {
		if _, err := fmt.Fprintf(out, "%s %d\n", name, machine.Symbols[name]); err != nil {
			return err
		}
	}

	labelNames := make([]string, 0, len(machine.Labels))
	for name := range machine.Labels {
		labelNames = append(labelNames, name)
	}
	sort.Slice(labelNames, func(i, j int) bool {
		if machine.Labels[labelNames[i]] != machine.Labels[labelNames[j]] {
			return machine.Labels[labelNames[i]] < machine.Labels[labelNames[j]]
		}
		return labelNames[i] < labelNames[j]
	})
	if _, err := fmt.Fprintln(out, "labels:"); err != nil {
		return err
	}
	for _, name := range labelNames {
		if _, err := fmt.Fprintf(out, "%s %d\n", name, machine.Labels[name]); err != nil {
			return err
		}
	}

	addresses := make([]int, 0, len(machine.MemInit))
	for address := range machine.MemInit {
		addresses = append(addresses, address)
	}
	sort.Ints(addresses)
	if _, err := fmt.Fprintln(out, "mem_init:"); err != nil {
		return err
	}
	for _, address := range addresses {
		if _, err := fmt.Fprintf(out, "%d %d\n", address, machine.MemInit[address]); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll writes every stage artifact into the directory as
// tokens.txt, ast.txt, ir.txt, asm.txt and machine.txt.
func WriteAll(artifacts *Artifacts, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	for _, stage := range Stages {
		path := filepath.Join(dir, stage+".txt")
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("error creating %s: %w", path, err)
		}
		if err := Emit(artifacts, stage, file); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}
