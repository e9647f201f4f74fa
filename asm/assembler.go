// Package asm assembles accumulator assembly into the flat machine
// program the VM executes, in two phases. The assemble phase scans the
// instruction stream, records label positions (labels occupy no code
// space) and keeps one record per real instruction. The link phase lays
// out memory deterministically, resolves every operand and emits the
// bytecode array of [opcode, operand] pairs.
package asm

import (
	"sort"

	"minilang/codegen"
)

// Machine opcodes. The table is part of the external contract: any VM
// consuming an emitted machine program must implement exactly these
// values, with the PC-in-bytes / jump-as-instruction-index convention.
const (
	OpcodeLoad  int64 = 1
	OpcodeStore int64 = 2
	OpcodeAdd   int64 = 3
	OpcodeSub   int64 = 4
	OpcodeMul   int64 = 5
	OpcodeDiv   int64 = 6
	OpcodeJmp   int64 = 7
	OpcodeJlt   int64 = 8
	OpcodeJgt   int64 = 9
	OpcodeJle   int64 = 10
	OpcodeJge   int64 = 11
	OpcodeJeq   int64 = 12
	OpcodeJne   int64 = 13
	OpcodeIn    int64 = 14
	OpcodeOut   int64 = 15
	OpcodeHalt  int64 = 16
)

var opcodes = map[codegen.Mnemonic]int64{
	codegen.LOAD:  OpcodeLoad,
	codegen.STORE: OpcodeStore,
	codegen.ADD:   OpcodeAdd,
	codegen.SUB:   OpcodeSub,
	codegen.MUL:   OpcodeMul,
	codegen.DIV:   OpcodeDiv,
	codegen.JMP:   OpcodeJmp,
	codegen.JLT:   OpcodeJlt,
	codegen.JGT:   OpcodeJgt,
	codegen.JLE:   OpcodeJle,
	codegen.JGE:   OpcodeJge,
	codegen.JEQ:   OpcodeJeq,
	codegen.JNE:   OpcodeJne,
	codegen.IN:    OpcodeIn,
	codegen.OUT:   OpcodeOut,
	codegen.HALT:  OpcodeHalt,
}

// MnemonicFor returns the assembly mnemonic for an opcode, for
// disassembly and traces.
func MnemonicFor(opcode int64) (codegen.Mnemonic, bool) {
	for mnemonic, candidate := range opcodes {
		if candidate == opcode {
			return mnemonic, true
		}
	}
	return "", false
}

var jumpMnemonics = map[codegen.Mnemonic]bool{
	codegen.JMP: true,
	codegen.JLT: true,
	codegen.JGT: true,
	codegen.JLE: true,
	codegen.JGE: true,
	codegen.JEQ: true,
	codegen.JNE: true,
}

// Program is the linked machine program. The code array holds
// [opcode, operand] pairs; jump operands are instruction indices, data
// operands are memory addresses, HALT's operand is -1.
type Program struct {
	Code []int64

	// Symbols maps every symbol name to its memory address.
	Symbols map[string]int

	// MemInit maps addresses of constant symbols to their preload value.
	// Variables and temporaries start zeroed.
	MemInit map[int]int64

	// Labels maps label names to instruction indices.
	Labels map[string]int

	// MemorySize is the highest assigned address plus one.
	MemorySize int
}

// Instructions returns the number of instructions in the program.
func (p *Program) Instructions() int {
	return len(p.Code) / 2
}

// Assemble runs both phases over the assembly artifact and returns the
// linked program. An unresolved label or symbol reference yields a
// LinkError; either indicates a compiler bug upstream, not bad input.
func Assemble(assembly codegen.Assembly) (*Program, error) {

	// Phase 1: separate labels from instructions. A label maps to the
	// index of the next real instruction.
	labels := map[string]int{}
	records := []codegen.Instruction{}
	for _, instruction := range assembly.Code {
		if instruction.Mnemonic == codegen.LABEL {
			if _, duplicate := labels[instruction.Operand]; duplicate {
				return nil, LinkError{Ref: instruction.Operand, Message: "duplicate label"}
			}
			labels[instruction.Operand] = len(records)
			continue
		}
		records = append(records, instruction)
	}

	// Phase 2: assign memory addresses in a deterministic order —
	// constants ascending by value, then variables lexicographically,
	// then temporaries by numeric suffix.
	symbols := map[string]int{}
	memInit := map[int]int64{}
	next := 0

	constantNames := make([]string, 0, len(assembly.Constants))
	for name := range assembly.Constants {
		constantNames = append(constantNames, name)
	}
	sort.Slice(constantNames, func(i, j int) bool {
		return assembly.Constants[constantNames[i]] < assembly.Constants[constantNames[j]]
	})
	for _, name := range constantNames {
		symbols[name] = next
		memInit[next] = assembly.Constants[name]
		next++
	}

	variableNames := make([]string, 0, len(assembly.Variables))
	for name := range assembly.Variables {
		variableNames = append(variableNames, name)
	}
	sort.Strings(variableNames)
	for _, name := range variableNames {
		symbols[name] = next
		next++
	}

	temporaryNames := make([]string, 0, len(assembly.Temporaries))
	for name := range assembly.Temporaries {
		temporaryNames = append(temporaryNames, name)
	}
	sort.Slice(temporaryNames, func(i, j int) bool {
		return assembly.Temporaries[temporaryNames[i]] < assembly.Temporaries[temporaryNames[j]]
	})
	for _, name := range temporaryNames {
		symbols[name] = next
		next++
	}

	// Resolve operands and emit the flat code array.
	code := make([]int64, 0, len(records)*2)
	for _, record := range records {
		opcode, known := opcodes[record.Mnemonic]
		if !known {
			return nil, LinkError{Ref: string(record.Mnemonic), Message: "unknown mnemonic"}
		}

		var operand int64
		switch {
		case record.Mnemonic == codegen.HALT:
			operand = -1
		case jumpMnemonics[record.Mnemonic]:
			index, resolved := labels[record.Operand]
			if !resolved {
				return nil, LinkError{Ref: record.Operand, Message: "unresolved label"}
			}
			operand = int64(index)
		default:
			address, resolved := symbols[record.Operand]
			if !resolved {
				return nil, LinkError{Ref: record.Operand, Message: "unresolved symbol"}
			}
			operand = int64(address)
		}
		code = append(code, opcode, operand)
	}

	return &Program{
		Code:       code,
		Symbols:    symbols,
		MemInit:    memInit,
		Labels:     labels,
		MemorySize: next,
	}, nil
}
