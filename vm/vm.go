// Package vm interprets linked machine programs on the accumulator
// machine. State is a program counter (an even byte index into the code
// array), the ACC register, and a fixed memory array sized at link time.
// The memory array is never resized during execution; given identical
// code and inputs, two runs produce identical outputs and traces.
package vm

import (
	"fmt"
	"io"

	"minilang/asm"
)

// DefaultSnapshotCells is how many leading memory cells a trace record
// captures unless configured otherwise.
const DefaultSnapshotCells = 32

// Trace is one record of the execution log, appended after each executed
// instruction when tracing is enabled.
type Trace struct {
	PCBefore int
	Op       int64
	Arg      int64
	Acc      int64
	Mem      []int64
}

func (t Trace) String() string {
	mnemonic, _ := asm.MnemonicFor(t.Op)
	return fmt.Sprintf("pc=%-4d %-5s %-6d acc=%-6d mem=%v", t.PCBefore, mnemonic, t.Arg, t.Acc, t.Mem)
}

// VM executes one machine program. Its lifetime spans a single Run; the
// program itself is borrowed read-only.
type VM struct {
	program *asm.Program

	pc  int
	acc int64
	mem []int64

	inputs    []int64
	inputPos  int
	hasInputs bool
	stdin     io.Reader

	outputs []int64

	trace         bool
	snapshotCells int
	traceLog      []Trace
}

// New returns a VM for the given program with memory pre-populated from
// the program's constant initialization map.
func New(program *asm.Program) *VM {
	vm := &VM{
		program:       program,
		mem:           make([]int64, program.MemorySize),
		snapshotCells: DefaultSnapshotCells,
	}
	for address, value := range program.MemInit {
		vm.mem[address] = value
	}
	return vm
}

// SetInputs preloads the batch input list consumed by IN. Exhausting the
// batch is a RuntimeError.
func (vm *VM) SetInputs(inputs []int64) {
	vm.inputs = inputs
	vm.hasInputs = true
}

// UseStdin makes IN scan integers from the given reader when no batch
// input list was supplied.
func (vm *VM) UseStdin(in io.Reader) {
	vm.stdin = in
}

// EnableTrace turns on per-instruction trace records capturing the first
// cells memory cells (clamped to the memory size).
func (vm *VM) EnableTrace(cells int) {
	vm.trace = true
	if cells <= 0 {
		cells = DefaultSnapshotCells
	}
	vm.snapshotCells = cells
}

// Outputs returns the ordered sequence produced by OUT so far.
func (vm *VM) Outputs() []int64 {
	return vm.outputs
}

// TraceLog returns the accumulated trace records.
func (vm *VM) TraceLog() []Trace {
	return vm.traceLog
}

// Run executes the program until HALT, the end of the code array, or a
// runtime error. It returns the ordered output sequence.
func (vm *VM) Run() ([]int64, error) {
	code := vm.program.Code

	for vm.pc < len(code) {
		pcBefore := vm.pc
		op := code[vm.pc]
		arg := code[vm.pc+1]
		vm.pc += 2

		if err := vm.dispatch(pcBefore, op, arg); err != nil {
			return vm.outputs, err
		}
		if vm.trace {
			vm.record(pcBefore, op, arg)
		}
		if op == asm.OpcodeHalt {
			break
		}
	}
	return vm.outputs, nil
}

func (vm *VM) dispatch(pcBefore int, op int64, arg int64) error {
	switch op {
	case asm.OpcodeLoad:
		vm.acc = vm.mem[arg]
	case asm.OpcodeStore:
		vm.mem[arg] = vm.acc
	case asm.OpcodeAdd:
		vm.acc += vm.mem[arg]
	case asm.OpcodeSub:
		vm.acc -= vm.mem[arg]
	case asm.OpcodeMul:
		vm.acc *= vm.mem[arg]
	case asm.OpcodeDiv:
		if vm.mem[arg] == 0 {
			return RuntimeError{Kind: DivideByZero, PC: pcBefore, Message: "division by zero"}
		}
		// Go's integer division truncates toward zero.
		vm.acc /= vm.mem[arg]
	case asm.OpcodeJmp:
		vm.pc = int(arg) * 2
	case asm.OpcodeJlt:
		if vm.acc < 0 {
			vm.pc = int(arg) * 2
		}
	case asm.OpcodeJgt:
		if vm.acc > 0 {
			vm.pc = int(arg) * 2
		}
	case asm.OpcodeJle:
		if vm.acc <= 0 {
			vm.pc = int(arg) * 2
		}
	case asm.OpcodeJge:
		if vm.acc >= 0 {
			vm.pc = int(arg) * 2
		}
	case asm.OpcodeJeq:
		if vm.acc == 0 {
			vm.pc = int(arg) * 2
		}
	case asm.OpcodeJne:
		if vm.acc != 0 {
			vm.pc = int(arg) * 2
		}
	case asm.OpcodeIn:
		value, err := vm.nextInput(pcBefore)
		if err != nil {
			return err
		}
		vm.mem[arg] = value
	case asm.OpcodeOut:
		vm.outputs = append(vm.outputs, vm.mem[arg])
	case asm.OpcodeHalt:
		// handled by the fetch loop
	default:
		return RuntimeError{Kind: UnknownOpcode, PC: pcBefore, Message: fmt.Sprintf("opcode %d", op)}
	}
	return nil
}

// nextInput returns the next value for IN: from the batch list when one
// was supplied, otherwise scanned from the configured reader.
func (vm *VM) nextInput(pcBefore int) (int64, error) {
	if vm.hasInputs {
		if vm.inputPos >= len(vm.inputs) {
			return 0, RuntimeError{Kind: InputExhausted, PC: pcBefore, Message: "no more batch inputs"}
		}
		value := vm.inputs[vm.inputPos]
		vm.inputPos++
		return value, nil
	}
	if vm.stdin != nil {
		var value int64
		if _, err := fmt.Fscan(vm.stdin, &value); err != nil {
			return 0, RuntimeError{Kind: InputExhausted, PC: pcBefore, Message: fmt.Sprintf("reading input: %v", err)}
		}
		return value, nil
	}
	return 0, RuntimeError{Kind: InputExhausted, PC: pcBefore, Message: "no input source configured"}
}

// record appends a trace entry for the instruction just executed.
func (vm *VM) record(pcBefore int, op int64, arg int64) {
	cells := vm.snapshotCells
	if cells > len(vm.mem) {
		cells = len(vm.mem)
	}
	snapshot := make([]int64, cells)
	copy(snapshot, vm.mem[:cells])
	vm.traceLog = append(vm.traceLog, Trace{
		PCBefore: pcBefore,
		Op:       op,
		Arg:      arg,
		Acc:      vm.acc,
		Mem:      snapshot,
	})
}
