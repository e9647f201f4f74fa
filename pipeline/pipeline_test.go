package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
	"minilang/vm"
)

// compileAndRun drives the whole pipeline and executes the linked
// program with the given batch inputs.
func compileAndRun(t *testing.T, source string, optimize bool, inputs []int64) ([]int64, error) {
	t.Helper()
	artifacts, err := Compile(source, Options{Optimize: optimize})
	require.NoError(t, err, "compilation failed")

	machine := vm.New(artifacts.Machine)
	machine.SetInputs(inputs)
	return machine.Run()
}

func TestScenarioArithmeticAndLoop(t *testing.T) {
	source := `
read a;
read b;
c = a + b*2;
if c >= 10 { print c; } else { print 0; }
i = 0;
while i < c { print i; i = i + 1; }
end`

	outputs, err := compileAndRun(t, source, true, []int64{3, 7})
	require.NoError(t, err)

	want := []int64{17}
	for i := int64(0); i < 17; i++ {
		want = append(want, i)
	}
	require.Equal(t, want, outputs)
}

func TestScenarioNestedIf(t *testing.T) {
	source := `
read x;
read y;
if x < y {
    if x + y > 10 { print x+y; } else { print x; }
} else {
    print y;
}
if x == y { print 1; } else { print 0; }
end`

	outputs, err := compileAndRun(t, source, true, []int64{5, 10})
	require.NoError(t, err)
	require.Equal(t, []int64{15, 0}, outputs)
}

func TestScenarioZeroIterationLoop(t *testing.T) {
	source := `
read n;
i = 0;
while i < n { print i; i = i + 1; }
print 999;
end`

	outputs, err := compileAndRun(t, source, true, []int64{0})
	require.NoError(t, err)
	require.Equal(t, []int64{999}, outputs)
}

func TestScenarioConstantExpressions(t *testing.T) {
	source := `
print 2+3*4;
print 20/5;
print 2+(3+1);
print (2+3)*4;
print (1<2);
print (3==3);
end`

	want := []int64{14, 4, 6, 20, 1, 1}

	folded, err := compileAndRun(t, source, true, nil)
	require.NoError(t, err)
	require.Equal(t, want, folded)

	// Folded and unfolded programs must agree bit-for-bit.
	unfolded, err := compileAndRun(t, source, false, nil)
	require.NoError(t, err)
	require.Equal(t, want, unfolded)
}

func TestScenarioInterleavedReads(t *testing.T) {
	source := `
read a; print a;
read b; print b;
read c; print c;
end`

	outputs, err := compileAndRun(t, source, true, []int64{42, 7, 0})
	require.NoError(t, err)
	require.Equal(t, []int64{42, 7, 0}, outputs)
}

func TestScenarioDivideByZero(t *testing.T) {
	source := `
read x;
y = x / 0;
print y;
end`

	for _, optimize := range []bool{true, false} {
		_, err := compileAndRun(t, source, optimize, []int64{1})
		require.Error(t, err)
		runtimeErr, ok := err.(vm.RuntimeError)
		require.True(t, ok, "expected vm.RuntimeError, got %T", err)
		require.Equal(t, vm.DivideByZero, runtimeErr.Kind)
	}
}

func TestWarningsAccumulateWithoutAborting(t *testing.T) {
	source := "print x; print y; end"
	artifacts, err := Compile(source, Options{Optimize: true})
	require.NoError(t, err)
	require.Len(t, artifacts.Warnings, 2)
	require.NotNil(t, artifacts.Machine)
}

func TestCompileErrorsAbort(t *testing.T) {
	_, err := Compile("x = $;", Options{Optimize: true})
	require.Error(t, err, "lex errors must abort")

	_, err = Compile("x = ;", Options{Optimize: true})
	require.Error(t, err, "parse errors must abort")
}

func TestDeterministicRuns(t *testing.T) {
	source := `
read n;
i = 0;
while i < n { print i * i; i = i + 1; }
end`

	run := func() ([]int64, []vm.Trace) {
		artifacts, err := Compile(source, Options{Optimize: true})
		require.NoError(t, err)
		machine := vm.New(artifacts.Machine)
		machine.SetInputs([]int64{5})
		machine.EnableTrace(8)
		outputs, err := machine.Run()
		require.NoError(t, err)
		return outputs, machine.TraceLog()
	}

	firstOutputs, firstTrace := run()
	secondOutputs, secondTrace := run()
	require.Equal(t, firstOutputs, secondOutputs)
	require.Equal(t, firstTrace, secondTrace)
	require.Equal(t, []int64{0, 1, 4, 9, 16}, firstOutputs)
}

func TestFoldedProgramIsSmaller(t *testing.T) {
	source := "print 2+3*4; end"

	folded, err := Compile(source, Options{Optimize: true})
	require.NoError(t, err)
	unfolded, err := Compile(source, Options{Optimize: false})
	require.NoError(t, err)
	require.Less(t, len(folded.IR), len(unfolded.IR))
}
