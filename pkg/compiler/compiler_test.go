package compiler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tjordan/coilc/pkg/diag"
)

func compileOK(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	res, err := Compile(src, opts)
	require.Nil(t, err, "unexpected diagnostic: %v", err)
	return res
}

func TestCountingLoopProgressesThenHalts(t *testing.T) {
	src := "set a 0\n" +
		"myloop:\n" +
		"op add a a 1\n" +
		"jump myloop lessThan a 5\n" +
		"end\n"
	res := compileOK(t, src, Options{})
	vm := newTestVM(res.Emitted.Program)
	vm.run(t, 1000)
	require.Equal(t, float64(5), vm.globals["a"])
}

func TestIfElseSelectsBranchOnCondition(t *testing.T) {
	src := "if equal a 0 {\nset b 1\n} else {\nset b 2\n}\nend\n"

	res := compileOK(t, src, Options{})
	vm := newTestVM(res.Emitted.Program)
	vm.globals["a"] = 0
	vm.run(t, 1000)
	require.Equal(t, float64(1), vm.globals["b"])

	res = compileOK(t, src, Options{})
	vm = newTestVM(res.Emitted.Program)
	vm.globals["a"] = 7
	vm.run(t, 1000)
	require.Equal(t, float64(2), vm.globals["b"])
}

func TestWhileLoopTerminatesAtBoundary(t *testing.T) {
	src := "while lessThan a 10 {\nop add a a 2\n}\nend\n"
	res := compileOK(t, src, Options{})
	vm := newTestVM(res.Emitted.Program)
	vm.globals["a"] = 0
	vm.run(t, 1000)
	require.Equal(t, float64(10), vm.globals["a"])
}

// Confirms continue in a do/while body resumes at the condition test,
// not the loop top: the iteration where the guard fires must still be
// able to exit the loop immediately afterward, rather than being
// forced through one more unguarded pass.
func TestContinueInDoWhileResumesAtConditionNotTop(t *testing.T) {
	src := "do {\n" +
		"op add a a 1\n" +
		"if equal a 3 {\n" +
		"continue\n" +
		"}\n" +
		"op add b b 1\n" +
		"} while lessThan a 3\n" +
		"end\n"
	res := compileOK(t, src, Options{})
	vm := newTestVM(res.Emitted.Program)
	vm.run(t, 1000)
	require.Equal(t, float64(3), vm.globals["a"])
	require.Equal(t, float64(2), vm.globals["b"], "the continuing iteration must not run the body past the guard")
}

const fibonacciSource = `stack_config %s
call recursive_fibonacci 6 -> out6
call recursive_fibonacci 9 -> out9
end
fn recursive_fibonacci *n -> *r {
if lessThanEq *n 1 {
return *n
}
let *a
let *b
let *r
let *n1
let *n2
op add *n1 *n -1
call recursive_fibonacci *n1 -> *a
op add *n2 *n -2
call recursive_fibonacci *n2 -> *b
op add *r *a *b
return *r
}
`

func runFibonacci(t *testing.T, stackConfig string) *testVM {
	t.Helper()
	src := fmt.Sprintf(fibonacciSource, stackConfig)
	res := compileOK(t, src, Options{})
	vm := newTestVM(res.Emitted.Program)
	vm.run(t, 200000)
	return vm
}

func TestRecursiveFibonacciOnInternalStack(t *testing.T) {
	vm := runFibonacci(t, "size 1024")
	require.Equal(t, float64(8), vm.globals["out6"])
	require.Equal(t, float64(34), vm.globals["out9"])
}

func TestRecursiveFibonacciOnCellStackMatchesInternalStack(t *testing.T) {
	internal := runFibonacci(t, "size 1024")
	cell := runFibonacci(t, "cell bank1")

	require.Equal(t, internal.globals["out6"], cell.globals["out6"])
	require.Equal(t, internal.globals["out9"], cell.globals["out9"])
	require.Equal(t, float64(8), cell.globals["out6"])
	require.Equal(t, float64(34), cell.globals["out9"])
}

func TestFunctionCallRoundTripLeavesStackDepthUnchanged(t *testing.T) {
	src := "stack_config size 64\n" +
		"set before MF_stack_sz\n" +
		"call addOne 4 -> out\n" +
		"set after MF_stack_sz\n" +
		"end\n" +
		"fn addOne *n -> *r {\n" +
		"let *r\n" +
		"op add *r *n 1\n" +
		"return *r\n" +
		"}\n"
	res := compileOK(t, src, Options{})
	vm := newTestVM(res.Emitted.Program)
	vm.run(t, 5000)
	require.Equal(t, float64(5), vm.globals["out"])
	require.Equal(t, vm.globals["before"], vm.globals["after"], "MF_stack_sz must be restored after a call returns")
}

func TestJumpToUndefinedLabelIsResolutionError(t *testing.T) {
	_, err := Compile("jump nowhere always 0 0\n", Options{})
	require.NotNil(t, err)
	require.Equal(t, diag.Resolution, err.Kind)
}

func TestUnbalancedBracesNeverProduceAResult(t *testing.T) {
	res, err := Compile("if equal a 0 {\nset b 1\n", Options{})
	require.Nil(t, res)
	require.NotNil(t, err)
}

func TestEveryEmittedLineWidthMatchesItsOwnOpWidth(t *testing.T) {
	src := "stack_config size 8\n" +
		"fn double *n -> *r {\n" +
		"let *r\n" +
		"op add *r *n *n\n" +
		"return *r\n" +
		"}\n" +
		"call double 21 -> out\n" +
		"end\n"
	res := compileOK(t, src, Options{})
	total := 0
	for _, op := range res.IR.Ops {
		total += op.Meta().Width
	}
	require.Equal(t, total, len(res.Emitted.Program)-len(res.Backend.Prelude()))
}
