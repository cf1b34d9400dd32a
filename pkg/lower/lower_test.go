package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tjordan/coilc/pkg/diag"
	"github.com/tjordan/coilc/pkg/ir"
	"github.com/tjordan/coilc/pkg/prescan"
	"github.com/tjordan/coilc/pkg/stackabi"
	"github.com/tjordan/coilc/pkg/token"
)

func runAll(t *testing.T, src string) (*ir.Program, *diag.Diagnostic) {
	t.Helper()
	lines := token.Tokenize(src)
	pre, perr := prescan.Run(lines)
	if perr != nil {
		return nil, perr
	}
	backend, err := stackabi.New(pre.Config)
	require.NoError(t, err)
	return Run(lines, pre, backend)
}

func TestLowerIfEmitsNegatedCondJumpAndResolvesElseLabelAtClose(t *testing.T) {
	prog, err := runAll(t, "if equal a b {\nset c 1\n}\n")
	require.Nil(t, err)
	require.Len(t, prog.Ops, 2)

	jc := prog.Ops[0].(*ir.JumpCond)
	require.Equal(t, "notEqual", jc.Cond)
	require.Equal(t, 0, jc.Meta.PC)
	require.Equal(t, 1, jc.Meta.Width)

	set := prog.Ops[1].(*ir.Set)
	require.Equal(t, 1, set.Meta.PC)

	require.Equal(t, jc.Target, lastKey(t, prog.Labels))
	require.Equal(t, 2, prog.Labels[jc.Target])
}

func lastKey(t *testing.T, m map[string]int) string {
	t.Helper()
	require.Len(t, m, 1)
	for k := range m {
		return k
	}
	return ""
}

func TestLowerIfElseSkipsElseBodyAndMergesAtSharedEnd(t *testing.T) {
	prog, err := runAll(t, "if equal a b {\nset c 1\n} else {\nset c 2\n}\n")
	require.Nil(t, err)
	require.Len(t, prog.Ops, 4)

	jc := prog.Ops[0].(*ir.JumpCond)
	skip := prog.Ops[2].(*ir.JumpAbs)
	require.NotEqual(t, jc.Target, skip.Target, "the if-false target and the else-skip target are distinct labels")
	require.Equal(t, prog.Labels[jc.Target], 3, "else branch begins right after the skip jump")
	require.Equal(t, prog.Labels[skip.Target], 4, "both branches merge at the final close")
}

func TestLowerWhileTopLabelPrecedesConditionAndLoopsBack(t *testing.T) {
	prog, err := runAll(t, "while lessThan i n {\nset i 1\n}\n")
	require.Nil(t, err)
	require.Len(t, prog.Ops, 4)

	top := prog.Ops[0].(*ir.LabelDef)
	cond := prog.Ops[1].(*ir.JumpCond)
	require.Equal(t, "greaterThanEq", cond.Cond)
	back := prog.Ops[3].(*ir.JumpAbs)
	require.Equal(t, top.Name, back.Target)
	require.Equal(t, 0, prog.Labels[top.Name])
	require.Equal(t, 3, prog.Labels[cond.Target])
}

func TestLowerContinueInDoWhileTargetsTheConditionNotTheTop(t *testing.T) {
	prog, err := runAll(t, "do {\ncontinue\n} while lessThan i n\n")
	require.Nil(t, err)
	require.Len(t, prog.Ops, 3)

	top := prog.Ops[0].(*ir.LabelDef)
	jump := prog.Ops[1].(*ir.JumpAbs)
	cond := prog.Ops[2].(*ir.JumpCond)

	require.NotEqual(t, top.Name, jump.Target, "continue must not re-enter at the loop top")
	require.Equal(t, cond.Meta.PC, prog.Labels[jump.Target], "continue lands exactly where the condition test begins")
	require.Equal(t, top.Name, cond.Target)
}

func TestLowerIfOnAStackVariableMaterializesItBeforeTheJump(t *testing.T) {
	src := "stack_config cell bank1\n" +
		"fn f *n {\n" +
		"if lessThanEq *n 1 {\n" +
		"nop 0\n" +
		"}\n" +
		"}\n"
	prog, err := runAll(t, src)
	require.Nil(t, err)

	var jc *ir.JumpCond
	for _, op := range prog.Ops {
		if j, ok := op.(*ir.JumpCond); ok {
			jc = j
			break
		}
	}
	require.NotNil(t, jc)
	require.Equal(t, ir.Stack, jc.Lhs.Kind, "*n is a stack operand, not a global")
	require.Greater(t, jc.Meta.Width, 1, "materializing a stack operand costs more than the bare jump line")
}

func TestLowerLoopBreakTargetsPastTheBackEdge(t *testing.T) {
	prog, err := runAll(t, "loop {\nbreak\n}\n")
	require.Nil(t, err)
	require.Len(t, prog.Ops, 3)

	top := prog.Ops[0].(*ir.LabelDef)
	brk := prog.Ops[1].(*ir.JumpAbs)
	back := prog.Ops[2].(*ir.JumpAbs)

	require.Equal(t, top.Name, back.Target)
	require.Equal(t, 2, prog.Labels[brk.Target], "break lands right after the loop-back jump")
}

func TestLowerBreakContinueOutsideAnyLoopIsSemanticError(t *testing.T) {
	_, err := runAll(t, "break\n")
	require.NotNil(t, err)
	require.Equal(t, diag.Semantic, err.Kind)

	_, err = runAll(t, "continue\n")
	require.NotNil(t, err)
	require.Equal(t, diag.Semantic, err.Kind)
}

func TestLowerFnCallRoundTripComputesReturnPCFromCallWidth(t *testing.T) {
	src := "stack_config cell bank1\n" +
		"fn callee *a -> *r {\n" +
		"return *a\n" +
		"}\n" +
		"fn main {\n" +
		"call callee 5 -> out\n" +
		"}\n"
	prog, err := runAll(t, src)
	require.Nil(t, err)

	var call *ir.CallFn
	var leaveCallee *ir.LeaveFn
	for _, op := range prog.Ops {
		switch o := op.(type) {
		case *ir.CallFn:
			call = o
		case *ir.LeaveFn:
			if leaveCallee == nil {
				leaveCallee = o
			}
		}
	}
	require.NotNil(t, call)
	require.Equal(t, call.Meta.PC+call.Meta.Width-1, call.ReturnPC, "the callee must resume the caller at the single return-value copy that ends the call expansion")
	require.Equal(t, []ir.Operand{{Kind: ir.Literal, Literal: "5"}}, call.Args)
	require.Equal(t, "out", call.Rets[0].Name)

	require.NotNil(t, leaveCallee)
	require.Equal(t, "callee", leaveCallee.FuncID)
	require.Equal(t, 2, leaveCallee.FrameSize, "callee's 1 param plus the reserved return-PC slot")
}

func TestLowerCallArityMismatchIsSemanticError(t *testing.T) {
	src := "stack_config cell bank1\n" +
		"fn callee *a -> *r {\n" +
		"return *a\n" +
		"}\n" +
		"fn main {\n" +
		"call callee 1 2 -> out\n" +
		"}\n"
	_, err := runAll(t, src)
	require.NotNil(t, err)
	require.Equal(t, diag.Semantic, err.Kind)
}

func TestLowerCallToUndefinedFunctionIsResolutionError(t *testing.T) {
	src := "stack_config cell bank1\n" +
		"fn main {\n" +
		"call nope -> out\n" +
		"}\n"
	_, err := runAll(t, src)
	require.NotNil(t, err)
	require.Equal(t, diag.Resolution, err.Kind)
}

func TestLowerCallProcAndRetRoundTrip(t *testing.T) {
	src := "stack_config cell bank1\n" +
		"worker:\n" +
		"ret\n" +
		"callproc worker\n"
	prog, err := runAll(t, src)
	require.Nil(t, err)
	require.Len(t, prog.Ops, 3)

	require.Equal(t, 0, prog.Labels["worker"])
	retProc := prog.Ops[1].(*ir.RetProc)
	require.Equal(t, 0, retProc.Meta.PC)

	cp := prog.Ops[2].(*ir.CallProc)
	require.Equal(t, "worker", cp.Callee)
	require.Equal(t, cp.Meta.PC+cp.Meta.Width, cp.ReturnPC)
}

func TestLowerStackOpWithoutStackConfigIsSemanticError(t *testing.T) {
	_, err := runAll(t, "push\n")
	require.NotNil(t, err)
	require.Equal(t, diag.Semantic, err.Kind)
}

func TestLowerRawPassThroughRejectsStackOperand(t *testing.T) {
	src := "stack_config cell bank1\n" +
		"fn f *a {\n" +
		"nop *a\n" +
		"}\n"
	_, err := runAll(t, src)
	require.NotNil(t, err)
	require.Equal(t, diag.Semantic, err.Kind)
}

func TestLowerRawPassThroughGlobalsAndLiteralsEmitVerbatim(t *testing.T) {
	prog, err := runAll(t, "nop a 1\n")
	require.Nil(t, err)
	require.Len(t, prog.Ops, 1)
	raw := prog.Ops[0].(*ir.Raw)
	require.Equal(t, "nop", raw.Opcode)
	require.Equal(t, []ir.Operand{{Kind: ir.Global, Name: "a"}, {Kind: ir.Literal, Literal: "1"}}, raw.Operands)
}

func TestLowerUnterminatedBlockIsSyntaxError(t *testing.T) {
	_, err := runAll(t, "if equal a b {\nset c 1\n")
	require.NotNil(t, err)
	require.Equal(t, diag.Syntactic, err.Kind)
}

func TestLowerSetDestinationMustNotBeALiteral(t *testing.T) {
	_, err := runAll(t, "set 1 a\n")
	require.NotNil(t, err)
	require.Equal(t, diag.Syntactic, err.Kind)
}
