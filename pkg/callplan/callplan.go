// Package callplan builds the ordered sequence of primitive accessor
// steps realizing a call_fn or return_fn IR op. It exists so the
// lowering pass (which only needs the total width, to assign PCs) and
// the emitter (which needs the concrete rendered lines) never drift
// out of sync: both walk the same Step list, built once per op here.
//
// Return values cross the call boundary through a small set of
// dedicated globals (MF_ret0..MF_ret{k-1}) rather than through
// negative-offset stack slots below the callee's frame base. Single-
// threaded synchronous execution (spec.md §5) makes this safe: a
// caller always consumes its MF_ret* values immediately on resume,
// before any further call can overwrite them, including across
// recursion. See DESIGN.md for the tradeoff against the reference
// design's stack-resident return slots.
package callplan

import (
	"fmt"

	"github.com/tjordan/coilc/pkg/ir"
	"github.com/tjordan/coilc/pkg/stackabi"
)

// Step is one primitive unit of a composite expansion: its target-
// instruction width, and a renderer that produces the concrete lines
// given the PC immediately following this step (only the internal
// backend's dispatcher steps consult it).
type Step struct {
	Width  int
	Render func(resumePC int) []string
}

// Width sums a Step list's widths.
func Width(steps []Step) int {
	w := 0
	for _, s := range steps {
		w += s.Width
	}
	return w
}

// Render walks steps in order starting at pc, rendering each one with
// its own resumePC (pc advanced by that step's own width).
func Render(steps []Step, pc int) []string {
	var out []string
	for _, s := range steps {
		out = append(out, s.Render(pc+s.Width)...)
		pc += s.Width
	}
	return out
}

func setStep(dest, src string) Step {
	return Step{Width: 1, Render: func(int) []string {
		return []string{fmt.Sprintf("set %s %s", dest, src)}
	}}
}

// loadToAcc loads o into MF_acc: one instruction for a global/literal,
// the backend's read accessor for a stack slot.
func loadToAcc(o ir.Operand, backend stackabi.Backend, frameSize int) Step {
	switch o.Kind {
	case ir.Stack:
		return Step{Width: backend.ReadWidth(), Render: func(resumePC int) []string {
			return backend.EmitReadAt(o.Offset-frameSize, resumePC)
		}}
	case ir.Literal:
		return setStep("MF_acc", o.Literal)
	default:
		return setStep("MF_acc", o.Name)
	}
}

// storeAccTo stores MF_acc into o: one instruction for a global, the
// backend's write accessor for a stack slot. o must not be a literal.
func storeAccTo(o ir.Operand, backend stackabi.Backend, frameSize int) Step {
	if o.Kind == ir.Stack {
		return Step{Width: backend.WriteWidth(), Render: func(resumePC int) []string {
			return backend.EmitWriteAt(o.Offset-frameSize, resumePC)
		}}
	}
	return setStep(o.Name, "MF_acc")
}

// storeAccToArgSlot stores MF_acc into the call frame slot at
// MF_stack_sz+constant, always via the backend's write accessor since
// that slot isn't a declared stack name with its own frame offset.
func storeAccToArgSlot(constant int, backend stackabi.Backend) Step {
	return Step{Width: backend.WriteWidth(), Render: func(resumePC int) []string {
		return backend.EmitWriteAt(constant, resumePC)
	}}
}

func frameAdjustStep(delta int, backend stackabi.Backend) Step {
	return Step{Width: 1, Render: func(int) []string {
		return backend.FrameAdjust(delta)
	}}
}

// jumpToLabelStep renders an unconditional jump to a symbolic label,
// resolved against labels (nil during lowering, when only the width,
// always 1, is needed).
func jumpToLabelStep(target string, labels map[string]int) Step {
	return Step{Width: 1, Render: func(int) []string {
		pc := labels[target]
		return []string{fmt.Sprintf("jump %d always 0 0", pc)}
	}}
}

// Assign builds the Step list for a plain set: dest = src. When
// neither side is a stack slot this collapses to the single raw
// target line; a stack slot on either side pulls in the backend's
// accessor.
func Assign(dest, src ir.Operand, backend stackabi.Backend, frameSize int) []Step {
	if dest.Kind != ir.Stack && src.Kind != ir.Stack {
		srcText := src.Name
		if src.Kind == ir.Literal {
			srcText = src.Literal
		}
		return []Step{setStep(dest.Name, srcText)}
	}
	var steps []Step
	steps = append(steps, loadToAcc(src, backend, frameSize))
	steps = append(steps, storeAccTo(dest, backend, frameSize))
	return steps
}

// OpExpand builds the Step list for `op kind dest lhs rhs`. A stack
// operand among lhs/rhs is first materialized into its own scratch
// global (MF_opA/MF_opB) since the VM's native op instruction can't
// address a stack slot directly and MF_acc can only hold one of them
// at a time; a stack dest is written back from MF_acc afterward.
func OpExpand(dest ir.Operand, kind string, lhs, rhs ir.Operand, backend stackabi.Backend, frameSize int) []Step {
	var steps []Step
	lhsText := operandText(lhs)
	if lhs.Kind == ir.Stack {
		steps = append(steps, loadToAcc(lhs, backend, frameSize), setStep("MF_opA", "MF_acc"))
		lhsText = "MF_opA"
	}
	rhsText := operandText(rhs)
	if rhs.Kind == ir.Stack {
		steps = append(steps, loadToAcc(rhs, backend, frameSize), setStep("MF_opB", "MF_acc"))
		rhsText = "MF_opB"
	}
	destText := dest.Name
	if dest.Kind == ir.Stack {
		destText = "MF_acc"
	}
	steps = append(steps, Step{Width: 1, Render: func(int) []string {
		return []string{fmt.Sprintf("op %s %s %s %s", kind, destText, lhsText, rhsText)}
	}})
	if dest.Kind == ir.Stack {
		steps = append(steps, storeAccTo(dest, backend, frameSize))
	}
	return steps
}

// CondExpand builds the Step list for a conditional jump: cond(lhs,
// rhs) -> target. A stack operand among lhs/rhs is first materialized
// into its own scratch global (MF_condA/MF_condB), mirroring
// OpExpand, since the VM's jump instruction can't address a stack
// slot directly. labels is nil during lowering, when only the total
// width is needed; the jump's own target PC is resolved later, at
// render time, from the real labels map.
func CondExpand(target, cond string, lhs, rhs ir.Operand, backend stackabi.Backend, frameSize int, labels map[string]int) []Step {
	var steps []Step
	lhsText := operandText(lhs)
	if lhs.Kind == ir.Stack {
		steps = append(steps, loadToAcc(lhs, backend, frameSize), setStep("MF_condA", "MF_acc"))
		lhsText = "MF_condA"
	}
	rhsText := operandText(rhs)
	if rhs.Kind == ir.Stack {
		steps = append(steps, loadToAcc(rhs, backend, frameSize), setStep("MF_condB", "MF_acc"))
		rhsText = "MF_condB"
	}
	steps = append(steps, Step{Width: 1, Render: func(int) []string {
		return []string{fmt.Sprintf("jump %d %s %s %s", labels[target], cond, lhsText, rhsText)}
	}})
	return steps
}

// PrintExpand builds the Step list for `print arg`.
func PrintExpand(arg ir.Operand, backend stackabi.Backend, frameSize int) []Step {
	if arg.Kind != ir.Stack {
		return []Step{{Width: 1, Render: func(int) []string {
			return []string{"print " + operandText(arg)}
		}}}
	}
	return []Step{
		loadToAcc(arg, backend, frameSize),
		{Width: 1, Render: func(int) []string { return []string{"print MF_acc"} }},
	}
}

func operandText(o ir.Operand) string {
	if o.Kind == ir.Literal {
		return o.Literal
	}
	return o.Name
}

// Call builds the Step list for a CallFn op. callerFrameSize is the
// enclosing function's allocated frame size (params+locals+1 for the
// reserved return-PC slot), 0 at top level where only global operands
// are legal.
func Call(op *ir.CallFn, backend stackabi.Backend, callerFrameSize int, labels map[string]int) []Step {
	var steps []Step
	for i, a := range op.Args {
		steps = append(steps, loadToAcc(a, backend, callerFrameSize))
		steps = append(steps, storeAccToArgSlot(i, backend))
	}
	steps = append(steps, setStep("MF_acc", fmt.Sprint(op.ReturnPC)))
	steps = append(steps, storeAccToArgSlot(op.CalleeFrameSize, backend))
	steps = append(steps, frameAdjustStep(op.CalleeFrameSize+1, backend))
	steps = append(steps, jumpToLabelStep(op.Callee, labels))
	for j, r := range op.Rets {
		retGlobal := fmt.Sprintf("MF_ret%d", j)
		if r.Kind == ir.Stack {
			steps = append(steps, setStep("MF_acc", retGlobal))
			steps = append(steps, storeAccTo(r, backend, callerFrameSize))
		} else {
			steps = append(steps, setStep(r.Name, retGlobal))
		}
	}
	return steps
}

// Return builds the Step list for a ReturnFn op. frameSize is the
// enclosing function's allocated frame size.
func Return(op *ir.ReturnFn, backend stackabi.Backend, frameSize int) []Step {
	var steps []Step
	for j, v := range op.Values {
		retGlobal := fmt.Sprintf("MF_ret%d", j)
		steps = append(steps, loadToAcc(v, backend, frameSize))
		steps = append(steps, setStep(retGlobal, "MF_acc"))
	}
	return steps
}

// CallProc builds the Step list for a CallProc op: push the literal
// ReturnPC, jump to Callee.
func CallProc(op *ir.CallProc, backend stackabi.Backend, labels map[string]int) []Step {
	return []Step{
		setStep("MF_acc", fmt.Sprint(op.ReturnPC)),
		{Width: backend.PushWidth(), Render: func(resumePC int) []string {
			return backend.EmitPush(resumePC)
		}},
		jumpToLabelStep(op.Callee, labels),
	}
}

// RetProc builds the Step list for a RetProc op: pop the saved return
// PC and jump there.
func RetProc(backend stackabi.Backend) []Step {
	return []Step{
		{Width: backend.PopWidth(), Render: func(resumePC int) []string {
			return backend.EmitPop(resumePC)
		}},
		{Width: 1, Render: func(int) []string { return []string{"set @counter MF_acc"} }},
	}
}

// Epilogue builds the Step list for a function's single shared
// epilogue: read the saved return PC (reserved at frame offset
// frameSize-1, i.e. MF_stack_sz-1 while the function is still live),
// tear down the frame, and jump there.
func Epilogue(backend stackabi.Backend, frameSize int) []Step {
	return []Step{
		{Width: backend.ReadWidth(), Render: func(resumePC int) []string {
			return backend.EmitReadAt(-1, resumePC)
		}},
		frameAdjustStep(-frameSize, backend),
		{Width: 1, Render: func(int) []string { return []string{"set @counter MF_acc"} }},
	}
}
