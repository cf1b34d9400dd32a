// Package emit renders a resolved ir.Program into the two parallel
// streams spec.md §4.7 describes: the executable target-instruction
// stream, and an annotation stream of identical length recording, for
// every emitted line, the source line and lowering note that produced
// it. Grounded on the teacher's printer-style "exhaustive switch over
// a closed instruction set" rendering, generalized so any op whose
// expansion depends on operand kind/backend defers to pkg/callplan —
// the same Step list the lowering pass already summed for width.
package emit

import (
	"fmt"

	"github.com/tjordan/coilc/pkg/callplan"
	"github.com/tjordan/coilc/pkg/diag"
	"github.com/tjordan/coilc/pkg/ir"
	"github.com/tjordan/coilc/pkg/stackabi"
)

// Annotation is one entry in the annotation stream: the PC, the line
// it was attached to, and a human note of the lowering rule involved.
type Annotation struct {
	PC         int
	SourceLine int
	Note       string
}

// Result is the pair of streams the compiler produces, of equal
// length — Program[i] is rendered from whatever op produced
// Annotations[i].
type Result struct {
	Program     []string
	Annotations []Annotation
}

// Run renders prog into a Result. backend must already have any
// TableBackend placement finalized (pkg/layout's job).
func Run(prog *ir.Program, backend stackabi.Backend) (*Result, *diag.Diagnostic) {
	res := &Result{}
	for _, op := range prog.Ops {
		lines, err := render(op, prog, backend)
		if err != nil {
			return nil, err
		}
		m := op.Meta()
		if len(lines) != m.Width {
			return nil, diag.New(diag.Semantic, m.SourceLine, "internal: op rendered %d lines, expected width %d", len(lines), m.Width)
		}
		for _, line := range lines {
			res.Program = append(res.Program, line)
			res.Annotations = append(res.Annotations, Annotation{PC: len(res.Program) - 1, SourceLine: m.SourceLine, Note: m.Note})
		}
	}
	for _, line := range backend.Prelude() {
		res.Program = append(res.Program, line)
		res.Annotations = append(res.Annotations, Annotation{PC: len(res.Program) - 1, SourceLine: 0, Note: "stack backend dispatcher table"})
	}
	return res, nil
}

func operandText(o ir.Operand) string {
	if o.Kind == ir.Literal {
		return o.Literal
	}
	return o.Name
}

func render(op ir.Op, prog *ir.Program, backend stackabi.Backend) ([]string, *diag.Diagnostic) {
	m := op.Meta()
	resumePC := m.PC + m.Width

	switch o := op.(type) {
	case *ir.Raw:
		text := o.Opcode
		for _, operand := range o.Operands {
			text += " " + operandText(operand)
		}
		return []string{text}, nil

	case *ir.LabelDef:
		return nil, nil

	case *ir.JumpAbs:
		return []string{fmt.Sprintf("jump %d always 0 0", prog.Labels[o.Target])}, nil

	case *ir.JumpCond:
		return callplan.Render(callplan.CondExpand(o.Target, o.Cond, o.Lhs, o.Rhs, backend, o.FrameSize, prog.Labels), m.PC), nil

	case *ir.Set:
		return callplan.Render(callplan.Assign(o.Dest, o.Src, backend, o.FrameSize), m.PC), nil

	case *ir.OpStmt:
		return callplan.Render(callplan.OpExpand(o.Dest, o.Kind, o.Lhs, o.Rhs, backend, o.FrameSize), m.PC), nil

	case *ir.Print:
		return callplan.Render(callplan.PrintExpand(o.Arg, backend, o.FrameSize), m.PC), nil

	case *ir.PushAcc:
		return backend.EmitPush(resumePC), nil

	case *ir.PopAcc:
		return backend.EmitPop(resumePC), nil

	case *ir.PeekAcc:
		return backend.EmitReadAt(-1-o.Depth, resumePC), nil

	case *ir.PokeAcc:
		return backend.EmitWriteAt(-1-o.Depth, resumePC), nil

	case *ir.CallProc:
		return callplan.Render(callplan.CallProc(o, backend, prog.Labels), m.PC), nil

	case *ir.RetProc:
		return callplan.Render(callplan.RetProc(backend), m.PC), nil

	case *ir.CallFn:
		return callplan.Render(callplan.Call(o, backend, o.CallerFrameSize, prog.Labels), m.PC), nil

	case *ir.ReturnFn:
		return callplan.Render(callplan.Return(o, backend, o.FrameSize), m.PC), nil

	case *ir.EnterFn:
		return nil, nil

	case *ir.LeaveFn:
		return callplan.Render(callplan.Epilogue(backend, o.FrameSize), m.PC), nil

	default:
		return nil, diag.New(diag.Semantic, m.SourceLine, "internal: unhandled IR op %T", op)
	}
}
