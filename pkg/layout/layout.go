// Package layout implements the step after lowering completes: per
// spec.md §4.4/§4.6, every IR op already has a width and a PC by the
// time lowering returns, and the label table (loop/if exits, function
// entries, user labels) is already fully populated — lowering resolves
// everything as it walks the source, since an op's width never depends
// on anything downstream. What's left is purely validation and the
// table-backed stack ABI's placement:
//
//   - every jump/call target must actually resolve against the label
//     table (a reference to a name nothing ever defined is a
//     Resolution diagnostic, not a panic);
//   - a TableBackend needs to know the final program length before it
//     can place its dispatcher tables after the program body.
package layout

import (
	"github.com/tjordan/coilc/pkg/diag"
	"github.com/tjordan/coilc/pkg/ir"
	"github.com/tjordan/coilc/pkg/stackabi"
)

// Run validates prog against backend and, for a TableBackend, fixes
// the dispatcher tables' base address. Returns prog unchanged (layout
// never rewrites an op) or the first Resolution diagnostic found.
func Run(prog *ir.Program, backend stackabi.Backend) (*ir.Program, *diag.Diagnostic) {
	if err := checkHoles(prog); err != nil {
		return nil, err
	}
	if tb, ok := backend.(stackabi.TableBackend); ok {
		tb.SetBase(ProgramWidth(prog))
	}
	return prog, nil
}

// ProgramWidth sums every op's width: the emitted program's line count
// before any table-backend prelude is appended.
func ProgramWidth(prog *ir.Program) int {
	total := 0
	for _, op := range prog.Ops {
		total += op.Meta().Width
	}
	return total
}

func checkHoles(prog *ir.Program) *diag.Diagnostic {
	check := func(target string, line int) *diag.Diagnostic {
		if _, ok := prog.Labels[target]; !ok {
			return diag.New(diag.Resolution, line, "reference to undefined label %q", target)
		}
		return nil
	}
	for _, op := range prog.Ops {
		switch o := op.(type) {
		case *ir.JumpAbs:
			if err := check(o.Target, o.SourceLine); err != nil {
				return err
			}
		case *ir.JumpCond:
			if err := check(o.Target, o.SourceLine); err != nil {
				return err
			}
		case *ir.CallFn:
			if err := check(o.Callee, o.SourceLine); err != nil {
				return err
			}
		case *ir.CallProc:
			if err := check(o.Callee, o.SourceLine); err != nil {
				return err
			}
		}
	}
	return nil
}
