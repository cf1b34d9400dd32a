package compiler

import (
	"strconv"
	"strings"
	"testing"
)

// testVM is a minimal interpreter for the flat instruction set Compile
// produces. It exists only so tests can assert on runtime behavior
// instead of just the shape of the emitted lines: every stack-ABI
// dispatch (both the cell and internal backends) is itself built from
// these same five primitives, so executing them uniformly — with
// `set @counter X` recognized as a PC jump rather than a plain global
// write — replays call/return mechanics with no special-casing.
type testVM struct {
	program []string
	globals map[string]float64
	cells   map[string]map[int]float64
	output  []string
	pc      int
}

func newTestVM(program []string) *testVM {
	return &testVM{
		program: program,
		globals: map[string]float64{},
		cells:   map[string]map[int]float64{},
	}
}

func (vm *testVM) resolve(tok string) float64 {
	if v, err := strconv.ParseFloat(tok, 64); err == nil {
		return v
	}
	return vm.globals[tok]
}

func splitLine(line string) []string {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 1 {
		return parts
	}
	if parts[0] == "print" {
		return []string{parts[0], parts[1]}
	}
	return append([]string{parts[0]}, strings.Fields(parts[1])...)
}

func condTrue(cond string, a, b float64) bool {
	switch cond {
	case "always":
		return true
	case "equal", "strictEqual":
		return a == b
	case "notEqual":
		return a != b
	case "lessThan":
		return a < b
	case "greaterThanEq":
		return a >= b
	case "lessThanEq":
		return a <= b
	case "greaterThan":
		return a > b
	default:
		return false
	}
}

// run executes the program until `end` or the step budget is
// exhausted (a blown budget almost always means a miscompiled jump).
func (vm *testVM) run(t *testing.T, maxSteps int) {
	t.Helper()
	for steps := 0; ; steps++ {
		if steps > maxSteps {
			t.Fatalf("exceeded %d steps without reaching end (pc=%d)", maxSteps, vm.pc)
		}
		if vm.pc < 0 || vm.pc >= len(vm.program) {
			t.Fatalf("pc ran off the program end: %d", vm.pc)
		}
		words := splitLine(vm.program[vm.pc])
		switch words[0] {
		case "end":
			return

		case "set":
			dest, v := words[1], vm.resolve(words[2])
			if dest == "@counter" {
				vm.pc = int(v)
				continue
			}
			vm.globals[dest] = v

		case "op":
			kind, dest, lhs, rhs := words[1], words[2], words[3], words[4]
			a, b := vm.resolve(lhs), vm.resolve(rhs)
			var r float64
			switch kind {
			case "add":
				r = a + b
			case "sub":
				r = a - b
			case "mul":
				r = a * b
			case "div":
				r = a / b
			default:
				t.Fatalf("unsupported op kind %q", kind)
			}
			vm.globals[dest] = r

		case "jump":
			target, cond, lhs, rhs := words[1], words[2], words[3], words[4]
			tpc, err := strconv.Atoi(target)
			if err != nil {
				t.Fatalf("jump target %q is not a resolved PC", target)
			}
			if condTrue(cond, vm.resolve(lhs), vm.resolve(rhs)) {
				vm.pc = tpc
				continue
			}

		case "read":
			dest, cell, idx := words[1], words[2], words[3]
			i := int(vm.resolve(idx))
			vm.globals[dest] = vm.cells[cell][i]

		case "write":
			src, cell, idx := words[1], words[2], words[3]
			i := int(vm.resolve(idx))
			bank, ok := vm.cells[cell]
			if !ok {
				bank = map[int]float64{}
				vm.cells[cell] = bank
			}
			bank[i] = vm.resolve(src)

		case "print":
			arg := words[1]
			if strings.HasPrefix(arg, `"`) {
				vm.output = append(vm.output, strings.Trim(arg, `"`))
			} else {
				vm.output = append(vm.output, strconv.FormatFloat(vm.resolve(arg), 'f', -1, 64))
			}

		default:
			t.Fatalf("unsupported opcode %q at pc %d", words[0], vm.pc)
		}
		vm.pc++
	}
}
