package stackabi

import "fmt"

// cellBackend realizes every stack touch as a direct indexed read or
// write against a named external memory cell. A slot's absolute index
// is MF_stack_sz+constant, computed with one arithmetic instruction
// before the read/write itself — width 2 either direction, per
// spec.md §4.4's width table.
type cellBackend struct {
	cellName string
}

func (b *cellBackend) Name() string { return "cell:" + b.cellName }

func (b *cellBackend) ReadWidth() int  { return 2 }
func (b *cellBackend) WriteWidth() int { return 2 }
func (b *cellBackend) PushWidth() int  { return 2 }
func (b *cellBackend) PopWidth() int   { return 2 }

func (b *cellBackend) EmitReadAt(constant, _ int) []string {
	return []string{
		fmt.Sprintf("op add MF_idx MF_stack_sz %d", constant),
		fmt.Sprintf("read MF_acc %s MF_idx", b.cellName),
	}
}

func (b *cellBackend) EmitWriteAt(constant, _ int) []string {
	return []string{
		fmt.Sprintf("op add MF_idx MF_stack_sz %d", constant),
		fmt.Sprintf("write MF_acc %s MF_idx", b.cellName),
	}
}

// EmitPush writes the new top then grows the stack.
func (b *cellBackend) EmitPush(_ int) []string {
	return []string{
		fmt.Sprintf("write MF_acc %s MF_stack_sz", b.cellName),
		"op add MF_stack_sz MF_stack_sz 1",
	}
}

// EmitPop shrinks the stack then reads the new top.
func (b *cellBackend) EmitPop(_ int) []string {
	return []string{
		"op add MF_stack_sz MF_stack_sz -1",
		fmt.Sprintf("read MF_acc %s MF_stack_sz", b.cellName),
	}
}

func (b *cellBackend) FrameAdjust(delta int) []string {
	return []string{fmt.Sprintf("op add MF_stack_sz MF_stack_sz %d", delta)}
}

func (b *cellBackend) Prelude() []string { return nil }
