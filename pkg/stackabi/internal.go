package stackabi

import "fmt"

// internalBackend realizes stack touches against size synthetic
// globals MF_stack0..MF_stack{size-1}, dispatched through three tables
// synthesized into the emitted program itself (the target VM has no
// indirect memory access, so "MF_stack[idx]" has to become "jump to
// the line that names slot idx directly"), per spec.md §4.6.
//
// Documented asymmetry, preserved bit-for-bit: the push table
// self-increments MF_stack_sz; the pop table does not, because the
// caller needs the pre-decrement index for its own read and must
// adjust MF_stack_sz itself afterward.
type internalBackend struct {
	size int

	// table bases, assigned once by SetBase after the rest of the
	// program's width is known.
	pushBase, popBase, pokeBase int
}

func newInternalBackend(size int) *internalBackend {
	return &internalBackend{size: size}
}

func (b *internalBackend) Name() string { return "internal" }

// Per-entry widths: pop/peek and poke entries are a copy plus a
// dispatch-return jump (2 lines); push entries additionally bump
// MF_stack_sz (3 lines).
const (
	popPokeEntryWidth = 2
	pushEntryWidth    = 3
)

// TableWidth is the total width of all three dispatcher tables, for
// the layout pass to place them and know the final program length.
func (b *internalBackend) TableWidth() int {
	return b.size*pushEntryWidth + b.size*popPokeEntryWidth + b.size*popPokeEntryWidth
}

// SetBase tells the backend where its dispatcher tables will live once
// every other IR op's width has been totaled. Must be called before
// Prelude/accessor widths are rendered for real (during emit).
func (b *internalBackend) SetBase(base int) {
	b.pushBase = base
	b.popBase = b.pushBase + b.size*pushEntryWidth
	b.pokeBase = b.popBase + b.size*popPokeEntryWidth
}

func (b *internalBackend) ReadWidth() int  { return 5 }
func (b *internalBackend) WriteWidth() int { return 5 }
func (b *internalBackend) PushWidth() int  { return 5 }
func (b *internalBackend) PopWidth() int   { return 6 }

// accessorLines renders the common "compute index, scale by entry
// width, set resume, jump to tableBase+scaled index" shape shared by
// every dispatcher access. Entry i of a table built from entryWidth-
// line entries starts at tableBase+i*entryWidth, not tableBase+i; the
// target ISA has no indirect/scaled addressing, so the scale has to be
// a real op mul against MF_idx before the add.
func accessorLines(constant, tableBase, entryWidth, resumePC int) []string {
	return []string{
		fmt.Sprintf("op add MF_idx MF_stack_sz %d", constant),
		fmt.Sprintf("set MF_resume %d", resumePC),
		fmt.Sprintf("op mul MF_idx MF_idx %d", entryWidth),
		fmt.Sprintf("op add MF_jtgt %d MF_idx", tableBase),
		"set @counter MF_jtgt",
	}
}

// EmitReadAt dispatches through the pop/peek table: a non-destructive
// load of the slot at MF_stack_sz+constant into MF_acc.
func (b *internalBackend) EmitReadAt(constant, resumePC int) []string {
	return accessorLines(constant, b.popBase, popPokeEntryWidth, resumePC)
}

// EmitWriteAt dispatches through the poke table: an in-place store of
// MF_acc into the slot at MF_stack_sz+constant, size untouched.
func (b *internalBackend) EmitWriteAt(constant, resumePC int) []string {
	return accessorLines(constant, b.pokeBase, popPokeEntryWidth, resumePC)
}

// EmitPush dispatches through the push table, which self-increments
// MF_stack_sz; the caller never adjusts it.
func (b *internalBackend) EmitPush(resumePC int) []string {
	return []string{
		fmt.Sprintf("set MF_resume %d", resumePC),
		"set MF_jtgt MF_stack_sz",
		fmt.Sprintf("op mul MF_jtgt MF_jtgt %d", pushEntryWidth),
		fmt.Sprintf("op add MF_jtgt MF_jtgt %d", b.pushBase),
		"set @counter MF_jtgt",
	}
}

// EmitPop dispatches through the pop table at the current top
// (MF_stack_sz-1), then decrements MF_stack_sz itself — the table does
// not, by design (see the asymmetry note on internalBackend). The
// dispatch must land one line before resumePC, on the decrement itself,
// since that trailing line — not the caller's own next instruction — is
// what has to run when the table entry jumps back.
func (b *internalBackend) EmitPop(resumePC int) []string {
	lines := accessorLines(-1, b.popBase, popPokeEntryWidth, resumePC-1)
	return append(lines, "op add MF_stack_sz MF_stack_sz -1")
}

func (b *internalBackend) FrameAdjust(delta int) []string {
	return []string{fmt.Sprintf("op add MF_stack_sz MF_stack_sz %d", delta)}
}

// Prelude renders the push, pop/peek and poke dispatcher tables in
// that order, starting at whatever base SetBase last assigned.
func (b *internalBackend) Prelude() []string {
	var out []string
	for i := 0; i < b.size; i++ {
		out = append(out,
			fmt.Sprintf("set MF_stack%d MF_acc", i),
			"op add MF_stack_sz MF_stack_sz 1",
			"set @counter MF_resume",
		)
	}
	for i := 0; i < b.size; i++ {
		out = append(out,
			fmt.Sprintf("set MF_acc MF_stack%d", i),
			"set @counter MF_resume",
		)
	}
	for i := 0; i < b.size; i++ {
		out = append(out,
			fmt.Sprintf("set MF_stack%d MF_acc", i),
			"set @counter MF_resume",
		)
	}
	return out
}
