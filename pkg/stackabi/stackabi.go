// Package stackabi is the stack ABI policy object: a small interface
// consulted by the lowering pass for the width of any stack touch, and
// by the emitter for the target lines that realize it. Two
// concrete backends implement it — external cell and internal jump
// table — chosen once from the pre-scan result, per spec.md §4.5/§4.6.
package stackabi

import "fmt"

// ConfigKind is the stack_config directive's policy selector.
type ConfigKind int

const (
	// Disabled is the default: any stack-touching op is a compile error.
	Disabled ConfigKind = iota
	// Cell writes target instructions that index into a named external
	// memory bank.
	Cell
	// Internal reserves synthetic globals and three dispatcher tables.
	Internal
)

// Config is the parsed stack_config directive (or its absent default).
type Config struct {
	Kind     ConfigKind
	CellName string // set when Kind == Cell
	Size     int    // set when Kind == Internal
}

// Backend abstracts over how a stack touch is realized in target
// instructions. The lowering pass only needs the widths (so it can
// assign PCs); the emitter needs the concrete lines, which is why
// every Emit* method also takes resumePC, the PC of whatever comes
// right after this stack touch — only the internal backend's
// dispatcher jump needs it, but both backends take it for a uniform
// interface.
//
// Reads/writes against a named stack variable and the raw peek/poke
// opcodes share one mechanism: both access the slot at absolute index
// MF_stack_sz + constant without touching MF_stack_sz itself. Raw
// push/pop are the two ops that actually grow/shrink the stack, so
// they get their own methods.
type Backend interface {
	Name() string

	ReadWidth() int  // width of EmitReadAt
	WriteWidth() int // width of EmitWriteAt
	PushWidth() int  // width of EmitPush
	PopWidth() int   // width of EmitPop

	// EmitReadAt/EmitWriteAt copy MF_acc to/from the slot at absolute
	// index MF_stack_sz+constant, without adjusting MF_stack_sz.
	EmitReadAt(constant, resumePC int) []string
	EmitWriteAt(constant, resumePC int) []string

	// EmitPush writes MF_acc to the slot at MF_stack_sz and grows the
	// stack by one. EmitPop shrinks the stack by one and reads the new
	// top into MF_acc.
	EmitPush(resumePC int) []string
	EmitPop(resumePC int) []string

	// FrameAdjust renders the instruction(s) that grow or shrink
	// MF_stack_sz by delta (delta may be negative) without touching
	// any stack slot's contents.
	FrameAdjust(delta int) []string

	// Prelude renders any global declarations/dispatcher tables the
	// backend needs appended once to the emitted program (nil for Cell).
	Prelude() []string
}

// TableBackend is implemented by backends that append a dispatcher
// prelude whose placement depends on the rest of the program's total
// width (currently only the internal backend). The layout pass type-
// asserts for this after summing every other op's width.
type TableBackend interface {
	Backend
	TableWidth() int
	SetBase(base int)
}

// New builds the Backend selected by cfg.
func New(cfg Config) (Backend, error) {
	switch cfg.Kind {
	case Disabled:
		return disabledBackend{}, nil
	case Cell:
		return &cellBackend{cellName: cfg.CellName}, nil
	case Internal:
		return newInternalBackend(cfg.Size), nil
	default:
		return nil, fmt.Errorf("stackabi: unknown config kind %d", cfg.Kind)
	}
}

// ErrStackDisabled describes a stack-touching op with no stack_config
// in effect. No code in the module returns it: pkg/lower reports that
// case with its own diag.Diagnostic.
var ErrStackDisabled = fmt.Errorf("stack op used but no stack_config directive is in effect")

// disabledBackend rejects every stack touch; its widths are all zero
// so lowering never accidentally emits code for it.
type disabledBackend struct{}

func (disabledBackend) Name() string     { return "disabled" }
func (disabledBackend) ReadWidth() int   { return 0 }
func (disabledBackend) WriteWidth() int  { return 0 }
func (disabledBackend) PushWidth() int   { return 0 }
func (disabledBackend) PopWidth() int    { return 0 }
func (disabledBackend) EmitReadAt(int, int) []string  { return nil }
func (disabledBackend) EmitWriteAt(int, int) []string { return nil }
func (disabledBackend) EmitPush(int) []string         { return nil }
func (disabledBackend) EmitPop(int) []string          { return nil }
func (disabledBackend) FrameAdjust(int) []string      { return nil }
func (disabledBackend) Prelude() []string             { return nil }
