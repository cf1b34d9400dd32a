// Package ir defines the flat intermediate representation lowering
// produces: one linear sequence of tagged Op values, no tree. This
// mirrors the teacher's linear/asm packages — a closed Instruction
// interface with one struct per variant and an exhaustive switch on
// the consuming side — generalized from CPU instructions to coil's
// structured-assembly ops.
package ir

// OperandKind classifies a Name per spec.md §3.
type OperandKind int

const (
	Global OperandKind = iota
	Stack
	Literal
)

// Operand is a single tagged value: a global cell, a stack-scoped
// variable (with its function-assigned frame offset already resolved),
// or a literal (number or quoted string) copied through verbatim.
type Operand struct {
	Kind    OperandKind
	Name    string // global or stack-variable name, without a leading '*'
	Offset  int    // frame offset, meaningful only when Kind == Stack
	Literal string // literal text, meaningful only when Kind == Literal
}

// Meta is embedded by every Op variant: the source line that produced
// it, a short human-readable note for the annotation stream, and the
// width/PC assigned once the stack backend and layout are known.
type Meta struct {
	SourceLine int
	Note       string
	Width      int
	PC         int
}

// Op is implemented by every IR op variant.
type Op interface {
	Meta() *Meta
}

// Raw is a verbatim target instruction: an opcode plus its operand
// list, classified but otherwise unvalidated (pass-through semantic
// checking is explicitly out of scope).
type Raw struct {
	Meta
	Opcode   string
	Operands []Operand
}

// LabelDef pins Name to the PC of the next emitted instruction.
type LabelDef struct {
	Meta
	Name string
}

// JumpAbs is an unconditional jump to a symbolic target, resolved to a
// concrete PC at layout time.
type JumpAbs struct {
	Meta
	Target string
}

// JumpCond is a conditional jump: Cond(Lhs, Rhs) jumps to Target.
// FrameSize is the enclosing fn's allocated frame size (0 at top
// level), needed to address a stack operand among Lhs/Rhs.
type JumpCond struct {
	Meta
	Target    string
	Cond      string
	Lhs       Operand
	Rhs       Operand
	FrameSize int
}

// Set assigns Src to Dest. FrameSize is the enclosing fn's allocated
// frame size (0 at top level), needed to resolve either side if it's
// a stack operand.
type Set struct {
	Meta
	Dest      Operand
	Src       Operand
	FrameSize int
}

// OpStmt performs a binary operation: Dest = Kind(Lhs, Rhs). FrameSize
// is the enclosing fn's allocated frame size (0 at top level).
type OpStmt struct {
	Meta
	Dest      Operand
	Kind      string
	Lhs       Operand
	Rhs       Operand
	FrameSize int
}

// Print prints a single operand (including a raw string literal).
// FrameSize is the enclosing fn's allocated frame size (0 at top
// level).
type Print struct {
	Meta
	Arg       Operand
	FrameSize int
}

// PushAcc pushes MF_acc onto the runtime stack (raw ABI primitive).
type PushAcc struct{ Meta }

// PopAcc pops the runtime stack top into MF_acc.
type PopAcc struct{ Meta }

// PeekAcc reads the stack slot Depth below the top into MF_acc without
// popping.
type PeekAcc struct {
	Meta
	Depth int
}

// PokeAcc writes MF_acc into the stack slot Depth below the top.
type PokeAcc struct {
	Meta
	Depth int
}

// CallProc is a plain (non-argument-passing) call to a top-level
// label: push the literal ReturnPC, jump to Callee. ReturnPC is
// computed at lowering time like CallFn's.
type CallProc struct {
	Meta
	Callee   string
	ReturnPC int
}

// RetProc returns from a CallProc-style label: pop the saved return PC
// and jump there.
type RetProc struct{ Meta }

// CallFn calls a declared fn with arguments, binding its declared
// return names to the caller's destinations. ReturnPC is the PC the
// callee resumes the caller at: the start of the return-value copies
// that end the expansion (computed at lowering time, since the
// expansion's width is deterministic). CalleeFrameSize is the callee's
// parameter-plus-local count, without the return-PC slot: the return
// PC is stored at that offset and the frame grows by one more than it.
type CallFn struct {
	Meta
	Callee           string
	Args             []Operand
	Rets             []Operand
	ReturnPC         int
	CalleeFrameSize  int
	CallerFrameSize  int // enclosing fn's allocated frame size (0 at top level)
}

// ReturnFn returns Values from the enclosing fn body. FrameSize is
// that fn's own allocated frame size, needed to resolve any stack
// operand among Values.
type ReturnFn struct {
	Meta
	Values    []Operand
	FrameSize int
}

// EnterFn marks a function's entry label (paired with a LabelDef at
// the same PC).
type EnterFn struct {
	Meta
	FuncID string
}

// LeaveFn is a function's single shared epilogue: restore the saved
// return PC, tear down its frame of FrameSize, and jump there. Every
// return statement in the function body jumps here instead of
// repeating the teardown.
type LeaveFn struct {
	Meta
	FuncID    string
	FrameSize int
}

func (o *Raw) Meta() *Meta      { return &o.Meta }
func (o *LabelDef) Meta() *Meta { return &o.Meta }
func (o *JumpAbs) Meta() *Meta  { return &o.Meta }
func (o *JumpCond) Meta() *Meta { return &o.Meta }
func (o *Set) Meta() *Meta      { return &o.Meta }
func (o *OpStmt) Meta() *Meta   { return &o.Meta }
func (o *Print) Meta() *Meta    { return &o.Meta }
func (o *PushAcc) Meta() *Meta  { return &o.Meta }
func (o *PopAcc) Meta() *Meta   { return &o.Meta }
func (o *PeekAcc) Meta() *Meta  { return &o.Meta }
func (o *PokeAcc) Meta() *Meta  { return &o.Meta }
func (o *CallProc) Meta() *Meta { return &o.Meta }
func (o *RetProc) Meta() *Meta  { return &o.Meta }
func (o *CallFn) Meta() *Meta   { return &o.Meta }
func (o *ReturnFn) Meta() *Meta { return &o.Meta }
func (o *EnterFn) Meta() *Meta  { return &o.Meta }
func (o *LeaveFn) Meta() *Meta  { return &o.Meta }

// Program is the complete resolved IR for one compilation: the flat op
// sequence plus the label table, both fully populated by the time
// lowering finishes (lowering assigns every op's PC as it goes, so a
// label is resolvable the moment its defining line is reached). Layout
// only validates every referenced target exists in Labels and places
// the stack backend's dispatcher tables, if any.
type Program struct {
	Ops    []Op
	Labels map[string]int
}
