// Package lower implements the main lowering pass: it walks tokenised
// lines once, maintains a scope stack of open control blocks, and
// emits flat ir.Op values while summing their widths to assign each
// one a concrete target PC as it goes. See spec.md §4.3.
//
// Because every op's width is known the instant it's emitted, a
// label's PC is resolvable the moment its defining line is reached —
// there is no separate symbol-resolution pass for intra-function
// forward references (loop/if exits) or for cross-function ones
// (function entries, user labels): all of them share one flat
// ir.Program.Labels map, finished when Run returns. Only a reference
// to a target that was never defined anywhere in the source survives
// to be caught by pkg/layout.
package lower

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tjordan/coilc/pkg/callplan"
	"github.com/tjordan/coilc/pkg/diag"
	"github.com/tjordan/coilc/pkg/ir"
	"github.com/tjordan/coilc/pkg/prescan"
	"github.com/tjordan/coilc/pkg/stackabi"
	"github.com/tjordan/coilc/pkg/token"
)

type frameKind int

const (
	frameIf frameKind = iota
	frameElse
	frameWhile
	frameDoWhile
	frameLoop
	frameFn
)

// scopeFrame is one open control block: the symbols to resolve when it
// closes, created at the opening brace and patched at the match.
type scopeFrame struct {
	kind frameKind
	top  string // loop top label (while/do_while/loop)
	cont string // do_while's dedicated continue target
	end  string // break target / if-else-or-end / loop end
	fn   *prescan.Function
}

type lowerer struct {
	pre     *prescan.Result
	backend stackabi.Backend
	ops     []ir.Op
	labels  map[string]int
	pc      int
	scopes  []*scopeFrame
	curFn   *prescan.Function
	seq     int
}

// Run lowers tokenised lines against pre's symbol tables, using
// backend for the width and rendering of any stack touch.
func Run(lines []token.Line, pre *prescan.Result, backend stackabi.Backend) (*ir.Program, *diag.Diagnostic) {
	l := &lowerer{pre: pre, backend: backend, labels: make(map[string]int)}
	for _, ln := range lines {
		if err := l.line(ln); err != nil {
			return nil, err
		}
	}
	if len(l.scopes) != 0 {
		top := l.scopes[len(l.scopes)-1]
		return nil, diag.New(diag.Syntactic, 0, "unterminated %s block (unbalanced braces)", frameKindName(top.kind))
	}
	return &ir.Program{Ops: l.ops, Labels: l.labels}, nil
}

func frameKindName(k frameKind) string {
	switch k {
	case frameIf:
		return "if"
	case frameElse:
		return "else"
	case frameWhile:
		return "while"
	case frameDoWhile:
		return "do/while"
	case frameLoop:
		return "loop"
	case frameFn:
		return "fn"
	default:
		return "block"
	}
}

func (l *lowerer) frameSize() int {
	if l.curFn == nil {
		return 0
	}
	return l.curFn.FrameSize + 1 // +1 reserves the saved return-PC slot
}

func (l *lowerer) top() *scopeFrame {
	if len(l.scopes) == 0 {
		return nil
	}
	return l.scopes[len(l.scopes)-1]
}

func (l *lowerer) push(f *scopeFrame) { l.scopes = append(l.scopes, f) }

func (l *lowerer) pop() *scopeFrame {
	f := l.scopes[len(l.scopes)-1]
	l.scopes = l.scopes[:len(l.scopes)-1]
	return f
}

func (l *lowerer) fresh(prefix string) string {
	l.seq++
	return fmt.Sprintf("%s%d", prefix, l.seq)
}

// emit appends op to the program, stamping its shared metadata and
// advancing the running PC by width.
func (l *lowerer) emit(op ir.Op, width int, line int, note string) {
	m := op.Meta()
	m.SourceLine = line
	m.Note = note
	m.Width = width
	m.PC = l.pc
	l.ops = append(l.ops, op)
	l.pc += width
}

func (l *lowerer) defineLabel(name string, line int) *diag.Diagnostic {
	if _, ok := l.labels[name]; ok {
		return diag.New(diag.Semantic, line, "duplicate label %q", name)
	}
	l.labels[name] = l.pc
	return nil
}

var negateTable = map[string]string{
	"equal":         "notEqual",
	"notEqual":      "equal",
	"lessThan":      "greaterThanEq",
	"greaterThanEq": "lessThan",
	"lessThanEq":    "greaterThan",
	"greaterThan":   "lessThanEq",
	"strictEqual":   "notEqual",
}

func negateCond(cond string, line int) (string, *diag.Diagnostic) {
	if n, ok := negateTable[cond]; ok {
		return n, nil
	}
	return "", diag.New(diag.Semantic, line, "condition %q has no known negation for if/while lowering", cond)
}

func isLiteralWord(w string) bool {
	if w == "" {
		return false
	}
	if w[0] == '"' {
		return true
	}
	_, err := strconv.ParseFloat(w, 64)
	return err == nil
}

// operand classifies a single lexeme per spec.md §3.
func (l *lowerer) operand(word string, line int) (ir.Operand, *diag.Diagnostic) {
	if strings.HasPrefix(word, "*") {
		if l.curFn == nil {
			return ir.Operand{}, diag.New(diag.Semantic, line, "stack name %s used outside a function body", word)
		}
		if err := l.requireStackBackend(line, "stack variable "+word); err != nil {
			return ir.Operand{}, err
		}
		name := strings.TrimPrefix(word, "*")
		off, ok := l.curFn.Locals[name]
		if !ok {
			return ir.Operand{}, diag.New(diag.Semantic, line, "undefined stack variable %s in fn %s", word, l.curFn.ID)
		}
		return ir.Operand{Kind: ir.Stack, Name: name, Offset: off}, nil
	}
	if isLiteralWord(word) {
		return ir.Operand{Kind: ir.Literal, Literal: word}, nil
	}
	return ir.Operand{Kind: ir.Global, Name: word}, nil
}

func (l *lowerer) operands(words []string, line int) ([]ir.Operand, *diag.Diagnostic) {
	out := make([]ir.Operand, 0, len(words))
	for _, w := range words {
		o, err := l.operand(w, line)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (l *lowerer) requireStackBackend(line int, what string) *diag.Diagnostic {
	if l.backend.Name() == "disabled" {
		return diag.New(diag.Semantic, line, "%s used but no stack_config directive is in effect", what)
	}
	return nil
}

func (l *lowerer) line(ln token.Line) *diag.Diagnostic {
	words := ln.Words
	if len(words) == 0 {
		return nil
	}

	// Label definitions: `NAME:`
	if len(words) == 1 && strings.HasSuffix(words[0], ":") && words[0] != ":" {
		name := strings.TrimSuffix(words[0], ":")
		if err := l.defineLabel(name, ln.Number); err != nil {
			return err
		}
		l.emit(&ir.LabelDef{Name: name}, 0, ln.Number, "label "+name)
		return nil
	}

	switch words[0] {
	case "stack_config", "let":
		return nil // fully handled by pkg/prescan; no code generated

	case "if":
		return l.openIf(words, ln.Number)
	case "while":
		return l.openWhile(words, ln.Number)
	case "do":
		return l.openDo(words, ln.Number)
	case "loop":
		return l.openLoop(words, ln.Number)
	case "fn":
		return l.openFn(words, ln.Number)
	case "}":
		return l.closeBrace(words, ln.Number)

	case "break":
		return l.breakContinue(true, ln.Number)
	case "continue":
		return l.breakContinue(false, ln.Number)

	case "return":
		return l.returnStmt(words[1:], ln.Number)
	case "call":
		return l.callStmt(words[1:], ln.Number)

	case "jump":
		return l.jumpStmt(words[1:], ln.Number)
	case "callproc":
		return l.callProcStmt(words[1:], ln.Number)
	case "ret":
		if err := l.requireStackBackend(ln.Number, "ret"); err != nil {
			return err
		}
		l.emit(&ir.RetProc{}, callplan.Width(callplan.RetProc(l.backend)), ln.Number, "ret_proc")
		return nil
	case "end":
		l.emit(&ir.Raw{Opcode: "end"}, 1, ln.Number, "raw end")
		return nil

	case "push":
		if err := l.requireStackBackend(ln.Number, "push"); err != nil {
			return err
		}
		l.emit(&ir.PushAcc{}, l.backend.PushWidth(), ln.Number, "push_acc")
		return nil
	case "pop":
		if err := l.requireStackBackend(ln.Number, "pop"); err != nil {
			return err
		}
		l.emit(&ir.PopAcc{}, l.backend.PopWidth(), ln.Number, "pop_acc")
		return nil
	case "peek":
		return l.peekPoke(words[1:], ln.Number, true)
	case "poke":
		return l.peekPoke(words[1:], ln.Number, false)

	case "set":
		return l.setStmt(ln.Raw()[1:], ln.Number)
	case "print":
		return l.printStmt(ln.Raw()[1:], ln.Number)
	case "op":
		return l.opStmt(words[1:], ln.Number)

	default:
		return l.rawStmt(words, ln.Number)
	}
}

// --- control constructs --------------------------------------------

func (l *lowerer) openIf(words []string, line int) *diag.Diagnostic {
	if len(words) != 5 || words[4] != "{" {
		return diag.New(diag.Syntactic, line, "malformed if header")
	}
	negated, err := negateCond(words[1], line)
	if err != nil {
		return err
	}
	lhs, derr := l.operand(words[2], line)
	if derr != nil {
		return derr
	}
	rhs, derr := l.operand(words[3], line)
	if derr != nil {
		return derr
	}
	end := l.fresh("Lelse")
	frameSize := l.frameSize()
	width := callplan.Width(callplan.CondExpand(end, negated, lhs, rhs, l.backend, frameSize, nil))
	l.emit(&ir.JumpCond{Target: end, Cond: negated, Lhs: lhs, Rhs: rhs, FrameSize: frameSize}, width, line, "if ¬"+words[1]+" -> else/end")
	l.push(&scopeFrame{kind: frameIf, end: end})
	return nil
}

func (l *lowerer) openWhile(words []string, line int) *diag.Diagnostic {
	if len(words) != 5 || words[4] != "{" {
		return diag.New(diag.Syntactic, line, "malformed while header")
	}
	negated, err := negateCond(words[1], line)
	if err != nil {
		return err
	}
	lhs, derr := l.operand(words[2], line)
	if derr != nil {
		return derr
	}
	rhs, derr := l.operand(words[3], line)
	if derr != nil {
		return derr
	}
	top := l.fresh("Ltop")
	if err := l.defineLabel(top, line); err != nil {
		return err
	}
	l.emit(&ir.LabelDef{Name: top}, 0, line, "loop top")
	end := l.fresh("Lend")
	frameSize := l.frameSize()
	width := callplan.Width(callplan.CondExpand(end, negated, lhs, rhs, l.backend, frameSize, nil))
	l.emit(&ir.JumpCond{Target: end, Cond: negated, Lhs: lhs, Rhs: rhs, FrameSize: frameSize}, width, line, "while ¬"+words[1]+" -> end")
	l.push(&scopeFrame{kind: frameWhile, top: top, end: end})
	return nil
}

func (l *lowerer) openDo(words []string, line int) *diag.Diagnostic {
	if len(words) != 2 || words[1] != "{" {
		return diag.New(diag.Syntactic, line, "malformed do header")
	}
	top := l.fresh("Ltop")
	if err := l.defineLabel(top, line); err != nil {
		return err
	}
	l.emit(&ir.LabelDef{Name: top}, 0, line, "loop top")
	l.push(&scopeFrame{kind: frameDoWhile, top: top, cont: l.fresh("Lcont"), end: l.fresh("Lend")})
	return nil
}

func (l *lowerer) openLoop(words []string, line int) *diag.Diagnostic {
	if len(words) != 2 || words[1] != "{" {
		return diag.New(diag.Syntactic, line, "malformed loop header")
	}
	top := l.fresh("Ltop")
	if err := l.defineLabel(top, line); err != nil {
		return err
	}
	l.emit(&ir.LabelDef{Name: top}, 0, line, "loop top")
	l.push(&scopeFrame{kind: frameLoop, top: top, end: l.fresh("Lend")})
	return nil
}

func (l *lowerer) openFn(words []string, line int) *diag.Diagnostic {
	if l.curFn != nil {
		return diag.New(diag.Semantic, line, "nested fn definitions are not permitted")
	}
	if len(words) < 3 {
		return diag.New(diag.Syntactic, line, "malformed fn header")
	}
	name := words[1]
	fn, ok := l.pre.Functions.Get(name)
	if !ok {
		return diag.New(diag.Resolution, line, "fn %s missing from pre-scan (internal)", name)
	}
	if err := l.requireStackBackend(line, "fn "+name); err != nil {
		return err
	}
	if err := l.defineLabel(fn.Entry, line); err != nil {
		return err
	}
	l.emit(&ir.LabelDef{Name: fn.Entry}, 0, line, "fn "+name+" entry")
	l.emit(&ir.EnterFn{FuncID: fn.ID}, 0, line, "enter_fn "+name)
	l.curFn = fn
	l.push(&scopeFrame{kind: frameFn, end: l.fresh("Lret_" + name), fn: fn})
	return nil
}

// closeBrace handles every bare/compound "}"-leading line: `}`,
// `} else {`, `} while COND A B`.
func (l *lowerer) closeBrace(words []string, line int) *diag.Diagnostic {
	if len(words) == 3 && words[1] == "else" && words[2] == "{" {
		f := l.top()
		if f == nil || f.kind != frameIf {
			return diag.New(diag.Syntactic, line, "'} else {' without a matching if")
		}
		newEnd := l.fresh("Lend")
		l.emit(&ir.JumpAbs{Target: newEnd}, 1, line, "skip else body")
		if err := l.defineLabel(f.end, line); err != nil {
			return err
		}
		f.end = newEnd
		f.kind = frameElse
		return nil
	}

	if len(words) >= 2 && words[1] == "while" {
		f := l.top()
		if f == nil || f.kind != frameDoWhile {
			return diag.New(diag.Syntactic, line, "'} while' without a matching do")
		}
		if len(words) != 5 {
			return diag.New(diag.Syntactic, line, "malformed '} while' footer")
		}
		lhs, err := l.operand(words[3], line)
		if err != nil {
			return err
		}
		rhs, err := l.operand(words[4], line)
		if err != nil {
			return err
		}
		if err := l.defineLabel(f.cont, line); err != nil {
			return err
		}
		frameSize := l.frameSize()
		width := callplan.Width(callplan.CondExpand(f.top, words[2], lhs, rhs, l.backend, frameSize, nil))
		l.emit(&ir.JumpCond{Target: f.top, Cond: words[2], Lhs: lhs, Rhs: rhs, FrameSize: frameSize}, width, line, "do/while "+words[2]+" -> top")
		if err := l.defineLabel(f.end, line); err != nil {
			return err
		}
		l.pop()
		return nil
	}

	if len(words) != 1 {
		return diag.New(diag.Syntactic, line, "malformed closing brace")
	}

	f := l.top()
	if f == nil {
		return diag.New(diag.Syntactic, line, "'}' without a matching open block")
	}
	switch f.kind {
	case frameIf, frameElse:
		if err := l.defineLabel(f.end, line); err != nil {
			return err
		}
		l.pop()
	case frameWhile, frameLoop:
		l.emit(&ir.JumpAbs{Target: f.top}, 1, line, "loop back")
		if err := l.defineLabel(f.end, line); err != nil {
			return err
		}
		l.pop()
	case frameFn:
		if err := l.defineLabel(f.end, line); err != nil {
			return err
		}
		frameSize := l.frameSize()
		steps := callplan.Epilogue(l.backend, frameSize)
		l.emit(&ir.LeaveFn{FuncID: f.fn.ID, FrameSize: frameSize}, callplan.Width(steps), line, "leave_fn "+f.fn.ID)
		l.pop()
		l.curFn = nil
	default:
		return diag.New(diag.Syntactic, line, "'}' without a matching open block")
	}
	return nil
}

func (l *lowerer) breakContinue(isBreak bool, line int) *diag.Diagnostic {
	what := "continue"
	if isBreak {
		what = "break"
	}
	for i := len(l.scopes) - 1; i >= 0; i-- {
		f := l.scopes[i]
		switch f.kind {
		case frameWhile, frameLoop:
			target := f.top
			if isBreak {
				target = f.end
			}
			l.emit(&ir.JumpAbs{Target: target}, 1, line, what)
			return nil
		case frameDoWhile:
			target := f.cont
			if isBreak {
				target = f.end
			}
			l.emit(&ir.JumpAbs{Target: target}, 1, line, what)
			return nil
		}
	}
	return diag.New(diag.Semantic, line, "%s used outside any loop", what)
}

// --- function call / return -----------------------------------------

func (l *lowerer) returnStmt(argWords []string, line int) *diag.Diagnostic {
	f := l.currentFnFrame()
	if f == nil {
		return diag.New(diag.Syntactic, line, "return used outside a function body")
	}
	if len(argWords) != f.fn.ReturnArity {
		return diag.New(diag.Semantic, line, "return arity mismatch: fn %s declares %d, got %d", f.fn.ID, f.fn.ReturnArity, len(argWords))
	}
	values, err := l.operands(argWords, line)
	if err != nil {
		return err
	}
	frameSize := l.frameSize()
	op := &ir.ReturnFn{Values: values, FrameSize: frameSize}
	steps := callplan.Return(op, l.backend, frameSize)
	l.emit(op, callplan.Width(steps), line, "return_fn")
	l.emit(&ir.JumpAbs{Target: f.end}, 1, line, "return -> epilogue")
	return nil
}

func (l *lowerer) currentFnFrame() *scopeFrame {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if l.scopes[i].kind == frameFn {
			return l.scopes[i]
		}
	}
	return nil
}

// callStmt lowers `call IDENT arg* ('->' NAME+)?`.
func (l *lowerer) callStmt(words []string, line int) *diag.Diagnostic {
	if len(words) == 0 {
		return diag.New(diag.Syntactic, line, "malformed call statement")
	}
	name := words[0]
	fn, ok := l.pre.Functions.Get(name)
	if !ok {
		return diag.New(diag.Resolution, line, "call to undefined function %q", name)
	}
	if err := l.requireStackBackend(line, "call"); err != nil {
		return err
	}
	rest := words[1:]
	arrow := -1
	for i, w := range rest {
		if w == "->" {
			arrow = i
			break
		}
	}
	var argWords, retWords []string
	if arrow >= 0 {
		argWords = rest[:arrow]
		retWords = rest[arrow+1:]
	} else {
		argWords = rest
	}
	if len(argWords) != len(fn.Params) {
		return diag.New(diag.Semantic, line, "call arity mismatch: fn %s takes %d argument(s), got %d", name, len(fn.Params), len(argWords))
	}
	if len(retWords) != fn.ReturnArity {
		return diag.New(diag.Semantic, line, "call return mismatch: fn %s returns %d value(s), got %d destination(s)", name, fn.ReturnArity, len(retWords))
	}
	args, err := l.operands(argWords, line)
	if err != nil {
		return err
	}
	rets, err := l.operands(retWords, line)
	if err != nil {
		return err
	}
	for _, r := range rets {
		if r.Kind == ir.Literal {
			return diag.New(diag.Syntactic, line, "call return destination must be a name, not a literal")
		}
	}

	callerFrameSize := l.frameSize()
	op := &ir.CallFn{Callee: fn.Entry, Args: args, Rets: rets, CalleeFrameSize: fn.FrameSize, CallerFrameSize: callerFrameSize}
	width := callplan.Width(callplan.Call(op, l.backend, callerFrameSize, nil))
	// The callee resumes at the return-value copies that end the
	// expansion, so ReturnPC excludes their width.
	noRets := *op
	noRets.Rets = nil
	op.ReturnPC = l.pc + callplan.Width(callplan.Call(&noRets, l.backend, callerFrameSize, nil))
	l.emit(op, width, line, "call_fn "+name)
	return nil
}

func (l *lowerer) callProcStmt(words []string, line int) *diag.Diagnostic {
	if len(words) != 1 {
		return diag.New(diag.Syntactic, line, "malformed callproc statement")
	}
	if err := l.requireStackBackend(line, "callproc"); err != nil {
		return err
	}
	op := &ir.CallProc{Callee: words[0]}
	width := callplan.Width(callplan.CallProc(op, l.backend, nil))
	op.ReturnPC = l.pc + width
	l.emit(op, width, line, "call_proc "+words[0])
	return nil
}

// --- simple statements ------------------------------------------------

func (l *lowerer) jumpStmt(words []string, line int) *diag.Diagnostic {
	if len(words) != 4 {
		return diag.New(diag.Syntactic, line, "malformed jump statement")
	}
	lhs, err := l.operand(words[2], line)
	if err != nil {
		return err
	}
	rhs, err := l.operand(words[3], line)
	if err != nil {
		return err
	}
	frameSize := l.frameSize()
	width := callplan.Width(callplan.CondExpand(words[0], words[1], lhs, rhs, l.backend, frameSize, nil))
	l.emit(&ir.JumpCond{Target: words[0], Cond: words[1], Lhs: lhs, Rhs: rhs, FrameSize: frameSize}, width, line, "jump "+words[0])
	return nil
}

func (l *lowerer) peekPoke(words []string, line int, isPeek bool) *diag.Diagnostic {
	if err := l.requireStackBackend(line, map[bool]string{true: "peek", false: "poke"}[isPeek]); err != nil {
		return err
	}
	depth := 0
	if len(words) == 1 {
		n, err := strconv.Atoi(words[0])
		if err != nil {
			return diag.New(diag.Syntactic, line, "peek/poke depth must be an integer")
		}
		depth = n
	} else if len(words) != 0 {
		return diag.New(diag.Syntactic, line, "peek/poke takes at most one integer argument")
	}
	// depth 0 means the current top-of-stack slot, MF_stack_sz-1; emit
	// resolves this the same way via constant = -1-depth.
	if isPeek {
		l.emit(&ir.PeekAcc{Depth: depth}, l.backend.ReadWidth(), line, "peek_acc")
	} else {
		l.emit(&ir.PokeAcc{Depth: depth}, l.backend.WriteWidth(), line, "poke_acc")
	}
	return nil
}

func (l *lowerer) setStmt(words []string, line int) *diag.Diagnostic {
	if len(words) != 2 {
		return diag.New(diag.Syntactic, line, "malformed set statement")
	}
	dest, err := l.operand(words[0], line)
	if err != nil {
		return err
	}
	if dest.Kind == ir.Literal {
		return diag.New(diag.Syntactic, line, "set destination must be a name")
	}
	src, err := l.operand(words[1], line)
	if err != nil {
		return err
	}
	frameSize := l.frameSize()
	op := &ir.Set{Dest: dest, Src: src, FrameSize: frameSize}
	steps := callplan.Assign(dest, src, l.backend, frameSize)
	l.emit(op, callplan.Width(steps), line, "set")
	return nil
}

func (l *lowerer) printStmt(words []string, line int) *diag.Diagnostic {
	if len(words) != 1 {
		return diag.New(diag.Syntactic, line, "malformed print statement")
	}
	arg, err := l.operand(words[0], line)
	if err != nil {
		return err
	}
	frameSize := l.frameSize()
	op := &ir.Print{Arg: arg, FrameSize: frameSize}
	steps := callplan.PrintExpand(arg, l.backend, frameSize)
	l.emit(op, callplan.Width(steps), line, "print")
	return nil
}

func (l *lowerer) opStmt(words []string, line int) *diag.Diagnostic {
	if len(words) != 4 {
		return diag.New(diag.Syntactic, line, "malformed op statement")
	}
	dest, err := l.operand(words[1], line)
	if err != nil {
		return err
	}
	if dest.Kind == ir.Literal {
		return diag.New(diag.Syntactic, line, "op destination must be a name")
	}
	lhs, err := l.operand(words[2], line)
	if err != nil {
		return err
	}
	rhs, err := l.operand(words[3], line)
	if err != nil {
		return err
	}
	frameSize := l.frameSize()
	op := &ir.OpStmt{Dest: dest, Kind: words[0], Lhs: lhs, Rhs: rhs, FrameSize: frameSize}
	steps := callplan.OpExpand(dest, words[0], lhs, rhs, l.backend, frameSize)
	l.emit(op, callplan.Width(steps), line, "op "+words[0])
	return nil
}

func (l *lowerer) rawStmt(words []string, line int) *diag.Diagnostic {
	ops, err := l.operands(words[1:], line)
	if err != nil {
		return err
	}
	for i, o := range ops {
		if o.Kind == ir.Stack {
			return diag.New(diag.Semantic, line, "stack name %s not permitted in raw pass-through operand %d", words[1+i], i)
		}
	}
	l.emit(&ir.Raw{Opcode: words[0], Operands: ops}, 1, line, "raw "+words[0])
	return nil
}
