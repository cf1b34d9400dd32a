// Package prescan implements the first linear pass over tokenised
// lines: it collects the stack_config directive, every fn definition's
// parameter/return arity and stack-variable frame layout, and the
// table of top-level labels — all needed before lowering can expand a
// call site or a jump, since that depends on callee arity and on which
// stack backend was selected. See spec.md §4.2.
package prescan

import (
	"strconv"
	"strings"

	"github.com/dolthub/swiss"

	"github.com/tjordan/coilc/pkg/diag"
	"github.com/tjordan/coilc/pkg/stackabi"
	"github.com/tjordan/coilc/pkg/token"
)

// Function is a pre-scanned fn header: stable id, entry label, ordered
// parameter list, return arity, and the frame offsets assigned to
// every stack name (parameters first, then let-declared locals in
// declaration order).
type Function struct {
	ID          string
	Entry       string
	Params      []string
	ReturnArity int
	Locals      map[string]int // stack name (no leading '*') -> frame offset
	FrameSize   int
	DefLine     int
}

// Result is everything prescan collects in one pass.
type Result struct {
	Config    stackabi.Config
	ConfigSet bool
	Functions *swiss.Map[string, *Function]
	FuncOrder []string
	Labels    *swiss.Map[string, int] // label name -> defining source line
}

// Run pre-scans tokenised lines and returns the populated Result, or
// the first diagnostic encountered.
func Run(lines []token.Line) (*Result, *diag.Diagnostic) {
	res := &Result{
		Functions: swiss.NewMap[string, *Function](8),
		Labels:    swiss.NewMap[string, int](8),
	}

	var inFn *Function
	var depth int // brace depth since the matching `fn ... {`

	for _, ln := range lines {
		words := ln.Words
		if len(words) == 0 {
			continue
		}

		// Label definitions: `NAME:`
		if len(words) == 1 && strings.HasSuffix(words[0], ":") && words[0] != ":" {
			name := strings.TrimSuffix(words[0], ":")
			if _, ok := res.Labels.Get(name); ok {
				return nil, diag.New(diag.Semantic, ln.Number, "duplicate label %q", name)
			}
			res.Labels.Put(name, ln.Number)
			continue
		}

		switch words[0] {
		case "stack_config":
			if res.ConfigSet {
				return nil, diag.New(diag.Semantic, ln.Number, "duplicate stack_config directive")
			}
			cfg, err := parseStackConfig(words, ln.Number)
			if err != nil {
				return nil, err
			}
			res.Config = cfg
			res.ConfigSet = true

		case "fn":
			if inFn != nil {
				return nil, diag.New(diag.Semantic, ln.Number, "nested fn definitions are not permitted")
			}
			fn, err := parseFnHeader(words, ln.Number)
			if err != nil {
				return nil, err
			}
			if _, ok := res.Functions.Get(fn.ID); ok {
				return nil, diag.New(diag.Semantic, ln.Number, "duplicate function %q", fn.ID)
			}
			inFn = fn
			depth = 1

		case "let":
			if inFn == nil {
				return nil, diag.New(diag.Syntactic, ln.Number, "let used outside a function body")
			}
			if len(words) != 2 || !isStackName(words[1]) {
				return nil, diag.New(diag.Syntactic, ln.Number, "malformed let statement")
			}
			name := strings.TrimPrefix(words[1], "*")
			if _, ok := inFn.Locals[name]; ok {
				return nil, diag.New(diag.Semantic, ln.Number, "duplicate stack variable %q in fn %s", name, inFn.ID)
			}
			inFn.Locals[name] = inFn.FrameSize
			inFn.FrameSize++

		default:
			if inFn != nil {
				depth += strings.Count(strings.Join(words, " "), "{")
				depth -= strings.Count(strings.Join(words, " "), "}")
				if depth <= 0 {
					res.FuncOrder = append(res.FuncOrder, inFn.ID)
					res.Functions.Put(inFn.ID, inFn)
					inFn = nil
				}
			}
		}
	}

	if inFn != nil {
		return nil, diag.New(diag.Syntactic, inFn.DefLine, "unterminated fn %s", inFn.ID)
	}

	return res, nil
}

func isStackName(w string) bool {
	return strings.HasPrefix(w, "*") && len(w) > 1
}

// parseStackConfig parses `stack_config size INT` or `stack_config cell IDENT`.
func parseStackConfig(words []string, line int) (stackabi.Config, *diag.Diagnostic) {
	if len(words) != 3 {
		return stackabi.Config{}, diag.New(diag.Syntactic, line, "malformed stack_config directive")
	}
	switch words[1] {
	case "size":
		n, err := strconv.Atoi(words[2])
		if err != nil || n <= 0 {
			return stackabi.Config{}, diag.New(diag.Syntactic, line, "stack_config size must be a positive integer")
		}
		return stackabi.Config{Kind: stackabi.Internal, Size: n}, nil
	case "cell":
		return stackabi.Config{Kind: stackabi.Cell, CellName: words[2]}, nil
	default:
		return stackabi.Config{}, diag.New(diag.Syntactic, line, "stack_config must be 'size INT' or 'cell IDENT'")
	}
}

// parseFnHeader parses `fn NAME *p1 *p2 … [-> *r1 *r2 …] {`.
func parseFnHeader(words []string, line int) (*Function, *diag.Diagnostic) {
	if len(words) < 3 || words[len(words)-1] != "{" {
		return nil, diag.New(diag.Syntactic, line, "malformed fn header")
	}
	body := words[1 : len(words)-1]
	if len(body) == 0 {
		return nil, diag.New(diag.Syntactic, line, "malformed fn header: missing name")
	}
	name := body[0]
	rest := body[1:]

	arrow := -1
	for i, w := range rest {
		if w == "->" {
			arrow = i
			break
		}
	}

	var paramWords, retWords []string
	if arrow >= 0 {
		paramWords = rest[:arrow]
		retWords = rest[arrow+1:]
	} else {
		paramWords = rest
	}

	fn := &Function{
		ID:      name,
		Entry:   name,
		Locals:  make(map[string]int),
		DefLine: line,
	}
	for _, p := range paramWords {
		if !isStackName(p) {
			return nil, diag.New(diag.Syntactic, line, "fn parameter %q must be a stack name", p)
		}
		pname := strings.TrimPrefix(p, "*")
		if _, ok := fn.Locals[pname]; ok {
			return nil, diag.New(diag.Semantic, line, "duplicate parameter %q in fn %s", pname, name)
		}
		fn.Locals[pname] = fn.FrameSize
		fn.FrameSize++
		fn.Params = append(fn.Params, pname)
	}

	seen := make(map[string]bool, len(retWords))
	for _, r := range retWords {
		if !isStackName(r) {
			return nil, diag.New(diag.Syntactic, line, "fn return name %q must be a stack name", r)
		}
		rname := strings.TrimPrefix(r, "*")
		if seen[rname] {
			return nil, diag.New(diag.Semantic, line, "duplicate return name %q in fn %s", rname, name)
		}
		seen[rname] = true
	}
	fn.ReturnArity = len(retWords)

	return fn, nil
}
