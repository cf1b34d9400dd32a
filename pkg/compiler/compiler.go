// Package compiler is the top-level orchestrator chaining the five
// stages spec.md §2/§5 describes into one synchronous call:
// tokenise -> pre-scan -> lower -> layout -> emit, each stage
// consuming the previous stage's output in order. There are no
// suspension points and no shared mutable state across calls — every
// Compile call owns its own symbol tables, scope stack and IR.
package compiler

import (
	"github.com/tjordan/coilc/pkg/diag"
	"github.com/tjordan/coilc/pkg/emit"
	"github.com/tjordan/coilc/pkg/ir"
	"github.com/tjordan/coilc/pkg/layout"
	"github.com/tjordan/coilc/pkg/lower"
	"github.com/tjordan/coilc/pkg/prescan"
	"github.com/tjordan/coilc/pkg/stackabi"
	"github.com/tjordan/coilc/pkg/token"
)

// BackendOverride selects the stack backend used when the source
// carries no stack_config directive of its own.
type BackendOverride int

const (
	// AutoBackend leaves the source with no usable stack backend
	// (Disabled) unless it declares its own stack_config.
	AutoBackend BackendOverride = iota
	ForceCell
	ForceInternal
)

// Options configures one Compile call.
type Options struct {
	Override     BackendOverride
	CellName     string // used by ForceCell when the source has no stack_config
	InternalSize int    // used by ForceInternal when the source has no stack_config
}

// Result is everything a successful compilation produced, one field
// per pipeline stage — the CLI's --dump-* flags read straight from it.
type Result struct {
	Lines   []token.Line
	Prescan *prescan.Result
	Backend stackabi.Backend
	IR      *ir.Program
	Emitted *emit.Result
}

// Compile runs the full pipeline over source, returning either a
// complete Result or the first diagnostic any stage raised.
func Compile(source string, opts Options) (*Result, *diag.Diagnostic) {
	lines := token.Tokenize(source)

	pre, err := prescan.Run(lines)
	if err != nil {
		return nil, err
	}

	cfg := pre.Config
	if !pre.ConfigSet {
		switch opts.Override {
		case ForceCell:
			cfg = stackabi.Config{Kind: stackabi.Cell, CellName: opts.CellName}
		case ForceInternal:
			cfg = stackabi.Config{Kind: stackabi.Internal, Size: opts.InternalSize}
		}
	}
	backend, berr := stackabi.New(cfg)
	if berr != nil {
		return nil, diag.New(diag.Semantic, 0, "%s", berr)
	}

	prog, err := lower.Run(lines, pre, backend)
	if err != nil {
		return nil, err
	}

	prog, err = layout.Run(prog, backend)
	if err != nil {
		return nil, err
	}

	rendered, err := emit.Run(prog, backend)
	if err != nil {
		return nil, err
	}

	return &Result{Lines: lines, Prescan: pre, Backend: backend, IR: prog, Emitted: rendered}, nil
}
