// Command coilc compiles coil source into the target VM's flat
// instruction set. See the cobra command tree below for usage;
// grounded on the teacher's cmd/ralph-cc single-dash flag
// compatibility convention.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tjordan/coilc/pkg/compiler"
	"github.com/tjordan/coilc/pkg/config"
	"github.com/tjordan/coilc/pkg/token"
)

var (
	backendFlag  string
	cellNameFlag string
	internalSize int
	annotateFlag bool
	configPath   string
	dumpTokens   bool
	dumpPrescan  bool
	dumpIR       bool
)

// normalizeFlags lets coilc accept CompCert-style single-dash long
// flags (-backend cell) alongside pflag's usual double-dash form.
func normalizeFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if len(name) > 1 && name[0] == '-' && name[1] != '-' {
		if f.Lookup(name[1:]) != nil {
			return pflag.NormalizedName(name[1:])
		}
	}
	return pflag.NormalizedName(name)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "coilc [flags] FILE",
		Short:        "compile coil source into the target VM's flat instruction set",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE:         run,
	}
	// main prints the one error line itself.
	root.SilenceErrors = true
	root.Flags().SetNormalizeFunc(normalizeFlags)
	root.Flags().StringVar(&backendFlag, "backend", "auto", "stack backend when the source has no stack_config: cell|internal|auto")
	root.Flags().StringVar(&cellNameFlag, "cell", "bank1", "external memory cell name for --backend cell")
	root.Flags().IntVar(&internalSize, "size", 64, "synthetic stack size for --backend internal")
	root.Flags().BoolVar(&annotateFlag, "annotate", false, "emit the annotated program instead of the bare instruction stream")
	root.Flags().StringVar(&configPath, "config", ".coilc.yaml", "project config file")
	root.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "print the tokenised source and exit")
	root.Flags().BoolVar(&dumpPrescan, "dump-prescan", false, "print the pre-scan result and exit")
	root.Flags().BoolVar(&dumpIR, "dump-ir", false, "print the lowered IR and exit")
	return root
}

func main() {
	root := newRootCmd()
	// pflag reads a single-dash argument as shorthand flags, so a
	// "-name" spelling of a registered long flag is rewritten to
	// "--name" before cobra parses the arguments.
	args := os.Args[1:]
	for i, a := range args {
		if n := string(normalizeFlags(root.Flags(), a)); n != a {
			args[i] = "--" + n
		}
	}
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "coilc:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	var src []byte
	var err error
	if args[0] == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	cfgFile, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", configPath, err)
	}
	applyConfigDefaults(cmd, cfgFile)

	opts := compiler.Options{CellName: cellNameFlag, InternalSize: internalSize}
	switch backendFlag {
	case "cell":
		opts.Override = compiler.ForceCell
	case "internal":
		opts.Override = compiler.ForceInternal
	case "auto":
		opts.Override = compiler.AutoBackend
	default:
		return fmt.Errorf("unknown --backend %q: want cell, internal, or auto", backendFlag)
	}

	if dumpTokens {
		for _, ln := range token.Tokenize(string(src)) {
			fmt.Printf("%4d  %v\n", ln.Number, ln.Raw())
		}
		return nil
	}

	result, diagErr := compiler.Compile(string(src), opts)
	if diagErr != nil {
		return diagErr
	}

	if dumpPrescan {
		printPrescan(result)
		return nil
	}
	if dumpIR {
		printIR(result)
		return nil
	}

	if annotateFlag {
		for i, line := range result.Emitted.Program {
			ann := result.Emitted.Annotations[i]
			fmt.Printf("%4d  %-40s // source:%d %s\n", ann.PC, line, ann.SourceLine, ann.Note)
		}
		return nil
	}
	for _, line := range result.Emitted.Program {
		fmt.Println(line)
	}
	return nil
}

// applyConfigDefaults lets .coilc.yaml fill in any flag the user never
// set explicitly on the command line.
func applyConfigDefaults(cmd *cobra.Command, f *config.File) {
	if !cmd.Flags().Changed("backend") && f.Backend != "" {
		backendFlag = f.Backend
	}
	if !cmd.Flags().Changed("cell") && f.CellName != "" {
		cellNameFlag = f.CellName
	}
	if !cmd.Flags().Changed("size") && f.InternalSize != 0 {
		internalSize = f.InternalSize
	}
	if !cmd.Flags().Changed("annotate") && f.Annotate {
		annotateFlag = true
	}
}

func printPrescan(result *compiler.Result) {
	fmt.Println("functions:")
	for _, id := range result.Prescan.FuncOrder {
		fn, _ := result.Prescan.Functions.Get(id)
		fmt.Printf("  %s params=%v returns=%d frame=%d\n", fn.ID, fn.Params, fn.ReturnArity, fn.FrameSize)
	}
	fmt.Println("labels:")
	result.Prescan.Labels.Iter(func(name string, line int) bool {
		fmt.Printf("  %s (line %d)\n", name, line)
		return false
	})
	fmt.Printf("stack backend: %s\n", result.Backend.Name())
}

func printIR(result *compiler.Result) {
	for _, op := range result.IR.Ops {
		m := op.Meta()
		fmt.Printf("pc=%-4d w=%-2d src:%-4d %-12T %s\n", m.PC, m.Width, m.SourceLine, op, m.Note)
	}
}
