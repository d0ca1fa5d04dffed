// Command llvmgen drives pkg/codegen from the command line. It reads
// one source file written in pkg/frontend's small S-expression surface
// (a stand-in for a real RuC/Bx front end — see SPEC_FULL.md §0/§5),
// builds a pkg/sem.Syntax from it, and prints the resulting LLVM IR
// text to a chosen output.
//
// Grounded on the teacher's cmd/gbc/main.go: a single cobra.Command
// reading flags, building a config.Workspace, and handing off to the
// generator — trimmed to the one subcommand this module needs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mexanobar/RuC/pkg/codegen"
	"github.com/Mexanobar/RuC/pkg/config"
	"github.com/Mexanobar/RuC/pkg/diag"
	"github.com/Mexanobar/RuC/pkg/frontend"
	"github.com/Mexanobar/RuC/pkg/sem"
)

var (
	flagOutput  string
	flagX86_64  bool
	flagMIPSEL  bool
	flagNoColor bool
)

func main() {
	root := &cobra.Command{
		Use:   "llvmgen <source.sx>",
		Short: "Emit LLVM IR text from a small S-expression source file",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	root.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default: stdout)")
	root.Flags().BoolVar(&flagX86_64, "x86_64", false, "target x86_64 (default unless --mipsel is set or ruc.toml says otherwise)")
	root.Flags().BoolVar(&flagMIPSEL, "mipsel", false, "target mipsel")
	root.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colored diagnostics")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	src := string(data)

	out := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagOutput, err)
		}
		defer f.Close()
		out = f
	}

	flags, err := resolveTargetFlags()
	if err != nil {
		return err
	}
	ws := config.NewWorkspace(flags)

	srcIndex := diag.NewMemorySource()
	srcIndex.AddFile(path, src)
	sink := diag.NewSink(os.Stderr, srcIndex)
	if flagNoColor {
		sink.SetColor(false)
	}

	forms, err := frontend.ReadAll(path, src)
	if err != nil {
		return err
	}

	syn := sem.NewSyntax(out)
	if err := frontend.BuildSyntax(forms, syn); err != nil {
		return err
	}

	errCount := codegen.Encode(syn, ws, sink)
	if errCount > 0 {
		return fmt.Errorf("%d error(s)", errCount)
	}
	return nil
}

// resolveTargetFlags turns the --x86_64/--mipsel flags (and, absent
// either, an optional ruc.toml default) into the raw flag list
// config.NewWorkspace scans, matching the original spec's "a command
// line flag should always override this" precedence.
func resolveTargetFlags() ([]string, error) {
	if flagX86_64 && flagMIPSEL {
		return nil, fmt.Errorf("cannot pass both --x86_64 and --mipsel")
	}
	if flagMIPSEL {
		return []string{"--mipsel"}, nil
	}
	if flagX86_64 {
		return []string{"--x86_64"}, nil
	}
	def, err := config.LoadDefaultTarget("ruc.toml")
	if err != nil {
		return nil, err
	}
	if def != "" {
		return []string{def}, nil
	}
	return nil, nil
}
