package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/projectdiscovery/gologger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arcbound/minicc/compiler"
	"github.com/arcbound/minicc/internal/diag"
)

func newCompileCmd() *cobra.Command {
	var (
		outDir     string
		interrupts bool
		verbose    bool
		regenerate bool
	)

	cmd := &cobra.Command{
		Use:   "compile <source>",
		Short: "Compile a MiniC source file to Minisys assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := loadConfig()
			if !cmd.Flags().Changed("output") {
				if cfgOut := v.GetString("output"); cfgOut != "" {
					outDir = cfgOut
				}
			}
			if !cmd.Flags().Changed("verbose") && v.GetBool("verbose") {
				verbose = true
			}
			if outDir == "" {
				outDir = "."
			}

			return runCompile(args[0], outDir, compiler.Options{
				KeepGoing:  false,
				Regenerate: regenerate,
				Verbose:    verbose,
			}, interrupts)
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory (default \".\", or .minicc.yaml's \"output\")")
	cmd.Flags().BoolVarP(&interrupts, "interrupts", "i", false, "also emit the interrupt vector/handler files when interruptServerN functions are declared")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print stage-by-stage compile progress")
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "rebuild the cached MiniC DFA/LALR table instead of reusing the process cache")

	return cmd
}

// loadConfig layers a .minicc.yaml file (if present, in the current
// directory) under the command's flags; flags set explicitly on the
// command line always win over it.
func loadConfig() *viper.Viper {
	v := viper.New()
	v.SetConfigName(".minicc")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // absent config file is not an error, just no defaults
	return v
}

func runCompile(source string, outDir string, opts compiler.Options, wantInterrupts bool) error {
	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("compiling %s", source))

	src, err := os.ReadFile(source)
	if err != nil {
		spinner.Fail("could not read source file")
		return fmt.Errorf("reading %q: %w", source, err)
	}

	artifact, diagnostics, err := compiler.Compile(string(src), opts)
	if err != nil {
		spinner.Fail("compile failed")
		printDiagnostics(diagnostics, opts.Verbose)
		return &compileFailure{diagnostics: diagnostics}
	}
	spinner.Success(fmt.Sprintf("compiled %s (run %s)", source, artifact.RunID))

	if len(diagnostics) > 0 {
		printDiagnostics(diagnostics, opts.Verbose)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %q: %w", outDir, err)
	}

	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	asmPath := filepath.Join(outDir, base+".asm")
	if err := os.WriteFile(asmPath, []byte(artifact.Assembly), 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", asmPath, err)
	}
	gologger.Info().Msgf("wrote %s", asmPath)

	if wantInterrupts && artifact.HasInterrupts {
		entryPath := filepath.Join(outDir, "minisys-interrupt-entry.asm")
		handlerPath := filepath.Join(outDir, "minisys-interrupt-handler.asm")
		if err := os.WriteFile(entryPath, []byte(artifact.InterruptEntry), 0o644); err != nil {
			return fmt.Errorf("writing %q: %w", entryPath, err)
		}
		if err := os.WriteFile(handlerPath, []byte(artifact.InterruptHandler), 0o644); err != nil {
			return fmt.Errorf("writing %q: %w", handlerPath, err)
		}
		gologger.Info().Msgf("wrote %s and %s", entryPath, handlerPath)
	}

	return nil
}

// printDiagnostics groups diagnostics by (line, column) order and
// renders them with pterm's styled bullet list when stdout is a
// terminal and -v was given, falling back to plain gologger lines
// otherwise.
func printDiagnostics(ds []diag.Diagnostic, verbose bool) {
	sorted := make([]diag.Diagnostic, len(ds))
	copy(sorted, ds)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && less(sorted[j], sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	if verbose && isTerminal() {
		items := make([]pterm.BulletListItem, len(sorted))
		for i, d := range sorted {
			items[i] = pterm.BulletListItem{Level: 0, Text: d.String(), TextStyle: pterm.NewStyle(pterm.FgRed)}
		}
		_ = pterm.DefaultBulletList.WithItems(items).Render()
		return
	}
	for _, d := range sorted {
		gologger.Error().Msg(d.String())
	}
}

func less(a, b diag.Diagnostic) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// isTerminal reports whether stdout looks like an interactive terminal,
// the condition under which pterm's styled output is worth rendering
// instead of plain log lines.
func isTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
