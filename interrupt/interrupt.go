// Package interrupt is the post-pass external collaborator that turns
// any interruptServer0..4 functions the core compiled into the two
// extra files Minisys needs: a vector table jumping into each present
// handler, and the handler bodies themselves wrapped in push/pop
// framing for every register they touch, returning via eret instead of
// the normal jr $ra epilogue.
package interrupt

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/arcbound/minicc/codegen"
	"github.com/arcbound/minicc/ir"
)

var handlerNames = [5]string{
	"interruptServer0", "interruptServer1", "interruptServer2", "interruptServer3", "interruptServer4",
}

var usedRegPattern = regexp.MustCompile(`\$(s[0-7]|t[0-9])\b`)

// Emit returns the vector-table entry file and the wrapped-handler
// file for every interruptServerN function present in prog. present is
// false (and both strings empty) when the program declares none, which
// is the CLI's -i no-op case.
func Emit(prog *ir.Program) (entryAsm, handlerAsm string, present bool) {
	byName := make(map[string]*ir.Function, len(prog.Functions))
	for _, f := range prog.Functions {
		byName[f.Name] = f
	}

	var entry strings.Builder
	var handler strings.Builder
	found := false

	for _, name := range handlerNames {
		fn, ok := byName[name]
		if !ok || !fn.IsInterrupt {
			continue
		}
		found = true
		entry.WriteString(fmt.Sprintf("\tj %s\n", name))
		handler.WriteString(wrapHandler(prog, fn))
	}
	if !found {
		return "", "", false
	}
	return entry.String(), handler.String(), true
}

// wrapHandler recompiles fn in isolation, strips its normal jr-$ra
// epilogue, and wraps the remaining body in push/pop framing for every
// $s/$t register the body references plus $ra, ending in eret.
func wrapHandler(prog *ir.Program, fn *ir.Function) string {
	lines := codegen.CompileFunction(prog, fn)
	body := stripEpilogue(lines)

	used := map[string]bool{}
	for _, l := range body {
		for _, m := range usedRegPattern.FindAllString(l, -1) {
			used[m] = true
		}
	}
	var regs []string
	for r := range used {
		regs = append(regs, r)
	}
	sort.Strings(regs)
	regs = append(regs, "$ra")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s:\n", fn.Name))
	for _, r := range regs {
		b.WriteString(fmt.Sprintf("\taddiu $sp, $sp, -4\n\tsw %s, 0($sp)\n", r))
	}
	for _, l := range body {
		if strings.TrimSpace(l) == fn.Name+":" {
			continue // already written above the pushes
		}
		if strings.HasSuffix(strings.TrimSpace(l), ":") || strings.HasPrefix(strings.TrimSpace(l), "#") {
			b.WriteString(l + "\n")
			continue
		}
		b.WriteString("\t" + strings.TrimSpace(l) + "\n")
	}
	for i := len(regs) - 1; i >= 0; i-- {
		b.WriteString(fmt.Sprintf("\tlw %s, 0($sp)\n\taddiu $sp, $sp, 4\n", regs[i]))
	}
	b.WriteString("\teret\n\tnop\n")
	return b.String()
}

// stripEpilogue drops the trailing "jr $ra" / "nop" pair CompileFunction
// always ends a function with.
func stripEpilogue(lines []string) []string {
	n := len(lines)
	if n >= 2 && strings.TrimSpace(lines[n-1]) == "nop" && strings.HasPrefix(strings.TrimSpace(lines[n-2]), "jr ") {
		return lines[:n-2]
	}
	return lines
}
