package codegen

import (
	"fmt"
	"strings"

	"github.com/arcbound/minicc/ir"
)

// Compile turns a fully lowered ir.Program into Minisys assembly text:
// a .data segment with one entry per global, then a .text segment with
// one emitted block per function (main first if present, then the
// rest in declaration order), after a peephole cleanup pass.
func Compile(prog *ir.Program) string {
	var b strings.Builder

	b.WriteString(".data\n")
	for _, v := range prog.Vars {
		if v.Scope.Equal(ir.GlobalScope) {
			b.WriteString(formatLine(fmt.Sprintf("%s: .word 0x0", v.Name)))
		}
	}
	for _, a := range prog.Arrays {
		if !a.IsParam {
			words := make([]string, a.Length)
			for i := range words {
				words[i] = "0x0"
			}
			b.WriteString(formatLine(fmt.Sprintf("%s: .word %s", a.Name, strings.Join(words, ", "))))
		}
	}

	b.WriteString(".text\n")
	for _, fn := range orderFunctions(prog.Functions) {
		fe := newFuncEmitter(prog, fn)
		lines := peephole(fe.Run())
		for _, l := range lines {
			b.WriteString(formatLine(l))
		}
	}
	return b.String()
}

// CompileFunction emits one function's assembly in isolation (prologue
// through epilogue), with its own fresh descriptor state. The interrupt
// emitter uses this to recompile a handler's body so it can wrap it in
// push/pop-all-used-registers framing instead of the normal ABI frame.
func CompileFunction(prog *ir.Program, fn *ir.Function) []string {
	fe := newFuncEmitter(prog, fn)
	return peephole(fe.Run())
}

// orderFunctions puts main first, matching the CLI's convention of
// wanting the program entry point at the top of the listing; every
// other function follows in the order it was declared.
func orderFunctions(fns []*ir.Function) []*ir.Function {
	out := make([]*ir.Function, 0, len(fns))
	var rest []*ir.Function
	for _, f := range fns {
		if f.Name == "main" {
			out = append(out, f)
		} else {
			rest = append(rest, f)
		}
	}
	return append(out, rest...)
}

// formatLine applies the plain-text assembly convention: a leading tab
// for instructions, no indentation for directives or labels.
func formatLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ".") || strings.Contains(trimmed, ":") || strings.HasPrefix(trimmed, "#") {
		return trimmed + "\n"
	}
	return "\t" + trimmed + "\n"
}
