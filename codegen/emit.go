package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arcbound/minicc/ir"
)

// funcEmitter holds everything needed to emit one function's assembly:
// its frame layout, the live descriptor state, and the stack-slot/global
// home assigned to every named variable it can see.
type funcEmitter struct {
	prog     *ir.Program
	fn       *ir.Function
	frame    StackFrameInfo
	ds       *descriptorState
	boundMem map[string]string // variable/array id -> canonical memory expression
	globalID map[string]string // array id -> its global label, for non-param arrays
	paramIdx map[string]int    // variable id -> 0-based parameter position, for incoming-register reuse
	lines    []string
}

func newFuncEmitter(prog *ir.Program, fn *ir.Function) *funcEmitter {
	frame := computeFrame(fn, sliceForFunc(prog, fn))
	fe := &funcEmitter{
		prog:     prog,
		fn:       fn,
		frame:    frame,
		ds:       newDescriptorState(frame.NumGPRsToSave, fn.Name == "main"),
		boundMem: make(map[string]string),
		globalID: make(map[string]string),
		paramIdx: make(map[string]int),
	}
	for _, v := range prog.Vars {
		if v.Scope.Equal(ir.GlobalScope) {
			fe.boundMem[v.ID] = v.Name + "($0)"
		}
	}
	for _, a := range prog.Arrays {
		fe.globalID[a.ID] = a.Name
	}
	slot := 1
	for i, p := range fn.Params {
		id := p.Name()
		if p.Variable != nil {
			fe.boundMem[p.Variable.ID] = fmt.Sprintf("-%d($sp)", 4*slot)
			fe.paramIdx[p.Variable.ID] = i
		} else {
			fe.boundMem[p.Array.ID] = fmt.Sprintf("-%d($sp)", 4*slot)
			fe.paramIdx[p.Array.ID] = i
		}
		_ = id
		slot++
	}
	for _, v := range fn.LocalVars {
		if _, isParam := fe.paramIdx[v.ID]; isParam {
			continue
		}
		fe.boundMem[v.ID] = fmt.Sprintf("-%d($sp)", 4*slot)
		slot++
	}
	// Every named variable's descriptor must carry its canonical home
	// from the start, not just from the first time addrFor happens to be
	// called on it as a write result: a param or global read before any
	// write to it would otherwise find BoundMem == "" and take the
	// temp-with-no-home path, silently skipping its lw.
	for id := range fe.boundMem {
		fe.addrFor(id)
	}
	return fe
}

func sliceForFunc(prog *ir.Program, fn *ir.Function) []ir.Quadruple {
	start, end := -1, len(prog.Quads)
	for i, q := range prog.Quads {
		if q.Op == "set_label" && q.Result == fn.EntryLabel {
			start = i
		} else if start != -1 && q.Op == "set_label" && q.Result == fn.ExitLabel {
			end = i + 1
			break
		}
	}
	if start == -1 {
		return nil
	}
	return prog.Quads[start:end]
}

func (fe *funcEmitter) emit(format string, args ...any) {
	fe.lines = append(fe.lines, fmt.Sprintf(format, args...))
}

func (fe *funcEmitter) emitAll(lines []string) {
	fe.lines = append(fe.lines, lines...)
}

func (fe *funcEmitter) addrFor(id string) *AddressDescriptor {
	a := fe.ds.descriptorFor(id)
	if a.BoundMem == "" {
		if mem, ok := fe.boundMem[id]; ok {
			a.BoundMem = mem
			if strings.Contains(mem, "($0)") {
				a.Kind = AddrGlobal
			} else {
				a.Kind = AddrStack
			}
		}
	}
	return a
}

// Run compiles every quadruple belonging to fn in order, returning the
// emitted assembly lines (prologue through epilogue, inclusive).
func (fe *funcEmitter) Run() []string {
	quads := sliceForFunc(fe.prog, fe.fn)
	for i, q := range quads {
		fe.emitQuad(quads, i, q)
	}
	return fe.lines
}

func (fe *funcEmitter) emitQuad(quads []ir.Quadruple, i int, q ir.Quadruple) {
	switch {
	case q.Op == "set_label" && strings.HasSuffix(q.Result, "_entry"):
		fe.emitPrologue(q.Result)
	case q.Op == "set_label" && strings.HasSuffix(q.Result, "_exit"):
		// A void function can fall off the end with no explicit return
		// statement; this closing epilogue is what actually returns
		// control in that case. A function whose every path already hit
		// an explicit return leaves this as unreachable but harmless
		// trailing code.
		fe.flushDirty()
		fe.emit("%s:", q.Result)
		fe.emitEpilogue()
	case q.Op == "set_label":
		fe.emit("%s:", q.Result)
	case q.Op == "j_false":
		fe.flushDirty()
		reg := fe.ds.loadVar(quads, i, q.Arg1, q.Result, false, &fe.lines)
		fe.emit("beq %s, $zero, %s", reg, q.Result)
		fe.emit("nop")
		fe.ds.clearRegistersOnly()
	case q.Op == "j":
		fe.flushDirty()
		fe.emit("j %s", q.Result)
		fe.emit("nop")
		fe.ds.clearRegistersOnly()
	case q.Op == "=const":
		fe.emitConst(quads, i, q)
	case q.Op == "=string":
		// A string literal's only lowering is inside __asm(...), which
		// ir.Generate rejects anywhere else and ir.foldAsm always folds
		// away before codegen sees this function; an "=string" surviving
		// to here means one of those two guarantees broke upstream.
	case q.Op == "=var":
		fe.emitAssignVar(quads, i, q)
	case q.Op == "=$":
		fe.emitStoreDeref(quads, i, q)
	case q.Op == "DOLLAR":
		fe.emitLoadDeref(quads, i, q)
	case q.Op == "[]":
		fe.emitArrayRead(quads, i, q)
	case q.Op == "=[]":
		fe.emitArrayWrite(quads, i, q)
	case q.Op == "call":
		fe.emitCall(quads, i, q)
	case q.Op == "return_void":
		fe.emitReturnVoid()
	case q.Op == "return_expr":
		fe.emitReturnExpr(quads, i, q)
	case q.Op == "out_asm":
		fe.emit("%s", strings.TrimSuffix(strings.TrimPrefix(q.Arg1, `"`), `"`))
	case (q.Op == "PLUS" || q.Op == "MINUS") && q.Arg2 == "":
		// genOp's single-child path reuses PLUS/MINUS for unary +/-, so
		// arity (an empty Arg2) is what disambiguates them from the
		// binary case below.
		fe.emitUnary(quads, i, q)
	case isBinaryOp(q.Op):
		fe.emitBinary(quads, i, q)
	case isUnaryOp(q.Op):
		fe.emitUnary(quads, i, q)
	}
}

func isBinaryOp(op string) bool {
	switch op {
	case "OR_OP", "AND_OP", "BITOR_OP", "BITXOR_OP", "BITAND_OP", "EQ_OP", "NE_OP",
		"GT_OP", "LT_OP", "GE_OP", "LE_OP", "LEFT_OP", "RIGHT_OP", "PLUS", "MINUS",
		"MULTIPLY", "SLASH", "PERCENT":
		return true
	}
	return false
}

func isUnaryOp(op string) bool {
	switch op {
	case "NOT_OP", "BITINV_OP":
		return true
	}
	return false
}

func (fe *funcEmitter) emitPrologue(entryLabel string) {
	w := fe.frame.WordSize
	fe.emit("# %s (wordSize=%d)", entryLabel, w)
	fe.emit("%s:", fe.fn.Name)
	fe.emit("addiu $sp, $sp, -%d", 4*w)
	if !fe.frame.IsLeaf {
		fe.emit("sw $ra, %d($sp)", 4*(w-1))
	}
	for i := 0; i < fe.frame.NumGPRsToSave; i++ {
		fe.emit("sw %s, %d($sp)", sReg(i), 4*(w-fe.frame.NumReturnAddr-1-i))
	}
	for i, p := range fe.fn.Params {
		id := p.Name()
		var vid string
		if p.Variable != nil {
			vid = p.Variable.ID
		} else {
			vid = p.Array.ID
		}
		mem := fe.boundMem[vid]
		if i < 4 {
			fe.emit("sw $a%d, %s", i, mem)
		}
		_ = id
	}
}

func (fe *funcEmitter) flushDirty() {
	for id, a := range fe.ds.addrs {
		if a.isDirty() {
			for loc := range a.Locations {
				if strings.HasPrefix(loc, "$") {
					fe.emit("sw %s, %s", loc, a.BoundMem)
					a.Locations[a.BoundMem] = true
					break
				}
			}
		}
		_ = id
	}
}

func (fe *funcEmitter) emitReturnVoid() {
	fe.flushDirty()
	fe.emitEpilogue()
}

func (fe *funcEmitter) emitReturnExpr(quads []ir.Quadruple, i int, q ir.Quadruple) {
	fe.flushDirty()
	reg := fe.ds.loadVar(quads, i, q.Arg1, "", false, &fe.lines)
	if reg != "$v0" {
		fe.emit("move $v0, %s", reg)
	}
	fe.emitEpilogue()
}

func (fe *funcEmitter) emitEpilogue() {
	w := fe.frame.WordSize
	for i := 0; i < fe.frame.NumGPRsToSave; i++ {
		fe.emit("lw %s, %d($sp)", sReg(i), 4*(w-fe.frame.NumReturnAddr-1-i))
	}
	if !fe.frame.IsLeaf {
		fe.emit("lw $ra, %d($sp)", 4*(w-1))
	}
	fe.emit("addiu $sp, $sp, %d", 4*w)
	fe.emit("jr $ra")
	fe.emit("nop")
}

func (fe *funcEmitter) emitConst(quads []ir.Quadruple, i int, q ir.Quadruple) {
	reg := fe.ds.selectRegister(quads, i, q.Result, q.Result, false, &fe.lines)
	fe.addrFor(q.Result)
	k, err := strconv.Atoi(q.Arg1)
	if err == nil && k >= -32768 && k <= 32767 {
		fe.emit("addiu %s, $zero, %d", reg, k)
	} else {
		hi := (k >> 16) & 0xffff
		lo := k & 0xffff
		fe.emit("lui %s, %d", reg, hi)
		fe.emit("ori %s, %s, %d", reg, reg, lo)
	}
	fe.ds.descriptorFor(q.Result).Locations[reg] = true
}

func (fe *funcEmitter) emitAssignVar(quads []ir.Quadruple, i int, q ir.Quadruple) {
	src := fe.ds.loadVar(quads, i, q.Arg1, q.Result, false, &fe.lines)
	dst := fe.addrFor(q.Result)
	reg := fe.ds.selectRegister(quads, i, q.Result, q.Result, false, &fe.lines)
	if reg != src {
		fe.emit("move %s, %s", reg, src)
	}
	fe.ds.descriptorFor(q.Result).Locations[reg] = true
	if dst.Kind == AddrStack {
		fe.emit("sw %s, %s", reg, dst.BoundMem)
		dst.Locations[dst.BoundMem] = true
	}
}

func (fe *funcEmitter) emitStoreDeref(quads []ir.Quadruple, i int, q ir.Quadruple) {
	addr := fe.ds.loadVar(quads, i, q.Arg1, "", true, &fe.lines)
	val := fe.ds.loadVar(quads, i, q.Arg2, "", true, &fe.lines)
	fe.emit("sw %s, 0(%s)", val, addr)
}

func (fe *funcEmitter) emitLoadDeref(quads []ir.Quadruple, i int, q ir.Quadruple) {
	addr := fe.ds.loadVar(quads, i, q.Arg1, q.Result, true, &fe.lines)
	reg := fe.ds.selectRegister(quads, i, q.Result, q.Result, false, &fe.lines)
	fe.emit("lw %s, 0(%s)", reg, addr)
	fe.emit("nop")
	fe.emit("nop")
	fe.ds.descriptorFor(q.Result).Locations[reg] = true
}

func (fe *funcEmitter) arrayBase(id string) (label string, indirect bool) {
	if name, ok := fe.globalID[id]; ok {
		if _, isParam := fe.paramIdx[id]; !isParam {
			return name, false
		}
	}
	return fe.boundMem[id], true
}

func (fe *funcEmitter) loadArrayBase(out *[]string, id string) {
	label, indirect := fe.arrayBase(id)
	if indirect {
		*out = append(*out, fmt.Sprintf("lw $t9, %s", label), "nop", "nop")
	} else {
		*out = append(*out, fmt.Sprintf("la $t9, %s", label))
	}
}

func (fe *funcEmitter) emitArrayRead(quads []ir.Quadruple, i int, q ir.Quadruple) {
	fe.loadArrayBase(&fe.lines, q.Arg1)
	idx := fe.ds.loadVar(quads, i, q.Arg2, q.Result, true, &fe.lines)
	fe.emit("sll $v1, %s, 2", idx)
	fe.emit("add $v1, $t9, $v1")
	reg := fe.ds.selectRegister(quads, i, q.Result, q.Result, false, &fe.lines)
	fe.emit("lw %s, 0($v1)", reg)
	fe.emit("nop")
	fe.emit("nop")
	fe.ds.descriptorFor(q.Result).Locations[reg] = true
}

func (fe *funcEmitter) emitArrayWrite(quads []ir.Quadruple, i int, q ir.Quadruple) {
	fe.loadArrayBase(&fe.lines, q.Result)
	idx := fe.ds.loadVar(quads, i, q.Arg1, "", true, &fe.lines)
	val := fe.ds.loadVar(quads, i, q.Arg2, "", true, &fe.lines)
	fe.emit("sll $v1, %s, 2", idx)
	fe.emit("add $v1, $t9, $v1")
	fe.emit("sw %s, 0($v1)", val)
}

func (fe *funcEmitter) emitBinary(quads []ir.Quadruple, i int, q ir.Quadruple) {
	l := fe.ds.loadVar(quads, i, q.Arg1, q.Result, true, &fe.lines)
	r := fe.ds.loadVar(quads, i, q.Arg2, q.Result, true, &fe.lines)
	reg := fe.ds.selectRegister(quads, i, q.Result, q.Result, false, &fe.lines)
	switch q.Op {
	case "PLUS":
		fe.emit("add %s, %s, %s", reg, l, r)
	case "MINUS":
		fe.emit("sub %s, %s, %s", reg, l, r)
	case "MULTIPLY":
		fe.emit("mult %s, %s", l, r)
		fe.emit("mflo %s", reg)
	case "SLASH":
		fe.emit("div %s, %s", l, r)
		fe.emit("mflo %s", reg)
	case "PERCENT":
		fe.emit("div %s, %s", l, r)
		fe.emit("mfhi %s", reg)
	case "BITAND_OP":
		fe.emit("and %s, %s, %s", reg, l, r)
	case "BITOR_OP":
		fe.emit("or %s, %s, %s", reg, l, r)
	case "BITXOR_OP":
		fe.emit("xor %s, %s, %s", reg, l, r)
	case "OR_OP":
		fe.emit("sltu $at, $zero, %s", l)
		fe.emit("sltu $v1, $zero, %s", r)
		fe.emit("or %s, $at, $v1", reg)
	case "AND_OP":
		fe.emit("sltu $at, $zero, %s", l)
		fe.emit("sltu $v1, $zero, %s", r)
		fe.emit("and %s, $at, $v1", reg)
	case "LEFT_OP":
		fe.emit("sllv %s, %s, %s", reg, l, r)
	case "RIGHT_OP":
		fe.emit("srlv %s, %s, %s", reg, l, r)
	case "LT_OP":
		fe.emit("slt %s, %s, %s", reg, l, r)
	case "GT_OP":
		fe.emit("slt %s, %s, %s", reg, r, l)
	case "LE_OP":
		fe.emit("slt %s, %s, %s", reg, r, l)
		fe.emit("xori %s, %s, 1", reg, reg)
	case "GE_OP":
		fe.emit("slt %s, %s, %s", reg, l, r)
		fe.emit("xori %s, %s, 1", reg, reg)
	case "EQ_OP":
		fe.emit("sub %s, %s, %s", reg, l, r)
		fe.emit("sltu %s, $zero, %s", reg, reg)
		fe.emit("xori %s, %s, 1", reg, reg)
	case "NE_OP":
		fe.emit("sub %s, %s, %s", reg, l, r)
	}
	fe.ds.descriptorFor(q.Result).Locations[reg] = true
}

func (fe *funcEmitter) emitUnary(quads []ir.Quadruple, i int, q ir.Quadruple) {
	v := fe.ds.loadVar(quads, i, q.Arg1, q.Result, true, &fe.lines)
	reg := fe.ds.selectRegister(quads, i, q.Result, q.Result, false, &fe.lines)
	switch q.Op {
	case "NOT_OP":
		fe.emit("xor %s, %s, $zero", reg, v)
	case "BITINV_OP":
		fe.emit("nor %s, %s, $zero", reg, v)
	case "MINUS":
		fe.emit("sub %s, $zero, %s", reg, v)
	case "PLUS":
		if reg != v {
			fe.emit("move %s, %s", reg, v)
		}
	}
	fe.ds.descriptorFor(q.Result).Locations[reg] = true
}

func (fe *funcEmitter) emitCall(quads []ir.Quadruple, i int, q ir.Quadruple) {
	args := splitArgs(q.Arg2)
	for idx, a := range args {
		reg := fe.ds.loadVar(quads, i, a, "", true, &fe.lines)
		if idx < 4 {
			if reg != fmt.Sprintf("$a%d", idx) {
				fe.emit("move $a%d, %s", idx, reg)
			}
		} else {
			fe.emit("sw %s, %d($sp)", reg, 4*idx)
		}
	}
	fe.flushDirty()
	fe.emit("jal %s", q.Arg1)
	fe.emit("nop")
	for _, r := range fe.ds.regs {
		if strings.HasPrefix(r.Name, "$t") {
			for v := range r.Vars {
				delete(fe.ds.descriptorFor(v).Locations, r.Name)
			}
			r.Vars = make(map[string]bool)
		}
	}
	if q.Result != "" {
		// $v0 is not part of the allocatable pool, so a second call
		// before this result is consumed would otherwise clobber it
		// outright - selectRegister never returns $v0, so moving the
		// value there immediately gives it a home manageResDescriptors
		// (and eviction) can actually track.
		reg := fe.ds.selectRegister(quads, i, q.Result, q.Result, false, &fe.lines)
		fe.emit("move %s, $v0", reg)
		fe.ds.manageResDescriptors(reg, q.Result)
	}
}

func splitArgs(argList string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(argList, "("), ")")
	if inner == "" {
		return nil
	}
	return strings.Split(inner, " & ")
}
