package codegen

import (
	"strings"

	"github.com/arcbound/minicc/ir"
)

// isReferencedAfter scans forward from idx+1, stopping at the function's
// own exit label, and reports whether varID is mentioned again - a
// variable with no further mentions costs nothing to evict.
func isReferencedAfter(quads []ir.Quadruple, idx int, varID string) bool {
	for i := idx + 1; i < len(quads); i++ {
		q := quads[i]
		if q.Op == "set_label" && strings.HasSuffix(q.Result, "_exit") {
			return false
		}
		if q.Arg1 == varID || q.Arg2 == varID || q.Result == varID {
			return true
		}
	}
	return false
}

// evictCost is the Aho-Sethi-Ullman §8.6.3 cost of evicting v from a
// register, given the instruction currently being emitted.
func evictCost(ds *descriptorState, quads []ir.Quadruple, idx int, v, curResult string, curIsArg bool) int {
	if v == curResult && !curIsArg {
		return 0
	}
	if !isReferencedAfter(quads, idx, v) {
		return 0
	}
	a := ds.descriptorFor(v)
	for loc := range a.Locations {
		if !strings.HasPrefix(loc, "$") {
			return 0
		}
	}
	if a.BoundMem != "" {
		return 1
	}
	return 1 << 30 // effectively infinite: a temp with no home cannot be spilled
}

// store emits the instruction needed to persist a register's value to
// v's bound memory, used both by eviction and by explicit storeVar.
func store(reg string, v *AddressDescriptor, out *[]string) {
	*out = append(*out, "sw "+reg+", "+v.BoundMem)
	v.Locations[v.BoundMem] = true
}

// selectRegister implements the three-step policy: reuse an existing
// location, else an empty usable register, else evict the cheapest
// occupant, emitting any necessary stores into out.
func (ds *descriptorState) selectRegister(quads []ir.Quadruple, idx int, v, curResult string, curIsArg bool, out *[]string) string {
	a := ds.descriptorFor(v)
	for loc := range a.Locations {
		if strings.HasPrefix(loc, "$") {
			return loc
		}
	}

	for _, r := range ds.regs {
		if r.Usable && len(r.Vars) == 0 {
			ds.manageResDescriptors(r.Name, v)
			return r.Name
		}
	}

	bestReg := ""
	bestCost := -1
	for _, r := range ds.regs {
		if !r.Usable {
			continue
		}
		cost := 0
		for held := range r.Vars {
			cost += evictCost(ds, quads, idx, held, curResult, curIsArg)
		}
		if bestCost == -1 || cost < bestCost {
			bestCost, bestReg = cost, r.Name
		}
	}

	r := ds.regByName[bestReg]
	for held := range r.Vars {
		hd := ds.descriptorFor(held)
		if evictCost(ds, quads, idx, held, curResult, curIsArg) == 1 {
			store(bestReg, hd, out)
		}
		delete(hd.Locations, bestReg)
	}
	ds.manageResDescriptors(bestReg, v)
	return bestReg
}

// loadVar implements the loadVar policy: if v has a bound memory
// address, load it with the two load-use delay-slot nops; update
// descriptors so R holds v and v's locations include R.
func (ds *descriptorState) loadVar(quads []ir.Quadruple, idx int, v, curResult string, curIsArg bool, out *[]string) string {
	a := ds.descriptorFor(v)
	inReg := false
	for loc := range a.Locations {
		if strings.HasPrefix(loc, "$") {
			inReg = true
			break
		}
	}
	reg := ds.selectRegister(quads, idx, v, curResult, curIsArg, out)
	if a.BoundMem != "" && !inReg {
		*out = append(*out, "lw "+reg+", "+a.BoundMem, "nop", "nop")
		a.Locations[a.BoundMem] = true
	}
	a.Locations[reg] = true
	return reg
}

// storeVar implements the storeVar policy: if v has a bound memory
// address, store through; temporaries are never stored.
func (ds *descriptorState) storeVar(v, reg string, out *[]string) {
	a := ds.descriptorFor(v)
	if a.BoundMem == "" {
		return
	}
	store(reg, a, out)
}
