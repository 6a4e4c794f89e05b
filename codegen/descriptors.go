package codegen

import "strings"

// AddressKind replaces the "boundMemAddress contains ($0), or neither
// -prefix nor ($sp)" string-sniffing the preserved heuristic used to
// decide whether a variable's home is global, stack, or a register-only
// temporary - this is the first-class tag §9's rewrite note asks for.
type AddressKind int

const (
	AddrTemp AddressKind = iota // no bound memory; cannot be spilled
	AddrStack
	AddrGlobal
)

// RegisterDescriptor tracks which variable ids currently live in one
// register.
type RegisterDescriptor struct {
	Name   string
	Usable bool
	Vars   map[string]bool
}

func newRegDescriptor(name string, usable bool) *RegisterDescriptor {
	return &RegisterDescriptor{Name: name, Usable: usable, Vars: make(map[string]bool)}
}

// AddressDescriptor is the per-variable map of current locations plus
// its canonical home.
type AddressDescriptor struct {
	Locations   map[string]bool // register names and/or memory expressions
	BoundMem    string          // "" for temporaries with no canonical home
	Kind        AddressKind
}

func newAddrDescriptor(boundMem string, kind AddressKind) *AddressDescriptor {
	return &AddressDescriptor{Locations: make(map[string]bool), BoundMem: boundMem, Kind: kind}
}

func (a *AddressDescriptor) isDirty() bool {
	if a.BoundMem == "" {
		return false
	}
	return !a.Locations[a.BoundMem]
}

// descriptorState bundles every register and variable descriptor live
// during the compilation of one function.
type descriptorState struct {
	regs    []*RegisterDescriptor
	regByName map[string]*RegisterDescriptor
	addrs   map[string]*AddressDescriptor // variable id -> descriptor
}

// newDescriptorState builds the full pool in selection-preference order:
// $t0-$t9 first (always usable), then $s0-$s7 (gated by numGPRsToSave).
func newDescriptorState(numGPRsToSave int, isMain bool) *descriptorState {
	ds := &descriptorState{regByName: make(map[string]*RegisterDescriptor), addrs: make(map[string]*AddressDescriptor)}
	for i := 0; i < 10; i++ {
		r := newRegDescriptor(tReg(i), true)
		ds.regs = append(ds.regs, r)
		ds.regByName[r.Name] = r
	}
	usableS := numGPRsToSave
	if isMain {
		usableS = 8
	}
	for i := 0; i < 8; i++ {
		r := newRegDescriptor(sReg(i), i < usableS)
		ds.regs = append(ds.regs, r)
		ds.regByName[r.Name] = r
	}
	return ds
}

func tReg(i int) string { return "$t" + itoa(i) }
func sReg(i int) string { return "$s" + itoa(i) }

func itoa(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return "10"
}

func (ds *descriptorState) descriptorFor(v string) *AddressDescriptor {
	a, ok := ds.addrs[v]
	if !ok {
		a = newAddrDescriptor("", AddrTemp)
		ds.addrs[v] = a
	}
	return a
}

// manageResDescriptors: res now lives only in R; every other variable
// loses R from its location set; res's only current location becomes R
// (its bound memory, if any, is not added - it is now stale).
func (ds *descriptorState) manageResDescriptors(reg string, res string) {
	for _, a := range ds.addrs {
		delete(a.Locations, reg)
	}
	a := ds.descriptorFor(res)
	a.Locations = map[string]bool{reg: true}
	if r, ok := ds.regByName[reg]; ok {
		r.Vars = map[string]bool{res: true}
	}
}

// clearRegistersOnly drops every register-only location at a block
// boundary so the next block starts cold, per the block-boundary
// discipline.
func (ds *descriptorState) clearRegistersOnly() {
	for _, a := range ds.addrs {
		for loc := range a.Locations {
			if strings.HasPrefix(loc, "$") {
				delete(a.Locations, loc)
			}
		}
	}
	for _, r := range ds.regs {
		r.Vars = make(map[string]bool)
	}
}
