package ir

import (
	"fmt"
	"io"
)

// Dump prints a program's quadruple list and basic-block boundaries in
// a human-readable form, one instruction per line, block headers
// separating each partition.
func (p *Program) Dump(out io.Writer) {
	fmt.Fprintln(out, "QUADRUPLES:")
	blockOf := make(map[int]int, len(p.Quads))
	for _, b := range p.Blocks {
		for i := b.Start; i < b.End; i++ {
			blockOf[i] = b.ID
		}
	}
	lastBlock := -1
	for i, q := range p.Quads {
		if b, ok := blockOf[i]; ok && b != lastBlock {
			fmt.Fprintf(out, "  -- block %d --\n", b)
			lastBlock = b
		}
		fmt.Fprintf(out, "  %4d: %s\n", i, q)
	}
}
