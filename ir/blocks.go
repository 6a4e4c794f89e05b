package ir

import (
	"sort"
	"strings"
)

// partitionBlocks applies the classic Dragon Book §8.5 leader rule:
// the first instruction, any set_label whose label contains "entry",
// the target of any j/j_false (resolved against every set_label in the
// list), and any instruction immediately following a j/j_false. Blocks
// run leader to next leader, exclusive.
func partitionBlocks(quads []Quadruple) []BasicBlock {
	if len(quads) == 0 {
		return nil
	}

	labelIndex := make(map[string]int, len(quads))
	for i, q := range quads {
		if q.Op == "set_label" {
			labelIndex[q.Result] = i
		}
	}

	leaders := map[int]bool{0: true}
	for i, q := range quads {
		switch q.Op {
		case "set_label":
			if strings.Contains(q.Result, "entry") {
				leaders[i] = true
			}
		case "j", "j_false":
			if target, ok := labelIndex[q.Result]; ok {
				leaders[target] = true
			}
			if i+1 < len(quads) {
				leaders[i+1] = true
			}
		}
	}

	starts := make([]int, 0, len(leaders))
	for i := range leaders {
		starts = append(starts, i)
	}
	sort.Ints(starts)

	blocks := make([]BasicBlock, 0, len(starts))
	for i, start := range starts {
		end := len(quads)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		blocks = append(blocks, BasicBlock{ID: i, Start: start, End: end})
	}
	return blocks
}
