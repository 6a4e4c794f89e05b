package codegen

import "strings"

// peephole repeatedly applies one rewrite until it stops changing
// anything, satisfying idempotence (peephole(peephole(x)) == peephole(x))
// by construction: a fixed point, once reached, cannot change again.
func peephole(lines []string) []string {
	for {
		next, changed := peepholeOnce(lines)
		lines = next
		if !changed {
			return lines
		}
	}
}

// peepholeOnce folds "move X, Y" into the previous instruction when
// that instruction (not a nop or a store) already writes Y: rewrite its
// destination to X and drop the move. A degenerate "move X, X" is
// always dropped outright.
func peepholeOnce(lines []string) ([]string, bool) {
	out := make([]string, 0, len(lines))
	changed := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if dst, src, ok := parseMove(trimmed); ok {
			if dst == src {
				changed = true
				continue
			}
			if len(out) > 0 {
				prev := strings.TrimSpace(out[len(out)-1])
				if prev != "nop" && !strings.HasPrefix(prev, "sw ") {
					if pdst, ok2 := destOf(prev); ok2 && pdst == src {
						out[len(out)-1] = rewriteDest(out[len(out)-1], dst)
						changed = true
						continue
					}
				}
			}
		}
		out = append(out, line)
	}
	return out, changed
}

func parseMove(line string) (dst, src string, ok bool) {
	if !strings.HasPrefix(line, "move ") {
		return "", "", false
	}
	operands := strings.TrimPrefix(line, "move ")
	parts := strings.SplitN(operands, ",", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

var noDestMnemonics = map[string]bool{
	"sw": true, "nop": true, "j": true, "jal": true, "beq": true, "jr": true, "bne": true,
}

func destOf(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", false
	}
	mnemonic := fields[0]
	if noDestMnemonics[mnemonic] {
		return "", false
	}
	dst := strings.TrimSuffix(fields[1], ",")
	return dst, true
}

func rewriteDest(line, newDst string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return line
	}
	hadComma := strings.HasSuffix(fields[1], ",")
	if hadComma {
		fields[1] = newDst + ","
	} else {
		fields[1] = newDst
	}
	return strings.Join(fields, " ")
}
