// Package strsplit provides the multi-delimiter word splitting used by the
// instruction mnemonic templates and the assembler.
package strsplit

import "strings"

// Many splits s on every delimiter in delims, in turn, the way a recursive
// single-delimiter split would, and drops empty words. The result contains
// only the non-empty tokens between delimiters, in left-to-right order.
func Many(s string, delims []rune) []string {
	current := []string{s}
	for _, d := range delims {
		var next []string
		for _, c := range current {
			next = append(next, strings.Split(c, string(d))...)
		}
		current = next
	}

	out := current[:0]
	for _, w := range current {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
