package maincmd

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// parseHexBytes parses a whitespace-separated sequence of two-digit hex
// bytes, the textual form compile/asm print and disasm consumes.
func parseHexBytes(s string) ([]byte, error) {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		b, err := hex.DecodeString(f)
		if err != nil || len(b) != 1 {
			return nil, fmt.Errorf("invalid hex byte %q", f)
		}
		out = append(out, b[0])
	}
	return out, nil
}
