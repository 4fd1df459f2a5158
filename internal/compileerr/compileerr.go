// Package compileerr defines the single error type shared by the frame
// layout planner and the code generator: both fail fast, with no recovery
// beyond the first fault.
package compileerr

import (
	"fmt"

	"github.com/wingez/gxpu/internal/token"
)

// Error reports a single fatal problem discovered while planning a frame
// layout or generating code: an unknown variable, unknown function, unknown
// type, duplicate function, missing main, or unsupported node shape.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Newf builds an Error at pos with a formatted message.
func Newf(pos token.Pos, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
