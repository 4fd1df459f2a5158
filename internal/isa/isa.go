// Package isa implements the open, dynamically-registered instruction set
// model: instructions are described by a mnemonic template with named
// operands, a byte-level encoder/decoder, and an emulation behavior, and are
// held in an ordered registry indexed by an 8-bit id.
package isa

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/wingez/gxpu/internal/strsplit"
)

// Machine is the minimal surface a behavior needs from the emulator: register
// and memory access, the stack primitives, and the output sink. It lives
// here (rather than being imported from the vm package) so isa has no
// dependency on the concrete emulator, avoiding an import cycle.
type Machine interface {
	A() uint16
	SetA(uint16)
	ALow() byte
	SetALow(byte)
	PC() uint8
	SetPC(uint8)
	FP() uint8
	SetFP(uint8)
	SP() uint8
	SetSP(uint8)
	ZeroFlag() bool
	SetZeroFlag(bool)
	ReadMemory(addr uint8) (byte, error)
	WriteMemory(addr uint8, val byte) error
	Push(b byte) error
	Pop() (byte, error)
	Output(b byte)
}

// Behavior executes one instruction's semantics against m, given its
// already-decoded operands (keyed by name, per VariableOrder). It returns
// true to halt the run loop, false to continue.
type Behavior func(m Machine, operands map[string]byte) (halt bool, err error)

// DecodeOperands zips order with the operand bytes following an opcode (in
// the same order) into a name -> value map. len(bytes) must equal
// len(order); the caller (the emulator's run loop) guarantees this since it
// reads exactly Instruction.Size-1 bytes.
func DecodeOperands(order []string, bytes []byte) map[string]byte {
	values := make(map[string]byte, len(order))
	for i, name := range order {
		values[name] = bytes[i]
	}
	return values
}

// BuildError is raised by Instruction.Build (and by the assembler, which
// wraps the same failure modes) for a missing, extra, or unrecognized
// operand.
type BuildError struct {
	Msg string
}

func (e *BuildError) Error() string { return e.Msg }

// RegisterError is raised when an explicit variable order passed to Add
// names a different operand set than the mnemonic template declares.
type RegisterError struct {
	Msg string
}

func (e *RegisterError) Error() string { return e.Msg }

// Instruction is one entry of an InstructionSet: an id, a mnemonic template,
// the order in which its named operands are encoded, and the behavior that
// executes it.
type Instruction struct {
	ID            int
	Mnemonic      string
	VariableOrder []string
	Size          int
	Behavior      Behavior

	// Group classifies the instruction for display purposes (e.g. "control
	// flow", "arithmetic"); empty if the registrant didn't set one.
	Group string
}

// Build encodes values (operand name -> byte) into [id, v1, v2, ...] in
// VariableOrder. Every name in VariableOrder must be present in values and
// values must carry no extra names.
func (i *Instruction) Build(values map[string]byte) ([]byte, error) {
	for name := range values {
		if !containsString(i.VariableOrder, name) {
			return nil, &BuildError{Msg: fmt.Sprintf("%s: unknown operand %q", i.Mnemonic, name)}
		}
	}

	out := make([]byte, 0, i.Size)
	out = append(out, byte(i.ID))
	for _, name := range i.VariableOrder {
		v, ok := values[name]
		if !ok {
			return nil, &BuildError{Msg: fmt.Sprintf("%s: missing operand %q", i.Mnemonic, name)}
		}
		out = append(out, v)
	}
	return out, nil
}

// Disassemble re-renders operands (decoded from a byte sequence of i.Size-1,
// in VariableOrder) back into the mnemonic template, replacing each
// "#name" marker with "#" followed by its decoded value.
func (i *Instruction) Disassemble(operands []byte) (string, error) {
	if len(operands) != len(i.VariableOrder) {
		return "", &BuildError{Msg: fmt.Sprintf("%s: expected %d operand bytes, got %d", i.Mnemonic, len(i.VariableOrder), len(operands))}
	}
	values := make(map[string]byte, len(operands))
	for idx, name := range i.VariableOrder {
		values[name] = operands[idx]
	}
	return renderTemplate(i.Mnemonic, values), nil
}

// Set is an ordered registry of instructions indexed by an 8-bit id.
// Insertion order also governs the order the assembler tries templates
// against an input line.
type Set struct {
	byID       [256]*Instruction
	order      []*Instruction
	byMnemonic map[string]*Instruction
}

// NewSet returns an empty instruction registry.
func NewSet() *Set {
	return &Set{byMnemonic: make(map[string]*Instruction)}
}

// ByMnemonic returns the instruction registered under the exact template
// string template, or nil if none is. Used by the code generator, which
// targets a fixed concrete instruction set by mnemonic rather than by id.
func (s *Set) ByMnemonic(template string) *Instruction {
	return s.byMnemonic[template]
}

// Option configures a single Add call.
type Option func(*addConfig)

type addConfig struct {
	id    int
	order []string
	group string
}

// WithID registers the instruction at the given explicit id instead of the
// lowest vacant one.
func WithID(id int) Option {
	return func(c *addConfig) { c.id = id }
}

// WithVariableOrder overrides the operand encoding order derived from the
// mnemonic template. The set of names must match exactly; a mismatch is a
// RegisterError.
func WithVariableOrder(order []string) Option {
	return func(c *addConfig) { c.order = order }
}

// WithGroup tags the instruction with a display group, used to cluster
// related instructions together when listing the whole set.
func WithGroup(group string) Option {
	return func(c *addConfig) { c.group = group }
}

// Add registers a new instruction with the given mnemonic template and
// behavior. By default its id is the lowest vacant slot and its operand
// order is the order "#name" markers appear in the template; both can be
// overridden with WithID / WithVariableOrder.
func (s *Set) Add(mnemonic string, behavior Behavior, opts ...Option) (*Instruction, error) {
	cfg := addConfig{id: -1}
	for _, opt := range opts {
		opt(&cfg)
	}

	templateOrder := parseTemplateOperands(mnemonic)
	order := cfg.order
	if order == nil {
		order = templateOrder
	} else if !sameStringSet(order, templateOrder) {
		return nil, &RegisterError{Msg: fmt.Sprintf("%s: explicit variable order %v does not match template operands %v", mnemonic, order, templateOrder)}
	}

	id := cfg.id
	if id == -1 {
		id = s.NextVacantID()
		if id == -1 {
			return nil, &RegisterError{Msg: "instruction set is full"}
		}
	} else {
		if id < 0 || id > 255 {
			return nil, &RegisterError{Msg: fmt.Sprintf("id %d out of range", id)}
		}
		if existing := s.byID[id]; existing != nil {
			return nil, &RegisterError{Msg: fmt.Sprintf("id %d already registered to %q", id, existing.Mnemonic)}
		}
	}

	instr := &Instruction{
		ID:            id,
		Mnemonic:      mnemonic,
		VariableOrder: order,
		Size:          1 + len(order),
		Behavior:      behavior,
		Group:         cfg.group,
	}
	s.byID[id] = instr
	s.order = append(s.order, instr)
	s.byMnemonic[mnemonic] = instr
	return instr, nil
}

// NextVacantID returns the lowest id in 0..255 with no registered
// instruction, or -1 if the registry is full.
func (s *Set) NextVacantID() int {
	for id := 0; id < 256; id++ {
		if s.byID[id] == nil {
			return id
		}
	}
	return -1
}

// Lookup returns the instruction registered at id, or nil if none is.
func (s *Set) Lookup(id byte) *Instruction {
	return s.byID[id]
}

// All returns every registered instruction sorted by group, then by id
// within a group - the order the original toolchain's instruction-set
// listing grouped and printed them in. Instructions with no group sort
// together under the empty-string group, first.
func (s *Set) All() []*Instruction {
	out := slices.Clone(s.order)
	slices.SortFunc(out, func(a, b *Instruction) int {
		if a.Group != b.Group {
			if a.Group < b.Group {
				return -1
			}
			return 1
		}
		return a.ID - b.ID
	})
	return out
}

// InsertionOrder returns every registered instruction in the order Add was
// called, the order the assembler tries templates against an input line in
// (earlier, more specific templates first).
func (s *Set) InsertionOrder() []*Instruction {
	return s.order
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			return false
		}
	}
	return true
}

var templateDelimiters = []rune{' ', ','}

// parseTemplateOperands splits a mnemonic template into words on spaces and
// commas and returns, in order, the operand name of every word containing
// '#' (the text following '#', so "-#offset" and "#offset" both yield
// "offset").
func parseTemplateOperands(template string) []string {
	words := strsplit.Many(template, templateDelimiters)
	var names []string
	for _, w := range words {
		if idx := indexByte(w, '#'); idx >= 0 {
			names = append(names, w[idx+1:])
		}
	}
	return names
}

// renderTemplate replaces every "#name" marker in template with "#" followed
// by its decoded value from values.
func renderTemplate(template string, values map[string]byte) string {
	words := splitKeepDelims(template)
	var out []byte
	for _, w := range words {
		if idx := indexByte(w, '#'); idx >= 0 {
			name := w[idx+1:]
			if v, ok := values[name]; ok {
				w = fmt.Sprintf("%s%d", w[:idx+1], v)
			}
		}
		out = append(out, w...)
	}
	return string(out)
}

// splitKeepDelims splits template into runs of non-delimiter text
// interleaved with the delimiter runs themselves, so the original spacing
// and punctuation of the template is preserved in the disassembled output.
func splitKeepDelims(template string) []string {
	var parts []string
	var cur []byte
	isDelim := func(b byte) bool { return b == ' ' || b == ',' }
	curIsDelim := false
	for i := 0; i < len(template); i++ {
		b := template[i]
		if i == 0 {
			curIsDelim = isDelim(b)
		}
		if isDelim(b) != curIsDelim {
			parts = append(parts, string(cur))
			cur = cur[:0]
			curIsDelim = isDelim(b)
		}
		cur = append(cur, b)
	}
	if len(cur) > 0 {
		parts = append(parts, string(cur))
	}
	return parts
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
