package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/wingez/gxpu/internal/isa"
	"github.com/wingez/gxpu/internal/ui/colorize"
	"github.com/wingez/gxpu/internal/vm"
)

const (
	disasmWidth  = 48
	disasmHeight = 20
)

// model is the debugger's bubbletea state: one loaded program, one
// emulator, and a scrollable view over the disassembly with the current
// PC highlighted.
type model struct {
	runID   uuid.UUID
	set     *isa.Set
	program []byte
	lines   []string
	offsets []int

	emu *vm.Emulator

	vp viewport.Model

	halted  bool
	stepErr error
	cycles  int
}

func newModel(set *isa.Set, program []byte, lines []string, offsets []int) (*model, error) {
	emu := vm.New(set)
	if err := emu.SetAllMemory(program); err != nil {
		return nil, err
	}

	vp := viewport.New(disasmWidth, disasmHeight)

	m := &model{
		runID:   uuid.New(),
		set:     set,
		program: program,
		lines:   lines,
		offsets: offsets,
		emu:     emu,
		vp:      vp,
	}
	m.vp.SetContent(m.renderDisassembly())
	return m, nil
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "s", "n", " ":
			m.step()
			m.vp.SetContent(m.renderDisassembly())
		case "r":
			m.reset()
			m.vp.SetContent(m.renderDisassembly())
		}
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.vp.Height = msg.Height - 8
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// step advances the emulator exactly one instruction, using the single-step
// convention that an emulator Run budget of 1 halts (nil error) if the
// program finished, or returns a *vm.CyclesExceededError ("not yet done")
// if execution simply paused after the one instruction.
func (m *model) step() {
	if m.halted {
		return
	}
	_, err := m.emu.Run(1)
	m.cycles++
	if err == nil {
		m.halted = true
		return
	}
	if _, ok := err.(*vm.CyclesExceededError); ok {
		return
	}
	m.halted = true
	m.stepErr = err
}

func (m *model) reset() {
	m.emu.Reset()
	_ = m.emu.SetAllMemory(m.program)
	m.halted = false
	m.stepErr = nil
	m.cycles = 0
}

func (m *model) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "gxpudbg  run=%s  cycles=%d\n", m.runID, m.cycles)
	fmt.Fprintf(&b, "%s\n", m.renderRegisters())
	b.WriteString(m.vp.View())
	b.WriteString("\n")

	if m.stepErr != nil {
		fmt.Fprintf(&b, "%s\n", colorize.Error(m.stepErr.Error()))
	} else if m.halted {
		b.WriteString(colorize.Output("program halted\n"))
		b.WriteString(m.renderOutput())
	}

	b.WriteString("[s/n] step  [r] reset  [q] quit\n")
	return b.String()
}

func (m *model) renderRegisters() string {
	return fmt.Sprintf(
		"A=0x%04x  %s  %s  %s  zero=%v",
		m.emu.A(),
		colorize.Register("PC", m.emu.PC()),
		colorize.Register("FP", m.emu.FP()),
		colorize.Register("SP", m.emu.SP()),
		m.emu.ZeroFlag(),
	)
}

func (m *model) renderOutput() string {
	out := m.emu.OutputBytes()
	if len(out) == 0 {
		return ""
	}
	parts := make([]string, len(out))
	for i, b := range out {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return colorize.Output(strings.Join(parts, " ")) + "\n"
}

func (m *model) renderDisassembly() string {
	pc := int(m.emu.PC())
	var b strings.Builder
	for i, line := range m.lines {
		offset := m.offsets[i]
		cursor := "  "
		if !m.halted && offset == pc {
			cursor = colorize.Cursor("->")
		}
		fmt.Fprintf(&b, "%s %s  %s\n", cursor, colorize.Address(uint8(offset)), colorize.Mnemonic(line))
	}
	return b.String()
}
