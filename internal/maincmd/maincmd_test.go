package maincmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingez/gxpu/internal/maincmd"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.gx")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunHelloByte(t *testing.T) {
	path := writeSource(t, "def main():\n  print(68)\n")

	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	err := c.Run(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{path})
	require.NoError(t, err)
	assert.Equal(t, "68\n", out.String())
}

func TestTokenizePrintsOneTokenPerLine(t *testing.T) {
	path := writeSource(t, "def main():\n  print(68)\n")

	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	err := c.Tokenize(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{path})
	require.NoError(t, err)
	assert.NotEmpty(t, out.String())
	assert.True(t, strings.Contains(out.String(), "def"))
}

func TestCompileThenDisasmRoundTrips(t *testing.T) {
	path := writeSource(t, "def main():\n  print(68)\n")

	var compiled, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	require.NoError(t, c.Compile(context.Background(), mainer.Stdio{Stdout: &compiled, Stderr: &errOut}, []string{path}))
	require.NotEmpty(t, compiled.String())

	hexPath := filepath.Join(t.TempDir(), "prog.hex")
	require.NoError(t, os.WriteFile(hexPath, compiled.Bytes(), 0o644))

	var disasmOut bytes.Buffer
	require.NoError(t, c.Disasm(context.Background(), mainer.Stdio{Stdout: &disasmOut, Stderr: &errOut}, []string{hexPath}))
	assert.Contains(t, disasmOut.String(), "LDA")
}

func TestAsmThenRunRoundTrips(t *testing.T) {
	path := writeSource(t, "def main():\n  print(68)\n")

	var compiled, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	require.NoError(t, c.Compile(context.Background(), mainer.Stdio{Stdout: &compiled, Stderr: &errOut}, []string{path}))

	var disasmOut bytes.Buffer
	hexPath := filepath.Join(t.TempDir(), "prog.hex")
	require.NoError(t, os.WriteFile(hexPath, compiled.Bytes(), 0o644))
	require.NoError(t, c.Disasm(context.Background(), mainer.Stdio{Stdout: &disasmOut, Stderr: &errOut}, []string{hexPath}))

	asmPath := filepath.Join(t.TempDir(), "prog.asm")
	require.NoError(t, os.WriteFile(asmPath, disasmOut.Bytes(), 0o644))

	var reassembled bytes.Buffer
	require.NoError(t, c.Asm(context.Background(), mainer.Stdio{Stdout: &reassembled, Stderr: &errOut}, []string{asmPath}))
	assert.Equal(t, compiled.String(), reassembled.String())
}

func TestLayoutPrintsIdentifierTable(t *testing.T) {
	path := writeSource(t, "def main():\n  a = 1\n  print(a)\n")

	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{}
	require.NoError(t, c.Layout(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{path}))
	assert.Contains(t, out.String(), "a")
}

func TestValidateRejectsUnknownCommand(t *testing.T) {
	c := &maincmd.Cmd{}
	c.SetArgs([]string{"bogus"})
	err := c.Validate()
	assert.Error(t, err)
}

func TestValidateRequiresFileArgument(t *testing.T) {
	c := &maincmd.Cmd{}
	c.SetArgs([]string{"run"})
	err := c.Validate()
	assert.Error(t, err)
}

func TestValidateAcceptsHelpWithoutCommand(t *testing.T) {
	c := &maincmd.Cmd{Help: true}
	err := c.Validate()
	assert.NoError(t, err)
}
