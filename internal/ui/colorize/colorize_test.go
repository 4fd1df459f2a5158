package colorize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wingez/gxpu/internal/ui/colorize"
)

func TestDisabledRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, colorize.Disabled())

	t.Setenv("NO_COLOR", "")
	assert.False(t, colorize.Disabled())
}

func TestRenderersAreNoOpsWhenDisabled(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.Equal(t, "0x10", colorize.Address(0x10))
	assert.Equal(t, "LDA", colorize.Mnemonic("LDA"))
	assert.Equal(t, "PC=0x05", colorize.Register("PC", 5))
	assert.True(t, strings.HasPrefix(colorize.Output("3"), "3"))
}
