package strsplit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wingez/gxpu/internal/strsplit"
)

func TestManySplitsOnEveryDelimiter(t *testing.T) {
	got := strsplit.Many("LDA FP, -#offset", []rune{' ', ','})
	assert.Equal(t, []string{"LDA", "FP", "-#offset"}, got)
}

func TestManyDropsEmptyWords(t *testing.T) {
	got := strsplit.Many("a,,b   c", []rune{' ', ','})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestManyNoDelimitersPresent(t *testing.T) {
	got := strsplit.Many("EXIT", []rune{' ', ','})
	assert.Equal(t, []string{"EXIT"}, got)
}
