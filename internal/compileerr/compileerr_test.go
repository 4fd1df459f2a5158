package compileerr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wingez/gxpu/internal/compileerr"
	"github.com/wingez/gxpu/internal/token"
)

func TestNewfFormatsPositionAndMessage(t *testing.T) {
	err := compileerr.Newf(token.Pos{Line: 3, Col: 7}, "undeclared identifier %q", "foo")
	assert.Equal(t, `3:7: undeclared identifier "foo"`, err.Error())
}

func TestNewfUnknownPosition(t *testing.T) {
	err := compileerr.Newf(token.Pos{}, "no position available")
	assert.Equal(t, "-: no position available", err.Error())
}
