package errs

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsConnClosedErr(t *testing.T) {
	assert.False(t, IsConnClosedErr(nil))
	assert.False(t, IsConnClosedErr(errors.New("boom")))
	assert.True(t, IsConnClosedErr(net.ErrClosed))
	assert.True(t, IsConnClosedErr(fmt.Errorf("read: %w", io.EOF)))
	assert.True(t, IsConnClosedErr(&net.OpError{Op: "read", Err: syscall.ECONNRESET}))
}

func TestSilentError(t *testing.T) {
	err := NewSilentErr("bad packet %d", 3)
	assert.True(t, IsSilent(err))
	assert.True(t, IsSilent(fmt.Errorf("handling: %w", err)))
	assert.False(t, IsSilent(io.EOF))
	assert.EqualError(t, WrapSilent(io.EOF), "EOF")
	assert.ErrorIs(t, WrapSilent(io.EOF), io.EOF)
}
