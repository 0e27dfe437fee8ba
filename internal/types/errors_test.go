package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Unwrap(t *testing.T) {
	root := errors.New("short read")
	wrapped := NewError(IoError, "byteReader.ReadAt", root)

	assert.Equal(t, root, errors.Unwrap(wrapped))
	assert.Contains(t, wrapped.Error(), "IoError")
	assert.Contains(t, wrapped.Error(), "byteReader.ReadAt")
}

func TestError_Is_MatchesOnKind(t *testing.T) {
	err := NewError(InputError, "decodeVolumeHeader", nil)
	assert.True(t, errors.Is(err, NewError(InputError, "", nil)))
	assert.False(t, errors.Is(err, NewError(IoError, "", nil)))
}

func TestError_CauseChain(t *testing.T) {
	root := errors.New("eof")
	mid := NewError(IoError, "chain walk", root)
	top := NewError(RuntimeError, "catalog scan", mid)

	chain := top.CauseChain()
	assert.Len(t, chain, 3)
	assert.Equal(t, top, chain[0])
	assert.Equal(t, mid, chain[1])
	assert.Equal(t, root, chain[2])
}
