package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitmap_BitAndLength(t *testing.T) {
	raw := []byte{0b00000101} // bits 0 and 2 set
	bm := NewBitmap(raw, 4)

	assert.True(t, bm.Bit(0))
	assert.False(t, bm.Bit(1))
	assert.True(t, bm.Bit(2))
	assert.False(t, bm.Bit(3))
	// beyond declared length reads false even though byte has more bits
	assert.False(t, bm.Bit(4))
}

func TestBitmap_BeyondBackingData(t *testing.T) {
	bm := NewBitmap(nil, 100)
	assert.False(t, bm.Bit(50))
}
