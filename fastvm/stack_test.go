package fastvm

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestStackOps(t *testing.T) {
	st := newStack()
	st.push(uint256.NewInt(1))
	st.push(uint256.NewInt(2))
	st.push(uint256.NewInt(3))

	assert.Equal(t, 3, st.len())
	assert.Equal(t, uint64(3), st.peek().Uint64())
	assert.Equal(t, uint64(2), st.Back(1).Uint64())
	assert.Equal(t, uint64(1), st.Back(2).Uint64())

	st.swap(2)
	assert.Equal(t, uint64(1), st.peek().Uint64())
	assert.Equal(t, uint64(3), st.Back(2).Uint64())

	st.dup(3)
	assert.Equal(t, 4, st.len())
	assert.Equal(t, uint64(3), st.peek().Uint64())

	v := st.pop()
	assert.Equal(t, uint64(3), v.Uint64())
	assert.Equal(t, 3, st.len())
}

func TestMemoryResizeAndAccess(t *testing.T) {
	m := newMemory()
	assert.Equal(t, 0, m.Len())

	m.Resize(1)
	assert.Equal(t, 32, m.Len(), "growth is word-granular")
	m.Resize(33)
	assert.Equal(t, 64, m.Len())
	m.Resize(10)
	assert.Equal(t, 64, m.Len(), "memory never shrinks")

	m.Set(4, 3, []byte{0xaa, 0xbb, 0xcc})
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, m.GetCopy(4, 3))

	m.Set32(32, uint256.NewInt(0x1122))
	got := m.GetCopy(32, 32)
	assert.Equal(t, byte(0x11), got[30])
	assert.Equal(t, byte(0x22), got[31])

	m.SetByte(0, 0x7f)
	assert.Equal(t, byte(0x7f), m.GetPtr(0, 1)[0])

	assert.Nil(t, m.GetCopy(0, 0))
	assert.Nil(t, m.GetPtr(0, 0))

	// Copies do not alias the backing store.
	cpy := m.GetCopy(0, 1)
	m.SetByte(0, 0x00)
	assert.Equal(t, byte(0x7f), cpy[0])
}
