package vmtypes

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordConversions(t *testing.T) {
	w := WordFromUint64(0xdeadbeef)
	assert.Equal(t, uint64(0xdeadbeef), w.Uint256().Uint64())
	assert.Equal(t, int64(0xdeadbeef), w.Big().Int64())
	assert.False(t, w.IsZero())
	assert.True(t, Word{}.IsZero())

	u := uint256.NewInt(0).SetAllOne()
	assert.Equal(t, u, WordFromUint256(u).Uint256())

	b := big.NewInt(123456789)
	assert.Equal(t, b, WordFromBig(b).Big())
}

func TestWordFromBytesAlignment(t *testing.T) {
	w := WordFromBytes([]byte{0x01, 0x02})
	assert.Equal(t, byte(0x01), w[30])
	assert.Equal(t, byte(0x02), w[31])

	// Oversized input keeps the trailing 32 bytes.
	long := make([]byte, 40)
	for i := range long {
		long[i] = byte(i)
	}
	w = WordFromBytes(long)
	assert.Equal(t, byte(8), w[0])
	assert.Equal(t, byte(39), w[31])
}

func TestHalfWordRoundTrip(t *testing.T) {
	w := WordFromUint64(42)
	h, lost := w.Half()
	require.False(t, lost)
	assert.Equal(t, w, h.Word())

	// Values above 128 bits do not round-trip and must say so.
	var big Word
	big[0] = 0x01
	_, lost = big.Half()
	assert.True(t, lost)
}

func TestAddressWordIdentity(t *testing.T) {
	var addr Address
	for i := range addr {
		addr[i] = byte(i)
	}
	assert.Equal(t, addr, addr.Word().Address())
	assert.Equal(t, Hash(addr), addr.Word().Hash())
	assert.Equal(t,
		"0x000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		addr.Hex())
}
