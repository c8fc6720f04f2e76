package fastvm

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aion-camus/aionr-arm/vmtypes"
)

func TestCodeAnalysisMarksPushData(t *testing.T) {
	// PUSH1 0x5b JUMPDEST: the 0x5b at pc 1 is operand data, the one at
	// pc 2 is a real JUMPDEST.
	code := []byte{byte(PUSH1), byte(JUMPDEST), byte(JUMPDEST)}
	bits := codeAnalysis(code)

	assert.False(t, bits.validJumpdest(code, 1))
	assert.True(t, bits.validJumpdest(code, 2))
	assert.False(t, bits.validJumpdest(code, 0))
	assert.False(t, bits.validJumpdest(code, 3), "out of bounds")
}

func TestCodeAnalysisTruncatedPush(t *testing.T) {
	// PUSH32 with only two operand bytes present must not scan past the
	// end of code.
	code := []byte{byte(PUSH32), 0x5b, 0x5b}
	bits := codeAnalysis(code)
	assert.False(t, bits.validJumpdest(code, 1))
	assert.False(t, bits.validJumpdest(code, 2))
}

func TestAnalysisCache(t *testing.T) {
	cache := newAnalysisCache(4)
	code := []byte{byte(PUSH1), 0x00, byte(JUMPDEST)}
	hash := vmtypes.Hash(crypto.Keccak256Hash(code))

	first := cache.analyze(hash, code)
	second := cache.analyze(hash, code)
	require.NotNil(t, first)
	assert.True(t, first.validJumpdest(code, 2))
	// Cached entries are shared, not recomputed.
	assert.Same(t, &first[0], &second[0])

	// The zero hash bypasses the cache entirely.
	a := cache.analyze(vmtypes.Hash{}, code)
	b := cache.analyze(vmtypes.Hash{}, code)
	assert.NotSame(t, &a[0], &b[0])

	cache.purge()
	third := cache.analyze(hash, code)
	assert.NotSame(t, &first[0], &third[0])
}

func TestAnalysisCacheDisabled(t *testing.T) {
	cache := newAnalysisCache(0)
	code := []byte{byte(JUMPDEST)}
	bits := cache.analyze(vmtypes.Hash{0x01}, code)
	assert.True(t, bits.validJumpdest(code, 0))
}
