package fastvm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassembleAll(t *testing.T) {
	code := []byte{
		byte(PUSH1), 0x60,
		byte(PUSH2), 0x12, 0x34,
		byte(ADD),
		byte(DUP17),
		byte(STOP),
	}
	insts := DisassembleAll(code)
	require.Len(t, insts, 5)

	assert.Equal(t, PUSH1, insts[0].Op)
	assert.Equal(t, []byte{0x60}, insts[0].Operand)
	assert.Equal(t, uint64(0), insts[0].PC)

	assert.Equal(t, PUSH2, insts[1].Op)
	assert.Equal(t, []byte{0x12, 0x34}, insts[1].Operand)
	assert.Equal(t, uint64(2), insts[1].PC)

	assert.Equal(t, ADD, insts[2].Op)
	assert.Nil(t, insts[2].Operand)
	assert.Equal(t, DUP17, insts[3].Op)
	assert.Equal(t, STOP, insts[4].Op)
}

func TestDisassembleTruncatedPush(t *testing.T) {
	code := []byte{byte(PUSH4), 0xaa, 0xbb}
	insts := DisassembleAll(code)
	require.Len(t, insts, 1)
	assert.Equal(t, []byte{0xaa, 0xbb}, insts[0].Operand)
}

func TestDisassembleText(t *testing.T) {
	out := Disassemble([]byte{byte(PUSH1), 0x2a, byte(STOP)})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "000000: PUSH1 0x2a", lines[0])
	assert.Equal(t, "000002: STOP", lines[1])
}

func TestOpCodeProperties(t *testing.T) {
	assert.True(t, PUSH1.IsPush())
	assert.True(t, PUSH32.IsPush())
	assert.False(t, ADD.IsPush())

	assert.Equal(t, 1, PUSH1.PushSize())
	assert.Equal(t, 32, PUSH32.PushSize())
	assert.Equal(t, 0, ADD.PushSize())

	assert.Equal(t, "DUP17", DUP17.String())
	assert.Equal(t, "SWAP32", SWAP32.String())
	assert.Equal(t, "STATICCALL", STATICCALL.String())

	op, ok := StringToOp("DUP32")
	require.True(t, ok)
	assert.Equal(t, DUP32, op)
	_, ok = StringToOp("NOPE")
	assert.False(t, ok)
}
