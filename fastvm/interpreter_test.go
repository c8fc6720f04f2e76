package fastvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aion-camus/aionr-arm/host"
	"github.com/aion-camus/aionr-arm/vmtypes"
)

// run executes code under the latest revision against a counting host
// with no backing state.
func run(t *testing.T, code []byte, gas int64, flags vmtypes.Flags) (vmtypes.Result, *host.Recorder) {
	t.Helper()
	vm := New()
	defer vm.Destroy()
	rec := host.NewRecorder(nil)
	msg := &vmtypes.Message{Gas: gas, Flags: flags}
	res := vm.Execute(rec, vmtypes.AionV1, msg, code)
	return res, rec
}

// addProgram computes 1+2, stores the sum at memory 0 and returns the
// 32-byte word.
var addProgram = []byte{
	byte(PUSH1), 0x01,
	byte(PUSH1), 0x02,
	byte(ADD),
	byte(PUSH1), 0x00,
	byte(MSTORE),
	byte(PUSH1), 0x20,
	byte(PUSH1), 0x00,
	byte(RETURN),
}

func TestRunArithmetic(t *testing.T) {
	res, _ := run(t, addProgram, 100000, 0)
	require.Equal(t, vmtypes.Success, res.Status)
	require.Len(t, res.Output, 32)
	assert.Equal(t, vmtypes.WordFromUint64(3), vmtypes.WordFromBytes(res.Output))

	// 5 pushes and ADD at 3 gas each, MSTORE at 3 plus one word of
	// memory expansion, RETURN free with memory already sized.
	assert.Equal(t, int64(100000-24), res.GasLeft)
}

func TestRunOutOfGasZeroesResult(t *testing.T) {
	res, _ := run(t, addProgram, 10, 0)
	assert.Equal(t, vmtypes.OutOfGas, res.Status)
	assert.Zero(t, res.GasLeft)
	assert.Nil(t, res.Output)
}

func TestRunGasNeverExceedsBudget(t *testing.T) {
	for gas := int64(0); gas <= 30; gas++ {
		res, _ := run(t, addProgram, gas, 0)
		if gas >= 24 {
			assert.Equal(t, vmtypes.Success, res.Status, "gas=%d", gas)
			assert.Equal(t, gas-24, res.GasLeft)
		} else {
			assert.Equal(t, vmtypes.OutOfGas, res.Status, "gas=%d", gas)
			assert.Zero(t, res.GasLeft)
		}
	}
}

func TestRunBadInstruction(t *testing.T) {
	res, _ := run(t, []byte{0xfe}, 100000, 0)
	assert.Equal(t, vmtypes.BadInstruction, res.Status)
	assert.Zero(t, res.GasLeft)
}

func TestRunStopAndImplicitHalt(t *testing.T) {
	res, _ := run(t, []byte{byte(STOP)}, 100, 0)
	assert.Equal(t, vmtypes.Success, res.Status)
	assert.Equal(t, int64(100), res.GasLeft)
	assert.Empty(t, res.Output)

	// Running off the end of code is an implicit STOP.
	res, _ = run(t, []byte{byte(PUSH1), 0x01}, 100, 0)
	assert.Equal(t, vmtypes.Success, res.Status)
	assert.Equal(t, int64(97), res.GasLeft)
}

func TestRunJumpIntoPushData(t *testing.T) {
	// The target 0x01 is PUSH operand data, not an instruction boundary.
	code := []byte{byte(PUSH1), 0x01, byte(JUMP)}
	res, _ := run(t, code, 100000, 0)
	assert.Equal(t, vmtypes.BadJumpDestination, res.Status)
	assert.Zero(t, res.GasLeft)
}

func TestRunJumpToJumpdest(t *testing.T) {
	// PUSH1 4 JUMP STOP JUMPDEST PUSH1 7 ... returns empty via STOP at
	// the end.
	code := []byte{
		byte(PUSH1), 0x04,
		byte(JUMP),
		byte(STOP),
		byte(JUMPDEST),
		byte(STOP),
	}
	res, _ := run(t, code, 100000, 0)
	assert.Equal(t, vmtypes.Success, res.Status)
}

func TestRunJumpiFallthrough(t *testing.T) {
	// Condition zero: no jump, pc moves past JUMPI.
	code := []byte{
		byte(PUSH1), 0x00, // condition
		byte(PUSH1), 0x01, // bogus destination, never taken
		byte(JUMPI),
		byte(STOP),
	}
	res, _ := run(t, code, 100000, 0)
	assert.Equal(t, vmtypes.Success, res.Status)
}

func TestRunStackUnderflow(t *testing.T) {
	res, _ := run(t, []byte{byte(ADD)}, 100000, 0)
	assert.Equal(t, vmtypes.StackUnderflow, res.Status)
	assert.Zero(t, res.GasLeft)
}

func TestRunStackOverflow(t *testing.T) {
	code := make([]byte, 0, (StackLimit+1)*2)
	for i := 0; i <= StackLimit; i++ {
		code = append(code, byte(PUSH1), 0x00)
	}
	res, _ := run(t, code, 100000, 0)
	assert.Equal(t, vmtypes.StackOverflow, res.Status)
	assert.Zero(t, res.GasLeft)
}

func TestRunStaticModeBlocksSstore(t *testing.T) {
	code := []byte{
		byte(PUSH1), 0x01,
		byte(PUSH1), 0x00,
		byte(SSTORE),
	}
	res, rec := run(t, code, 100000, vmtypes.Static)
	assert.Equal(t, vmtypes.StaticModeError, res.Status)
	assert.Zero(t, res.GasLeft)
	assert.Zero(t, rec.SetStorageCalls, "host must not see the write")

	// The same program mutates freely outside static mode.
	res, rec = run(t, code, 100000, 0)
	assert.Equal(t, vmtypes.Success, res.Status)
	assert.Equal(t, 1, rec.SetStorageCalls)
}

func TestRunStaticModeBlocksValueCall(t *testing.T) {
	code := []byte{
		byte(PUSH1), 0x00, // retLen
		byte(PUSH1), 0x00, // retOff
		byte(PUSH1), 0x00, // inLen
		byte(PUSH1), 0x00, // inOff
		byte(PUSH1), 0x01, // value
		byte(PUSH1), 0x00, // addr
		byte(PUSH1), 0x00, // gas
		byte(CALL),
	}
	res, rec := run(t, code, 100000, vmtypes.Static)
	assert.Equal(t, vmtypes.StaticModeError, res.Status)
	assert.Zero(t, rec.CallCalls)
	assert.Zero(t, rec.GetBalanceCalls)
}

func TestRunRevertKeepsOutputAndGas(t *testing.T) {
	code := []byte{
		byte(PUSH1), 0x42,
		byte(PUSH1), 0x00,
		byte(MSTORE),
		byte(PUSH1), 0x20,
		byte(PUSH1), 0x00,
		byte(REVERT),
	}
	res, rec := run(t, code, 100000, 0)
	assert.Equal(t, vmtypes.Revert, res.Status)
	require.Len(t, res.Output, 32)
	assert.Equal(t, vmtypes.WordFromUint64(0x42), vmtypes.WordFromBytes(res.Output))
	assert.Equal(t, int64(100000-18), res.GasLeft)
	assert.Zero(t, rec.MutationCalls())
}

func TestRunReturnDataCopyOutOfBounds(t *testing.T) {
	// No call has populated the return buffer; copying one byte from it
	// is a hard failure rather than a zero-padded read.
	code := []byte{
		byte(PUSH1), 0x01, // length
		byte(PUSH1), 0x00, // data offset
		byte(PUSH1), 0x00, // mem offset
		byte(RETURNDATACOPY),
	}
	res, _ := run(t, code, 100000, 0)
	assert.Equal(t, vmtypes.Failure, res.Status)
	assert.Zero(t, res.GasLeft)
}

func TestRunSelfdestructHalts(t *testing.T) {
	code := []byte{
		byte(PUSH1), 0x05,
		byte(SELFDESTRUCT),
		byte(PUSH1), 0x01, // never reached
	}
	res, rec := run(t, code, 100000, 0)
	assert.Equal(t, vmtypes.Success, res.Status)
	assert.Equal(t, 1, rec.SelfdestructCalls)
	assert.Equal(t, int64(100000-3), res.GasLeft)
}

func TestRunExtendedDupSwap(t *testing.T) {
	// Push 1..17, then DUP17 copies the deepest value to the top.
	var code []byte
	for i := 1; i <= 17; i++ {
		code = append(code, byte(PUSH1), byte(i))
	}
	code = append(code,
		byte(DUP17),
		byte(PUSH1), 0x00,
		byte(MSTORE),
		byte(PUSH1), 0x20,
		byte(PUSH1), 0x00,
		byte(RETURN),
	)
	res, _ := run(t, code, 100000, 0)
	require.Equal(t, vmtypes.Success, res.Status)
	assert.Equal(t, vmtypes.WordFromUint64(1), vmtypes.WordFromBytes(res.Output))

	// The extended range does not exist before the Aion revision.
	vm := New()
	defer vm.Destroy()
	msg := &vmtypes.Message{Gas: 100000}
	res = vm.Execute(host.NewRecorder(nil), vmtypes.Byzantium, msg, code)
	assert.Equal(t, vmtypes.BadInstruction, res.Status)
}

func TestRunSwap17(t *testing.T) {
	// Push 1..18: SWAP17 exchanges the top (18) with the 17 positions
	// deeper value (1).
	var code []byte
	for i := 1; i <= 18; i++ {
		code = append(code, byte(PUSH1), byte(i))
	}
	code = append(code,
		byte(SWAP17),
		byte(PUSH1), 0x00,
		byte(MSTORE),
		byte(PUSH1), 0x20,
		byte(PUSH1), 0x00,
		byte(RETURN),
	)
	res, _ := run(t, code, 100000, 0)
	require.Equal(t, vmtypes.Success, res.Status)
	assert.Equal(t, vmtypes.WordFromUint64(1), vmtypes.WordFromBytes(res.Output))
}

func TestRunTruncatedPushPadsZero(t *testing.T) {
	// A PUSH2 whose second operand byte runs past the end of code reads
	// as 0x4200: missing bytes count as zeros on the right.
	code := []byte{byte(PUSH2), 0x42}
	res, _ := run(t, code, 100000, 0)
	require.Equal(t, vmtypes.Success, res.Status)
	assert.Equal(t, int64(100000-3), res.GasLeft)
}

func TestRunCallDataEcho(t *testing.T) {
	// CALLDATACOPY the input into memory and return it.
	code := []byte{
		byte(CALLDATASIZE),
		byte(PUSH1), 0x00,
		byte(PUSH1), 0x00,
		byte(CALLDATACOPY),
		byte(CALLDATASIZE),
		byte(PUSH1), 0x00,
		byte(RETURN),
	}
	vm := New()
	defer vm.Destroy()
	input := []byte{0xde, 0xad, 0xbe, 0xef}
	msg := &vmtypes.Message{Gas: 100000, Input: input}
	res := vm.Execute(host.NewRecorder(nil), vmtypes.AionV1, msg, code)
	require.Equal(t, vmtypes.Success, res.Status)
	assert.Equal(t, input, res.Output)
}

func TestRunCreateClearsInput(t *testing.T) {
	// Init code observes no call data even when the message carries the
	// init code in Input.
	code := []byte{
		byte(CALLDATASIZE),
		byte(PUSH1), 0x00,
		byte(MSTORE),
		byte(PUSH1), 0x20,
		byte(PUSH1), 0x00,
		byte(RETURN),
	}
	vm := New()
	defer vm.Destroy()
	msg := &vmtypes.Message{Gas: 100000, Input: code, Kind: vmtypes.Create}
	res := vm.Execute(host.NewRecorder(nil), vmtypes.AionV1, msg, code)
	require.Equal(t, vmtypes.Success, res.Status)
	assert.Equal(t, vmtypes.Word{}, vmtypes.WordFromBytes(res.Output))
}
