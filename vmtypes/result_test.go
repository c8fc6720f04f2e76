package vmtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultFree(t *testing.T) {
	released := 0
	res := Result{
		Status:  Success,
		Output:  []byte{1, 2, 3},
		Release: func() { released++ },
	}
	res.Free()
	res.Free()
	assert.Equal(t, 1, released)
	assert.Nil(t, res.Output)

	// Nil release is fine.
	plain := Result{Status: Success}
	plain.Free()
}

func TestErrorResult(t *testing.T) {
	res := ErrorResult(OutOfGas)
	assert.Equal(t, OutOfGas, res.Status)
	assert.Zero(t, res.GasLeft)
	assert.Nil(t, res.Output)

	// Statuses that carry gas need explicit accounting; building them
	// through ErrorResult degrades to a plain failure.
	assert.Equal(t, Failure, ErrorResult(Success).Status)
	assert.Equal(t, Failure, ErrorResult(Revert).Status)
}

func TestStatusCode(t *testing.T) {
	assert.True(t, Success.KeepsGas())
	assert.True(t, Revert.KeepsGas())
	for _, s := range []StatusCode{Failure, OutOfGas, BadInstruction,
		BadJumpDestination, StackOverflow, StackUnderflow,
		StaticModeError, Rejected, InternalError} {
		assert.False(t, s.KeepsGas(), s.String())
		assert.Error(t, s.Err(), s.String())
	}
	assert.NoError(t, Success.Err())
	assert.Equal(t, "OUT_OF_GAS", OutOfGas.String())
	assert.Equal(t, "REJECTED", Rejected.String())
}

func TestRevisionSupported(t *testing.T) {
	assert.True(t, Frontier.Supported())
	assert.True(t, AionV1.Supported())
	assert.False(t, Revision(-1).Supported())
	assert.False(t, (LatestRevision + 1).Supported())
}

func TestMessageStatic(t *testing.T) {
	msg := Message{}
	assert.False(t, msg.IsStatic())
	msg.Flags |= Static
	assert.True(t, msg.IsStatic())
}
