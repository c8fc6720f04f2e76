package vmtypes

import "errors"

// StatusCode is the outcome classification of one execution.
// The values match the wire encoding of the C ABI.
type StatusCode int32

const (
	Success            StatusCode = 0
	Failure            StatusCode = 1
	OutOfGas           StatusCode = 2
	BadInstruction     StatusCode = 3
	BadJumpDestination StatusCode = 4
	StackOverflow      StatusCode = 5
	StackUnderflow     StatusCode = 6
	Revert             StatusCode = 7
	StaticModeError    StatusCode = 8

	// Rejected means the engine declined to run the request at all
	// (unsupported revision or code type). No gas is consumed and the
	// host may retry with a different engine.
	Rejected StatusCode = -1

	// InternalError signals an engine bug or resource exhaustion.
	// Non-retryable for this request.
	InternalError StatusCode = -2
)

// Domain halt errors. These are expected, deterministic outcomes of
// running untrusted bytecode, surfaced only through Result statuses.
var (
	ErrFailure            = errors.New("execution failed")
	ErrOutOfGas           = errors.New("out of gas")
	ErrBadInstruction     = errors.New("bad instruction")
	ErrBadJumpDestination = errors.New("bad jump destination")
	ErrStackOverflow      = errors.New("stack overflow")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrRevert             = errors.New("execution reverted")
	ErrStaticMode         = errors.New("state mutation in static mode")
	ErrRejected           = errors.New("execution rejected")
	ErrInternal           = errors.New("internal error")
)

func (s StatusCode) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case Failure:
		return "FAILURE"
	case OutOfGas:
		return "OUT_OF_GAS"
	case BadInstruction:
		return "BAD_INSTRUCTION"
	case BadJumpDestination:
		return "BAD_JUMP_DESTINATION"
	case StackOverflow:
		return "STACK_OVERFLOW"
	case StackUnderflow:
		return "STACK_UNDERFLOW"
	case Revert:
		return "REVERT"
	case StaticModeError:
		return "STATIC_MODE_ERROR"
	case Rejected:
		return "REJECTED"
	case InternalError:
		return "INTERNAL_ERROR"
	}
	return "UNKNOWN"
}

// Err maps the status to its sentinel error, nil for Success.
func (s StatusCode) Err() error {
	switch s {
	case Success:
		return nil
	case Failure:
		return ErrFailure
	case OutOfGas:
		return ErrOutOfGas
	case BadInstruction:
		return ErrBadInstruction
	case BadJumpDestination:
		return ErrBadJumpDestination
	case StackOverflow:
		return ErrStackOverflow
	case StackUnderflow:
		return ErrStackUnderflow
	case Revert:
		return ErrRevert
	case StaticModeError:
		return ErrStaticMode
	case Rejected:
		return ErrRejected
	case InternalError:
		return ErrInternal
	}
	return ErrInternal
}

// KeepsGas reports whether a result with this status is allowed to carry
// a non-zero gas_left. Every other status forces gas_left to 0.
func (s StatusCode) KeepsGas() bool {
	return s == Success || s == Revert
}
