package fastvm

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/aion-camus/aionr-arm/log"
	"github.com/aion-camus/aionr-arm/vmtypes"
)

// CallDepthLimit bounds call nesting. A call issued at this depth fails
// locally without consulting the host.
const CallDepthLimit = 1024

// Contract is the per-frame execution scope: the running account, its
// code and input, and the gas it still holds.
type Contract struct {
	self   vmtypes.Address
	caller vmtypes.Address
	value  uint256.Int

	Code  []byte
	Input []byte
	Gas   uint64

	analysis bitvec
}

func (c *Contract) Address() vmtypes.Address {
	return c.self
}

func (c *Contract) Caller() vmtypes.Address {
	return c.caller
}

// GetOp fetches the opcode at pc; past the end of code every byte
// reads as STOP.
func (c *Contract) GetOp(pc uint64) OpCode {
	if pc < uint64(len(c.Code)) {
		return OpCode(c.Code[pc])
	}
	return STOP
}

// UseGas deducts amount, reporting false the instant gas would go
// negative. The balance is left untouched on failure.
func (c *Contract) UseGas(amount uint64) bool {
	if c.Gas < amount {
		return false
	}
	c.Gas -= amount
	return true
}

// RefundGas credits back unconsumed callee gas.
func (c *Contract) RefundGas(amount uint64) {
	c.Gas += amount
}

func (c *Contract) validJumpdest(dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	if overflow || udest >= uint64(len(c.Code)) {
		return false
	}
	return c.analysis.validJumpdest(c.Code, udest)
}

// ScopeContext bundles the per-frame objects handed to every handler.
type ScopeContext struct {
	Memory   *Memory
	Stack    *Stack
	Contract *Contract
}

// Interpreter runs the fetch/decode/dispatch loop of one execution.
// One value is built per Execute call; nothing here is shared between
// concurrent executions except the engine's analysis cache.
type Interpreter struct {
	vm    *VM
	host  vmtypes.Host
	rev   vmtypes.Revision
	gs    gasSchedule
	table *JumpTable
	msg   *vmtypes.Message

	readOnly   bool
	returnData []byte

	// callGasTemp carries the forwarded-gas amount from the dynamic gas
	// calculation of a call opcode to its execution.
	callGasTemp uint64

	txCtx      vmtypes.TxContext
	txCtxKnown bool

	trace bool
}

// txContext fetches the transaction context from the host on first use
// and pins it for the rest of the execution.
func (in *Interpreter) txContext() *vmtypes.TxContext {
	if !in.txCtxKnown {
		in.txCtx = in.host.GetTxContext()
		in.txCtxKnown = true
	}
	return &in.txCtx
}

// Run executes the contract's code until it halts. The returned byte
// slice is the RETURN/REVERT payload; the error, if any, is one of the
// vmtypes sentinel errors and classifies the halt.
func (in *Interpreter) Run(contract *Contract) (ret []byte, err error) {
	var (
		op    OpCode
		mem   = newMemory()
		stack = newStack()
		scope = &ScopeContext{Memory: mem, Stack: stack, Contract: contract}
		pc    = uint64(0)
	)

	for {
		op = contract.GetOp(pc)
		operation := in.table[op]
		if !operation.valid {
			return nil, vmtypes.ErrBadInstruction
		}
		if sLen := stack.len(); sLen < operation.minStack {
			return nil, vmtypes.ErrStackUnderflow
		} else if sLen > operation.maxStack {
			return nil, vmtypes.ErrStackOverflow
		}
		// Static mode rejects every state mutation before any gas or
		// host interaction: writes, and CALL moving value.
		if in.readOnly {
			if operation.writes || (op == CALL && !stack.Back(2).IsZero()) {
				return nil, vmtypes.ErrStaticMode
			}
		}
		if in.trace {
			log.Trace(logModule, "step", "pc", pc, "op", op.String(), "gas", contract.Gas, "stack", stack.len())
		}
		if !contract.UseGas(operation.constantGas) {
			return nil, vmtypes.ErrOutOfGas
		}
		var memorySize uint64
		if operation.memorySize != nil {
			memSize, overflow := operation.memorySize(stack)
			if overflow {
				return nil, vmtypes.ErrOutOfGas
			}
			// Memory expands in words; overflow of the byte size means
			// the expansion could never be paid for.
			if memorySize, overflow = safeMul(toWordSize(memSize), 32); overflow {
				return nil, vmtypes.ErrOutOfGas
			}
		}
		if operation.dynamicGas != nil {
			dynamicCost, err := operation.dynamicGas(in, scope, memorySize)
			if err != nil {
				return nil, vmtypes.ErrOutOfGas
			}
			if !contract.UseGas(dynamicCost) {
				return nil, vmtypes.ErrOutOfGas
			}
		}
		if memorySize > 0 {
			mem.Resize(memorySize)
		}

		res, err := operation.execute(&pc, in, scope)
		if operation.returns {
			in.returnData = res
		}
		switch {
		case err != nil:
			return res, err
		case operation.halts:
			return res, nil
		case !operation.jumps:
			pc++
		}
	}
}

// statusOf maps a halt error to its wire status.
func statusOf(err error) vmtypes.StatusCode {
	switch {
	case err == nil:
		return vmtypes.Success
	case errors.Is(err, vmtypes.ErrRevert):
		return vmtypes.Revert
	case errors.Is(err, vmtypes.ErrOutOfGas):
		return vmtypes.OutOfGas
	case errors.Is(err, vmtypes.ErrBadInstruction):
		return vmtypes.BadInstruction
	case errors.Is(err, vmtypes.ErrBadJumpDestination):
		return vmtypes.BadJumpDestination
	case errors.Is(err, vmtypes.ErrStackOverflow):
		return vmtypes.StackOverflow
	case errors.Is(err, vmtypes.ErrStackUnderflow):
		return vmtypes.StackUnderflow
	case errors.Is(err, vmtypes.ErrStaticMode):
		return vmtypes.StaticModeError
	case errors.Is(err, vmtypes.ErrFailure):
		return vmtypes.Failure
	case errors.Is(err, vmtypes.ErrInternal):
		return vmtypes.InternalError
	}
	return vmtypes.Failure
}
