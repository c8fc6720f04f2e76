package fastvm

import (
	"github.com/holiman/uint256"

	"github.com/aion-camus/aionr-arm/vmtypes"
)

// calcMemSize64 resolves offset+length stack operands into the highest
// touched memory byte. A zero length never expands memory regardless of
// the offset.
func calcMemSize64(off, length *uint256.Int) (uint64, bool) {
	if length.IsZero() {
		return 0, false
	}
	if !off.IsUint64() || !length.IsUint64() {
		return 0, true
	}
	size, overflow := safeAdd(off.Uint64(), length.Uint64())
	return size, overflow
}

func memorySha3(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(1))
}

func memoryCallDataCopy(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(2))
}

func memoryReturnDataCopy(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(2))
}

func memoryCodeCopy(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(2))
}

func memoryExtCodeCopy(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(1), stack.Back(3))
}

func memoryMload(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), uint256.NewInt(32))
}

func memoryMstore(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), uint256.NewInt(32))
}

func memoryMstore8(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), uint256.NewInt(1))
}

func memoryCreate(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(1), stack.Back(2))
}

// memoryCall covers both the input and the output region of a CALL or
// CALLCODE: gas, addr, value, inOff, inLen, outOff, outLen.
func memoryCall(stack *Stack) (uint64, bool) {
	x, overflow := calcMemSize64(stack.Back(5), stack.Back(6))
	if overflow {
		return 0, true
	}
	y, overflow := calcMemSize64(stack.Back(3), stack.Back(4))
	if overflow {
		return 0, true
	}
	if x > y {
		return x, false
	}
	return y, false
}

// memoryDelegateCall is memoryCall without the value operand:
// gas, addr, inOff, inLen, outOff, outLen.
func memoryDelegateCall(stack *Stack) (uint64, bool) {
	x, overflow := calcMemSize64(stack.Back(4), stack.Back(5))
	if overflow {
		return 0, true
	}
	y, overflow := calcMemSize64(stack.Back(2), stack.Back(3))
	if overflow {
		return 0, true
	}
	if x > y {
		return x, false
	}
	return y, false
}

func memoryStaticCall(stack *Stack) (uint64, bool) {
	return memoryDelegateCall(stack)
}

func memoryReturn(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(1))
}

func memoryLog(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(1))
}

// gasMemoryOnly charges nothing beyond memory expansion.
func gasMemoryOnly(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	gas, ok := memoryGasCost(scope.Memory, memorySize)
	if !ok {
		return 0, vmtypes.ErrOutOfGas
	}
	return gas, nil
}

func gasSha3(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	gas, ok := memoryGasCost(scope.Memory, memorySize)
	if !ok {
		return 0, vmtypes.ErrOutOfGas
	}
	wordGas, overflow := safeMul(toWordSize(scope.Stack.Back(1).Uint64()), GasSha3Word)
	if overflow {
		return 0, vmtypes.ErrOutOfGas
	}
	if gas, overflow = safeAdd(gas, GasSha3+wordGas); overflow {
		return 0, vmtypes.ErrOutOfGas
	}
	return gas, nil
}

// gasCopy prices CALLDATACOPY, CODECOPY and RETURNDATACOPY: 3 gas per
// copied word on top of memory expansion. The length sits at stack
// position 2 for all three.
func gasCopy(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	gas, ok := memoryGasCost(scope.Memory, memorySize)
	if !ok {
		return 0, vmtypes.ErrOutOfGas
	}
	length := scope.Stack.Back(2)
	if !length.IsUint64() {
		return 0, vmtypes.ErrOutOfGas
	}
	wordGas, overflow := safeMul(toWordSize(length.Uint64()), GasCopyWord)
	if overflow {
		return 0, vmtypes.ErrOutOfGas
	}
	if gas, overflow = safeAdd(gas, wordGas); overflow {
		return 0, vmtypes.ErrOutOfGas
	}
	return gas, nil
}

func gasExtCodeCopy(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	gas, ok := memoryGasCost(scope.Memory, memorySize)
	if !ok {
		return 0, vmtypes.ErrOutOfGas
	}
	length := scope.Stack.Back(3)
	if !length.IsUint64() {
		return 0, vmtypes.ErrOutOfGas
	}
	wordGas, overflow := safeMul(toWordSize(length.Uint64()), GasCopyWord)
	if overflow {
		return 0, vmtypes.ErrOutOfGas
	}
	if gas, overflow = safeAdd(gas, wordGas); overflow {
		return 0, vmtypes.ErrOutOfGas
	}
	return gas, nil
}

func gasExp(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	expByteLen := uint64((scope.Stack.Back(1).BitLen() + 7) / 8)
	gas, overflow := safeMul(expByteLen, in.gs.expByte)
	if overflow {
		return 0, vmtypes.ErrOutOfGas
	}
	if gas, overflow = safeAdd(gas, GasExpBase); overflow {
		return 0, vmtypes.ErrOutOfGas
	}
	return gas, nil
}

// gasSstore applies the classic two-tier pricing: 20000 to fill an
// empty slot, 5000 otherwise. This ABI revision has no refund channel,
// so clearing a slot is priced as a plain reset.
func gasSstore(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	key := vmtypes.WordFromUint256(scope.Stack.Back(0))
	value := vmtypes.WordFromUint256(scope.Stack.Back(1))
	current := in.host.GetStorage(scope.Contract.Address(), key)
	if current.IsZero() && !value.IsZero() {
		return GasSstoreSet, nil
	}
	return GasSstoreReset, nil
}

func makeGasLog(n uint64) gasFunc {
	return func(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
		size, overflow := scope.Stack.Back(1).Uint64WithOverflow()
		if overflow {
			return 0, vmtypes.ErrOutOfGas
		}
		gas, ok := memoryGasCost(scope.Memory, memorySize)
		if !ok {
			return 0, vmtypes.ErrOutOfGas
		}
		if gas, overflow = safeAdd(gas, GasLogBase+GasLogTopic*n); overflow {
			return 0, vmtypes.ErrOutOfGas
		}
		byteGas, overflow := safeMul(size, GasLogByte)
		if overflow {
			return 0, vmtypes.ErrOutOfGas
		}
		if gas, overflow = safeAdd(gas, byteGas); overflow {
			return 0, vmtypes.ErrOutOfGas
		}
		return gas, nil
	}
}

// callGas resolves the gas forwarded to a callee. From Tangerine
// Whistle the caller always retains at least a 64th of its remaining
// gas; earlier revisions forward exactly what was requested.
func callGas(rev vmtypes.Revision, availableGas, base uint64, requested *uint256.Int) (uint64, error) {
	if rev >= vmtypes.TangerineWhistle {
		availableGas -= base
		gas := availableGas - availableGas/64
		if !requested.IsUint64() || gas < requested.Uint64() {
			return gas, nil
		}
	}
	if !requested.IsUint64() {
		return 0, vmtypes.ErrOutOfGas
	}
	return requested.Uint64(), nil
}

// gasCallVariant prices the shared portion of the call family and
// resolves the forwarded gas into in.callGasTemp. withValue enables the
// transfer and new-account surcharges (CALL), transferOnly just the
// transfer surcharge (CALLCODE).
func gasCallVariant(in *Interpreter, scope *ScopeContext, memorySize uint64, withValue, newAccount bool) (uint64, error) {
	memGas, ok := memoryGasCost(scope.Memory, memorySize)
	if !ok {
		return 0, vmtypes.ErrOutOfGas
	}
	gas := memGas
	var overflow bool
	if withValue && !scope.Stack.Back(2).IsZero() {
		if gas, overflow = safeAdd(gas, GasCallValue); overflow {
			return 0, vmtypes.ErrOutOfGas
		}
		if newAccount {
			dest := vmtypes.WordFromUint256(scope.Stack.Back(1)).Address()
			if !in.host.AccountExists(dest) {
				if gas, overflow = safeAdd(gas, GasCallNewAccount); overflow {
					return 0, vmtypes.ErrOutOfGas
				}
			}
		}
	}
	forwarded, err := callGas(in.rev, scope.Contract.Gas, gas, scope.Stack.Back(0))
	if err != nil {
		return 0, err
	}
	in.callGasTemp = forwarded
	if gas, overflow = safeAdd(gas, forwarded); overflow {
		return 0, vmtypes.ErrOutOfGas
	}
	return gas, nil
}

func gasCall(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	return gasCallVariant(in, scope, memorySize, true, true)
}

func gasCallCode(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	return gasCallVariant(in, scope, memorySize, true, false)
}

func gasDelegateCall(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	return gasCallVariant(in, scope, memorySize, false, false)
}

func gasStaticCall(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	return gasCallVariant(in, scope, memorySize, false, false)
}
