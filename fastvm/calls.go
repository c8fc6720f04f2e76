package fastvm

import (
	"github.com/holiman/uint256"

	"github.com/aion-camus/aionr-arm/log"
	"github.com/aion-camus/aionr-arm/vmtypes"
)

// callout applies the dispatch guard sequence and, only when every
// guard passes, hands msg to the host. The order is fixed: depth guard
// first, then the balance guard, both without consulting the host's
// call callback. A guard failure behaves like the callee returning
// failure with all forwarded gas retained by the caller.
func (in *Interpreter) callout(caller *Contract, msg vmtypes.Message, forwarded uint64) vmtypes.Result {
	if msg.Depth > CallDepthLimit {
		log.Debug(logModule, "call depth limit reached", "depth", msg.Depth, "kind", msg.Kind.String())
		return vmtypes.Result{Status: vmtypes.Failure, GasLeft: int64(forwarded)}
	}
	if msg.Kind != vmtypes.DelegateCall && !msg.Value.IsZero() {
		balance := in.host.GetBalance(caller.Address())
		if balance.Uint256().Lt(msg.Value.Uint256()) {
			log.Debug(logModule, "insufficient balance for transfer", "kind", msg.Kind.String())
			return vmtypes.Result{Status: vmtypes.Failure, GasLeft: int64(forwarded)}
		}
	}
	return in.host.Call(msg)
}

// opCallImpl executes CALL, CALLCODE and DELEGATECALL. The forwarded
// gas was resolved into callGasTemp by the dynamic gas step; the value
// stipend is added on top here.
func (in *Interpreter) opCallImpl(scope *ScopeContext, kind vmtypes.CallKind) ([]byte, error) {
	stack := scope.Stack
	// The requested gas is already folded into callGasTemp.
	stack.pop()
	addr := stack.pop()
	var value uint256.Int
	if kind == vmtypes.Call || kind == vmtypes.CallCode {
		value = stack.pop()
	}
	inOffset, inSize := stack.pop(), stack.pop()
	retOffset, retSize := stack.pop(), stack.pop()

	gas := in.callGasTemp
	if !value.IsZero() {
		// Free stipend for the callee of a value transfer.
		gas += GasCallStipend
	}
	args := scope.Memory.GetCopy(inOffset.Uint64(), inSize.Uint64())

	msg := vmtypes.Message{
		Destination: vmtypes.WordFromUint256(&addr).Address(),
		Sender:      scope.Contract.Address(),
		Value:       vmtypes.WordFromUint256(&value),
		Input:       args,
		Gas:         int64(gas),
		Depth:       in.msg.Depth + 1,
		Kind:        kind,
		Flags:       in.msg.Flags,
	}
	if kind == vmtypes.DelegateCall {
		// The frame keeps the caller's sender and apparent value.
		msg.Sender = scope.Contract.Caller()
		msg.Value = vmtypes.WordFromUint256(&scope.Contract.value)
	}

	res := in.callout(scope.Contract, msg, gas)
	ret := in.finishCall(scope, &res, retOffset.Uint64(), retSize.Uint64())

	if res.Status == vmtypes.Success {
		stack.push(new(uint256.Int).SetOne())
	} else {
		stack.push(new(uint256.Int))
	}
	return ret, nil
}

// opStaticCallImpl executes STATICCALL: a plain CALL without value,
// with the static flag forced on for the whole callee subtree.
func (in *Interpreter) opStaticCallImpl(scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	stack.pop() // requested gas, folded into callGasTemp
	addr := stack.pop()
	inOffset, inSize := stack.pop(), stack.pop()
	retOffset, retSize := stack.pop(), stack.pop()

	gas := in.callGasTemp
	args := scope.Memory.GetCopy(inOffset.Uint64(), inSize.Uint64())

	msg := vmtypes.Message{
		Destination: vmtypes.WordFromUint256(&addr).Address(),
		Sender:      scope.Contract.Address(),
		Input:       args,
		Gas:         int64(gas),
		Depth:       in.msg.Depth + 1,
		Kind:        vmtypes.Call,
		Flags:       in.msg.Flags | vmtypes.Static,
	}

	res := in.callout(scope.Contract, msg, gas)
	ret := in.finishCall(scope, &res, retOffset.Uint64(), retSize.Uint64())

	if res.Status == vmtypes.Success {
		stack.push(new(uint256.Int).SetOne())
	} else {
		stack.push(new(uint256.Int))
	}
	return ret, nil
}

// opCreateImpl executes CREATE. The init code runs in the nested frame;
// the host returns the created address through the result.
func (in *Interpreter) opCreateImpl(scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	value := stack.pop()
	offset, size := stack.pop(), stack.pop()
	initCode := scope.Memory.GetCopy(offset.Uint64(), size.Uint64())

	// CREATE forwards the whole remaining balance, minus the 64th the
	// caller retains from Tangerine Whistle on.
	gas := scope.Contract.Gas
	if in.rev >= vmtypes.TangerineWhistle {
		gas -= gas / 64
	}
	if !scope.Contract.UseGas(gas) {
		return nil, vmtypes.ErrOutOfGas
	}

	msg := vmtypes.Message{
		Sender: scope.Contract.Address(),
		Value:  vmtypes.WordFromUint256(&value),
		Input:  initCode,
		Gas:    int64(gas),
		Depth:  in.msg.Depth + 1,
		Kind:   vmtypes.Create,
		Flags:  in.msg.Flags,
	}

	res := in.callout(scope.Contract, msg, gas)

	var ret []byte
	if res.Status == vmtypes.Revert {
		// Init-code revert data is observable through RETURNDATACOPY.
		ret = append([]byte(nil), res.Output...)
	}
	scope.Contract.RefundGas(uint64(res.GasLeft))
	res.Free()

	if res.Status == vmtypes.Success && res.CreatedAddress != nil {
		stack.push(new(uint256.Int).SetBytes(res.CreatedAddress[:]))
	} else {
		stack.push(new(uint256.Int))
	}
	return ret, nil
}

// finishCall settles a call result against the caller's frame: copies
// the output into the designated memory region truncated to its size,
// credits back the callee's leftover gas and releases the result. The
// returned slice becomes the frame's return-data buffer; anything but
// SUCCESS or REVERT discards the output.
func (in *Interpreter) finishCall(scope *ScopeContext, res *vmtypes.Result, retOffset, retSize uint64) []byte {
	var ret []byte
	if res.Status == vmtypes.Success || res.Status == vmtypes.Revert {
		ret = append([]byte(nil), res.Output...)
		n := uint64(len(ret))
		if n > retSize {
			n = retSize
		}
		if n > 0 {
			scope.Memory.Set(retOffset, n, ret[:n])
		}
	}
	scope.Contract.RefundGas(uint64(res.GasLeft))
	res.Free()
	return ret
}
