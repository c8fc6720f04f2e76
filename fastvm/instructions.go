package fastvm

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/aion-camus/aionr-arm/vmtypes"
)

func opAdd(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Add(&x, y)
	return nil, nil
}

func opSub(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Sub(&x, y)
	return nil, nil
}

func opMul(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Mul(&x, y)
	return nil, nil
}

func opDiv(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Div(&x, y)
	return nil, nil
}

func opSdiv(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.SDiv(&x, y)
	return nil, nil
}

func opMod(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Mod(&x, y)
	return nil, nil
}

func opSmod(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.SMod(&x, y)
	return nil, nil
}

func opAddmod(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y, z := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.peek()
	z.AddMod(&x, &y, z)
	return nil, nil
}

func opMulmod(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y, z := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.peek()
	z.MulMod(&x, &y, z)
	return nil, nil
}

func opExp(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	base, exponent := scope.Stack.pop(), scope.Stack.peek()
	exponent.Exp(&base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	back, num := scope.Stack.pop(), scope.Stack.peek()
	num.ExtendSign(num, &back)
	return nil, nil
}

func opLt(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIszero(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.And(&x, y)
	return nil, nil
}

func opOr(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Or(&x, y)
	return nil, nil
}

func opXor(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Xor(&x, y)
	return nil, nil
}

func opNot(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	th, val := scope.Stack.pop(), scope.Stack.peek()
	val.Byte(&th)
	return nil, nil
}

func opSha3(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.peek()
	data := scope.Memory.GetPtr(offset.Uint64(), size.Uint64())
	size.SetBytes(crypto.Keccak256(data))
	return nil, nil
}

func opAddress(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	addr := scope.Contract.Address()
	scope.Stack.push(new(uint256.Int).SetBytes(addr[:]))
	return nil, nil
}

func opBalance(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.peek()
	balance := in.host.GetBalance(vmtypes.WordFromUint256(slot).Address())
	slot.SetBytes(balance[:])
	return nil, nil
}

func opOrigin(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	origin := in.txContext().Origin
	scope.Stack.push(new(uint256.Int).SetBytes(origin[:]))
	return nil, nil
}

func opCaller(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	caller := scope.Contract.Caller()
	scope.Stack.push(new(uint256.Int).SetBytes(caller[:]))
	return nil, nil
}

func opCallValue(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).Set(&scope.Contract.value))
	return nil, nil
}

func opCallDataLoad(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	if offset, overflow := x.Uint64WithOverflow(); !overflow {
		data := getData(scope.Contract.Input, offset, 32)
		x.SetBytes(data)
	} else {
		x.Clear()
	}
	return nil, nil
}

func opCallDataSize(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(len(scope.Contract.Input))))
	return nil, nil
}

func opCallDataCopy(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	memOffset := scope.Stack.pop()
	dataOffset := scope.Stack.pop()
	length := scope.Stack.pop()

	dataOffset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		dataOffset64 = ^uint64(0)
	}
	// memorySize already validated these as uint64
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(),
		getData(scope.Contract.Input, dataOffset64, length.Uint64()))
	return nil, nil
}

func opReturnDataSize(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(len(in.returnData))))
	return nil, nil
}

func opReturnDataCopy(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	memOffset := scope.Stack.pop()
	dataOffset := scope.Stack.pop()
	length := scope.Stack.pop()

	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return nil, vmtypes.ErrFailure
	}
	end, overflow := safeAdd(offset64, length.Uint64())
	if overflow || end > uint64(len(in.returnData)) {
		// Reading past the return buffer is a hard failure, unlike the
		// zero-padded code and calldata reads.
		return nil, vmtypes.ErrFailure
	}
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), in.returnData[offset64:end])
	return nil, nil
}

func opCodeSize(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(len(scope.Contract.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	memOffset := scope.Stack.pop()
	codeOffset := scope.Stack.pop()
	length := scope.Stack.pop()

	offset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		offset64 = ^uint64(0)
	}
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(),
		getData(scope.Contract.Code, offset64, length.Uint64()))
	return nil, nil
}

func opExtCodeSize(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.peek()
	size := in.host.GetCodeSize(vmtypes.WordFromUint256(slot).Address())
	slot.SetUint64(uint64(size))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	a := scope.Stack.pop()
	memOffset := scope.Stack.pop()
	codeOffset := scope.Stack.pop()
	length := scope.Stack.pop()

	offset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		offset64 = ^uint64(0)
	}
	code := in.host.GetCode(vmtypes.WordFromUint256(&a).Address())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(),
		getData(code, offset64, length.Uint64()))
	return nil, nil
}

func opGasprice(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	price := in.txContext().GasPrice
	scope.Stack.push(new(uint256.Int).SetBytes(price[:]))
	return nil, nil
}

func opBlockhash(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	num := scope.Stack.peek()
	current := in.txContext().BlockNumber
	num64, overflow := num.Uint64WithOverflow()
	if overflow || current < 1 {
		num.Clear()
		return nil, nil
	}
	// Only the most recent 256 blocks are visible.
	lower := uint64(0)
	if current > 256 {
		lower = uint64(current) - 256
	}
	if num64 >= lower && num64 < uint64(current) {
		hash := in.host.GetBlockHash(int64(num64))
		num.SetBytes(hash[:])
	} else {
		num.Clear()
	}
	return nil, nil
}

func opCoinbase(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	coinbase := in.txContext().Coinbase
	scope.Stack.push(new(uint256.Int).SetBytes(coinbase[:]))
	return nil, nil
}

func opTimestamp(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(in.txContext().BlockTimestamp)))
	return nil, nil
}

func opNumber(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(in.txContext().BlockNumber)))
	return nil, nil
}

func opDifficulty(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	diff := in.txContext().BlockDifficulty
	scope.Stack.push(new(uint256.Int).SetBytes(diff[:]))
	return nil, nil
}

func opGasLimit(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(in.txContext().BlockGasLimit)))
	return nil, nil
}

func opPop(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.pop()
	return nil, nil
}

func opMload(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	v := scope.Stack.peek()
	offset := v.Uint64()
	v.SetBytes(scope.Memory.GetPtr(offset, 32))
	return nil, nil
}

func opMstore(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	mStart, val := scope.Stack.pop(), scope.Stack.pop()
	scope.Memory.Set32(mStart.Uint64(), &val)
	return nil, nil
}

func opMstore8(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	off, val := scope.Stack.pop(), scope.Stack.pop()
	scope.Memory.SetByte(off.Uint64(), byte(val.Uint64()))
	return nil, nil
}

func opSload(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	loc := scope.Stack.peek()
	val := in.host.GetStorage(scope.Contract.Address(), vmtypes.WordFromUint256(loc))
	loc.SetBytes(val[:])
	return nil, nil
}

func opSstore(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	loc, val := scope.Stack.pop(), scope.Stack.pop()
	in.host.SetStorage(scope.Contract.Address(),
		vmtypes.WordFromUint256(&loc), vmtypes.WordFromUint256(&val))
	return nil, nil
}

func opJump(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	pos := scope.Stack.pop()
	if !scope.Contract.validJumpdest(&pos) {
		return nil, vmtypes.ErrBadJumpDestination
	}
	*pc = pos.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	pos, cond := scope.Stack.pop(), scope.Stack.pop()
	if !cond.IsZero() {
		if !scope.Contract.validJumpdest(&pos) {
			return nil, vmtypes.ErrBadJumpDestination
		}
		*pc = pos.Uint64()
	} else {
		*pc++
	}
	return nil, nil
}

func opJumpdest(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opPc(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(*pc))
	return nil, nil
}

func opMsize(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(scope.Memory.Len())))
	return nil, nil
}

func opGas(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(scope.Contract.Gas))
	return nil, nil
}

// makePush reads size immediate bytes; reading past the end of code
// yields zero padding, never an error.
func makePush(size uint64) executionFunc {
	return func(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
		code := scope.Contract.Code
		start := *pc + 1
		end := start + size
		if start > uint64(len(code)) {
			start = uint64(len(code))
		}
		if end > uint64(len(code)) {
			end = uint64(len(code))
		}
		var val uint256.Int
		val.SetBytes(code[start:end])
		// Missing trailing bytes count as zeros on the right.
		if missing := size - (end - start); missing > 0 {
			val.Lsh(&val, uint(8*missing))
		}
		scope.Stack.push(&val)
		*pc += size
		return nil, nil
	}
}

func makeLog(topicCount int) executionFunc {
	return func(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
		mStart, mSize := scope.Stack.pop(), scope.Stack.pop()
		topics := make([]vmtypes.Hash, topicCount)
		for i := 0; i < topicCount; i++ {
			t := scope.Stack.pop()
			topics[i] = vmtypes.WordFromUint256(&t).Hash()
		}
		data := scope.Memory.GetCopy(mStart.Uint64(), mSize.Uint64())
		in.host.EmitLog(scope.Contract.Address(), data, topics)
		return nil, nil
	}
}

func opCreate(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	return in.opCreateImpl(scope)
}

func opCall(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	return in.opCallImpl(scope, vmtypes.Call)
}

func opCallCode(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	return in.opCallImpl(scope, vmtypes.CallCode)
}

func opDelegateCall(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	return in.opCallImpl(scope, vmtypes.DelegateCall)
}

func opStaticCall(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	return in.opStaticCallImpl(scope)
}

func opReturn(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.pop()
	return scope.Memory.GetCopy(offset.Uint64(), size.Uint64()), nil
}

func opRevert(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.pop()
	return scope.Memory.GetCopy(offset.Uint64(), size.Uint64()), vmtypes.ErrRevert
}

func opStop(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opSelfdestruct(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
	beneficiary := scope.Stack.pop()
	in.host.Selfdestruct(scope.Contract.Address(),
		vmtypes.WordFromUint256(&beneficiary).Address())
	// The host only marks the account; halting is on us via the halts flag.
	return nil, nil
}

// getData returns a size-long slice of data starting at start, padded
// with zeros when the read runs past the end.
func getData(data []byte, start uint64, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length {
		end = length
	}
	out := make([]byte, size)
	copy(out, data[start:end])
	return out
}
