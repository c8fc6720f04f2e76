package fastvm

import (
	"github.com/aion-camus/aionr-arm/vmtypes"
)

type (
	executionFunc func(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error)

	// gasFunc prices the dynamic portion of an operation, including any
	// memory expansion to memorySize. It runs after stack validation and
	// before execution, so it may inspect stack operands freely.
	gasFunc func(in *Interpreter, scope *ScopeContext, memorySize uint64) (uint64, error)

	// memorySizeFunc computes the highest memory byte an operation
	// touches. The overflow flag turns into OUT_OF_GAS.
	memorySizeFunc func(stack *Stack) (size uint64, overflow bool)
)

type operation struct {
	execute     executionFunc
	constantGas uint64
	dynamicGas  gasFunc
	memorySize  memorySizeFunc

	// minStack is the number of popped operands, maxStack the largest
	// stack length that still leaves room for the pushed results.
	minStack int
	maxStack int

	halts   bool // operation ends execution
	jumps   bool // operation sets the pc itself
	writes  bool // operation mutates state; forbidden in static mode
	reverts bool // operation reverts state (implicitly halts)
	returns bool // operation sets the return-data buffer
	valid   bool // operation exists in this revision
}

// JumpTable holds the 256 operation descriptors of one revision.
type JumpTable [256]operation

func minStack(pops, _ int) int {
	return pops
}

func maxStack(pops, pushes int) int {
	return StackLimit + pops - pushes
}

var jumpTables [int(vmtypes.LatestRevision) + 1]*JumpTable

func init() {
	for rev := vmtypes.Frontier; rev <= vmtypes.LatestRevision; rev++ {
		table := newInstructionSet(rev)
		jumpTables[rev] = &table
	}
}

// instructionSetForRevision returns the shared, immutable table for rev.
func instructionSetForRevision(rev vmtypes.Revision) *JumpTable {
	return jumpTables[rev]
}

// newInstructionSet builds the table for one revision: the frontier base,
// DELEGATECALL from Homestead, the Byzantium call/return-data group and
// the extended DUP/SWAP range from the Aion revision on. Tangerine and
// Spurious Dragon repricings are resolved through the gas schedule.
func newInstructionSet(rev vmtypes.Revision) JumpTable {
	gs := scheduleForRevision(rev)
	table := newFrontierInstructionSet(gs)

	if rev >= vmtypes.Homestead {
		table[DELEGATECALL] = operation{
			execute:     opDelegateCall,
			constantGas: gs.call,
			dynamicGas:  gasDelegateCall,
			memorySize:  memoryDelegateCall,
			minStack:    minStack(6, 1),
			maxStack:    maxStack(6, 1),
			returns:     true,
			valid:       true,
		}
	}
	if rev >= vmtypes.Byzantium {
		table[STATICCALL] = operation{
			execute:     opStaticCall,
			constantGas: gs.call,
			dynamicGas:  gasStaticCall,
			memorySize:  memoryStaticCall,
			minStack:    minStack(6, 1),
			maxStack:    maxStack(6, 1),
			returns:     true,
			valid:       true,
		}
		table[RETURNDATASIZE] = operation{
			execute:     opReturnDataSize,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		}
		table[RETURNDATACOPY] = operation{
			execute:     opReturnDataCopy,
			constantGas: GasFastestStep,
			dynamicGas:  gasCopy,
			memorySize:  memoryReturnDataCopy,
			minStack:    minStack(3, 0),
			maxStack:    maxStack(3, 0),
			valid:       true,
		}
		table[REVERT] = operation{
			execute:    opRevert,
			dynamicGas: gasMemoryOnly,
			memorySize: memoryReturn,
			minStack:   minStack(2, 0),
			maxStack:   maxStack(2, 0),
			reverts:    true,
			returns:    true,
			valid:      true,
		}
	}
	if rev >= vmtypes.Aion {
		for i := 0; i < 16; i++ {
			table[DUP17+OpCode(i)] = makeDup(17 + i)
			table[SWAP17+OpCode(i)] = makeSwap(17 + i)
		}
	}
	return table
}

func newFrontierInstructionSet(gs gasSchedule) JumpTable {
	table := JumpTable{
		STOP: {
			execute:  opStop,
			minStack: minStack(0, 0),
			maxStack: maxStack(0, 0),
			halts:    true,
			valid:    true,
		},
		ADD: {
			execute:     opAdd,
			constantGas: GasFastestStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		MUL: {
			execute:     opMul,
			constantGas: GasFastStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		SUB: {
			execute:     opSub,
			constantGas: GasFastestStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		DIV: {
			execute:     opDiv,
			constantGas: GasFastStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		SDIV: {
			execute:     opSdiv,
			constantGas: GasFastStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		MOD: {
			execute:     opMod,
			constantGas: GasFastStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		SMOD: {
			execute:     opSmod,
			constantGas: GasFastStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		ADDMOD: {
			execute:     opAddmod,
			constantGas: GasMidStep,
			minStack:    minStack(3, 1),
			maxStack:    maxStack(3, 1),
			valid:       true,
		},
		MULMOD: {
			execute:     opMulmod,
			constantGas: GasMidStep,
			minStack:    minStack(3, 1),
			maxStack:    maxStack(3, 1),
			valid:       true,
		},
		EXP: {
			execute:    opExp,
			dynamicGas: gasExp,
			minStack:   minStack(2, 1),
			maxStack:   maxStack(2, 1),
			valid:      true,
		},
		SIGNEXTEND: {
			execute:     opSignExtend,
			constantGas: GasFastStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		LT: {
			execute:     opLt,
			constantGas: GasFastestStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		GT: {
			execute:     opGt,
			constantGas: GasFastestStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		SLT: {
			execute:     opSlt,
			constantGas: GasFastestStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		SGT: {
			execute:     opSgt,
			constantGas: GasFastestStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		EQ: {
			execute:     opEq,
			constantGas: GasFastestStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		ISZERO: {
			execute:     opIszero,
			constantGas: GasFastestStep,
			minStack:    minStack(1, 1),
			maxStack:    maxStack(1, 1),
			valid:       true,
		},
		AND: {
			execute:     opAnd,
			constantGas: GasFastestStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		OR: {
			execute:     opOr,
			constantGas: GasFastestStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		XOR: {
			execute:     opXor,
			constantGas: GasFastestStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		NOT: {
			execute:     opNot,
			constantGas: GasFastestStep,
			minStack:    minStack(1, 1),
			maxStack:    maxStack(1, 1),
			valid:       true,
		},
		BYTE: {
			execute:     opByte,
			constantGas: GasFastestStep,
			minStack:    minStack(2, 1),
			maxStack:    maxStack(2, 1),
			valid:       true,
		},
		SHA3: {
			execute:    opSha3,
			dynamicGas: gasSha3,
			memorySize: memorySha3,
			minStack:   minStack(2, 1),
			maxStack:   maxStack(2, 1),
			valid:      true,
		},
		ADDRESS: {
			execute:     opAddress,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		BALANCE: {
			execute:     opBalance,
			constantGas: gs.balance,
			minStack:    minStack(1, 1),
			maxStack:    maxStack(1, 1),
			valid:       true,
		},
		ORIGIN: {
			execute:     opOrigin,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		CALLER: {
			execute:     opCaller,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		CALLVALUE: {
			execute:     opCallValue,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		CALLDATALOAD: {
			execute:     opCallDataLoad,
			constantGas: GasFastestStep,
			minStack:    minStack(1, 1),
			maxStack:    maxStack(1, 1),
			valid:       true,
		},
		CALLDATASIZE: {
			execute:     opCallDataSize,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		CALLDATACOPY: {
			execute:     opCallDataCopy,
			constantGas: GasFastestStep,
			dynamicGas:  gasCopy,
			memorySize:  memoryCallDataCopy,
			minStack:    minStack(3, 0),
			maxStack:    maxStack(3, 0),
			valid:       true,
		},
		CODESIZE: {
			execute:     opCodeSize,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		CODECOPY: {
			execute:     opCodeCopy,
			constantGas: GasFastestStep,
			dynamicGas:  gasCopy,
			memorySize:  memoryCodeCopy,
			minStack:    minStack(3, 0),
			maxStack:    maxStack(3, 0),
			valid:       true,
		},
		GASPRICE: {
			execute:     opGasprice,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		EXTCODESIZE: {
			execute:     opExtCodeSize,
			constantGas: gs.extcode,
			minStack:    minStack(1, 1),
			maxStack:    maxStack(1, 1),
			valid:       true,
		},
		EXTCODECOPY: {
			execute:     opExtCodeCopy,
			constantGas: gs.extcode,
			dynamicGas:  gasExtCodeCopy,
			memorySize:  memoryExtCodeCopy,
			minStack:    minStack(4, 0),
			maxStack:    maxStack(4, 0),
			valid:       true,
		},
		BLOCKHASH: {
			execute:     opBlockhash,
			constantGas: GasExtStep,
			minStack:    minStack(1, 1),
			maxStack:    maxStack(1, 1),
			valid:       true,
		},
		COINBASE: {
			execute:     opCoinbase,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		TIMESTAMP: {
			execute:     opTimestamp,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		NUMBER: {
			execute:     opNumber,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		DIFFICULTY: {
			execute:     opDifficulty,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		GASLIMIT: {
			execute:     opGasLimit,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		POP: {
			execute:     opPop,
			constantGas: GasQuickStep,
			minStack:    minStack(1, 0),
			maxStack:    maxStack(1, 0),
			valid:       true,
		},
		MLOAD: {
			execute:     opMload,
			constantGas: GasFastestStep,
			dynamicGas:  gasMemoryOnly,
			memorySize:  memoryMload,
			minStack:    minStack(1, 1),
			maxStack:    maxStack(1, 1),
			valid:       true,
		},
		MSTORE: {
			execute:     opMstore,
			constantGas: GasFastestStep,
			dynamicGas:  gasMemoryOnly,
			memorySize:  memoryMstore,
			minStack:    minStack(2, 0),
			maxStack:    maxStack(2, 0),
			valid:       true,
		},
		MSTORE8: {
			execute:     opMstore8,
			constantGas: GasFastestStep,
			dynamicGas:  gasMemoryOnly,
			memorySize:  memoryMstore8,
			minStack:    minStack(2, 0),
			maxStack:    maxStack(2, 0),
			valid:       true,
		},
		SLOAD: {
			execute:     opSload,
			constantGas: gs.sload,
			minStack:    minStack(1, 1),
			maxStack:    maxStack(1, 1),
			valid:       true,
		},
		SSTORE: {
			execute:    opSstore,
			dynamicGas: gasSstore,
			minStack:   minStack(2, 0),
			maxStack:   maxStack(2, 0),
			writes:     true,
			valid:      true,
		},
		JUMP: {
			execute:     opJump,
			constantGas: GasMidStep,
			minStack:    minStack(1, 0),
			maxStack:    maxStack(1, 0),
			jumps:       true,
			valid:       true,
		},
		JUMPI: {
			execute:     opJumpi,
			constantGas: GasSlowStep,
			minStack:    minStack(2, 0),
			maxStack:    maxStack(2, 0),
			jumps:       true,
			valid:       true,
		},
		PC: {
			execute:     opPc,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		MSIZE: {
			execute:     opMsize,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		GAS: {
			execute:     opGas,
			constantGas: GasQuickStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		},
		JUMPDEST: {
			execute:     opJumpdest,
			constantGas: GasJumpdest,
			minStack:    minStack(0, 0),
			maxStack:    maxStack(0, 0),
			valid:       true,
		},
		CREATE: {
			execute:     opCreate,
			constantGas: GasCreate,
			dynamicGas:  gasMemoryOnly,
			memorySize:  memoryCreate,
			minStack:    minStack(3, 1),
			maxStack:    maxStack(3, 1),
			writes:      true,
			returns:     true,
			valid:       true,
		},
		CALL: {
			execute:     opCall,
			constantGas: gs.call,
			dynamicGas:  gasCall,
			memorySize:  memoryCall,
			minStack:    minStack(7, 1),
			maxStack:    maxStack(7, 1),
			returns:     true,
			valid:       true,
		},
		CALLCODE: {
			execute:     opCallCode,
			constantGas: gs.call,
			dynamicGas:  gasCallCode,
			memorySize:  memoryCall,
			minStack:    minStack(7, 1),
			maxStack:    maxStack(7, 1),
			returns:     true,
			valid:       true,
		},
		RETURN: {
			execute:    opReturn,
			dynamicGas: gasMemoryOnly,
			memorySize: memoryReturn,
			minStack:   minStack(2, 0),
			maxStack:   maxStack(2, 0),
			halts:      true,
			valid:      true,
		},
		SELFDESTRUCT: {
			execute:     opSelfdestruct,
			constantGas: GasSelfdestruct,
			minStack:    minStack(1, 0),
			maxStack:    maxStack(1, 0),
			halts:       true,
			writes:      true,
			valid:       true,
		},
	}
	for i := 0; i < 32; i++ {
		table[PUSH1+OpCode(i)] = operation{
			execute:     makePush(uint64(i + 1)),
			constantGas: GasFastestStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
			valid:       true,
		}
	}
	for i := 0; i < 16; i++ {
		table[DUP1+OpCode(i)] = makeDup(1 + i)
		table[SWAP1+OpCode(i)] = makeSwap(1 + i)
	}
	for i := 0; i < 5; i++ {
		table[LOG0+OpCode(i)] = operation{
			execute:    makeLog(i),
			dynamicGas: makeGasLog(uint64(i)),
			memorySize: memoryLog,
			minStack:   minStack(2+i, 0),
			maxStack:   maxStack(2+i, 0),
			writes:     true,
			valid:      true,
		}
	}
	return table
}

func makeDup(n int) operation {
	return operation{
		execute: func(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
			scope.Stack.dup(n)
			return nil, nil
		},
		constantGas: GasFastestStep,
		minStack:    minStack(n, n+1),
		maxStack:    maxStack(n, n+1),
		valid:       true,
	}
}

func makeSwap(n int) operation {
	return operation{
		execute: func(pc *uint64, in *Interpreter, scope *ScopeContext) ([]byte, error) {
			scope.Stack.swap(n)
			return nil, nil
		},
		constantGas: GasFastestStep,
		minStack:    minStack(n+1, n+1),
		maxStack:    maxStack(n+1, n+1),
		valid:       true,
	}
}
