// Package fastvm implements the bytecode execution engine: a jump-table
// interpreter with gas metering, jump-destination analysis and the
// call/create dispatch protocol over the vmtypes.Host boundary.
package fastvm

import "fmt"

// OpCode is a single byte of the instruction stream.
type OpCode byte

// 0x0 range - arithmetic ops.
const (
	STOP OpCode = iota
	ADD
	MUL
	SUB
	DIV
	SDIV
	MOD
	SMOD
	ADDMOD
	MULMOD
	EXP
	SIGNEXTEND
)

// 0x10 range - comparison and bitwise ops.
const (
	LT OpCode = iota + 0x10
	GT
	SLT
	SGT
	EQ
	ISZERO
	AND
	OR
	XOR
	NOT
	BYTE
)

// 0x20 range - crypto.
const (
	SHA3 OpCode = 0x20
)

// 0x30 range - execution context.
const (
	ADDRESS OpCode = iota + 0x30
	BALANCE
	ORIGIN
	CALLER
	CALLVALUE
	CALLDATALOAD
	CALLDATASIZE
	CALLDATACOPY
	CODESIZE
	CODECOPY
	GASPRICE
	EXTCODESIZE
	EXTCODECOPY
	RETURNDATASIZE
	RETURNDATACOPY
)

// 0x40 range - block context.
const (
	BLOCKHASH OpCode = iota + 0x40
	COINBASE
	TIMESTAMP
	NUMBER
	DIFFICULTY
	GASLIMIT
)

// 0x50 range - storage, memory and flow.
const (
	POP OpCode = iota + 0x50
	MLOAD
	MSTORE
	MSTORE8
	SLOAD
	SSTORE
	JUMP
	JUMPI
	PC
	MSIZE
	GAS
	JUMPDEST
)

// 0x60 range - pushes.
const (
	PUSH1 OpCode = iota + 0x60
	PUSH2
	PUSH3
	PUSH4
	PUSH5
	PUSH6
	PUSH7
	PUSH8
	PUSH9
	PUSH10
	PUSH11
	PUSH12
	PUSH13
	PUSH14
	PUSH15
	PUSH16
	PUSH17
	PUSH18
	PUSH19
	PUSH20
	PUSH21
	PUSH22
	PUSH23
	PUSH24
	PUSH25
	PUSH26
	PUSH27
	PUSH28
	PUSH29
	PUSH30
	PUSH31
	PUSH32
)

// 0x80 range - dups.
const (
	DUP1 OpCode = iota + 0x80
	DUP2
	DUP3
	DUP4
	DUP5
	DUP6
	DUP7
	DUP8
	DUP9
	DUP10
	DUP11
	DUP12
	DUP13
	DUP14
	DUP15
	DUP16
)

// 0x90 range - swaps.
const (
	SWAP1 OpCode = iota + 0x90
	SWAP2
	SWAP3
	SWAP4
	SWAP5
	SWAP6
	SWAP7
	SWAP8
	SWAP9
	SWAP10
	SWAP11
	SWAP12
	SWAP13
	SWAP14
	SWAP15
	SWAP16
)

// 0xa0 range - logging.
const (
	LOG0 OpCode = iota + 0xa0
	LOG1
	LOG2
	LOG3
	LOG4
)

// 0xb0 range - extended dups (32-byte address variant of the VM keeps
// whole addresses on single stack slots, so deep frames need them).
const (
	DUP17 OpCode = iota + 0xb0
	DUP18
	DUP19
	DUP20
	DUP21
	DUP22
	DUP23
	DUP24
	DUP25
	DUP26
	DUP27
	DUP28
	DUP29
	DUP30
	DUP31
	DUP32
)

// 0xc0 range - extended swaps.
const (
	SWAP17 OpCode = iota + 0xc0
	SWAP18
	SWAP19
	SWAP20
	SWAP21
	SWAP22
	SWAP23
	SWAP24
	SWAP25
	SWAP26
	SWAP27
	SWAP28
	SWAP29
	SWAP30
	SWAP31
	SWAP32
)

// 0xf0 range - closures.
const (
	CREATE       OpCode = 0xf0
	CALL         OpCode = 0xf1
	CALLCODE     OpCode = 0xf2
	RETURN       OpCode = 0xf3
	DELEGATECALL OpCode = 0xf4
	STATICCALL   OpCode = 0xfa
	REVERT       OpCode = 0xfd
	SELFDESTRUCT OpCode = 0xff
)

// IsPush reports whether op is one of PUSH1..PUSH32.
func (op OpCode) IsPush() bool {
	return op >= PUSH1 && op <= PUSH32
}

// PushSize returns the immediate operand width of a push, 0 otherwise.
func (op OpCode) PushSize() int {
	if !op.IsPush() {
		return 0
	}
	return int(op-PUSH1) + 1
}

var opCodeToString = map[OpCode]string{
	STOP:       "STOP",
	ADD:        "ADD",
	MUL:        "MUL",
	SUB:        "SUB",
	DIV:        "DIV",
	SDIV:       "SDIV",
	MOD:        "MOD",
	SMOD:       "SMOD",
	ADDMOD:     "ADDMOD",
	MULMOD:     "MULMOD",
	EXP:        "EXP",
	SIGNEXTEND: "SIGNEXTEND",

	LT:     "LT",
	GT:     "GT",
	SLT:    "SLT",
	SGT:    "SGT",
	EQ:     "EQ",
	ISZERO: "ISZERO",
	AND:    "AND",
	OR:     "OR",
	XOR:    "XOR",
	NOT:    "NOT",
	BYTE:   "BYTE",

	SHA3: "SHA3",

	ADDRESS:        "ADDRESS",
	BALANCE:        "BALANCE",
	ORIGIN:         "ORIGIN",
	CALLER:         "CALLER",
	CALLVALUE:      "CALLVALUE",
	CALLDATALOAD:   "CALLDATALOAD",
	CALLDATASIZE:   "CALLDATASIZE",
	CALLDATACOPY:   "CALLDATACOPY",
	CODESIZE:       "CODESIZE",
	CODECOPY:       "CODECOPY",
	GASPRICE:       "GASPRICE",
	EXTCODESIZE:    "EXTCODESIZE",
	EXTCODECOPY:    "EXTCODECOPY",
	RETURNDATASIZE: "RETURNDATASIZE",
	RETURNDATACOPY: "RETURNDATACOPY",

	BLOCKHASH:  "BLOCKHASH",
	COINBASE:   "COINBASE",
	TIMESTAMP:  "TIMESTAMP",
	NUMBER:     "NUMBER",
	DIFFICULTY: "DIFFICULTY",
	GASLIMIT:   "GASLIMIT",

	POP:      "POP",
	MLOAD:    "MLOAD",
	MSTORE:   "MSTORE",
	MSTORE8:  "MSTORE8",
	SLOAD:    "SLOAD",
	SSTORE:   "SSTORE",
	JUMP:     "JUMP",
	JUMPI:    "JUMPI",
	PC:       "PC",
	MSIZE:    "MSIZE",
	GAS:      "GAS",
	JUMPDEST: "JUMPDEST",

	CREATE:       "CREATE",
	CALL:         "CALL",
	CALLCODE:     "CALLCODE",
	RETURN:       "RETURN",
	DELEGATECALL: "DELEGATECALL",
	STATICCALL:   "STATICCALL",
	REVERT:       "REVERT",
	SELFDESTRUCT: "SELFDESTRUCT",
}

func init() {
	for i := 0; i < 32; i++ {
		opCodeToString[PUSH1+OpCode(i)] = fmt.Sprintf("PUSH%d", i+1)
	}
	for i := 0; i < 16; i++ {
		opCodeToString[DUP1+OpCode(i)] = fmt.Sprintf("DUP%d", i+1)
		opCodeToString[SWAP1+OpCode(i)] = fmt.Sprintf("SWAP%d", i+1)
		opCodeToString[DUP17+OpCode(i)] = fmt.Sprintf("DUP%d", i+17)
		opCodeToString[SWAP17+OpCode(i)] = fmt.Sprintf("SWAP%d", i+17)
	}
	for i := 0; i < 5; i++ {
		opCodeToString[LOG0+OpCode(i)] = fmt.Sprintf("LOG%d", i)
	}
	for op, name := range opCodeToString {
		stringToOpCode[name] = op
	}
}

var stringToOpCode = make(map[string]OpCode)

func (op OpCode) String() string {
	if s, ok := opCodeToString[op]; ok {
		return s
	}
	return fmt.Sprintf("opcode 0x%x not defined", int(op))
}

// StringToOp finds the opcode whose name matches s.
func StringToOp(s string) (OpCode, bool) {
	op, ok := stringToOpCode[s]
	return op, ok
}
