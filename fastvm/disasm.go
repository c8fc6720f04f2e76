package fastvm

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DisasmInstruction is one decoded instruction of a code blob.
type DisasmInstruction struct {
	PC      uint64
	Op      OpCode
	Operand []byte // PUSH immediate, possibly truncated by end of code
}

func (d DisasmInstruction) String() string {
	if len(d.Operand) > 0 {
		return fmt.Sprintf("%06x: %s 0x%s", d.PC, d.Op.String(), hex.EncodeToString(d.Operand))
	}
	return fmt.Sprintf("%06x: %s", d.PC, d.Op.String())
}

// DisassembleAll decodes code into its instruction sequence. PUSH
// operands truncated by the end of code are kept short, mirroring the
// zero-padded semantics of execution.
func DisassembleAll(code []byte) []DisasmInstruction {
	var out []DisasmInstruction
	for pc := uint64(0); pc < uint64(len(code)); {
		op := OpCode(code[pc])
		inst := DisasmInstruction{PC: pc, Op: op}
		pc++
		if n := uint64(op.PushSize()); n > 0 {
			end := pc + n
			if end > uint64(len(code)) {
				end = uint64(len(code))
			}
			inst.Operand = append([]byte(nil), code[pc:end]...)
			pc += n
		}
		out = append(out, inst)
	}
	return out
}

// Disassemble renders code as one instruction per line.
func Disassemble(code []byte) string {
	var sb strings.Builder
	for _, inst := range DisassembleAll(code) {
		sb.WriteString(inst.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
