package fastvm

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aion-camus/aionr-arm/vmtypes"
)

// bitvec marks which bytes of a code blob are PUSH immediate data. A
// JUMP target is valid only when the byte is JUMPDEST and not marked.
type bitvec []byte

func (bits bitvec) set(pos uint64) {
	bits[pos/8] |= 1 << (pos % 8)
}

// codeSegment reports whether pos is an instruction boundary, i.e. not
// inside a PUSH operand.
func (bits bitvec) codeSegment(pos uint64) bool {
	return ((bits[pos/8] >> (pos % 8)) & 1) == 0
}

// codeAnalysis scans code once and marks every PUSH operand byte.
// Operands running past the end of code are trivially in bounds of the
// bit vector: the vector covers only real code bytes.
func codeAnalysis(code []byte) bitvec {
	bits := make(bitvec, len(code)/8+1)
	for pc := uint64(0); pc < uint64(len(code)); {
		op := OpCode(code[pc])
		pc++
		if n := op.PushSize(); n > 0 {
			for i := 0; i < n && pc < uint64(len(code)); i++ {
				bits.set(pc)
				pc++
			}
		}
	}
	return bits
}

// validJumpdest checks a jump target against code and its analysis.
func (bits bitvec) validJumpdest(code []byte, dest uint64) bool {
	if dest >= uint64(len(code)) {
		return false
	}
	return OpCode(code[dest]) == JUMPDEST && bits.codeSegment(dest)
}

// analysisCache memoizes code analyses by code hash. Entries are
// immutable once stored, so concurrent executions share them freely;
// the LRU provides its own synchronization and an entry is recomputed
// at worst once per eviction, never observed half-built.
type analysisCache struct {
	lru *lru.Cache[vmtypes.Hash, bitvec]
}

func newAnalysisCache(size int) *analysisCache {
	if size <= 0 {
		return &analysisCache{}
	}
	c, err := lru.New[vmtypes.Hash, bitvec](size)
	if err != nil {
		return &analysisCache{}
	}
	return &analysisCache{lru: c}
}

// analyze returns the analysis for code, consulting the cache when a
// non-zero code hash is available.
func (c *analysisCache) analyze(codeHash vmtypes.Hash, code []byte) bitvec {
	if c == nil || c.lru == nil || codeHash.IsZero() {
		return codeAnalysis(code)
	}
	if bits, ok := c.lru.Get(codeHash); ok {
		return bits
	}
	bits := codeAnalysis(code)
	c.lru.Add(codeHash, bits)
	return bits
}

func (c *analysisCache) purge() {
	if c != nil && c.lru != nil {
		c.lru.Purge()
	}
}
