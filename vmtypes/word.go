// Package vmtypes consolidates the fixed-width value types, call messages,
// results and the Host interface shared between the engine and its embedders.
package vmtypes

import (
	"encoding/hex"
	"math/big"

	"github.com/holiman/uint256"
)

// Hash is a big-endian 256-bit hash or integer value.
type Hash [32]byte

// Address is a 32-byte account identifier (public-key style addressing).
// Equality is byte-exact, no normalization.
type Address [32]byte

// Word is a big-endian 256-bit machine word: transaction values, storage
// slots and keys, stack items crossing the boundary.
type Word [32]byte

// HalfWord is the 128-bit big-endian form used on some ABI paths
// (balances, gas prices in the original wire format).
type HalfWord [16]byte

func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Word returns the address as a 256-bit word. Addresses are 32 bytes in
// this VM variant, so the mapping is the identity.
func (a Address) Word() Word {
	return Word(a)
}

func (w Word) IsZero() bool {
	return w == Word{}
}

func (w Word) Hex() string {
	return "0x" + hex.EncodeToString(w[:])
}

// Address reinterprets the word as an account address.
func (w Word) Address() Address {
	return Address(w)
}

// Hash reinterprets the word as a hash.
func (w Word) Hash() Hash {
	return Hash(w)
}

// Uint256 decodes the word as an unsigned big-endian integer.
func (w Word) Uint256() *uint256.Int {
	return new(uint256.Int).SetBytes(w[:])
}

// Big decodes the word as an unsigned big-endian integer.
func (w Word) Big() *big.Int {
	return new(big.Int).SetBytes(w[:])
}

// Half truncates the word to its low 128 bits. The second return reports
// whether the high 128 bits were non-zero and information was lost.
func (w Word) Half() (HalfWord, bool) {
	var h HalfWord
	copy(h[:], w[16:])
	lost := false
	for _, b := range w[:16] {
		if b != 0 {
			lost = true
			break
		}
	}
	return h, lost
}

// Word zero-extends the 128-bit form into a full word.
func (h HalfWord) Word() Word {
	var w Word
	copy(w[16:], h[:])
	return w
}

func (h HalfWord) IsZero() bool {
	return h == HalfWord{}
}

// WordFromUint256 encodes v as a big-endian word.
func WordFromUint256(v *uint256.Int) Word {
	return Word(v.Bytes32())
}

// WordFromUint64 encodes v as a big-endian word.
func WordFromUint64(v uint64) Word {
	var w Word
	w[24] = byte(v >> 56)
	w[25] = byte(v >> 48)
	w[26] = byte(v >> 40)
	w[27] = byte(v >> 32)
	w[28] = byte(v >> 24)
	w[29] = byte(v >> 16)
	w[30] = byte(v >> 8)
	w[31] = byte(v)
	return w
}

// WordFromBig encodes v as a big-endian word, truncating to 256 bits.
func WordFromBig(v *big.Int) Word {
	u, _ := uint256.FromBig(v)
	if u == nil {
		u = new(uint256.Int)
	}
	return WordFromUint256(u)
}

// WordFromBytes right-aligns b into a word, zero-padding on the left.
// Inputs longer than 32 bytes keep only the trailing 32.
func WordFromBytes(b []byte) Word {
	var w Word
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(w[32-len(b):], b)
	return w
}
