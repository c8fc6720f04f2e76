package fastvm

import "github.com/aion-camus/aionr-arm/vmtypes"

// Gas cost tiers and operation prices. The schedule follows the
// Ethereum lineage: the Tangerine Whistle revision reprices external
// account access, Spurious Dragon reprices EXP.
const (
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20

	GasJumpdest uint64 = 1

	GasSha3     uint64 = 30
	GasSha3Word uint64 = 6
	GasCopyWord uint64 = 3

	GasMemoryWord     uint64 = 3
	GasQuadCoeffDiv   uint64 = 512
	GasLogBase        uint64 = 375
	GasLogTopic       uint64 = 375
	GasLogByte        uint64 = 8
	GasExpBase        uint64 = 10
	GasExpByte        uint64 = 10
	GasExpByteEIP160  uint64 = 50
	GasSloadFrontier  uint64 = 50
	GasSloadEIP150    uint64 = 200
	GasSstoreSet      uint64 = 20000
	GasSstoreReset    uint64 = 5000
	GasBalance        uint64 = 20
	GasBalanceEIP150  uint64 = 400
	GasExtcode        uint64 = 20
	GasExtcodeEIP150  uint64 = 700
	GasCall           uint64 = 40
	GasCallEIP150     uint64 = 700
	GasCallValue      uint64 = 9000
	GasCallStipend    uint64 = 2300
	GasCallNewAccount uint64 = 25000
	GasCreate         uint64 = 32000
	GasSelfdestruct   uint64 = 0
)

// gasSchedule carries the revision-dependent prices resolved once per
// execution, so the hot loop never branches on the revision.
type gasSchedule struct {
	sload   uint64
	balance uint64
	extcode uint64
	call    uint64
	expByte uint64
}

func scheduleForRevision(rev vmtypes.Revision) gasSchedule {
	gs := gasSchedule{
		sload:   GasSloadFrontier,
		balance: GasBalance,
		extcode: GasExtcode,
		call:    GasCall,
		expByte: GasExpByte,
	}
	if rev >= vmtypes.TangerineWhistle {
		gs.sload = GasSloadEIP150
		gs.balance = GasBalanceEIP150
		gs.extcode = GasExtcodeEIP150
		gs.call = GasCallEIP150
	}
	if rev >= vmtypes.SpuriousDragon {
		gs.expByte = GasExpByteEIP160
	}
	return gs
}

// memoryGasCost prices an expansion of memory to size bytes:
// 3 gas per 32-byte word plus a quadratic term words*words/512.
// The overflow guard rejects sizes whose cost cannot fit in uint64.
func memoryGasCost(mem *Memory, size uint64) (uint64, bool) {
	if size == 0 {
		return 0, true
	}
	// Cost arithmetic overflows beyond 2^32 words anyway; anything this
	// large is an immediate out-of-gas.
	if size > 0x1FFFFFFFE0 {
		return 0, false
	}
	words := toWordSize(size)
	newCost := GasMemoryWord*words + words*words/GasQuadCoeffDiv
	if newCost <= mem.lastGasCost {
		return 0, true
	}
	fee := newCost - mem.lastGasCost
	mem.lastGasCost = newCost
	return fee, true
}

// toWordSize rounds size up to 32-byte words.
func toWordSize(size uint64) uint64 {
	if size > (1<<64)-32 {
		return (1 << 59) // saturate; the caller's overflow check fires
	}
	return (size + 31) / 32
}

// safeAdd returns a+b and whether the sum overflowed.
func safeAdd(a, b uint64) (uint64, bool) {
	s := a + b
	return s, s < a
}

// safeMul returns a*b and whether the product overflowed.
func safeMul(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	p := a * b
	return p, p/b != a
}
