package host

import "github.com/aion-camus/aionr-arm/vmtypes"

// Recorder wraps a Host and counts every callback invocation. Tests
// use it to verify that dispatch guards fire before the host is
// consulted.
type Recorder struct {
	Inner vmtypes.Host

	AccountExistsCalls int
	GetStorageCalls    int
	SetStorageCalls    int
	GetBalanceCalls    int
	GetCodeCalls       int
	GetCodeSizeCalls   int
	SelfdestructCalls  int
	CallCalls          int
	EmitLogCalls       int
	GetTxContextCalls  int
	GetBlockHashCalls  int
}

// NewRecorder wraps inner; a nil inner yields deterministic defaults
// (absent accounts, zero balances) while still counting.
func NewRecorder(inner vmtypes.Host) *Recorder {
	return &Recorder{Inner: inner}
}

func (r *Recorder) AccountExists(addr vmtypes.Address) bool {
	r.AccountExistsCalls++
	if r.Inner == nil {
		return false
	}
	return r.Inner.AccountExists(addr)
}

func (r *Recorder) GetStorage(addr vmtypes.Address, key vmtypes.Word) vmtypes.Word {
	r.GetStorageCalls++
	if r.Inner == nil {
		return vmtypes.Word{}
	}
	return r.Inner.GetStorage(addr, key)
}

func (r *Recorder) SetStorage(addr vmtypes.Address, key vmtypes.Word, value vmtypes.Word) {
	r.SetStorageCalls++
	if r.Inner != nil {
		r.Inner.SetStorage(addr, key, value)
	}
}

func (r *Recorder) GetBalance(addr vmtypes.Address) vmtypes.Word {
	r.GetBalanceCalls++
	if r.Inner == nil {
		return vmtypes.Word{}
	}
	return r.Inner.GetBalance(addr)
}

func (r *Recorder) GetCode(addr vmtypes.Address) []byte {
	r.GetCodeCalls++
	if r.Inner == nil {
		return nil
	}
	return r.Inner.GetCode(addr)
}

func (r *Recorder) GetCodeSize(addr vmtypes.Address) int {
	r.GetCodeSizeCalls++
	if r.Inner == nil {
		return 0
	}
	return r.Inner.GetCodeSize(addr)
}

func (r *Recorder) Selfdestruct(addr vmtypes.Address, beneficiary vmtypes.Address) {
	r.SelfdestructCalls++
	if r.Inner != nil {
		r.Inner.Selfdestruct(addr, beneficiary)
	}
}

func (r *Recorder) Call(msg vmtypes.Message) vmtypes.Result {
	r.CallCalls++
	if r.Inner == nil {
		return vmtypes.ErrorResult(vmtypes.Failure)
	}
	return r.Inner.Call(msg)
}

func (r *Recorder) EmitLog(addr vmtypes.Address, data []byte, topics []vmtypes.Hash) {
	r.EmitLogCalls++
	if r.Inner != nil {
		r.Inner.EmitLog(addr, data, topics)
	}
}

func (r *Recorder) GetTxContext() vmtypes.TxContext {
	r.GetTxContextCalls++
	if r.Inner == nil {
		return vmtypes.TxContext{}
	}
	return r.Inner.GetTxContext()
}

func (r *Recorder) GetBlockHash(number int64) vmtypes.Hash {
	r.GetBlockHashCalls++
	if r.Inner == nil {
		return vmtypes.Hash{}
	}
	return r.Inner.GetBlockHash(number)
}

// MutationCalls sums every state-changing callback observed.
func (r *Recorder) MutationCalls() int {
	return r.SetStorageCalls + r.SelfdestructCalls + r.CallCalls + r.EmitLogCalls
}
