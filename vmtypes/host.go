package vmtypes

// Host is the capability set the engine calls into for everything that
// is not local to the running frame: storage, balances, other accounts'
// code, logs and nested calls.
//
// All operations are synchronous and, from the engine's point of view,
// always succeed: a host-side failure must be translated to a
// deterministic default (zero balance, absent account, zero hash) by
// the host itself. The engine never retains references into host memory
// past a callback's return, and the host must not retain references
// into Message or Result memory past the call that produced them.
//
// A Host value is owned by the call stack that created it and is not
// required to be safe for concurrent use; the engine treats it as a
// thread-affine handle. Balance reads performed by the call guards see
// whatever the host returns at call time, so the host is expected to
// serialize state access per execution context.
type Host interface {
	// AccountExists reports whether an account occupies addr.
	AccountExists(addr Address) bool

	// GetStorage reads the storage slot key of addr, zero if unset.
	GetStorage(addr Address, key Word) Word

	// SetStorage writes the storage slot key of addr.
	SetStorage(addr Address, key Word, value Word)

	// GetBalance returns the balance of addr, zero for absent accounts.
	GetBalance(addr Address) Word

	// GetCode returns the code deployed at addr, nil for none.
	GetCode(addr Address) []byte

	// GetCodeSize returns the size of the code at addr without
	// materializing the bytes.
	GetCodeSize(addr Address) int

	// Selfdestruct marks addr for removal, crediting its remaining
	// balance to beneficiary. It does not halt the caller; the engine
	// halts after invoking it.
	Selfdestruct(addr Address, beneficiary Address)

	// Call runs a nested call or create described by msg. The engine
	// fully initializes msg, including Depth = caller depth + 1; the
	// host must fully initialize every field of the returned Result.
	// The call is blocking and may re-enter the engine before returning.
	Call(msg Message) Result

	// EmitLog records a log entry of addr with 0 to 4 topics.
	EmitLog(addr Address, data []byte, topics []Hash)

	// GetTxContext returns the transaction and block context, constant
	// for the lifetime of the top-level execution.
	GetTxContext() TxContext

	// GetBlockHash returns the hash of the given block. Number is
	// expected to be within the most recent 256 blocks; outside that
	// window the behavior is host-defined, typically the zero hash.
	GetBlockHash(number int64) Hash
}
