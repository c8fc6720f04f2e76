package vmtypes

// CallKind selects the call-like operation a Message describes.
// The values match the wire encoding of the C ABI.
type CallKind int32

const (
	Call         CallKind = 0
	DelegateCall CallKind = 1 // value field is ignored
	CallCode     CallKind = 2
	Create       CallKind = 3 // input carries init code, destination undefined
)

func (k CallKind) String() string {
	switch k {
	case Call:
		return "CALL"
	case DelegateCall:
		return "DELEGATECALL"
	case CallCode:
		return "CALLCODE"
	case Create:
		return "CREATE"
	}
	return "UNKNOWN"
}

// Flags is the bitset modifying call execution behavior.
type Flags uint32

const (
	// Static forbids any state-mutating operation for the whole subtree
	// of the call.
	Static Flags = 1
)

func (f Flags) IsStatic() bool {
	return f&Static != 0
}

// Message carries the parameters of one call or create invocation.
// The caller must fully initialize every field before dispatching it.
type Message struct {
	// Destination is the account whose code runs. Undefined for Create
	// until the callee returns the created address.
	Destination Address
	Sender      Address
	Value       Word

	// Input is the call data, or the init code for Create. Nil iff empty.
	Input []byte

	// CodeHash optionally identifies Destination's code. The zero hash
	// means unspecified; a non-zero hash keys the analysis cache.
	CodeHash Hash

	Gas   int64
	Depth int32
	Kind  CallKind
	Flags Flags
}

// IsStatic reports whether the message executes in static mode.
func (m *Message) IsStatic() bool {
	return m.Flags.IsStatic()
}

// TxContext is the transaction and block data for one top-level
// execution. Immutable once fetched; the engine pulls it lazily
// through the Host.
type TxContext struct {
	GasPrice        Word
	Origin          Address
	Coinbase        Address
	BlockNumber     int64
	BlockTimestamp  int64
	BlockGasLimit   int64
	BlockDifficulty Word
}
