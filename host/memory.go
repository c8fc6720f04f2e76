// Package host provides reference implementations of the vmtypes.Host
// interface: an in-memory world state used by tests and tooling, a
// LevelDB persistence layer for it, and a recording wrapper for
// verifying engine/host interaction.
package host

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/aion-camus/aionr-arm/log"
	"github.com/aion-camus/aionr-arm/vmtypes"
)

// Executor runs bytecode on behalf of the host's nested calls. The
// fastvm.VM instance satisfies it.
type Executor interface {
	Execute(host vmtypes.Host, rev vmtypes.Revision, msg *vmtypes.Message, code []byte) vmtypes.Result
}

// CreateDataGas is charged per byte of deployed contract code.
const CreateDataGas = 200

// Account is one entry of the in-memory world state.
type Account struct {
	Balance vmtypes.Word
	Code    []byte
	Nonce   uint64
	Storage map[vmtypes.Word]vmtypes.Word
}

func newAccount() *Account {
	return &Account{Storage: make(map[vmtypes.Word]vmtypes.Word)}
}

func (a *Account) clone() *Account {
	cp := &Account{
		Balance: a.Balance,
		Code:    a.Code,
		Nonce:   a.Nonce,
		Storage: make(map[vmtypes.Word]vmtypes.Word, len(a.Storage)),
	}
	for k, v := range a.Storage {
		cp.Storage[k] = v
	}
	return cp
}

// LogEntry is one emitted log record.
type LogEntry struct {
	Address vmtypes.Address
	Topics  []vmtypes.Hash
	Data    []byte
}

// Memory is an in-memory world state implementing vmtypes.Host. It is
// owned by a single call stack and performs no internal locking; the
// engine treats it as a thread-affine handle.
type Memory struct {
	accounts    map[vmtypes.Address]*Account
	logs        []LogEntry
	destructed  map[vmtypes.Address]bool
	txCtx       vmtypes.TxContext
	blockHashes map[int64]vmtypes.Hash

	exec Executor
	rev  vmtypes.Revision

	// contexts tracks the storage-context account of each live frame,
	// so DELEGATECALL and CALLCODE can resolve where state lands.
	contexts []vmtypes.Address
}

// NewMemory creates an empty world state running nested calls through
// exec under the given revision.
func NewMemory(exec Executor, rev vmtypes.Revision) *Memory {
	return &Memory{
		accounts:    make(map[vmtypes.Address]*Account),
		destructed:  make(map[vmtypes.Address]bool),
		blockHashes: make(map[int64]vmtypes.Hash),
		exec:        exec,
		rev:         rev,
	}
}

func (m *Memory) account(addr vmtypes.Address) *Account {
	if acc, ok := m.accounts[addr]; ok {
		return acc
	}
	acc := newAccount()
	m.accounts[addr] = acc
	return acc
}

// SetBalance seeds an account balance.
func (m *Memory) SetBalance(addr vmtypes.Address, balance vmtypes.Word) {
	m.account(addr).Balance = balance
}

// SetCode deploys code at addr without running init code.
func (m *Memory) SetCode(addr vmtypes.Address, code []byte) {
	m.account(addr).Code = code
}

// SetTxContext installs the transaction/block context served to the
// engine.
func (m *Memory) SetTxContext(ctx vmtypes.TxContext) {
	m.txCtx = ctx
}

// SetBlockHash records a block hash for GetBlockHash lookups.
func (m *Memory) SetBlockHash(number int64, hash vmtypes.Hash) {
	m.blockHashes[number] = hash
}

// Logs returns every log emitted so far.
func (m *Memory) Logs() []LogEntry {
	return m.logs
}

// HasSelfdestructed reports whether addr was marked for removal.
func (m *Memory) HasSelfdestructed(addr vmtypes.Address) bool {
	return m.destructed[addr]
}

func (m *Memory) AccountExists(addr vmtypes.Address) bool {
	acc, ok := m.accounts[addr]
	if !ok {
		return false
	}
	return !acc.Balance.IsZero() || len(acc.Code) > 0 || acc.Nonce > 0
}

func (m *Memory) GetStorage(addr vmtypes.Address, key vmtypes.Word) vmtypes.Word {
	if acc, ok := m.accounts[addr]; ok {
		return acc.Storage[key]
	}
	return vmtypes.Word{}
}

func (m *Memory) SetStorage(addr vmtypes.Address, key vmtypes.Word, value vmtypes.Word) {
	m.account(addr).Storage[key] = value
}

func (m *Memory) GetBalance(addr vmtypes.Address) vmtypes.Word {
	if acc, ok := m.accounts[addr]; ok {
		return acc.Balance
	}
	return vmtypes.Word{}
}

func (m *Memory) GetCode(addr vmtypes.Address) []byte {
	if acc, ok := m.accounts[addr]; ok {
		return acc.Code
	}
	return nil
}

func (m *Memory) GetCodeSize(addr vmtypes.Address) int {
	if acc, ok := m.accounts[addr]; ok {
		return len(acc.Code)
	}
	return 0
}

func (m *Memory) Selfdestruct(addr vmtypes.Address, beneficiary vmtypes.Address) {
	m.destructed[addr] = true
	balance := m.GetBalance(addr)
	if !balance.IsZero() {
		m.addBalance(beneficiary, balance)
		m.account(addr).Balance = vmtypes.Word{}
	}
}

func (m *Memory) EmitLog(addr vmtypes.Address, data []byte, topics []vmtypes.Hash) {
	entry := LogEntry{
		Address: addr,
		Topics:  append([]vmtypes.Hash(nil), topics...),
		Data:    append([]byte(nil), data...),
	}
	m.logs = append(m.logs, entry)
}

func (m *Memory) GetTxContext() vmtypes.TxContext {
	return m.txCtx
}

func (m *Memory) GetBlockHash(number int64) vmtypes.Hash {
	return m.blockHashes[number]
}

// Execute runs a top-level message: resolves the code of the
// destination (or treats msg.Input as init code for Create) and
// dispatches through the same path nested calls take.
func (m *Memory) Execute(msg vmtypes.Message) vmtypes.Result {
	return m.Call(msg)
}

// Call dispatches a call or create. It snapshots the world state and
// rolls back on anything but success, preserving REVERT output.
func (m *Memory) Call(msg vmtypes.Message) vmtypes.Result {
	if m.exec == nil {
		return vmtypes.ErrorResult(vmtypes.Rejected)
	}
	if msg.Kind == vmtypes.Create {
		return m.create(msg)
	}

	snapshot := m.snapshot()
	logMark := len(m.logs)

	// Resolve storage context and the code to run by kind.
	context := msg.Destination
	code := m.GetCode(msg.Destination)
	switch msg.Kind {
	case vmtypes.CallCode:
		context = msg.Sender
	case vmtypes.DelegateCall:
		// The running frame keeps its caller's storage context.
		if n := len(m.contexts); n > 0 {
			context = m.contexts[n-1]
		} else {
			context = msg.Sender
		}
	default:
		if !msg.Value.IsZero() && !msg.IsStatic() {
			// Nested calls arrive pre-checked by the engine's balance
			// guard; top-level entries are checked here so an unfunded
			// sender cannot wrap its balance below zero.
			if !m.canTransfer(msg.Sender, msg.Value) {
				log.Debug(log.HostModule, "insufficient balance for transfer",
					"sender", msg.Sender.Hex())
				return vmtypes.ErrorResult(vmtypes.Failure)
			}
			m.transfer(msg.Sender, msg.Destination, msg.Value)
		}
	}

	run := msg
	run.Destination = context

	m.contexts = append(m.contexts, context)
	res := m.exec.Execute(m, m.rev, &run, code)
	m.contexts = m.contexts[:len(m.contexts)-1]

	if res.Status != vmtypes.Success {
		m.restore(snapshot)
		m.logs = m.logs[:logMark]
	}
	return res
}

// create derives the new account address from the sender and its
// nonce, runs the init code and deploys the returned output.
func (m *Memory) create(msg vmtypes.Message) vmtypes.Result {
	if !msg.Value.IsZero() && !m.canTransfer(msg.Sender, msg.Value) {
		log.Debug(log.HostModule, "insufficient balance for create",
			"sender", msg.Sender.Hex())
		return vmtypes.ErrorResult(vmtypes.Failure)
	}
	sender := m.account(msg.Sender)
	addr := CreateAddress(msg.Sender, sender.Nonce)
	sender.Nonce++

	snapshot := m.snapshot()
	logMark := len(m.logs)

	if !msg.Value.IsZero() {
		m.transfer(msg.Sender, addr, msg.Value)
	}

	run := msg
	run.Destination = addr
	initCode := msg.Input

	m.contexts = append(m.contexts, addr)
	res := m.exec.Execute(m, m.rev, &run, initCode)
	m.contexts = m.contexts[:len(m.contexts)-1]

	if res.Status == vmtypes.Success {
		deployGas := int64(len(res.Output)) * CreateDataGas
		if res.GasLeft < deployGas {
			log.Debug(log.HostModule, "create ran out of gas depositing code",
				"codeLen", len(res.Output), "gasLeft", res.GasLeft)
			m.restore(snapshot)
			m.logs = m.logs[:logMark]
			return vmtypes.ErrorResult(vmtypes.OutOfGas)
		}
		res.GasLeft -= deployGas
		m.account(addr).Code = append([]byte(nil), res.Output...)
		created := addr
		res.CreatedAddress = &created
		res.Output = nil
		return res
	}

	m.restore(snapshot)
	m.logs = m.logs[:logMark]
	return res
}

// canTransfer reports whether from can afford value.
func (m *Memory) canTransfer(from vmtypes.Address, value vmtypes.Word) bool {
	return !m.GetBalance(from).Uint256().Lt(value.Uint256())
}

func (m *Memory) transfer(from, to vmtypes.Address, value vmtypes.Word) {
	m.subBalance(from, value)
	m.addBalance(to, value)
}

func (m *Memory) addBalance(addr vmtypes.Address, value vmtypes.Word) {
	acc := m.account(addr)
	sum := new(uint256.Int).Add(acc.Balance.Uint256(), value.Uint256())
	acc.Balance = vmtypes.WordFromUint256(sum)
}

func (m *Memory) subBalance(addr vmtypes.Address, value vmtypes.Word) {
	acc := m.account(addr)
	diff := new(uint256.Int).Sub(acc.Balance.Uint256(), value.Uint256())
	acc.Balance = vmtypes.WordFromUint256(diff)
}

type worldSnapshot map[vmtypes.Address]*Account

func (m *Memory) snapshot() worldSnapshot {
	snap := make(worldSnapshot, len(m.accounts))
	for addr, acc := range m.accounts {
		snap[addr] = acc.clone()
	}
	return snap
}

func (m *Memory) restore(snap worldSnapshot) {
	m.accounts = make(map[vmtypes.Address]*Account, len(snap))
	for addr, acc := range snap {
		m.accounts[addr] = acc
	}
}

// CreateAddress derives the address of a contract created by sender at
// the given nonce. With 32-byte addresses the full Keccak digest is
// the address.
func CreateAddress(sender vmtypes.Address, nonce uint64) vmtypes.Address {
	var nonceBytes [8]byte
	for i := 0; i < 8; i++ {
		nonceBytes[7-i] = byte(nonce >> (8 * i))
	}
	digest := crypto.Keccak256(sender[:], nonceBytes[:])
	var addr vmtypes.Address
	copy(addr[:], digest)
	return addr
}
