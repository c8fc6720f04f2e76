package host

import (
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/aion-camus/aionr-arm/log"
	"github.com/aion-camus/aionr-arm/vmtypes"
)

// Key prefixes of the persisted world state.
const (
	prefixBalance = 'b'
	prefixCode    = 'c'
	prefixNonce   = 'n'
	prefixStorage = 's'
)

// DB persists a Memory world state in LevelDB so tooling can run
// stateful executions across invocations.
type DB struct {
	db *leveldb.DB
}

// OpenDB opens (or creates) the world-state database at path.
func OpenDB(path string) (*DB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func balanceKey(addr vmtypes.Address) []byte {
	return append([]byte{prefixBalance}, addr[:]...)
}

func codeKey(addr vmtypes.Address) []byte {
	return append([]byte{prefixCode}, addr[:]...)
}

func nonceKey(addr vmtypes.Address) []byte {
	return append([]byte{prefixNonce}, addr[:]...)
}

func storageKey(addr vmtypes.Address, slot vmtypes.Word) []byte {
	key := make([]byte, 0, 1+len(addr)+len(slot))
	key = append(key, prefixStorage)
	key = append(key, addr[:]...)
	return append(key, slot[:]...)
}

// Load materializes the persisted world state into a fresh Memory
// host wired to exec under rev.
func (d *DB) Load(exec Executor, rev vmtypes.Revision) (*Memory, error) {
	m := NewMemory(exec, rev)
	iter := d.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		key, value := iter.Key(), iter.Value()
		if len(key) < 1+32 {
			continue
		}
		var addr vmtypes.Address
		copy(addr[:], key[1:33])
		switch key[0] {
		case prefixBalance:
			m.account(addr).Balance = vmtypes.WordFromBytes(value)
		case prefixCode:
			m.account(addr).Code = append([]byte(nil), value...)
		case prefixNonce:
			if len(value) == 8 {
				m.account(addr).Nonce = binary.BigEndian.Uint64(value)
			}
		case prefixStorage:
			if len(key) == 1+32+32 {
				var slot vmtypes.Word
				copy(slot[:], key[33:])
				m.account(addr).Storage[slot] = vmtypes.WordFromBytes(value)
			}
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("loading state db: %w", err)
	}
	log.Debug(log.HostModule, "world state loaded", "accounts", len(m.accounts))
	return m, nil
}

// Save writes the Memory world state back, replacing every persisted
// record of the touched accounts.
func (d *DB) Save(m *Memory) error {
	batch := new(leveldb.Batch)
	for addr, acc := range m.accounts {
		// Drop stale storage rows before rewriting the account.
		iter := d.db.NewIterator(util.BytesPrefix(storageKey(addr, vmtypes.Word{})[:33]), nil)
		for iter.Next() {
			batch.Delete(append([]byte(nil), iter.Key()...))
		}
		iter.Release()

		if m.destructed[addr] {
			batch.Delete(balanceKey(addr))
			batch.Delete(codeKey(addr))
			batch.Delete(nonceKey(addr))
			continue
		}
		batch.Put(balanceKey(addr), acc.Balance[:])
		if len(acc.Code) > 0 {
			batch.Put(codeKey(addr), acc.Code)
		}
		var nonce [8]byte
		binary.BigEndian.PutUint64(nonce[:], acc.Nonce)
		batch.Put(nonceKey(addr), nonce[:])
		for slot, value := range acc.Storage {
			if value.IsZero() {
				continue
			}
			batch.Put(storageKey(addr, slot), value[:])
		}
	}
	if err := d.db.Write(batch, nil); err != nil {
		return fmt.Errorf("saving state db: %w", err)
	}
	return nil
}
