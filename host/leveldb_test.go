package host

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aion-camus/aionr-arm/fastvm"
	"github.com/aion-camus/aionr-arm/vmtypes"
)

func TestDBSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	db, err := OpenDB(path)
	require.NoError(t, err)

	vm := fastvm.New()
	defer vm.Destroy()

	world := NewMemory(vm, vmtypes.AionV1)
	a := addr(1)
	world.SetBalance(a, vmtypes.WordFromUint64(777))
	world.SetCode(a, []byte{0x60, 0x01})
	world.SetStorage(a, vmtypes.WordFromUint64(5), vmtypes.WordFromUint64(9))
	world.account(a).Nonce = 3

	require.NoError(t, db.Save(world))
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	loaded, err := db.Load(vm, vmtypes.AionV1)
	require.NoError(t, err)
	assert.Equal(t, vmtypes.WordFromUint64(777), loaded.GetBalance(a))
	assert.Equal(t, []byte{0x60, 0x01}, loaded.GetCode(a))
	assert.Equal(t, vmtypes.WordFromUint64(9), loaded.GetStorage(a, vmtypes.WordFromUint64(5)))
	assert.Equal(t, uint64(3), loaded.account(a).Nonce)
}

func TestDBSaveDropsZeroSlotsAndDestructed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	vm := fastvm.New()
	defer vm.Destroy()

	world := NewMemory(vm, vmtypes.AionV1)
	a, b := addr(1), addr(2)
	world.SetBalance(a, vmtypes.WordFromUint64(10))
	world.SetStorage(a, vmtypes.WordFromUint64(1), vmtypes.WordFromUint64(2))
	require.NoError(t, db.Save(world))

	// Clearing the slot and destroying b must erase their records.
	world.SetStorage(a, vmtypes.WordFromUint64(1), vmtypes.Word{})
	world.SetBalance(b, vmtypes.WordFromUint64(5))
	world.Selfdestruct(b, a)
	require.NoError(t, db.Save(world))

	loaded, err := db.Load(vm, vmtypes.AionV1)
	require.NoError(t, err)
	assert.Equal(t, vmtypes.Word{}, loaded.GetStorage(a, vmtypes.WordFromUint64(1)))
	assert.False(t, loaded.AccountExists(b))
	assert.Equal(t, vmtypes.WordFromUint64(15), loaded.GetBalance(a),
		"destructed balance was moved before saving")
}

func TestDBStatefulExecution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	vm := fastvm.New()
	defer vm.Destroy()

	// First run stores a value, second run reads it back after a full
	// save/load cycle.
	counter := addr(0xc0)
	world := NewMemory(vm, vmtypes.AionV1)
	world.SetCode(counter, []byte{
		byte(fastvm.PUSH1), 0x2a,
		byte(fastvm.PUSH1), 0x00,
		byte(fastvm.SSTORE),
	})
	res := world.Execute(vmtypes.Message{Destination: counter, Gas: 100000})
	require.Equal(t, vmtypes.Success, res.Status)
	require.NoError(t, db.Save(world))

	reloaded, err := db.Load(vm, vmtypes.AionV1)
	require.NoError(t, err)
	assert.Equal(t, vmtypes.WordFromUint64(0x2a),
		reloaded.GetStorage(counter, vmtypes.Word{}))
}
