package fastvm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aion-camus/aionr-arm/host"
	"github.com/aion-camus/aionr-arm/vmtypes"
)

func TestSetOption(t *testing.T) {
	vm := New()
	defer vm.Destroy()

	assert.NoError(t, vm.SetOption("analysis-cache", "16"))
	assert.NoError(t, vm.SetOption("analysis-cache", "0"))
	assert.Error(t, vm.SetOption("analysis-cache", "-1"))
	assert.Error(t, vm.SetOption("analysis-cache", "many"))

	assert.NoError(t, vm.SetOption("trace", "on"))
	assert.True(t, vm.trace)
	assert.NoError(t, vm.SetOption("trace", "off"))
	assert.False(t, vm.trace)
	assert.Error(t, vm.SetOption("trace", "maybe"))

	// Unknown options are rejected, never silently accepted.
	assert.Error(t, vm.SetOption("no-such-option", "1"))
}

func TestExecuteRejected(t *testing.T) {
	vm := New()
	defer vm.Destroy()
	code := []byte{byte(STOP)}
	rec := host.NewRecorder(nil)

	res := vm.Execute(nil, vmtypes.AionV1, &vmtypes.Message{Gas: 100}, code)
	assert.Equal(t, vmtypes.Rejected, res.Status)

	res = vm.Execute(rec, vmtypes.AionV1, nil, code)
	assert.Equal(t, vmtypes.Rejected, res.Status)

	res = vm.Execute(rec, vmtypes.LatestRevision+1, &vmtypes.Message{Gas: 100}, code)
	assert.Equal(t, vmtypes.Rejected, res.Status)

	res = vm.Execute(rec, vmtypes.AionV1, &vmtypes.Message{Gas: -1}, code)
	assert.Equal(t, vmtypes.Rejected, res.Status)

	res = vm.Execute(rec, vmtypes.AionV1, &vmtypes.Message{Gas: 100, Depth: -1}, code)
	assert.Equal(t, vmtypes.Rejected, res.Status)

	// Rejection consumes nothing and reports no gas.
	assert.Zero(t, res.GasLeft)
	assert.Nil(t, res.Output)
}

func TestExecuteEmptyCode(t *testing.T) {
	vm := New()
	defer vm.Destroy()
	res := vm.Execute(host.NewRecorder(nil), vmtypes.AionV1, &vmtypes.Message{Gas: 500}, nil)
	assert.Equal(t, vmtypes.Success, res.Status)
	assert.Equal(t, int64(500), res.GasLeft)
	assert.Empty(t, res.Output)
}

func TestExecuteConcurrent(t *testing.T) {
	// One VM serves many goroutines; only the analysis cache is shared.
	vm := New(WithAnalysisCacheSize(8))
	defer vm.Destroy()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				msg := &vmtypes.Message{Gas: 100000, CodeHash: vmtypes.Hash{0x01}}
				res := vm.Execute(host.NewRecorder(nil), vmtypes.AionV1, msg, addProgram)
				if res.Status != vmtypes.Success {
					t.Errorf("status %s", res.Status)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSetOptionDuringExecution(t *testing.T) {
	// Option changes race against running executions only through the
	// mutex; executions snapshot the cache and trace flag at entry.
	vm := New()
	defer vm.Destroy()

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			_ = vm.SetOption("trace", "on")
			_ = vm.SetOption("analysis-cache", "4")
			_ = vm.SetOption("trace", "off")
		}
	}()
	for i := 0; i < 200; i++ {
		msg := &vmtypes.Message{Gas: 100000, CodeHash: vmtypes.Hash{0x02}}
		res := vm.Execute(host.NewRecorder(nil), vmtypes.AionV1, msg, addProgram)
		require.Equal(t, vmtypes.Success, res.Status)
	}
	close(done)
	wg.Wait()
}

func TestExecuteUsesRevisionTable(t *testing.T) {
	// REVERT does not exist before Byzantium.
	code := []byte{
		byte(PUSH1), 0x00,
		byte(PUSH1), 0x00,
		byte(REVERT),
	}
	vm := New()
	defer vm.Destroy()

	res := vm.Execute(host.NewRecorder(nil), vmtypes.Homestead, &vmtypes.Message{Gas: 100000}, code)
	assert.Equal(t, vmtypes.BadInstruction, res.Status)

	res = vm.Execute(host.NewRecorder(nil), vmtypes.Byzantium, &vmtypes.Message{Gas: 100000}, code)
	require.Equal(t, vmtypes.Revert, res.Status)
	assert.Equal(t, int64(100000-6), res.GasLeft)
}
