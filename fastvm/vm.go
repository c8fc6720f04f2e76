package fastvm

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/aion-camus/aionr-arm/log"
	"github.com/aion-camus/aionr-arm/vmtypes"
)

// ABIVersion tags the engine/host boundary implemented by this module.
const ABIVersion = 0

const logModule = "fastvm"

// DefaultAnalysisCacheSize is the number of code analyses retained
// between executions when no option overrides it.
const DefaultAnalysisCacheSize = 1024

// VM is a reusable engine handle. Executions carry no state across
// calls except the shared code-analysis cache, so one VM may serve
// many goroutines concurrently; option changes take effect for
// executions started after they are applied.
type VM struct {
	mu    sync.Mutex // guards cache and trace
	cache *analysisCache
	trace bool
}

// Option configures a VM at construction.
type Option func(*VM)

// WithAnalysisCacheSize sets the number of cached code analyses;
// 0 disables caching.
func WithAnalysisCacheSize(n int) Option {
	return func(vm *VM) {
		vm.cache = newAnalysisCache(n)
	}
}

// WithTrace enables per-instruction trace logging.
func WithTrace(enabled bool) Option {
	return func(vm *VM) {
		vm.trace = enabled
	}
}

// New creates an engine instance.
func New(opts ...Option) *VM {
	vm := &VM{cache: newAnalysisCache(DefaultAnalysisCacheSize)}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// SetOption applies a named option from the string ABI. Options are
// either applied or rejected with an error, never silently ignored.
func (vm *VM) SetOption(name, value string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	switch name {
	case "analysis-cache":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("option analysis-cache: invalid size %q", value)
		}
		vm.cache = newAnalysisCache(n)
		return nil
	case "trace":
		switch value {
		case "on", "true", "1":
			vm.trace = true
		case "off", "false", "0":
			vm.trace = false
		default:
			return fmt.Errorf("option trace: invalid value %q", value)
		}
		return nil
	}
	return fmt.Errorf("unknown option %q", name)
}

// Destroy releases the instance's resources. Idempotent; retained for
// symmetry with the C ABI descriptor.
func (vm *VM) Destroy() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.cache.purge()
}

// Execute runs code under msg's gas budget against the given host and
// revision and returns a fully-formed result. Domain halts (out of
// gas, bad jumps, reverts...) are reported through the result status,
// never as panics; an engine-internal panic is caught and surfaced as
// INTERNAL_ERROR. A request the engine will not run at all (negative
// gas, unsupported revision) is REJECTED without consuming gas.
func (vm *VM) Execute(host vmtypes.Host, rev vmtypes.Revision, msg *vmtypes.Message, code []byte) (result vmtypes.Result) {
	if host == nil || msg == nil {
		return vmtypes.ErrorResult(vmtypes.Rejected)
	}
	if !rev.Supported() || msg.Gas < 0 || msg.Depth < 0 {
		return vmtypes.ErrorResult(vmtypes.Rejected)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error(logModule, "execution panic", "err", r)
			result = vmtypes.ErrorResult(vmtypes.InternalError)
		}
	}()

	vm.mu.Lock()
	cache, trace := vm.cache, vm.trace
	vm.mu.Unlock()

	in := &Interpreter{
		vm:       vm,
		host:     host,
		rev:      rev,
		gs:       scheduleForRevision(rev),
		table:    instructionSetForRevision(rev),
		msg:      msg,
		readOnly: msg.IsStatic(),
		trace:    trace,
	}

	contract := &Contract{
		self:     msg.Destination,
		caller:   msg.Sender,
		value:    *msg.Value.Uint256(),
		Code:     code,
		Input:    msg.Input,
		Gas:      uint64(msg.Gas),
		analysis: cache.analyze(msg.CodeHash, code),
	}
	if msg.Kind == vmtypes.Create {
		// Init code runs with no call data of its own.
		contract.Input = nil
	}

	ret, err := in.Run(contract)
	status := statusOf(err)

	result = vmtypes.Result{Status: status}
	if status.KeepsGas() {
		result.GasLeft = int64(contract.Gas)
		result.Output = ret
	}
	if trace {
		log.Debug(logModule, "execution finished",
			"status", status.String(), "gasLeft", result.GasLeft, "outputLen", len(result.Output))
	}
	return result
}
