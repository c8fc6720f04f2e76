package log

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// Module tags used across the repository.
const (
	EngineModule = "fastvm" // execution engine
	HostModule   = "host"   // reference host implementations
	CLIModule    = "fvm"    // command line tooling
)

var root atomic.Value

func init() {
	root.Store(NewLogger(DiscardHandler()))
	EnableModule(EngineModule)
	EnableModule(HostModule)
	EnableModule(CLIModule)
}

// InitLogger installs a stderr text handler at the given level name.
func InitLogger(logLevel string) error {
	lvl, err := ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	SetDefault(NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// SetDefault sets the global root logger.
func SetDefault(l Logger) {
	root.Store(l)
}

// Root returns the root logger.
func Root() Logger {
	return root.Load().(Logger)
}

// DiscardHandler returns a handler that drops every record.
func DiscardHandler() slog.Handler {
	return discardHandler{}
}

var (
	moduleMu      sync.RWMutex
	moduleEnabled = make(map[string]bool)
)

// EnableModule turns on Trace/Debug output for a module.
func EnableModule(module string) {
	moduleMu.Lock()
	moduleEnabled[module] = true
	moduleMu.Unlock()
}

// DisableModule mutes Trace/Debug output for a module. Info and above
// always pass.
func DisableModule(module string) {
	moduleMu.Lock()
	moduleEnabled[module] = false
	moduleMu.Unlock()
}

func isModuleEnabled(module string) bool {
	moduleMu.RLock()
	enabled, ok := moduleEnabled[module]
	moduleMu.RUnlock()
	return ok && enabled
}

// Trace logs at trace level, gated per module.
func Trace(module string, msg string, ctx ...interface{}) {
	if !isModuleEnabled(module) {
		return
	}
	Root().Write(LevelTrace, module, msg, ctx...)
}

// Debug logs at debug level, gated per module.
func Debug(module string, msg string, ctx ...interface{}) {
	if !isModuleEnabled(module) {
		return
	}
	Root().Write(LevelDebug, module, msg, ctx...)
}

func Info(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelInfo, module, msg, ctx...)
}

func Warn(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelWarn, module, msg, ctx...)
}

func Error(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelError, module, msg, ctx...)
}

// Crit logs at crit level and exits.
func Crit(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelCrit, module, msg, ctx...)
	os.Exit(1)
}

func New(ctx ...interface{}) Logger {
	return Root().With(ctx...)
}
