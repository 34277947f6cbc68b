package wasmvm

import "context"

// RawModule is an opaque handle to a parsed-but-not-instantiated
// module, minted by an Engine. The zero value means "no handle".
// A RawModule must not be used after it has been passed to
// Engine.Instantiate or Engine.FreeModule.
type RawModule uint64

// RawInstance is an opaque handle to an instantiated module.
// The zero value means "no handle".
type RawInstance uint64

// ValueType identifies one of the four numeric wasm value types.
// The constants match the wasm binary encoding.
type ValueType byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c
)

// String returns the wat-style name of the value type.
func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	}
	return "unknown"
}

// FunctionType is a function signature in the module's type space.
type FunctionType struct {
	Params  []ValueType
	Results []ValueType
}

// ExecutionResult is the raw record an Engine produces for every call.
// HasValue is meaningful only when Trapped is false, and Value only
// when HasValue is true.
type ExecutionResult struct {
	Value    Value
	Trapped  bool
	HasValue bool
}

// HostFunction is a host-side function made importable during
// instantiation. Fn receives arguments already decoded into Value
// cells and reports its outcome as an ExecutionResult; a trapped
// result traps the calling guest.
type HostFunction struct {
	// Module and Name identify the import this function satisfies.
	Module string
	Name   string
	Type   FunctionType
	Fn     func(ctx context.Context, args []Value) ExecutionResult
}

// ExportedFunction describes one function export of a parsed module.
type ExportedFunction struct {
	Name  string
	Index uint32
	Type  FunctionType
}

// Engine is the fixed ABI of the underlying virtual machine. All
// calls are synchronous; a call runs to completion or traps, and no
// mechanism exists to abort one in flight.
//
// Handle discipline: every non-zero handle returned by Parse or
// Instantiate must be released exactly once, either through the
// matching Free call or, for modules, by passing it to Instantiate.
// Instantiate ALWAYS consumes the module handle, whether or not it
// succeeds; the caller must never free a module after passing it in.
type Engine interface {
	// Validate reports whether the engine accepts bytes as a valid
	// module. No resources are retained.
	Validate(ctx context.Context, wasm []byte) bool

	// Parse decodes and validates bytes, returning a fresh module
	// handle, or zero if the input is rejected. Validate and Parse
	// agree on acceptance for any input.
	Parse(ctx context.Context, wasm []byte) RawModule

	// FreeModule releases a module handle. Freeing the zero handle or
	// an already-consumed handle is a no-op.
	FreeModule(ctx context.Context, mod RawModule)

	// FunctionType returns the signature of the function at funcIndex
	// in the module's function index space.
	FunctionType(mod RawModule, funcIndex uint32) (FunctionType, bool)

	// FindExportedFunction resolves an export name to its function
	// index.
	FindExportedFunction(mod RawModule, name string) (uint32, bool)

	// ExportedFunctions lists the module's function exports.
	ExportedFunctions(mod RawModule) []ExportedFunction

	// Instantiate turns a module handle into a running instance,
	// resolving the module's imports against hosts. The module handle
	// is consumed unconditionally, even on failure.
	Instantiate(ctx context.Context, mod RawModule, hosts []HostFunction) (RawInstance, error)

	// FreeInstance releases an instance handle. Freeing the zero
	// handle is a no-op.
	FreeInstance(ctx context.Context, inst RawInstance)

	// Execute calls the function at funcIndex with args. The argument
	// count and per-slot interpretation must match the target
	// signature; the engine's behavior on mismatch or on an unknown
	// index is a trap, never a host-side error.
	Execute(ctx context.Context, inst RawInstance, funcIndex uint32, args []Value) ExecutionResult

	// InstanceFunctionType is FunctionType for a live instance.
	InstanceFunctionType(inst RawInstance, funcIndex uint32) (FunctionType, bool)

	// InstanceExportedFunction is FindExportedFunction for a live
	// instance.
	InstanceExportedFunction(inst RawInstance, name string) (uint32, bool)

	// MemorySize returns the instance's linear memory size in bytes,
	// or 0 if it has no memory.
	MemorySize(inst RawInstance) uint32

	// MemoryRead copies length bytes of linear memory at offset.
	MemoryRead(inst RawInstance, offset, length uint32) ([]byte, bool)

	// MemoryWrite copies data into linear memory at offset.
	MemoryWrite(inst RawInstance, offset uint32, data []byte) bool

	// Close releases the engine and every handle still alive in it.
	Close(ctx context.Context) error
}
