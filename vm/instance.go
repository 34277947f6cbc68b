package vm

import (
	"context"

	wasmvm "github.com/wavmlabs/wasmvm-go"
	"github.com/wavmlabs/wasmvm-go/errors"
)

// Instance owns an instantiated, executable module handle. Created
// only by Module.Instantiate; released exactly once by Close.
type Instance struct {
	rt  *Runtime
	raw wasmvm.RawInstance
}

// Execute calls the function at funcIndex with args and decodes the
// raw result into an ExecutionOutcome.
//
// Execute is an unchecked operation: funcIndex must identify a
// callable function and args must match the target signature in count
// and per-slot interpretation. The wrapper performs no signature
// checking; violating the contract yields an engine-defined trap.
// Use Call for a checked entry point.
func (i *Instance) Execute(ctx context.Context, funcIndex uint32, args []wasmvm.Value) ExecutionOutcome {
	res := i.rt.engine.Execute(ctx, i.raw, funcIndex, args)
	return DecodeOutcome(res)
}

// Call resolves an exported function by name, verifies the argument
// count against its signature, and then executes it. Trap remains an
// outcome, not an error; the error return covers only host-side
// misuse detected before the boundary is crossed.
func (i *Instance) Call(ctx context.Context, name string, args ...wasmvm.Value) (ExecutionOutcome, error) {
	if i.raw == 0 {
		return ExecutionOutcome{}, errors.Closed(errors.PhaseExecute, "instance")
	}

	idx, ok := i.rt.engine.InstanceExportedFunction(i.raw, name)
	if !ok {
		return ExecutionOutcome{}, errors.NotFound(errors.PhaseExecute, "export", name)
	}

	ft, ok := i.rt.engine.InstanceFunctionType(i.raw, idx)
	if !ok {
		return ExecutionOutcome{}, errors.NotFound(errors.PhaseExecute, "function type for export", name)
	}
	if len(args) != len(ft.Params) {
		return ExecutionOutcome{}, errors.ArityMismatch(name, len(ft.Params), len(args))
	}

	return i.Execute(ctx, idx, args), nil
}

// FunctionType returns the signature of the function at funcIndex.
func (i *Instance) FunctionType(funcIndex uint32) (wasmvm.FunctionType, bool) {
	if i.raw == 0 {
		return wasmvm.FunctionType{}, false
	}
	return i.rt.engine.InstanceFunctionType(i.raw, funcIndex)
}

// FindExportedFunction resolves an export name to its function index.
func (i *Instance) FindExportedFunction(name string) (uint32, bool) {
	if i.raw == 0 {
		return 0, false
	}
	return i.rt.engine.InstanceExportedFunction(i.raw, name)
}

// MemorySize returns the instance's linear memory size in bytes, or
// 0 if the instance has no memory or is closed.
func (i *Instance) MemorySize() uint32 {
	if i.raw == 0 {
		return 0
	}
	return i.rt.engine.MemorySize(i.raw)
}

// MemoryRead copies length bytes of linear memory starting at offset.
func (i *Instance) MemoryRead(offset, length uint32) ([]byte, bool) {
	if i.raw == 0 {
		return nil, false
	}
	return i.rt.engine.MemoryRead(i.raw, offset, length)
}

// MemoryWrite copies data into linear memory starting at offset.
func (i *Instance) MemoryWrite(offset uint32, data []byte) bool {
	if i.raw == 0 {
		return false
	}
	return i.rt.engine.MemoryWrite(i.raw, offset, data)
}

// Close releases the underlying engine resource exactly once; a
// second Close is a no-op.
func (i *Instance) Close(ctx context.Context) error {
	if i.raw != 0 {
		i.rt.engine.FreeInstance(ctx, i.raw)
		i.raw = 0
	}
	return nil
}
