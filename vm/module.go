package vm

import (
	"context"

	wasmvm "github.com/wavmlabs/wasmvm-go"
	"github.com/wavmlabs/wasmvm-go/errors"
)

// Module owns a parsed-but-not-instantiated module handle. It has
// exactly one state transition: Instantiate consumes it. A consumed
// or closed Module holds nothing and frees nothing.
type Module struct {
	rt       *Runtime
	raw      wasmvm.RawModule
	consumed bool
}

// Instantiate turns the Module into a running Instance with no host
// imports. See InstantiateWith.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	return m.InstantiateWith(ctx, nil)
}

// InstantiateWith turns the Module into a running Instance, resolving
// imports against hosts. The Module is consumed unconditionally: the
// engine takes ownership of the handle whether or not instantiation
// succeeds, so after this call the Module's own teardown is a no-op
// on both paths. Calling Instantiate a second time fails fast.
func (m *Module) InstantiateWith(ctx context.Context, hosts []wasmvm.HostFunction) (*Instance, error) {
	if m.consumed {
		return nil, errors.Consumed("module")
	}
	if m.raw == 0 {
		return nil, errors.Closed(errors.PhaseInstantiate, "module")
	}

	raw := m.raw
	// Ownership moves on the call itself. Clear our handle before
	// crossing so no path, including a failed instantiation, can lead
	// back to a second free.
	m.raw = 0
	m.consumed = true

	inst, err := m.rt.engine.Instantiate(ctx, raw, hosts)
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	return &Instance{rt: m.rt, raw: inst}, nil
}

// FunctionType returns the signature of the function at funcIndex.
// Only valid while the Module is live.
func (m *Module) FunctionType(funcIndex uint32) (wasmvm.FunctionType, bool) {
	if m.raw == 0 {
		return wasmvm.FunctionType{}, false
	}
	return m.rt.engine.FunctionType(m.raw, funcIndex)
}

// FindExportedFunction resolves an export name to its function index.
// Only valid while the Module is live.
func (m *Module) FindExportedFunction(name string) (uint32, bool) {
	if m.raw == 0 {
		return 0, false
	}
	return m.rt.engine.FindExportedFunction(m.raw, name)
}

// Exports lists the module's function exports in index order. Only
// valid while the Module is live.
func (m *Module) Exports() []wasmvm.ExportedFunction {
	if m.raw == 0 {
		return nil
	}
	return m.rt.engine.ExportedFunctions(m.raw)
}

// Close releases the underlying engine resource. It frees exactly
// once: closing twice, or closing after Instantiate, is a no-op.
func (m *Module) Close(ctx context.Context) error {
	if m.raw != 0 {
		m.rt.engine.FreeModule(ctx, m.raw)
		m.raw = 0
	}
	return nil
}
