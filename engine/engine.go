package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	wasmvm "github.com/wavmlabs/wasmvm-go"
)

// Engine implements wasmvm.Engine using the wazero runtime.
type Engine struct {
	runtime   wazero.Runtime
	modules   *handleTable
	instances *handleTable
}

// Config holds configuration for engine creation.
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages
	// (64KB each). 0 means the wazero default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// New creates a new wazero-based engine.
func New(ctx context.Context) (*Engine, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates a new engine with custom configuration.
func NewWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	return &Engine{
		runtime:   wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		modules:   newHandleTable(),
		instances: newHandleTable(),
	}, nil
}

// exportInfo pairs an export name with its signature.
type exportInfo struct {
	name string
	typ  wasmvm.FunctionType
}

// moduleEntry is the engine-owned state behind a RawModule handle.
type moduleEntry struct {
	compiled wazero.CompiledModule
	byIndex  map[uint32]exportInfo
	byName   map[string]uint32
}

// instanceEntry is the engine-owned state behind a RawInstance handle.
// It owns the compiled module the instance was created from, plus any
// host modules instantiated for its imports.
type instanceEntry struct {
	compiled wazero.CompiledModule
	mod      api.Module
	hostMods []api.Module
	byIndex  map[uint32]exportInfo
	byName   map[string]uint32
}

// Validate reports whether the engine accepts wasm as a valid module.
func (e *Engine) Validate(ctx context.Context, wasm []byte) bool {
	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		Logger().Debug("validate rejected module", zap.Error(err))
		return false
	}
	_ = compiled.Close(ctx)
	return true
}

// Parse decodes and validates wasm, returning a module handle, or
// zero if the input is rejected.
func (e *Engine) Parse(ctx context.Context, wasm []byte) wasmvm.RawModule {
	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		Logger().Debug("parse rejected module", zap.Error(err))
		return 0
	}

	entry := &moduleEntry{
		compiled: compiled,
		byIndex:  make(map[uint32]exportInfo),
		byName:   make(map[string]uint32),
	}
	for name, def := range compiled.ExportedFunctions() {
		idx := def.Index()
		entry.byIndex[idx] = exportInfo{name: name, typ: functionType(def)}
		entry.byName[name] = idx
	}

	return wasmvm.RawModule(e.modules.insert(entry))
}

// FreeModule releases a module handle. A no-op for the zero handle
// and for handles already consumed by Instantiate.
func (e *Engine) FreeModule(ctx context.Context, mod wasmvm.RawModule) {
	v, ok := e.modules.remove(uint64(mod))
	if !ok {
		return
	}
	_ = v.(*moduleEntry).compiled.Close(ctx)
}

// FunctionType returns the signature of the function at funcIndex.
func (e *Engine) FunctionType(mod wasmvm.RawModule, funcIndex uint32) (wasmvm.FunctionType, bool) {
	v, ok := e.modules.get(uint64(mod))
	if !ok {
		return wasmvm.FunctionType{}, false
	}
	info, ok := v.(*moduleEntry).byIndex[funcIndex]
	if !ok {
		return wasmvm.FunctionType{}, false
	}
	return info.typ, true
}

// FindExportedFunction resolves an export name to its function index.
func (e *Engine) FindExportedFunction(mod wasmvm.RawModule, name string) (uint32, bool) {
	v, ok := e.modules.get(uint64(mod))
	if !ok {
		return 0, false
	}
	idx, ok := v.(*moduleEntry).byName[name]
	return idx, ok
}

// ExportedFunctions lists the module's function exports in index order.
func (e *Engine) ExportedFunctions(mod wasmvm.RawModule) []wasmvm.ExportedFunction {
	v, ok := e.modules.get(uint64(mod))
	if !ok {
		return nil
	}
	return listExports(v.(*moduleEntry).byIndex)
}

// Instantiate turns a module handle into a running instance. The
// module handle is consumed unconditionally, even on failure: the
// entry is removed from the table before any fallible work happens,
// so a later FreeModule on the same handle is a no-op.
func (e *Engine) Instantiate(ctx context.Context, mod wasmvm.RawModule, hosts []wasmvm.HostFunction) (wasmvm.RawInstance, error) {
	v, ok := e.modules.remove(uint64(mod))
	if !ok {
		return 0, fmt.Errorf("unknown module handle %d", mod)
	}
	entry := v.(*moduleEntry)

	hostMods, err := e.instantiateHosts(ctx, hosts)
	if err != nil {
		_ = entry.compiled.Close(ctx)
		return 0, err
	}

	// Anonymous name allows parallel instantiation of one module's
	// siblings; start functions are not invoked implicitly.
	modConfig := wazero.NewModuleConfig().WithName("").WithStartFunctions()
	instance, err := e.runtime.InstantiateModule(ctx, entry.compiled, modConfig)
	if err != nil {
		closeAll(ctx, hostMods)
		_ = entry.compiled.Close(ctx)
		return 0, err
	}

	return wasmvm.RawInstance(e.instances.insert(&instanceEntry{
		compiled: entry.compiled,
		mod:      instance,
		hostMods: hostMods,
		byIndex:  entry.byIndex,
		byName:   entry.byName,
	})), nil
}

// FreeInstance releases an instance handle. A no-op for the zero
// handle and for handles already freed.
func (e *Engine) FreeInstance(ctx context.Context, inst wasmvm.RawInstance) {
	v, ok := e.instances.remove(uint64(inst))
	if !ok {
		return
	}
	entry := v.(*instanceEntry)
	_ = entry.mod.Close(ctx)
	closeAll(ctx, entry.hostMods)
	_ = entry.compiled.Close(ctx)
}

// Execute calls the function at funcIndex with args. Every failure
// mode inside the engine, including an unknown index, an unknown
// handle, or a signature mismatch, surfaces as a trapped result.
func (e *Engine) Execute(ctx context.Context, inst wasmvm.RawInstance, funcIndex uint32, args []wasmvm.Value) wasmvm.ExecutionResult {
	v, ok := e.instances.get(uint64(inst))
	if !ok {
		return wasmvm.ExecutionResult{Trapped: true}
	}
	entry := v.(*instanceEntry)

	info, ok := entry.byIndex[funcIndex]
	if !ok {
		Logger().Debug("execute: function index not callable", zap.Uint32("index", funcIndex))
		return wasmvm.ExecutionResult{Trapped: true}
	}

	fn := entry.mod.ExportedFunction(info.name)
	if fn == nil {
		return wasmvm.ExecutionResult{Trapped: true}
	}

	stack := make([]uint64, len(args))
	for i, a := range args {
		stack[i] = a.Bits()
	}

	results, err := fn.Call(ctx, stack...)
	if err != nil {
		Logger().Debug("execute trapped",
			zap.String("func", info.name),
			zap.Uint32("index", funcIndex),
			zap.Error(err))
		return wasmvm.ExecutionResult{Trapped: true}
	}

	if len(results) == 0 {
		return wasmvm.ExecutionResult{}
	}
	return wasmvm.ExecutionResult{
		HasValue: true,
		Value:    wasmvm.FromBits(results[0]),
	}
}

// InstanceFunctionType returns the signature of the function at
// funcIndex in a live instance.
func (e *Engine) InstanceFunctionType(inst wasmvm.RawInstance, funcIndex uint32) (wasmvm.FunctionType, bool) {
	v, ok := e.instances.get(uint64(inst))
	if !ok {
		return wasmvm.FunctionType{}, false
	}
	info, ok := v.(*instanceEntry).byIndex[funcIndex]
	if !ok {
		return wasmvm.FunctionType{}, false
	}
	return info.typ, true
}

// InstanceExportedFunction resolves an export name to its function
// index in a live instance.
func (e *Engine) InstanceExportedFunction(inst wasmvm.RawInstance, name string) (uint32, bool) {
	v, ok := e.instances.get(uint64(inst))
	if !ok {
		return 0, false
	}
	idx, ok := v.(*instanceEntry).byName[name]
	return idx, ok
}

// MemorySize returns the instance's linear memory size in bytes.
func (e *Engine) MemorySize(inst wasmvm.RawInstance) uint32 {
	mem := e.instanceMemory(inst)
	if mem == nil {
		return 0
	}
	return mem.Size()
}

// MemoryRead copies length bytes of linear memory at offset.
func (e *Engine) MemoryRead(inst wasmvm.RawInstance, offset, length uint32) ([]byte, bool) {
	mem := e.instanceMemory(inst)
	if mem == nil {
		return nil, false
	}
	view, ok := mem.Read(offset, length)
	if !ok {
		return nil, false
	}
	// Read returns a view of linear memory; detach it.
	out := make([]byte, len(view))
	copy(out, view)
	return out, true
}

// MemoryWrite copies data into linear memory at offset.
func (e *Engine) MemoryWrite(inst wasmvm.RawInstance, offset uint32, data []byte) bool {
	mem := e.instanceMemory(inst)
	if mem == nil {
		return false
	}
	return mem.Write(offset, data)
}

// Close releases the engine and every handle still alive in it.
func (e *Engine) Close(ctx context.Context) error {
	e.instances.drain()
	e.modules.drain()
	return e.runtime.Close(ctx)
}

// ModuleCount returns the number of live module handles.
func (e *Engine) ModuleCount() int { return e.modules.len() }

// InstanceCount returns the number of live instance handles.
func (e *Engine) InstanceCount() int { return e.instances.len() }

func (e *Engine) instanceMemory(inst wasmvm.RawInstance) api.Memory {
	v, ok := e.instances.get(uint64(inst))
	if !ok {
		return nil
	}
	return v.(*instanceEntry).mod.Memory()
}

func closeAll(ctx context.Context, mods []api.Module) {
	for _, m := range mods {
		_ = m.Close(ctx)
	}
}

func listExports(byIndex map[uint32]exportInfo) []wasmvm.ExportedFunction {
	out := make([]wasmvm.ExportedFunction, 0, len(byIndex))
	for idx, info := range byIndex {
		out = append(out, wasmvm.ExportedFunction{
			Name:  info.name,
			Index: idx,
			Type:  info.typ,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// functionType converts a wazero function definition's signature.
func functionType(def api.FunctionDefinition) wasmvm.FunctionType {
	return wasmvm.FunctionType{
		Params:  valueTypes(def.ParamTypes()),
		Results: valueTypes(def.ResultTypes()),
	}
}

func valueTypes(vts []api.ValueType) []wasmvm.ValueType {
	if len(vts) == 0 {
		return nil
	}
	out := make([]wasmvm.ValueType, len(vts))
	for i, vt := range vts {
		out[i] = wasmvm.ValueType(vt)
	}
	return out
}

// Compile-time check that Engine implements the ABI.
var _ wasmvm.Engine = (*Engine)(nil)
