package engine_test

import (
	"context"
	"testing"

	wasmvm "github.com/wavmlabs/wasmvm-go"
	"github.com/wavmlabs/wasmvm-go/engine"
	"github.com/wavmlabs/wasmvm-go/wasm"
)

var headerOnly = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// addModule exports "add": (i32, i32) -> i32.
func addModule() []byte {
	m := &wasm.Module{
		Types: []wasm.FuncType{{
			Params:  []wasm.ValType{wasm.ValI32, wasm.ValI32},
			Results: []wasm.ValType{wasm.ValI32},
		}},
		Funcs:   []uint32{0},
		Exports: []wasm.Export{{Name: "add", Kind: wasm.KindFunc, Idx: 0}},
		Code: [][]byte{wasm.NewBody().
			LocalGet(0).
			LocalGet(1).
			Op(wasm.OpI32Add).
			End()},
	}
	return m.Encode()
}

// forwardModule imports env.add: (i32, i32) -> i32 and exports
// "forward" passing both arguments through. The import holds function
// index 0; forward is index 1.
func forwardModule() []byte {
	m := &wasm.Module{
		Types: []wasm.FuncType{{
			Params:  []wasm.ValType{wasm.ValI32, wasm.ValI32},
			Results: []wasm.ValType{wasm.ValI32},
		}},
		Imports: []wasm.Import{{Module: "env", Name: "add", TypeIdx: 0}},
		Funcs:   []uint32{0},
		Exports: []wasm.Export{{Name: "forward", Kind: wasm.KindFunc, Idx: 1}},
		Code: [][]byte{wasm.NewBody().
			LocalGet(0).
			LocalGet(1).
			Call(0).
			End()},
	}
	return m.Encode()
}

// needsImportModule imports a function no host will provide.
func needsImportModule() []byte {
	m := &wasm.Module{
		Types:   []wasm.FuncType{{}},
		Imports: []wasm.Import{{Module: "missing", Name: "fn", TypeIdx: 0}},
	}
	return m.Encode()
}

// bigMemoryModule declares a two-page memory.
func bigMemoryModule() []byte {
	m := &wasm.Module{
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 2}}},
	}
	return m.Encode()
}

func newEngine(t *testing.T) (*engine.Engine, context.Context) {
	t.Helper()
	ctx := context.Background()
	e, err := engine.New(ctx)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	t.Cleanup(func() { e.Close(ctx) })
	return e, ctx
}

func parseOrFatal(t *testing.T, e *engine.Engine, ctx context.Context, bytes []byte) wasmvm.RawModule {
	t.Helper()
	mod := e.Parse(ctx, bytes)
	if mod == 0 {
		t.Fatal("Parse rejected a valid module")
	}
	return mod
}

func TestValidateByteVectors(t *testing.T) {
	e, ctx := newEngine(t)

	tests := []struct {
		name  string
		wasm  []byte
		valid bool
	}{
		{"nil", nil, false},
		{"garbage", []byte{0xde, 0xad, 0xbe, 0xef}, false},
		{"header", headerOnly, true},
		{"bad version", []byte{0x00, 0x61, 0x73, 0x6d, 0x02, 0x00, 0x00, 0x00}, false},
		{"add function", addModule(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Validate(ctx, tt.wasm); got != tt.valid {
				t.Errorf("Validate = %v, want %v", got, tt.valid)
			}
		})
	}

	// Validation retains nothing.
	if got := e.ModuleCount(); got != 0 {
		t.Errorf("module count after validation = %d, want 0", got)
	}
}

func TestParseRejectedReturnsZero(t *testing.T) {
	e, ctx := newEngine(t)

	if mod := e.Parse(ctx, []byte{0x00}); mod != 0 {
		t.Errorf("Parse on bad input = %d, want 0", mod)
	}
	if got := e.ModuleCount(); got != 0 {
		t.Errorf("module count = %d, want 0", got)
	}
}

func TestInstantiateConsumesHandle(t *testing.T) {
	e, ctx := newEngine(t)
	mod := parseOrFatal(t, e, ctx, addModule())

	inst, err := e.Instantiate(ctx, mod, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	defer e.FreeInstance(ctx, inst)

	if got := e.ModuleCount(); got != 0 {
		t.Errorf("module count = %d, want 0", got)
	}
	// The consumed handle is dead on every path.
	if _, err := e.Instantiate(ctx, mod, nil); err == nil {
		t.Error("reusing a consumed handle succeeded")
	}
	e.FreeModule(ctx, mod) // must be a no-op

	res := e.Execute(ctx, inst, 0, []wasmvm.Value{wasmvm.I32(2), wasmvm.I32(3)})
	if res.Trapped || !res.HasValue || res.Value.I32() != 5 {
		t.Errorf("add(2, 3) = %+v, want 5", res)
	}
}

func TestInstantiateFailureConsumesHandle(t *testing.T) {
	e, ctx := newEngine(t)
	mod := parseOrFatal(t, e, ctx, needsImportModule())

	if _, err := e.Instantiate(ctx, mod, nil); err == nil {
		t.Fatal("expected instantiation failure for unresolved import")
	}
	if got := e.ModuleCount(); got != 0 {
		t.Errorf("module count = %d, want 0", got)
	}
	e.FreeModule(ctx, mod) // no-op, not a double free
}

func TestExecuteUnknownHandleTraps(t *testing.T) {
	e, ctx := newEngine(t)

	res := e.Execute(ctx, 7, 0, nil)
	if !res.Trapped {
		t.Error("unknown instance handle did not trap")
	}
}

func TestExecuteUnknownIndexTraps(t *testing.T) {
	e, ctx := newEngine(t)
	mod := parseOrFatal(t, e, ctx, addModule())
	inst, err := e.Instantiate(ctx, mod, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	defer e.FreeInstance(ctx, inst)

	res := e.Execute(ctx, inst, 42, nil)
	if !res.Trapped {
		t.Error("unknown function index did not trap")
	}
}

func TestHostFunctionBridge(t *testing.T) {
	e, ctx := newEngine(t)
	mod := parseOrFatal(t, e, ctx, forwardModule())

	sig := wasmvm.FunctionType{
		Params:  []wasmvm.ValueType{wasmvm.ValueTypeI32, wasmvm.ValueTypeI32},
		Results: []wasmvm.ValueType{wasmvm.ValueTypeI32},
	}
	host := wasmvm.HostFunction{
		Module: "env",
		Name:   "add",
		Type:   sig,
		Fn: func(_ context.Context, args []wasmvm.Value) wasmvm.ExecutionResult {
			sum := args[0].I32() + args[1].I32()
			return wasmvm.ExecutionResult{Value: wasmvm.I32(sum), HasValue: true}
		},
	}

	inst, err := e.Instantiate(ctx, mod, []wasmvm.HostFunction{host})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	defer e.FreeInstance(ctx, inst)

	res := e.Execute(ctx, inst, 1, []wasmvm.Value{wasmvm.I32(40), wasmvm.I32(2)})
	if res.Trapped || !res.HasValue || res.Value.I32() != 42 {
		t.Errorf("forward(40, 2) = %+v, want 42", res)
	}
}

func TestHostFunctionNilFnRejected(t *testing.T) {
	e, ctx := newEngine(t)
	mod := parseOrFatal(t, e, ctx, forwardModule())

	host := wasmvm.HostFunction{Module: "env", Name: "add"}
	if _, err := e.Instantiate(ctx, mod, []wasmvm.HostFunction{host}); err == nil {
		t.Fatal("host function without implementation was accepted")
	}
	// The failure still consumed the module handle.
	if got := e.ModuleCount(); got != 0 {
		t.Errorf("module count = %d, want 0", got)
	}
}

func TestMemoryLimitConfig(t *testing.T) {
	ctx := context.Background()
	e, err := engine.NewWithConfig(ctx, &engine.Config{MemoryLimitPages: 1})
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	defer e.Close(ctx)

	// Two pages exceed the one-page limit.
	mod := e.Parse(ctx, bigMemoryModule())
	if mod != 0 {
		if _, err := e.Instantiate(ctx, mod, nil); err == nil {
			t.Error("two-page memory instantiated under a one-page limit")
		}
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	ctx := context.Background()
	e, err := engine.New(ctx)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	mod := parseOrFatal(t, e, ctx, addModule())
	if _, err := e.Instantiate(ctx, mod, nil); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	parseOrFatal(t, e, ctx, headerOnly)

	if err := e.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if e.ModuleCount() != 0 || e.InstanceCount() != 0 {
		t.Errorf("counts after close = (%d, %d), want (0, 0)",
			e.ModuleCount(), e.InstanceCount())
	}
}
