package vm_test

import (
	"context"
	"testing"

	"github.com/wavmlabs/wasmvm-go/vm"
	"github.com/wavmlabs/wasmvm-go/wasm"
)

// Minimal valid header and its corruptions, as raw bytes.
var (
	headerOnly = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	badVersion = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x01}
)

// voidModule exports "nop": () -> ().
func voidModule() []byte {
	m := &wasm.Module{
		Types:   []wasm.FuncType{{}},
		Funcs:   []uint32{0},
		Exports: []wasm.Export{{Name: "nop", Kind: wasm.KindFunc, Idx: 0}},
		Code:    [][]byte{wasm.NewBody().End()},
	}
	return m.Encode()
}

// const42Module exports "answer": () -> i32 returning 42.
func const42Module() []byte {
	m := &wasm.Module{
		Types:   []wasm.FuncType{{Results: []wasm.ValType{wasm.ValI32}}},
		Funcs:   []uint32{0},
		Exports: []wasm.Export{{Name: "answer", Kind: wasm.KindFunc, Idx: 0}},
		Code:    [][]byte{wasm.NewBody().I32Const(42).End()},
	}
	return m.Encode()
}

// divModule exports "div": (i32, i32) -> i32 signed division.
func divModule() []byte {
	m := &wasm.Module{
		Types: []wasm.FuncType{{
			Params:  []wasm.ValType{wasm.ValI32, wasm.ValI32},
			Results: []wasm.ValType{wasm.ValI32},
		}},
		Funcs:   []uint32{0},
		Exports: []wasm.Export{{Name: "div", Kind: wasm.KindFunc, Idx: 0}},
		Code: [][]byte{wasm.NewBody().
			LocalGet(0).
			LocalGet(1).
			Op(wasm.OpI32DivS).
			End()},
	}
	return m.Encode()
}

// trapModule exports "crash": () -> () that hits unreachable.
func trapModule() []byte {
	m := &wasm.Module{
		Types:   []wasm.FuncType{{}},
		Funcs:   []uint32{0},
		Exports: []wasm.Export{{Name: "crash", Kind: wasm.KindFunc, Idx: 0}},
		Code:    [][]byte{wasm.NewBody().Unreachable().End()},
	}
	return m.Encode()
}

// hostCallModule imports env.answer: () -> i32 and exports "ask"
// forwarding to it. Function index space: import is 0, ask is 1.
func hostCallModule() []byte {
	m := &wasm.Module{
		Types: []wasm.FuncType{{Results: []wasm.ValType{wasm.ValI32}}},
		Imports: []wasm.Import{
			{Module: "env", Name: "answer", TypeIdx: 0},
		},
		Funcs:   []uint32{0},
		Exports: []wasm.Export{{Name: "ask", Kind: wasm.KindFunc, Idx: 1}},
		Code:    [][]byte{wasm.NewBody().Call(0).End()},
	}
	return m.Encode()
}

// memoryModule has one page of exported memory and "peek": () -> i32
// loading the i32 at offset 0.
func memoryModule() []byte {
	m := &wasm.Module{
		Types:    []wasm.FuncType{{Results: []wasm.ValType{wasm.ValI32}}},
		Funcs:    []uint32{0},
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		Exports: []wasm.Export{
			{Name: "peek", Kind: wasm.KindFunc, Idx: 0},
			{Name: "mem", Kind: wasm.KindMemory, Idx: 0},
		},
		Code: [][]byte{wasm.NewBody().I32Const(0).I32Load(2, 0).End()},
	}
	return m.Encode()
}

// importingModule imports a function nothing will provide.
func importingModule() []byte {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Imports: []wasm.Import{
			{Module: "missing", Name: "fn", TypeIdx: 0},
		},
	}
	return m.Encode()
}

func newRuntime(t *testing.T) (*vm.Runtime, context.Context) {
	t.Helper()
	ctx := context.Background()
	rt, err := vm.New(ctx)
	if err != nil {
		t.Fatalf("vm.New: %v", err)
	}
	t.Cleanup(func() { rt.Close(ctx) })
	return rt, ctx
}

func mustParse(t *testing.T, rt *vm.Runtime, ctx context.Context, bytes []byte) *vm.Module {
	t.Helper()
	mod, err := rt.Parse(ctx, bytes)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return mod
}

func mustInstantiate(t *testing.T, rt *vm.Runtime, ctx context.Context, bytes []byte) *vm.Instance {
	t.Helper()
	mod := mustParse(t, rt, ctx, bytes)
	inst, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	t.Cleanup(func() { inst.Close(ctx) })
	return inst
}

func wantI32(t *testing.T, out vm.ExecutionOutcome, want int32) {
	t.Helper()
	if out.Trapped() {
		t.Fatal("unexpected trap")
	}
	v, ok := out.Value()
	if !ok {
		t.Fatal("expected a return value")
	}
	if got := v.I32(); got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}
