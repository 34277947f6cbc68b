// Package wasmvm defines the engine ABI for embedding a WebAssembly
// virtual machine: opaque module and instance handles, the untagged
// value cell used for call arguments and results, and the raw
// execution result record every call produces.
//
// The package fixes the contract between two layers:
//
//	wasmvm/          Root package with the Engine ABI and value types
//	├── engine/      wazero-backed Engine implementation
//	├── vm/          Ownership layer: Module and Instance handles
//	├── wasm/        Minimal wasm binary builder for synthesizing modules
//	├── errors/      Structured error types
//	└── cmd/vmrun/   CLI runner with an interactive mode
//
// Most applications should not use this package directly: the vm
// package wraps raw handles in owning Module and Instance types that
// release engine resources exactly once.
//
// # Quick Start
//
//	rt, err := vm.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.Parse(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx) // consumes mod
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	out, err := inst.Call(ctx, "add", wasmvm.I32(1), wasmvm.I32(2))
//
// # Thread Safety
//
// Engine implementations are safe for concurrent use across distinct
// handles. A single Module or Instance must be sequenced by the
// caller; the wrapper layer adds no synchronization of its own.
package wasmvm
