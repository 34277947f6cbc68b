// Package wasm provides a minimal builder for core WebAssembly
// binaries: a Module value assembled in Go code and encoded with
// Encode. It covers the numeric subset of the core format (function types
// over i32/i64/f32/f64, function imports, memories, exports, raw
// function bodies) and exists so tests and tools can synthesize
// modules without shipping fixture files.
//
// The package deliberately does not decode or validate binaries;
// decoding and validation belong to the engine.
package wasm
