// Package engine provides the wazero-backed implementation of the
// wasmvm.Engine ABI.
//
// The engine mints opaque uint64 handles for compiled modules and
// running instances and keeps them in an internal table; handles are
// never pointers and never escape the engine. Instantiate consumes
// its module handle unconditionally, matching the ABI contract, so a
// module entry can never be freed twice whatever the instantiation
// outcome.
//
// Engines are safe for concurrent use across distinct handles. Calls
// into a single instance must be serialized by the caller.
package engine
