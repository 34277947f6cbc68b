// Package vm layers ownership and lifetime management over the
// wasmvm.Engine ABI. A Runtime owns an engine; Parse yields a Module
// that owns its raw handle; Instantiate consumes the Module and
// yields an Instance that owns its handle until Close.
//
// The consume-on-instantiate rule is unconditional: once Instantiate
// has been called, the Module never frees anything again, whether or
// not instantiation succeeded, because the engine takes ownership of
// the module handle on that call either way.
//
// Nothing in this package synchronizes access to a single Module or
// Instance; callers sequence operations on one handle themselves.
// Distinct handles are independent and may be used from different
// goroutines.
package vm
