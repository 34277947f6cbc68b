package wasm

// Module is a core wasm module assembled for encoding. Only the
// sections the builder supports are representable; the zero value
// encodes to the minimal valid module (header only).
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // type indices of declared functions
	Memories []MemoryType
	Exports  []Export
	Start    *uint32
	Code     [][]byte // one encoded body per declared function
}

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Import is a function import. TypeIdx indexes Types.
type Import struct {
	Module  string
	Name    string
	TypeIdx uint32
}

// Limits bounds a memory. Max nil means unbounded.
type Limits struct {
	Min uint32
	Max *uint32
}

// MemoryType declares a linear memory.
type MemoryType struct {
	Limits Limits
}

// Export makes a module-internal entity visible by name. Idx is in
// the index space selected by Kind; for functions that space starts
// with imports.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// NumImportedFuncs returns the number of function imports, which is
// also the function index of the first declared function.
func (m *Module) NumImportedFuncs() uint32 {
	return uint32(len(m.Imports))
}
