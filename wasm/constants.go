package wasm

// Binary header.
const (
	Magic   uint32 = 0x6d736100 // "\0asm" little-endian
	Version uint32 = 0x1
)

// Section IDs.
const (
	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionTable    byte = 4
	SectionMemory   byte = 5
	SectionGlobal   byte = 6
	SectionExport   byte = 7
	SectionStart    byte = 8
	SectionElement  byte = 9
	SectionCode     byte = 10
	SectionData     byte = 11
)

// ValType is a wasm value type byte.
type ValType byte

const (
	ValI32 ValType = 0x7f
	ValI64 ValType = 0x7e
	ValF32 ValType = 0x7d
	ValF64 ValType = 0x7c
)

// FuncTypeByte prefixes every function type entry.
const FuncTypeByte byte = 0x60

// Export/import kinds.
const (
	KindFunc   byte = 0
	KindTable  byte = 1
	KindMemory byte = 2
	KindGlobal byte = 3
)

// Opcodes for the numeric subset the builder emits.
const (
	OpUnreachable byte = 0x00
	OpNop         byte = 0x01
	OpEnd         byte = 0x0b
	OpCall        byte = 0x10
	OpDrop        byte = 0x1a
	OpLocalGet    byte = 0x20
	OpLocalSet    byte = 0x21
	OpI32Load     byte = 0x28
	OpI64Load     byte = 0x29
	OpI32Store    byte = 0x36
	OpI64Store    byte = 0x37
	OpI32Const    byte = 0x41
	OpI64Const    byte = 0x42
	OpF32Const    byte = 0x43
	OpF64Const    byte = 0x44
	OpI32Add      byte = 0x6a
	OpI32Sub      byte = 0x6b
	OpI32Mul      byte = 0x6c
	OpI32DivS     byte = 0x6d
	OpI32DivU     byte = 0x6e
	OpI64Add      byte = 0x7c
	OpI64Sub      byte = 0x7d
	OpI64Mul      byte = 0x7e
	OpI64DivS     byte = 0x7f
	OpF32Add      byte = 0x92
	OpF64Add      byte = 0xa0
)
