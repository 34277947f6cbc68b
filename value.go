package wasmvm

import "math"

// Value is an 8-byte untagged cell holding one wasm numeric value.
// The cell does not record which constructor last wrote it; the
// interpretation of the stored bits is determined entirely by the
// function signature at the call site, and the caller must read back
// with the accessor matching that signature.
//
// 32-bit integers occupy the low 32 bits. Reading I32 or U32 from a
// cell written as a 64-bit value truncates to the low 32 bits; this
// is documented behavior, not an error.
type Value struct {
	bits uint64
}

// I32 stores a 32-bit signed integer in the low 32 bits of the cell.
func I32(v int32) Value { return Value{bits: uint64(uint32(v))} }

// U32 stores a 32-bit unsigned integer in the low 32 bits of the cell.
func U32(v uint32) Value { return Value{bits: uint64(v)} }

// I64 stores a 64-bit signed integer.
func I64(v int64) Value { return Value{bits: uint64(v)} }

// U64 stores a 64-bit unsigned integer.
func U64(v uint64) Value { return Value{bits: v} }

// F32 stores the IEEE-754 bits of a 32-bit float in the low 32 bits.
func F32(v float32) Value { return Value{bits: uint64(math.Float32bits(v))} }

// F64 stores the IEEE-754 bits of a 64-bit float.
func F64(v float64) Value { return Value{bits: math.Float64bits(v)} }

// FromBits reconstructs a cell from its raw bit pattern.
func FromBits(bits uint64) Value { return Value{bits: bits} }

// I32 reads the low 32 bits as a signed integer.
func (v Value) I32() int32 { return int32(uint32(v.bits)) }

// U32 reads the low 32 bits as an unsigned integer.
func (v Value) U32() uint32 { return uint32(v.bits) }

// I64 reads the cell as a signed 64-bit integer.
func (v Value) I64() int64 { return int64(v.bits) }

// U64 reads the cell as an unsigned 64-bit integer.
func (v Value) U64() uint64 { return v.bits }

// F32 reads the low 32 bits as IEEE-754 float bits.
func (v Value) F32() float32 { return math.Float32frombits(uint32(v.bits)) }

// F64 reads the cell as IEEE-754 float bits.
func (v Value) F64() float64 { return math.Float64frombits(v.bits) }

// Bits returns the raw bit pattern of the cell.
func (v Value) Bits() uint64 { return v.bits }

// Interpret reads the cell as t.
func (v Value) Interpret(t ValueType) any {
	switch t {
	case ValueTypeI32:
		return v.I32()
	case ValueTypeI64:
		return v.I64()
	case ValueTypeF32:
		return v.F32()
	case ValueTypeF64:
		return v.F64()
	}
	return v.bits
}
