package wasm

import (
	"encoding/binary"
	"math"
)

// localGroup is one run of same-typed locals in a body's local vector.
type localGroup struct {
	count uint32
	typ   ValType
}

// Body builds one function body. Chain instruction methods and finish
// with End, which appends the terminating end opcode and returns the
// encoded body ready for Module.Code.
type Body struct {
	locals []localGroup
	instrs []byte
}

// NewBody returns an empty body builder.
func NewBody() *Body {
	return &Body{}
}

// Locals declares count locals of type t. Must be called before any
// instruction method for the encoding to be valid.
func (b *Body) Locals(count uint32, t ValType) *Body {
	b.locals = append(b.locals, localGroup{count: count, typ: t})
	return b
}

// Op appends a bare opcode with no immediates.
func (b *Body) Op(op byte) *Body {
	b.instrs = append(b.instrs, op)
	return b
}

// Unreachable appends the unconditional trap instruction.
func (b *Body) Unreachable() *Body { return b.Op(OpUnreachable) }

// I32Const pushes a 32-bit integer constant.
func (b *Body) I32Const(v int32) *Body {
	b.instrs = append(b.instrs, OpI32Const)
	b.instrs = AppendS32(b.instrs, v)
	return b
}

// I64Const pushes a 64-bit integer constant.
func (b *Body) I64Const(v int64) *Body {
	b.instrs = append(b.instrs, OpI64Const)
	b.instrs = AppendS64(b.instrs, v)
	return b
}

// F32Const pushes a 32-bit float constant.
func (b *Body) F32Const(v float32) *Body {
	b.instrs = append(b.instrs, OpF32Const)
	b.instrs = binary.LittleEndian.AppendUint32(b.instrs, math.Float32bits(v))
	return b
}

// F64Const pushes a 64-bit float constant.
func (b *Body) F64Const(v float64) *Body {
	b.instrs = append(b.instrs, OpF64Const)
	b.instrs = binary.LittleEndian.AppendUint64(b.instrs, math.Float64bits(v))
	return b
}

// LocalGet pushes local idx.
func (b *Body) LocalGet(idx uint32) *Body {
	b.instrs = append(b.instrs, OpLocalGet)
	b.instrs = AppendU32(b.instrs, idx)
	return b
}

// Call invokes the function at idx in the function index space.
func (b *Body) Call(idx uint32) *Body {
	b.instrs = append(b.instrs, OpCall)
	b.instrs = AppendU32(b.instrs, idx)
	return b
}

// I32Load loads an i32 with the given alignment exponent and offset.
func (b *Body) I32Load(align, offset uint32) *Body {
	b.instrs = append(b.instrs, OpI32Load)
	b.instrs = AppendU32(b.instrs, align)
	b.instrs = AppendU32(b.instrs, offset)
	return b
}

// I32Store stores an i32 with the given alignment exponent and offset.
func (b *Body) I32Store(align, offset uint32) *Body {
	b.instrs = append(b.instrs, OpI32Store)
	b.instrs = AppendU32(b.instrs, align)
	b.instrs = AppendU32(b.instrs, offset)
	return b
}

// End terminates the body and returns its encoding: the local vector
// followed by the instruction sequence and the end opcode.
func (b *Body) End() []byte {
	var out []byte
	out = AppendU32(out, uint32(len(b.locals)))
	for _, lg := range b.locals {
		out = AppendU32(out, lg.count)
		out = append(out, byte(lg.typ))
	}
	out = append(out, b.instrs...)
	return append(out, OpEnd)
}
