package wasm

import "encoding/binary"

// Encode encodes the module to wasm binary format. Sections are
// emitted in the order the binary format requires and empty sections
// are omitted, so the zero
// Module encodes to the 8-byte header alone.
func (m *Module) Encode() []byte {
	out := make([]byte, 0, 64)
	out = binary.LittleEndian.AppendUint32(out, Magic)
	out = binary.LittleEndian.AppendUint32(out, Version)

	if len(m.Types) > 0 {
		var sec []byte
		sec = AppendU32(sec, uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec = append(sec, FuncTypeByte)
			sec = appendValTypes(sec, ft.Params)
			sec = appendValTypes(sec, ft.Results)
		}
		out = appendSection(out, SectionType, sec)
	}

	if len(m.Imports) > 0 {
		var sec []byte
		sec = AppendU32(sec, uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			sec = appendName(sec, imp.Module)
			sec = appendName(sec, imp.Name)
			sec = append(sec, KindFunc)
			sec = AppendU32(sec, imp.TypeIdx)
		}
		out = appendSection(out, SectionImport, sec)
	}

	if len(m.Funcs) > 0 {
		var sec []byte
		sec = AppendU32(sec, uint32(len(m.Funcs)))
		for _, typeIdx := range m.Funcs {
			sec = AppendU32(sec, typeIdx)
		}
		out = appendSection(out, SectionFunction, sec)
	}

	if len(m.Memories) > 0 {
		var sec []byte
		sec = AppendU32(sec, uint32(len(m.Memories)))
		for _, mem := range m.Memories {
			sec = appendLimits(sec, mem.Limits)
		}
		out = appendSection(out, SectionMemory, sec)
	}

	if len(m.Exports) > 0 {
		var sec []byte
		sec = AppendU32(sec, uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec = appendName(sec, exp.Name)
			sec = append(sec, exp.Kind)
			sec = AppendU32(sec, exp.Idx)
		}
		out = appendSection(out, SectionExport, sec)
	}

	if m.Start != nil {
		var sec []byte
		sec = AppendU32(sec, *m.Start)
		out = appendSection(out, SectionStart, sec)
	}

	if len(m.Code) > 0 {
		var sec []byte
		sec = AppendU32(sec, uint32(len(m.Code)))
		for _, body := range m.Code {
			sec = AppendU32(sec, uint32(len(body)))
			sec = append(sec, body...)
		}
		out = appendSection(out, SectionCode, sec)
	}

	return out
}

func appendSection(dst []byte, id byte, contents []byte) []byte {
	dst = append(dst, id)
	dst = AppendU32(dst, uint32(len(contents)))
	return append(dst, contents...)
}

func appendName(dst []byte, name string) []byte {
	dst = AppendU32(dst, uint32(len(name)))
	return append(dst, name...)
}

func appendValTypes(dst []byte, vts []ValType) []byte {
	dst = AppendU32(dst, uint32(len(vts)))
	for _, vt := range vts {
		dst = append(dst, byte(vt))
	}
	return dst
}

func appendLimits(dst []byte, l Limits) []byte {
	if l.Max != nil {
		dst = append(dst, 0x01)
		dst = AppendU32(dst, l.Min)
		return AppendU32(dst, *l.Max)
	}
	dst = append(dst, 0x00)
	return AppendU32(dst, l.Min)
}
