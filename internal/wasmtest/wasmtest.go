// Package wasmtest assembles small core WebAssembly modules for tests.
//
// Only the sections a cartridge needs are supported: types, function
// imports, one memory, functions, exports and active data segments.
// Imports must be added before functions so function indices are stable.
package wasmtest

import (
	"encoding/binary"
	"math"
)

// Value types.
const (
	I32 byte = 0x7F
	I64 byte = 0x7E
	F32 byte = 0x7D
	F64 byte = 0x7C
)

const (
	sectionType     = 1
	sectionImport   = 2
	sectionFunction = 3
	sectionMemory   = 5
	sectionExport   = 7
	sectionCode     = 10
	sectionData     = 11

	exportFunc   = 0x00
	exportMemory = 0x02
)

type funcType struct {
	params, results []byte
}

type importEntry struct {
	module, name string
	typ          uint32
}

type function struct {
	locals []byte
	body   []byte
	typ    uint32
}

type export struct {
	name  string
	kind  byte
	index uint32
}

type segment struct {
	data   []byte
	offset uint32
}

// Module is a module under construction.
type Module struct {
	types     []funcType
	imports   []importEntry
	funcs     []function
	exports   []export
	data      []segment
	memPages  uint32
	hasMemory bool
}

// New returns an empty module.
func New() *Module {
	return &Module{}
}

func (m *Module) typeIndex(params, results []byte) uint32 {
	for i, t := range m.types {
		if string(t.params) == string(params) && string(t.results) == string(results) {
			return uint32(i)
		}
	}
	m.types = append(m.types, funcType{params: params, results: results})
	return uint32(len(m.types) - 1)
}

// Import declares an imported function and returns its function index.
func (m *Module) Import(module, name string, params, results []byte) uint32 {
	if len(m.funcs) > 0 {
		panic("wasmtest: imports must precede functions")
	}
	m.imports = append(m.imports, importEntry{module: module, name: name, typ: m.typeIndex(params, results)})
	return uint32(len(m.imports) - 1)
}

// Func defines a function with the given extra locals and body
// instructions and returns its function index. The final end is added.
func (m *Module) Func(params, results, locals []byte, body ...[]byte) uint32 {
	var b []byte
	for _, ins := range body {
		b = append(b, ins...)
	}
	m.funcs = append(m.funcs, function{typ: m.typeIndex(params, results), locals: locals, body: b})
	return uint32(len(m.imports) + len(m.funcs) - 1)
}

// Export exports a function.
func (m *Module) Export(name string, fn uint32) *Module {
	m.exports = append(m.exports, export{name: name, kind: exportFunc, index: fn})
	return m
}

// Memory declares memory 0 with minPages pages. A non-empty name exports it.
func (m *Module) Memory(minPages uint32, name string) *Module {
	m.hasMemory = true
	m.memPages = minPages
	if name != "" {
		m.exports = append(m.exports, export{name: name, kind: exportMemory, index: 0})
	}
	return m
}

// Data adds an active data segment at offset in memory 0.
func (m *Module) Data(offset uint32, data []byte) *Module {
	m.data = append(m.data, segment{offset: offset, data: data})
	return m
}

// Bytes encodes the module.
func (m *Module) Bytes() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

	if len(m.types) > 0 {
		var s []byte
		s = uleb(s, uint64(len(m.types)))
		for _, t := range m.types {
			s = append(s, 0x60)
			s = vec(s, t.params)
			s = vec(s, t.results)
		}
		out = section(out, sectionType, s)
	}

	if len(m.imports) > 0 {
		var s []byte
		s = uleb(s, uint64(len(m.imports)))
		for _, imp := range m.imports {
			s = name(s, imp.module)
			s = name(s, imp.name)
			s = append(s, exportFunc)
			s = uleb(s, uint64(imp.typ))
		}
		out = section(out, sectionImport, s)
	}

	if len(m.funcs) > 0 {
		var s []byte
		s = uleb(s, uint64(len(m.funcs)))
		for _, f := range m.funcs {
			s = uleb(s, uint64(f.typ))
		}
		out = section(out, sectionFunction, s)
	}

	if m.hasMemory {
		s := []byte{1, 0x00}
		s = uleb(s, uint64(m.memPages))
		out = section(out, sectionMemory, s)
	}

	if len(m.exports) > 0 {
		var s []byte
		s = uleb(s, uint64(len(m.exports)))
		for _, e := range m.exports {
			s = name(s, e.name)
			s = append(s, e.kind)
			s = uleb(s, uint64(e.index))
		}
		out = section(out, sectionExport, s)
	}

	if len(m.funcs) > 0 {
		var s []byte
		s = uleb(s, uint64(len(m.funcs)))
		for _, f := range m.funcs {
			var body []byte
			body = uleb(body, uint64(len(f.locals)))
			for _, l := range f.locals {
				body = append(body, 1, l)
			}
			body = append(body, f.body...)
			body = append(body, 0x0B)
			s = uleb(s, uint64(len(body)))
			s = append(s, body...)
		}
		out = section(out, sectionCode, s)
	}

	if len(m.data) > 0 {
		var s []byte
		s = uleb(s, uint64(len(m.data)))
		for _, d := range m.data {
			s = append(s, 0x00)
			s = append(s, I32Const(int32(d.offset))...)
			s = append(s, 0x0B)
			s = vec(s, d.data)
		}
		out = section(out, sectionData, s)
	}

	return out
}

func section(out []byte, id byte, content []byte) []byte {
	out = append(out, id)
	out = uleb(out, uint64(len(content)))
	return append(out, content...)
}

func vec(out, items []byte) []byte {
	out = uleb(out, uint64(len(items)))
	return append(out, items...)
}

func name(out []byte, s string) []byte {
	return vec(out, []byte(s))
}

func uleb(out []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(out []byte, v int64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

// Instructions.

func I32Const(v int32) []byte { return sleb([]byte{0x41}, int64(v)) }
func I64Const(v int64) []byte { return sleb([]byte{0x42}, v) }

func F32Const(v float32) []byte {
	return binary.LittleEndian.AppendUint32([]byte{0x43}, math.Float32bits(v))
}

func F64Const(v float64) []byte {
	return binary.LittleEndian.AppendUint64([]byte{0x44}, math.Float64bits(v))
}

func LocalGet(i uint32) []byte { return uleb([]byte{0x20}, uint64(i)) }
func LocalSet(i uint32) []byte { return uleb([]byte{0x21}, uint64(i)) }
func Call(fn uint32) []byte    { return uleb([]byte{0x10}, uint64(fn)) }

// I32Store stores an i32 at address+offset with 4 byte alignment.
func I32Store(offset uint32) []byte { return uleb([]byte{0x36, 0x02}, uint64(offset)) }

// I64Store stores an i64 at address+offset with 8 byte alignment.
func I64Store(offset uint32) []byte { return uleb([]byte{0x37, 0x03}, uint64(offset)) }

// I32Load loads an i32 from address+offset with 4 byte alignment.
func I32Load(offset uint32) []byte { return uleb([]byte{0x28, 0x02}, uint64(offset)) }

var (
	Unreachable = []byte{0x00}
	Drop        = []byte{0x1A}
	I32WrapI64  = []byte{0xA7}
	I32Add      = []byte{0x6A}
)
