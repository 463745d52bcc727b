// Package spirv reads the interface of a SPIR-V module: entry points, vertex inputs,
// descriptor bindings and the push constant block.
//
// Only the instructions that describe the module interface are decoded. Function bodies
// are skipped.
package spirv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/andewx/glgpu"
)

const magic = 0x07230203

const (
	opName              = 5
	opEntryPoint        = 15
	opTypeBool          = 20
	opTypeInt           = 21
	opTypeFloat         = 22
	opTypeVector        = 23
	opTypeMatrix        = 24
	opTypeImage         = 25
	opTypeSampler       = 26
	opTypeSampledImage  = 27
	opTypeArray         = 28
	opTypeRuntimeArray  = 29
	opTypeStruct        = 30
	opTypePointer       = 32
	opConstant          = 43
	opVariable          = 59
	opDecorate          = 71
	opMemberDecorate    = 72
	opFunction          = 54
	decorationBlock     = 2
	decorationBufferBlk = 3
	decorationArrStride = 6
	decorationMatStride = 7
	decorationBuiltIn   = 11
	decorationLocation  = 30
	decorationBinding   = 33
	decorationSet       = 34
	decorationOffset    = 35
)

const (
	storageUniformConstant = 0
	storageInput           = 1
	storageUniform         = 2
	storagePushConstant    = 9
	storageStorageBuffer   = 12
)

var (
	ErrNotSpirv  = errors.New("spirv: bad magic number")
	ErrTruncated = errors.New("spirv: truncated module")
)

// EntryPoint is one OpEntryPoint.
type EntryPoint struct {
	Name  string
	Stage glgpu.ShaderStageFlags
}

// Binding is one descriptor binding.
type Binding struct {
	Set     uint32
	Binding uint32
	Type    glgpu.ShaderUniformType
	Count   uint32
	Stages  glgpu.ShaderStageFlags
}

// Module is the reflected interface of one SPIR-V module.
type Module struct {
	EntryPoints        []EntryPoint
	Inputs             []glgpu.ShaderInterfaceVariable
	Bindings           []Binding
	PushConstantSize   uint32
	PushConstantStages glgpu.ShaderStageFlags
}

// Stages is the union of every entry point stage.
func (m *Module) Stages() glgpu.ShaderStageFlags {
	var s glgpu.ShaderStageFlags
	for _, e := range m.EntryPoints {
		s |= e.Stage
	}
	return s
}

// Entry returns the entry point for stage named name, or the first one for stage when
// name is empty.
func (m *Module) Entry(stage glgpu.ShaderStageFlags, name string) (EntryPoint, bool) {
	for _, e := range m.EntryPoints {
		if e.Stage == stage && (name == "" || e.Name == name) {
			return e, true
		}
	}
	return EntryPoint{}, false
}

type typeInfo struct {
	op       uint32
	width    uint32 // scalar bits
	signed   bool
	elem     uint32 // vector/matrix/array/pointer/sampled image element
	count    uint32 // vector components, matrix columns, array length (0 runtime)
	sampled  uint32 // OpTypeImage sampled operand
	storage  uint32 // pointer storage class
	members  []uint32
	lengthID uint32
}

type decorations struct {
	location, binding, set uint32
	hasLoc, hasBinding     bool
	builtin                bool
	block, bufferBlock     bool
	arrayStride            uint32
	members                map[uint32]uint32 // member index -> offset
	matrixStride           map[uint32]uint32
}

type variable struct {
	id, typeID, storage uint32
}

type parser struct {
	types   map[uint32]*typeInfo
	consts  map[uint32]uint32
	decos   map[uint32]*decorations
	names   map[uint32]string
	vars    []variable
	entries []EntryPoint
	iface   map[uint32]glgpu.ShaderStageFlags
}

func (p *parser) deco(id uint32) *decorations {
	d, ok := p.decos[id]
	if !ok {
		d = &decorations{}
		p.decos[id] = d
	}
	return d
}

// Words converts little endian bytecode into words.
func Words(code []byte) ([]uint32, error) {
	if len(code)%4 != 0 || len(code) < 20 {
		return nil, ErrTruncated
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	if words[0] != magic {
		return nil, ErrNotSpirv
	}
	return words, nil
}

// Reflect parses bytecode.
func Reflect(code []byte) (*Module, error) {
	words, err := Words(code)
	if err != nil {
		return nil, err
	}
	return ReflectWords(words)
}

// ReflectWords parses an already decoded module.
func ReflectWords(words []uint32) (*Module, error) {
	if len(words) < 5 || words[0] != magic {
		return nil, ErrNotSpirv
	}
	p := &parser{
		types:  map[uint32]*typeInfo{},
		consts: map[uint32]uint32{},
		decos:  map[uint32]*decorations{},
		names:  map[uint32]string{},
		iface:  map[uint32]glgpu.ShaderStageFlags{},
	}
	for i := 5; i < len(words); {
		count := int(words[i] >> 16)
		op := words[i] & 0xffff
		if count == 0 || i+count > len(words) {
			return nil, ErrTruncated
		}
		if op == opFunction {
			break
		}
		p.instruction(op, words[i+1:i+count])
		i += count
	}
	return p.module()
}

func (p *parser) instruction(op uint32, args []uint32) {
	if len(args) == 0 {
		return
	}
	switch op {
	case opName:
		if len(args) >= 2 {
			p.names[args[0]] = decodeString(args[1:])
		}
	case opEntryPoint:
		if len(args) < 3 {
			return
		}
		stage := executionStage(args[0])
		name := decodeString(args[2:])
		p.entries = append(p.entries, EntryPoint{Name: name, Stage: stage})
		for _, id := range args[2+stringWords(name):] {
			p.iface[id] |= stage
		}
	case opDecorate:
		if len(args) < 2 {
			return
		}
		d := p.deco(args[0])
		switch args[1] {
		case decorationLocation:
			d.location, d.hasLoc = arg(args, 2), true
		case decorationBinding:
			d.binding, d.hasBinding = arg(args, 2), true
		case decorationSet:
			d.set = arg(args, 2)
		case decorationBuiltIn:
			d.builtin = true
		case decorationBlock:
			d.block = true
		case decorationBufferBlk:
			d.bufferBlock = true
		case decorationArrStride:
			d.arrayStride = arg(args, 2)
		}
	case opMemberDecorate:
		if len(args) < 3 {
			return
		}
		d := p.deco(args[0])
		switch args[2] {
		case decorationOffset:
			if d.members == nil {
				d.members = map[uint32]uint32{}
			}
			d.members[args[1]] = arg(args, 3)
		case decorationMatStride:
			if d.matrixStride == nil {
				d.matrixStride = map[uint32]uint32{}
			}
			d.matrixStride[args[1]] = arg(args, 3)
		}
	case opTypeBool:
		p.types[args[0]] = &typeInfo{op: op, width: 32}
	case opTypeInt:
		p.types[args[0]] = &typeInfo{op: op, width: arg(args, 1), signed: arg(args, 2) == 1}
	case opTypeFloat:
		p.types[args[0]] = &typeInfo{op: op, width: arg(args, 1)}
	case opTypeVector, opTypeMatrix:
		p.types[args[0]] = &typeInfo{op: op, elem: arg(args, 1), count: arg(args, 2)}
	case opTypeImage:
		p.types[args[0]] = &typeInfo{op: op, sampled: arg(args, 6)}
	case opTypeSampler:
		p.types[args[0]] = &typeInfo{op: op}
	case opTypeSampledImage:
		p.types[args[0]] = &typeInfo{op: op, elem: arg(args, 1)}
	case opTypeArray:
		p.types[args[0]] = &typeInfo{op: op, elem: arg(args, 1), lengthID: arg(args, 2)}
	case opTypeRuntimeArray:
		p.types[args[0]] = &typeInfo{op: op, elem: arg(args, 1)}
	case opTypeStruct:
		p.types[args[0]] = &typeInfo{op: op, members: append([]uint32(nil), args[1:]...)}
	case opTypePointer:
		p.types[args[0]] = &typeInfo{op: op, storage: arg(args, 1), elem: arg(args, 2)}
	case opConstant:
		if len(args) >= 3 {
			p.consts[args[1]] = args[2]
		}
	case opVariable:
		if len(args) >= 3 {
			p.vars = append(p.vars, variable{id: args[1], typeID: args[0], storage: args[2]})
		}
	}
}

func arg(args []uint32, i int) uint32 {
	if i < len(args) {
		return args[i]
	}
	return 0
}

func (p *parser) module() (*Module, error) {
	m := &Module{EntryPoints: p.entries}
	all := m.Stages()
	for _, v := range p.vars {
		ptr := p.types[v.typeID]
		if ptr == nil || ptr.op != opTypePointer {
			return nil, fmt.Errorf("spirv: variable %d has non-pointer type", v.id)
		}
		d := p.decos[v.id]
		switch v.storage {
		case storageInput:
			if p.iface[v.id]&glgpu.ShaderStageVertex == 0 || d == nil || d.builtin || !d.hasLoc {
				continue
			}
			m.Inputs = append(m.Inputs, glgpu.ShaderInterfaceVariable{
				Name:     p.names[v.id],
				Location: d.location,
				Format:   p.vertexFormat(ptr.elem),
			})
		case storagePushConstant:
			m.PushConstantSize = max(m.PushConstantSize, p.sizeOf(ptr.elem, 0))
			m.PushConstantStages |= all
		case storageUniformConstant, storageUniform, storageStorageBuffer:
			if d == nil || !d.hasBinding {
				continue
			}
			kind, count, ok := p.descriptor(ptr.elem, v.storage)
			if !ok {
				continue
			}
			m.Bindings = append(m.Bindings, Binding{Set: d.set, Binding: d.binding, Type: kind, Count: count, Stages: all})
		}
	}
	sort.Slice(m.Inputs, func(i, j int) bool { return m.Inputs[i].Location < m.Inputs[j].Location })
	sort.Slice(m.Bindings, func(i, j int) bool {
		if m.Bindings[i].Set != m.Bindings[j].Set {
			return m.Bindings[i].Set < m.Bindings[j].Set
		}
		return m.Bindings[i].Binding < m.Bindings[j].Binding
	})
	return m, nil
}

func (p *parser) descriptor(typeID, storage uint32) (glgpu.ShaderUniformType, uint32, bool) {
	count := uint32(1)
	t := p.types[typeID]
	for t != nil && (t.op == opTypeArray || t.op == opTypeRuntimeArray) {
		if t.op == opTypeArray {
			count *= p.consts[t.lengthID]
		}
		typeID = t.elem
		t = p.types[typeID]
	}
	if t == nil {
		return 0, 0, false
	}
	switch t.op {
	case opTypeSampler:
		return glgpu.UniformTypeSampler, count, true
	case opTypeSampledImage:
		return glgpu.UniformTypeSamplerWithTexture, count, true
	case opTypeImage:
		if t.sampled == 2 {
			return glgpu.UniformTypeImage, count, true
		}
		return glgpu.UniformTypeTexture, count, true
	case opTypeStruct:
		d := p.decos[typeID]
		if storage == storageStorageBuffer || (d != nil && d.bufferBlock) {
			return glgpu.UniformTypeStorageBuffer, count, true
		}
		return glgpu.UniformTypeUniformBuffer, count, true
	}
	return 0, 0, false
}

// sizeOf returns the byte size of a type as laid out in a block. matrixStride overrides the
// column stride of matrices when non-zero.
func (p *parser) sizeOf(typeID, matrixStride uint32) uint32 {
	t := p.types[typeID]
	if t == nil {
		return 0
	}
	switch t.op {
	case opTypeBool, opTypeInt, opTypeFloat:
		return t.width / 8
	case opTypeVector:
		return t.count * p.sizeOf(t.elem, 0)
	case opTypeMatrix:
		stride := matrixStride
		if stride == 0 {
			stride = p.sizeOf(t.elem, 0)
		}
		return t.count * stride
	case opTypeArray:
		stride := uint32(0)
		if d := p.decos[typeID]; d != nil {
			stride = d.arrayStride
		}
		if stride == 0 {
			stride = p.sizeOf(t.elem, 0)
		}
		return p.consts[t.lengthID] * stride
	case opTypeStruct:
		d := p.decos[typeID]
		var size uint32
		for i, member := range t.members {
			var off, ms uint32
			if d != nil {
				off = d.members[uint32(i)]
				ms = d.matrixStride[uint32(i)]
			}
			size = max(size, off+p.sizeOf(member, ms))
		}
		return size
	}
	return 0
}

func (p *parser) vertexFormat(typeID uint32) glgpu.DataFormat {
	t := p.types[typeID]
	if t == nil {
		return glgpu.FormatUndefined
	}
	comps := uint32(1)
	scalar := t
	if t.op == opTypeVector {
		comps = t.count
		scalar = p.types[t.elem]
	}
	if scalar == nil || comps == 0 || comps > 4 {
		return glgpu.FormatUndefined
	}
	var table [4]glgpu.DataFormat
	switch {
	case scalar.op == opTypeFloat && scalar.width == 32:
		table = [4]glgpu.DataFormat{glgpu.FormatR32Sfloat, glgpu.FormatR32G32Sfloat, glgpu.FormatR32G32B32Sfloat, glgpu.FormatR32G32B32A32Sfloat}
	case scalar.op == opTypeFloat && scalar.width == 16:
		table = [4]glgpu.DataFormat{glgpu.FormatR16Sfloat, glgpu.FormatR16G16Sfloat, glgpu.FormatR16G16B16Sfloat, glgpu.FormatR16G16B16A16Sfloat}
	case scalar.op == opTypeInt && scalar.width == 32 && scalar.signed:
		table = [4]glgpu.DataFormat{glgpu.FormatR32Sint, glgpu.FormatR32G32Sint, glgpu.FormatR32G32B32Sint, glgpu.FormatR32G32B32A32Sint}
	case scalar.op == opTypeInt && scalar.width == 32:
		table = [4]glgpu.DataFormat{glgpu.FormatR32Uint, glgpu.FormatR32G32Uint, glgpu.FormatR32G32B32Uint, glgpu.FormatR32G32B32A32Uint}
	default:
		return glgpu.FormatUndefined
	}
	return table[comps-1]
}

func executionStage(model uint32) glgpu.ShaderStageFlags {
	switch model {
	case 0:
		return glgpu.ShaderStageVertex
	case 1:
		return glgpu.ShaderStageTessellationControl
	case 2:
		return glgpu.ShaderStageTessellationEvaluation
	case 3:
		return glgpu.ShaderStageGeometry
	case 4:
		return glgpu.ShaderStageFragment
	case 5:
		return glgpu.ShaderStageCompute
	}
	return 0
}

func decodeString(words []uint32) string {
	var b []byte
	for _, w := range words {
		for i := 0; i < 4; i++ {
			c := byte(w >> (8 * i))
			if c == 0 {
				return string(b)
			}
			b = append(b, c)
		}
	}
	return string(b)
}

// stringWords is the number of words a nul terminated literal string occupies.
func stringWords(s string) int {
	return len(s)/4 + 1
}
