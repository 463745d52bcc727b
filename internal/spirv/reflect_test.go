package spirv

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andewx/glgpu"
)

type asm struct {
	words []uint32
}

func newAsm() *asm {
	return &asm{words: []uint32{magic, 0x00010300, 0, 100, 0}}
}

func (a *asm) op(code uint32, args ...uint32) *asm {
	a.words = append(a.words, uint32(len(args)+1)<<16|code)
	a.words = append(a.words, args...)
	return a
}

func (a *asm) bytes() []byte {
	b := make([]byte, 4*len(a.words))
	for i, w := range a.words {
		binary.LittleEndian.PutUint32(b[4*i:], w)
	}
	return b
}

func str(s string) []uint32 {
	b := append([]byte(s), 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return out
}

func cat(parts ...[]uint32) []uint32 {
	var out []uint32
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// common declares float(2), vec4(20), mat4(21), the UBO block struct (22) and its
// Uniform pointer (23).
func common(a *asm) {
	a.op(opTypeFloat, 2, 32).
		op(opTypeVector, 20, 2, 4).
		op(opTypeMatrix, 21, 20, 4).
		op(opTypeStruct, 22, 21).
		op(opDecorate, 22, decorationBlock).
		op(opMemberDecorate, 22, 0, decorationOffset, 0).
		op(opTypePointer, 23, storageUniform, 22)
}

func vertexModule() []byte {
	a := newAsm()
	a.op(opEntryPoint, cat([]uint32{0, 99}, str("main"), []uint32{11, 10, 12})...)
	a.op(opName, cat([]uint32{10}, str("in_pos"))...)
	a.op(opName, cat([]uint32{11}, str("in_uv"))...)
	a.op(opDecorate, 10, decorationLocation, 0)
	a.op(opDecorate, 11, decorationLocation, 1)
	a.op(opDecorate, 12, decorationBuiltIn, 42)
	a.op(opDecorate, 24, decorationSet, 0)
	a.op(opDecorate, 24, decorationBinding, 0)
	a.op(opDecorate, 36, decorationSet, 1)
	a.op(opDecorate, 36, decorationBinding, 2)
	a.op(opDecorate, 40, decorationBlock)
	a.op(opMemberDecorate, 40, 0, decorationOffset, 0)
	a.op(opMemberDecorate, 40, 0, decorationMatStride, 16)
	a.op(opMemberDecorate, 40, 1, decorationOffset, 64)
	common(a)
	a.op(opTypeVector, 3, 2, 3).
		op(opTypeVector, 4, 2, 2).
		op(opTypeInt, 5, 32, 1).
		op(opTypePointer, 6, storageInput, 3).
		op(opTypePointer, 7, storageInput, 4).
		op(opTypePointer, 8, storageInput, 5).
		op(opTypeImage, 30, 2, 1, 0, 0, 0, 1, 0).
		op(opTypeSampledImage, 31, 30).
		op(opTypeInt, 32, 32, 0).
		op(opConstant, 32, 33, 4).
		op(opTypeArray, 34, 31, 33).
		op(opTypePointer, 35, storageUniformConstant, 34).
		op(opTypeStruct, 40, 21, 20).
		op(opTypePointer, 41, storagePushConstant, 40)
	a.op(opVariable, 7, 11, storageInput).
		op(opVariable, 6, 10, storageInput).
		op(opVariable, 8, 12, storageInput).
		op(opVariable, 23, 24, storageUniform).
		op(opVariable, 35, 36, storageUniformConstant).
		op(opVariable, 41, 42, storagePushConstant)
	// Function bodies are not decoded: the zero word after OpFunction would be a
	// malformed instruction.
	a.op(opFunction, 1, 99, 0, 98)
	a.words = append(a.words, 0)
	return a.bytes()
}

func fragmentModule(ssboBinding uint32) []byte {
	a := newAsm()
	a.op(opEntryPoint, cat([]uint32{4, 99}, str("fs_main"), []uint32{60})...)
	a.op(opDecorate, 60, decorationLocation, 0)
	a.op(opDecorate, 24, decorationSet, 0)
	a.op(opDecorate, 24, decorationBinding, 0)
	a.op(opDecorate, 50, decorationArrStride, 4)
	a.op(opDecorate, 51, decorationBlock)
	a.op(opMemberDecorate, 51, 0, decorationOffset, 0)
	a.op(opDecorate, 53, decorationSet, 0)
	a.op(opDecorate, 53, decorationBinding, ssboBinding)
	common(a)
	a.op(opTypePointer, 61, storageInput, 20).
		op(opTypeRuntimeArray, 50, 2).
		op(opTypeStruct, 51, 50).
		op(opTypePointer, 52, storageStorageBuffer, 51)
	a.op(opVariable, 61, 60, storageInput).
		op(opVariable, 23, 24, storageUniform).
		op(opVariable, 52, 53, storageStorageBuffer)
	return a.bytes()
}

func TestReflectVertex(t *testing.T) {
	m, err := Reflect(vertexModule())
	require.NoError(t, err)

	require.Len(t, m.EntryPoints, 1)
	assert.Equal(t, EntryPoint{Name: "main", Stage: glgpu.ShaderStageVertex}, m.EntryPoints[0])
	e, ok := m.Entry(glgpu.ShaderStageVertex, "")
	assert.True(t, ok)
	assert.Equal(t, "main", e.Name)
	_, ok = m.Entry(glgpu.ShaderStageFragment, "")
	assert.False(t, ok)

	assert.Equal(t, []glgpu.ShaderInterfaceVariable{
		{Name: "in_pos", Location: 0, Format: glgpu.FormatR32G32B32Sfloat},
		{Name: "in_uv", Location: 1, Format: glgpu.FormatR32G32Sfloat},
	}, m.Inputs)

	assert.Equal(t, []Binding{
		{Set: 0, Binding: 0, Type: glgpu.UniformTypeUniformBuffer, Count: 1, Stages: glgpu.ShaderStageVertex},
		{Set: 1, Binding: 2, Type: glgpu.UniformTypeSamplerWithTexture, Count: 4, Stages: glgpu.ShaderStageVertex},
	}, m.Bindings)

	assert.Equal(t, uint32(80), m.PushConstantSize)
	assert.Equal(t, glgpu.ShaderStageVertex, m.PushConstantStages)
}

func TestReflectFragment(t *testing.T) {
	m, err := Reflect(fragmentModule(1))
	require.NoError(t, err)
	assert.Empty(t, m.Inputs, "only vertex stage inputs are reported")
	require.Len(t, m.Bindings, 2)
	assert.Equal(t, glgpu.UniformTypeStorageBuffer, m.Bindings[1].Type)
	assert.Equal(t, glgpu.ShaderStageFragment, m.Stages())
	assert.Zero(t, m.PushConstantSize)
}

func TestMergeStages(t *testing.T) {
	vs, err := Reflect(vertexModule())
	require.NoError(t, err)
	fs, err := Reflect(fragmentModule(1))
	require.NoError(t, err)

	l, err := Merge(vs, fs)
	require.NoError(t, err)
	require.Len(t, l.Sets, 2)
	assert.Len(t, l.Sets[0], 2)
	assert.Len(t, l.Sets[1], 1)

	ubo, ok := l.Binding(0, 0)
	require.True(t, ok)
	assert.Equal(t, glgpu.ShaderStageVertex|glgpu.ShaderStageFragment, ubo.Stages)

	_, ok = l.Binding(3, 0)
	assert.False(t, ok)
	assert.Equal(t, uint32(80), l.PushConstantSize)
}

func TestMergeConflict(t *testing.T) {
	vs, err := Reflect(vertexModule())
	require.NoError(t, err)
	fs, err := Reflect(fragmentModule(0))
	require.NoError(t, err)
	_, err = Merge(vs, fs)
	assert.Error(t, err)
}

func TestReflectRejectsGarbage(t *testing.T) {
	_, err := Reflect([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrTruncated)

	bad := vertexModule()
	bad[0] = 0
	_, err = Reflect(bad)
	assert.ErrorIs(t, err, ErrNotSpirv)

	a := newAsm()
	a.words = append(a.words, 5<<16|opName, 1)
	_, err = ReflectWords(a.words)
	assert.ErrorIs(t, err, ErrTruncated)
}
