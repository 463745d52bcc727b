package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"

	"github.com/andewx/glgpu"
)

func TestSampleCount(t *testing.T) {
	cases := map[uint32]vk.SampleCountFlagBits{
		0:   vk.SampleCount1Bit,
		1:   vk.SampleCount1Bit,
		3:   vk.SampleCount2Bit,
		4:   vk.SampleCount4Bit,
		7:   vk.SampleCount4Bit,
		16:  vk.SampleCount16Bit,
		100: vk.SampleCount64Bit,
	}
	for n, want := range cases {
		assert.Equal(t, want, vkSampleCount(n), "n=%d", n)
	}
}

func TestMaxSampleCount(t *testing.T) {
	assert.Equal(t, uint32(1), maxSampleCount(0))
	assert.Equal(t, uint32(1), maxSampleCount(vk.SampleCountFlags(vk.SampleCount1Bit)))
	assert.Equal(t, uint32(8), maxSampleCount(vk.SampleCountFlags(vk.SampleCount1Bit|vk.SampleCount4Bit|vk.SampleCount8Bit)))
	assert.Equal(t, uint32(64), maxSampleCount(vk.SampleCountFlags(0x7f)))
}

func TestDynamicStatesAlwaysViewportScissor(t *testing.T) {
	assert.Equal(t, []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}, vkDynamicStates(0))

	got := vkDynamicStates(glgpu.DynamicStateDepthBias | glgpu.DynamicStateStencilReference)
	assert.Equal(t, []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateScissor,
		vk.DynamicStateDepthBias,
		vk.DynamicStateStencilReference,
	}, got)
}

func TestEnumMappings(t *testing.T) {
	assert.Equal(t, vk.FrontFaceClockwise, vkFrontFace(glgpu.FrontFaceClockwise))
	assert.Equal(t, vk.FrontFaceCounterClockwise, vkFrontFace(glgpu.FrontFaceCounterClockwise))
	assert.Equal(t, vk.IndexTypeUint16, vkIndexType(glgpu.IndexUint16))
	assert.Equal(t, vk.IndexTypeUint32, vkIndexType(glgpu.IndexUint32))

	assert.Equal(t, vk.DescriptorTypeSampler, vkDescriptorType(glgpu.UniformTypeSampler))
	assert.Equal(t, vk.DescriptorTypeCombinedImageSampler, vkDescriptorType(glgpu.UniformTypeSamplerWithTexture))
	assert.Equal(t, vk.DescriptorTypeSampledImage, vkDescriptorType(glgpu.UniformTypeTexture))
	assert.Equal(t, vk.DescriptorTypeStorageImage, vkDescriptorType(glgpu.UniformTypeImage))
	assert.Equal(t, vk.DescriptorTypeUniformBuffer, vkDescriptorType(glgpu.UniformTypeUniformBuffer))
	assert.Equal(t, vk.DescriptorTypeStorageBuffer, vkDescriptorType(glgpu.UniformTypeStorageBuffer))
}

func TestAspectFor(t *testing.T) {
	assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectColorBit), aspectFor(glgpu.FormatR8G8B8A8Unorm))
	assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectDepthBit), aspectFor(glgpu.FormatD32Sfloat))
	assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectDepthBit|vk.ImageAspectStencilBit), aspectFor(glgpu.FormatD24UnormS8Uint))
}

func TestAccessForLayout(t *testing.T) {
	undefined := accessForLayout(glgpu.ImageLayoutUndefined, true)
	assert.Zero(t, undefined.access)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit), undefined.stage)

	dst := accessForLayout(glgpu.ImageLayoutTransferDstOptimal, false)
	assert.Equal(t, vk.AccessFlags(vk.AccessTransferWriteBit), dst.access)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTransferBit), dst.stage)

	present := accessForLayout(glgpu.ImageLayoutPresentSrc, false)
	assert.Zero(t, present.access)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit), present.stage)

	general := accessForLayout(glgpu.ImageLayoutGeneral, false)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit), general.stage)
}

func TestBufferAccess(t *testing.T) {
	v := bufferAccess(glgpu.BufferUsageVertexBuffer)
	assert.Equal(t, vk.AccessFlags(vk.AccessVertexAttributeReadBit), v.access)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageVertexInputBit), v.stage)

	copyThenStore := bufferAccess(glgpu.BufferUsageTransferDst | glgpu.BufferUsageStorageBuffer)
	assert.NotZero(t, copyThenStore.access&vk.AccessFlags(vk.AccessTransferWriteBit))
	assert.NotZero(t, copyThenStore.access&vk.AccessFlags(vk.AccessShaderWriteBit))
	assert.NotZero(t, copyThenStore.stage&vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit))

	none := bufferAccess(0)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit), none.stage)
}

func TestVertexInputPacksAttributes(t *testing.T) {
	inputs := []glgpu.ShaderInterfaceVariable{
		{Name: "pos", Location: 0, Format: glgpu.FormatR32G32B32Sfloat},
		{Name: "uv", Location: 1, Format: glgpu.FormatR32G32Sfloat},
	}
	bindings, attrs := vertexInput(inputs, 0)
	if assert.Len(t, bindings, 1) {
		assert.Equal(t, uint32(20), bindings[0].Stride)
	}
	if assert.Len(t, attrs, 2) {
		assert.Equal(t, uint32(0), attrs[0].Offset)
		assert.Equal(t, uint32(12), attrs[1].Offset)
		assert.Equal(t, uint32(1), attrs[1].Location)
	}

	bindings, _ = vertexInput(inputs, 32)
	assert.Equal(t, uint32(32), bindings[0].Stride)

	bindings, attrs = vertexInput(nil, 16)
	assert.Empty(t, bindings)
	assert.Empty(t, attrs)
}

func TestColorWriteMask(t *testing.T) {
	all := glgpu.ColorBlendDisabled(1).Attachments[0]
	assert.Equal(t, vk.ColorComponentFlags(0xf), colorWriteMask(all))
	assert.Zero(t, colorWriteMask(glgpu.ColorBlendAttachment{}))
}
