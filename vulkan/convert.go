package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
)

// Most glgpu enums carry Vulkan values and convert by cast. The functions here cover the
// ones that do not, and the derived masks.

func vkFrontFace(f glgpu.PolygonFrontFace) vk.FrontFace {
	if f == glgpu.FrontFaceClockwise {
		return vk.FrontFaceClockwise
	}
	return vk.FrontFaceCounterClockwise
}

func vkIndexType(t glgpu.IndexType) vk.IndexType {
	if t == glgpu.IndexUint16 {
		return vk.IndexTypeUint16
	}
	return vk.IndexTypeUint32
}

func vkDescriptorType(t glgpu.ShaderUniformType) vk.DescriptorType {
	switch t {
	case glgpu.UniformTypeSampler:
		return vk.DescriptorTypeSampler
	case glgpu.UniformTypeSamplerWithTexture:
		return vk.DescriptorTypeCombinedImageSampler
	case glgpu.UniformTypeTexture:
		return vk.DescriptorTypeSampledImage
	case glgpu.UniformTypeImage:
		return vk.DescriptorTypeStorageImage
	case glgpu.UniformTypeUniformBuffer:
		return vk.DescriptorTypeUniformBuffer
	}
	return vk.DescriptorTypeStorageBuffer
}

// vkSampleCount rounds n down to a supported power of two between 1 and 64.
func vkSampleCount(n uint32) vk.SampleCountFlagBits {
	c := uint32(1)
	for c < 64 && c*2 <= n {
		c *= 2
	}
	return vk.SampleCountFlagBits(c)
}

// maxSampleCount picks the highest bit of 64..1 set in counts.
func maxSampleCount(counts vk.SampleCountFlags) uint32 {
	for c := uint32(64); c > 1; c /= 2 {
		if uint32(counts)&c != 0 {
			return c
		}
	}
	return 1
}

func vkDynamicStates(flags glgpu.PipelineDynamicStateFlags) []vk.DynamicState {
	states := []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
	extra := []struct {
		flag  glgpu.PipelineDynamicStateFlags
		state vk.DynamicState
	}{
		{glgpu.DynamicStateLineWidth, vk.DynamicStateLineWidth},
		{glgpu.DynamicStateDepthBias, vk.DynamicStateDepthBias},
		{glgpu.DynamicStateBlendConstants, vk.DynamicStateBlendConstants},
		{glgpu.DynamicStateDepthBounds, vk.DynamicStateDepthBounds},
		{glgpu.DynamicStateStencilCompareMask, vk.DynamicStateStencilCompareMask},
		{glgpu.DynamicStateStencilWriteMask, vk.DynamicStateStencilWriteMask},
		{glgpu.DynamicStateStencilReference, vk.DynamicStateStencilReference},
	}
	for _, e := range extra {
		if flags&e.flag != 0 {
			states = append(states, e.state)
		}
	}
	return states
}

func aspectFor(f glgpu.DataFormat) vk.ImageAspectFlags {
	switch {
	case glgpu.HasStencil(f):
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit | vk.ImageAspectStencilBit)
	case glgpu.IsDepthFormat(f):
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	}
	return vk.ImageAspectFlags(vk.ImageAspectColorBit)
}

// layoutAccess is the access and stage scope of work using an image in a layout.
type layoutAccess struct {
	access vk.AccessFlags
	stage  vk.PipelineStageFlags
}

func accessForLayout(l glgpu.ImageLayout, src bool) layoutAccess {
	switch l {
	case glgpu.ImageLayoutUndefined:
		if src {
			return layoutAccess{0, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)}
		}
	case glgpu.ImageLayoutTransferDstOptimal:
		return layoutAccess{
			vk.AccessFlags(vk.AccessTransferWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		}
	case glgpu.ImageLayoutTransferSrcOptimal:
		return layoutAccess{
			vk.AccessFlags(vk.AccessTransferReadBit),
			vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		}
	case glgpu.ImageLayoutShaderReadOnlyOptimal:
		return layoutAccess{
			vk.AccessFlags(vk.AccessShaderReadBit),
			vk.PipelineStageFlags(vk.PipelineStageVertexShaderBit | vk.PipelineStageFragmentShaderBit | vk.PipelineStageComputeShaderBit),
		}
	case glgpu.ImageLayoutColorAttachmentOptimal:
		return layoutAccess{
			vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		}
	case glgpu.ImageLayoutDepthStencilAttachmentOptimal, glgpu.ImageLayoutDepthStencilReadOnlyOptimal:
		return layoutAccess{
			vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit | vk.AccessDepthStencilAttachmentWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit),
		}
	case glgpu.ImageLayoutPresentSrc:
		if src {
			return layoutAccess{0, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)}
		}
		return layoutAccess{0, vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)}
	}
	return layoutAccess{
		vk.AccessFlags(vk.AccessMemoryReadBit | vk.AccessMemoryWriteBit),
		vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
	}
}

// bufferAccess maps a buffer usage to the access and stage scope of its typical consumer.
func bufferAccess(usage glgpu.BufferUsageFlags) layoutAccess {
	var a layoutAccess
	add := func(access vk.AccessFlagBits, stage vk.PipelineStageFlagBits) {
		a.access |= vk.AccessFlags(access)
		a.stage |= vk.PipelineStageFlags(stage)
	}
	shaders := vk.PipelineStageVertexShaderBit | vk.PipelineStageFragmentShaderBit | vk.PipelineStageComputeShaderBit
	if usage&glgpu.BufferUsageTransferSrc != 0 {
		add(vk.AccessTransferReadBit, vk.PipelineStageTransferBit)
	}
	if usage&glgpu.BufferUsageTransferDst != 0 {
		add(vk.AccessTransferWriteBit, vk.PipelineStageTransferBit)
	}
	if usage&glgpu.BufferUsageUniformBuffer != 0 {
		add(vk.AccessUniformReadBit, shaders)
	}
	if usage&(glgpu.BufferUsageStorageBuffer|glgpu.BufferUsageStorageTexelBuffer|glgpu.BufferUsageShaderDeviceAddress) != 0 {
		add(vk.AccessShaderReadBit|vk.AccessShaderWriteBit, shaders)
	}
	if usage&glgpu.BufferUsageUniformTexelBuffer != 0 {
		add(vk.AccessShaderReadBit, shaders)
	}
	if usage&glgpu.BufferUsageIndexBuffer != 0 {
		add(vk.AccessIndexReadBit, vk.PipelineStageVertexInputBit)
	}
	if usage&glgpu.BufferUsageVertexBuffer != 0 {
		add(vk.AccessVertexAttributeReadBit, vk.PipelineStageVertexInputBit)
	}
	if usage&glgpu.BufferUsageIndirectBuffer != 0 {
		add(vk.AccessIndirectCommandReadBit, vk.PipelineStageDrawIndirectBit)
	}
	if a.stage == 0 {
		return layoutAccess{
			vk.AccessFlags(vk.AccessMemoryReadBit | vk.AccessMemoryWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
		}
	}
	return a
}

func vkExtent2D(v glgpu.Vec2u) vk.Extent2D {
	return vk.Extent2D{Width: v.X, Height: v.Y}
}

func vkClearColor(c glgpu.Color) vk.ClearValue {
	return vk.NewClearValue([]float32{c.R, c.G, c.B, c.A})
}

// vkClearColorValue fills the float32 member of the color union.
func vkClearColorValue(c glgpu.Color) vk.ClearColorValue {
	var v vk.ClearColorValue
	*(*[4]float32)(unsafe.Pointer(&v)) = c.Array()
	return v
}
