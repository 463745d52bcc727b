package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"

	"github.com/andewx/glgpu"
)

// vertexInput lays the reflected inputs out back to back in one interleaved binding.
// A zero stride is replaced by the packed size of the inputs.
func vertexInput(inputs []glgpu.ShaderInterfaceVariable, stride uint32) ([]vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription) {
	if len(inputs) == 0 {
		return nil, nil
	}
	attrs := make([]vk.VertexInputAttributeDescription, len(inputs))
	var offset uint32
	for i, in := range inputs {
		attrs[i] = vk.VertexInputAttributeDescription{
			Location: in.Location,
			Binding:  0,
			Format:   vk.Format(in.Format),
			Offset:   offset,
		}
		offset += glgpu.DataFormatSize(in.Format)
	}
	if stride == 0 {
		stride = offset
	}
	return []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    stride,
		InputRate: vk.VertexInputRateVertex,
	}}, attrs
}

func colorWriteMask(a glgpu.ColorBlendAttachment) vk.ColorComponentFlags {
	var m vk.ColorComponentFlagBits
	if a.WriteR {
		m |= vk.ColorComponentRBit
	}
	if a.WriteG {
		m |= vk.ColorComponentGBit
	}
	if a.WriteB {
		m |= vk.ColorComponentBBit
	}
	if a.WriteA {
		m |= vk.ColorComponentABit
	}
	return vk.ColorComponentFlags(m)
}

func stencilOp(s glgpu.StencilOperationState) vk.StencilOpState {
	return vk.StencilOpState{
		FailOp:      vk.StencilOp(s.Fail),
		PassOp:      vk.StencilOp(s.Pass),
		DepthFailOp: vk.StencilOp(s.DepthFail),
		CompareOp:   vk.CompareOp(s.Compare),
		CompareMask: s.CompareMask,
		WriteMask:   s.WriteMask,
		Reference:   s.Reference,
	}
}

// RenderPipelineCreate builds a graphics pipeline. Viewport and scissor are always
// dynamic. Without a RenderPass the pipeline targets dynamic rendering with the formats
// in RenderingInfo.
func (b *backend) RenderPipelineCreate(info glgpu.RenderPipelineCreateInfo) (glgpu.Pipeline, error) {
	sh := b.shader(info.Shader)
	bindings, attrs := vertexInput(sh.inputs, info.VertexInputState.Stride)

	raster := info.RasterizationState
	polygon := vk.PolygonModeFill
	if raster.Wireframe {
		polygon = vk.PolygonModeLine
	}
	lineWidth := raster.LineWidth
	if lineWidth == 0 {
		lineWidth = 1
	}

	ms := info.MultisampleState
	var sampleMask []vk.SampleMask
	for _, m := range ms.SampleMask {
		sampleMask = append(sampleMask, vk.SampleMask(m))
	}

	ds := info.DepthStencilState
	blend := info.ColorBlendState
	attachments := make([]vk.PipelineColorBlendAttachmentState, len(blend.Attachments))
	for i, a := range blend.Attachments {
		attachments[i] = vk.PipelineColorBlendAttachmentState{
			BlendEnable:         vkBool(a.EnableBlend),
			SrcColorBlendFactor: vk.BlendFactor(a.SrcColorBlendFactor),
			DstColorBlendFactor: vk.BlendFactor(a.DstColorBlendFactor),
			ColorBlendOp:        vk.BlendOp(a.ColorBlendOp),
			SrcAlphaBlendFactor: vk.BlendFactor(a.SrcAlphaBlendFactor),
			DstAlphaBlendFactor: vk.BlendFactor(a.DstAlphaBlendFactor),
			AlphaBlendOp:        vk.BlendOp(a.AlphaBlendOp),
			ColorWriteMask:      colorWriteMask(a),
		}
	}
	dynamic := vkDynamicStates(info.DynamicState)

	ci := vk.GraphicsPipelineCreateInfo{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(sh.stages)),
		PStages:    sh.stageInfos(),
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   uint32(len(bindings)),
			PVertexBindingDescriptions:      bindings,
			VertexAttributeDescriptionCount: uint32(len(attrs)),
			PVertexAttributeDescriptions:    attrs,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: vk.PrimitiveTopology(info.Primitive),
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
			DepthClampEnable:        vkBool(raster.EnableDepthClamp),
			RasterizerDiscardEnable: vkBool(raster.DiscardPrimitives),
			PolygonMode:             polygon,
			CullMode:                vk.CullModeFlags(raster.CullMode),
			FrontFace:               vkFrontFace(raster.FrontFace),
			DepthBiasEnable:         vkBool(raster.DepthBiasEnabled),
			DepthBiasConstantFactor: raster.DepthBiasConstantFactor,
			DepthBiasClamp:          raster.DepthBiasClamp,
			DepthBiasSlopeFactor:    raster.DepthBiasSlopeFactor,
			LineWidth:               lineWidth,
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples:  vkSampleCount(max(ms.SampleCount, 1)),
			SampleShadingEnable:   vkBool(ms.EnableSampleShading),
			MinSampleShading:      ms.MinSampleShading,
			PSampleMask:           sampleMask,
			AlphaToCoverageEnable: vkBool(ms.EnableAlphaToCoverage),
			AlphaToOneEnable:      vkBool(ms.EnableAlphaToOne),
		},
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:       vkBool(ds.EnableDepthTest),
			DepthWriteEnable:      vkBool(ds.EnableDepthWrite),
			DepthCompareOp:        vk.CompareOp(ds.DepthCompareOperator),
			DepthBoundsTestEnable: vkBool(ds.EnableDepthRange),
			StencilTestEnable:     vkBool(ds.EnableStencil),
			Front:                 stencilOp(ds.FrontOp),
			Back:                  stencilOp(ds.BackOp),
			MinDepthBounds:        ds.DepthRangeMin,
			MaxDepthBounds:        ds.DepthRangeMax,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			LogicOpEnable:   vkBool(blend.EnableLogicOp),
			LogicOp:         vk.LogicOp(blend.LogicOp),
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			BlendConstants: [4]float32{
				blend.BlendConstant.X, blend.BlendConstant.Y, blend.BlendConstant.Z, blend.BlendConstant.W,
			},
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: uint32(len(dynamic)),
			PDynamicStates:    dynamic,
		},
		Layout: sh.pipelineLayout,
	}

	if info.RenderPass != 0 {
		ci.RenderPass = b.renderPass(info.RenderPass).pass
	} else {
		rendering := &vk.PipelineRenderingCreateInfo{
			SType:                vk.StructureTypePipelineRenderingCreateInfo,
			ColorAttachmentCount: uint32(len(info.RenderingInfo.ColorAttachments)),
		}
		for _, f := range info.RenderingInfo.ColorAttachments {
			rendering.PColorAttachmentFormats = append(rendering.PColorAttachmentFormats, vk.Format(f))
		}
		if depth := info.RenderingInfo.DepthAttachment; depth != glgpu.FormatUndefined {
			rendering.DepthAttachmentFormat = vk.Format(depth)
			if glgpu.HasStencil(depth) {
				rendering.StencilAttachmentFormat = vk.Format(depth)
			}
		}
		ref, _ := rendering.PassRef()
		defer rendering.Free()
		ci.PNext = unsafe.Pointer(ref)
	}

	pipelines := make([]vk.Pipeline, 1)
	ret := vk.CreateGraphicsPipelines(b.device, vk.NullPipelineCache, 1, []vk.GraphicsPipelineCreateInfo{ci}, nil, pipelines)
	if err := wrapf(ret, "create render pipeline"); err != nil {
		return 0, err
	}
	return glgpu.Pipeline(b.resources.Alloc(&vkPipeline{
		pipeline:  pipelines[0],
		layout:    sh.pipelineLayout,
		bindPoint: vk.PipelineBindPointGraphics,
	})), nil
}

// ComputePipelineCreate builds a pipeline from the compute stage of s.
func (b *backend) ComputePipelineCreate(s glgpu.Shader) (glgpu.Pipeline, error) {
	sh := b.shader(s)
	var stage *vk.PipelineShaderStageCreateInfo
	infos := sh.stageInfos()
	for i := range sh.stages {
		if sh.stages[i].stage == glgpu.ShaderStageCompute {
			stage = &infos[i]
		}
	}
	if stage == nil {
		return 0, errors.Errorf("vulkan: shader %d has no compute stage", s)
	}
	pipelines := make([]vk.Pipeline, 1)
	ret := vk.CreateComputePipelines(b.device, vk.NullPipelineCache, 1, []vk.ComputePipelineCreateInfo{{
		SType:  vk.StructureTypeComputePipelineCreateInfo,
		Stage:  *stage,
		Layout: sh.pipelineLayout,
	}}, nil, pipelines)
	if err := wrapf(ret, "create compute pipeline"); err != nil {
		return 0, err
	}
	return glgpu.Pipeline(b.resources.Alloc(&vkPipeline{
		pipeline:  pipelines[0],
		layout:    sh.pipelineLayout,
		bindPoint: vk.PipelineBindPointCompute,
	})), nil
}

// PipelineFree destroys the pipeline. The layout belongs to the shader.
func (b *backend) PipelineFree(p glgpu.Pipeline) {
	pl := b.pipeline(p)
	b.resources.Free(uint32(p))
	vk.DestroyPipeline(b.device, pl.pipeline, nil)
}
