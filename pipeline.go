package glgpu

type CompareOperator uint32

const (
	CompareNever CompareOperator = iota
	CompareLess
	CompareEqual
	CompareLessOrEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterOrEqual
	CompareAlways
)

type RenderPrimitive uint32

const (
	PrimitivePointList RenderPrimitive = iota
	PrimitiveLineList
	PrimitiveLineStrip
	PrimitiveTriangleList
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
	PrimitiveLineListWithAdjacency
	PrimitiveLineStripWithAdjacency
	PrimitiveTriangleListWithAdjacency
	PrimitiveTriangleStripWithAdjacency
	PrimitivePatchList
)

type PolygonCullMode uint32

const (
	CullDisabled PolygonCullMode = iota
	CullFront
	CullBack
)

type PolygonFrontFace uint32

const (
	FrontFaceClockwise PolygonFrontFace = iota
	FrontFaceCounterClockwise
)

type StencilOperator uint32

const (
	StencilKeep StencilOperator = iota
	StencilZero
	StencilReplace
	StencilIncrementAndClamp
	StencilDecrementAndClamp
	StencilInvert
	StencilIncrementAndWrap
	StencilDecrementAndWrap
)

type LogicOperator uint32

const (
	LogicClear LogicOperator = iota
	LogicAnd
	LogicAndReverse
	LogicCopy
	LogicAndInverted
	LogicNoOp
	LogicXor
	LogicOr
	LogicNor
	LogicEquivalent
	LogicInvert
	LogicOrReverse
	LogicCopyInverted
	LogicOrInverted
	LogicNand
	LogicSet
)

type BlendFactor uint32

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendConstantColor
	BlendOneMinusConstantColor
	BlendConstantAlpha
	BlendOneMinusConstantAlpha
	BlendSrcAlphaSaturate
	BlendSrc1Color
	BlendOneMinusSrc1Color
	BlendSrc1Alpha
	BlendOneMinusSrc1Alpha
)

type BlendOperation uint32

const (
	BlendOpAdd BlendOperation = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

// PipelineDynamicStateFlags selects extra dynamic states on top of viewport and scissor,
// which are always dynamic.
type PipelineDynamicStateFlags uint32

const (
	DynamicStateLineWidth          PipelineDynamicStateFlags = 0x00000001
	DynamicStateDepthBias          PipelineDynamicStateFlags = 0x00000002
	DynamicStateBlendConstants     PipelineDynamicStateFlags = 0x00000004
	DynamicStateDepthBounds        PipelineDynamicStateFlags = 0x00000008
	DynamicStateStencilCompareMask PipelineDynamicStateFlags = 0x00000010
	DynamicStateStencilWriteMask   PipelineDynamicStateFlags = 0x00000020
	DynamicStateStencilReference   PipelineDynamicStateFlags = 0x00000040
)

// PipelineVertexInputState describes the single interleaved vertex binding. Attribute
// offsets follow the reflected vertex inputs in location order.
type PipelineVertexInputState struct {
	Stride uint32
}

type PipelineRasterizationState struct {
	EnableDepthClamp        bool
	DiscardPrimitives       bool
	Wireframe               bool
	CullMode                PolygonCullMode
	FrontFace               PolygonFrontFace
	DepthBiasEnabled        bool
	DepthBiasConstantFactor float32
	DepthBiasClamp          float32
	DepthBiasSlopeFactor    float32
	LineWidth               float32
}

type PipelineMultisampleState struct {
	SampleCount           uint32
	EnableSampleShading   bool
	MinSampleShading      float32
	SampleMask            []uint32
	EnableAlphaToCoverage bool
	EnableAlphaToOne      bool
}

type StencilOperationState struct {
	Fail        StencilOperator
	Pass        StencilOperator
	DepthFail   StencilOperator
	Compare     CompareOperator
	CompareMask uint32
	WriteMask   uint32
	Reference   uint32
}

type PipelineDepthStencilState struct {
	EnableDepthTest      bool
	EnableDepthWrite     bool
	DepthCompareOperator CompareOperator
	EnableDepthRange     bool
	DepthRangeMin        float32
	DepthRangeMax        float32
	EnableStencil        bool
	FrontOp              StencilOperationState
	BackOp               StencilOperationState
}

type ColorBlendAttachment struct {
	EnableBlend         bool
	SrcColorBlendFactor BlendFactor
	DstColorBlendFactor BlendFactor
	ColorBlendOp        BlendOperation
	SrcAlphaBlendFactor BlendFactor
	DstAlphaBlendFactor BlendFactor
	AlphaBlendOp        BlendOperation
	WriteR              bool
	WriteG              bool
	WriteB              bool
	WriteA              bool
}

type PipelineColorBlendState struct {
	EnableLogicOp bool
	LogicOp       LogicOperator
	Attachments   []ColorBlendAttachment
	BlendConstant Vec4f
}

// ColorBlendDisabled returns n attachments writing every channel without blending.
func ColorBlendDisabled(n int) PipelineColorBlendState {
	var bs PipelineColorBlendState
	for i := 0; i < n; i++ {
		bs.Attachments = append(bs.Attachments, ColorBlendAttachment{
			WriteR: true, WriteG: true, WriteB: true, WriteA: true,
		})
	}
	return bs
}

// ColorBlendAlpha returns n attachments with standard source-over alpha blending.
func ColorBlendAlpha(n int) PipelineColorBlendState {
	var bs PipelineColorBlendState
	for i := 0; i < n; i++ {
		bs.Attachments = append(bs.Attachments, ColorBlendAttachment{
			EnableBlend:         true,
			SrcColorBlendFactor: BlendSrcAlpha,
			DstColorBlendFactor: BlendOneMinusSrcAlpha,
			SrcAlphaBlendFactor: BlendSrcAlpha,
			DstAlphaBlendFactor: BlendOneMinusSrcAlpha,
			WriteR:              true,
			WriteG:              true,
			WriteB:              true,
			WriteA:              true,
		})
	}
	return bs
}

// PipelineRenderingState lists attachment formats for dynamic rendering.
type PipelineRenderingState struct {
	ColorAttachments []DataFormat
	DepthAttachment  DataFormat
}

// RenderPipelineCreateInfo describes a graphics pipeline. When RenderPass is null the
// pipeline targets dynamic rendering with the formats in RenderingInfo.
type RenderPipelineCreateInfo struct {
	Shader    Shader
	Primitive RenderPrimitive

	VertexInputState   PipelineVertexInputState
	RasterizationState PipelineRasterizationState
	MultisampleState   PipelineMultisampleState
	DepthStencilState  PipelineDepthStencilState
	ColorBlendState    PipelineColorBlendState
	DynamicState       PipelineDynamicStateFlags

	RenderPass    RenderPass
	RenderingInfo PipelineRenderingState
}

// DefaultRenderPipelineCreateInfo fills the fixed function state with the usual defaults:
// triangle lists, no culling, one opaque color attachment.
func DefaultRenderPipelineCreateInfo(shader Shader) RenderPipelineCreateInfo {
	return RenderPipelineCreateInfo{
		Shader:    shader,
		Primitive: PrimitiveTriangleList,
		RasterizationState: PipelineRasterizationState{
			LineWidth: 1,
		},
		MultisampleState: PipelineMultisampleState{
			SampleCount: 1,
		},
		DepthStencilState: PipelineDepthStencilState{
			DepthCompareOperator: CompareAlways,
			DepthRangeMax:        1,
			FrontOp:              StencilOperationState{Compare: CompareAlways},
			BackOp:               StencilOperationState{Compare: CompareAlways},
		},
		ColorBlendState: ColorBlendDisabled(1),
	}
}
