package glgpu

// AttachmentLoadOp values match VkAttachmentLoadOp.
type AttachmentLoadOp uint32

const (
	LoadOpLoad     AttachmentLoadOp = 0
	LoadOpClear    AttachmentLoadOp = 1
	LoadOpDontCare AttachmentLoadOp = 2
	LoadOpNone     AttachmentLoadOp = 1000400000
)

// AttachmentStoreOp values match VkAttachmentStoreOp.
type AttachmentStoreOp uint32

const (
	StoreOpStore    AttachmentStoreOp = 0
	StoreOpDontCare AttachmentStoreOp = 1
	StoreOpNone     AttachmentStoreOp = 1000301000
)

// RenderPassAttachment describes one attachment of a legacy render pass.
type RenderPassAttachment struct {
	Format            DataFormat
	LoadOp            AttachmentLoadOp
	StoreOp           AttachmentStoreOp
	FinalLayout       ImageLayout
	SampleCount       uint32
	IsDepthAttachment bool
}

type SubpassAttachmentType int

const (
	SubpassAttachmentColor SubpassAttachmentType = iota
	SubpassAttachmentDepthStencil
	SubpassAttachmentInput
)

type SubpassAttachment struct {
	AttachmentIndex uint32
	Type            SubpassAttachmentType
}

type SubpassInfo struct {
	Attachments []SubpassAttachment
}

// ResolveModeFlags values match VkResolveModeFlagBits.
type ResolveModeFlags uint32

const (
	ResolveModeNone       ResolveModeFlags = 0
	ResolveModeSampleZero ResolveModeFlags = 0x00000001
	ResolveModeAverage    ResolveModeFlags = 0x00000002
	ResolveModeMin        ResolveModeFlags = 0x00000004
	ResolveModeMax        ResolveModeFlags = 0x00000008
)

type ImageResolve struct {
	SrcSubresource ImageSubresourceLayers
	SrcOffset      Vec3i
	DstSubresource ImageSubresourceLayers
	DstOffset      Vec3i
	Extent         Vec3u
}

// RenderingAttachment is one color target of a dynamic rendering scope.
type RenderingAttachment struct {
	Image      Image
	Layout     ImageLayout
	LoadOp     AttachmentLoadOp
	StoreOp    AttachmentStoreOp
	ClearColor Color

	ResolveMode   ResolveModeFlags
	ResolveImage  Image
	ResolveLayout ImageLayout
}

// NewRenderingAttachment returns a color attachment in COLOR_ATTACHMENT_OPTIMAL that
// clears to c and stores its result.
func NewRenderingAttachment(img Image, c Color) RenderingAttachment {
	return RenderingAttachment{
		Image:         img,
		Layout:        ImageLayoutColorAttachmentOptimal,
		LoadOp:        LoadOpClear,
		StoreOp:       StoreOpStore,
		ClearColor:    c,
		ResolveLayout: ImageLayoutColorAttachmentOptimal,
	}
}
