package glgpu

// ImageLayout values match VkImageLayout.
type ImageLayout uint32

const (
	ImageLayoutUndefined                     ImageLayout = 0
	ImageLayoutGeneral                       ImageLayout = 1
	ImageLayoutColorAttachmentOptimal        ImageLayout = 2
	ImageLayoutDepthStencilAttachmentOptimal ImageLayout = 3
	ImageLayoutDepthStencilReadOnlyOptimal   ImageLayout = 4
	ImageLayoutShaderReadOnlyOptimal         ImageLayout = 5
	ImageLayoutTransferSrcOptimal            ImageLayout = 6
	ImageLayoutTransferDstOptimal            ImageLayout = 7
	ImageLayoutPresentSrc                    ImageLayout = 1000001002
)

func (l ImageLayout) String() string {
	switch l {
	case ImageLayoutUndefined:
		return "UNDEFINED"
	case ImageLayoutGeneral:
		return "GENERAL"
	case ImageLayoutColorAttachmentOptimal:
		return "COLOR_ATTACHMENT_OPTIMAL"
	case ImageLayoutDepthStencilAttachmentOptimal:
		return "DEPTH_STENCIL_ATTACHMENT_OPTIMAL"
	case ImageLayoutDepthStencilReadOnlyOptimal:
		return "DEPTH_STENCIL_READ_ONLY_OPTIMAL"
	case ImageLayoutShaderReadOnlyOptimal:
		return "SHADER_READ_ONLY_OPTIMAL"
	case ImageLayoutTransferSrcOptimal:
		return "TRANSFER_SRC_OPTIMAL"
	case ImageLayoutTransferDstOptimal:
		return "TRANSFER_DST_OPTIMAL"
	case ImageLayoutPresentSrc:
		return "PRESENT_SRC"
	}
	return "UNKNOWN"
}

type ImageFiltering int

const (
	FilterNearest ImageFiltering = iota
	FilterLinear
)

type ImageWrappingMode int

const (
	WrapRepeat ImageWrappingMode = iota
	WrapMirroredRepeat
	WrapClampToEdge
	WrapClampToBorder
	WrapMirrorClampToEdge
)

// ImageAspectFlags values match VkImageAspectFlagBits.
type ImageAspectFlags uint32

const (
	ImageAspectColor   ImageAspectFlags = 0x00000001
	ImageAspectDepth   ImageAspectFlags = 0x00000002
	ImageAspectStencil ImageAspectFlags = 0x00000004
)

// ImageUsageFlags values match VkImageUsageFlagBits.
type ImageUsageFlags uint32

const (
	ImageUsageTransferSrc            ImageUsageFlags = 0x00000001
	ImageUsageTransferDst            ImageUsageFlags = 0x00000002
	ImageUsageSampled                ImageUsageFlags = 0x00000004
	ImageUsageStorage                ImageUsageFlags = 0x00000008
	ImageUsageColorAttachment        ImageUsageFlags = 0x00000010
	ImageUsageDepthStencilAttachment ImageUsageFlags = 0x00000020
)

type ImageSubresourceLayers struct {
	AspectMask     ImageAspectFlags
	MipLevel       uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// BufferImageCopyRegion describes a buffer to image copy.
type BufferImageCopyRegion struct {
	BufferOffset      uint64
	BufferRowLength   uint32
	BufferImageHeight uint32
	ImageSubresource  ImageSubresourceLayers
	ImageOffset       Vec3u
	ImageExtent       Vec3u
}

// ImageCreateInfo describes a 2D image. Data, when set, is uploaded into mip level 0
// and the image ends in ImageLayoutShaderReadOnlyOptimal.
type ImageCreateInfo struct {
	Format    DataFormat
	Size      Vec2u
	Data      []byte
	Usage     ImageUsageFlags
	Mipmapped bool
	Samples   uint32
}

// DataSize is the number of bytes Data must hold for mip level 0, or 0 when the format
// size is unknown.
func (i ImageCreateInfo) DataSize() uint64 {
	return uint64(i.Size.X) * uint64(i.Size.Y) * uint64(DataFormatSize(i.Format))
}

// DefaultImageCreateInfo returns a sampled, single-sample image description.
func DefaultImageCreateInfo(format DataFormat, size Vec2u) ImageCreateInfo {
	return ImageCreateInfo{
		Format:  format,
		Size:    size,
		Usage:   ImageUsageSampled,
		Samples: 1,
	}
}

type SamplerCreateInfo struct {
	MinFilter ImageFiltering
	MagFilter ImageFiltering
	WrapU     ImageWrappingMode
	WrapV     ImageWrappingMode
	WrapW     ImageWrappingMode
	MipLevels uint32
}

// DefaultSamplerCreateInfo is linear filtering with edge clamping.
func DefaultSamplerCreateInfo() SamplerCreateInfo {
	return SamplerCreateInfo{
		MinFilter: FilterLinear,
		MagFilter: FilterLinear,
		WrapU:     WrapClampToEdge,
		WrapV:     WrapClampToEdge,
		WrapW:     WrapClampToEdge,
	}
}
