package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"

	"github.com/andewx/glgpu"
	"github.com/andewx/glgpu/internal/mipmap"
)

func (b *backend) createView(img vk.Image, format glgpu.DataFormat, aspect vk.ImageAspectFlags, levels uint32) (vk.ImageView, error) {
	var view vk.ImageView
	ret := vk.CreateImageView(b.device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img,
		ViewType: vk.ImageViewType2d,
		Format:   vk.Format(format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspect,
			LevelCount: levels,
			LayerCount: 1,
		},
	}, nil, &view)
	if err := wrapf(ret, "create image view"); err != nil {
		return vk.NullImageView, err
	}
	return view, nil
}

// ImageCreate creates a device local 2D image. With Data the pixels are uploaded into
// level 0, the mip chain is generated when requested, and every level ends in
// SHADER_READ_ONLY_OPTIMAL. Without Data the image is left UNDEFINED.
func (b *backend) ImageCreate(info glgpu.ImageCreateInfo) (glgpu.Image, error) {
	if info.Size.X == 0 || info.Size.Y == 0 {
		return 0, errors.Errorf("vulkan: image size %dx%d", info.Size.X, info.Size.Y)
	}
	if info.Data != nil && uint64(len(info.Data)) < info.DataSize() {
		return 0, errors.Errorf("vulkan: %dx%d image needs %d bytes of data, got %d",
			info.Size.X, info.Size.Y, info.DataSize(), len(info.Data))
	}
	levels := uint32(1)
	if info.Mipmapped {
		levels = mipmap.Levels(info.Size.X, info.Size.Y)
	}
	usage := vk.ImageUsageFlags(info.Usage)
	if info.Data != nil || levels > 1 {
		usage |= vk.ImageUsageFlags(vk.ImageUsageTransferDstBit | vk.ImageUsageTransferSrcBit)
	}
	samples := vkSampleCount(max(info.Samples, 1))

	var image vk.Image
	ret := vk.CreateImage(b.device, &vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        vk.Format(info.Format),
		Extent:        vk.Extent3D{Width: info.Size.X, Height: info.Size.Y, Depth: 1},
		MipLevels:     levels,
		ArrayLayers:   1,
		Samples:       samples,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         usage,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &image)
	if err := wrapf(ret, "create %dx%d image", info.Size.X, info.Size.Y); err != nil {
		return 0, err
	}

	var reqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(b.device, image, &reqs)
	reqs.Deref()
	memory, _, err := b.allocateMemory(reqs, glgpu.MemoryGPU, false)
	if err != nil {
		vk.DestroyImage(b.device, image, nil)
		return 0, err
	}
	img := &vkImage{
		image:     image,
		memory:    memory,
		format:    info.Format,
		size:      info.Size,
		mipLevels: levels,
		samples:   uint32(samples),
		aspect:    aspectFor(info.Format),
	}
	if err := wrapf(vk.BindImageMemory(b.device, image, memory, 0), "bind image memory"); err != nil {
		b.destroyImage(img)
		return 0, err
	}
	if img.view, err = b.createView(image, info.Format, img.aspect, levels); err != nil {
		b.destroyImage(img)
		return 0, err
	}
	if info.Data != nil {
		if err := b.uploadImage(img, info.Data); err != nil {
			b.destroyImage(img)
			return 0, err
		}
	}
	return glgpu.Image(b.resources.Alloc(img)), nil
}

// uploadImage copies data into level 0 through a staging buffer and leaves every level
// shader readable.
func (b *backend) uploadImage(img *vkImage, data []byte) error {
	staging, err := b.createBuffer(uint64(len(data)), glgpu.BufferUsageTransferSrc, glgpu.MemoryCPU)
	if err != nil {
		return errors.Wrap(err, "image staging buffer")
	}
	defer b.destroyBuffer(staging)

	var ptr unsafe.Pointer
	if err := wrapf(vk.MapMemory(b.device, staging.memory, 0, vk.DeviceSize(vk.WholeSize), 0, &ptr), "map staging buffer"); err != nil {
		return err
	}
	staging.mapped = ptr
	copy(unsafe.Slice((*byte)(ptr), len(data)), data)
	if err := b.syncRange(staging, true); err != nil {
		return err
	}

	return b.graphics.run(func(cmd vk.CommandBuffer) {
		imageBarrier(cmd, img, glgpu.ImageLayoutUndefined, glgpu.ImageLayoutTransferDstOptimal, 0, img.mipLevels)
		vk.CmdCopyBufferToImage(cmd, staging.buffer, img.image, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{{
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask: img.aspect,
				LayerCount: 1,
			},
			ImageExtent: vk.Extent3D{Width: img.size.X, Height: img.size.Y, Depth: 1},
		}})
		for _, op := range mipmap.Plan(img.size, img.mipLevels) {
			switch op.Kind {
			case mipmap.OpTransition:
				imageBarrier(cmd, img, op.From, op.To, op.Level, 1)
			case mipmap.OpBlit:
				blit(cmd, img, img, op.SrcSize, op.DstSize, op.Level-1, op.Level)
			}
		}
	})
}

func (b *backend) destroyImage(img *vkImage) {
	if img.view != vk.NullImageView {
		vk.DestroyImageView(b.device, img.view, nil)
	}
	if img.borrowed {
		return
	}
	vk.DestroyImage(b.device, img.image, nil)
	if img.memory != vk.NullDeviceMemory {
		vk.FreeMemory(b.device, img.memory, nil)
	}
}

// ImageFree destroys an image created by ImageCreate. Swapchain images are owned by
// their swapchain and are ignored.
func (b *backend) ImageFree(h glgpu.Image) {
	img := b.image(h)
	if img.borrowed {
		glgpu.Log().Warnf("vulkan: ImageFree on swapchain image %d", h)
		return
	}
	b.resources.Free(uint32(h))
	b.destroyImage(img)
}

func (b *backend) ImageGetSize(h glgpu.Image) glgpu.Vec2u {
	return b.image(h).size
}

func (b *backend) ImageGetFormat(h glgpu.Image) glgpu.DataFormat {
	return b.image(h).format
}

func (b *backend) ImageGetMipLevels(h glgpu.Image) uint32 {
	return b.image(h).mipLevels
}

// SamplerCreate uses linear mip filtering over [0, MipLevels] when MipLevels is set.
func (b *backend) SamplerCreate(info glgpu.SamplerCreateInfo) (glgpu.Sampler, error) {
	ci := vk.SamplerCreateInfo{
		SType:        vk.StructureTypeSamplerCreateInfo,
		MagFilter:    vk.Filter(info.MagFilter),
		MinFilter:    vk.Filter(info.MinFilter),
		AddressModeU: vk.SamplerAddressMode(info.WrapU),
		AddressModeV: vk.SamplerAddressMode(info.WrapV),
		AddressModeW: vk.SamplerAddressMode(info.WrapW),
		MipmapMode:   vk.SamplerMipmapModeNearest,
		BorderColor:  vk.BorderColorFloatOpaqueBlack,
		CompareOp:    vk.CompareOpAlways,
		MaxLod:       0,
	}
	if info.MipLevels > 0 {
		ci.MipmapMode = vk.SamplerMipmapModeLinear
		ci.MaxLod = float32(info.MipLevels)
	}
	var sampler vk.Sampler
	if err := wrapf(vk.CreateSampler(b.device, &ci, nil, &sampler), "create sampler"); err != nil {
		return 0, err
	}
	return glgpu.Sampler(b.samplers.Alloc(sampler)), nil
}

func (b *backend) SamplerFree(s glgpu.Sampler) {
	if sampler, ok := b.samplers.Free(uint32(s)); ok {
		vk.DestroySampler(b.device, sampler, nil)
	}
}
