package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
	"github.com/andewx/glgpu/internal/surface"
)

type vkSwapchain struct {
	swapchain  vk.Swapchain
	format     glgpu.DataFormat
	colorSpace vk.ColorSpace
	extent     glgpu.Vec2u
	images     []glgpu.Image
	acquired   uint32
	state      surface.State
}

// SwapchainCreate returns an uninitialized swapchain. SwapchainResize builds its images.
func (b *backend) SwapchainCreate() glgpu.Swapchain {
	return glgpu.Swapchain(b.swapchains.Alloc(&vkSwapchain{state: surface.Uninitialized}))
}

func (b *backend) surfaceCapabilities() (surface.Capabilities, vk.SurfaceCapabilities) {
	var caps vk.SurfaceCapabilities
	orFatal("query surface capabilities", vk.GetPhysicalDeviceSurfaceCapabilities(b.gpu, b.surface, &caps))
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return surface.Capabilities{
		MinImageCount:  caps.MinImageCount,
		MaxImageCount:  caps.MaxImageCount,
		CurrentExtent:  surface.Extent{Width: caps.CurrentExtent.Width, Height: caps.CurrentExtent.Height},
		MinImageExtent: surface.Extent{Width: caps.MinImageExtent.Width, Height: caps.MinImageExtent.Height},
		MaxImageExtent: surface.Extent{Width: caps.MaxImageExtent.Width, Height: caps.MaxImageExtent.Height},
	}, caps
}

func (b *backend) surfaceFormats() []surface.Format {
	var count uint32
	orFatal("query surface formats", vk.GetPhysicalDeviceSurfaceFormats(b.gpu, b.surface, &count, nil))
	list := make([]vk.SurfaceFormat, count)
	orFatal("query surface formats", vk.GetPhysicalDeviceSurfaceFormats(b.gpu, b.surface, &count, list))
	formats := make([]surface.Format, count)
	for i := range list {
		list[i].Deref()
		formats[i] = surface.Format{
			Format:     glgpu.DataFormat(list[i].Format),
			ColorSpace: surface.ColorSpace(list[i].ColorSpace),
		}
	}
	return formats
}

func (b *backend) presentModes() []surface.PresentMode {
	var count uint32
	orFatal("query present modes", vk.GetPhysicalDeviceSurfacePresentModes(b.gpu, b.surface, &count, nil))
	list := make([]vk.PresentMode, count)
	orFatal("query present modes", vk.GetPhysicalDeviceSurfacePresentModes(b.gpu, b.surface, &count, list))
	modes := make([]surface.PresentMode, count)
	for i, m := range list {
		modes[i] = surface.PresentMode(m)
	}
	return modes
}

func compositeAlpha(supported vk.CompositeAlphaFlags) vk.CompositeAlphaFlagBits {
	// One of these is guaranteed to be set.
	for _, bit := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if supported&vk.CompositeAlphaFlags(bit) != 0 {
			return bit
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

func preTransform(caps vk.SurfaceCapabilities) vk.SurfaceTransformFlagBits {
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		return vk.SurfaceTransformIdentityBit
	}
	return caps.CurrentTransform
}

// SwapchainResize rebuilds sc for size. The old chain is handed to the driver as
// oldSwapchain and released only once the new one exists. Driver failures are fatal.
func (b *backend) SwapchainResize(queue glgpu.CommandQueue, sc glgpu.Swapchain, size glgpu.Vec2u, vsync bool) {
	if b.surface == vk.NullSurface {
		glgpu.Log().Warnf("vulkan: swapchain resize on a headless backend")
		return
	}
	s := b.swapchain(sc)
	if !s.state.CanResize() {
		glgpu.Log().Warnf("vulkan: resize of a %s swapchain", s.state)
		return
	}
	b.DeviceWait()

	caps, vkCaps := b.surfaceCapabilities()
	extent := surface.ChooseExtent(caps, size)
	if extent.Width == 0 || extent.Height == 0 {
		glgpu.Log().Debugf("vulkan: surface has zero extent, keeping the current swapchain")
		return
	}
	format, ok := surface.ChooseFormat(b.surfaceFormats())
	if !ok {
		glgpu.Fatal("create swapchain", glgpu.ErrorSurfaceSwapchainNotSupported)
	}
	mode := surface.ChoosePresentMode(b.presentModes(), vsync)

	info := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          b.surface,
		MinImageCount:    surface.ChooseImageCount(caps),
		ImageFormat:      vk.Format(format.Format),
		ImageColorSpace:  vk.ColorSpace(format.ColorSpace),
		ImageExtent:      vk.Extent2D{Width: extent.Width, Height: extent.Height},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferDstBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     preTransform(vkCaps),
		CompositeAlpha:   compositeAlpha(vkCaps.SupportedCompositeAlpha),
		PresentMode:      vk.PresentMode(mode),
		Clipped:          vk.True,
		OldSwapchain:     s.swapchain,
	}
	graphics, present := uint32(b.indices.Graphics), uint32(b.indices.Present)
	if graphics != present {
		info.ImageSharingMode = vk.SharingModeConcurrent
		info.QueueFamilyIndexCount = 2
		info.PQueueFamilyIndices = []uint32{graphics, present}
	}

	var swapchain vk.Swapchain
	orFatal("create swapchain", vk.CreateSwapchain(b.device, &info, nil, &swapchain))

	b.releaseSwapchainImages(s)
	if s.swapchain != vk.NullSwapchain {
		vk.DestroySwapchain(b.device, s.swapchain, nil)
	}
	s.swapchain = swapchain
	s.format = format.Format
	s.colorSpace = vk.ColorSpace(format.ColorSpace)
	s.extent = glgpu.Vec2u{X: extent.Width, Y: extent.Height}
	s.acquired = 0

	var count uint32
	orFatal("get swapchain images", vk.GetSwapchainImages(b.device, swapchain, &count, nil))
	images := make([]vk.Image, count)
	orFatal("get swapchain images", vk.GetSwapchainImages(b.device, swapchain, &count, images))
	for _, img := range images {
		view, err := b.createView(img, format.Format, vk.ImageAspectFlags(vk.ImageAspectColorBit), 1)
		glgpu.Fatal("create swapchain image view", err)
		s.images = append(s.images, glgpu.Image(b.resources.Alloc(&vkImage{
			image:     img,
			view:      view,
			format:    format.Format,
			size:      s.extent,
			mipLevels: 1,
			samples:   1,
			aspect:    vk.ImageAspectFlags(vk.ImageAspectColorBit),
			borrowed:  true,
		})))
	}
	s.state = surface.Ready
	glgpu.Log().Debugf("vulkan: swapchain %dx%d, %d images, format %d, %s",
		extent.Width, extent.Height, count, format.Format, mode)
}

func (b *backend) releaseSwapchainImages(s *vkSwapchain) {
	for _, h := range s.images {
		if img, ok := b.resources.Free(uint32(h)); ok {
			vk.DestroyImageView(b.device, img.(*vkImage).view, nil)
		}
	}
	s.images = nil
}

// SwapchainAcquireImage waits for the next image and returns it with its index. sem is
// signalled when the image may be written.
func (b *backend) SwapchainAcquireImage(sc glgpu.Swapchain, sem glgpu.Semaphore) (glgpu.Image, uint32, error) {
	s := b.swapchain(sc)
	if !s.state.CanAcquire() {
		return 0, 0, glgpu.ErrorSwapchainOutOfDate
	}
	signal := vk.NullSemaphore
	if sem != 0 {
		signal = b.semaphore(sem)
	}
	var index uint32
	ret := vk.AcquireNextImage(b.device, s.swapchain, vk.MaxUint64, signal, vk.NullFence, &index)
	if err := acquireError(ret); err != nil {
		return 0, 0, err
	}
	s.acquired = index
	return s.images[index], index, nil
}

// acquireError maps an acquire result to the error for the caller. A suboptimal
// swapchain is treated as out of date so the caller resizes.
func acquireError(ret vk.Result) error {
	switch ret {
	case vk.Success:
		return nil
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return glgpu.ErrorSwapchainOutOfDate
	}
	return wrapf(ret, "acquire swapchain image")
}

func (b *backend) SwapchainGetImageCount(sc glgpu.Swapchain) uint32 {
	return uint32(len(b.swapchain(sc).images))
}

func (b *backend) SwapchainGetImages(sc glgpu.Swapchain) []glgpu.Image {
	return append([]glgpu.Image(nil), b.swapchain(sc).images...)
}

func (b *backend) SwapchainGetExtent(sc glgpu.Swapchain) glgpu.Vec2u {
	return b.swapchain(sc).extent
}

func (b *backend) SwapchainGetFormat(sc glgpu.Swapchain) glgpu.DataFormat {
	return b.swapchain(sc).format
}

func (b *backend) SwapchainFree(sc glgpu.Swapchain) {
	s, ok := b.swapchains.Free(uint32(sc))
	if !ok {
		return
	}
	b.destroySwapchain(s)
}

func (b *backend) destroySwapchain(s *vkSwapchain) {
	b.releaseSwapchainImages(s)
	if s.swapchain != vk.NullSwapchain {
		vk.DestroySwapchain(b.device, s.swapchain, nil)
		s.swapchain = vk.NullSwapchain
	}
	s.state = surface.Destroyed
}

// freeSwapchains destroys the swapchains the caller did not free.
func (b *backend) freeSwapchains() {
	b.swapchains.Each(func(h uint32, s *vkSwapchain) {
		b.swapchains.Free(h)
		b.destroySwapchain(s)
	})
}
