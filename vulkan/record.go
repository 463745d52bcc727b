package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
)

// The recording wrappers are stateless: they resolve handles and emit the matching
// vkCmd* call. Layout tracking is the caller's job.

func imageBarrier(cmd vk.CommandBuffer, img *vkImage, from, to glgpu.ImageLayout, baseMip, levels uint32) {
	src := accessForLayout(from, true)
	dst := accessForLayout(to, false)
	vk.CmdPipelineBarrier(cmd, src.stage, dst.stage, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       src.access,
		DstAccessMask:       dst.access,
		OldLayout:           vk.ImageLayout(from),
		NewLayout:           vk.ImageLayout(to),
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img.image,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:   img.aspect,
			BaseMipLevel: baseMip,
			LevelCount:   levels,
			LayerCount:   1,
		},
	}})
}

// blit copies srcMip of src (TRANSFER_SRC) into dstMip of dst (TRANSFER_DST) with linear
// filtering.
func blit(cmd vk.CommandBuffer, src, dst *vkImage, srcSize, dstSize glgpu.Vec2u, srcMip, dstMip uint32) {
	region := vk.ImageBlit{
		SrcSubresource: vk.ImageSubresourceLayers{AspectMask: src.aspect, MipLevel: srcMip, LayerCount: 1},
		SrcOffsets:     [2]vk.Offset3D{{}, {X: int32(srcSize.X), Y: int32(srcSize.Y), Z: 1}},
		DstSubresource: vk.ImageSubresourceLayers{AspectMask: dst.aspect, MipLevel: dstMip, LayerCount: 1},
		DstOffsets:     [2]vk.Offset3D{{}, {X: int32(dstSize.X), Y: int32(dstSize.Y), Z: 1}},
	}
	vk.CmdBlitImage(cmd,
		src.image, vk.ImageLayoutTransferSrcOptimal,
		dst.image, vk.ImageLayoutTransferDstOptimal,
		1, []vk.ImageBlit{region}, vk.FilterLinear)
}

func (b *backend) CommandBeginRenderPass(cmd glgpu.CommandBuffer, rp glgpu.RenderPass, fb glgpu.FrameBuffer, extent glgpu.Vec2u, clear glgpu.Color) {
	pass := b.renderPass(rp)
	clears := make([]vk.ClearValue, len(pass.depth))
	for i, depth := range pass.depth {
		if depth {
			clears[i] = vk.NewClearDepthStencil(1, 0)
		} else {
			clears[i] = vkClearColor(clear)
		}
	}
	vk.CmdBeginRenderPass(vk.CommandBuffer(cmd), &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      pass.pass,
		Framebuffer:     b.framebuffer(fb),
		RenderArea:      vk.Rect2D{Extent: vkExtent2D(extent)},
		ClearValueCount: uint32(len(clears)),
		PClearValues:    clears,
	}, vk.SubpassContentsInline)
}

func (b *backend) CommandEndRenderPass(cmd glgpu.CommandBuffer) {
	vk.CmdEndRenderPass(vk.CommandBuffer(cmd))
}

// CommandBeginRendering starts a dynamic rendering scope. depth, when set, is cleared to
// 1 and must be in DEPTH_STENCIL_ATTACHMENT_OPTIMAL.
func (b *backend) CommandBeginRendering(cmd glgpu.CommandBuffer, extent glgpu.Vec2u, colors []glgpu.RenderingAttachment, depth glgpu.Image) {
	attachments := make([]vk.RenderingAttachmentInfo, len(colors))
	for i, c := range colors {
		attachments[i] = vk.RenderingAttachmentInfo{
			SType:       vk.StructureTypeRenderingAttachmentInfo,
			ImageView:   b.image(c.Image).view,
			ImageLayout: vk.ImageLayout(c.Layout),
			LoadOp:      vk.AttachmentLoadOp(c.LoadOp),
			StoreOp:     vk.AttachmentStoreOp(c.StoreOp),
			ClearValue:  vkClearColor(c.ClearColor),
		}
		if c.ResolveMode != glgpu.ResolveModeNone && c.ResolveImage != 0 {
			attachments[i].ResolveMode = vk.ResolveModeFlagBits(c.ResolveMode)
			attachments[i].ResolveImageView = b.image(c.ResolveImage).view
			attachments[i].ResolveImageLayout = vk.ImageLayout(c.ResolveLayout)
		}
	}
	info := vk.RenderingInfo{
		SType:                vk.StructureTypeRenderingInfo,
		RenderArea:           vk.Rect2D{Extent: vkExtent2D(extent)},
		LayerCount:           1,
		ColorAttachmentCount: uint32(len(attachments)),
		PColorAttachments:    attachments,
	}
	if depth != 0 {
		info.PDepthAttachment = []vk.RenderingAttachmentInfo{{
			SType:       vk.StructureTypeRenderingAttachmentInfo,
			ImageView:   b.image(depth).view,
			ImageLayout: vk.ImageLayoutDepthStencilAttachmentOptimal,
			LoadOp:      vk.AttachmentLoadOpClear,
			StoreOp:     vk.AttachmentStoreOpDontCare,
			ClearValue:  vk.NewClearDepthStencil(1, 0),
		}}
	}
	b.procs.cmdBeginRendering(vk.CommandBuffer(cmd), &info)
}

func (b *backend) CommandEndRendering(cmd glgpu.CommandBuffer) {
	b.procs.cmdEndRendering(vk.CommandBuffer(cmd))
}

func (b *backend) CommandBindGraphicsPipeline(cmd glgpu.CommandBuffer, p glgpu.Pipeline) {
	vk.CmdBindPipeline(vk.CommandBuffer(cmd), vk.PipelineBindPointGraphics, b.pipeline(p).pipeline)
}

func (b *backend) CommandBindComputePipeline(cmd glgpu.CommandBuffer, p glgpu.Pipeline) {
	vk.CmdBindPipeline(vk.CommandBuffer(cmd), vk.PipelineBindPointCompute, b.pipeline(p).pipeline)
}

// CommandBindVertexBuffers binds buffers from firstBinding. Missing offsets are zero.
func (b *backend) CommandBindVertexBuffers(cmd glgpu.CommandBuffer, firstBinding uint32, buffers []glgpu.Buffer, offsets []uint64) {
	if len(buffers) == 0 {
		return
	}
	bufs := make([]vk.Buffer, len(buffers))
	offs := make([]vk.DeviceSize, len(buffers))
	for i, h := range buffers {
		bufs[i] = b.buffer(h).buffer
		if i < len(offsets) {
			offs[i] = vk.DeviceSize(offsets[i])
		}
	}
	vk.CmdBindVertexBuffers(vk.CommandBuffer(cmd), firstBinding, uint32(len(bufs)), bufs, offs)
}

func (b *backend) CommandBindIndexBuffer(cmd glgpu.CommandBuffer, buf glgpu.Buffer, offset uint64, indexType glgpu.IndexType) {
	vk.CmdBindIndexBuffer(vk.CommandBuffer(cmd), b.buffer(buf).buffer, vk.DeviceSize(offset), vkIndexType(indexType))
}

func (b *backend) CommandBindUniformSets(cmd glgpu.CommandBuffer, s glgpu.Shader, firstSet uint32, sets []glgpu.UniformSet, bind glgpu.PipelineType) {
	if len(sets) == 0 {
		return
	}
	point := vk.PipelineBindPointGraphics
	if bind == glgpu.PipelineCompute {
		point = vk.PipelineBindPointCompute
	}
	native := make([]vk.DescriptorSet, len(sets))
	for i, h := range sets {
		native[i] = b.uniformSet(h).set
	}
	vk.CmdBindDescriptorSets(vk.CommandBuffer(cmd), point, b.shader(s).pipelineLayout,
		firstSet, uint32(len(native)), native, 0, nil)
}

// CommandPushConstants writes data at offset into the push constant block of s, visible
// to every stage that declares it.
func (b *backend) CommandPushConstants(cmd glgpu.CommandBuffer, s glgpu.Shader, offset uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	sh := b.shader(s)
	vk.CmdPushConstants(vk.CommandBuffer(cmd), sh.pipelineLayout,
		vk.ShaderStageFlags(sh.layout.PushConstantStages), offset, uint32(len(data)), bytesPointer(data))
}

func (b *backend) CommandDraw(cmd glgpu.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	vk.CmdDraw(vk.CommandBuffer(cmd), vertexCount, instanceCount, firstVertex, firstInstance)
}

func (b *backend) CommandDrawIndexed(cmd glgpu.CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	vk.CmdDrawIndexed(vk.CommandBuffer(cmd), indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

func (b *backend) CommandDrawIndexedIndirect(cmd glgpu.CommandBuffer, buf glgpu.Buffer, offset uint64, drawCount, stride uint32) {
	vk.CmdDrawIndexedIndirect(vk.CommandBuffer(cmd), b.buffer(buf).buffer, vk.DeviceSize(offset), drawCount, stride)
}

func (b *backend) CommandDispatch(cmd glgpu.CommandBuffer, x, y, z uint32) {
	vk.CmdDispatch(vk.CommandBuffer(cmd), x, y, z)
}

func (b *backend) CommandSetViewport(cmd glgpu.CommandBuffer, size glgpu.Vec2u) {
	vk.CmdSetViewport(vk.CommandBuffer(cmd), 0, 1, []vk.Viewport{{
		Width:    float32(size.X),
		Height:   float32(size.Y),
		MinDepth: 0,
		MaxDepth: 1,
	}})
}

func (b *backend) CommandSetScissor(cmd glgpu.CommandBuffer, size, offset glgpu.Vec2u) {
	vk.CmdSetScissor(vk.CommandBuffer(cmd), 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: int32(offset.X), Y: int32(offset.Y)},
		Extent: vkExtent2D(size),
	}})
}

func (b *backend) CommandSetDepthBias(cmd glgpu.CommandBuffer, constant, clamp, slope float32) {
	vk.CmdSetDepthBias(vk.CommandBuffer(cmd), constant, clamp, slope)
}

// CommandClearColor clears every level of img, which must be in GENERAL layout. A zero
// aspect clears the color aspect.
func (b *backend) CommandClearColor(cmd glgpu.CommandBuffer, h glgpu.Image, c glgpu.Color, aspect glgpu.ImageAspectFlags) {
	if aspect == 0 {
		aspect = glgpu.ImageAspectColor
	}
	color := vkClearColorValue(c)
	vk.CmdClearColorImage(vk.CommandBuffer(cmd), b.image(h).image, vk.ImageLayoutGeneral,
		&color, 1, []vk.ImageSubresourceRange{{
			AspectMask: vk.ImageAspectFlags(aspect),
			LevelCount: vk.RemainingMipLevels,
			LayerCount: vk.RemainingArrayLayers,
		}})
}

func (b *backend) CommandCopyBuffer(cmd glgpu.CommandBuffer, src, dst glgpu.Buffer, regions []glgpu.BufferCopyRegion) {
	if len(regions) == 0 {
		return
	}
	copies := make([]vk.BufferCopy, len(regions))
	for i, r := range regions {
		copies[i] = vk.BufferCopy{
			SrcOffset: vk.DeviceSize(r.SrcOffset),
			DstOffset: vk.DeviceSize(r.DstOffset),
			Size:      vk.DeviceSize(r.Size),
		}
	}
	vk.CmdCopyBuffer(vk.CommandBuffer(cmd), b.buffer(src).buffer, b.buffer(dst).buffer, uint32(len(copies)), copies)
}

// CommandBufferMemoryBarrier orders work using buf as srcUsage before work using it as
// dstUsage.
func (b *backend) CommandBufferMemoryBarrier(cmd glgpu.CommandBuffer, srcUsage, dstUsage glgpu.BufferUsageFlags, buf glgpu.Buffer) {
	src, dst := bufferAccess(srcUsage), bufferAccess(dstUsage)
	vk.CmdPipelineBarrier(vk.CommandBuffer(cmd), src.stage, dst.stage, 0, 0, nil, 1, []vk.BufferMemoryBarrier{{
		SType:               vk.StructureTypeBufferMemoryBarrier,
		SrcAccessMask:       src.access,
		DstAccessMask:       dst.access,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Buffer:              b.buffer(buf).buffer,
		Size:                vk.DeviceSize(vk.WholeSize),
	}}, 0, nil)
}

// CommandCopyBufferToImage copies into dst, which must be in TRANSFER_DST_OPTIMAL. A zero
// aspect in a region selects the image aspect.
func (b *backend) CommandCopyBufferToImage(cmd glgpu.CommandBuffer, src glgpu.Buffer, dst glgpu.Image, regions []glgpu.BufferImageCopyRegion) {
	if len(regions) == 0 {
		return
	}
	img := b.image(dst)
	copies := make([]vk.BufferImageCopy, len(regions))
	for i, r := range regions {
		aspect := vk.ImageAspectFlags(r.ImageSubresource.AspectMask)
		if aspect == 0 {
			aspect = img.aspect
		}
		copies[i] = vk.BufferImageCopy{
			BufferOffset:      vk.DeviceSize(r.BufferOffset),
			BufferRowLength:   r.BufferRowLength,
			BufferImageHeight: r.BufferImageHeight,
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask:     aspect,
				MipLevel:       r.ImageSubresource.MipLevel,
				BaseArrayLayer: r.ImageSubresource.BaseArrayLayer,
				LayerCount:     max(r.ImageSubresource.LayerCount, 1),
			},
			ImageOffset: vk.Offset3D{X: int32(r.ImageOffset.X), Y: int32(r.ImageOffset.Y), Z: int32(r.ImageOffset.Z)},
			ImageExtent: vk.Extent3D{Width: r.ImageExtent.X, Height: r.ImageExtent.Y, Depth: max(r.ImageExtent.Z, 1)},
		}
	}
	vk.CmdCopyBufferToImage(vk.CommandBuffer(cmd), b.buffer(src).buffer, img.image,
		vk.ImageLayoutTransferDstOptimal, uint32(len(copies)), copies)
}

// CommandCopyImageToImage blits srcMip of src into dstMip of dst, scaling srcExtent to
// dstExtent. src must be in TRANSFER_SRC_OPTIMAL and dst in TRANSFER_DST_OPTIMAL.
func (b *backend) CommandCopyImageToImage(cmd glgpu.CommandBuffer, src, dst glgpu.Image, srcExtent, dstExtent glgpu.Vec2u, srcMip, dstMip uint32) {
	blit(vk.CommandBuffer(cmd), b.image(src), b.image(dst), srcExtent, dstExtent, srcMip, dstMip)
}

// CommandTransitionImage moves levelCount levels from baseMip from one layout to another.
// glgpu.RemainingMipLevels selects every level from baseMip.
func (b *backend) CommandTransitionImage(cmd glgpu.CommandBuffer, h glgpu.Image, from, to glgpu.ImageLayout, baseMip, levelCount uint32) {
	imageBarrier(vk.CommandBuffer(cmd), b.image(h), from, to, baseMip, levelCount)
}
