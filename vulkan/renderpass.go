package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"

	"github.com/andewx/glgpu"
)

// RenderPassCreate builds a legacy render pass. Every attachment starts UNDEFINED, and
// one external dependency orders the pass after earlier attachment writes.
func (b *backend) RenderPassCreate(attachments []glgpu.RenderPassAttachment, subpasses []glgpu.SubpassInfo) (glgpu.RenderPass, error) {
	if len(subpasses) == 0 {
		return 0, errors.New("vulkan: render pass without subpasses")
	}
	descs := make([]vk.AttachmentDescription, len(attachments))
	depth := make([]bool, len(attachments))
	for i, a := range attachments {
		descs[i] = vk.AttachmentDescription{
			Format:         vk.Format(a.Format),
			Samples:        vkSampleCount(max(a.SampleCount, 1)),
			LoadOp:         vk.AttachmentLoadOp(a.LoadOp),
			StoreOp:        vk.AttachmentStoreOp(a.StoreOp),
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayout(a.FinalLayout),
		}
		depth[i] = a.IsDepthAttachment
	}

	subs := make([]vk.SubpassDescription, len(subpasses))
	for i, sp := range subpasses {
		desc := vk.SubpassDescription{PipelineBindPoint: vk.PipelineBindPointGraphics}
		for _, a := range sp.Attachments {
			if int(a.AttachmentIndex) >= len(attachments) {
				return 0, errors.Errorf("vulkan: subpass %d references attachment %d of %d", i, a.AttachmentIndex, len(attachments))
			}
			switch a.Type {
			case glgpu.SubpassAttachmentColor:
				desc.PColorAttachments = append(desc.PColorAttachments, vk.AttachmentReference{
					Attachment: a.AttachmentIndex,
					Layout:     vk.ImageLayoutColorAttachmentOptimal,
				})
			case glgpu.SubpassAttachmentDepthStencil:
				desc.PDepthStencilAttachment = &vk.AttachmentReference{
					Attachment: a.AttachmentIndex,
					Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
				}
			case glgpu.SubpassAttachmentInput:
				desc.PInputAttachments = append(desc.PInputAttachments, vk.AttachmentReference{
					Attachment: a.AttachmentIndex,
					Layout:     vk.ImageLayoutShaderReadOnlyOptimal,
				})
			}
		}
		desc.ColorAttachmentCount = uint32(len(desc.PColorAttachments))
		desc.InputAttachmentCount = uint32(len(desc.PInputAttachments))
		subs[i] = desc
	}

	stages := vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit)
	var pass vk.RenderPass
	ret := vk.CreateRenderPass(b.device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(descs)),
		PAttachments:    descs,
		SubpassCount:    uint32(len(subs)),
		PSubpasses:      subs,
		DependencyCount: 1,
		PDependencies: []vk.SubpassDependency{{
			SrcSubpass:    vk.SubpassExternal,
			DstSubpass:    0,
			SrcStageMask:  stages,
			DstStageMask:  stages,
			DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit | vk.AccessDepthStencilAttachmentWriteBit),
		}},
	}, nil, &pass)
	if err := wrapf(ret, "create render pass"); err != nil {
		return 0, err
	}
	return glgpu.RenderPass(b.renderPasses.Alloc(&vkRenderPass{pass: pass, depth: depth})), nil
}

func (b *backend) RenderPassDestroy(rp glgpu.RenderPass) {
	if pass, ok := b.renderPasses.Free(uint32(rp)); ok {
		vk.DestroyRenderPass(b.device, pass.pass, nil)
	}
}

// FrameBufferCreate binds the views of attachments, in render pass order, to rp.
func (b *backend) FrameBufferCreate(rp glgpu.RenderPass, attachments []glgpu.Image, size glgpu.Vec2u) (glgpu.FrameBuffer, error) {
	views := make([]vk.ImageView, len(attachments))
	for i, h := range attachments {
		views[i] = b.image(h).view
	}
	var fb vk.Framebuffer
	ret := vk.CreateFramebuffer(b.device, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      b.renderPass(rp).pass,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           size.X,
		Height:          size.Y,
		Layers:          1,
	}, nil, &fb)
	if err := wrapf(ret, "create %dx%d framebuffer", size.X, size.Y); err != nil {
		return 0, err
	}
	return glgpu.FrameBuffer(b.framebuffers.Alloc(fb)), nil
}

func (b *backend) FrameBufferDestroy(fb glgpu.FrameBuffer) {
	if f, ok := b.framebuffers.Free(uint32(fb)); ok {
		vk.DestroyFramebuffer(b.device, f, nil)
	}
}
