package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
	"github.com/andewx/glgpu/internal/descpool"
	"github.com/andewx/glgpu/internal/spirv"
)

// resource is one entry of the shared arena behind Buffer, Image, Shader, Pipeline and
// UniformSet handles.
type resource interface {
	kind() string
}

type vkBuffer struct {
	buffer   vk.Buffer
	memory   vk.DeviceMemory
	memFlags vk.MemoryPropertyFlags
	size     uint64
	usage    glgpu.BufferUsageFlags
	alloc    glgpu.MemoryAllocationType
	address  glgpu.BufferDeviceAddress
	mapped   unsafe.Pointer
}

type vkImage struct {
	image     vk.Image
	memory    vk.DeviceMemory
	view      vk.ImageView
	format    glgpu.DataFormat
	size      glgpu.Vec2u
	mipLevels uint32
	samples   uint32
	aspect    vk.ImageAspectFlags
	// borrowed images belong to a swapchain; only the view is owned.
	borrowed bool
}

type shaderStage struct {
	module vk.ShaderModule
	stage  glgpu.ShaderStageFlags
	entry  string
}

type vkShader struct {
	stages         []shaderStage
	inputs         []glgpu.ShaderInterfaceVariable
	layout         spirv.Layout
	setLayouts     []vk.DescriptorSetLayout
	pipelineLayout vk.PipelineLayout
}

type vkPipeline struct {
	pipeline  vk.Pipeline
	layout    vk.PipelineLayout
	bindPoint vk.PipelineBindPoint
}

// vkRenderPass remembers which attachments are depth so begin can build clear values.
type vkRenderPass struct {
	pass  vk.RenderPass
	depth []bool
}

type vkUniformSet struct {
	set   vk.DescriptorSet
	entry *descpool.Entry[vk.DescriptorPool]
}

func (*vkBuffer) kind() string     { return "buffer" }
func (*vkImage) kind() string      { return "image" }
func (*vkShader) kind() string     { return "shader" }
func (*vkPipeline) kind() string   { return "pipeline" }
func (*vkUniformSet) kind() string { return "uniform set" }

// lookup returns the resource under h as T and panics when h is null, free or holds
// another kind.
func lookup[T resource](b *backend, h glgpu.Handle) T {
	r, ok := b.resources.Get(uint32(h))
	if !ok {
		panic(fmt.Sprintf("vulkan: invalid handle %d", h))
	}
	v, ok := r.(T)
	if !ok {
		var want T
		panic(fmt.Sprintf("vulkan: handle %d is a %s, not a %s", h, r.kind(), want.kind()))
	}
	return v
}

func (b *backend) buffer(h glgpu.Buffer) *vkBuffer {
	return lookup[*vkBuffer](b, glgpu.Handle(h))
}

func (b *backend) image(h glgpu.Image) *vkImage {
	return lookup[*vkImage](b, glgpu.Handle(h))
}

func (b *backend) shader(h glgpu.Shader) *vkShader {
	return lookup[*vkShader](b, glgpu.Handle(h))
}

func (b *backend) pipeline(h glgpu.Pipeline) *vkPipeline {
	return lookup[*vkPipeline](b, glgpu.Handle(h))
}

func (b *backend) uniformSet(h glgpu.UniformSet) *vkUniformSet {
	return lookup[*vkUniformSet](b, glgpu.Handle(h))
}

// native looks up a plain native handle in one of the small arenas.
func native[T any](a interface{ Get(uint32) (T, bool) }, h uint32, what string) T {
	v, ok := a.Get(h)
	if !ok {
		panic(fmt.Sprintf("vulkan: invalid %s handle %d", what, h))
	}
	return v
}

func (b *backend) fence(h glgpu.Fence) vk.Fence {
	return native[vk.Fence](b.fences, uint32(h), "fence")
}

func (b *backend) semaphore(h glgpu.Semaphore) vk.Semaphore {
	return native[vk.Semaphore](b.semaphores, uint32(h), "semaphore")
}

func (b *backend) sampler(h glgpu.Sampler) vk.Sampler {
	return native[vk.Sampler](b.samplers, uint32(h), "sampler")
}

func (b *backend) renderPass(h glgpu.RenderPass) *vkRenderPass {
	return native[*vkRenderPass](b.renderPasses, uint32(h), "render pass")
}

func (b *backend) framebuffer(h glgpu.FrameBuffer) vk.Framebuffer {
	return native[vk.Framebuffer](b.framebuffers, uint32(h), "framebuffer")
}

func (b *backend) commandPool(h glgpu.CommandPool) vk.CommandPool {
	return native[vk.CommandPool](b.commandPools, uint32(h), "command pool")
}

func (b *backend) swapchain(h glgpu.Swapchain) *vkSwapchain {
	return native[*vkSwapchain](b.swapchains, uint32(h), "swapchain")
}
