package glgpu

import (
	"fmt"
	"sync"
	"unsafe"
)

// Backend is a handle based rendering device. Handles returned by one Backend are only
// meaningful to it. Create and free calls on the same Backend must be serialised by the
// caller; submission to different queues may proceed from several goroutines.
type Backend interface {
	// Destroy waits for the device, runs the teardown actions in reverse registration
	// order and releases the process wide backend slot.
	Destroy()

	DeviceWait()
	// AttachSurface replaces the presentation surface. It fails with
	// ErrorSurfaceInvalidCompositor when no surface can be created for the window.
	AttachSurface(conn unsafe.Pointer, window WindowHandle) error
	IsSwapchainSupported() bool
	QueueGet(kind QueueType) CommandQueue
	GetMaxMSAASamples() uint32

	// Swapchain

	SwapchainCreate() Swapchain
	// SwapchainResize (re)builds the chain for size. It is a logged no-op on headless
	// backends and panics with a *FatalError when the driver rejects the new chain.
	SwapchainResize(queue CommandQueue, sc Swapchain, size Vec2u, vsync bool)
	SwapchainGetImageCount(sc Swapchain) uint32
	SwapchainGetImages(sc Swapchain) []Image
	// SwapchainAcquireImage blocks until an image is available and signals sem when it
	// may be written. It returns ErrorSwapchainOutOfDate when the chain must be resized.
	SwapchainAcquireImage(sc Swapchain, sem Semaphore) (Image, uint32, error)
	SwapchainGetExtent(sc Swapchain) Vec2u
	SwapchainGetFormat(sc Swapchain) DataFormat
	SwapchainFree(sc Swapchain)

	// Buffers

	BufferCreate(size uint64, usage BufferUsageFlags, alloc MemoryAllocationType) (Buffer, error)
	BufferFree(b Buffer)
	BufferGetDeviceAddress(b Buffer) BufferDeviceAddress
	// BufferMap returns the buffer memory. The slice is valid until BufferUnmap.
	BufferMap(b Buffer) ([]byte, error)
	BufferUnmap(b Buffer)
	BufferInvalidate(b Buffer) error
	BufferFlush(b Buffer) error

	// Images & samplers

	ImageCreate(info ImageCreateInfo) (Image, error)
	ImageFree(img Image)
	ImageGetSize(img Image) Vec2u
	ImageGetFormat(img Image) DataFormat
	ImageGetMipLevels(img Image) uint32
	SamplerCreate(info SamplerCreateInfo) (Sampler, error)
	SamplerFree(s Sampler)

	// Shaders & pipelines

	ShaderCreateFromBytecode(entries []SpirvEntry) (Shader, error)
	ShaderFree(s Shader)
	ShaderGetVertexInputs(s Shader) []ShaderInterfaceVariable
	RenderPipelineCreate(info RenderPipelineCreateInfo) (Pipeline, error)
	ComputePipelineCreate(s Shader) (Pipeline, error)
	PipelineFree(p Pipeline)

	// Uniform sets

	UniformSetCreate(uniforms []ShaderUniform, s Shader, set uint32) (UniformSet, error)
	UniformSetFree(u UniformSet)

	// Legacy render passes

	RenderPassCreate(attachments []RenderPassAttachment, subpasses []SubpassInfo) (RenderPass, error)
	RenderPassDestroy(rp RenderPass)
	FrameBufferCreate(rp RenderPass, attachments []Image, size Vec2u) (FrameBuffer, error)
	FrameBufferDestroy(fb FrameBuffer)

	// Synchronisation

	FenceCreate(signaled bool) (Fence, error)
	FenceFree(f Fence)
	FenceWait(f Fence) error
	FenceReset(f Fence)
	SemaphoreCreate() (Semaphore, error)
	SemaphoreFree(s Semaphore)

	// Submission & presentation

	QueueSubmit(queue CommandQueue, cmd CommandBuffer, fence Fence, wait, signal Semaphore) error
	// QueuePresent presents the last acquired image. It returns false when the
	// swapchain is out of date or suboptimal and must be resized.
	QueuePresent(queue CommandQueue, sc Swapchain, wait Semaphore) bool

	// Command pools & buffers

	CommandPoolCreate(queue CommandQueue) (CommandPool, error)
	CommandPoolFree(pool CommandPool)
	CommandPoolAllocate(pool CommandPool) (CommandBuffer, error)
	CommandPoolAllocateN(pool CommandPool, count uint32) ([]CommandBuffer, error)
	CommandPoolReset(pool CommandPool)

	// CommandImmediateSubmit records fn into a dedicated command buffer, submits it to
	// the queue of kind and blocks until the GPU has finished executing it.
	CommandImmediateSubmit(fn func(cmd CommandBuffer), kind QueueType) error
	CommandBegin(cmd CommandBuffer) error
	CommandEnd(cmd CommandBuffer) error
	CommandReset(cmd CommandBuffer)

	// Recording

	CommandBeginRenderPass(cmd CommandBuffer, rp RenderPass, fb FrameBuffer, extent Vec2u, clear Color)
	CommandEndRenderPass(cmd CommandBuffer)
	CommandBeginRendering(cmd CommandBuffer, extent Vec2u, colors []RenderingAttachment, depth Image)
	CommandEndRendering(cmd CommandBuffer)

	CommandBindGraphicsPipeline(cmd CommandBuffer, p Pipeline)
	CommandBindComputePipeline(cmd CommandBuffer, p Pipeline)
	CommandBindVertexBuffers(cmd CommandBuffer, firstBinding uint32, buffers []Buffer, offsets []uint64)
	CommandBindIndexBuffer(cmd CommandBuffer, b Buffer, offset uint64, indexType IndexType)
	CommandBindUniformSets(cmd CommandBuffer, s Shader, firstSet uint32, sets []UniformSet, bind PipelineType)
	CommandPushConstants(cmd CommandBuffer, s Shader, offset uint32, data []byte)

	CommandDraw(cmd CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32)
	CommandDrawIndexed(cmd CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32)
	CommandDrawIndexedIndirect(cmd CommandBuffer, b Buffer, offset uint64, drawCount, stride uint32)
	CommandDispatch(cmd CommandBuffer, x, y, z uint32)

	CommandSetViewport(cmd CommandBuffer, size Vec2u)
	CommandSetScissor(cmd CommandBuffer, size, offset Vec2u)
	CommandSetDepthBias(cmd CommandBuffer, constant, clamp, slope float32)
	CommandClearColor(cmd CommandBuffer, img Image, c Color, aspect ImageAspectFlags)

	CommandCopyBuffer(cmd CommandBuffer, src, dst Buffer, regions []BufferCopyRegion)
	CommandBufferMemoryBarrier(cmd CommandBuffer, srcUsage, dstUsage BufferUsageFlags, b Buffer)
	CommandCopyBufferToImage(cmd CommandBuffer, src Buffer, dst Image, regions []BufferImageCopyRegion)
	CommandCopyImageToImage(cmd CommandBuffer, src, dst Image, srcExtent, dstExtent Vec2u, srcMip, dstMip uint32)
	CommandTransitionImage(cmd CommandBuffer, img Image, from, to ImageLayout, baseMip, levelCount uint32)
}

// DriverFunc constructs a Backend. The driver owns guard and must release it from
// Backend.Destroy. It must not release it when returning an error.
type DriverFunc func(info CreateInfo, guard *Guard) (Backend, error)

var (
	driversMu sync.RWMutex
	drivers   = map[API]DriverFunc{}
)

// Register makes a driver available to Create. Drivers call it from init.
// Registering the same API twice panics.
func Register(api API, fn DriverFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if fn == nil {
		panic("glgpu: Register driver is nil")
	}
	if _, dup := drivers[api]; dup {
		panic(fmt.Sprintf("glgpu: Register called twice for %s", api))
	}
	drivers[api] = fn
}

func driver(api API) (DriverFunc, bool) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	fn, ok := drivers[api]
	return fn, ok
}

// Create builds the backend for info.API. Only one backend may be alive at a time:
// Create returns ErrBackendExists until the previous one is destroyed.
func Create(info CreateInfo) (Backend, error) {
	fn, ok := driver(info.API)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAPI, info.API)
	}
	guard, err := acquireGuard()
	if err != nil {
		return nil, err
	}
	b, err := fn(info, guard)
	if err != nil {
		guard.Release()
		Log().Errorf("backend %s: %v", info.API, err)
		return nil, err
	}
	return b, nil
}
