package glgpu

import "unsafe"

// Handle is an opaque index into a backend-owned table. The zero value is the null handle.
// Handles are not generation checked: using a handle after it has been freed is undefined.
type Handle uint32

// NullHandle is the zero handle returned on failure and accepted as "none" by optional arguments.
const NullHandle Handle = 0

// Handles that must be freed by the caller through the matching *Free call.
type (
	Buffer       Handle
	Image        Handle
	Sampler      Handle
	Shader       Handle
	Pipeline     Handle
	UniformSet   Handle
	RenderPass   Handle
	FrameBuffer  Handle
	Swapchain    Handle
	Fence        Handle
	Semaphore    Handle
	CommandPool  Handle
	CommandQueue Handle
)

// CommandBuffer is a direct (dispatchable) handle to a native command buffer.
// It is owned by its CommandPool and never freed on its own.
type CommandBuffer unsafe.Pointer

const (
	// RemainingMipLevels selects every mip level from the base level onward.
	RemainingMipLevels = ^uint32(0)
	// RemainingArrayLayers selects every array layer from the base layer onward.
	RemainingArrayLayers = ^uint32(0)
)

// MemoryAllocationType selects where a buffer lives.
type MemoryAllocationType int

const (
	// MemoryCPU is host visible memory that can be mapped.
	MemoryCPU MemoryAllocationType = iota
	// MemoryGPU is device local memory.
	MemoryGPU
)

func (m MemoryAllocationType) String() string {
	if m == MemoryCPU {
		return "CPU"
	}
	return "GPU"
}

// QueueType names the queue roles a backend exposes.
type QueueType int

const (
	QueueGraphics QueueType = iota
	QueuePresent
	QueueTransfer
	QueueCompute
)

func (q QueueType) String() string {
	switch q {
	case QueueGraphics:
		return "graphics"
	case QueuePresent:
		return "present"
	case QueueTransfer:
		return "transfer"
	case QueueCompute:
		return "compute"
	}
	return "unknown"
}

// IndexType is the element type of an index buffer.
type IndexType uint32

const (
	IndexUint16 IndexType = 1
	IndexUint32 IndexType = 2
)

// PipelineType is the bind point used when binding uniform sets.
type PipelineType int

const (
	PipelineGraphics PipelineType = iota
	PipelineCompute
)
