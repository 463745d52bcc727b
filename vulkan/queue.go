package vulkan

import (
	"sync"

	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
	"github.com/andewx/glgpu/internal/selector"
)

// vkQueue is a device queue shared by every role assigned to its family. Submission and
// presentation on it are serialised by mu.
type vkQueue struct {
	mu     sync.Mutex
	queue  vk.Queue
	family uint32
	handle glgpu.CommandQueue
}

func (q *vkQueue) submit(infos []vk.SubmitInfo, fence vk.Fence) vk.Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	return vk.QueueSubmit(q.queue, uint32(len(infos)), infos, fence)
}

func (q *vkQueue) present(info *vk.PresentInfo) vk.Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	return vk.QueuePresent(q.queue, info)
}

// setupQueues fetches one queue per unique family and assigns it to the roles using
// that family. A headless device presents through its graphics queue.
func (b *backend) setupQueues() {
	byFamily := map[uint32]*vkQueue{}
	for _, family := range b.indices.Unique() {
		q := &vkQueue{family: family}
		vk.GetDeviceQueue(b.device, family, 0, &q.queue)
		b.queues = append(b.queues, q)
		q.handle = glgpu.CommandQueue(len(b.queues))
		byFamily[family] = q
	}
	role := func(f selector.Family) *vkQueue {
		if !f.Valid() {
			f = b.indices.Graphics
		}
		return byFamily[uint32(f)]
	}
	b.roles[glgpu.QueueGraphics] = role(b.indices.Graphics)
	b.roles[glgpu.QueueTransfer] = role(b.indices.Transfer)
	b.roles[glgpu.QueueCompute] = role(b.indices.Compute)
	b.roles[glgpu.QueuePresent] = role(b.indices.Present)
}

func (b *backend) queue(h glgpu.CommandQueue) *vkQueue {
	if h == 0 || int(h) > len(b.queues) {
		panic("vulkan: invalid command queue handle")
	}
	return b.queues[h-1]
}

// QueueGet returns the queue serving kind. Roles sharing a family share the handle.
func (b *backend) QueueGet(kind glgpu.QueueType) glgpu.CommandQueue {
	if kind < 0 || int(kind) >= len(b.roles) || b.roles[kind] == nil {
		return glgpu.CommandQueue(glgpu.NullHandle)
	}
	return b.roles[kind].handle
}

// QueueSubmit submits cmd to queue. The wait semaphore, when set, blocks the color
// attachment output stage.
func (b *backend) QueueSubmit(queue glgpu.CommandQueue, cmd glgpu.CommandBuffer, fence glgpu.Fence, wait, signal glgpu.Semaphore) error {
	info := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{vk.CommandBuffer(cmd)},
	}
	if wait != 0 {
		info.WaitSemaphoreCount = 1
		info.PWaitSemaphores = []vk.Semaphore{b.semaphore(wait)}
		// PWaitDstStageMask is the stage each corresponding semaphore wait occurs at.
		info.PWaitDstStageMask = []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		}
	}
	if signal != 0 {
		info.SignalSemaphoreCount = 1
		info.PSignalSemaphores = []vk.Semaphore{b.semaphore(signal)}
	}
	f := vk.NullFence
	if fence != 0 {
		f = b.fence(fence)
	}
	return wrapf(b.queue(queue).submit([]vk.SubmitInfo{info}, f), "submit to queue %d", queue)
}

// QueuePresent presents the image last acquired from sc.
func (b *backend) QueuePresent(queue glgpu.CommandQueue, sc glgpu.Swapchain, wait glgpu.Semaphore) bool {
	s := b.swapchain(sc)
	info := vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{s.swapchain},
		PImageIndices:  []uint32{s.acquired},
	}
	if wait != 0 {
		info.WaitSemaphoreCount = 1
		info.PWaitSemaphores = []vk.Semaphore{b.semaphore(wait)}
	}
	ret := b.queue(queue).present(&info)
	switch ret {
	case vk.Success:
		return true
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return false
	}
	glgpu.Log().Errorf("vulkan: present: %v", newError(ret))
	return false
}
