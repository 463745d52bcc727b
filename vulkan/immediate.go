package vulkan

import (
	"sync"

	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
)

// submitOps are the device calls an immediate submission makes.
type submitOps interface {
	resetFence(f vk.Fence) error
	waitFence(f vk.Fence) error
	begin(cmd vk.CommandBuffer) error
	end(cmd vk.CommandBuffer) error
	submit(q *vkQueue, cmd vk.CommandBuffer, f vk.Fence) error
}

// immediateContext runs one synchronous submission at a time on its queue.
type immediateContext struct {
	mu    sync.Mutex
	ops   submitOps
	queue *vkQueue
	fence vk.Fence
	pool  vk.CommandPool
	cmd   vk.CommandBuffer

	destroy func()
}

// run records fn into the context's command buffer, submits it and blocks until the GPU
// signals the fence.
func (c *immediateContext) run(fn func(cmd vk.CommandBuffer)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ops.resetFence(c.fence); err != nil {
		return err
	}
	if err := c.ops.begin(c.cmd); err != nil {
		return err
	}
	fn(c.cmd)
	if err := c.ops.end(c.cmd); err != nil {
		return err
	}
	if err := c.ops.submit(c.queue, c.cmd, c.fence); err != nil {
		return err
	}
	return c.ops.waitFence(c.fence)
}

// deviceOps implements submitOps on a live device.
type deviceOps struct {
	device vk.Device
}

func (d deviceOps) resetFence(f vk.Fence) error {
	return wrapf(vk.ResetFences(d.device, 1, []vk.Fence{f}), "reset fence")
}

func (d deviceOps) waitFence(f vk.Fence) error {
	return wrapf(vk.WaitForFences(d.device, 1, []vk.Fence{f}, vk.True, vk.MaxUint64), "wait fence")
}

func (d deviceOps) begin(cmd vk.CommandBuffer) error {
	if err := wrapf(vk.ResetCommandBuffer(cmd, 0), "reset command buffer"); err != nil {
		return err
	}
	return wrapf(vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}), "begin command buffer")
}

func (d deviceOps) end(cmd vk.CommandBuffer) error {
	return wrapf(vk.EndCommandBuffer(cmd), "end command buffer")
}

func (d deviceOps) submit(q *vkQueue, cmd vk.CommandBuffer, f vk.Fence) error {
	return wrapf(q.submit([]vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmd},
	}}, f), "immediate submit")
}

func (b *backend) newImmediateContext(q *vkQueue) (*immediateContext, error) {
	pool, err := b.createCommandPool(q.family)
	if err != nil {
		return nil, err
	}
	cmds := make([]vk.CommandBuffer, 1)
	if err := b.allocateCommandBuffers(pool, cmds); err != nil {
		vk.DestroyCommandPool(b.device, pool, nil)
		return nil, err
	}
	fence, err := b.createFence(true)
	if err != nil {
		vk.DestroyCommandPool(b.device, pool, nil)
		return nil, err
	}
	c := &immediateContext{
		ops:   deviceOps{b.device},
		queue: q,
		fence: fence,
		pool:  pool,
		cmd:   cmds[0],
	}
	c.destroy = func() {
		vk.DestroyFence(b.device, c.fence, nil)
		vk.DestroyCommandPool(b.device, c.pool, nil)
	}
	return c, nil
}

// CommandImmediateSubmit runs fn on the transfer context for QueueTransfer and on the
// graphics context for every other kind. The two contexts do not block each other.
func (b *backend) CommandImmediateSubmit(fn func(cmd glgpu.CommandBuffer), kind glgpu.QueueType) error {
	c := b.graphics
	if kind == glgpu.QueueTransfer {
		c = b.transfer
	}
	return c.run(func(cmd vk.CommandBuffer) {
		fn(glgpu.CommandBuffer(cmd))
	})
}
