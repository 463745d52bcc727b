package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
)

func (b *backend) createCommandPool(family uint32) (vk.CommandPool, error) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(b.device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: family,
	}, nil, &pool)
	if err := wrapf(ret, "create command pool for family %d", family); err != nil {
		return vk.NullCommandPool, err
	}
	return pool, nil
}

// allocateCommandBuffers fills cmds with primary command buffers from pool.
func (b *backend) allocateCommandBuffers(pool vk.CommandPool, cmds []vk.CommandBuffer) error {
	ret := vk.AllocateCommandBuffers(b.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(len(cmds)),
	}, cmds)
	return wrapf(ret, "allocate %d command buffers", len(cmds))
}

// CommandPoolCreate creates a pool whose buffers can be reset one by one.
func (b *backend) CommandPoolCreate(queue glgpu.CommandQueue) (glgpu.CommandPool, error) {
	pool, err := b.createCommandPool(b.queue(queue).family)
	if err != nil {
		return 0, err
	}
	return glgpu.CommandPool(b.commandPools.Alloc(pool)), nil
}

// CommandPoolFree destroys the pool and every command buffer allocated from it.
func (b *backend) CommandPoolFree(pool glgpu.CommandPool) {
	if p, ok := b.commandPools.Free(uint32(pool)); ok {
		vk.DestroyCommandPool(b.device, p, nil)
	}
}

func (b *backend) CommandPoolAllocate(pool glgpu.CommandPool) (glgpu.CommandBuffer, error) {
	cmds, err := b.CommandPoolAllocateN(pool, 1)
	if err != nil {
		return nil, err
	}
	return cmds[0], nil
}

func (b *backend) CommandPoolAllocateN(pool glgpu.CommandPool, count uint32) ([]glgpu.CommandBuffer, error) {
	if count == 0 {
		return nil, nil
	}
	cmds := make([]vk.CommandBuffer, count)
	if err := b.allocateCommandBuffers(b.commandPool(pool), cmds); err != nil {
		return nil, err
	}
	out := make([]glgpu.CommandBuffer, count)
	for i, c := range cmds {
		out[i] = glgpu.CommandBuffer(c)
	}
	return out, nil
}

// CommandPoolReset returns every buffer of pool to the initial state.
func (b *backend) CommandPoolReset(pool glgpu.CommandPool) {
	if err := wrapf(vk.ResetCommandPool(b.device, b.commandPool(pool), 0), "reset command pool %d", pool); err != nil {
		glgpu.Log().Errorf("vulkan: %v", err)
	}
}

func (b *backend) CommandBegin(cmd glgpu.CommandBuffer) error {
	return wrapf(vk.BeginCommandBuffer(vk.CommandBuffer(cmd), &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}), "begin command buffer")
}

func (b *backend) CommandEnd(cmd glgpu.CommandBuffer) error {
	return wrapf(vk.EndCommandBuffer(vk.CommandBuffer(cmd)), "end command buffer")
}

func (b *backend) CommandReset(cmd glgpu.CommandBuffer) {
	if err := wrapf(vk.ResetCommandBuffer(vk.CommandBuffer(cmd), 0), "reset command buffer"); err != nil {
		glgpu.Log().Errorf("vulkan: %v", err)
	}
}
