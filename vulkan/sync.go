package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
)

func (b *backend) createFence(signaled bool) (vk.Fence, error) {
	info := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if signaled {
		info.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	if err := wrapf(vk.CreateFence(b.device, &info, nil, &fence), "create fence"); err != nil {
		return vk.NullFence, err
	}
	return fence, nil
}

func (b *backend) FenceCreate(signaled bool) (glgpu.Fence, error) {
	fence, err := b.createFence(signaled)
	if err != nil {
		return 0, err
	}
	return glgpu.Fence(b.fences.Alloc(fence)), nil
}

func (b *backend) FenceFree(f glgpu.Fence) {
	if fence, ok := b.fences.Free(uint32(f)); ok {
		vk.DestroyFence(b.device, fence, nil)
	}
}

// FenceWait blocks without a timeout until f is signalled.
func (b *backend) FenceWait(f glgpu.Fence) error {
	return wrapf(vk.WaitForFences(b.device, 1, []vk.Fence{b.fence(f)}, vk.True, vk.MaxUint64), "wait fence %d", f)
}

func (b *backend) FenceReset(f glgpu.Fence) {
	if err := wrapf(vk.ResetFences(b.device, 1, []vk.Fence{b.fence(f)}), "reset fence %d", f); err != nil {
		glgpu.Log().Errorf("vulkan: %v", err)
	}
}

func (b *backend) SemaphoreCreate() (glgpu.Semaphore, error) {
	var sem vk.Semaphore
	ret := vk.CreateSemaphore(b.device, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &sem)
	if err := wrapf(ret, "create semaphore"); err != nil {
		return 0, err
	}
	return glgpu.Semaphore(b.semaphores.Alloc(sem)), nil
}

func (b *backend) SemaphoreFree(s glgpu.Semaphore) {
	if sem, ok := b.semaphores.Free(uint32(s)); ok {
		vk.DestroySemaphore(b.device, sem, nil)
	}
}
