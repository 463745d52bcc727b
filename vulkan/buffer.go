package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"

	"github.com/andewx/glgpu"
)

// BufferCreate creates a buffer and binds fresh memory to it. Small CPU buffers are
// backed by CreateInfo.SmallAllocationMaxSize bytes; BufferMap still returns size bytes.
func (b *backend) BufferCreate(size uint64, usage glgpu.BufferUsageFlags, alloc glgpu.MemoryAllocationType) (glgpu.Buffer, error) {
	if size == 0 {
		return 0, errors.New("vulkan: zero sized buffer")
	}
	buf, err := b.createBuffer(size, usage, alloc)
	if err != nil {
		return 0, err
	}
	return glgpu.Buffer(b.resources.Alloc(buf)), nil
}

func (b *backend) createBuffer(size uint64, usage glgpu.BufferUsageFlags, alloc glgpu.MemoryAllocationType) (*vkBuffer, error) {
	var buffer vk.Buffer
	ret := vk.CreateBuffer(b.device, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(allocationSize(size, alloc, b.info.SmallAllocationMaxSize)),
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buffer)
	if err := wrapf(ret, "create %d byte buffer", size); err != nil {
		return nil, err
	}

	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.device, buffer, &reqs)
	reqs.Deref()

	deviceAddress := usage&glgpu.BufferUsageShaderDeviceAddress != 0
	memory, memFlags, err := b.allocateMemory(reqs, alloc, deviceAddress)
	if err != nil {
		vk.DestroyBuffer(b.device, buffer, nil)
		return nil, err
	}
	if err := wrapf(vk.BindBufferMemory(b.device, buffer, memory, 0), "bind buffer memory"); err != nil {
		vk.FreeMemory(b.device, memory, nil)
		vk.DestroyBuffer(b.device, buffer, nil)
		return nil, err
	}

	buf := &vkBuffer{
		buffer:   buffer,
		memory:   memory,
		memFlags: memFlags,
		size:     size,
		usage:    usage,
		alloc:    alloc,
	}
	if deviceAddress {
		buf.address = glgpu.BufferDeviceAddress(b.procs.deviceAddress(b.device, buffer))
	}
	return buf, nil
}

func (b *backend) destroyBuffer(buf *vkBuffer) {
	if buf.mapped != nil {
		vk.UnmapMemory(b.device, buf.memory)
		buf.mapped = nil
	}
	vk.DestroyBuffer(b.device, buf.buffer, nil)
	vk.FreeMemory(b.device, buf.memory, nil)
}

// BufferFree destroys the buffer and its memory, unmapping it first when needed.
func (b *backend) BufferFree(h glgpu.Buffer) {
	buf := b.buffer(h)
	b.resources.Free(uint32(h))
	b.destroyBuffer(buf)
}

// BufferGetDeviceAddress is zero unless the buffer was created with
// BufferUsageShaderDeviceAddress.
func (b *backend) BufferGetDeviceAddress(h glgpu.Buffer) glgpu.BufferDeviceAddress {
	return b.buffer(h).address
}

// BufferMap maps the whole buffer. Mapping a mapped buffer returns the same memory.
func (b *backend) BufferMap(h glgpu.Buffer) ([]byte, error) {
	buf := b.buffer(h)
	if buf.alloc != glgpu.MemoryCPU {
		return nil, errors.Errorf("vulkan: buffer %d is %s memory and cannot be mapped", h, buf.alloc)
	}
	if buf.mapped == nil {
		var ptr unsafe.Pointer
		ret := vk.MapMemory(b.device, buf.memory, 0, vk.DeviceSize(vk.WholeSize), 0, &ptr)
		if err := wrapf(ret, "map buffer %d", h); err != nil {
			return nil, err
		}
		buf.mapped = ptr
	}
	return unsafe.Slice((*byte)(buf.mapped), buf.size), nil
}

func (b *backend) BufferUnmap(h glgpu.Buffer) {
	buf := b.buffer(h)
	if buf.mapped == nil {
		return
	}
	vk.UnmapMemory(b.device, buf.memory)
	buf.mapped = nil
}

// syncRange flushes or invalidates the whole of buf. It does nothing on coherent memory.
func (b *backend) syncRange(buf *vkBuffer, flush bool) error {
	op := "invalidate"
	if flush {
		op = "flush"
	}
	switch rangeSyncFor(buf.alloc, buf.memFlags, buf.mapped != nil) {
	case syncNone:
		return nil
	case syncTemporary:
		var ptr unsafe.Pointer
		ret := vk.MapMemory(b.device, buf.memory, 0, vk.DeviceSize(vk.WholeSize), 0, &ptr)
		if err := wrapf(ret, "map buffer for %s", op); err != nil {
			return err
		}
		defer vk.UnmapMemory(b.device, buf.memory)
	}
	ranges := []vk.MappedMemoryRange{{
		SType:  vk.StructureTypeMappedMemoryRange,
		Memory: buf.memory,
		Size:   vk.DeviceSize(vk.WholeSize),
	}}
	if flush {
		return wrapf(vk.FlushMappedMemoryRanges(b.device, 1, ranges), "flush buffer")
	}
	return wrapf(vk.InvalidateMappedMemoryRanges(b.device, 1, ranges), "invalidate buffer")
}

// BufferInvalidate makes device writes visible to host reads. The buffer need not be
// mapped.
func (b *backend) BufferInvalidate(h glgpu.Buffer) error {
	return errors.Wrapf(b.syncRange(b.buffer(h), false), "buffer %d", h)
}

// BufferFlush makes host writes visible to the device. The buffer need not be mapped.
func (b *backend) BufferFlush(h glgpu.Buffer) error {
	return errors.Wrapf(b.syncRange(b.buffer(h), true), "buffer %d", h)
}
