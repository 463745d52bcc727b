package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
)

// memoryTypeFlags returns the property flags of every memory type of the device.
func memoryTypeFlags(props vk.PhysicalDeviceMemoryProperties) []vk.MemoryPropertyFlags {
	flags := make([]vk.MemoryPropertyFlags, 0, props.MemoryTypeCount)
	for i := uint32(0); i < props.MemoryTypeCount && i < vk.MaxMemoryTypes; i++ {
		props.MemoryTypes[i].Deref()
		flags = append(flags, props.MemoryTypes[i].PropertyFlags)
	}
	return flags
}

// findMemoryType returns the first type allowed by typeBits that has every required flag,
// trying required|preferred first.
func findMemoryType(types []vk.MemoryPropertyFlags, typeBits uint32, required, preferred vk.MemoryPropertyFlags) (uint32, bool) {
	search := func(want vk.MemoryPropertyFlags) (uint32, bool) {
		for i, flags := range types {
			if typeBits&(1<<uint(i)) == 0 {
				continue
			}
			if flags&want == want {
				return uint32(i), true
			}
		}
		return 0, false
	}
	if preferred != 0 {
		if i, ok := search(required | preferred); ok {
			return i, true
		}
	}
	return search(required)
}

// memoryFlagsFor maps the allocation type to required and preferred memory properties.
func memoryFlagsFor(alloc glgpu.MemoryAllocationType) (required, preferred vk.MemoryPropertyFlags) {
	if alloc == glgpu.MemoryCPU {
		required = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
		preferred = vk.MemoryPropertyFlags(vk.MemoryPropertyHostCachedBit)
		return required, preferred
	}
	return vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit), 0
}

// allocationSize rounds small host allocations up to limit so they land in the same size
// classes. Device allocations are returned unchanged.
func allocationSize(size uint64, alloc glgpu.MemoryAllocationType, limit uint64) uint64 {
	if alloc == glgpu.MemoryCPU && size < limit {
		return limit
	}
	return size
}

// allocateMemory allocates memory matching reqs for alloc and returns it with the property
// flags of the memory type picked. deviceAddress adds the DEVICE_ADDRESS allocate flag.
func (b *backend) allocateMemory(reqs vk.MemoryRequirements, alloc glgpu.MemoryAllocationType, deviceAddress bool) (vk.DeviceMemory, vk.MemoryPropertyFlags, error) {
	required, preferred := memoryFlagsFor(alloc)
	typeIndex, ok := findMemoryType(b.memoryTypes, reqs.MemoryTypeBits, required, preferred)
	if !ok {
		glgpu.Log().Warnf("vulkan: no %s memory type in mask %#x, using the first allowed type", alloc, reqs.MemoryTypeBits)
		typeIndex, ok = findMemoryType(b.memoryTypes, reqs.MemoryTypeBits, 0, 0)
		if !ok {
			return vk.NullDeviceMemory, 0, glgpu.ErrorOutOfMemory
		}
	}

	info := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: typeIndex,
	}
	var flagsInfo *vk.MemoryAllocateFlagsInfo
	if deviceAddress {
		flagsInfo = &vk.MemoryAllocateFlagsInfo{
			SType: vk.StructureTypeMemoryAllocateFlagsInfo,
			Flags: vk.MemoryAllocateFlags(vk.MemoryAllocateDeviceAddressBit),
		}
		ref, _ := flagsInfo.PassRef()
		info.PNext = unsafe.Pointer(ref)
		defer flagsInfo.Free()
	}

	var memory vk.DeviceMemory
	if err := newError(vk.AllocateMemory(b.device, &info, nil, &memory)); err != nil {
		return vk.NullDeviceMemory, 0, err
	}
	return memory, b.memoryTypes[typeIndex], nil
}

type rangeSync int

const (
	// syncNone: device memory, or host memory that is coherent.
	syncNone rangeSync = iota
	syncMapped
	// syncTemporary maps the memory around the flush or invalidate.
	syncTemporary
)

// rangeSyncFor decides how to flush or invalidate a buffer. Flushing memory that is not
// mapped is invalid, so unmapped non-coherent memory is mapped for the call.
func rangeSyncFor(alloc glgpu.MemoryAllocationType, flags vk.MemoryPropertyFlags, mapped bool) rangeSync {
	coherent := vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit)
	switch {
	case alloc != glgpu.MemoryCPU || flags&coherent != 0:
		return syncNone
	case mapped:
		return syncMapped
	}
	return syncTemporary
}
