package glgpu

// BufferUsageFlags is a mask of BufferUsage bits. Bit values match VkBufferUsageFlagBits.
type BufferUsageFlags uint32

const (
	BufferUsageTransferSrc         BufferUsageFlags = 0x00000001
	BufferUsageTransferDst         BufferUsageFlags = 0x00000002
	BufferUsageUniformTexelBuffer  BufferUsageFlags = 0x00000004
	BufferUsageStorageTexelBuffer  BufferUsageFlags = 0x00000008
	BufferUsageUniformBuffer       BufferUsageFlags = 0x00000010
	BufferUsageStorageBuffer       BufferUsageFlags = 0x00000020
	BufferUsageIndexBuffer         BufferUsageFlags = 0x00000040
	BufferUsageVertexBuffer        BufferUsageFlags = 0x00000080
	BufferUsageIndirectBuffer      BufferUsageFlags = 0x00000100
	BufferUsageShaderDeviceAddress BufferUsageFlags = 0x00020000
)

// Has reports whether every bit of u is set.
func (f BufferUsageFlags) Has(u BufferUsageFlags) bool {
	return f&u == u
}

// BufferDeviceAddress is a GPU virtual address of a buffer.
type BufferDeviceAddress uint64

// BufferCopyRegion describes one region of a buffer to buffer copy.
type BufferCopyRegion struct {
	SrcOffset uint64
	DstOffset uint64
	Size      uint64
}
