package vulkan

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/gogpu/naga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andewx/glgpu"
)

var (
	loaderOnce sync.Once
	loaderErr  error
)

// newTestBackend creates a headless backend or skips the test when the machine has no
// Vulkan loader or no device meeting the requirements.
func newTestBackend(t *testing.T) glgpu.Backend {
	t.Helper()
	loaderOnce.Do(func() { loaderErr = InitHeadless() })
	if loaderErr != nil {
		t.Skipf("vulkan loader unavailable: %v", loaderErr)
	}
	b, err := glgpu.Create(glgpu.CreateInfo{
		API:     glgpu.APIVulkan,
		AppName: "glgpu tests",
	})
	if err != nil {
		t.Skipf("no usable vulkan device: %v", err)
	}
	t.Cleanup(b.Destroy)
	return b
}

func TestGPUBufferRoundTrip(t *testing.T) {
	b := newTestBackend(t)

	buf, err := b.BufferCreate(4096, glgpu.BufferUsageStorageBuffer, glgpu.MemoryCPU)
	require.NoError(t, err)
	defer b.BufferFree(buf)

	mem, err := b.BufferMap(buf)
	require.NoError(t, err)
	require.Len(t, mem, 4096)
	for i := range mem {
		mem[i] = byte(i * 3)
	}
	b.BufferUnmap(buf)
	require.NoError(t, b.BufferFlush(buf), "flush works on unmapped memory")
	require.NoError(t, b.BufferInvalidate(buf))

	mem, err = b.BufferMap(buf)
	require.NoError(t, err)
	for i := range mem {
		assert.Equal(t, byte(i*3), mem[i])
	}
	b.BufferUnmap(buf)
}

func TestGPUHandleReuse(t *testing.T) {
	b := newTestBackend(t)

	first, err := b.BufferCreate(64, glgpu.BufferUsageStorageBuffer, glgpu.MemoryGPU)
	require.NoError(t, err)
	b.BufferFree(first)

	second, err := b.BufferCreate(64, glgpu.BufferUsageStorageBuffer, glgpu.MemoryGPU)
	require.NoError(t, err)
	defer b.BufferFree(second)
	assert.Equal(t, first, second)

	_, err = b.BufferMap(second)
	assert.Error(t, err, "device memory is not mappable")
}

func TestGPUImmediateCopy(t *testing.T) {
	b := newTestBackend(t)
	const size = 256

	src, err := b.BufferCreate(size, glgpu.BufferUsageTransferSrc, glgpu.MemoryCPU)
	require.NoError(t, err)
	defer b.BufferFree(src)
	mid, err := b.BufferCreate(size, glgpu.BufferUsageTransferSrc|glgpu.BufferUsageTransferDst, glgpu.MemoryGPU)
	require.NoError(t, err)
	defer b.BufferFree(mid)
	dst, err := b.BufferCreate(size, glgpu.BufferUsageTransferDst, glgpu.MemoryCPU)
	require.NoError(t, err)
	defer b.BufferFree(dst)

	mem, err := b.BufferMap(src)
	require.NoError(t, err)
	for i := range mem {
		mem[i] = byte(255 - i)
	}
	require.NoError(t, b.BufferFlush(src))
	b.BufferUnmap(src)

	region := []glgpu.BufferCopyRegion{{Size: size}}
	err = b.CommandImmediateSubmit(func(cmd glgpu.CommandBuffer) {
		b.CommandCopyBuffer(cmd, src, mid, region)
		b.CommandBufferMemoryBarrier(cmd, glgpu.BufferUsageTransferDst, glgpu.BufferUsageTransferSrc, mid)
		b.CommandCopyBuffer(cmd, mid, dst, region)
	}, glgpu.QueueTransfer)
	require.NoError(t, err)

	out, err := b.BufferMap(dst)
	require.NoError(t, err)
	require.NoError(t, b.BufferInvalidate(dst))
	for i := range out {
		assert.Equal(t, byte(255-i), out[i])
	}
	b.BufferUnmap(dst)
}

func TestGPUBufferDeviceAddress(t *testing.T) {
	b := newTestBackend(t)

	plain, err := b.BufferCreate(256, glgpu.BufferUsageStorageBuffer, glgpu.MemoryGPU)
	require.NoError(t, err)
	defer b.BufferFree(plain)
	assert.Zero(t, b.BufferGetDeviceAddress(plain))

	addressed, err := b.BufferCreate(256, glgpu.BufferUsageStorageBuffer|glgpu.BufferUsageShaderDeviceAddress, glgpu.MemoryGPU)
	require.NoError(t, err)
	defer b.BufferFree(addressed)
	assert.NotZero(t, b.BufferGetDeviceAddress(addressed))
}

func TestGPUDynamicRenderingClear(t *testing.T) {
	b := newTestBackend(t)
	size := glgpu.Vec2u{X: 16, Y: 16}

	info := glgpu.DefaultImageCreateInfo(glgpu.FormatR8G8B8A8Unorm, size)
	info.Usage = glgpu.ImageUsageColorAttachment | glgpu.ImageUsageTransferSrc
	img, err := b.ImageCreate(info)
	require.NoError(t, err)
	defer b.ImageFree(img)

	err = b.CommandImmediateSubmit(func(cmd glgpu.CommandBuffer) {
		b.CommandTransitionImage(cmd, img, glgpu.ImageLayoutUndefined, glgpu.ImageLayoutColorAttachmentOptimal, 0, 1)
		b.CommandBeginRendering(cmd, size, []glgpu.RenderingAttachment{
			glgpu.NewRenderingAttachment(img, glgpu.Color{R: 1, A: 1}),
		}, 0)
		b.CommandEndRendering(cmd)
	}, glgpu.QueueGraphics)
	require.NoError(t, err)
}


func TestGPUMipmappedImage(t *testing.T) {
	b := newTestBackend(t)

	info := glgpu.DefaultImageCreateInfo(glgpu.FormatR8G8B8A8Unorm, glgpu.Vec2u{X: 256, Y: 256})
	info.Mipmapped = true
	info.Data = make([]byte, 256*256*4)
	img, err := b.ImageCreate(info)
	require.NoError(t, err)
	defer b.ImageFree(img)

	assert.Equal(t, uint32(9), b.ImageGetMipLevels(img))
	assert.Equal(t, glgpu.Vec2u{X: 256, Y: 256}, b.ImageGetSize(img))
	assert.Equal(t, glgpu.FormatR8G8B8A8Unorm, b.ImageGetFormat(img))

	sampler, err := b.SamplerCreate(glgpu.SamplerCreateInfo{
		MinFilter: glgpu.FilterLinear,
		MagFilter: glgpu.FilterLinear,
		MipLevels: b.ImageGetMipLevels(img),
	})
	require.NoError(t, err)
	b.SamplerFree(sampler)
}

func TestGPUHeadlessSwapchain(t *testing.T) {
	b := newTestBackend(t)
	assert.False(t, b.IsSwapchainSupported())
	assert.NotZero(t, b.QueueGet(glgpu.QueuePresent), "headless present falls back to graphics")

	sc := b.SwapchainCreate()
	defer b.SwapchainFree(sc)
	assert.NotPanics(t, func() {
		b.SwapchainResize(b.QueueGet(glgpu.QueueGraphics), sc, glgpu.Vec2u{X: 256, Y: 256}, true)
	})
	_, _, err := b.SwapchainAcquireImage(sc, 0)
	assert.ErrorIs(t, err, glgpu.ErrorSwapchainOutOfDate)
}

const doubleWGSL = `
@group(0) @binding(0) var<storage, read_write> data: array<u32>;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    if (id.x < arrayLength(&data)) {
        data[id.x] = data[id.x] * 2u;
    }
}
`

func TestGPUComputeDispatch(t *testing.T) {
	b := newTestBackend(t)
	const n = 64

	code, err := naga.Compile(doubleWGSL)
	require.NoError(t, err)
	shader, err := b.ShaderCreateFromBytecode([]glgpu.SpirvEntry{{ByteCode: code, Stage: glgpu.ShaderStageCompute}})
	require.NoError(t, err)
	defer b.ShaderFree(shader)

	pipeline, err := b.ComputePipelineCreate(shader)
	require.NoError(t, err)
	defer b.PipelineFree(pipeline)

	buf, err := b.BufferCreate(n*4, glgpu.BufferUsageStorageBuffer, glgpu.MemoryCPU)
	require.NoError(t, err)
	defer b.BufferFree(buf)
	mem, err := b.BufferMap(buf)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(mem[i*4:], uint32(i))
	}
	require.NoError(t, b.BufferFlush(buf))

	set, err := b.UniformSetCreate([]glgpu.ShaderUniform{{
		Type:    glgpu.UniformTypeStorageBuffer,
		Binding: 0,
		Data:    []glgpu.Handle{glgpu.Handle(buf)},
	}}, shader, 0)
	require.NoError(t, err)
	defer b.UniformSetFree(set)

	err = b.CommandImmediateSubmit(func(cmd glgpu.CommandBuffer) {
		b.CommandBindComputePipeline(cmd, pipeline)
		b.CommandBindUniformSets(cmd, shader, 0, []glgpu.UniformSet{set}, glgpu.PipelineCompute)
		b.CommandDispatch(cmd, 1, 1, 1)
	}, glgpu.QueueCompute)
	require.NoError(t, err)

	require.NoError(t, b.BufferInvalidate(buf))
	for i := 0; i < n; i++ {
		assert.Equal(t, uint32(2*i), binary.LittleEndian.Uint32(mem[i*4:]))
	}
	b.BufferUnmap(buf)
}
