// Package vulkan is the Vulkan driver of glgpu. Importing it registers the driver for
// glgpu.APIVulkan:
//
//	import _ "github.com/andewx/glgpu/vulkan"
//
// The Vulkan loader must be set up first, with Init for windowed applications or
// InitHeadless otherwise.
package vulkan

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
	"github.com/andewx/glgpu/internal/arena"
	"github.com/andewx/glgpu/internal/deletion"
	"github.com/andewx/glgpu/internal/descpool"
	"github.com/andewx/glgpu/internal/selector"
)

func init() {
	glgpu.Register(glgpu.APIVulkan, New)
}

// Init initializes glfw and points the loader at glfw's instance proc address. It must
// be called on the main thread before creating a windowed backend.
func Init() error {
	if err := glfw.Init(); err != nil {
		return err
	}
	getInstanceProcAddr = glfw.GetVulkanGetInstanceProcAddress()
	vk.SetGetInstanceProcAddr(getInstanceProcAddr)
	return vk.Init()
}

// InitHeadless loads the system Vulkan library without a window system.
func InitHeadless() error {
	p, err := openDefaultLoader()
	if err != nil {
		return err
	}
	getInstanceProcAddr = p
	vk.SetGetInstanceProcAddr(p)
	return vk.Init()
}

const arenaCapacity = 64

var _ glgpu.Backend = (*backend)(nil)

type backend struct {
	guard    *glgpu.Guard
	info     glgpu.CreateInfo
	teardown deletion.Queue

	instance         vk.Instance
	procs            procTable
	debugCallback    vk.DebugReportCallback
	surface          vk.Surface
	gpu              vk.PhysicalDevice
	gpuProperties    vk.PhysicalDeviceProperties
	memoryTypes      []vk.MemoryPropertyFlags
	deviceExtensions []string
	device           vk.Device
	indices          selector.QueueFamilyIndices

	queues []*vkQueue
	roles  [4]*vkQueue

	resources    *arena.Arena[resource]
	samplers     *arena.Arena[vk.Sampler]
	renderPasses *arena.Arena[*vkRenderPass]
	framebuffers *arena.Arena[vk.Framebuffer]
	swapchains   *arena.Arena[*vkSwapchain]
	fences       *arena.Arena[vk.Fence]
	semaphores   *arena.Arena[vk.Semaphore]
	commandPools *arena.Arena[vk.CommandPool]

	descriptors *descpool.Manager[vk.DescriptorPool]

	transfer *immediateContext
	graphics *immediateContext
}

// New creates the Vulkan backend. It is registered with glgpu and normally reached
// through glgpu.Create.
func New(info glgpu.CreateInfo, guard *glgpu.Guard) (glgpu.Backend, error) {
	b := &backend{
		guard:        guard,
		info:         info,
		resources:    arena.New[resource](arenaCapacity),
		samplers:     arena.New[vk.Sampler](arenaCapacity),
		renderPasses: arena.New[*vkRenderPass](arenaCapacity),
		framebuffers: arena.New[vk.Framebuffer](arenaCapacity),
		swapchains:   arena.New[*vkSwapchain](1),
		fences:       arena.New[vk.Fence](arenaCapacity),
		semaphores:   arena.New[vk.Semaphore](arenaCapacity),
		commandPools: arena.New[vk.CommandPool](arenaCapacity),
	}
	b.teardown.OnRun = func(name string) {
		glgpu.Log().Debugf("vulkan: destroying %s", name)
	}
	if err := b.init(); err != nil {
		b.teardown.Flush()
		return nil, &glgpu.FatalError{Op: "create vulkan backend", Err: err}
	}
	return b, nil
}

func (b *backend) init() error {
	instance, err := createInstance(b.info)
	if err != nil {
		return err
	}
	b.instance = instance
	b.teardown.Push("instance", func() { vk.DestroyInstance(b.instance, nil) })
	b.procs.loadInstance(instance)

	if b.info.Validation {
		b.debugCallback = createDebugCallback(b.instance)
		if b.debugCallback != vk.NullDebugReportCallback {
			b.teardown.Push("debug callback", func() {
				vk.DestroyDebugReportCallback(b.instance, b.debugCallback, nil)
			})
		}
	}

	if b.info.NativeWindowHandle != nil {
		if err := b.AttachSurface(b.info.NativeConnectionHandle, b.info.NativeWindowHandle); err != nil {
			return err
		}
	}
	// Destroys whatever surface is attached at teardown, including ones attached later.
	b.teardown.Push("surface", b.destroySurface)

	if err := b.pickPhysicalDevice(); err != nil {
		return err
	}
	if err := b.createDevice(); err != nil {
		return err
	}
	b.teardown.Push("device", func() { vk.DestroyDevice(b.device, nil) })
	if err := b.procs.loadDevice(b.device); err != nil {
		return err
	}
	b.setupQueues()
	b.teardown.Push("swapchains", b.freeSwapchains)

	b.descriptors = descpool.NewManager[vk.DescriptorPool](descriptorPools{b.device}, b.info.MaxSetsPerPool)
	b.teardown.Push("descriptor pools", b.descriptors.Destroy)

	if b.transfer, err = b.newImmediateContext(b.roles[glgpu.QueueTransfer]); err != nil {
		return err
	}
	b.teardown.Push("transfer immediate context", b.transfer.destroy)
	if b.graphics, err = b.newImmediateContext(b.roles[glgpu.QueueGraphics]); err != nil {
		return err
	}
	b.teardown.Push("graphics immediate context", b.graphics.destroy)
	return nil
}

// Destroy waits for the device to go idle, runs the teardown actions in reverse order and
// releases the backend slot. Resources the caller did not free are leaked to the driver.
func (b *backend) Destroy() {
	if b.device != nil {
		b.DeviceWait()
	}
	b.teardown.Flush()
	b.device = nil
	b.instance = nil
	b.guard.Release()
}

func (b *backend) DeviceWait() {
	if err := newError(vk.DeviceWaitIdle(b.device)); err != nil {
		glgpu.Log().Errorf("vulkan: device wait: %v", err)
	}
}

// IsSwapchainSupported reports whether the backend was created for presentation.
func (b *backend) IsSwapchainSupported() bool {
	return b.info.RequiredFeatures.Has(glgpu.FeatureSwapchain) && b.surface != vk.NullSurface
}
