package vulkan

import (
	"runtime"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
	"github.com/andewx/glgpu/internal/selector"
)

// requiredDeviceExtensions lists the extensions a device must expose for features.
func requiredDeviceExtensions(features glgpu.FeatureFlags) []string {
	exts := []string{extDynamicRendering}
	if features.Has(glgpu.FeatureSwapchain) {
		exts = append(exts, extSwapchain)
	}
	return exts
}

func requirements(info glgpu.CreateInfo, hasSurface bool) selector.Requirements {
	return selector.Requirements{
		Features:   info.RequiredFeatures,
		HasSurface: hasSurface,
		Extensions: requiredDeviceExtensions(info.RequiredFeatures),
		Needed: selector.Features{
			Synchronization2:    true,
			BufferDeviceAddress: true,
			DynamicRendering:    true,
		},
	}
}

// featureChain is the Vulkan 1.2 and 1.3 feature structs linked through C memory.
type featureChain struct {
	v12 vk.PhysicalDeviceVulkan12Features
	v13 vk.PhysicalDeviceVulkan13Features
}

// link builds the C side chain v12 -> v13 and returns its head.
func (c *featureChain) link() unsafe.Pointer {
	c.v12.SType = vk.StructureTypePhysicalDeviceVulkan12Features
	c.v13.SType = vk.StructureTypePhysicalDeviceVulkan13Features
	p13, _ := c.v13.PassRef()
	c.v12.PNext = unsafe.Pointer(p13)
	p12, _ := c.v12.PassRef()
	return unsafe.Pointer(p12)
}

func (c *featureChain) free() {
	c.v12.Free()
	c.v13.Free()
}

func queryFeatures(procs *procTable, gpu vk.PhysicalDevice) selector.Features {
	var chain featureChain
	defer chain.free()
	f2 := vk.PhysicalDeviceFeatures2{
		SType: vk.StructureTypePhysicalDeviceFeatures2,
		PNext: chain.link(),
	}
	if !procs.features2(gpu, &f2) {
		return selector.Features{}
	}
	chain.v12.Deref()
	chain.v13.Deref()
	return selector.Features{
		Synchronization2:    chain.v13.Synchronization2 == vk.True,
		BufferDeviceAddress: chain.v12.BufferDeviceAddress == vk.True,
		DynamicRendering:    chain.v13.DynamicRendering == vk.True,
	}
}

// queryFamilies reads the queue families of gpu. Present support is only queried when
// req needs a present family.
func queryFamilies(gpu vk.PhysicalDevice, surface vk.Surface, req selector.Requirements) []selector.QueueFamily {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, props)

	families := make([]selector.QueueFamily, count)
	for i := range props {
		props[i].Deref()
		families[i] = selector.QueueFamily{
			Flags: selector.QueueFlags(props[i].QueueFlags),
			Count: props[i].QueueCount,
		}
		if req.NeedsPresent() {
			var supported vk.Bool32
			vk.GetPhysicalDeviceSurfaceSupport(gpu, uint32(i), surface, &supported)
			families[i].PresentSupport = supported == vk.True
		}
	}
	return families
}

// describe runs every query the selector needs on gpu.
func (b *backend) describe(gpu vk.PhysicalDevice, req selector.Requirements) selector.Candidate {
	surface := b.surface
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()
	props.Limits.Deref()

	c := selector.Candidate{
		Name:                vk.ToString(props.DeviceName[:]),
		Discrete:            props.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu,
		MaxImageDimension2D: props.Limits.MaxImageDimension2D,
		Families:            queryFamilies(gpu, surface, req),
		Features:            queryFeatures(&b.procs, gpu),
	}
	exts, err := DeviceExtensions(gpu)
	if err != nil {
		glgpu.Log().Warnf("vulkan: %s: %v", c.Name, err)
	}
	c.Extensions = exts

	if surface != vk.NullSurface {
		var n uint32
		vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &n, nil)
		c.SurfaceFormats = int(n)
		n = 0
		vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &n, nil)
		c.PresentModes = int(n)
	}
	return c
}

// pickPhysicalDevice enumerates the GPUs, scores them and returns the winner.
func (b *backend) pickPhysicalDevice() (err error) {
	defer glgpu.CheckErr(&err)

	var count uint32
	orFatal("enumerate physical devices", vk.EnumeratePhysicalDevices(b.instance, &count, nil))
	if count == 0 {
		return glgpu.ErrNoSuitableDevice
	}
	gpus := make([]vk.PhysicalDevice, count)
	orFatal("enumerate physical devices", vk.EnumeratePhysicalDevices(b.instance, &count, gpus))

	req := requirements(b.info, b.surface != vk.NullSurface)
	cands := make([]selector.Candidate, len(gpus))
	for i, gpu := range gpus {
		cands[i] = b.describe(gpu, req)
	}
	best, err := selector.Select(cands, req)
	for _, c := range cands {
		if c.Score == 0 {
			glgpu.Log().Debugf("vulkan: rejected %q: %s", c.Name, c.Reason)
		}
	}
	if err != nil {
		return err
	}

	b.gpu = gpus[best]
	b.indices = cands[best].Indices
	b.deviceExtensions = cands[best].Extensions
	vk.GetPhysicalDeviceProperties(b.gpu, &b.gpuProperties)
	b.gpuProperties.Deref()
	b.gpuProperties.Limits.Deref()
	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(b.gpu, &memProps)
	memProps.Deref()
	b.memoryTypes = memoryTypeFlags(memProps)

	glgpu.Log().Infof("vulkan: selected %q (score %d)", cands[best].Name, cands[best].Score)
	return nil
}

func (b *backend) createDevice() (err error) {
	defer glgpu.CheckErr(&err)

	families := b.indices.Unique()
	queueInfos := make([]vk.DeviceQueueCreateInfo, len(families))
	for i, family := range families {
		queueInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	wanted := requiredDeviceExtensions(b.info.RequiredFeatures)
	if runtime.GOOS == "darwin" {
		wanted = append(wanted, extPortabilitySubset)
	}
	extensions, _ := checkExisting(b.deviceExtensions, wanted)

	var supported vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(b.gpu, &supported)
	supported.Deref()

	var chain featureChain
	defer chain.free()
	chain.v12.BufferDeviceAddress = vk.True
	chain.v13.Synchronization2 = vk.True
	chain.v13.DynamicRendering = vk.True

	var device vk.Device
	ret := vk.CreateDevice(b.gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		PNext:                   chain.link(),
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		PEnabledFeatures: []vk.PhysicalDeviceFeatures{{
			FillModeNonSolid:  supported.FillModeNonSolid,
			DepthClamp:        supported.DepthClamp,
			DepthBiasClamp:    supported.DepthBiasClamp,
			WideLines:         supported.WideLines,
			SampleRateShading: supported.SampleRateShading,
			SamplerAnisotropy: supported.SamplerAnisotropy,
			LogicOp:           supported.LogicOp,
		}},
	}, nil, &device)
	orFatal("create device", ret)
	b.device = device
	glgpu.Log().Infof("vulkan: device created with %d queue families", len(families))
	return nil
}

// GetMaxMSAASamples returns the highest sample count usable for both color and depth.
func (b *backend) GetMaxMSAASamples() uint32 {
	limits := b.gpuProperties.Limits
	return maxSampleCount(limits.FramebufferColorSampleCounts & limits.FramebufferDepthSampleCounts)
}
