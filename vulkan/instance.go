package vulkan

import (
	"runtime"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
)

const (
	extSurface               = "VK_KHR_surface"
	extDebugReport           = "VK_EXT_debug_report"
	extPortabilityEnum       = "VK_KHR_portability_enumeration"
	extGetPhysicalDeviceProp = "VK_KHR_get_physical_device_properties2"
	extSwapchain             = "VK_KHR_swapchain"
	extDynamicRendering      = "VK_KHR_dynamic_rendering"
	extPortabilitySubset     = "VK_KHR_portability_subset"

	instanceCreateEnumeratePortability = 0x00000001
)

// surfaceExtensions lists the instance extensions needed to present on compositor.
func surfaceExtensions(c glgpu.WindowCompositor) []string {
	switch c {
	case glgpu.CompositorWin32:
		return []string{extSurface, "VK_KHR_win32_surface"}
	case glgpu.CompositorX11:
		return []string{extSurface, "VK_KHR_xlib_surface", "VK_KHR_xcb_surface"}
	case glgpu.CompositorWayland:
		return []string{extSurface, "VK_KHR_wayland_surface"}
	case glgpu.CompositorCocoa:
		return []string{extSurface, "VK_EXT_metal_surface"}
	}
	return nil
}

// instanceExtensions is the wish list for info. Entries the loader lacks are dropped
// with a warning when the instance is created.
func instanceExtensions(info glgpu.CreateInfo, compositor glgpu.WindowCompositor, goos string) []string {
	var exts []string
	if info.NativeWindowHandle != nil {
		exts = append(exts, surfaceExtensions(compositor)...)
	}
	if info.Validation {
		exts = append(exts, extDebugReport)
	}
	if goos == "darwin" {
		exts = append(exts, extGetPhysicalDeviceProp, extPortabilityEnum)
	}
	return exts
}

func createInstance(info glgpu.CreateInfo) (instance vk.Instance, err error) {
	defer glgpu.CheckErr(&err)

	compositor := glgpu.DetectCompositor()
	if info.NativeWindowHandle != nil && compositor == glgpu.CompositorUnknown {
		return nil, glgpu.ErrorSurfaceInvalidCompositor
	}

	actual, err := InstanceExtensions()
	if err != nil {
		return nil, err
	}
	extensions, missing := checkExisting(actual, instanceExtensions(info, compositor, runtime.GOOS))
	if missing > 0 {
		glgpu.Log().Warnf("vulkan: missing %d requested instance extensions", missing)
	}
	glgpu.Log().Infof("vulkan: enabling %d instance extensions", len(extensions))

	var layers []string
	if info.Validation {
		available, err := ValidationLayers()
		if err != nil {
			return nil, err
		}
		layers, missing = checkExisting(available, info.ValidationLayers)
		if missing > 0 {
			glgpu.Log().Warnf("vulkan: missing %d requested validation layers", missing)
		}
	}

	var flags vk.InstanceCreateFlags
	if runtime.GOOS == "darwin" {
		flags |= instanceCreateEnumeratePortability
	}
	appName := info.AppName
	if appName == "" {
		appName = "glgpu"
	}
	engineName := info.EngineName
	if engineName == "" {
		engineName = "glgpu"
	}

	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		Flags: flags,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         vk.MakeVersion(1, 3, 0),
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			EngineVersion:      vk.MakeVersion(1, 0, 0),
			PApplicationName:   safeString(appName),
			PEngineName:        safeString(engineName),
		},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}, nil, &instance)
	orFatal("create instance", ret)
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}
	return instance, nil
}

// createDebugCallback routes validation messages into the package logger. It is a no-op
// returning the null callback when the debug report extension was not enabled.
func createDebugCallback(instance vk.Instance) vk.DebugReportCallback {
	var cb vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit | vk.DebugReportInformationBit),
		PfnCallback: dbgCallbackFunc,
	}, nil, &cb)
	if isError(ret) {
		glgpu.Log().Warnf("vulkan: debug report callback unavailable: %v", newError(ret))
		return vk.NullDebugReportCallback
	}
	glgpu.Log().Debugf("vulkan: debug report callback enabled")
	return cb
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint64, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	log := glgpu.Log()
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		log.Errorf("[%s] code %d: %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		log.Warnf("[%s] code %d: %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		log.Infof("[%s] code %d: %s", pLayerPrefix, messageCode, pMessage)
	default:
		log.Tracef("[%s] code %d: %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
