package vulkan

/*
#cgo linux freebsd LDFLAGS: -ldl
#include <stdint.h>
#include <stdlib.h>
#if defined(_WIN32)
#include <windows.h>
#else
#include <dlfcn.h>
#endif

typedef void* (*procAddrFn)(void*, const char*);
typedef void (*features2Fn)(void*, void*);
typedef uint64_t (*deviceAddressFn)(void*, const void*);
typedef void (*beginRenderingFn)(void*, const void*);
typedef void (*endRenderingFn)(void*);

static void* openLoader(void) {
#if defined(_WIN32)
	HMODULE lib = LoadLibraryA("vulkan-1.dll");
	return lib == NULL ? NULL : (void*)GetProcAddress(lib, "vkGetInstanceProcAddr");
#else
#if defined(__APPLE__)
	static const char* names[] = {"libvulkan.1.dylib", "libvulkan.dylib", "libMoltenVK.dylib"};
#else
	static const char* names[] = {"libvulkan.so.1", "libvulkan.so"};
#endif
	for (size_t i = 0; i < sizeof(names) / sizeof(names[0]); i++) {
		void* lib = dlopen(names[i], RTLD_NOW | RTLD_LOCAL);
		if (lib != NULL) {
			return dlsym(lib, "vkGetInstanceProcAddr");
		}
	}
	return NULL;
#endif
}

static void* lookupProc(void* fn, void* handle, const char* name) {
	return ((procAddrFn)fn)(handle, name);
}

static void callFeatures2(void* fn, void* gpu, void* features) {
	((features2Fn)fn)(gpu, features);
}

static uint64_t callDeviceAddress(void* fn, void* device, void* info) {
	return ((deviceAddressFn)fn)(device, info);
}

static void callBeginRendering(void* fn, void* cmd, void* info) {
	((beginRenderingFn)fn)(cmd, info);
}

static void callEndRendering(void* fn, void* cmd) {
	((endRenderingFn)fn)(cmd);
}
*/
import "C"

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"
)

// getInstanceProcAddr is vkGetInstanceProcAddr of the loader picked by Init or
// InitHeadless.
var getInstanceProcAddr unsafe.Pointer

func openDefaultLoader() (unsafe.Pointer, error) {
	p := C.openLoader()
	if p == nil {
		return nil, errors.New("vulkan: no Vulkan loader library found")
	}
	return p, nil
}

func lookupProc(fn, handle unsafe.Pointer, names ...string) unsafe.Pointer {
	if fn == nil {
		return nil
	}
	for _, name := range names {
		cname := C.CString(name)
		p := C.lookupProc(fn, handle, cname)
		C.free(unsafe.Pointer(cname))
		if p != nil {
			return p
		}
	}
	return nil
}

// procTable holds the Vulkan 1.2 and 1.3 entry points the generated bindings lack.
type procTable struct {
	getDeviceProcAddr       unsafe.Pointer
	physicalDeviceFeatures2 unsafe.Pointer
	bufferDeviceAddress     unsafe.Pointer
	beginRendering          unsafe.Pointer
	endRendering            unsafe.Pointer
}

func (p *procTable) loadInstance(instance vk.Instance) {
	h := unsafe.Pointer(instance)
	p.getDeviceProcAddr = lookupProc(getInstanceProcAddr, h, "vkGetDeviceProcAddr")
	p.physicalDeviceFeatures2 = lookupProc(getInstanceProcAddr, h,
		"vkGetPhysicalDeviceFeatures2", "vkGetPhysicalDeviceFeatures2KHR")
}

func (p *procTable) loadDevice(device vk.Device) error {
	h := unsafe.Pointer(device)
	p.bufferDeviceAddress = lookupProc(p.getDeviceProcAddr, h,
		"vkGetBufferDeviceAddress", "vkGetBufferDeviceAddressKHR")
	p.beginRendering = lookupProc(p.getDeviceProcAddr, h, "vkCmdBeginRendering", "vkCmdBeginRenderingKHR")
	p.endRendering = lookupProc(p.getDeviceProcAddr, h, "vkCmdEndRendering", "vkCmdEndRenderingKHR")
	switch {
	case p.bufferDeviceAddress == nil:
		return errors.New("vulkan: vkGetBufferDeviceAddress not available")
	case p.beginRendering == nil || p.endRendering == nil:
		return errors.New("vulkan: dynamic rendering entry points not available")
	}
	return nil
}

// features2 fills f with vkGetPhysicalDeviceFeatures2. It reports false when the
// instance does not expose the call.
func (p *procTable) features2(gpu vk.PhysicalDevice, f *vk.PhysicalDeviceFeatures2) bool {
	if p.physicalDeviceFeatures2 == nil {
		return false
	}
	ref, _ := f.PassRef()
	defer f.Free()
	C.callFeatures2(p.physicalDeviceFeatures2, unsafe.Pointer(gpu), unsafe.Pointer(ref))
	return true
}

func (p *procTable) deviceAddress(device vk.Device, buffer vk.Buffer) uint64 {
	info := vk.BufferDeviceAddressInfo{
		SType:  vk.StructureTypeBufferDeviceAddressInfo,
		Buffer: buffer,
	}
	ref, _ := info.PassRef()
	defer info.Free()
	return uint64(C.callDeviceAddress(p.bufferDeviceAddress, unsafe.Pointer(device), unsafe.Pointer(ref)))
}

func (p *procTable) cmdBeginRendering(cmd vk.CommandBuffer, info *vk.RenderingInfo) {
	ref, _ := info.PassRef()
	defer info.Free()
	C.callBeginRendering(p.beginRendering, unsafe.Pointer(cmd), unsafe.Pointer(ref))
}

func (p *procTable) cmdEndRendering(cmd vk.CommandBuffer) {
	C.callEndRendering(p.endRendering, unsafe.Pointer(cmd))
}
