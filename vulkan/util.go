package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
)

// InstanceExtensions gets a list of instance extensions available on the platform.
func InstanceExtensions() (names []string, err error) {
	defer glgpu.CheckErr(&err)

	var count uint32
	orFatal("enumerate instance extensions", vk.EnumerateInstanceExtensionProperties("", &count, nil))
	list := make([]vk.ExtensionProperties, count)
	orFatal("enumerate instance extensions", vk.EnumerateInstanceExtensionProperties("", &count, list))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, err
}

// DeviceExtensions gets a list of extensions available on the provided physical device.
func DeviceExtensions(gpu vk.PhysicalDevice) (names []string, err error) {
	defer glgpu.CheckErr(&err)

	var count uint32
	orFatal("enumerate device extensions", vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil))
	list := make([]vk.ExtensionProperties, count)
	orFatal("enumerate device extensions", vk.EnumerateDeviceExtensionProperties(gpu, "", &count, list))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, err
}

// ValidationLayers gets a list of validation layers available on the platform.
func ValidationLayers() (names []string, err error) {
	defer glgpu.CheckErr(&err)

	var count uint32
	orFatal("enumerate layers", vk.EnumerateInstanceLayerProperties(&count, nil))
	list := make([]vk.LayerProperties, count)
	orFatal("enumerate layers", vk.EnumerateInstanceLayerProperties(&count, list))
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, err
}

// safeString NUL terminates s for the C side.
func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = safeString(list[i])
	}
	return out
}

// checkExisting returns the NUL terminated entries of required found in actual and the
// number missing. Both lists may or may not be terminated.
func checkExisting(actual, required []string) (existing []string, missing int) {
	have := make(map[string]bool, len(actual))
	for _, name := range actual {
		have[trimNul(name)] = true
	}
	for _, name := range required {
		if have[trimNul(name)] {
			existing = append(existing, safeString(name))
		} else {
			missing++
		}
	}
	return existing, missing
}

func trimNul(s string) string {
	for len(s) > 0 && s[len(s)-1] == 0 {
		s = s[:len(s)-1]
	}
	return s
}

func vkBool(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

// bytesPointer is the address of the first byte of data, or nil when it is empty.
func bytesPointer(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}
