package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"

	"github.com/andewx/glgpu"
)

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// resultError is a failed vk.Result. It unwraps to the matching glgpu.Error so callers
// can test results with errors.Is(err, glgpu.ErrorOutOfMemory).
type resultError struct {
	ret vk.Result
}

func (e *resultError) Error() string {
	return fmt.Sprintf("vulkan error: %s (%d)", resultName(e.ret), int32(e.ret))
}

func (e *resultError) Unwrap() error {
	return resultToError(e.ret)
}

// newError converts ret into an error carrying the call stack, or nil on success.
func newError(ret vk.Result) error {
	if !isError(ret) {
		return nil
	}
	return errors.WithStack(&resultError{ret: ret})
}

// orFatal logs and panics with a *glgpu.FatalError when ret is a failure.
func orFatal(op string, ret vk.Result, finalizers ...func()) {
	if isError(ret) {
		glgpu.Fatal(op, newError(ret), finalizers...)
	}
}

// wrapf annotates a failed result with the operation that produced it.
func wrapf(ret vk.Result, format string, args ...any) error {
	if !isError(ret) {
		return nil
	}
	return errors.Wrapf(&resultError{ret: ret}, format, args...)
}

func resultToError(ret vk.Result) glgpu.Error {
	switch ret {
	case vk.Success:
		return glgpu.ErrorNone
	case vk.ErrorOutOfHostMemory, vk.ErrorOutOfDeviceMemory, vk.ErrorOutOfPoolMemory, vk.ErrorFragmentedPool:
		return glgpu.ErrorOutOfMemory
	case vk.ErrorDeviceLost:
		return glgpu.ErrorDeviceLost
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return glgpu.ErrorSwapchainOutOfDate
	case vk.ErrorSurfaceLost:
		return glgpu.ErrorSwapchainLost
	case vk.ErrorNativeWindowInUse:
		return glgpu.ErrorSurfaceInvalidCompositor
	case vk.ErrorValidationFailed:
		return glgpu.ErrorValidationFailed
	}
	return glgpu.ErrorUnknown
}

func resultName(ret vk.Result) string {
	switch ret {
	case vk.Success:
		return "success"
	case vk.NotReady:
		return "not ready"
	case vk.Timeout:
		return "timeout"
	case vk.Suboptimal:
		return "suboptimal"
	case vk.ErrorOutOfHostMemory:
		return "out of host memory"
	case vk.ErrorOutOfDeviceMemory:
		return "out of device memory"
	case vk.ErrorInitializationFailed:
		return "initialization failed"
	case vk.ErrorDeviceLost:
		return "device lost"
	case vk.ErrorMemoryMapFailed:
		return "memory map failed"
	case vk.ErrorLayerNotPresent:
		return "layer not present"
	case vk.ErrorExtensionNotPresent:
		return "extension not present"
	case vk.ErrorFeatureNotPresent:
		return "feature not present"
	case vk.ErrorIncompatibleDriver:
		return "incompatible driver"
	case vk.ErrorFragmentedPool:
		return "fragmented pool"
	case vk.ErrorOutOfPoolMemory:
		return "out of pool memory"
	case vk.ErrorSurfaceLost:
		return "surface lost"
	case vk.ErrorNativeWindowInUse:
		return "native window in use"
	case vk.ErrorOutOfDate:
		return "out of date"
	case vk.ErrorValidationFailed:
		return "validation failed"
	}
	return "unknown result"
}
