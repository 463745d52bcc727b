package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/andewx/glgpu"
)

// AttachSurface destroys the current surface and creates one for window. conn is the
// platform display connection; glfw windows manage their own and accept nil.
func (b *backend) AttachSurface(conn unsafe.Pointer, window glgpu.WindowHandle) error {
	if window == nil {
		return glgpu.ErrorSurfaceInvalidCompositor
	}
	compositor := glgpu.DetectCompositor()
	if compositor == glgpu.CompositorUnknown {
		glgpu.Log().Errorf("vulkan: no window compositor detected")
		return glgpu.ErrorSurfaceInvalidCompositor
	}
	b.destroySurface()

	ptr, err := window.CreateWindowSurface(b.instance, nil)
	if err != nil || ptr == 0 {
		glgpu.Log().Errorf("vulkan: create %s surface: %v", compositor, err)
		return glgpu.ErrorSurfaceInvalidCompositor
	}
	b.surface = vk.SurfaceFromPointer(ptr)
	b.info.NativeConnectionHandle = conn
	b.info.NativeWindowHandle = window
	glgpu.Log().Debugf("vulkan: attached %s surface", compositor)
	return nil
}

func (b *backend) destroySurface() {
	if b.surface != vk.NullSurface {
		vk.DestroySurface(b.instance, b.surface, nil)
		b.surface = vk.NullSurface
	}
}
