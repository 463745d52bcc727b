package glgpu

import (
	"strings"
	"unsafe"
)

// API selects the low level graphics API family backing a Backend.
type API int

const (
	APIVulkan API = iota
)

func (a API) String() string {
	if a == APIVulkan {
		return "vulkan"
	}
	return "unknown"
}

// FeatureFlags lists the capabilities a backend must provide. FeatureNone is a headless
// backend without presentation.
type FeatureFlags uint32

const (
	FeatureNone                 FeatureFlags = 0x0
	FeatureSwapchain            FeatureFlags = 0x1
	FeatureEnsureSurfaceSupport FeatureFlags = 0x2
	FeatureDistinctComputeQueue FeatureFlags = 0x4
)

func (f FeatureFlags) Has(flag FeatureFlags) bool {
	return f&flag == flag
}

var featureNames = []struct {
	name string
	flag FeatureFlags
}{
	{"swapchain", FeatureSwapchain},
	{"ensure_surface_support", FeatureEnsureSurfaceSupport},
	{"distinct_compute_queue", FeatureDistinctComputeQueue},
}

func (f FeatureFlags) String() string {
	var names []string
	for _, fn := range featureNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseFeatures converts feature names as written in configuration files into flags.
func ParseFeatures(names []string) (FeatureFlags, error) {
	var flags FeatureFlags
next:
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || n == "none" {
			continue
		}
		for _, fn := range featureNames {
			if fn.name == n {
				flags |= fn.flag
				continue next
			}
		}
		return flags, &unknownFeatureError{name: n}
	}
	return flags, nil
}

type unknownFeatureError struct {
	name string
}

func (e *unknownFeatureError) Error() string {
	return "glgpu: unknown required feature " + e.name
}

// WindowHandle is a native window able to create a presentation surface for an instance.
// *glfw.Window implements it.
type WindowHandle interface {
	CreateWindowSurface(instance interface{}, allocCallbacks unsafe.Pointer) (surface uintptr, err error)
}

// CreateInfo configures Create.
type CreateInfo struct {
	API              API
	RequiredFeatures FeatureFlags

	// NativeConnectionHandle is the platform display connection (X11 Display, HINSTANCE).
	// It may be nil when NativeWindowHandle manages its own connection.
	NativeConnectionHandle unsafe.Pointer
	// NativeWindowHandle is nil for headless backends.
	NativeWindowHandle WindowHandle

	AppName          string
	EngineName       string
	Validation       bool
	ValidationLayers []string
	// MaxSetsPerPool bounds uniform sets allocated from one descriptor pool. Zero selects 65535.
	MaxSetsPerPool uint32
	// SmallAllocationMaxSize is the size CPU buffers below it are rounded up to. Zero
	// disables rounding.
	SmallAllocationMaxSize uint64
}
