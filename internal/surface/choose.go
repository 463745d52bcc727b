// Package surface holds the swapchain configuration choices and lifecycle states.
package surface

import "github.com/andewx/glgpu"

// Extent is a surface size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

// Capabilities is the subset of the surface capabilities resize depends on.
type Capabilities struct {
	MinImageCount  uint32
	MaxImageCount  uint32
	CurrentExtent  Extent
	MinImageExtent Extent
	MaxImageExtent Extent
}

// UndefinedExtent is reported as the current extent when the swapchain decides the size.
const UndefinedExtent = ^uint32(0)

// ChooseExtent uses the surface's fixed extent if it has one, otherwise clamps the
// requested size to the supported range.
func ChooseExtent(caps Capabilities, requested glgpu.Vec2u) Extent {
	if caps.CurrentExtent.Width != UndefinedExtent {
		return caps.CurrentExtent
	}
	return Extent{
		Width:  clamp(requested.X, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(requested.Y, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi uint32) uint32 {
	return max(lo, min(v, hi))
}

// ChooseImageCount requests one image over the minimum, bounded by the maximum. A zero
// maximum is unbounded.
func ChooseImageCount(caps Capabilities) uint32 {
	n := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && n > caps.MaxImageCount {
		n = caps.MaxImageCount
	}
	return n
}

// ColorSpace values match VkColorSpaceKHR.
type ColorSpace uint32

const ColorSpaceSRGBNonlinear ColorSpace = 0

// Format is one supported surface format.
type Format struct {
	Format     glgpu.DataFormat
	ColorSpace ColorSpace
}

var preferredFormats = []glgpu.DataFormat{
	glgpu.FormatR8G8B8A8Unorm,
	glgpu.FormatB8G8R8A8Unorm,
	glgpu.FormatR8G8B8A8Srgb,
	glgpu.FormatB8G8R8A8Srgb,
}

// ChooseFormat picks the first preferred 8-bit RGBA or BGRA format in the SRGB nonlinear
// color space, falling back to the first enumerated format. It returns false when
// formats is empty.
func ChooseFormat(formats []Format) (Format, bool) {
	if len(formats) == 0 {
		return Format{}, false
	}
	for _, want := range preferredFormats {
		for _, f := range formats {
			if f.Format == want && f.ColorSpace == ColorSpaceSRGBNonlinear {
				return f, true
			}
		}
	}
	return formats[0], true
}

// PresentMode values match VkPresentModeKHR.
type PresentMode uint32

const (
	PresentModeImmediate PresentMode = 0
	PresentModeMailbox   PresentMode = 1
	PresentModeFIFO      PresentMode = 2
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "immediate"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeFIFO:
		return "fifo"
	}
	return "unknown"
}

// ChoosePresentMode returns FIFO under vsync. Without vsync it prefers MAILBOX, then
// IMMEDIATE, then FIFO, which every surface supports.
func ChoosePresentMode(modes []PresentMode, vsync bool) PresentMode {
	if vsync {
		return PresentModeFIFO
	}
	for _, want := range []PresentMode{PresentModeMailbox, PresentModeImmediate} {
		for _, m := range modes {
			if m == want {
				return m
			}
		}
	}
	return PresentModeFIFO
}
