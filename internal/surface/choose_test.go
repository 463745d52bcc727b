package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andewx/glgpu"
)

func TestChooseExtent(t *testing.T) {
	free := Capabilities{
		CurrentExtent:  Extent{UndefinedExtent, UndefinedExtent},
		MinImageExtent: Extent{1, 1},
		MaxImageExtent: Extent{4096, 2048},
	}
	assert.Equal(t, Extent{256, 256}, ChooseExtent(free, glgpu.Vec2u{X: 256, Y: 256}))
	assert.Equal(t, Extent{4096, 2048}, ChooseExtent(free, glgpu.Vec2u{X: 9000, Y: 9000}))
	assert.Equal(t, Extent{1, 1}, ChooseExtent(free, glgpu.Vec2u{}))

	fixed := free
	fixed.CurrentExtent = Extent{800, 600}
	assert.Equal(t, Extent{800, 600}, ChooseExtent(fixed, glgpu.Vec2u{X: 256, Y: 256}))
}

func TestChooseImageCount(t *testing.T) {
	assert.Equal(t, uint32(3), ChooseImageCount(Capabilities{MinImageCount: 2}))
	assert.Equal(t, uint32(3), ChooseImageCount(Capabilities{MinImageCount: 2, MaxImageCount: 8}))
	assert.Equal(t, uint32(2), ChooseImageCount(Capabilities{MinImageCount: 2, MaxImageCount: 2}))
}

func TestChooseFormat(t *testing.T) {
	_, ok := ChooseFormat(nil)
	assert.False(t, ok)

	formats := []Format{
		{glgpu.FormatR16G16B16A16Unorm, ColorSpaceSRGBNonlinear},
		{glgpu.FormatB8G8R8A8Srgb, ColorSpaceSRGBNonlinear},
		{glgpu.FormatB8G8R8A8Unorm, ColorSpaceSRGBNonlinear},
	}
	f, ok := ChooseFormat(formats)
	assert.True(t, ok)
	assert.Equal(t, glgpu.FormatB8G8R8A8Unorm, f.Format)

	f, _ = ChooseFormat(formats[:2])
	assert.Equal(t, glgpu.FormatB8G8R8A8Srgb, f.Format)

	// Wrong color space does not count as a match.
	f, _ = ChooseFormat([]Format{
		{glgpu.FormatR16G16B16A16Sfloat, ColorSpaceSRGBNonlinear},
		{glgpu.FormatR8G8B8A8Unorm, ColorSpace(1000104002)},
	})
	assert.Equal(t, glgpu.FormatR16G16B16A16Sfloat, f.Format)
}

func TestChoosePresentMode(t *testing.T) {
	all := []PresentMode{PresentModeFIFO, PresentModeImmediate, PresentModeMailbox}
	assert.Equal(t, PresentModeFIFO, ChoosePresentMode(all, true))
	assert.Equal(t, PresentModeMailbox, ChoosePresentMode(all, false))
	assert.Equal(t, PresentModeImmediate, ChoosePresentMode([]PresentMode{PresentModeFIFO, PresentModeImmediate}, false))
	assert.Equal(t, PresentModeFIFO, ChoosePresentMode([]PresentMode{PresentModeFIFO}, false))
	assert.Equal(t, PresentModeFIFO, ChoosePresentMode(nil, false))
}

func TestStateTransitions(t *testing.T) {
	assert.True(t, Uninitialized.CanResize())
	assert.False(t, Uninitialized.CanAcquire())
	assert.True(t, Ready.CanResize())
	assert.True(t, Ready.CanAcquire())
	assert.False(t, Destroyed.CanResize())
	assert.False(t, Destroyed.CanAcquire())
	assert.Equal(t, "ready", Ready.String())
}
