package vulkan

import (
	"errors"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andewx/glgpu"
)

func TestNewError(t *testing.T) {
	assert.NoError(t, newError(vk.Success))

	err := newError(vk.ErrorOutOfDeviceMemory)
	require.Error(t, err)
	assert.True(t, errors.Is(err, glgpu.ErrorOutOfMemory))
	assert.Contains(t, err.Error(), "out of device memory")
	assert.Equal(t, glgpu.ErrorOutOfMemory, glgpu.AsError(err))
}

func TestWrapf(t *testing.T) {
	assert.NoError(t, wrapf(vk.Success, "submit"))

	err := wrapf(vk.ErrorDeviceLost, "submit to queue %d", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submit to queue 2")
	assert.ErrorIs(t, err, glgpu.ErrorDeviceLost)
}

func TestResultToError(t *testing.T) {
	cases := map[vk.Result]glgpu.Error{
		vk.Success:                glgpu.ErrorNone,
		vk.ErrorOutOfHostMemory:   glgpu.ErrorOutOfMemory,
		vk.ErrorOutOfPoolMemory:   glgpu.ErrorOutOfMemory,
		vk.ErrorOutOfDate:         glgpu.ErrorSwapchainOutOfDate,
		vk.Suboptimal:             glgpu.ErrorSwapchainOutOfDate,
		vk.ErrorSurfaceLost:       glgpu.ErrorSwapchainLost,
		vk.ErrorValidationFailed:  glgpu.ErrorValidationFailed,
		vk.ErrorNativeWindowInUse: glgpu.ErrorSurfaceInvalidCompositor,
		vk.ErrorLayerNotPresent:   glgpu.ErrorUnknown,
	}
	for ret, want := range cases {
		assert.Equal(t, want, resultToError(ret), resultName(ret))
	}
}

func TestOrFatal(t *testing.T) {
	prev := glgpu.Log()
	glgpu.SetLogger(glgpu.NewLogger(discard{}, glgpu.LevelOff))
	defer glgpu.SetLogger(prev)

	assert.NotPanics(t, func() { orFatal("ok", vk.Success) })

	finalized := false
	run := func() (err error) {
		defer glgpu.CheckErr(&err)
		orFatal("create swapchain", vk.ErrorDeviceLost, func() { finalized = true })
		return nil
	}
	err := run()
	var fe *glgpu.FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "create swapchain", fe.Op)
	assert.ErrorIs(t, err, glgpu.ErrorDeviceLost)
	assert.True(t, finalized)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
