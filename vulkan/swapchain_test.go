package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andewx/glgpu"
	"github.com/andewx/glgpu/internal/arena"
)

func TestAcquireError(t *testing.T) {
	assert.NoError(t, acquireError(vk.Success))
	assert.Equal(t, glgpu.ErrorSwapchainOutOfDate, acquireError(vk.ErrorOutOfDate))
	assert.Equal(t, glgpu.ErrorSwapchainOutOfDate, acquireError(vk.Suboptimal))

	err := acquireError(vk.ErrorDeviceLost)
	require.Error(t, err)
	assert.ErrorIs(t, err, glgpu.ErrorDeviceLost)
	assert.Contains(t, err.Error(), "acquire swapchain image")

	err = acquireError(vk.ErrorSurfaceLost)
	assert.ErrorIs(t, err, glgpu.ErrorSwapchainLost)
	assert.NotErrorIs(t, err, glgpu.ErrorSwapchainOutOfDate)
}

func TestAcquireBeforeResize(t *testing.T) {
	b := &backend{swapchains: arena.New[*vkSwapchain](1)}
	sc := b.SwapchainCreate()

	_, _, err := b.SwapchainAcquireImage(sc, 0)
	assert.ErrorIs(t, err, glgpu.ErrorSwapchainOutOfDate)
}
