package glgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeatures(t *testing.T) {
	f, err := ParseFeatures([]string{"swapchain", " Distinct_Compute_Queue ", "none", ""})
	require.NoError(t, err)
	assert.Equal(t, FeatureSwapchain|FeatureDistinctComputeQueue, f)
	assert.Equal(t, "swapchain|distinct_compute_queue", f.String())

	f, err = ParseFeatures(nil)
	require.NoError(t, err)
	assert.Equal(t, FeatureNone, f)
	assert.Equal(t, "none", f.String())

	_, err = ParseFeatures([]string{"raytracing"})
	assert.EqualError(t, err, "glgpu: unknown required feature raytracing")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, uint32(4), DataFormatSize(FormatR8G8B8A8Unorm))
	assert.Equal(t, uint32(4), DataFormatSize(FormatB8G8R8A8Srgb))
	assert.Equal(t, uint32(12), DataFormatSize(FormatR32G32B32Sfloat))
	assert.Equal(t, uint32(16), DataFormatSize(FormatR32G32B32A32Sfloat))
	assert.Equal(t, uint32(0), DataFormatSize(FormatUndefined))

	assert.True(t, IsDepthFormat(FormatD32Sfloat))
	assert.False(t, IsDepthFormat(FormatR32Sfloat))
	assert.True(t, HasStencil(FormatD24UnormS8Uint))
	assert.False(t, HasStencil(FormatD32Sfloat))
}

func TestShaderUniformDescriptorCount(t *testing.T) {
	u := ShaderUniform{Type: UniformTypeSamplerWithTexture, Data: []Handle{1, 2, 3, 4}}
	assert.Equal(t, uint32(2), u.DescriptorCount())
	u = ShaderUniform{Type: UniformTypeUniformBuffer, Data: []Handle{1, 2, 3}}
	assert.Equal(t, uint32(3), u.DescriptorCount())
}
