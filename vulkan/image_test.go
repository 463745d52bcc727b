package vulkan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andewx/glgpu"
)

func TestImageCreateRejectsShortData(t *testing.T) {
	b := &backend{}
	info := glgpu.DefaultImageCreateInfo(glgpu.FormatR8G8B8A8Unorm, glgpu.Vec2u{X: 64, Y: 64})
	info.Data = make([]byte, 100)

	_, err := b.ImageCreate(info)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs 16384 bytes of data, got 100")

	info.Size = glgpu.Vec2u{}
	_, err = b.ImageCreate(info)
	assert.Error(t, err)
}
