package glgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageDataSize(t *testing.T) {
	info := DefaultImageCreateInfo(FormatR8G8B8A8Unorm, Vec2u{X: 64, Y: 32})
	assert.Equal(t, uint64(64*32*4), info.DataSize())

	info.Format = FormatR32G32B32A32Sfloat
	assert.Equal(t, uint64(64*32*16), info.DataSize())

	info.Format = FormatUndefined
	assert.Zero(t, info.DataSize())
}
