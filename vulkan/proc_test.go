package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"

	"github.com/andewx/glgpu/internal/selector"
)

func TestProcTableWithoutLoader(t *testing.T) {
	var p procTable
	assert.Nil(t, lookupProc(nil, nil, "vkGetDeviceProcAddr"))

	var f2 vk.PhysicalDeviceFeatures2
	assert.False(t, p.features2(nil, &f2), "no vkGetPhysicalDeviceFeatures2 without an instance")
	assert.Equal(t, selector.Features{}, queryFeatures(&p, nil), "the device is then rejected")
	assert.Error(t, p.loadDevice(nil))
}
