package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"

	"github.com/andewx/glgpu"
	"github.com/andewx/glgpu/internal/descpool"
)

// descriptorPools creates the native pools behind the descriptor manager.
type descriptorPools struct {
	device vk.Device
}

// CreatePool sizes every kind present in key for maxSets sets. Sets can be freed one by
// one.
func (d descriptorPools) CreatePool(key descpool.Key, maxSets uint32) (vk.DescriptorPool, error) {
	var sizes []vk.DescriptorPoolSize
	for kind, count := range key {
		if count == 0 {
			continue
		}
		sizes = append(sizes, vk.DescriptorPoolSize{
			Type:            vkDescriptorType(glgpu.ShaderUniformType(kind)),
			DescriptorCount: uint32(count) * maxSets,
		})
	}
	if len(sizes) == 0 {
		// Empty sets still need a pool to come from.
		sizes = append(sizes, vk.DescriptorPoolSize{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: 1})
	}
	var pool vk.DescriptorPool
	ret := vk.CreateDescriptorPool(d.device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       maxSets,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &pool)
	if err := wrapf(ret, "create descriptor pool"); err != nil {
		return vk.NullDescriptorPool, err
	}
	glgpu.Log().Debugf("vulkan: new descriptor pool for %v", key)
	return pool, nil
}

func (d descriptorPools) DestroyPool(pool vk.DescriptorPool) {
	vk.DestroyDescriptorPool(d.device, pool, nil)
}

// UniformSetCreate allocates a set for layout set of s from the pool matching the uniform
// signature and writes every uniform into it.
func (b *backend) UniformSetCreate(uniforms []glgpu.ShaderUniform, s glgpu.Shader, set uint32) (glgpu.UniformSet, error) {
	sh := b.shader(s)
	if int(set) >= len(sh.setLayouts) {
		return 0, errors.Errorf("vulkan: shader %d has no uniform set %d", s, set)
	}
	entry, err := b.descriptors.Acquire(descpool.KeyOf(uniforms))
	if err != nil {
		return 0, err
	}

	var ds vk.DescriptorSet
	ret := vk.AllocateDescriptorSets(b.device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     entry.Pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{sh.setLayouts[set]},
	}, &ds)
	if err := wrapf(ret, "allocate uniform set %d", set); err != nil {
		b.descriptors.Release(entry)
		return 0, err
	}

	writes := make([]vk.WriteDescriptorSet, 0, len(uniforms))
	for _, u := range uniforms {
		w, err := b.descriptorWrite(ds, u)
		if err != nil {
			vk.FreeDescriptorSets(b.device, entry.Pool, 1, &ds)
			b.descriptors.Release(entry)
			return 0, err
		}
		writes = append(writes, w)
	}
	if len(writes) > 0 {
		vk.UpdateDescriptorSets(b.device, uint32(len(writes)), writes, 0, nil)
	}
	return glgpu.UniformSet(b.resources.Alloc(&vkUniformSet{set: ds, entry: entry})), nil
}

func (b *backend) descriptorWrite(ds vk.DescriptorSet, u glgpu.ShaderUniform) (vk.WriteDescriptorSet, error) {
	w := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          ds,
		DstBinding:      u.Binding,
		DescriptorCount: u.DescriptorCount(),
		DescriptorType:  vkDescriptorType(u.Type),
	}
	if w.DescriptorCount == 0 {
		return w, errors.Errorf("vulkan: %s uniform at binding %d has no data", u.Type, u.Binding)
	}
	switch u.Type {
	case glgpu.UniformTypeSampler:
		for _, h := range u.Data {
			w.PImageInfo = append(w.PImageInfo, vk.DescriptorImageInfo{Sampler: b.sampler(glgpu.Sampler(h))})
		}
	case glgpu.UniformTypeSamplerWithTexture:
		for i := 0; i+1 < len(u.Data); i += 2 {
			w.PImageInfo = append(w.PImageInfo, vk.DescriptorImageInfo{
				Sampler:     b.sampler(glgpu.Sampler(u.Data[i])),
				ImageView:   b.image(glgpu.Image(u.Data[i+1])).view,
				ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
			})
		}
	case glgpu.UniformTypeTexture:
		for _, h := range u.Data {
			w.PImageInfo = append(w.PImageInfo, vk.DescriptorImageInfo{
				ImageView:   b.image(glgpu.Image(h)).view,
				ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
			})
		}
	case glgpu.UniformTypeImage:
		for _, h := range u.Data {
			w.PImageInfo = append(w.PImageInfo, vk.DescriptorImageInfo{
				ImageView:   b.image(glgpu.Image(h)).view,
				ImageLayout: vk.ImageLayoutGeneral,
			})
		}
	case glgpu.UniformTypeUniformBuffer, glgpu.UniformTypeStorageBuffer:
		for _, h := range u.Data {
			w.PBufferInfo = append(w.PBufferInfo, vk.DescriptorBufferInfo{
				Buffer: b.buffer(glgpu.Buffer(h)).buffer,
				Range:  vk.DeviceSize(vk.WholeSize),
			})
		}
	default:
		return w, errors.Errorf("vulkan: unknown uniform type %d", u.Type)
	}
	return w, nil
}

// UniformSetFree returns the set to its pool. The pool itself is kept for reuse.
func (b *backend) UniformSetFree(u glgpu.UniformSet) {
	us := b.uniformSet(u)
	b.resources.Free(uint32(u))
	vk.FreeDescriptorSets(b.device, us.entry.Pool, 1, &us.set)
	b.descriptors.Release(us.entry)
}
