package vulkan

import (
	"sort"

	vk "github.com/goki/vulkan"
	"github.com/pkg/errors"

	"github.com/andewx/glgpu"
	"github.com/andewx/glgpu/internal/spirv"
)

// ShaderCreateFromBytecode creates one module per stage and derives the descriptor set
// layouts and pipeline layout from their reflected interfaces.
func (b *backend) ShaderCreateFromBytecode(entries []glgpu.SpirvEntry) (h glgpu.Shader, err error) {
	if len(entries) == 0 {
		return 0, errors.New("vulkan: shader without stages")
	}
	sh := &vkShader{}
	defer func() {
		if err != nil {
			b.destroyShader(sh)
		}
	}()

	mods := make([]*spirv.Module, 0, len(entries))
	for _, e := range entries {
		mod, err := spirv.Reflect(e.ByteCode)
		if err != nil {
			return 0, errors.Wrapf(err, "reflect %#x stage", e.Stage)
		}
		entry, ok := mod.Entry(e.Stage, e.EntryPoint)
		if !ok {
			return 0, errors.Errorf("vulkan: no %#x entry point %q", e.Stage, e.EntryPoint)
		}
		words, err := spirv.Words(e.ByteCode)
		if err != nil {
			return 0, err
		}
		var module vk.ShaderModule
		ret := vk.CreateShaderModule(b.device, &vk.ShaderModuleCreateInfo{
			SType:    vk.StructureTypeShaderModuleCreateInfo,
			CodeSize: uint64(len(words) * 4),
			PCode:    words,
		}, nil, &module)
		if err := wrapf(ret, "create shader module %q", entry.Name); err != nil {
			return 0, err
		}
		sh.stages = append(sh.stages, shaderStage{module: module, stage: e.Stage, entry: entry.Name})
		if e.Stage == glgpu.ShaderStageVertex {
			sh.inputs = append(sh.inputs, mod.Inputs...)
		}
		mods = append(mods, mod)
	}
	sort.Slice(sh.inputs, func(i, j int) bool { return sh.inputs[i].Location < sh.inputs[j].Location })

	if sh.layout, err = spirv.Merge(mods...); err != nil {
		return 0, err
	}
	for set, bindings := range sh.layout.Sets {
		layout, err := b.createSetLayout(bindings)
		if err != nil {
			return 0, errors.Wrapf(err, "set %d", set)
		}
		sh.setLayouts = append(sh.setLayouts, layout)
	}

	info := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(sh.setLayouts)),
		PSetLayouts:    sh.setLayouts,
	}
	if sh.layout.PushConstantSize > 0 {
		info.PushConstantRangeCount = 1
		info.PPushConstantRanges = []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(sh.layout.PushConstantStages),
			Size:       sh.layout.PushConstantSize,
		}}
	}
	if err := wrapf(vk.CreatePipelineLayout(b.device, &info, nil, &sh.pipelineLayout), "create pipeline layout"); err != nil {
		return 0, err
	}
	return glgpu.Shader(b.resources.Alloc(sh)), nil
}

func (b *backend) createSetLayout(bindings []spirv.Binding) (vk.DescriptorSetLayout, error) {
	list := make([]vk.DescriptorSetLayoutBinding, len(bindings))
	for i, bd := range bindings {
		list[i] = vk.DescriptorSetLayoutBinding{
			Binding:         bd.Binding,
			DescriptorType:  vkDescriptorType(bd.Type),
			DescriptorCount: bd.Count,
			StageFlags:      vk.ShaderStageFlags(bd.Stages),
		}
	}
	var layout vk.DescriptorSetLayout
	ret := vk.CreateDescriptorSetLayout(b.device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(list)),
		PBindings:    list,
	}, nil, &layout)
	if err := wrapf(ret, "create descriptor set layout"); err != nil {
		return vk.NullDescriptorSetLayout, err
	}
	return layout, nil
}

func (b *backend) destroyShader(sh *vkShader) {
	if sh.pipelineLayout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(b.device, sh.pipelineLayout, nil)
	}
	for _, l := range sh.setLayouts {
		vk.DestroyDescriptorSetLayout(b.device, l, nil)
	}
	for _, s := range sh.stages {
		vk.DestroyShaderModule(b.device, s.module, nil)
	}
}

// ShaderFree destroys the modules and layouts. Pipelines built from s stay valid.
func (b *backend) ShaderFree(s glgpu.Shader) {
	sh := b.shader(s)
	b.resources.Free(uint32(s))
	b.destroyShader(sh)
}

// ShaderGetVertexInputs returns the vertex stage inputs ordered by location.
func (b *backend) ShaderGetVertexInputs(s glgpu.Shader) []glgpu.ShaderInterfaceVariable {
	return append([]glgpu.ShaderInterfaceVariable(nil), b.shader(s).inputs...)
}

func (sh *vkShader) stageInfos() []vk.PipelineShaderStageCreateInfo {
	infos := make([]vk.PipelineShaderStageCreateInfo, len(sh.stages))
	for i, s := range sh.stages {
		infos[i] = vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFlagBits(s.stage),
			Module: s.module,
			PName:  safeString(s.entry),
		}
	}
	return infos
}
