package glgpu

// ShaderStageFlags values match VkShaderStageFlagBits.
type ShaderStageFlags uint32

const (
	ShaderStageVertex                 ShaderStageFlags = 0x00000001
	ShaderStageTessellationControl    ShaderStageFlags = 0x00000002
	ShaderStageTessellationEvaluation ShaderStageFlags = 0x00000004
	ShaderStageGeometry               ShaderStageFlags = 0x00000008
	ShaderStageFragment               ShaderStageFlags = 0x00000010
	ShaderStageCompute                ShaderStageFlags = 0x00000020
)

// SpirvEntry is one shader stage in SPIR-V form. ByteCode is little endian SPIR-V words.
// EntryPoint may be left empty, in which case the first entry point of the module
// matching Stage is used.
type SpirvEntry struct {
	ByteCode   []byte
	Stage      ShaderStageFlags
	EntryPoint string
}

// ShaderInterfaceVariable is one reflected vertex input.
type ShaderInterfaceVariable struct {
	Name     string
	Location uint32
	Format   DataFormat
}

// MaxUniformSets bounds the number of descriptor sets a shader may declare.
const MaxUniformSets = 16

// ShaderUniformType is the kind of resource bound at a uniform slot.
type ShaderUniformType uint32

const (
	UniformTypeSampler ShaderUniformType = iota
	UniformTypeSamplerWithTexture
	UniformTypeTexture
	UniformTypeImage
	UniformTypeUniformBuffer
	UniformTypeStorageBuffer
	UniformTypeMax
)

func (t ShaderUniformType) String() string {
	switch t {
	case UniformTypeSampler:
		return "sampler"
	case UniformTypeSamplerWithTexture:
		return "sampler_with_texture"
	case UniformTypeTexture:
		return "texture"
	case UniformTypeImage:
		return "image"
	case UniformTypeUniformBuffer:
		return "uniform_buffer"
	case UniformTypeStorageBuffer:
		return "storage_buffer"
	}
	return "max"
}

// ShaderUniform binds resources to one binding slot of a uniform set.
//
// Data holds the bound handles: Sampler handles for UniformTypeSampler, Image handles for
// UniformTypeTexture and UniformTypeImage, Buffer handles for the buffer kinds, and
// (Sampler, Image) pairs for UniformTypeSamplerWithTexture.
type ShaderUniform struct {
	Type    ShaderUniformType
	Binding uint32
	Data    []Handle
}

// DescriptorCount is the number of descriptors the uniform occupies.
func (u ShaderUniform) DescriptorCount() uint32 {
	if u.Type == UniformTypeSamplerWithTexture {
		return uint32(len(u.Data) / 2)
	}
	return uint32(len(u.Data))
}
