package glgpu

// DataFormat enumerates pixel and vertex formats. Values match VkFormat.
type DataFormat int32

const (
	FormatUndefined             DataFormat = 0
	FormatR8Unorm               DataFormat = 9
	FormatR8Snorm               DataFormat = 10
	FormatR8Uscaled             DataFormat = 11
	FormatR8Sscaled             DataFormat = 12
	FormatR8Uint                DataFormat = 13
	FormatR8Sint                DataFormat = 14
	FormatR8Srgb                DataFormat = 15
	FormatR8G8Unorm             DataFormat = 16
	FormatR8G8Snorm             DataFormat = 17
	FormatR8G8Uscaled           DataFormat = 18
	FormatR8G8Sscaled           DataFormat = 19
	FormatR8G8Uint              DataFormat = 20
	FormatR8G8Sint              DataFormat = 21
	FormatR8G8Srgb              DataFormat = 22
	FormatR8G8B8Unorm           DataFormat = 23
	FormatR8G8B8Snorm           DataFormat = 24
	FormatR8G8B8Uscaled         DataFormat = 25
	FormatR8G8B8Sscaled         DataFormat = 26
	FormatR8G8B8Uint            DataFormat = 27
	FormatR8G8B8Sint            DataFormat = 28
	FormatR8G8B8Srgb            DataFormat = 29
	FormatB8G8R8Unorm           DataFormat = 30
	FormatB8G8R8Snorm           DataFormat = 31
	FormatB8G8R8Uscaled         DataFormat = 32
	FormatB8G8R8Sscaled         DataFormat = 33
	FormatB8G8R8Uint            DataFormat = 34
	FormatB8G8R8Sint            DataFormat = 35
	FormatB8G8R8Srgb            DataFormat = 36
	FormatR8G8B8A8Unorm         DataFormat = 37
	FormatR8G8B8A8Snorm         DataFormat = 38
	FormatR8G8B8A8Uscaled       DataFormat = 39
	FormatR8G8B8A8Sscaled       DataFormat = 40
	FormatR8G8B8A8Uint          DataFormat = 41
	FormatR8G8B8A8Sint          DataFormat = 42
	FormatR8G8B8A8Srgb          DataFormat = 43
	FormatB8G8R8A8Unorm         DataFormat = 44
	FormatB8G8R8A8Snorm         DataFormat = 45
	FormatB8G8R8A8Uscaled       DataFormat = 46
	FormatB8G8R8A8Sscaled       DataFormat = 47
	FormatB8G8R8A8Uint          DataFormat = 48
	FormatB8G8R8A8Sint          DataFormat = 49
	FormatB8G8R8A8Srgb          DataFormat = 50
	FormatA8B8G8R8UnormPack32   DataFormat = 51
	FormatA8B8G8R8SnormPack32   DataFormat = 52
	FormatA8B8G8R8UscaledPack32 DataFormat = 53
	FormatA8B8G8R8SscaledPack32 DataFormat = 54
	FormatA8B8G8R8UintPack32    DataFormat = 55
	FormatA8B8G8R8SintPack32    DataFormat = 56
	FormatA8B8G8R8SrgbPack32    DataFormat = 57
	FormatR16Unorm              DataFormat = 70
	FormatR16Snorm              DataFormat = 71
	FormatR16Uscaled            DataFormat = 72
	FormatR16Sscaled            DataFormat = 73
	FormatR16Uint               DataFormat = 74
	FormatR16Sint               DataFormat = 75
	FormatR16Sfloat             DataFormat = 76
	FormatR16G16Unorm           DataFormat = 77
	FormatR16G16Snorm           DataFormat = 78
	FormatR16G16Uscaled         DataFormat = 79
	FormatR16G16Sscaled         DataFormat = 80
	FormatR16G16Uint            DataFormat = 81
	FormatR16G16Sint            DataFormat = 82
	FormatR16G16Sfloat          DataFormat = 83
	FormatR16G16B16Unorm        DataFormat = 84
	FormatR16G16B16Snorm        DataFormat = 85
	FormatR16G16B16Uscaled      DataFormat = 86
	FormatR16G16B16Sscaled      DataFormat = 87
	FormatR16G16B16Uint         DataFormat = 88
	FormatR16G16B16Sint         DataFormat = 89
	FormatR16G16B16Sfloat       DataFormat = 90
	FormatR16G16B16A16Unorm     DataFormat = 91
	FormatR16G16B16A16Snorm     DataFormat = 92
	FormatR16G16B16A16Uscaled   DataFormat = 93
	FormatR16G16B16A16Sscaled   DataFormat = 94
	FormatR16G16B16A16Uint      DataFormat = 95
	FormatR16G16B16A16Sint      DataFormat = 96
	FormatR16G16B16A16Sfloat    DataFormat = 97
	FormatR32Uint               DataFormat = 98
	FormatR32Sint               DataFormat = 99
	FormatR32Sfloat             DataFormat = 100
	FormatR32G32Uint            DataFormat = 101
	FormatR32G32Sint            DataFormat = 102
	FormatR32G32Sfloat          DataFormat = 103
	FormatR32G32B32Uint         DataFormat = 104
	FormatR32G32B32Sint         DataFormat = 105
	FormatR32G32B32Sfloat       DataFormat = 106
	FormatR32G32B32A32Uint      DataFormat = 107
	FormatR32G32B32A32Sint      DataFormat = 108
	FormatR32G32B32A32Sfloat    DataFormat = 109
	FormatD16Unorm              DataFormat = 124
	FormatD32Sfloat             DataFormat = 126
	FormatD16UnormS8Uint        DataFormat = 128
	FormatD24UnormS8Uint        DataFormat = 129
)

// DataFormatSize returns the size in bytes of one texel or vertex element of the format,
// or 0 for FormatUndefined and unknown values.
func DataFormatSize(f DataFormat) uint32 {
	switch {
	case f >= FormatR8Unorm && f <= FormatR8Srgb:
		return 1
	case f >= FormatR8G8Unorm && f <= FormatR8G8Srgb:
		return 2
	case f >= FormatR8G8B8Unorm && f <= FormatB8G8R8Srgb:
		return 3
	case f >= FormatR8G8B8A8Unorm && f <= FormatA8B8G8R8SrgbPack32:
		return 4
	case f >= FormatR16Unorm && f <= FormatR16Sfloat:
		return 2
	case f >= FormatR16G16Unorm && f <= FormatR16G16Sfloat:
		return 4
	case f >= FormatR16G16B16Unorm && f <= FormatR16G16B16Sfloat:
		return 6
	case f >= FormatR16G16B16A16Unorm && f <= FormatR16G16B16A16Sfloat:
		return 8
	case f >= FormatR32Uint && f <= FormatR32Sfloat:
		return 4
	case f >= FormatR32G32Uint && f <= FormatR32G32Sfloat:
		return 8
	case f >= FormatR32G32B32Uint && f <= FormatR32G32B32Sfloat:
		return 12
	case f >= FormatR32G32B32A32Uint && f <= FormatR32G32B32A32Sfloat:
		return 16
	case f == FormatD16Unorm:
		return 2
	case f == FormatD32Sfloat:
		return 4
	case f == FormatD16UnormS8Uint:
		return 3
	case f == FormatD24UnormS8Uint:
		return 4
	}
	return 0
}

// IsDepthFormat reports whether the format has a depth component.
func IsDepthFormat(f DataFormat) bool {
	switch f {
	case FormatD16Unorm, FormatD32Sfloat, FormatD16UnormS8Uint, FormatD24UnormS8Uint:
		return true
	}
	return false
}

// HasStencil reports whether the format has a stencil component.
func HasStencil(f DataFormat) bool {
	return f == FormatD16UnormS8Uint || f == FormatD24UnormS8Uint
}
