package glgpu

// Vec2u is an unsigned 2D extent or offset.
type Vec2u struct {
	X, Y uint32
}

// Vec3u is an unsigned 3D extent or offset.
type Vec3u struct {
	X, Y, Z uint32
}

// Vec3i is a signed 3D offset.
type Vec3i struct {
	X, Y, Z int32
}

// Vec4f holds four floats, used for blend constants.
type Vec4f struct {
	X, Y, Z, W float32
}

// Color is a linear RGBA color.
type Color struct {
	R, G, B, A float32
}

var (
	ColorBlack = Color{0, 0, 0, 1}
	ColorGray  = Color{0.5, 0.5, 0.5, 1}
	ColorWhite = Color{1, 1, 1, 1}
)

// Array returns the color as a float array, the layout Vulkan clear values expect.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}
