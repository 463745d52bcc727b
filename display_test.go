package glgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCompositor(t *testing.T) {
	cases := []struct {
		name string
		goos string
		env  map[string]string
		want WindowCompositor
	}{
		{"windows", "windows", nil, CompositorWin32},
		{"darwin", "darwin", map[string]string{"DISPLAY": ":0"}, CompositorCocoa},
		{"wayland wins over xwayland", "linux", map[string]string{"WAYLAND_DISPLAY": "wayland-0", "DISPLAY": ":0"}, CompositorWayland},
		{"x11", "linux", map[string]string{"DISPLAY": ":1"}, CompositorX11},
		{"session type wayland", "freebsd", map[string]string{"XDG_SESSION_TYPE": "wayland"}, CompositorWayland},
		{"session type x11", "linux", map[string]string{"XDG_SESSION_TYPE": "x11"}, CompositorX11},
		{"tty", "linux", map[string]string{"XDG_SESSION_TYPE": "tty"}, CompositorUnknown},
		{"empty", "linux", nil, CompositorUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := detectCompositor(tc.goos, func(k string) string { return tc.env[k] })
			assert.Equal(t, tc.want, got)
		})
	}
}
