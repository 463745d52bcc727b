package glgpu

import (
	"os"
	"runtime"
)

// WindowCompositor is the windowing system a surface is created for.
type WindowCompositor int

const (
	CompositorUnknown WindowCompositor = iota
	CompositorWin32
	CompositorX11
	CompositorWayland
	CompositorCocoa
)

func (c WindowCompositor) String() string {
	switch c {
	case CompositorWin32:
		return "win32"
	case CompositorX11:
		return "x11"
	case CompositorWayland:
		return "wayland"
	case CompositorCocoa:
		return "cocoa"
	}
	return "unknown"
}

// DetectCompositor inspects the session environment.
func DetectCompositor() WindowCompositor {
	return detectCompositor(runtime.GOOS, os.Getenv)
}

func detectCompositor(goos string, getenv func(string) string) WindowCompositor {
	switch goos {
	case "windows":
		return CompositorWin32
	case "darwin":
		return CompositorCocoa
	}
	if getenv("WAYLAND_DISPLAY") != "" {
		return CompositorWayland
	}
	// DISPLAY is also set under XWayland, which is only reached without WAYLAND_DISPLAY.
	if getenv("DISPLAY") != "" {
		return CompositorX11
	}
	switch getenv("XDG_SESSION_TYPE") {
	case "wayland":
		return CompositorWayland
	case "x11":
		return CompositorX11
	}
	return CompositorUnknown
}
