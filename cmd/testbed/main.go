// Command testbed drives the glgpu Vulkan backend. By default it opens a window and
// draws a triangle over an animated clear color; with -compute it runs a headless
// dispatch that squares a storage buffer and verifies the result.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/andewx/glgpu"
	_ "github.com/andewx/glgpu/vulkan"
)

func init() {
	// glfw and the presentation engine must be driven from the main thread.
	runtime.LockOSThread()

	flag.StringVar(&args.config, "config", "", "TOML or YAML config file, reloaded on change")
	flag.StringVar(&args.shader, "shader", "", "WGSL file replacing the built-in shader, reloaded on change")
	flag.BoolVar(&args.compute, "compute", false, "run the headless compute demo")
	flag.IntVar(&args.width, "width", 800, "window width")
	flag.IntVar(&args.height, "height", 600, "window height")
}

var args struct {
	config  string
	shader  string
	compute bool
	width   int
	height  int
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(args.config)
	if err != nil {
		log.Fatalf("testbed: %v", err)
	}
	logs, err := cfg.SetupLogging()
	if err != nil {
		log.Fatalf("testbed: %v", err)
	}

	if args.compute {
		err = runCompute(cfg)
	} else {
		err = runWindow(cfg)
	}
	if err != nil {
		glgpu.Log().Errorf("testbed: %v", err)
	}
	closeQuietly(logs)
	if err != nil {
		os.Exit(1)
	}
}

func loadConfig(path string) (glgpu.Config, error) {
	if path == "" {
		return glgpu.DefaultConfig(), nil
	}
	return glgpu.LoadConfig(path)
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Printf("testbed: %v", err)
	}
}
