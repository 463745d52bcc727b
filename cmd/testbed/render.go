package main

import (
	"math"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/andewx/glgpu"
	"github.com/andewx/glgpu/vulkan"
)

// renderer owns the swapchain and the triangle pipeline of the window demo.
type renderer struct {
	b        glgpu.Backend
	cfg      glgpu.Config
	window   *glfw.Window
	graphics glgpu.CommandQueue
	present  glgpu.CommandQueue

	swapchain glgpu.Swapchain
	shader    glgpu.Shader
	pipeline  glgpu.Pipeline
	resized   bool
}

func runWindow(cfg glgpu.Config) (err error) {
	defer glgpu.CheckErr(&err)

	if err := vulkan.Init(); err != nil {
		return errors.Wrap(err, "load vulkan")
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	window, err := glfw.CreateWindow(args.width, args.height, cfg.AppName, nil, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()

	info, err := cfg.CreateInfo()
	if err != nil {
		return err
	}
	info.RequiredFeatures |= glgpu.FeatureSwapchain
	info.NativeWindowHandle = window
	b, err := glgpu.Create(info)
	if err != nil {
		return err
	}
	defer b.Destroy()

	r := &renderer{
		b:        b,
		cfg:      cfg,
		window:   window,
		graphics: b.QueueGet(glgpu.QueueGraphics),
		present:  b.QueueGet(glgpu.QueuePresent),
	}
	r.swapchain = b.SwapchainCreate()
	defer b.SwapchainFree(r.swapchain)
	b.SwapchainResize(r.graphics, r.swapchain, r.framebufferSize(), cfg.VSync)
	window.SetFramebufferSizeCallback(func(*glfw.Window, int, int) { r.resized = true })

	frames, err := glgpu.NewFrames(b, r.graphics, max(cfg.FramesInFlight, 1))
	if err != nil {
		return err
	}
	defer frames.Destroy()

	if err := r.buildPipeline(); err != nil {
		// The demo still clears the screen without a pipeline.
		glgpu.Log().Errorf("testbed: %v", err)
	}
	defer r.freePipeline()

	reloads, err := newReloader(map[reloadKind]string{
		reloadConfig: args.config,
		reloadShader: args.shader,
	})
	if err != nil {
		return err
	}
	defer reloads.Close()

	start := time.Now()
	for !window.ShouldClose() {
		glfw.PollEvents()
		for _, kind := range reloads.Poll() {
			r.reload(kind)
		}
		if r.resized {
			size := r.framebufferSize()
			if size.X == 0 || size.Y == 0 {
				// Minimised.
				glfw.WaitEvents()
				continue
			}
			b.DeviceWait()
			b.SwapchainResize(r.graphics, r.swapchain, size, r.cfg.VSync)
			r.resized = false
		}
		err := r.drawFrame(frames, time.Since(start))
		if errors.Is(err, glgpu.ErrorSwapchainOutOfDate) {
			r.resized = true
			continue
		}
		if err != nil {
			return err
		}
	}
	b.DeviceWait()
	return frames.Wait()
}

func (r *renderer) framebufferSize() glgpu.Vec2u {
	w, h := r.window.GetFramebufferSize()
	return glgpu.Vec2u{X: uint32(w), Y: uint32(h)}
}

// drawFrame records one frame into the next frame slot and presents it.
func (r *renderer) drawFrame(frames *glgpu.Frames, elapsed time.Duration) error {
	b := r.b
	frame, err := frames.Begin()
	if err != nil {
		return err
	}
	img, _, err := b.SwapchainAcquireImage(r.swapchain, frame.Acquire)
	if err != nil {
		return err
	}
	cmd, err := frame.NewCommandBuffer()
	if err != nil {
		return err
	}
	if err := b.CommandBegin(cmd); err != nil {
		return err
	}

	t := elapsed.Seconds()
	clear := glgpu.Color{
		R: float32(math.Abs(math.Sin(t))),
		G: float32(math.Abs(math.Cos(t))),
		B: 0.2,
		A: 1,
	}
	extent := b.SwapchainGetExtent(r.swapchain)
	if r.pipeline != 0 {
		b.CommandTransitionImage(cmd, img, glgpu.ImageLayoutUndefined, glgpu.ImageLayoutColorAttachmentOptimal, 0, 1)
		b.CommandBeginRendering(cmd, extent, []glgpu.RenderingAttachment{glgpu.NewRenderingAttachment(img, clear)}, 0)
		b.CommandBindGraphicsPipeline(cmd, r.pipeline)
		b.CommandSetViewport(cmd, extent)
		b.CommandSetScissor(cmd, extent, glgpu.Vec2u{})
		b.CommandDraw(cmd, 3, 1, 0, 0)
		b.CommandEndRendering(cmd)
		b.CommandTransitionImage(cmd, img, glgpu.ImageLayoutColorAttachmentOptimal, glgpu.ImageLayoutPresentSrc, 0, 1)
	} else {
		// Clearing requires the GENERAL layout.
		b.CommandTransitionImage(cmd, img, glgpu.ImageLayoutUndefined, glgpu.ImageLayoutGeneral, 0, 1)
		b.CommandClearColor(cmd, img, clear, 0)
		b.CommandTransitionImage(cmd, img, glgpu.ImageLayoutGeneral, glgpu.ImageLayoutPresentSrc, 0, 1)
	}

	if err := b.CommandEnd(cmd); err != nil {
		return err
	}
	if err := frame.SubmitSwapchain(cmd); err != nil {
		return err
	}
	if !b.QueuePresent(r.present, r.swapchain, frame.Release) {
		r.resized = true
	}
	return nil
}

// buildPipeline compiles the triangle shader and swaps it in for the current one.
func (r *renderer) buildPipeline() error {
	source, err := shaderSource(args.shader, triangleWGSL)
	if err != nil {
		return err
	}
	entries, err := compileWGSL(source, glgpu.ShaderStageVertex, glgpu.ShaderStageFragment)
	if err != nil {
		return err
	}
	shader, err := r.b.ShaderCreateFromBytecode(entries)
	if err != nil {
		return err
	}
	info := glgpu.DefaultRenderPipelineCreateInfo(shader)
	info.RenderingInfo.ColorAttachments = []glgpu.DataFormat{r.b.SwapchainGetFormat(r.swapchain)}
	pipeline, err := r.b.RenderPipelineCreate(info)
	if err != nil {
		r.b.ShaderFree(shader)
		return err
	}
	r.freePipeline()
	r.shader, r.pipeline = shader, pipeline
	return nil
}

func (r *renderer) freePipeline() {
	if r.pipeline == 0 {
		return
	}
	r.b.DeviceWait()
	r.b.PipelineFree(r.pipeline)
	r.b.ShaderFree(r.shader)
	r.shader, r.pipeline = 0, 0
}

// reload applies a changed config or shader file. Failures are logged and leave the
// running state untouched.
func (r *renderer) reload(kind reloadKind) {
	switch kind {
	case reloadShader:
		if err := r.buildPipeline(); err != nil {
			glgpu.Log().Errorf("testbed: shader reload: %v", err)
			return
		}
	case reloadConfig:
		cfg, err := glgpu.LoadConfig(args.config)
		if err != nil {
			glgpu.Log().Errorf("testbed: config reload: %v", err)
			return
		}
		if level, err := glgpu.ParseLevel(cfg.LogLevel); err == nil {
			glgpu.Log().SetLevel(level)
		}
		if cfg.VSync != r.cfg.VSync {
			r.resized = true
		}
		r.cfg = cfg
	}
	glgpu.Log().Infof("testbed: reloaded %s", kind)
}
