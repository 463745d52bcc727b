package main

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/andewx/glgpu"
	"github.com/andewx/glgpu/vulkan"
)

const (
	elementCount  = 1024
	workgroupSize = 64
)

// runCompute squares elementCount floats on the GPU in a CPU visible storage buffer and
// checks the readback.
func runCompute(cfg glgpu.Config) (err error) {
	defer glgpu.CheckErr(&err)

	if err := vulkan.InitHeadless(); err != nil {
		return errors.Wrap(err, "load vulkan")
	}
	info, err := cfg.CreateInfo()
	if err != nil {
		return err
	}
	info.RequiredFeatures &^= glgpu.FeatureSwapchain | glgpu.FeatureEnsureSurfaceSupport
	b, err := glgpu.Create(info)
	if err != nil {
		return err
	}
	defer b.Destroy()
	glgpu.Log().Infof("headless backend initialized")

	storage, err := b.BufferCreate(elementCount*4, glgpu.BufferUsageStorageBuffer, glgpu.MemoryCPU)
	if err != nil {
		return err
	}
	defer b.BufferFree(storage)
	values, err := b.BufferMap(storage)
	if err != nil {
		return err
	}
	for i := 0; i < elementCount; i++ {
		binary.LittleEndian.PutUint32(values[i*4:], math.Float32bits(float32(i)))
	}
	if err := b.BufferFlush(storage); err != nil {
		return err
	}

	source, err := shaderSource(args.shader, squareWGSL)
	if err != nil {
		return err
	}
	entries, err := compileWGSL(source, glgpu.ShaderStageCompute)
	if err != nil {
		return err
	}
	shader, err := b.ShaderCreateFromBytecode(entries)
	if err != nil {
		return err
	}
	defer b.ShaderFree(shader)
	pipeline, err := b.ComputePipelineCreate(shader)
	if err != nil {
		return err
	}
	defer b.PipelineFree(pipeline)

	set, err := b.UniformSetCreate([]glgpu.ShaderUniform{{
		Type:    glgpu.UniformTypeStorageBuffer,
		Binding: 0,
		Data:    []glgpu.Handle{glgpu.Handle(storage)},
	}}, shader, 0)
	if err != nil {
		return err
	}
	defer b.UniformSetFree(set)

	frames, err := glgpu.NewFrames(b, b.QueueGet(glgpu.QueueCompute), 1)
	if err != nil {
		return err
	}
	defer frames.Destroy()
	frame, err := frames.Begin()
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
	b.CommandBindComputePipeline(cmd, pipeline)
	b.CommandBindUniformSets(cmd, shader, 0, []glgpu.UniformSet{set}, glgpu.PipelineCompute)
	b.CommandDispatch(cmd, elementCount/workgroupSize, 1, 1)
	if err := b.CommandEnd(cmd); err != nil {
		return err
	}

	glgpu.Log().Infof("dispatching compute shader")
	if err := frame.Submit(cmd); err != nil {
		return err
	}
	if err := frames.Wait(); err != nil {
		return err
	}

	if err := b.BufferInvalidate(storage); err != nil {
		return err
	}
	defer b.BufferUnmap(storage)
	if i, got, want, ok := verifySquares(values); !ok {
		return errors.Errorf("mismatch at index %d: expected %g, got %g", i, want, got)
	}
	glgpu.Log().Infof("all %d values were squared correctly on the GPU", elementCount)
	return nil
}

// verifySquares checks that element i of values holds i*i and reports the first
// mismatch.
func verifySquares(values []byte) (int, float32, float32, bool) {
	for i := 0; i < len(values)/4; i++ {
		want := float32(i) * float32(i)
		got := math.Float32frombits(binary.LittleEndian.Uint32(values[i*4:]))
		if math.Abs(float64(got-want)) > 0.001 {
			return i, got, want, false
		}
	}
	return 0, 0, 0, true
}
