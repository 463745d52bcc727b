package main

import (
	_ "embed"
	"os"

	"github.com/gogpu/naga"
	"github.com/pkg/errors"

	"github.com/andewx/glgpu"
)

var (
	//go:embed shaders/triangle.wgsl
	triangleWGSL string
	//go:embed shaders/square.wgsl
	squareWGSL string
)

// compileWGSL translates WGSL source into SPIR-V entries, one per stage. Every entry
// shares the module; the backend picks the entry point by stage.
func compileWGSL(source string, stages ...glgpu.ShaderStageFlags) ([]glgpu.SpirvEntry, error) {
	code, err := naga.Compile(source)
	if err != nil {
		return nil, errors.Wrap(err, "compile wgsl")
	}
	entries := make([]glgpu.SpirvEntry, len(stages))
	for i, s := range stages {
		entries[i] = glgpu.SpirvEntry{ByteCode: code, Stage: s}
	}
	return entries, nil
}

// shaderSource returns the file at path, or fallback when path is empty.
func shaderSource(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
