package mipmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andewx/glgpu"
)

func TestLevels(t *testing.T) {
	cases := []struct {
		w, h, want uint32
	}{
		{256, 256, 9},
		{1, 1, 1},
		{0, 0, 0},
		{255, 1, 8},
		{1024, 768, 11},
		{300, 17, 9},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Levels(tc.w, tc.h), "%dx%d", tc.w, tc.h)
	}
}

func TestPlan256EndsShaderRead(t *testing.T) {
	size := glgpu.Vec2u{X: 256, Y: 256}
	levels := Levels(size.X, size.Y)
	require.Equal(t, uint32(9), levels)

	ops := Plan(size, levels)
	assert.Len(t, ops, 3*8+1)

	last := ops[len(ops)-1]
	assert.Equal(t, OpTransition, last.Kind)
	assert.Equal(t, uint32(8), last.Level)
	assert.Equal(t, glgpu.ImageLayoutShaderReadOnlyOptimal, last.To)

	final, err := Simulate(ops, levels, glgpu.ImageLayoutTransferDstOptimal)
	require.NoError(t, err)
	for i, l := range final {
		assert.Equal(t, glgpu.ImageLayoutShaderReadOnlyOptimal, l, "level %d", i)
	}
}

func TestPlanHalvesToOne(t *testing.T) {
	size := glgpu.Vec2u{X: 8, Y: 2}
	ops := Plan(size, Levels(size.X, size.Y))
	var blits []Op
	for _, op := range ops {
		if op.Kind == OpBlit {
			blits = append(blits, op)
		}
	}
	require.Len(t, blits, 3)
	assert.Equal(t, glgpu.Vec2u{X: 4, Y: 1}, blits[0].DstSize)
	assert.Equal(t, glgpu.Vec2u{X: 2, Y: 1}, blits[1].DstSize)
	assert.Equal(t, glgpu.Vec2u{X: 1, Y: 1}, blits[2].DstSize)
	assert.Equal(t, blits[0].DstSize, blits[1].SrcSize)
}

func TestSingleLevelPlan(t *testing.T) {
	ops := Plan(glgpu.Vec2u{X: 1, Y: 1}, 1)
	require.Len(t, ops, 1)
	final, err := Simulate(ops, 1, glgpu.ImageLayoutTransferDstOptimal)
	require.NoError(t, err)
	assert.Equal(t, []glgpu.ImageLayout{glgpu.ImageLayoutShaderReadOnlyOptimal}, final)
}

func TestSimulateRejectsWrongStart(t *testing.T) {
	ops := Plan(glgpu.Vec2u{X: 4, Y: 4}, 3)
	_, err := Simulate(ops, 3, glgpu.ImageLayoutUndefined)
	assert.Error(t, err)
}
