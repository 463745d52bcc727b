// Package mipmap plans mip chain generation as a list of layout transitions and blits.
//
// The plan assumes every level starts in TRANSFER_DST_OPTIMAL with level 0 holding the
// uploaded pixels, and leaves every level in SHADER_READ_ONLY_OPTIMAL.
package mipmap

import (
	"fmt"
	"math/bits"

	"github.com/andewx/glgpu"
)

// Levels is floor(log2(max(w, h))) + 1, or 0 for an empty image.
func Levels(w, h uint32) uint32 {
	m := max(w, h)
	if m == 0 {
		return 0
	}
	return uint32(bits.Len32(m))
}

// OpKind distinguishes the plan steps.
type OpKind int

const (
	OpTransition OpKind = iota
	OpBlit
)

// Op is one recorded command. Transitions use Level, From and To. Blits read SrcSize from
// Level-1 and write DstSize into Level.
type Op struct {
	Kind    OpKind
	Level   uint32
	From    glgpu.ImageLayout
	To      glgpu.ImageLayout
	SrcSize glgpu.Vec2u
	DstSize glgpu.Vec2u
}

func (o Op) String() string {
	if o.Kind == OpBlit {
		return fmt.Sprintf("blit %d(%dx%d) -> %d(%dx%d)", o.Level-1, o.SrcSize.X, o.SrcSize.Y, o.Level, o.DstSize.X, o.DstSize.Y)
	}
	return fmt.Sprintf("level %d %s -> %s", o.Level, o.From, o.To)
}

func half(v uint32) uint32 {
	return max(v/2, 1)
}

// Plan returns the steps generating levels 1..levels-1 of an image of the given size.
func Plan(size glgpu.Vec2u, levels uint32) []Op {
	if levels == 0 {
		return nil
	}
	ops := make([]Op, 0, 3*levels)
	w, h := size.X, size.Y
	for i := uint32(1); i < levels; i++ {
		ops = append(ops,
			Op{Kind: OpTransition, Level: i - 1, From: glgpu.ImageLayoutTransferDstOptimal, To: glgpu.ImageLayoutTransferSrcOptimal},
			Op{Kind: OpBlit, Level: i, SrcSize: glgpu.Vec2u{X: w, Y: h}, DstSize: glgpu.Vec2u{X: half(w), Y: half(h)}},
			Op{Kind: OpTransition, Level: i - 1, From: glgpu.ImageLayoutTransferSrcOptimal, To: glgpu.ImageLayoutShaderReadOnlyOptimal},
		)
		w, h = half(w), half(h)
	}
	return append(ops, Op{
		Kind:  OpTransition,
		Level: levels - 1,
		From:  glgpu.ImageLayoutTransferDstOptimal,
		To:    glgpu.ImageLayoutShaderReadOnlyOptimal,
	})
}

// Simulate replays ops over levels starting in start and returns the final layout of each
// level. It fails when a transition's From does not match the tracked layout or a blit
// reads or writes a level in the wrong layout.
func Simulate(ops []Op, levels uint32, start glgpu.ImageLayout) ([]glgpu.ImageLayout, error) {
	layouts := make([]glgpu.ImageLayout, levels)
	for i := range layouts {
		layouts[i] = start
	}
	for n, op := range ops {
		if op.Level >= levels {
			return nil, fmt.Errorf("op %d (%v): level out of range", n, op)
		}
		switch op.Kind {
		case OpTransition:
			if layouts[op.Level] != op.From {
				return nil, fmt.Errorf("op %d (%v): level is %s", n, op, layouts[op.Level])
			}
			layouts[op.Level] = op.To
		case OpBlit:
			if op.Level == 0 {
				return nil, fmt.Errorf("op %d (%v): blit into level 0", n, op)
			}
			if layouts[op.Level-1] != glgpu.ImageLayoutTransferSrcOptimal || layouts[op.Level] != glgpu.ImageLayoutTransferDstOptimal {
				return nil, fmt.Errorf("op %d (%v): wrong layouts %s -> %s", n, op, layouts[op.Level-1], layouts[op.Level])
			}
		}
	}
	return layouts, nil
}
