// Package selector scores physical device candidates and picks the one a backend runs on.
//
// Everything here works on plain query results so the policy can be exercised without a
// driver. The vulkan package fills Candidate values from the native queries.
package selector

import (
	"github.com/andewx/glgpu"
)

// QueueFlags mirror VkQueueFlagBits.
type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 0x1
	QueueCompute  QueueFlags = 0x2
	QueueTransfer QueueFlags = 0x4
)

func (f QueueFlags) Has(b QueueFlags) bool {
	return f&b == b
}

// QueueFamily is one entry of the device's queue family properties. PresentSupport is
// only meaningful when the caller queried it against a surface.
type QueueFamily struct {
	Flags          QueueFlags
	Count          uint32
	PresentSupport bool
}

// Family is a queue family index. NoFamily marks a role no family could fill.
type Family int

const NoFamily Family = -1

func (f Family) Valid() bool {
	return f >= 0
}

// QueueFamilyIndices assigns a family to each queue role.
type QueueFamilyIndices struct {
	Graphics Family
	Transfer Family
	Compute  Family
	Present  Family
}

// Unique returns the distinct valid families, in role order.
func (q QueueFamilyIndices) Unique() []uint32 {
	var out []uint32
	seen := map[Family]bool{}
	for _, f := range []Family{q.Graphics, q.Transfer, q.Compute, q.Present} {
		if f.Valid() && !seen[f] {
			seen[f] = true
			out = append(out, uint32(f))
		}
	}
	return out
}

// Features are the API feature bits the backend depends on.
type Features struct {
	Synchronization2    bool
	BufferDeviceAddress bool
	DynamicRendering    bool
}

// Requirements describe what a backend needs from a device.
type Requirements struct {
	Features   glgpu.FeatureFlags
	HasSurface bool
	Extensions []string
	// Needed lists the API features a candidate must report.
	Needed Features
}

// NeedsPresent reports whether a present family must be found.
func (r Requirements) NeedsPresent() bool {
	return r.Features.Has(glgpu.FeatureEnsureSurfaceSupport) && r.HasSurface
}

// Candidate is one enumerated physical device and its query results.
type Candidate struct {
	Name                string
	Discrete            bool
	MaxImageDimension2D uint32
	Families            []QueueFamily
	Extensions          []string
	Features            Features
	SurfaceFormats      int
	PresentModes        int

	Indices QueueFamilyIndices
	Score   uint64
	// Reason names the first requirement the candidate failed. Empty when Score > 0.
	Reason string
}

// DiscreteBonus is added to the score of discrete GPUs.
const DiscreteBonus = 1000

// FindQueueFamilies assigns families to roles.
//
// Graphics is the first GRAPHICS family and transfer the first TRANSFER family, falling
// back to the graphics family since graphics queues accept transfer work. When a distinct
// compute queue is required, a COMPUTE family without GRAPHICS is preferred and any other
// compute family different from graphics is accepted. Present is only resolved when
// NeedsPresent, preferring the graphics family.
func FindQueueFamilies(families []QueueFamily, req Requirements) QueueFamilyIndices {
	idx := QueueFamilyIndices{Graphics: NoFamily, Transfer: NoFamily, Compute: NoFamily, Present: NoFamily}
	for i, f := range families {
		if f.Count == 0 {
			continue
		}
		if !idx.Graphics.Valid() && f.Flags.Has(QueueGraphics) {
			idx.Graphics = Family(i)
		}
		if !idx.Transfer.Valid() && f.Flags.Has(QueueTransfer) {
			idx.Transfer = Family(i)
		}
	}
	if !idx.Transfer.Valid() {
		idx.Transfer = idx.Graphics
	}

	if req.Features.Has(glgpu.FeatureDistinctComputeQueue) {
		idx.Compute = findDistinctCompute(families, idx.Graphics)
	} else {
		for i, f := range families {
			if f.Count > 0 && f.Flags.Has(QueueCompute) {
				idx.Compute = Family(i)
				break
			}
		}
		if !idx.Compute.Valid() {
			idx.Compute = idx.Graphics
		}
	}

	if req.NeedsPresent() {
		if idx.Graphics.Valid() && families[idx.Graphics].PresentSupport {
			idx.Present = idx.Graphics
		} else {
			for i, f := range families {
				if f.Count > 0 && f.PresentSupport {
					idx.Present = Family(i)
					break
				}
			}
		}
	} else {
		idx.Present = idx.Graphics
	}
	return idx
}

func findDistinctCompute(families []QueueFamily, graphics Family) Family {
	fallback := NoFamily
	for i, f := range families {
		if f.Count == 0 || !f.Flags.Has(QueueCompute) {
			continue
		}
		if !f.Flags.Has(QueueGraphics) {
			return Family(i)
		}
		if Family(i) != graphics && !fallback.Valid() {
			fallback = Family(i)
		}
	}
	return fallback
}

// Complete reports whether every role required by req has a family.
func (q QueueFamilyIndices) Complete(req Requirements) bool {
	if !q.Graphics.Valid() || !q.Transfer.Valid() {
		return false
	}
	if req.NeedsPresent() && !q.Present.Valid() {
		return false
	}
	if req.Features.Has(glgpu.FeatureDistinctComputeQueue) && (!q.Compute.Valid() || q.Compute == q.Graphics) {
		return false
	}
	return true
}

// Evaluate fills c.Indices, c.Score and c.Reason. A zero score disqualifies the candidate.
func Evaluate(c *Candidate, req Requirements) {
	c.Indices = FindQueueFamilies(c.Families, req)
	c.Score, c.Reason = score(c, req)
}

func score(c *Candidate, req Requirements) (uint64, string) {
	if !c.Indices.Complete(req) {
		return 0, "incomplete queue families"
	}
	if missing := MissingExtensions(c.Extensions, req.Extensions); len(missing) > 0 {
		return 0, "missing extension " + missing[0]
	}
	if req.Features.Has(glgpu.FeatureSwapchain) && req.HasSurface {
		if c.SurfaceFormats == 0 {
			return 0, "no surface formats"
		}
		if c.PresentModes == 0 {
			return 0, "no present modes"
		}
	}
	switch {
	case req.Needed.Synchronization2 && !c.Features.Synchronization2:
		return 0, "synchronization2 unsupported"
	case req.Needed.BufferDeviceAddress && !c.Features.BufferDeviceAddress:
		return 0, "bufferDeviceAddress unsupported"
	case req.Needed.DynamicRendering && !c.Features.DynamicRendering:
		return 0, "dynamicRendering unsupported"
	}
	s := uint64(1)
	if c.Discrete {
		s += DiscreteBonus
	}
	return s + uint64(c.MaxImageDimension2D), ""
}

// Select evaluates every candidate and returns the index of the highest score. Ties keep
// the earliest candidate. It returns glgpu.ErrNoSuitableDevice when every score is zero.
func Select(cands []Candidate, req Requirements) (int, error) {
	best := -1
	for i := range cands {
		Evaluate(&cands[i], req)
		if cands[i].Score == 0 {
			continue
		}
		if best < 0 || cands[i].Score > cands[best].Score {
			best = i
		}
	}
	if best < 0 {
		return -1, glgpu.ErrNoSuitableDevice
	}
	return best, nil
}

// MissingExtensions returns the entries of required absent from available.
func MissingExtensions(available, required []string) []string {
	have := make(map[string]bool, len(available))
	for _, e := range available {
		have[e] = true
	}
	var missing []string
	for _, e := range required {
		if !have[e] {
			missing = append(missing, e)
		}
	}
	return missing
}
