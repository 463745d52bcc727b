package spirv

import (
	"fmt"

	"github.com/andewx/glgpu"
)

// Layout is the combined descriptor and push constant layout of the stages of one shader.
type Layout struct {
	// Sets is indexed by set number. Sets with no bindings are empty but present so the
	// pipeline layout can reference every set up to the highest one used.
	Sets               [][]Binding
	PushConstantSize   uint32
	PushConstantStages glgpu.ShaderStageFlags
}

// Merge combines the reflected stages of a shader. A binding declared by several stages
// is merged into one with the union of their stage flags. Declaring the same binding
// with different types or counts is an error.
func Merge(mods ...*Module) (Layout, error) {
	var l Layout
	for _, m := range mods {
		for _, b := range m.Bindings {
			if b.Set >= glgpu.MaxUniformSets {
				return Layout{}, fmt.Errorf("spirv: set %d exceeds the %d set limit", b.Set, glgpu.MaxUniformSets)
			}
			for uint32(len(l.Sets)) <= b.Set {
				l.Sets = append(l.Sets, nil)
			}
			if err := l.add(b); err != nil {
				return Layout{}, err
			}
		}
		l.PushConstantSize = max(l.PushConstantSize, m.PushConstantSize)
		l.PushConstantStages |= m.PushConstantStages
	}
	return l, nil
}

func (l *Layout) add(b Binding) error {
	set := l.Sets[b.Set]
	for i := range set {
		if set[i].Binding != b.Binding {
			continue
		}
		if set[i].Type != b.Type || set[i].Count != b.Count {
			return fmt.Errorf("spirv: set %d binding %d declared as %s[%d] and %s[%d]",
				b.Set, b.Binding, set[i].Type, set[i].Count, b.Type, b.Count)
		}
		set[i].Stages |= b.Stages
		return nil
	}
	l.Sets[b.Set] = append(set, b)
	return nil
}

// Binding looks up set/binding.
func (l *Layout) Binding(set, binding uint32) (Binding, bool) {
	if int(set) >= len(l.Sets) {
		return Binding{}, false
	}
	for _, b := range l.Sets[set] {
		if b.Binding == binding {
			return b, true
		}
	}
	return Binding{}, false
}
