package surface

// State is the swapchain lifecycle position.
type State int

const (
	Uninitialized State = iota
	Ready
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	}
	return "destroyed"
}

// CanResize reports whether resize is valid from s.
func (s State) CanResize() bool {
	return s != Destroyed
}

// CanAcquire reports whether acquire and the accessors are valid from s.
func (s State) CanAcquire() bool {
	return s == Ready
}
