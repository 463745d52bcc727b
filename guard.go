package glgpu

import "sync"

var (
	guardMu sync.Mutex
	live    *Guard
)

// Guard is the token held by the live backend. Releasing it lets Create build another.
type Guard struct {
	once sync.Once
}

func acquireGuard() (*Guard, error) {
	guardMu.Lock()
	defer guardMu.Unlock()
	if live != nil {
		return nil, ErrBackendExists
	}
	live = &Guard{}
	return live, nil
}

// Release frees the backend slot. Calls after the first are no-ops.
func (g *Guard) Release() {
	g.once.Do(func() {
		guardMu.Lock()
		defer guardMu.Unlock()
		if live == g {
			live = nil
		}
	})
}
