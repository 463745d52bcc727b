// Package deletion runs registered teardown actions in reverse order of registration.
package deletion

// Action is one named teardown step.
type Action struct {
	Name string
	Fn   func()
}

// Queue is a LIFO list of teardown actions. It is not safe for concurrent use.
type Queue struct {
	actions []Action

	// OnRun, when set, is called with each action's name before it runs.
	OnRun func(name string)
}

// Push appends an action. A nil fn is ignored.
func (q *Queue) Push(name string, fn func()) {
	if fn == nil {
		return
	}
	q.actions = append(q.actions, Action{Name: name, Fn: fn})
}

// Len is the number of pending actions.
func (q *Queue) Len() int {
	return len(q.actions)
}

// Flush runs every pending action, newest first, and empties the queue. Actions pushed
// while flushing run in the same flush.
func (q *Queue) Flush() {
	for len(q.actions) > 0 {
		last := len(q.actions) - 1
		a := q.actions[last]
		q.actions[last] = Action{}
		q.actions = q.actions[:last]
		if q.OnRun != nil {
			q.OnRun(a.Name)
		}
		a.Fn()
	}
	q.actions = nil
}
