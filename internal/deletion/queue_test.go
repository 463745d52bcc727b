package deletion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlushRunsInReverse(t *testing.T) {
	var q Queue
	var order []string
	for _, name := range []string{"A", "B", "C"} {
		q.Push(name, func() { order = append(order, name) })
	}
	assert.Equal(t, 3, q.Len())

	var logged []string
	q.OnRun = func(name string) { logged = append(logged, name) }
	q.Flush()

	assert.Equal(t, []string{"C", "B", "A"}, order)
	assert.Equal(t, []string{"C", "B", "A"}, logged)
	assert.Zero(t, q.Len())
}

func TestFlushRunsOnce(t *testing.T) {
	var q Queue
	calls := 0
	q.Push("once", func() { calls++ })
	q.Flush()
	q.Flush()
	assert.Equal(t, 1, calls)
}

func TestNilActionIgnored(t *testing.T) {
	var q Queue
	q.Push("nil", nil)
	assert.Zero(t, q.Len())
	assert.NotPanics(t, q.Flush)
}

func TestPushDuringFlush(t *testing.T) {
	var q Queue
	var order []string
	q.Push("outer", func() {
		order = append(order, "outer")
		q.Push("inner", func() { order = append(order, "inner") })
	})
	q.Flush()
	assert.Equal(t, []string{"outer", "inner"}, order)
}
