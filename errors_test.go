package glgpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsError(t *testing.T) {
	assert.Equal(t, ErrorNone, AsError(nil))
	assert.Equal(t, ErrorSwapchainOutOfDate, AsError(ErrorSwapchainOutOfDate))
	assert.Equal(t, ErrorDeviceLost, AsError(fmt.Errorf("submit: %w", ErrorDeviceLost)))
	assert.Equal(t, ErrorUnknown, AsError(errors.New("plain")))
}

func TestErrorStrings(t *testing.T) {
	assert.Equal(t, "swapchain out of date", ErrorSwapchainOutOfDate.Error())
	assert.Equal(t, "glgpu error 42", Error(42).Error())
}

func TestFatalRunsFinalizersAndRecovers(t *testing.T) {
	prev := Log()
	SetLogger(NewLogger(discard{}, LevelOff))
	defer SetLogger(prev)

	var order []string
	run := func() (err error) {
		defer CheckErr(&err)
		Fatal("swapchain create", ErrorOutOfMemory,
			func() { order = append(order, "a") },
			func() { order = append(order, "b") })
		return nil
	}
	err := run()
	require.Error(t, err)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "swapchain create", fe.Op)
	assert.ErrorIs(t, err, ErrorOutOfMemory)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestFatalNilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { Fatal("noop", nil) })
}

func TestCheckErrRepanicsForeignValues(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		var err error
		func() {
			defer CheckErr(&err)
			panic("boom")
		}()
	})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
