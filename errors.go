package glgpu

import (
	"errors"
	"fmt"
)

// Error is the error taxonomy surfaced at the backend boundary.
type Error int

const (
	ErrorNone Error = iota
	ErrorUnknown
	ErrorOutOfMemory
	ErrorDeviceLost
	ErrorSurfaceInvalidCompositor
	ErrorSurfaceSwapchainNotSupported
	// ErrorSwapchainOutOfDate means the swapchain must be resized before the next acquire.
	ErrorSwapchainOutOfDate
	ErrorSwapchainLost
	ErrorValidationFailed
)

var errorNames = [...]string{
	ErrorNone:                         "none",
	ErrorUnknown:                      "unknown error",
	ErrorOutOfMemory:                  "out of memory",
	ErrorDeviceLost:                   "device lost",
	ErrorSurfaceInvalidCompositor:     "invalid window compositor",
	ErrorSurfaceSwapchainNotSupported: "swapchain not supported by surface",
	ErrorSwapchainOutOfDate:           "swapchain out of date",
	ErrorSwapchainLost:                "swapchain lost",
	ErrorValidationFailed:             "validation failed",
}

func (e Error) Error() string {
	if e >= 0 && int(e) < len(errorNames) {
		return errorNames[e]
	}
	return fmt.Sprintf("glgpu error %d", int(e))
}

func (e Error) String() string {
	return e.Error()
}

var (
	// ErrBackendExists is returned by Create while another backend is alive.
	ErrBackendExists = errors.New("glgpu: a render backend already exists")
	// ErrNoSuitableDevice is returned when no physical device satisfies the required features.
	ErrNoSuitableDevice = errors.New("glgpu: no suitable physical device")
	// ErrUnsupportedAPI is returned by Create when no driver is registered for the API.
	ErrUnsupportedAPI = errors.New("glgpu: unsupported render api")
)

// FatalError wraps an unrecoverable failure. Op names the failed operation.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("glgpu fatal: %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// AsError extracts the Error code carried by err, or ErrorUnknown when err carries none.
// A nil err yields ErrorNone.
func AsError(err error) Error {
	if err == nil {
		return ErrorNone
	}
	var e Error
	if errors.As(err, &e) {
		return e
	}
	return ErrorUnknown
}

// Fatal runs the finalizers, logs err at error level and panics with a *FatalError.
// It does nothing when err is nil.
func Fatal(op string, err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	fe := &FatalError{Op: op, Err: err}
	Log().Errorf("%v", fe)
	panic(fe)
}

// CheckErr recovers a *FatalError panic into *err. Other panics are re-raised.
// Use it deferred at API boundaries that return an error.
func CheckErr(err *error) {
	if v := recover(); v != nil {
		fe, ok := v.(*FatalError)
		if !ok {
			panic(v)
		}
		*err = fe
	}
}
