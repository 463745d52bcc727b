package glgpu

import "fmt"

// FrameDevice is the part of Backend used by Frames.
type FrameDevice interface {
	FenceCreate(signaled bool) (Fence, error)
	FenceFree(f Fence)
	FenceWait(f Fence) error
	FenceReset(f Fence)
	SemaphoreCreate() (Semaphore, error)
	SemaphoreFree(s Semaphore)
	CommandPoolCreate(queue CommandQueue) (CommandPool, error)
	CommandPoolFree(pool CommandPool)
	CommandPoolAllocate(pool CommandPool) (CommandBuffer, error)
	CommandPoolReset(pool CommandPool)
	QueueSubmit(queue CommandQueue, cmd CommandBuffer, fence Fence, wait, signal Semaphore) error
}

// FenceManager keeps track of fences which in turn are used to keep track of GPU progress.
// The manager is not thread-safe; goroutines recording in parallel each need their own.
type FenceManager struct {
	dev    FrameDevice
	fences []Fence
	count  int
}

func NewFenceManager(dev FrameDevice) *FenceManager {
	return &FenceManager{dev: dev}
}

// Reset waits for every outstanding fence and makes them reusable. After Reset returns
// it is safe to reuse or delete resources which were used by the frame.
func (f *FenceManager) Reset() error {
	for _, fence := range f.fences[:f.count] {
		if err := f.dev.FenceWait(fence); err != nil {
			return err
		}
		f.dev.FenceReset(fence)
	}
	f.count = 0
	return nil
}

// NewFence returns an unsignalled fence, recycled when possible.
func (f *FenceManager) NewFence() (Fence, error) {
	if f.count < len(f.fences) {
		fence := f.fences[f.count]
		f.count++
		return fence, nil
	}
	fence, err := f.dev.FenceCreate(false)
	if err != nil {
		return 0, err
	}
	f.fences = append(f.fences, fence)
	f.count++
	return fence, nil
}

// unget returns the most recent fence from NewFence when it was never submitted.
func (f *FenceManager) unget() {
	if f.count > 0 {
		f.count--
	}
}

func (f *FenceManager) ActiveFences() []Fence {
	return f.fences[:f.count]
}

func (f *FenceManager) Destroy() {
	if err := f.Reset(); err != nil {
		Log().Warnf("fence manager: %v", err)
	}
	for _, fence := range f.fences {
		f.dev.FenceFree(fence)
	}
	f.fences = nil
}

// CommandBufferManager allocates command buffers from one pool and recycles them once
// the frame that used them has completed.
type CommandBufferManager struct {
	dev     FrameDevice
	pool    CommandPool
	buffers []CommandBuffer
	count   int
}

func NewCommandBufferManager(dev FrameDevice, queue CommandQueue) (*CommandBufferManager, error) {
	pool, err := dev.CommandPoolCreate(queue)
	if err != nil {
		return nil, err
	}
	return &CommandBufferManager{dev: dev, pool: pool}, nil
}

// Reset marks every managed command buffer recyclable. The pool is reset lazily by the
// next NewCommandBuffer.
func (c *CommandBufferManager) Reset() {
	c.count = 0
}

// NewCommandBuffer returns a fresh or recycled command buffer in the initial state.
func (c *CommandBufferManager) NewCommandBuffer() (CommandBuffer, error) {
	if c.count == 0 && len(c.buffers) > 0 {
		c.dev.CommandPoolReset(c.pool)
	}
	if c.count < len(c.buffers) {
		cmd := c.buffers[c.count]
		c.count++
		return cmd, nil
	}
	cmd, err := c.dev.CommandPoolAllocate(c.pool)
	if err != nil {
		return nil, err
	}
	c.buffers = append(c.buffers, cmd)
	c.count++
	return cmd, nil
}

func (c *CommandBufferManager) Destroy() {
	c.dev.CommandPoolFree(c.pool)
	c.buffers = nil
}

// Frame owns the per-frame resources of one slot of Frames.
type Frame struct {
	Index int
	// Acquire is signalled by SwapchainAcquireImage; Release by the last swapchain
	// submission, for QueuePresent to wait on.
	Acquire, Release Semaphore

	dev      FrameDevice
	queue    CommandQueue
	fences   *FenceManager
	commands *CommandBufferManager
}

func newFrame(dev FrameDevice, queue CommandQueue, index int) (*Frame, error) {
	fr := &Frame{Index: index, dev: dev, queue: queue, fences: NewFenceManager(dev)}
	var err error
	if fr.commands, err = NewCommandBufferManager(dev, queue); err == nil {
		if fr.Acquire, err = dev.SemaphoreCreate(); err == nil {
			fr.Release, err = dev.SemaphoreCreate()
		}
	}
	if err != nil {
		fr.destroy()
		return nil, err
	}
	return fr, nil
}

// NewCommandBuffer returns a command buffer valid until this frame slot comes around
// again. It must be submitted within the frame.
func (fr *Frame) NewCommandBuffer() (CommandBuffer, error) {
	return fr.commands.NewCommandBuffer()
}

// Submit submits cmd without swapchain synchronisation.
func (fr *Frame) Submit(cmd CommandBuffer) error {
	return fr.submit(cmd, 0, 0)
}

// SubmitSwapchain submits cmd waiting on Acquire and signalling Release.
func (fr *Frame) SubmitSwapchain(cmd CommandBuffer) error {
	return fr.submit(cmd, fr.Acquire, fr.Release)
}

func (fr *Frame) submit(cmd CommandBuffer, wait, signal Semaphore) error {
	// Every submission gets a fence the next Begin of this slot waits on.
	fence, err := fr.fences.NewFence()
	if err != nil {
		return err
	}
	if err := fr.dev.QueueSubmit(fr.queue, cmd, fence, wait, signal); err != nil {
		fr.fences.unget()
		return err
	}
	return nil
}

func (fr *Frame) destroy() {
	fr.fences.Destroy()
	if fr.commands != nil {
		fr.commands.Destroy()
	}
	if fr.Acquire != 0 {
		fr.dev.SemaphoreFree(fr.Acquire)
	}
	if fr.Release != 0 {
		fr.dev.SemaphoreFree(fr.Release)
	}
}

// Frames rotates a fixed number of frames in flight over one queue.
type Frames struct {
	frames  []*Frame
	current int
}

// NewFrames creates count frame slots submitting to queue.
func NewFrames(dev FrameDevice, queue CommandQueue, count int) (*Frames, error) {
	if count < 1 {
		return nil, fmt.Errorf("glgpu: frames in flight must be at least 1, got %d", count)
	}
	f := &Frames{current: -1}
	for i := 0; i < count; i++ {
		fr, err := newFrame(dev, queue, i)
		if err != nil {
			f.Destroy()
			return nil, err
		}
		f.frames = append(f.frames, fr)
	}
	return f, nil
}

func (f *Frames) Len() int { return len(f.frames) }

// Begin advances to the next slot and waits until the GPU has finished the work last
// submitted from it.
func (f *Frames) Begin() (*Frame, error) {
	f.current = (f.current + 1) % len(f.frames)
	fr := f.frames[f.current]
	if err := fr.fences.Reset(); err != nil {
		return nil, err
	}
	fr.commands.Reset()
	return fr, nil
}

// Wait blocks until every slot's submissions have completed.
func (f *Frames) Wait() error {
	for _, fr := range f.frames {
		if err := fr.fences.Reset(); err != nil {
			return err
		}
	}
	return nil
}

func (f *Frames) Destroy() {
	for _, fr := range f.frames {
		fr.destroy()
	}
	f.frames = nil
}
