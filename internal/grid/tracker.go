package grid

import "sync"

// Tracker follows scroll and resize events for one grid. Events only record state;
// the window is recomputed on the next read, so a burst of events between two frames
// costs a single computation.
type Tracker[T any] struct {
	mu       sync.Mutex
	layout   Layout
	items    []T
	vp       Viewport
	attached bool
	top      float64

	dirty    bool
	window   Window[T]
	computes int
}

func NewTracker[T any](l Layout) *Tracker[T] {
	return &Tracker[T]{layout: l, dirty: true}
}

func (t *Tracker[T]) SetItems(items []T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = items
	t.dirty = true
}

func (t *Tracker[T]) OnScroll(scrollY float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.vp.ScrollY == scrollY {
		return
	}
	t.vp.ScrollY = scrollY
	t.dirty = true
}

func (t *Tracker[T]) OnResize(width, height float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.vp.Width == width && t.vp.Height == height {
		return
	}
	t.vp.Width, t.vp.Height = width, height
	t.dirty = true
}

// Attach records the container's document offset once it is mounted. Until then
// the container is treated as sitting at the top of the document.
func (t *Tracker[T]) Attach(containerTop float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attached = true
	t.top = containerTop
	t.dirty = true
}

func (t *Tracker[T]) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attached = false
	t.dirty = true
}

func (t *Tracker[T]) Viewport() Viewport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewport()
}

func (t *Tracker[T]) viewport() Viewport {
	vp := t.vp
	vp.ContainerTop = 0
	if t.attached {
		vp.ContainerTop = t.top
	}
	return vp
}

func (t *Tracker[T]) Window() Window[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dirty {
		t.window = Compute(t.items, t.viewport(), t.layout)
		t.dirty = false
		t.computes++
	}
	return t.window
}

// Computes reports how many times the window was recomputed.
func (t *Tracker[T]) Computes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.computes
}
