// Package search buffers keystrokes before they reach the filter store.
package search

import (
	"sync"
	"time"

	"github.com/hemantajax/connectclo/internal/domain"
)

type State int

const (
	Idle State = iota
	Pending
	Bypassed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Bypassed:
		return "bypassed"
	default:
		return "idle"
	}
}

// Scheduler runs f once after d. The returned func cancels the call and reports
// whether it was still pending.
type Scheduler func(d time.Duration, f func()) (cancel func() bool)

func AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type Option func(*Input)

func WithDelay(d time.Duration) Option {
	return func(in *Input) {
		if d > 0 {
			in.delay = d
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(in *Input) {
		if s != nil {
			in.schedule = s
		}
	}
}

// Input keeps a locally echoed copy of the search box and forwards it to onChange
// once typing pauses. current reads the value the store holds right now.
type Input struct {
	mu        sync.Mutex
	delay     time.Duration
	schedule  Scheduler
	current   func() string
	onChange  func(string)
	local     string
	debounced string
	state     State
	// bumped whenever a scheduled callback must not take effect any more
	gen    uint64
	cancel func() bool
}

func NewInput(current func() string, onChange func(string), opts ...Option) *Input {
	in := &Input{
		delay:    domain.SearchDebounce,
		schedule: AfterFunc,
		current:  current,
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(in)
	}
	in.local = current()
	in.debounced = in.local
	return in
}

func (in *Input) Type(text string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.stopLocked()
	in.local = text
	in.state = Pending
	g := in.gen
	in.cancel = in.schedule(in.delay, func() { in.fire(g, text) })
}

func (in *Input) fire(g uint64, text string) {
	in.mu.Lock()
	if g != in.gen {
		in.mu.Unlock()
		return
	}
	in.cancel = nil
	in.debounced = text
	in.state = Idle
	latest := in.local
	in.mu.Unlock()

	if text != in.current() && text == latest {
		in.onChange(text)
	}
}

// Clear empties the box and the store in one step. Any callback still scheduled from
// earlier typing is invalidated before the store is touched.
func (in *Input) Clear() {
	in.mu.Lock()
	in.stopLocked()
	in.local = ""
	in.debounced = ""
	in.state = Bypassed
	in.mu.Unlock()

	in.onChange("")

	in.mu.Lock()
	in.state = Idle
	in.mu.Unlock()
}

// Sync adopts a value set by another path, such as URL hydration or a reset. A value
// equal to the last one seen is not a change and leaves pending typing alone.
func (in *Input) Sync(external string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if external == in.debounced {
		return
	}
	in.stopLocked()
	in.local = external
	in.debounced = external
	in.state = Idle
}

func (in *Input) stopLocked() {
	in.gen++
	if in.cancel != nil {
		in.cancel()
		in.cancel = nil
	}
}

func (in *Input) Local() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.local
}

func (in *Input) Debounced() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.debounced
}

func (in *Input) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}
