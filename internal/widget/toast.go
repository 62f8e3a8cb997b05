package widget

import (
	"sync"
	"time"
)

const (
	ToastTimeout = 5 * time.Second
	ToastFade    = 300 * time.Millisecond
)

// Toast is a transient notification
type Toast struct {
	Message string

	mu        sync.Mutex
	container ToastContainer
	timer     Timer
	fading    bool
	closed    bool
}

func newToast(message string, container ToastContainer, clock Clock) *Toast {
	t := &Toast{Message: message, container: container}
	container.Append(t)

	t.mu.Lock()
	t.timer = clock.AfterFunc(ToastTimeout, func() {
		if !t.startFade() {
			return
		}
		container.Fade(t)
		t.mu.Lock()
		t.timer = clock.AfterFunc(ToastFade, t.Close)
		t.mu.Unlock()
	})
	t.mu.Unlock()
	return t
}

func (t *Toast) startFade() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.fading {
		return false
	}
	t.fading = true
	return true
}

// Close removes the toast immediately. Closing twice is a no-op.
func (t *Toast) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()

	t.container.Remove(t)
}

func (t *Toast) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Toast) Fading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fading
}
