package widget

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"
)

type fakeFile struct {
	name    string
	typ     string
	content []byte
	openErr error
}

func (f *fakeFile) Name() string { return f.name }
func (f *fakeFile) Type() string { return f.typ }
func (f *fakeFile) Open() (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(bytes.NewReader(f.content)), nil
}

type fakeInput struct {
	files   []File
	cleared int
}

func (i *fakeInput) Files() []File      { return i.files }
func (i *fakeInput) SetFiles(fs []File) { i.files = fs }
func (i *fakeInput) Clear()             { i.files = nil; i.cleared++ }

type fakeDropZone struct {
	highlighted bool
}

func (d *fakeDropZone) SetHighlighted(on bool) { d.highlighted = on }

type fakeToggle struct {
	mu      sync.Mutex
	visible bool
	history []bool
}

func (t *fakeToggle) SetVisible(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = v
	t.history = append(t.history, v)
}

type fakePanel struct {
	fakeToggle
	fadedIn int
}

func (p *fakePanel) FadeIn() { p.fadedIn++ }

type fakeText struct{ text string }

func (t *fakeText) Text() string        { return t.text }
func (t *fakeText) SetText(text string) { t.text = text }

type fakeAudio struct{ src string }

func (a *fakeAudio) Source() string       { return a.src }
func (a *fakeAudio) SetSource(src string) { a.src = src }

type fakeButton struct{ label string }

func (b *fakeButton) SetLabel(label string) { b.label = label }

type fakeToasts struct {
	mu      sync.Mutex
	shown   []*Toast
	faded   []*Toast
	removed []*Toast
}

func (c *fakeToasts) Append(t *Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shown = append(c.shown, t)
}

func (c *fakeToasts) Fade(t *Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faded = append(c.faded, t)
}

func (c *fakeToasts) Remove(t *Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removed = append(c.removed, t)
}

func (c *fakeToasts) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.shown))
	for _, t := range c.shown {
		out = append(out, t.Message)
	}
	return out
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(_ context.Context, text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type download struct {
	url      string
	fileName string
}

type fakeDownloader struct {
	calls []download
	err   error
}

func (d *fakeDownloader) Download(_ context.Context, url, fileName string) error {
	d.calls = append(d.calls, download{url: url, fileName: fileName})
	return d.err
}

type fakeEvents struct {
	dragOver  func()
	dragLeave func()
	drop      func([]File)
	change    func([]File)
	submit    func(context.Context)
	copy      func(context.Context)
	download  func(context.Context)
}

func (e *fakeEvents) OnDragOver(fn func())                { e.dragOver = fn }
func (e *fakeEvents) OnDragLeave(fn func())               { e.dragLeave = fn }
func (e *fakeEvents) OnDrop(fn func([]File))              { e.drop = fn }
func (e *fakeEvents) OnChange(fn func([]File))            { e.change = fn }
func (e *fakeEvents) OnSubmit(fn func(context.Context))   { e.submit = fn }
func (e *fakeEvents) OnCopy(fn func(context.Context))     { e.copy = fn }
func (e *fakeEvents) OnDownload(fn func(context.Context)) { e.download = fn }

// fakeClock fires timers only when advanced
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.fn()
	}
}
