package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/audionary/audionary-backend/internal/widget"
)

// terminal renders the widget's elements as lines on a writer
type terminal struct {
	out io.Writer

	mu        sync.Mutex
	files     []widget.File
	narration string
	audio     string
	copyLabel string
}

func (t *terminal) printf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) Files() []widget.File         { return t.files }
func (t *terminal) SetFiles(files []widget.File) { t.files = files }
func (t *terminal) Clear()                       { t.files = nil }

func (t *terminal) Text() string        { return t.narration }
func (t *terminal) SetText(text string) { t.narration = text }

func (t *terminal) Source() string       { return t.audio }
func (t *terminal) SetSource(src string) { t.audio = src }

type dropZone struct{}

func (dropZone) SetHighlighted(bool) {}

type loadingLine struct{ t *terminal }

func (l loadingLine) SetVisible(visible bool) {
	if visible {
		l.t.printf("Processing PDF, this can take a minute...\n")
	}
}

type resultPanel struct{ t *terminal }

func (resultPanel) SetVisible(bool) {}

func (p resultPanel) FadeIn() {
	p.t.printf("\n%s\n\nAudio: %s\n", p.t.Text(), p.t.Source())
}

type label struct {
	t    *terminal
	name string
}

func (l label) SetLabel(text string) {
	if text == widget.LabelCopied {
		l.t.printf("%s: %s\n", l.name, text)
	}
}

// toastLine prints notifications as error lines
type toastLine struct{ t *terminal }

func (c toastLine) Append(toast *widget.Toast) { c.t.printf("error: %s\n", toast.Message) }
func (toastLine) Fade(*widget.Toast)           {}
func (toastLine) Remove(*widget.Toast)         {}

// fileClipboard stands in for the system clipboard by writing to a file.
// lastErr keeps the outcome of the latest write for the exit status.
type fileClipboard struct {
	path    string
	lastErr error
}

func (c *fileClipboard) WriteText(_ context.Context, text string) error {
	if c.path == "" {
		c.lastErr = errors.New("no clipboard file configured")
	} else {
		c.lastErr = os.WriteFile(c.path, []byte(text), 0o644)
	}
	return c.lastErr
}

// httpDownloader saves remote audio into a directory.
// lastErr keeps the outcome of the latest download for the exit status.
type httpDownloader struct {
	client  *http.Client
	dir     string
	lastErr error
}

func (d *httpDownloader) Download(ctx context.Context, url, fileName string) error {
	d.lastErr = d.save(ctx, url, fileName)
	return d.lastErr
}

func (d *httpDownloader) save(ctx context.Context, url, fileName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to fetch audio")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output dir")
	}
	path := filepath.Join(d.dir, fileName)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrap(err, "failed to save audio")
	}
	return f.Close()
}

// events keeps the handlers the widget registers so main can fire them
type events struct {
	dragOver  func()
	dragLeave func()
	drop      func([]widget.File)
	change    func([]widget.File)
	submit    func(context.Context)
	copy      func(context.Context)
	download  func(context.Context)
}

func (e *events) OnDragOver(fn func())                { e.dragOver = fn }
func (e *events) OnDragLeave(fn func())               { e.dragLeave = fn }
func (e *events) OnDrop(fn func([]widget.File))       { e.drop = fn }
func (e *events) OnChange(fn func([]widget.File))     { e.change = fn }
func (e *events) OnSubmit(fn func(context.Context))   { e.submit = fn }
func (e *events) OnCopy(fn func(context.Context))     { e.copy = fn }
func (e *events) OnDownload(fn func(context.Context)) { e.download = fn }
