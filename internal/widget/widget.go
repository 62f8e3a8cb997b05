package widget

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	PDFContentType   = "application/pdf"
	UploadEndpoint   = "api/upload-pdf/"
	DownloadFileName = "audionary_podcast.mp3"
	CopiedDuration   = 2 * time.Second

	LabelCopy   = "Copy"
	LabelCopied = "Copied!"
)

// Notification texts
const (
	MsgOnlyPDF          = "Only PDF files are allowed."
	MsgNoFile           = "Please upload a PDF"
	MsgResponseNotOK    = "Network response was not ok"
	MsgProcessingFailed = "Error occurred while processing PDF."
	MsgCopyFailed       = "Failed to copy text."
	MsgNoAudio          = "No audio available to download."
	MsgDownloadFailed   = "Failed to download audio."
)

var ErrMissingElement = errors.New("missing element")

// State is the position of the widget in its upload cycle. The widget rests
// in the outcome of its last action; any new action starts over from idle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateRejected
	StateUploading
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRejected:
		return "rejected"
	case StateUploading:
		return "uploading"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	}
	return "unknown"
}

// Response is the body returned by the upload endpoint
type Response struct {
	NarrationPreview string `json:"narration_preview"`
	AudioURL         string `json:"audio_url"`
	Error            string `json:"error,omitempty"`
}

// Widget binds upload, copy and download behaviour to a set of UI handles
type Widget struct {
	el     Elements
	client *http.Client
	base   string
	clock  Clock
	logger *slog.Logger

	mu          sync.Mutex
	state       State
	labelRevert Timer
}

type Option func(*Widget)

// WithBaseURL sets the URL the upload endpoint is resolved against
func WithBaseURL(base string) Option {
	return func(w *Widget) { w.base = base }
}

func WithHTTPClient(c *http.Client) Option {
	return func(w *Widget) { w.client = c }
}

func WithClock(c Clock) Option {
	return func(w *Widget) { w.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

// New validates the handles and registers the widget's handlers on ev
func New(el Elements, ev Events, opts ...Option) (*Widget, error) {
	if name := el.missing(); name != "" {
		return nil, errors.Wrap(ErrMissingElement, name)
	}
	if ev == nil {
		return nil, errors.Wrap(ErrMissingElement, "events")
	}

	w := &Widget{
		el:     el,
		client: http.DefaultClient,
		base:   "http://localhost:8080/",
		clock:  realClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	ev.OnDragOver(w.DragOver)
	ev.OnDragLeave(w.DragLeave)
	ev.OnDrop(w.Drop)
	ev.OnChange(w.Change)
	ev.OnSubmit(w.Submit)
	ev.OnCopy(w.Copy)
	ev.OnDownload(w.Download)

	return w, nil
}

// IsValidPDF reports whether f declares the PDF MIME type
func IsValidPDF(f File) bool {
	return f != nil && f.Type() == PDFContentType
}

func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Widget) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func (w *Widget) DragOver() {
	w.el.DropZone.SetHighlighted(true)
}

func (w *Widget) DragLeave() {
	w.el.DropZone.SetHighlighted(false)
}

// Drop selects the dropped files when the first one is a PDF
func (w *Widget) Drop(files []File) {
	w.el.DropZone.SetHighlighted(false)
	if len(files) == 0 {
		return
	}

	w.setState(StateValidating)
	if !IsValidPDF(files[0]) {
		w.reject()
		return
	}
	w.el.Input.SetFiles(files)
	w.setState(StateIdle)
}

// Change validates a selection made through the file picker
func (w *Widget) Change(files []File) {
	if len(files) == 0 || files[0] == nil {
		return
	}

	w.setState(StateValidating)
	if !IsValidPDF(files[0]) {
		w.reject()
		return
	}
	w.setState(StateIdle)
}

func (w *Widget) reject() {
	w.showToast(MsgOnlyPDF)
	w.el.Input.Clear()
	w.setState(StateRejected)
}

func (w *Widget) showToast(msg string) *Toast {
	return newToast(msg, w.el.Toasts, w.clock)
}
