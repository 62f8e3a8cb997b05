package widget

import (
	"context"
	"io"
)

// File is a file selected by the user
type File interface {
	Name() string
	// Type returns the declared MIME type
	Type() string
	Open() (io.ReadCloser, error)
}

// FileInput holds the current selection. Only the first file is considered.
type FileInput interface {
	Files() []File
	SetFiles(files []File)
	Clear()
}

type DropZone interface {
	SetHighlighted(on bool)
}

// Toggle is an element that can be shown or hidden
type Toggle interface {
	SetVisible(visible bool)
}

// Panel is a toggle that can be revealed with a fade-in
type Panel interface {
	Toggle
	FadeIn()
}

type TextNode interface {
	Text() string
	SetText(text string)
}

type AudioElement interface {
	Source() string
	SetSource(src string)
}

type Button interface {
	SetLabel(label string)
}

// ToastContainer renders notifications. Fade is called once when an
// auto-dismiss starts, Remove once when the toast goes away.
type ToastContainer interface {
	Append(t *Toast)
	Fade(t *Toast)
	Remove(t *Toast)
}

type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

type Downloader interface {
	Download(ctx context.Context, url, fileName string) error
}

// Elements are the UI handles the widget binds to. The widget does not own
// them.
type Elements struct {
	Input          FileInput
	DropZone       DropZone
	Loading        Toggle
	Result         Panel
	Narration      TextNode
	Audio          AudioElement
	CopyButton     Button
	DownloadButton Button
	Toasts         ToastContainer
	Clipboard      Clipboard
	Downloader     Downloader
}

// Events is where the widget registers its handlers
type Events interface {
	OnDragOver(fn func())
	OnDragLeave(fn func())
	OnDrop(fn func(files []File))
	OnChange(fn func(files []File))
	OnSubmit(fn func(ctx context.Context))
	OnCopy(fn func(ctx context.Context))
	OnDownload(fn func(ctx context.Context))
}

func (e Elements) missing() string {
	switch {
	case e.Input == nil:
		return "file input"
	case e.DropZone == nil:
		return "drop zone"
	case e.Loading == nil:
		return "loading indicator"
	case e.Result == nil:
		return "result panel"
	case e.Narration == nil:
		return "narration text"
	case e.Audio == nil:
		return "audio element"
	case e.CopyButton == nil:
		return "copy button"
	case e.DownloadButton == nil:
		return "download button"
	case e.Toasts == nil:
		return "toast container"
	case e.Clipboard == nil:
		return "clipboard"
	case e.Downloader == nil:
		return "downloader"
	}
	return ""
}
