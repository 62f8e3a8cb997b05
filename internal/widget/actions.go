package widget

import "context"

// Copy writes the narration text to the clipboard
func (w *Widget) Copy(ctx context.Context) {
	text := w.el.Narration.Text()
	if err := w.el.Clipboard.WriteText(ctx, text); err != nil {
		w.showToast(MsgCopyFailed)
		w.logger.Error("copy narration failed", "error", err)
		return
	}

	w.el.CopyButton.SetLabel(LabelCopied)

	w.mu.Lock()
	if w.labelRevert != nil {
		w.labelRevert.Stop()
	}
	w.labelRevert = w.clock.AfterFunc(CopiedDuration, func() {
		w.el.CopyButton.SetLabel(LabelCopy)
	})
	w.mu.Unlock()
}

// Download saves the loaded audio under DownloadFileName
func (w *Widget) Download(ctx context.Context) {
	src := w.el.Audio.Source()
	if src == "" {
		w.showToast(MsgNoAudio)
		return
	}

	if err := w.el.Downloader.Download(ctx, src, DownloadFileName); err != nil {
		w.showToast(MsgDownloadFailed)
		w.logger.Error("download audio failed", "url", src, "error", err)
	}
}
