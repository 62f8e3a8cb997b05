package narration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	narrationrepo "github.com/audionary/audionary-backend/internal/repository/narration"
	"github.com/audionary/audionary-backend/internal/service/narration"
)

// NarrationService is what the handler needs from the pipeline
type NarrationService interface {
	ProcessPDF(ctx context.Context, req narration.ProcessRequest) (*narration.Result, error)
	OpenAudio(ctx context.Context, fileName string) (io.ReadCloser, error)
	GetNarration(ctx context.Context, id string) (*narrationrepo.Narration, error)
	MaxFileSize() int64
}

// NarrationHandler serves the upload and audio endpoints
type NarrationHandler struct {
	service NarrationService
	baseURL string
	logger  *slog.Logger
}

// NewNarrationHandler creates a handler. An empty baseURL makes audio URLs
// absolute against the request host.
func NewNarrationHandler(service NarrationService, baseURL string, logger *slog.Logger) *NarrationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NarrationHandler{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// @Summary      Upload PDF
// @Description  Narrates an uploaded PDF and returns the narration with a link to the generated audio
// @Tags         narration
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "PDF document"
// @Param        upload_id  formData  string  false  "Client chosen id for the progress stream"
// @Success      200  {object}  UploadResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/upload-pdf/ [post]
func (h *NarrationHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	maxSize := h.service.MaxFileSize()
	tooBig := fmt.Sprintf("File exceeds the maximum size of %d MB.", maxSize/(1024*1024))

	// Leave headroom for the multipart envelope so the size check below
	// reports the friendly message for files just over the limit
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, tooBig)
			return
		}
		writeError(w, http.StatusBadRequest, MsgNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgNoFile)
		return
	}
	file.Close()

	result, err := h.service.ProcessPDF(r.Context(), narration.ProcessRequest{
		UploadID: r.FormValue("upload_id"),
		File:     &narration.FileHeaderWrapper{FileHeader: header},
		BaseURL:  h.requestBaseURL(r),
	})
	if err != nil {
		switch err {
		case narration.ErrNoFile:
			writeError(w, http.StatusBadRequest, MsgNoFile)
		case narration.ErrInvalidFileType:
			writeError(w, http.StatusBadRequest, MsgOnlyPDF)
		case narration.ErrFileTooBig:
			writeError(w, http.StatusBadRequest, tooBig)
		case narration.ErrEmptyDocument:
			writeError(w, http.StatusBadRequest, MsgEmptyPDF)
		case narration.ErrNarrationFailed:
			writeError(w, http.StatusInternalServerError, MsgNarrationFailed)
		default:
			h.logger.Error("upload pdf failed", "filename", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, MsgInternal)
		}
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Message:          MsgSuccess,
		ID:               result.ID,
		NarrationPreview: result.Narration,
		AudioURL:         result.AudioURL,
	})
}

// @Summary      Download audio
// @Description  Streams a generated narration as MP3
// @Tags         narration
// @Produce      audio/mpeg
// @Param        fileName  path  string  true  "Audio file name"
// @Success      200  {file}    binary
// @Failure      404  {object}  ErrorResponse
// @Router       /api/audio/{fileName}/ [get]
func (h *NarrationHandler) DownloadAudio(w http.ResponseWriter, r *http.Request) {
	fileName := chi.URLParam(r, "fileName")

	rc, err := h.service.OpenAudio(r.Context(), fileName)
	if err != nil {
		switch err {
		case narration.ErrAudioNotFound, narration.ErrInvalidAudioName:
			writeError(w, http.StatusNotFound, MsgAudioNotFound)
		default:
			h.logger.Error("open audio failed", "file", fileName, "error", err)
			writeError(w, http.StatusInternalServerError, MsgInternal)
		}
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", narration.AudioContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, fileName))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("audio stream interrupted", "file", fileName, "error", err)
	}
}

// @Summary      Get narration
// @Description  Returns the stored narration record
// @Tags         narration
// @Produce      json
// @Param        id   path      string  true  "Narration ID"
// @Success      200  {object}  narrationrepo.Narration
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/narrations/{id} [get]
func (h *NarrationHandler) GetNarration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	n, err := h.service.GetNarration(r.Context(), id)
	if err != nil {
		if err == narration.ErrNarrationNotFound {
			writeError(w, http.StatusNotFound, MsgNotFound)
			return
		}
		h.logger.Error("get narration failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NarrationHandler) requestBaseURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
