package narration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	narrationrepo "github.com/audionary/audionary-backend/internal/repository/narration"
	"github.com/audionary/audionary-backend/internal/service/pdf"
	"github.com/audionary/audionary-backend/internal/storage/object"
)

var (
	ErrNoFile            = errors.New("no file uploaded")
	ErrInvalidFileType   = errors.New("invalid file type")
	ErrFileTooBig        = errors.New("file too big")
	ErrEmptyDocument     = errors.New("document has no extractable text")
	ErrNarrationFailed   = errors.New("narration generation returned nothing")
	ErrAudioNotFound     = errors.New("audio not found")
	ErrInvalidAudioName  = errors.New("invalid audio file name")
	ErrNarrationNotFound = narrationrepo.ErrNarrationNotFound
)

const (
	PDFContentType   = "application/pdf"
	AudioContentType = "audio/mpeg"

	// DefaultMaxFileSize is the upload limit when none is configured
	DefaultMaxFileSize = 10 * 1024 * 1024

	// AudioRoute is the public path prefix audio URLs are built on
	AudioRoute = "/media/audio/"

	// bookkeepingTimeout bounds record updates and cleanup that must
	// outlive a cancelled request
	bookkeepingTimeout = 10 * time.Second
)

// Pipeline stages reported to the ProgressNotifier
const (
	StageReceived     = "received"
	StageExtracting   = "extracting"
	StageSummarizing  = "summarizing"
	StageSynthesizing = "synthesizing"
	StageCompleted    = "completed"
	StageFailed       = "failed"
)

type FileHeaderWrapper struct {
	*multipart.FileHeader
}

func (w *FileHeaderWrapper) Open() (multipart.File, error) {
	return w.FileHeader.Open()
}

func (w *FileHeaderWrapper) GetFilename() string {
	return w.Filename
}

func (w *FileHeaderWrapper) GetSize() int64 {
	return w.Size
}

func (w *FileHeaderWrapper) GetHeader() textproto.MIMEHeader {
	return w.Header
}

type UploadedFile interface {
	Open() (multipart.File, error)
	GetFilename() string
	GetSize() int64
	GetHeader() textproto.MIMEHeader
}

// TextExtractor pulls plain text out of a PDF
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// Summarizer turns text chunks into a narrative script
type Summarizer interface {
	Run(ctx context.Context, chunks []string) (string, error)
}

// Synthesizer renders narration text as MP3 audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Repository persists narration records
type Repository interface {
	Create(ctx context.Context, id, uploadName, pdfKey string, sizeBytes int64) error
	Complete(ctx context.Context, id, text, audioKey, audioURL string, processTime time.Duration) error
	Fail(ctx context.Context, id, reason string) error
	GetByID(ctx context.Context, id string) (*narrationrepo.Narration, error)
}

// ProgressNotifier receives pipeline stage changes for an upload
type ProgressNotifier interface {
	Publish(uploadID, stage string)
}

// ProcessRequest is one PDF to narrate
type ProcessRequest struct {
	// UploadID is a client chosen id used for progress notifications, may be empty
	UploadID string
	File     UploadedFile
	// BaseURL is the scheme://host prefix of the returned audio URL
	BaseURL string
}

// Result of a successful narration
type Result struct {
	ID        string `json:"id"`
	Narration string `json:"narration_preview"`
	AudioFile string `json:"-"`
	AudioURL  string `json:"audio_url"`
}

// Options tunes the service
type Options struct {
	MaxFileSize int64
	ChunkWords  int
	Logger      *slog.Logger
	Notifier    ProgressNotifier
}

// Service runs the PDF -> narration -> audio pipeline
type Service struct {
	storage     object.StorageProvider
	extractor   TextExtractor
	summarizer  Summarizer
	synthesizer Synthesizer
	repo        Repository
	notifier    ProgressNotifier
	logger      *slog.Logger
	maxFileSize int64
	chunkWords  int
	now         func() time.Time
}

// NewService creates a narration service
func NewService(
	storage object.StorageProvider,
	extractor TextExtractor,
	summarizer Summarizer,
	synthesizer Synthesizer,
	repo Repository,
	opts Options,
) *Service {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.ChunkWords <= 0 {
		opts.ChunkWords = pdf.DefaultChunkWords
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = noopNotifier{}
	}

	return &Service{
		storage:     storage,
		extractor:   extractor,
		summarizer:  summarizer,
		synthesizer: synthesizer,
		repo:        repo,
		notifier:    opts.Notifier,
		logger:      opts.Logger,
		maxFileSize: opts.MaxFileSize,
		chunkWords:  opts.ChunkWords,
		now:         time.Now,
	}
}

// MaxFileSize returns the upload limit in bytes
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// ProcessPDF validates the upload, narrates it and stores the audio
func (s *Service) ProcessPDF(ctx context.Context, req ProcessRequest) (*Result, error) {
	if req.File == nil {
		return nil, ErrNoFile
	}
	if err := s.validate(req.File); err != nil {
		return nil, err
	}

	started := s.now()
	s.notify(req.UploadID, StageReceived)

	data, err := readUpload(req.File)
	if err != nil {
		s.notify(req.UploadID, StageFailed)
		return nil, errors.Wrap(err, "read upload")
	}
	if int64(len(data)) > s.maxFileSize {
		s.notify(req.UploadID, StageFailed)
		return nil, ErrFileTooBig
	}

	id := uuid.New().String()
	uploadName := filepath.Base(req.File.GetFilename())
	pdfKey := path.Join("uploads", id+"_"+sanitizeName(uploadName))

	pdfURL, err := s.storage.UploadFile(ctx, bytes.NewReader(data), int64(len(data)), pdfKey, PDFContentType)
	if err != nil {
		s.notify(req.UploadID, StageFailed)
		return nil, errors.Wrap(err, "store pdf")
	}
	s.logger.Debug("stored upload", "id", id, "url", pdfURL)

	if err := s.repo.Create(ctx, id, uploadName, pdfKey, int64(len(data))); err != nil {
		s.notify(req.UploadID, StageFailed)
		s.cleanup(ctx, pdfKey)
		return nil, errors.Wrap(err, "create narration record")
	}

	result, err := s.narrate(ctx, id, req, data)
	if err != nil {
		s.notify(req.UploadID, StageFailed)
		s.fail(ctx, id, err)
		return nil, err
	}

	audioKey := path.Join("audio", result.AudioFile)
	bctx, cancel := s.bookkeepingContext(ctx)
	err = s.repo.Complete(bctx, id, result.Narration, audioKey, result.AudioURL, s.now().Sub(started))
	cancel()
	if err != nil {
		err = errors.Wrap(err, "complete narration record")
		s.notify(req.UploadID, StageFailed)
		s.cleanup(ctx, audioKey)
		s.fail(ctx, id, err)
		return nil, err
	}

	s.notify(req.UploadID, StageCompleted)
	s.logger.Info("narration completed",
		"id", id,
		"upload", uploadName,
		"bytes", len(data),
		"duration_ms", s.now().Sub(started).Milliseconds(),
	)
	return result, nil
}

func (s *Service) narrate(ctx context.Context, id string, req ProcessRequest, data []byte) (*Result, error) {
	s.notify(req.UploadID, StageExtracting)
	text, err := s.extractor.ExtractText(data)
	if err != nil {
		if errors.Cause(err) == pdf.ErrNotPDF {
			return nil, ErrEmptyDocument
		}
		return nil, errors.Wrap(err, "extract text")
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	chunks := pdf.ChunkText(text, s.chunkWords)

	s.notify(req.UploadID, StageSummarizing)
	narration, err := s.summarizer.Run(ctx, chunks)
	if err != nil {
		return nil, errors.Wrap(err, "summarize")
	}
	if strings.TrimSpace(narration) == "" {
		return nil, ErrNarrationFailed
	}

	s.notify(req.UploadID, StageSynthesizing)
	audio, err := s.synthesizer.Synthesize(ctx, narration)
	if err != nil {
		return nil, errors.Wrap(err, "synthesize audio")
	}

	audioFile := strings.ReplaceAll(uuid.New().String(), "-", "") + ".mp3"
	storedURL, err := s.storage.UploadFile(ctx, bytes.NewReader(audio), int64(len(audio)), path.Join("audio", audioFile), AudioContentType)
	if err != nil {
		return nil, errors.Wrap(err, "store audio")
	}
	s.logger.Debug("stored audio", "id", id, "url", storedURL)

	return &Result{
		ID:        id,
		Narration: narration,
		AudioFile: audioFile,
		AudioURL:  strings.TrimRight(req.BaseURL, "/") + AudioRoute + audioFile,
	}, nil
}

// OpenAudio returns a reader for a generated audio file
func (s *Service) OpenAudio(ctx context.Context, fileName string) (io.ReadCloser, error) {
	if !validAudioName(fileName) {
		return nil, ErrInvalidAudioName
	}
	rc, err := s.storage.Open(ctx, path.Join("audio", fileName))
	if err != nil {
		if err == object.ErrObjectNotFound {
			return nil, ErrAudioNotFound
		}
		return nil, fmt.Errorf("failed to open audio: %w", err)
	}
	return rc, nil
}

// GetNarration returns the stored record for id
func (s *Service) GetNarration(ctx context.Context, id string) (*narrationrepo.Narration, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNarrationNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) validate(file UploadedFile) error {
	contentType := file.GetHeader().Get("Content-Type")
	if !strings.HasSuffix(file.GetFilename(), ".pdf") || contentType != PDFContentType {
		return ErrInvalidFileType
	}
	if file.GetSize() > s.maxFileSize {
		return ErrFileTooBig
	}
	return nil
}

// bookkeepingContext detaches ctx from the request so a disconnect or
// timeout cannot leave a record stuck in processing
func (s *Service) bookkeepingContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
}

func (s *Service) fail(ctx context.Context, id string, cause error) {
	ctx, cancel := s.bookkeepingContext(ctx)
	defer cancel()
	if err := s.repo.Fail(ctx, id, cause.Error()); err != nil {
		s.logger.Warn("failed to record narration failure", "id", id, "error", err)
	}
}

func (s *Service) cleanup(ctx context.Context, key string) {
	ctx, cancel := s.bookkeepingContext(ctx)
	defer cancel()
	if err := s.storage.DeleteFile(ctx, key); err != nil {
		s.logger.Warn("failed to remove orphaned object", "key", key, "error", err)
	}
}

func (s *Service) notify(uploadID, stage string) {
	if uploadID == "" {
		return
	}
	s.notifier.Publish(uploadID, stage)
}

func readUpload(file UploadedFile) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '/' || r == '\\' || r == '"' {
			return '_'
		}
		return r
	}, name)
}

func validAudioName(name string) bool {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return strings.HasSuffix(strings.ToLower(name), ".mp3")
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, string) {}
