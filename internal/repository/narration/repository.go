package narration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNarrationNotFound = errors.New("narration not found")
)

// Record statuses
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Narration is one processed PDF upload
type Narration struct {
	ID            string    `json:"id"`
	UploadName    string    `json:"upload_name"`
	PDFKey        string    `json:"-"`
	SizeBytes     int64     `json:"size_bytes"`
	Status        string    `json:"status"`
	NarrationText *string   `json:"narration_text,omitempty"`
	AudioKey      *string   `json:"-"`
	AudioURL      *string   `json:"audio_url,omitempty"`
	ProcessTimeMs *int      `json:"process_time_ms,omitempty"`
	ErrorMessage  *string   `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PostgresRepository stores narration records in PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new narration repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a record in the processing state
func (r *PostgresRepository) Create(ctx context.Context, id, uploadName, pdfKey string, sizeBytes int64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO narrations (id, upload_name, pdf_key, size_bytes, status) VALUES ($1, $2, $3, $4, $5)",
		id, uploadName, pdfKey, sizeBytes, StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to create narration: %w", err)
	}
	return nil
}

// Complete stores the generated narration and audio location
func (r *PostgresRepository) Complete(ctx context.Context, id, text, audioKey, audioURL string, processTime time.Duration) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE narrations
		 SET status = $2, narration_text = $3, audio_key = $4, audio_url = $5, process_time_ms = $6, updated_at = NOW()
		 WHERE id = $1`,
		id, StatusCompleted, text, audioKey, audioURL, int(processTime.Milliseconds()),
	)
	if err != nil {
		return fmt.Errorf("failed to complete narration: %w", err)
	}
	return expectOneRow(res)
}

// Fail marks the record as failed with the given reason
func (r *PostgresRepository) Fail(ctx context.Context, id, reason string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE narrations SET status = $2, error_message = $3, updated_at = NOW() WHERE id = $1",
		id, StatusFailed, reason,
	)
	if err != nil {
		return fmt.Errorf("failed to mark narration failed: %w", err)
	}
	return expectOneRow(res)
}

// GetByID returns a single record
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Narration, error) {
	var n Narration
	err := r.db.QueryRowContext(ctx,
		`SELECT id, upload_name, pdf_key, size_bytes, status, narration_text, audio_key, audio_url,
		        process_time_ms, error_message, created_at, updated_at
		 FROM narrations WHERE id = $1`,
		id,
	).Scan(
		&n.ID, &n.UploadName, &n.PDFKey, &n.SizeBytes, &n.Status, &n.NarrationText, &n.AudioKey, &n.AudioURL,
		&n.ProcessTimeMs, &n.ErrorMessage, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNarrationNotFound
		}
		return nil, fmt.Errorf("failed to get narration: %w", err)
	}
	return &n, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNarrationNotFound
	}
	return nil
}
