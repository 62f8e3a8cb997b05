package narration

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO narrations").
			WithArgs("id-1", "report.pdf", "uploads/report.pdf", int64(1024), StatusProcessing).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, "id-1", "report.pdf", "uploads/report.pdf", 1024)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DatabaseError", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO narrations").
			WillReturnError(errors.New("connection refused"))

		err := repo.Create(ctx, "id-2", "report.pdf", "uploads/report.pdf", 1024)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create narration")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestComplete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE narrations").
			WithArgs("id-1", StatusCompleted, "narration", "audio/abc.mp3", "http://host/media/audio/abc.mp3", 1500).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Complete(ctx, "id-1", "narration", "audio/abc.mp3", "http://host/media/audio/abc.mp3", 1500*time.Millisecond)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE narrations").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Complete(ctx, "missing", "n", "k", "u", time.Second)
		assert.Equal(t, ErrNarrationNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE narrations SET status").
		WithArgs("id-1", StatusFailed, "tts failed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Fail(context.Background(), "id-1", "tts failed")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	ctx := context.Background()
	columns := []string{
		"id", "upload_name", "pdf_key", "size_bytes", "status", "narration_text", "audio_key", "audio_url",
		"process_time_ms", "error_message", "created_at", "updated_at",
	}

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(columns).
			AddRow("id-1", "report.pdf", "uploads/report.pdf", int64(2048), StatusCompleted, "hello", "audio/a.mp3",
				"http://host/media/audio/a.mp3", 900, nil, now, now)

		mock.ExpectQuery("SELECT id, upload_name, pdf_key").
			WithArgs("id-1").
			WillReturnRows(rows)

		n, err := repo.GetByID(ctx, "id-1")
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", n.UploadName)
		assert.Equal(t, StatusCompleted, n.Status)
		require.NotNil(t, n.NarrationText)
		assert.Equal(t, "hello", *n.NarrationText)
		require.NotNil(t, n.ProcessTimeMs)
		assert.Equal(t, 900, *n.ProcessTimeMs)
		assert.Nil(t, n.ErrorMessage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, upload_name, pdf_key").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		n, err := repo.GetByID(ctx, "missing")
		assert.Nil(t, n)
		assert.Equal(t, ErrNarrationNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
