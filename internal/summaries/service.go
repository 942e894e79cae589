package summaries

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docsummary-backend/internal/documents"
	"docsummary-backend/internal/extract"
	"docsummary-backend/internal/shared/storage/blob"
	"docsummary-backend/internal/shared/telemetry"
	"docsummary-backend/internal/users"
)

const (
	// maxUploadBytes caps a single upload at 50MB.
	maxUploadBytes = 50 * 1024 * 1024
	// minTextLength is the trimmed-character floor below which a document
	// is considered to have no usable text.
	minTextLength = 100
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
}

// UploadInput carries one upload through the pipeline.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// Outcome is the result of a pipeline run. Exactly one of Notice or
// Document is set: Notice for the insufficient-text case where nothing is
// persisted, Document for a completed save.
type Outcome struct {
	Notice   string
	Document documents.Document
	Summary  string
	UserName string
}

// Service orchestrates the upload pipeline: resolve user, validate,
// extract, summarize, store the file, persist the rows.
type Service struct {
	Users      *users.Service
	Repo       documents.Repo
	Blob       blob.Store
	Summarizer *Summarizer
}

func NewService(usersSvc *users.Service, repo documents.Repo, store blob.Store, summarizer *Summarizer) *Service {
	return &Service{Users: usersSvc, Repo: repo, Blob: store, Summarizer: summarizer}
}

// Validate applies the upload preconditions in order: presence, file type,
// size. It returns one of the exported validation errors.
func Validate(in UploadInput) error {
	if in.Size == 0 || len(in.Data) == 0 {
		return ErrEmptyFile
	}
	ext := strings.ToLower(filepath.Ext(in.FileName))
	if !allowedExtensions[ext] {
		return ErrInvalidFileType
	}
	if in.Size > maxUploadBytes {
		return ErrFileTooLarge
	}
	return nil
}

// Ingest runs the full pipeline for an authenticated upload. Validation
// failures return one of the exported sentinel errors; any other error is an
// internal pipeline failure.
func (s *Service) Ingest(ctx context.Context, claims users.Claims, in UploadInput) (Outcome, error) {
	user, err := s.Users.SyncFromClaims(ctx, claims)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve user: %w", err)
	}

	if err := Validate(in); err != nil {
		return Outcome{}, err
	}

	text, err := extract.Text(ctx, in.Data, in.FileName, in.ContentType)
	if err != nil {
		return Outcome{}, err
	}
	if len(strings.TrimSpace(text)) < minTextLength {
		telemetry.Warn("upload.insufficient_text", map[string]any{
			"user_id":   user.ID,
			"file_name": in.FileName,
		})
		return Outcome{Notice: MsgInsufficientText}, nil
	}

	summary := s.Summarizer.Summarize(ctx, text)

	// The sync above should guarantee the row, but the save path verifies
	// it anyway so a stale account never gets an orphan document.
	if _, err := s.Users.GetByID(ctx, user.ID); err != nil {
		return Outcome{}, fmt.Errorf("user not found with id: %s", user.ID)
	}

	storedPath, sizeBytes, err := s.Blob.SaveDocument(ctx, user.ID, in.FileName, bytes.NewReader(in.Data))
	if err != nil {
		return Outcome{}, fmt.Errorf("store document: %w", err)
	}
	if _, err := s.Blob.SaveSummary(ctx, user.ID, in.FileName, summary); err != nil {
		return Outcome{}, fmt.Errorf("store summary: %w", err)
	}

	now := time.Now().UTC()
	doc := documents.Document{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		FileName:   in.FileName,
		FilePath:   storedPath,
		FileType:   strings.TrimPrefix(strings.ToLower(filepath.Ext(in.FileName)), "."),
		SizeBytes:  sizeBytes,
		UploadedAt: now,
	}
	rec := documents.Summary{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		Text:       summary,
		CreatedAt:  now,
	}
	if err := s.Repo.CreateWithSummary(ctx, doc, rec); err != nil {
		return Outcome{}, fmt.Errorf("persist document: %w", err)
	}

	telemetry.Info("upload.saved", map[string]any{
		"user_id":     user.ID,
		"document_id": doc.ID,
		"file_name":   doc.FileName,
		"size_bytes":  doc.SizeBytes,
	})

	return Outcome{Document: doc, Summary: summary, UserName: user.Name}, nil
}

// GetByID returns a document if it belongs to the given user.
func (s *Service) GetByID(ctx context.Context, userID, documentID string) (documents.Document, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return documents.Document{}, fmt.Errorf("user not found with id: %s", userID)
		}
		return documents.Document{}, err
	}
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return documents.Document{}, err
	}
	if doc.UserID != userID {
		return documents.Document{}, documents.ErrNotFound
	}
	return doc, nil
}
