package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateWithSummaryCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	doc := Document{
		ID:         "doc-1",
		UserID:     "user-1",
		FileName:   "report.pdf",
		FilePath:   "/data/uploads/user-1/123_report.pdf",
		FileType:   "pdf",
		SizeBytes:  2048,
		UploadedAt: now,
	}
	summary := Summary{
		ID:         "sum-1",
		DocumentID: "doc-1",
		Text:       "A short summary.",
		CreatedAt:  now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO documents").
		WithArgs(doc.ID, doc.UserID, doc.FileName, doc.FilePath, doc.FileType, doc.SizeBytes, doc.UploadedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO summaries").
		WithArgs(summary.ID, summary.DocumentID, summary.Text, summary.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.CreateWithSummary(context.Background(), doc, summary); err != nil {
		t.Fatalf("CreateWithSummary: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateWithSummaryRollsBackOnSummaryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO documents").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO summaries").
		WillReturnError(errors.New("unique violation"))
	mock.ExpectRollback()

	err = repo.CreateWithSummary(context.Background(),
		Document{ID: "doc-1", UserID: "user-1", FileName: "a.txt", UploadedAt: now},
		Summary{ID: "sum-1", DocumentID: "doc-1", Text: "s", CreatedAt: now},
	)
	if err == nil {
		t.Fatalf("expected error on summary insert failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserJoinsSummaries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	cols := []string{"id", "user_id", "file_name", "file_path", "file_type", "size_bytes", "uploaded_at", "id", "summary_text", "created_at"}

	rows := sqlmock.NewRows(cols).
		AddRow("doc-2", "user-1", "b.pdf", "/p/b.pdf", "pdf", int64(10), now, "sum-2", "summary b", now).
		AddRow("doc-1", "user-1", "a.txt", "/p/a.txt", "txt", int64(5), now.Add(-time.Hour), nil, nil, nil)

	mock.ExpectQuery("SELECT d.id, d.user_id, d.file_name").
		WithArgs("user-1").
		WillReturnRows(rows)

	docs, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Summary == nil || docs[0].Summary.Text != "summary b" {
		t.Fatalf("expected summary on first document, got %+v", docs[0].Summary)
	}
	if docs[1].Summary != nil {
		t.Fatalf("expected no summary on second document")
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	cols := []string{"id", "user_id", "file_name", "file_path", "file_type", "size_bytes", "uploaded_at", "id", "summary_text", "created_at"}

	mock.ExpectQuery("SELECT d.id, d.user_id, d.file_name").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(cols))

	_, err = repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
