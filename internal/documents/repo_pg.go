package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) CreateWithSummary(ctx context.Context, doc Document, summary Summary) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertDoc = `
INSERT INTO documents (id, user_id, file_name, file_path, file_type, size_bytes, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, insertDoc,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.FilePath,
		doc.FileType,
		doc.SizeBytes,
		doc.UploadedAt,
	); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	const insertSummary = `
INSERT INTO summaries (id, document_id, summary_text, created_at)
VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertSummary,
		summary.ID,
		summary.DocumentID,
		summary.Text,
		summary.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	const query = `
SELECT d.id, d.user_id, d.file_name, d.file_path, d.file_type, d.size_bytes, d.uploaded_at,
       s.id, s.summary_text, s.created_at
FROM documents d
LEFT JOIN summaries s ON s.document_id = d.id
WHERE d.user_id = $1
ORDER BY d.uploaded_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT d.id, d.user_id, d.file_name, d.file_path, d.file_type, d.size_bytes, d.uploaded_at,
       s.id, s.summary_text, s.created_at
FROM documents d
LEFT JOIN summaries s ON s.document_id = d.id
WHERE d.id = $1
LIMIT 1`
	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return Document{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Document{}, err
		}
		return Document{}, ErrNotFound
	}
	return scanDocument(rows)
}

func scanDocument(rows *sql.Rows) (Document, error) {
	var doc Document
	var summaryID sql.NullString
	var summaryText sql.NullString
	var summaryCreated sql.NullTime
	err := rows.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.FilePath,
		&doc.FileType,
		&doc.SizeBytes,
		&doc.UploadedAt,
		&summaryID,
		&summaryText,
		&summaryCreated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if summaryID.Valid {
		doc.Summary = &Summary{
			ID:         summaryID.String,
			DocumentID: doc.ID,
			Text:       summaryText.String,
			CreatedAt:  summaryCreated.Time,
		}
	}
	return doc, nil
}
