package documents

import "time"

// Document represents an uploaded document owned by a user.
type Document struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"-"`
	FileType   string    `json:"fileType"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
	Summary    *Summary  `json:"summary,omitempty"`
}

// Summary is the AI-generated summary attached to a document.
type Summary struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}
