package summaries

import "errors"

// Validation failures map to 400 responses with these exact bodies.
var (
	ErrEmptyFile       = errors.New("Error: No file uploaded or file is empty.")
	ErrInvalidFileType = errors.New("Error: Invalid file type. Only PDF, DOCX, and TXT files are supported.")
	ErrFileTooLarge    = errors.New("Error: File size exceeds 50MB limit.")
)

// User-facing bodies for the non-validation outcomes.
const (
	MsgNotAuthenticated  = "Error: User not authenticated. Please log in."
	MsgUnableToIdentify  = "Error: Unable to identify user."
	MsgInsufficientText  = "This document contains insufficient extractable text."
	MsgSummarizerFailure = "Error: AI summarization failed."
	MsgNoSummary         = "Unable to generate summary."
)
