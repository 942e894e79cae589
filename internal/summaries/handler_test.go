package summaries_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docsummary-backend/internal/bootstrap"
	sharedauth "docsummary-backend/internal/shared/auth"
	"docsummary-backend/internal/shared/config"
	"docsummary-backend/internal/summaries"
)

func buildTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	t.Setenv("ENV", "dev")
	t.Setenv("JWT_SECRET", "test-secret")

	app, err := bootstrap.Build(config.Config{
		Env:            "dev",
		UploadDir:      t.TempDir(),
		BlobStoreType:  "local",
		SummaryTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("bootstrap.Build: %v", err)
	}
	return app
}

func signToken(t *testing.T, email, name string) string {
	t.Helper()
	token, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:   "google:sub-123",
		Email: email,
		Name:  name,
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	return token
}

func multipartUpload(t *testing.T, fieldFileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", fieldFileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func postSummary(app *bootstrap.App, body *bytes.Buffer, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/summary", body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func TestSummaryUnauthenticated(t *testing.T) {
	app := buildTestApp(t)
	body, contentType := multipartUpload(t, "report.txt", "content")

	rec := postSummary(app, body, contentType, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if rec.Body.String() != "Error: User not authenticated. Please log in." {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestSummaryTokenWithoutEmail(t *testing.T) {
	app := buildTestApp(t)
	token, err := sharedauth.SignJWT(sharedauth.Claims{Sub: "google:sub-123"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	body, contentType := multipartUpload(t, "report.txt", "content")

	rec := postSummary(app, body, contentType, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if rec.Body.String() != "Error: Unable to identify user." {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestSummaryMissingFile(t *testing.T) {
	app := buildTestApp(t)
	token := signToken(t, "dana@example.com", "Dana")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("other", "value")
	_ = w.Close()

	rec := postSummary(app, &buf, w.FormDataContentType(), token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if rec.Body.String() != "Error: No file uploaded or file is empty." {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestSummaryInvalidFileType(t *testing.T) {
	app := buildTestApp(t)
	token := signToken(t, "dana@example.com", "Dana")
	body, contentType := multipartUpload(t, "image.png", "binary-ish")

	rec := postSummary(app, body, contentType, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if rec.Body.String() != "Error: Invalid file type. Only PDF, DOCX, and TXT files are supported." {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestSummaryInsufficientText(t *testing.T) {
	app := buildTestApp(t)
	token := signToken(t, "dana@example.com", "Dana")
	body, contentType := multipartUpload(t, "short.txt", "too short")

	rec := postSummary(app, body, contentType, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if rec.Body.String() != "This document contains insufficient extractable text." {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestSummarySavedWithSentinelSummary(t *testing.T) {
	// No LLM provider is configured, so the summarizer degrades to its
	// sentinel while the upload itself still saves.
	app := buildTestApp(t)
	token := signToken(t, "dana@example.com", "Dana")
	content := strings.Repeat("The annual report details operations. ", 10)
	body, contentType := multipartUpload(t, "report.txt", content)

	rec := postSummary(app, body, contentType, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	got := rec.Body.String()
	if !strings.Contains(got, "Document Saved Successfully!") {
		t.Fatalf("missing confirmation header: %q", got)
	}
	if !strings.Contains(got, "File: report.txt") {
		t.Fatalf("missing file line: %q", got)
	}
	if !strings.Contains(got, "User: Dana") {
		t.Fatalf("missing user line: %q", got)
	}
	if !strings.Contains(got, summaries.MsgSummarizerFailure) {
		t.Fatalf("missing sentinel summary: %q", got)
	}
}

func TestSummaryListAfterUpload(t *testing.T) {
	app := buildTestApp(t)
	token := signToken(t, "dana@example.com", "Dana")
	content := strings.Repeat("The annual report details operations. ", 10)
	body, contentType := multipartUpload(t, "report.txt", content)

	if rec := postSummary(app, body, contentType, token); rec.Code != http.StatusOK {
		t.Fatalf("upload status %d: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "report.txt") {
		t.Fatalf("uploaded document not listed: %s", rec.Body.String())
	}
}

func TestSummaryBodyOverReadLimit(t *testing.T) {
	app := buildTestApp(t)
	token := signToken(t, "dana@example.com", "Dana")

	// Bigger than the 50MB cap plus the multipart headroom, so the body
	// reader trips before the form is ever parsed.
	body, contentType := multipartUpload(t, "huge.txt", strings.Repeat("a", 52*1024*1024))

	rec := postSummary(app, body, contentType, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if rec.Body.String() != "Error: File size exceeds 50MB limit." {
		t.Fatalf("body %q", rec.Body.String())
	}
}
