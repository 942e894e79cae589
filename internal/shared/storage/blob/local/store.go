package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docsummary-backend/internal/shared/storage/blob"
	"docsummary-backend/internal/shared/util"
)

// Store implements blob.Store on the local filesystem. Objects live under
// <baseDir>/<userID>/ and returned paths are absolute.
type Store struct {
	baseDir string
}

// New creates a local blob store rooted at baseDir.
func New(baseDir string) *Store {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		abs = filepath.Clean(baseDir)
	}
	return &Store{baseDir: abs}
}

// SaveDocument writes the reader to disk under the user's directory with a
// millisecond timestamp prefix. Two saves of the same name within the same
// millisecond collide; that window is accepted.
func (s *Store) SaveDocument(ctx context.Context, userID string, fileName string, r io.Reader) (string, int64, error) {
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, fmt.Errorf("sanitize file name: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	dirPath, err := s.ensureUserDir(userID)
	if err != nil {
		return "", 0, err
	}

	finalName := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitized)
	fullPath := filepath.Join(dirPath, finalName)

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		return "", 0, fmt.Errorf("write body: %w", err)
	}
	return fullPath, size, nil
}

// SaveSummary writes the summary text next to the original. The name carries
// no timestamp, so a re-upload of the same file name overwrites the previous
// summary file while originals accumulate; callers rely on that behavior.
func (s *Store) SaveSummary(ctx context.Context, userID string, originalFileName string, text string) (string, error) {
	sanitized, err := util.SanitizeFileName(originalFileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dirPath, err := s.ensureUserDir(userID)
	if err != nil {
		return "", err
	}

	summaryName := util.BaseName(sanitized) + "_summary.txt"
	fullPath := filepath.Join(dirPath, summaryName)
	if err := os.WriteFile(fullPath, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return fullPath, nil
}

// Open opens a stored object for reading. Only paths inside the store root
// are served.
func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(path)
	if !strings.HasPrefix(clean, s.baseDir+string(filepath.Separator)) {
		return nil, fmt.Errorf("invalid blob path")
	}
	f, err := os.Open(clean)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ensureUserDir creates the per-user directory. MkdirAll is idempotent, so
// two concurrent uploads for the same user both succeed.
func (s *Store) ensureUserDir(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("user id required")
	}
	dirPath := filepath.Join(s.baseDir, userID)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	return dirPath, nil
}

var _ blob.Store = (*Store)(nil)
