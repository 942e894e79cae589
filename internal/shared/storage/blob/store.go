package blob

import (
	"context"
	"io"
)

// Store persists uploaded originals and their generated summary files in a
// per-user namespace. SaveDocument names the object
// "<epoch-millis>_<fileName>"; SaveSummary names it
// "<basename-without-extension>_summary.txt" and overwrites any previous
// object of that name.
type Store interface {
	SaveDocument(ctx context.Context, userID string, fileName string, r io.Reader) (path string, sizeBytes int64, err error)
	SaveSummary(ctx context.Context, userID string, originalFileName string, text string) (path string, err error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}
