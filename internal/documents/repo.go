package documents

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "document not found" }

type Repo interface {
	// CreateWithSummary persists the document row and its summary row
	// atomically. Either both land or neither does.
	CreateWithSummary(ctx context.Context, doc Document, summary Summary) error
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	GetByID(ctx context.Context, documentID string) (Document, error)
}
