package documents

import "context"

// Repo defines session-scoped storage for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	Get(ctx context.Context, sessionID, documentID string) (Document, error)
	ListBySession(ctx context.Context, sessionID string) ([]Document, error)
	DeleteSession(ctx context.Context, sessionID string) (int, error)
}
