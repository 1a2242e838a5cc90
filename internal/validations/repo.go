package validations

import "context"

// Repo defines session-scoped storage for validations.
type Repo interface {
	Create(ctx context.Context, v Validation) error
	Get(ctx context.Context, sessionID, validationID string) (Validation, error)
	ListBySession(ctx context.Context, sessionID string) ([]Validation, error)
	DeleteSession(ctx context.Context, sessionID string) (int, error)
}
