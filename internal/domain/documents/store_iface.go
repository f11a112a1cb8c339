package documents

import (
	"context"

	"hrportal/internal/domain/auth"
)

type StoreAPI interface {
	List(ctx context.Context, scope auth.Scope, filter Filter) ([]Document, int, error)
	Get(ctx context.Context, scope auth.Scope, documentID int64) (Document, error)
	Create(ctx context.Context, scope auth.Scope, uploadedBy int64, in NewDocument) (Document, error)
	Delete(ctx context.Context, scope auth.Scope, documentID int64) (Document, error)
}
