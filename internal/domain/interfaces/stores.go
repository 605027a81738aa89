package interfaces

import (
	"context"

	domaintypes "ozymandias/internal/domain/types"
)

// DocumentStore persists documents.
//
// Retrieve and Delete return an apperr NOT_FOUND error for unknown ids.
// List results are sorted by title, then id.
type DocumentStore interface {
	Store(ctx context.Context, doc domaintypes.Document) error
	Retrieve(ctx context.Context, id domaintypes.DocumentID) (domaintypes.Document, error)
	List(ctx context.Context, filter domaintypes.ListFilter) ([]domaintypes.Document, error)
	Delete(ctx context.Context, id domaintypes.DocumentID) error

	FindBySource(ctx context.Context, source string) (domaintypes.Document, bool, error)
	FindByDigest(ctx context.Context, digest domaintypes.Digest) (domaintypes.Document, bool, error)

	Close() error
}
