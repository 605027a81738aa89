package interfaces

import (
	"context"

	domaintypes "ozymandias/internal/domain/types"
)

// KnowledgeService ingests, queries and relates documents.
type KnowledgeService interface {
	Ingest(ctx context.Context, path string) (domaintypes.IngestResult, error)
	IngestAll(ctx context.Context, paths []string) ([]domaintypes.IngestResult, error)

	Get(ctx context.Context, id domaintypes.DocumentID) (domaintypes.Document, error)
	Resolve(ctx context.Context, ref string) (domaintypes.Document, error)
	List(ctx context.Context, filter domaintypes.ListFilter) ([]domaintypes.Document, error)
	Related(ctx context.Context, id domaintypes.DocumentID, limit int) ([]domaintypes.Relationship, error)
	CategoryCounts(ctx context.Context) ([]domaintypes.CategoryCount, error)

	Remove(ctx context.Context, id domaintypes.DocumentID) error
	RemoveSource(ctx context.Context, source string) (bool, error)
}

// WorkspaceService prepares the on-disk knowledge-base layout.
type WorkspaceService interface {
	Initialize(ctx context.Context) (domaintypes.InitReport, error)
}
