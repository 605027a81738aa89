package store

import (
	"context"
	"fmt"

	"ozymandias/internal/apperr"
	"ozymandias/internal/config"
	"ozymandias/internal/domain"
)

// Open returns the document store for backend, rooted at path.
func Open(ctx context.Context, backend, path string) (domain.DocumentStore, error) {
	switch backend {
	case config.BackendSQLite:
		s, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendFile:
		s, err := NewDocumentFileStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, apperr.NewConfigError(fmt.Sprintf("invalid storage backend: %s (valid: %v)", backend, config.ValidBackends))
	}
}
