package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"ozymandias/internal/apperr"
	"ozymandias/internal/domain"
)

// DocumentFileStore persists all documents to a single JSON file.
type DocumentFileStore struct {
	path string
	mu   sync.Mutex
}

// NewDocumentFileStore returns a DocumentFileStore writing to path. The parent
// directory is created if needed.
func NewDocumentFileStore(path string) (*DocumentFileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, apperr.NewStorageError("open", err).WithDetail("path", path)
	}
	return &DocumentFileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *DocumentFileStore) Path() string { return s.path }

// load reads the document map; the caller holds s.mu.
func (s *DocumentFileStore) load() (map[domain.DocumentID]domain.Document, error) {
	m := make(map[domain.DocumentID]domain.Document)
	if err := readJSON(s.path, &m); err != nil {
		return nil, apperr.NewStorageError("read", err).WithDetail("path", s.path)
	}
	return m, nil
}

// save writes the document map; the caller holds s.mu.
func (s *DocumentFileStore) save(m map[domain.DocumentID]domain.Document) error {
	if err := writeJSON(s.path, m, 0o600); err != nil {
		return apperr.NewStorageError("write", err).WithDetail("path", s.path)
	}
	return nil
}

// Store inserts or replaces doc.
func (s *DocumentFileStore) Store(ctx context.Context, doc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	if err := checkConflicts(m, doc); err != nil {
		return err
	}
	m[doc.ID] = normalize(doc)
	return s.save(m)
}

// Retrieve returns the document with id.
func (s *DocumentFileStore) Retrieve(ctx context.Context, id domain.DocumentID) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return domain.Document{}, err
	}
	d, ok := m[id]
	if !ok {
		return domain.Document{}, notFound(id)
	}
	return d, nil
}

// List returns the documents matching filter.
func (s *DocumentFileStore) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return nil, err
	}
	return filterSorted(m, filter), nil
}

// Delete removes the document with id.
func (s *DocumentFileStore) Delete(ctx context.Context, id domain.DocumentID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[id]; !ok {
		return notFound(id)
	}
	delete(m, id)
	return s.save(m)
}

// FindBySource returns the document ingested from source.
func (s *DocumentFileStore) FindBySource(ctx context.Context, source string) (domain.Document, bool, error) {
	return s.find(ctx, func(d domain.Document) bool { return d.Source == source })
}

// FindByDigest returns the document whose body hashes to digest.
func (s *DocumentFileStore) FindByDigest(ctx context.Context, digest domain.Digest) (domain.Document, bool, error) {
	return s.find(ctx, func(d domain.Document) bool { return d.Digest == digest })
}

func (s *DocumentFileStore) find(ctx context.Context, match func(domain.Document) bool) (domain.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return domain.Document{}, false, err
	}
	for _, d := range m {
		if match(d) {
			return d, true, nil
		}
	}
	return domain.Document{}, false, nil
}

// Close is a no-op; every write is already flushed.
func (s *DocumentFileStore) Close() error { return nil }

// Compile-time assertion that DocumentFileStore implements domain.DocumentStore.
var _ domain.DocumentStore = (*DocumentFileStore)(nil)
