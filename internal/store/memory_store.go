package store

import (
	"context"
	"sync"

	"ozymandias/internal/domain"
)

// MemoryStore keeps documents in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[domain.DocumentID]domain.Document
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[domain.DocumentID]domain.Document)}
}

// Store inserts or replaces doc.
func (s *MemoryStore) Store(ctx context.Context, doc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkConflicts(s.docs, doc); err != nil {
		return err
	}
	s.docs[doc.ID] = normalize(doc)
	return nil
}

// Retrieve returns the document with id.
func (s *MemoryStore) Retrieve(ctx context.Context, id domain.DocumentID) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[id]
	if !ok {
		return domain.Document{}, notFound(id)
	}
	return d.Clone(), nil
}

// List returns the documents matching filter.
func (s *MemoryStore) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filterSorted(s.docs, filter), nil
}

// Delete removes the document with id.
func (s *MemoryStore) Delete(ctx context.Context, id domain.DocumentID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return notFound(id)
	}
	delete(s.docs, id)
	return nil
}

// FindBySource returns the document ingested from source.
func (s *MemoryStore) FindBySource(ctx context.Context, source string) (domain.Document, bool, error) {
	return s.find(ctx, func(d domain.Document) bool { return d.Source == source })
}

// FindByDigest returns the document whose body hashes to digest.
func (s *MemoryStore) FindByDigest(ctx context.Context, digest domain.Digest) (domain.Document, bool, error) {
	return s.find(ctx, func(d domain.Document) bool { return d.Digest == digest })
}

func (s *MemoryStore) find(ctx context.Context, match func(domain.Document) bool) (domain.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.docs {
		if match(d) {
			return d.Clone(), true, nil
		}
	}
	return domain.Document{}, false, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// Compile-time assertion that MemoryStore implements domain.DocumentStore.
var _ domain.DocumentStore = (*MemoryStore)(nil)
