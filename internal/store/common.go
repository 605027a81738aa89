package store

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"ozymandias/internal/apperr"
	"ozymandias/internal/domain"
)

// ErrConflict is the cause of a storage error raised when a document would
// take over the source or digest of another document.
var ErrConflict = errors.New("conflicts with an existing document")

func notFound(id domain.DocumentID) error {
	return apperr.NewNotFoundError(fmt.Sprintf("document %s", id))
}

func conflict(doc domain.Document, other domain.DocumentID, field string) error {
	return apperr.NewStorageError("store", ErrConflict).
		WithDetail("id", doc.ID.String()).
		WithDetail("existing_id", other.String()).
		WithDetail("field", field)
}

// checkConflicts enforces the unique source and digest rule over an
// in-memory document set.
func checkConflicts(docs map[domain.DocumentID]domain.Document, doc domain.Document) error {
	for id, existing := range docs {
		if id == doc.ID {
			continue
		}
		if existing.Source == doc.Source {
			return conflict(doc, id, "source")
		}
		if existing.Digest == doc.Digest {
			return conflict(doc, id, "digest")
		}
	}
	return nil
}

// normalize returns a copy of doc with UTC timestamps.
func normalize(doc domain.Document) domain.Document {
	doc = doc.Clone()
	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	return doc
}

func sortDocuments(docs []domain.Document) {
	slices.SortFunc(docs, func(a, b domain.Document) int {
		if c := cmp.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// filterSorted applies filter to docs and returns sorted copies.
func filterSorted(docs map[domain.DocumentID]domain.Document, filter domain.ListFilter) []domain.Document {
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if filter.Matches(d) {
			out = append(out, d.Clone())
		}
	}
	sortDocuments(out)
	return out
}
