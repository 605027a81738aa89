package knowledge

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ozymandias/internal/apperr"
	"ozymandias/internal/domain"
	"ozymandias/internal/parser"
)

// minPrefixLength is the shortest id prefix Resolve accepts.
const minPrefixLength = 4

// Options tunes ingestion and queries.
type Options struct {
	Workers      int
	MaxBytes     int64
	Extensions   []string
	RelatedLimit int
}

// Service ingests files into a DocumentStore and answers queries over it.
type Service struct {
	store       domain.DocumentStore
	parsers     *parser.Registry
	transformer domain.Transformer
	ontology    domain.Ontology
	logger      *zap.Logger
	opts        Options

	now   func() time.Time
	newID func() domain.DocumentID

	// mu serialises the dedupe-then-store step so concurrent ingests of
	// identical content cannot both add a record.
	mu sync.Mutex
}

// New returns a knowledge service. A nil logger disables logging.
func New(
	store domain.DocumentStore,
	parsers *parser.Registry,
	transformer domain.Transformer,
	ontology domain.Ontology,
	logger *zap.Logger,
	opts Options,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Service{
		store:       store,
		parsers:     parsers,
		transformer: transformer,
		ontology:    ontology,
		logger:      logger,
		opts:        opts,
		now:         time.Now,
		newID:       func() domain.DocumentID { return domain.DocumentID(uuid.NewString()) },
	}
}

// Get returns the document with id.
func (s *Service) Get(ctx context.Context, id domain.DocumentID) (domain.Document, error) {
	return s.store.Retrieve(ctx, id)
}

// Resolve finds a document by full id or by a unique id prefix of at least
// four characters.
func (s *Service) Resolve(ctx context.Context, ref string) (domain.Document, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Document{}, apperr.NewValidationError("document id is required")
	}

	doc, err := s.store.Retrieve(ctx, domain.DocumentID(ref))
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return domain.Document{}, err
	}
	if len(ref) < minPrefixLength {
		return domain.Document{}, apperr.NewValidationError(
			fmt.Sprintf("id prefix %q is too short (need at least %d characters)", ref, minPrefixLength))
	}

	all, err := s.store.List(ctx, domain.ListFilter{})
	if err != nil {
		return domain.Document{}, err
	}
	var matches []domain.Document
	for _, d := range all {
		if strings.HasPrefix(d.ID.String(), ref) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Document{}, apperr.NewNotFoundError("document").WithDetail("id", ref)
	case 1:
		return matches[0], nil
	default:
		return domain.Document{}, apperr.NewValidationError(
			fmt.Sprintf("id prefix %q is ambiguous (%d matches)", ref, len(matches))).
			WithDetail("matches", len(matches))
	}
}

// List returns the documents matching filter, sorted by title then id.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	return s.store.List(ctx, filter)
}

// Related returns documents related to id, best first. limit <= 0 uses the
// configured default.
func (s *Service) Related(ctx context.Context, id domain.DocumentID, limit int) ([]domain.Relationship, error) {
	doc, err := s.store.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.store.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.opts.RelatedLimit
	}
	return s.ontology.Relate(doc, all, limit), nil
}

// CategoryCounts returns the number of documents per category. Taxonomy
// categories come first in configured order, including empty ones, followed
// by any other stored categories alphabetically.
func (s *Service) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	all, err := s.store.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.Category]int)
	for _, d := range all {
		counts[d.Category]++
	}

	known := s.ontology.Categories()
	out := make([]domain.CategoryCount, 0, len(known)+len(counts))
	for _, c := range known {
		out = append(out, domain.CategoryCount{Category: c, Count: counts[c]})
		delete(counts, c)
	}
	extra := make([]domain.Category, 0, len(counts))
	for c := range counts {
		extra = append(extra, c)
	}
	slices.Sort(extra)
	for _, c := range extra {
		out = append(out, domain.CategoryCount{Category: c, Count: counts[c]})
	}
	return out, nil
}

// Remove deletes the document with id.
func (s *Service) Remove(ctx context.Context, id domain.DocumentID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("document removed", zap.String("id", id.String()))
	return nil
}

// RemoveSource deletes the document ingested from source, reporting whether
// one existed.
func (s *Service) RemoveSource(ctx context.Context, source string) (bool, error) {
	source, err := absPath(source)
	if err != nil {
		return false, err
	}
	doc, ok, err := s.store.FindBySource(ctx, source)
	if err != nil || !ok {
		return false, err
	}
	if err := s.store.Delete(ctx, doc.ID); err != nil {
		return false, err
	}
	s.logger.Info("document removed",
		zap.String("id", doc.ID.String()),
		zap.String("source", source),
	)
	return true, nil
}

// Compile-time assertion that Service implements domain.KnowledgeService.
var _ domain.KnowledgeService = (*Service)(nil)
