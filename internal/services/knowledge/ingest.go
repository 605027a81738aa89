package knowledge

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ozymandias/internal/apperr"
	"ozymandias/internal/crypto"
	"ozymandias/internal/domain"
	"ozymandias/internal/parser"
)

// Ingest reads, parses, normalises, classifies and stores a single file.
//
// Content is deduplicated: re-ingesting an unchanged file, or a file whose
// content is already stored under another source, reports IngestUnchanged
// with the existing record. A changed file keeps its id and CreatedAt, and so
// does content whose previous file no longer exists: that record moves to the
// new source and reports IngestUpdated.
func (s *Service) Ingest(ctx context.Context, path string) (domain.IngestResult, error) {
	res := domain.IngestResult{Path: path, Status: domain.IngestFailed}
	fail := func(err error) (domain.IngestResult, error) {
		res.Err = err
		s.logger.Warn("ingest failed", zap.String("path", path), zap.Error(err))
		return res, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	source, err := absPath(path)
	if err != nil {
		return fail(err)
	}
	data, err := parser.ReadFile(source, s.opts.MaxBytes)
	if err != nil {
		return fail(err)
	}
	parsed, err := s.parsers.Parse(source, data)
	if err != nil {
		return fail(err)
	}
	td, err := s.transformer.Transform(parsed)
	if err != nil {
		return fail(err)
	}
	class, err := s.ontology.Classify(td)
	if err != nil {
		return fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, found, err := s.store.FindBySource(ctx, source)
	if err != nil {
		return fail(err)
	}
	if found && sameContent(existing, td, class) {
		return s.unchanged(res, existing), nil
	}

	// base is the record this ingest rewrites, if any.
	base, status := existing, domain.IngestUpdated
	if !found {
		status = domain.IngestAdded
	}

	dup, dupFound, err := s.store.FindByDigest(ctx, td.Digest)
	if err != nil {
		return fail(err)
	}
	if dupFound && (!found || dup.ID != existing.ID) {
		if found {
			// The source now duplicates another record, so its own
			// record is stale.
			if err := s.store.Delete(ctx, existing.ID); err != nil {
				return fail(err)
			}
			s.logger.Info("stale document removed",
				zap.String("id", existing.ID.String()),
				zap.String("duplicate_of", dup.ID.String()),
			)
		}
		if !movedAway(dup.Source) {
			return s.unchanged(res, dup), nil
		}
		// The duplicate's file is gone: the content moved here.
		s.logger.Info("document moved",
			zap.String("id", dup.ID.String()),
			zap.String("from", dup.Source),
			zap.String("to", source),
		)
		base, found, status = dup, true, domain.IngestUpdated
	}

	now := s.now().UTC()
	doc := domain.Document{
		ID:        s.newID(),
		Title:     td.Title,
		Source:    source,
		Format:    td.Format,
		Body:      td.Body,
		Keywords:  td.Keywords,
		Tags:      td.Tags,
		Category:  class.Category,
		Digest:    td.Digest,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if found {
		doc.ID = base.ID
		doc.CreatedAt = base.CreatedAt
	}

	if err := validateDocument(doc); err != nil {
		return fail(err)
	}
	if err := s.store.Store(ctx, doc); err != nil {
		return fail(err)
	}

	res.Status = status
	res.Document = doc
	s.logger.Info("document ingested",
		zap.String("status", status.String()),
		zap.String("id", doc.ID.String()),
		zap.String("category", doc.Category.String()),
		zap.Float64("score", class.Score),
		zap.String("digest", crypto.Fingerprint(doc.Digest.String())),
	)
	return res, nil
}

// sameContent reports whether doc already holds what td and class describe.
// Frontmatter edits leave the body digest alone, so the metadata is compared
// too.
func sameContent(doc domain.Document, td domain.TransformedData, class domain.Classification) bool {
	return doc.Digest == td.Digest &&
		doc.Title == td.Title &&
		doc.Category == class.Category &&
		slices.Equal(doc.Tags, td.Tags)
}

// movedAway reports whether the file at source no longer exists.
func movedAway(source string) bool {
	_, err := os.Stat(source)
	return errors.Is(err, fs.ErrNotExist)
}

func (s *Service) unchanged(res domain.IngestResult, doc domain.Document) domain.IngestResult {
	res.Status = domain.IngestUnchanged
	res.Document = doc
	s.logger.Debug("document unchanged",
		zap.String("path", res.Path),
		zap.String("id", doc.ID.String()),
	)
	return res
}

// IngestAll expands directories in paths and ingests every file with at most
// Options.Workers files in flight. Results follow the expanded input order.
// A failing file is reported in its result and does not stop the others; the
// returned error is only set when the batch itself could not run.
func (s *Service) IngestAll(ctx context.Context, paths []string) ([]domain.IngestResult, error) {
	files, err := s.expand(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperr.NewValidationError("no supported files found")
	}

	results := make([]domain.IngestResult, len(files))
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, f := range files {
		g.Go(func() error {
			results[i], _ = s.Ingest(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, apperr.NewCommandError("ingest interrupted").WithCause(err)
	}
	return results, nil
}

// expand replaces directories with the supported files beneath them, in
// lexical order, and drops repeated paths. Hidden directories are skipped.
// Other paths are kept as given so Ingest can report why they fail.
func (s *Service) expand(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(p string) {
		key := p
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if s.Accepts(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, apperr.NewCommandError("failed to walk directory").
				WithCause(err).WithDetail("path", p)
		}
	}
	return out, nil
}

// Accepts reports whether path has a configured extension that a parser
// supports.
func (s *Service) Accepts(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(s.opts.Extensions, ext) {
		return false
	}
	return s.parsers.Supports(path)
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", apperr.NewValidationError("invalid path").WithCause(err).WithDetail("path", path)
	}
	return filepath.Clean(abs), nil
}
