package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"ozymandias/internal/apperr"
	"ozymandias/internal/config"
	"ozymandias/internal/domain"
	"ozymandias/internal/ontology"
	"ozymandias/internal/parser"
	"ozymandias/internal/store"
	"ozymandias/internal/transform"
)

func newTestService(t *testing.T) (*Service, *observer.ObservedLogs) {
	t.Helper()
	cfg := config.DefaultConfig()
	core, logs := observer.New(zap.DebugLevel)

	svc := New(
		store.NewMemoryStore(),
		parser.NewRegistry(),
		transform.NewNormalizer(cfg.Keywords.Limit, cfg.Keywords.MinLength),
		ontology.New(cfg.Taxonomy, cfg.Related.MinScore),
		zap.New(core),
		Options{
			Workers:      4,
			MaxBytes:     cfg.Ingest.MaxBytes,
			Extensions:   cfg.Ingest.Extensions,
			RelatedLimit: cfg.Related.Limit,
		},
	)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return svc, logs
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngest_AddUnchangedUpdated(t *testing.T) {
	ctx := context.Background()
	svc, logs := newTestService(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "go.md"),
		"---\ntags: [Go]\n---\n# Go notes\nThe compiler compiles code.\n")

	first, err := svc.Ingest(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestAdded, first.Status)
	assert.Equal(t, "Go notes", first.Document.Title)
	assert.Equal(t, domain.Category("programming"), first.Document.Category)
	assert.Equal(t, []string{"go"}, first.Document.Tags)
	assert.True(t, filepath.IsAbs(first.Document.Source))

	again, err := svc.Ingest(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestUnchanged, again.Status)
	assert.Equal(t, first.Document.ID, again.Document.ID)

	writeFile(t, path, "# Go notes\nThe compiler now compiles more code.\n")
	updated, err := svc.Ingest(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestUpdated, updated.Status)
	assert.Equal(t, first.Document.ID, updated.Document.ID)
	assert.Equal(t, first.Document.CreatedAt, updated.Document.CreatedAt)
	assert.True(t, updated.Document.UpdatedAt.After(first.Document.UpdatedAt))

	stored, err := svc.Get(ctx, first.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, "# Go notes\nThe compiler now compiles more code.", stored.Body)

	assert.Equal(t, 2, logs.FilterMessage("document ingested").Len())
	assert.Equal(t, 1, logs.FilterMessage("document unchanged").Len())
}

func TestIngest_DuplicateContent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.txt"), "Same words\nshared body text\n")
	b := writeFile(t, filepath.Join(dir, "b.txt"), "Same words\r\nshared body text   \n\n")

	ra, err := svc.Ingest(ctx, a)
	require.NoError(t, err)
	rb, err := svc.Ingest(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, domain.IngestUnchanged, rb.Status)
	assert.Equal(t, ra.Document.ID, rb.Document.ID)

	all, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIngest_FrontmatterOnlyEditUpdates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "note.md"),
		"---\ntags: [alpha]\ncategory: research\n---\n# Note\nbody text here\n")

	first, err := svc.Ingest(ctx, path)
	require.NoError(t, err)
	require.Equal(t, domain.IngestAdded, first.Status)

	writeFile(t, path, "---\ntags: [beta]\ncategory: journal\n---\n# Note\nbody text here\n")
	second, err := svc.Ingest(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestUpdated, second.Status)
	assert.Equal(t, first.Document.ID, second.Document.ID)
	assert.Equal(t, first.Document.Digest, second.Document.Digest)

	stored, err := svc.Get(ctx, first.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, stored.Tags)
	assert.Equal(t, domain.Category("journal"), stored.Category)

	writeFile(t, path, "---\ntitle: Renamed\ntags: [beta]\ncategory: journal\n---\n# Note\nbody text here\n")
	third, err := svc.Ingest(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestUpdated, third.Status)
	assert.Equal(t, "Renamed", third.Document.Title)

	again, err := svc.Ingest(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestUnchanged, again.Status)
}

func TestIngest_LongFrontmatterValuesAreCapped(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	title := strings.Repeat("Long title ", 40)
	tag := strings.Repeat("t", 90)
	path := writeFile(t, filepath.Join(t.TempDir(), "long.md"),
		"---\ntitle: "+title+"\ntags: ["+tag+"]\n---\nbody of a long note\n")

	res, err := svc.Ingest(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestAdded, res.Status)
	assert.LessOrEqual(t, len([]rune(res.Document.Title)), 80)
	require.Len(t, res.Document.Tags, 1)
	assert.Len(t, res.Document.Tags[0], 64)
}

func TestIngest_RenamedFileKeepsRecord(t *testing.T) {
	ctx := context.Background()
	svc, logs := newTestService(t)
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.md"), "# Moving\ncontent that moves\n")

	first, err := svc.Ingest(ctx, a)
	require.NoError(t, err)

	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.Rename(a, b))

	moved, err := svc.Ingest(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestUpdated, moved.Status)
	assert.Equal(t, first.Document.ID, moved.Document.ID)
	assert.Equal(t, first.Document.CreatedAt, moved.Document.CreatedAt)
	assert.Equal(t, b, moved.Document.Source)

	removed, err := svc.RemoveSource(ctx, a)
	require.NoError(t, err)
	assert.False(t, removed)

	all, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b, all[0].Source)
	assert.Equal(t, 1, logs.FilterMessage("document moved").Len())
}

func TestIngest_MoveOntoExistingSource(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.md"), "# A\nfirst content\n")
	b := writeFile(t, filepath.Join(dir, "b.md"), "# B\nsecond content\n")

	ra, err := svc.Ingest(ctx, a)
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, b)
	require.NoError(t, err)

	require.NoError(t, os.Rename(a, b))
	rb, err := svc.Ingest(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestUpdated, rb.Status)
	assert.Equal(t, ra.Document.ID, rb.Document.ID)

	all, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b, all[0].Source)
}

func TestIngest_UpdateToDuplicateDropsStaleRecord(t *testing.T) {
	ctx := context.Background()
	svc, logs := newTestService(t)
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.txt"), "alpha content here\n")
	b := writeFile(t, filepath.Join(dir, "b.txt"), "beta content here\n")

	ra, err := svc.Ingest(ctx, a)
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, b)
	require.NoError(t, err)

	writeFile(t, b, "alpha content here\n")
	rb, err := svc.Ingest(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestUnchanged, rb.Status)
	assert.Equal(t, ra.Document.ID, rb.Document.ID)

	all, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, ra.Document.ID, all[0].ID)
	assert.Equal(t, 1, logs.FilterMessage("stale document removed").Len())
}

func TestIngest_Failures(t *testing.T) {
	ctx := context.Background()
	svc, logs := newTestService(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"unsupported extension", writeFile(t, filepath.Join(dir, "data.csv"), "a,b\n")},
		{"empty body", writeFile(t, filepath.Join(dir, "empty.md"), "---\ntitle: Nothing\n---\n\n")},
		{"pdf", writeFile(t, filepath.Join(dir, "paper.pdf"), "%PDF-1.4")},
		{"missing", filepath.Join(dir, "missing.md")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Ingest(ctx, tc.path)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, domain.IngestFailed, res.Status)
			assert.Equal(t, err, res.Err)
		})
	}
	assert.Equal(t, len(tests), logs.FilterMessage("ingest failed").Len())
}

func TestIngestAll_ExpandsDirectoriesInOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\nfirst document\n")
	writeFile(t, filepath.Join(dir, "b.txt"), "B\nsecond document\n")
	writeFile(t, filepath.Join(dir, "empty.md"), "\n")
	writeFile(t, filepath.Join(dir, "e.csv"), "x,y\n")
	writeFile(t, filepath.Join(dir, ".hidden", "d.md"), "# D\nhidden document\n")
	writeFile(t, filepath.Join(dir, "sub", "c.md"), "# C\nthird document\n")
	missing := filepath.Join(dir, "nope.md")

	results, err := svc.IngestAll(ctx, []string{dir, missing, filepath.Join(dir, "a.md")})
	require.NoError(t, err)
	require.Len(t, results, 5)

	var got []string
	for _, r := range results {
		got = append(got, fmt.Sprintf("%s %s", filepath.Base(r.Path), r.Status))
	}
	assert.Equal(t, []string{
		"a.md added",
		"b.txt added",
		"empty.md failed",
		"c.md added",
		"nope.md failed",
	}, got)
	assert.Error(t, results[2].Err)
	assert.Error(t, results[4].Err)

	all, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestIngestAll_ConcurrentDuplicatesAddOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	dir := t.TempDir()
	for i := range 10 {
		writeFile(t, filepath.Join(dir, fmt.Sprintf("copy%02d.txt", i)), "identical\ncontent everywhere\n")
	}

	results, err := svc.IngestAll(ctx, []string{dir})
	require.NoError(t, err)
	require.Len(t, results, 10)

	counts := map[domain.IngestStatus]int{}
	for _, r := range results {
		require.NoError(t, r.Err)
		counts[r.Status]++
	}
	assert.Equal(t, 1, counts[domain.IngestAdded])
	assert.Equal(t, 9, counts[domain.IngestUnchanged])
}

func TestIngestAll_NoFiles(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.IngestAll(context.Background(), []string{t.TempDir()})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestIngestAll_CanceledContext(t *testing.T) {
	svc, _ := newTestService(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\nbody\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := svc.IngestAll(ctx, []string{dir})
	require.Error(t, err)
	assert.Equal(t, apperr.KindCommand, apperr.KindOf(err))
	require.Len(t, results, 1)
	assert.Equal(t, domain.IngestFailed, results[0].Status)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	ids := []domain.DocumentID{
		"aaaa1111-0000-4000-8000-000000000001",
		"aaaa2222-0000-4000-8000-000000000002",
	}
	next := 0
	svc.newID = func() domain.DocumentID {
		id := ids[next]
		next++
		return id
	}
	dir := t.TempDir()
	_, err := svc.Ingest(ctx, writeFile(t, filepath.Join(dir, "one.md"), "# One\nfirst body\n"))
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, writeFile(t, filepath.Join(dir, "two.md"), "# Two\nsecond body\n"))
	require.NoError(t, err)

	doc, err := svc.Resolve(ctx, ids[1].String())
	require.NoError(t, err)
	assert.Equal(t, "Two", doc.Title)

	doc, err = svc.Resolve(ctx, "aaaa1")
	require.NoError(t, err)
	assert.Equal(t, ids[0], doc.ID)

	_, err = svc.Resolve(ctx, "aaa")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Resolve(ctx, "aaaa")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Resolve(ctx, "ffff")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Resolve(ctx, "  ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRelatedAndCategoryCounts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	dir := t.TempDir()

	rust, err := svc.Ingest(ctx, writeFile(t, filepath.Join(dir, "rust.txt"),
		"Rust compiler notes\ncompiler code rust function\n"))
	require.NoError(t, err)
	golang, err := svc.Ingest(ctx, writeFile(t, filepath.Join(dir, "go.txt"),
		"Go compiler notes\ncompiler code golang library\n"))
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, writeFile(t, filepath.Join(dir, "trip.md"),
		"---\ncategory: Travel\n---\n# Trip\nLisbon beaches sunshine\n"))
	require.NoError(t, err)

	rels, err := svc.Related(ctx, rust.Document.ID, 0)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, golang.Document.ID, rels[0].Target)
	assert.Equal(t, []domain.RelationReason{domain.ReasonSameCategory, domain.ReasonSharedKeywords}, rels[0].Reasons)
	assert.Equal(t, []string{"code", "compiler", "notes"}, rels[0].Shared)
	assert.InDelta(t, 3.0/7.0+0.2, rels[0].Score, 1e-9)

	counts, err := svc.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryCount{
		{Category: "programming", Count: 2},
		{Category: "research", Count: 0},
		{Category: "journal", Count: 0},
		{Category: "meeting", Count: 0},
		{Category: "reading", Count: 0},
		{Category: "uncategorized", Count: 0},
		{Category: "travel", Count: 1},
	}, counts)

	_, err = svc.Related(ctx, "missing", 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "note.md"), "# Note\nsomething to forget\n")

	res, err := svc.Ingest(ctx, path)
	require.NoError(t, err)

	removed, err := svc.RemoveSource(ctx, path)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveSource(ctx, path)
	require.NoError(t, err)
	assert.False(t, removed)

	err = svc.Remove(ctx, res.Document.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
