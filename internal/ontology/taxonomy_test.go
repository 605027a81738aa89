package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozymandias/internal/config"
	"ozymandias/internal/domain"
)

func testTaxonomy(minScore float64) *Taxonomy {
	return New(config.TaxonomyConfig{
		Default: "Uncategorized",
		Categories: []config.CategoryConfig{
			{Name: "Programming", Keywords: []string{"code", "compiler", "rust"}},
			{Name: "cooking", Keywords: []string{"recipe", "oven", "code"}},
		},
	}, minScore)
}

func TestClassify(t *testing.T) {
	tax := testTaxonomy(0)

	tests := []struct {
		name     string
		in       domain.TransformedData
		want     domain.Category
		score    float64
		explicit bool
	}{
		{
			name:     "explicit wins",
			in:       domain.TransformedData{Category: "journal", Keywords: []string{"rust"}},
			want:     "journal",
			score:    1,
			explicit: true,
		},
		{
			name:  "best coverage",
			in:    domain.TransformedData{Keywords: []string{"compiler", "rust", "oven", "notes"}},
			want:  "programming",
			score: 0.5,
		},
		{
			name:  "tags count as terms",
			in:    domain.TransformedData{Keywords: []string{"bread"}, Tags: []string{"recipe"}},
			want:  "cooking",
			score: 0.5,
		},
		{
			name:  "tie goes to first listed",
			in:    domain.TransformedData{Keywords: []string{"code", "misc"}},
			want:  "programming",
			score: 0.5,
		},
		{
			name: "no match falls back to default",
			in:   domain.TransformedData{Keywords: []string{"garden"}},
			want: "uncategorized",
		},
		{
			name: "no terms",
			in:   domain.TransformedData{},
			want: "uncategorized",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tax.Classify(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Category)
			assert.InDelta(t, tc.score, got.Score, 1e-9)
			assert.Equal(t, tc.explicit, got.Explicit)
		})
	}
}

func TestRelate(t *testing.T) {
	tax := testTaxonomy(0.1)

	doc := domain.Document{ID: "a", Title: "A", Category: "programming",
		Keywords: []string{"compiler", "rust"}, Tags: []string{"lang"}}
	candidates := []domain.Document{
		doc,
		{ID: "b", Title: "B", Category: "programming", Keywords: []string{"compiler", "rust"}, Tags: []string{"lang"}},
		{ID: "c", Title: "C", Category: "uncategorized", Keywords: []string{"rust", "garden"}},
		{ID: "d", Title: "D", Category: "cooking", Keywords: []string{"oven"}},
		{ID: "e", Title: "E", Category: "programming", Keywords: []string{"python"}},
	}

	got := tax.Relate(doc, candidates, 10)
	require.Len(t, got, 3)

	assert.Equal(t, domain.DocumentID("b"), got[0].Target)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
	assert.Equal(t, []domain.RelationReason{
		domain.ReasonSameCategory, domain.ReasonSharedKeywords, domain.ReasonSharedTags,
	}, got[0].Reasons)
	assert.Equal(t, []string{"compiler", "lang", "rust"}, got[0].Shared)

	// c: 1 shared of 4 terms; e: only the category bonus.
	assert.Equal(t, domain.DocumentID("c"), got[1].Target)
	assert.InDelta(t, 0.25, got[1].Score, 1e-9)
	assert.Equal(t, []domain.RelationReason{domain.ReasonSharedKeywords}, got[1].Reasons)

	assert.Equal(t, domain.DocumentID("e"), got[2].Target)
	assert.InDelta(t, 0.2, got[2].Score, 1e-9)
	assert.Empty(t, got[2].Shared)
}

func TestRelate_TiesAndLimit(t *testing.T) {
	tax := testTaxonomy(0)

	doc := domain.Document{ID: "x", Category: "uncategorized", Keywords: []string{"alpha"}}
	candidates := []domain.Document{
		{ID: "3", Title: "Zed", Keywords: []string{"alpha"}},
		{ID: "2", Title: "Abe", Keywords: []string{"alpha"}},
		{ID: "1", Title: "Abe", Keywords: []string{"alpha"}},
		{ID: "4", Title: "Nope", Keywords: []string{"beta"}},
	}

	got := tax.Relate(doc, candidates, 2)
	require.Len(t, got, 2)
	assert.Equal(t, domain.DocumentID("1"), got[0].Target)
	assert.Equal(t, domain.DocumentID("2"), got[1].Target)
}

func TestRelate_MinScore(t *testing.T) {
	tax := testTaxonomy(0.5)

	doc := domain.Document{ID: "x", Keywords: []string{"a1", "a2", "a3"}}
	got := tax.Relate(doc, []domain.Document{{ID: "y", Keywords: []string{"a1", "b1"}}}, 0)
	assert.Empty(t, got)
}

func TestCategories(t *testing.T) {
	tax := testTaxonomy(0)
	assert.Equal(t, []domain.Category{"programming", "cooking", "uncategorized"}, tax.Categories())
	assert.Equal(t, domain.Category("uncategorized"), tax.DefaultCategory())
}
