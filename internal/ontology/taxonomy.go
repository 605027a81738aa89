package ontology

import (
	"cmp"
	"slices"
	"strings"

	"ozymandias/internal/config"
	"ozymandias/internal/domain"
)

// categoryBonus is added to the relationship score of two documents sharing
// a non-default category.
const categoryBonus = 0.2

type category struct {
	name     domain.Category
	keywords map[string]struct{}
}

// Taxonomy is a keyword-driven domain.Ontology.
type Taxonomy struct {
	def        domain.Category
	categories []category
	minScore   float64
}

// New builds a Taxonomy from cfg. Relationships scoring below minScore are
// discarded by Relate.
func New(cfg config.TaxonomyConfig, minScore float64) *Taxonomy {
	t := &Taxonomy{
		def:      domain.Category(strings.ToLower(strings.TrimSpace(cfg.Default))),
		minScore: minScore,
	}
	for _, c := range cfg.Categories {
		kw := make(map[string]struct{}, len(c.Keywords))
		for _, k := range c.Keywords {
			kw[strings.ToLower(strings.TrimSpace(k))] = struct{}{}
		}
		t.categories = append(t.categories, category{
			name:     domain.Category(strings.ToLower(strings.TrimSpace(c.Name))),
			keywords: kw,
		})
	}
	return t
}

// Classify picks the category whose keywords best cover the document terms.
// An explicit category always wins.
func (t *Taxonomy) Classify(in domain.TransformedData) (domain.Classification, error) {
	if in.Category != "" {
		return domain.Classification{Category: in.Category, Score: 1, Explicit: true}, nil
	}

	terms := in.Terms()
	best := domain.Classification{Category: t.def}
	if len(terms) == 0 {
		return best, nil
	}
	for _, c := range t.categories {
		hits := 0
		for _, term := range terms {
			if _, ok := c.keywords[term]; ok {
				hits++
			}
		}
		score := float64(hits) / float64(len(terms))
		if score > best.Score {
			best = domain.Classification{Category: c.name, Score: score}
		}
	}
	return best, nil
}

// Relate scores candidates against doc and returns the best matches, highest
// score first. limit <= 0 means no limit.
func (t *Taxonomy) Relate(doc domain.Document, candidates []domain.Document, limit int) []domain.Relationship {
	terms := doc.Terms()
	out := make([]domain.Relationship, 0)
	for _, c := range candidates {
		if c.ID == doc.ID {
			continue
		}
		rel, ok := t.score(doc, terms, c)
		if !ok {
			continue
		}
		out = append(out, rel)
	}

	slices.SortFunc(out, func(a, b domain.Relationship) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return cmp.Compare(a.Target, b.Target)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (t *Taxonomy) score(doc domain.Document, terms []string, c domain.Document) (domain.Relationship, bool) {
	other := c.Terms()
	shared := intersect(terms, other)
	union := len(terms) + len(other) - len(shared)

	var score float64
	if union > 0 {
		score = float64(len(shared)) / float64(union)
	}

	var reasons []domain.RelationReason
	if doc.Category != "" && doc.Category == c.Category && doc.Category != t.def {
		score += categoryBonus
		reasons = append(reasons, domain.ReasonSameCategory)
	}
	if len(intersect(doc.Keywords, c.Keywords)) > 0 {
		reasons = append(reasons, domain.ReasonSharedKeywords)
	}
	if len(intersect(doc.Tags, c.Tags)) > 0 {
		reasons = append(reasons, domain.ReasonSharedTags)
	}
	score = min(score, 1)

	if score == 0 || score < t.minScore {
		return domain.Relationship{}, false
	}
	return domain.Relationship{
		Target:   c.ID,
		Title:    c.Title,
		Category: c.Category,
		Score:    score,
		Reasons:  reasons,
		Shared:   shared,
	}, true
}

// Categories returns the configured category names, default last.
func (t *Taxonomy) Categories() []domain.Category {
	out := make([]domain.Category, 0, len(t.categories)+1)
	for _, c := range t.categories {
		out = append(out, c.name)
	}
	if !slices.Contains(out, t.def) {
		out = append(out, t.def)
	}
	return out
}

// DefaultCategory returns the fallback category.
func (t *Taxonomy) DefaultCategory() domain.Category { return t.def }

// intersect returns the sorted common elements of a and b.
func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	out := make([]string, 0)
	for _, s := range a {
		if _, ok := set[s]; ok {
			out = append(out, s)
			delete(set, s)
		}
	}
	slices.Sort(out)
	return out
}

// Compile-time assertion that Taxonomy implements domain.Ontology.
var _ domain.Ontology = (*Taxonomy)(nil)
