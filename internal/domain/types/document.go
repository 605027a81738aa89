package types

import (
	"slices"
	"time"
)

// Document is a stored unit of knowledge.
type Document struct {
	ID        DocumentID `json:"id" validate:"required"`
	Title     string     `json:"title" validate:"required,max=255"`
	Source    string     `json:"source" validate:"required"`
	Format    Format     `json:"format" validate:"required,oneof=markdown text"`
	Body      string     `json:"body" validate:"required"`
	Keywords  []string   `json:"keywords" validate:"dive,required"`
	Tags      []string   `json:"tags" validate:"dive,required,max=64"`
	Category  Category   `json:"category" validate:"required"`
	Digest    Digest     `json:"digest" validate:"required,hexadecimal,len=64"`
	CreatedAt time.Time  `json:"created_at" validate:"required"`
	UpdatedAt time.Time  `json:"updated_at" validate:"required,gtefield=CreatedAt"`
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	d.Keywords = slices.Clone(d.Keywords)
	d.Tags = slices.Clone(d.Tags)
	return d
}

// HasTag reports whether d carries tag.
func (d Document) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// Terms returns the union of keywords and tags, used for matching.
func (d Document) Terms() []string {
	return UnionTerms(d.Keywords, d.Tags)
}

// UnionTerms merges keyword and tag lists without duplicates, sorted.
func UnionTerms(keywords, tags []string) []string {
	out := make([]string, 0, len(keywords)+len(tags))
	out = append(out, keywords...)
	out = append(out, tags...)
	slices.Sort(out)
	return slices.Compact(out)
}

// ListFilter narrows a document listing. Empty fields match everything.
type ListFilter struct {
	Category Category
	Tag      string
}

// Matches reports whether d passes the filter.
func (f ListFilter) Matches(d Document) bool {
	if f.Category != "" && d.Category != f.Category {
		return false
	}
	if f.Tag != "" && !d.HasTag(f.Tag) {
		return false
	}
	return true
}

// CategoryCount is the number of documents in a category.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}
