package types

// ParsedData is the output of a Parser: raw text plus metadata.
type ParsedData struct {
	Source string
	Format Format
	Title  string
	Body   string
	Tags   []string
	// Category is set when the source names one explicitly (markdown frontmatter).
	Category Category
}

// TransformedData is normalised, keyword-annotated parser output.
type TransformedData struct {
	Source   string
	Format   Format
	Title    string
	Body     string
	Tags     []string
	Category Category
	Keywords []string
	Digest   Digest
}

// Terms returns the union of keywords and tags.
func (t TransformedData) Terms() []string {
	return UnionTerms(t.Keywords, t.Tags)
}

// Classification is the ontology's verdict for one document.
type Classification struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
	Explicit bool     `json:"explicit"`
}

// RelationReason explains why two documents are related.
type RelationReason string

const (
	ReasonSameCategory   RelationReason = "same_category"
	ReasonSharedKeywords RelationReason = "shared_keywords"
	ReasonSharedTags     RelationReason = "shared_tags"
)

// Relationship links a document to a related one.
type Relationship struct {
	Target   DocumentID       `json:"target"`
	Title    string           `json:"title"`
	Category Category         `json:"category"`
	Score    float64          `json:"score"`
	Reasons  []RelationReason `json:"reasons"`
	Shared   []string         `json:"shared"`
}
