package interfaces

import domaintypes "ozymandias/internal/domain/types"

// Parser turns raw file bytes into ParsedData.
type Parser interface {
	Parse(source string, data []byte) (domaintypes.ParsedData, error)
}

// Transformer normalises parsed data and extracts keywords.
type Transformer interface {
	Transform(in domaintypes.ParsedData) (domaintypes.TransformedData, error)
}

// Ontology classifies documents and finds relationships between them.
type Ontology interface {
	Classify(in domaintypes.TransformedData) (domaintypes.Classification, error)
	Relate(
		doc domaintypes.Document,
		candidates []domaintypes.Document,
		limit int,
	) []domaintypes.Relationship
	Categories() []domaintypes.Category
	DefaultCategory() domaintypes.Category
}
