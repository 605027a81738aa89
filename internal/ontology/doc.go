// Package ontology classifies documents into a keyword taxonomy and scores
// relationships between them.
package ontology
