package domain

import (
	interfaces "ozymandias/internal/domain/interfaces"
	types "ozymandias/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	DocumentID      = types.DocumentID
	Category        = types.Category
	Digest          = types.Digest
	Format          = types.Format
	Document        = types.Document
	ListFilter      = types.ListFilter
	CategoryCount   = types.CategoryCount
	ParsedData      = types.ParsedData
	TransformedData = types.TransformedData
	Classification  = types.Classification
	RelationReason  = types.RelationReason
	Relationship    = types.Relationship
	IngestStatus    = types.IngestStatus
	IngestResult    = types.IngestResult
	InitReport      = types.InitReport
)

// Constant re-exports.
const (
	FormatMarkdown = types.FormatMarkdown
	FormatText     = types.FormatText
	FormatPDF      = types.FormatPDF

	ReasonSameCategory   = types.ReasonSameCategory
	ReasonSharedKeywords = types.ReasonSharedKeywords
	ReasonSharedTags     = types.ReasonSharedTags

	IngestAdded     = types.IngestAdded
	IngestUpdated   = types.IngestUpdated
	IngestUnchanged = types.IngestUnchanged
	IngestFailed    = types.IngestFailed
)

// UnionTerms merges keyword and tag lists without duplicates, sorted.
func UnionTerms(keywords, tags []string) []string { return types.UnionTerms(keywords, tags) }

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	DocumentStore    = interfaces.DocumentStore
	Parser           = interfaces.Parser
	Transformer      = interfaces.Transformer
	Ontology         = interfaces.Ontology
	KnowledgeService = interfaces.KnowledgeService
	WorkspaceService = interfaces.WorkspaceService
)
