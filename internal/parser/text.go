package parser

import "ozymandias/internal/domain"

// TextParser parses plain text documents.
type TextParser struct{}

// Parse takes the first non-empty line as the title.
func (TextParser) Parse(source string, data []byte) (domain.ParsedData, error) {
	body := string(data)
	title := firstLineTitle(body)
	if title == "" {
		title = stemTitle(source)
	}
	return domain.ParsedData{
		Source: source,
		Format: domain.FormatText,
		Title:  truncateRunes(title, maxTitleRunes),
		Body:   body,
	}, nil
}

// Compile-time assertion that TextParser implements domain.Parser.
var _ domain.Parser = TextParser{}
