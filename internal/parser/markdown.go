package parser

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"ozymandias/internal/apperr"
	"ozymandias/internal/domain"
)

// frontMatter is the optional YAML block at the top of a markdown file.
type frontMatter struct {
	Title    string   `yaml:"title"`
	Tags     []string `yaml:"tags"`
	Category string   `yaml:"category"`
}

// MarkdownParser parses markdown documents.
type MarkdownParser struct{}

// Parse extracts frontmatter, title and body from a markdown file.
func (MarkdownParser) Parse(source string, data []byte) (domain.ParsedData, error) {
	fm, body, err := splitFrontMatter(data)
	if err != nil {
		return domain.ParsedData{}, apperr.NewValidationError("malformed frontmatter").
			WithCause(err).WithDetail("path", source)
	}

	text := string(body)
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = headingTitle(text)
	}
	if title == "" {
		title = firstLineTitle(text)
	}
	if title == "" {
		title = stemTitle(source)
	}

	return domain.ParsedData{
		Source:   source,
		Format:   domain.FormatMarkdown,
		Title:    truncateRunes(title, maxTitleRunes),
		Body:     text,
		Tags:     fm.Tags,
		Category: domain.Category(strings.TrimSpace(fm.Category)),
	}, nil
}

// splitFrontMatter separates a leading `---` YAML block from the body. A file
// without one has an empty frontMatter.
func splitFrontMatter(content []byte) (frontMatter, []byte, error) {
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	normalized = bytes.TrimPrefix(normalized, []byte("\ufeff"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return frontMatter{}, normalized, nil
	}
	rest := normalized[4:]

	var meta, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---\n")):
		body = rest[4:]
	case bytes.Equal(rest, []byte("---")):
	default:
		parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
		if len(parts) < 2 {
			if !bytes.HasSuffix(rest, []byte("\n---")) {
				return frontMatter{}, nil, fmt.Errorf("unterminated frontmatter")
			}
			parts = [][]byte{bytes.TrimSuffix(rest, []byte("\n---")), nil}
		}
		meta, body = parts[0], parts[1]
	}

	var fm frontMatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return frontMatter{}, nil, err
	}
	return fm, body, nil
}

// headingTitle returns the text of the first ATX heading.
func headingTitle(body string) string {
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || !strings.HasPrefix(trimmed, "#") {
			continue
		}
		text := strings.TrimLeft(trimmed, "#")
		if len(trimmed)-len(text) > 6 || (text != "" && text[0] != ' ' && text[0] != '\t') {
			continue
		}
		text = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), "#"))
		if text != "" {
			return truncateRunes(text, maxTitleRunes)
		}
	}
	return ""
}

// Compile-time assertion that MarkdownParser implements domain.Parser.
var _ domain.Parser = MarkdownParser{}
