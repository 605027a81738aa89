package transform

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"ozymandias/internal/apperr"
	"ozymandias/internal/crypto"
	"ozymandias/internal/domain"
)

// maxTagRunes caps the length of a single tag.
const maxTagRunes = 64

// Normalizer is the default domain.Transformer.
type Normalizer struct {
	keywords *KeywordExtractor
}

// NewNormalizer returns a Normalizer that keeps up to keywordLimit keywords of
// at least minLength runes.
func NewNormalizer(keywordLimit, minLength int) *Normalizer {
	return &Normalizer{keywords: NewKeywordExtractor(keywordLimit, minLength)}
}

// Transform normalises text and tags, extracts keywords and computes the
// content digest.
func (n *Normalizer) Transform(in domain.ParsedData) (domain.TransformedData, error) {
	body := NormalizeBody(in.Body)
	if body == "" {
		return domain.TransformedData{}, apperr.NewValidationError("document is empty").
			WithDetail("path", in.Source)
	}
	title := NormalizeTitle(in.Title)
	if title == "" {
		title = in.Source
	}

	return domain.TransformedData{
		Source:   in.Source,
		Format:   in.Format,
		Title:    title,
		Body:     body,
		Tags:     NormalizeTags(in.Tags),
		Category: domain.Category(strings.ToLower(strings.TrimSpace(in.Category.String()))),
		Keywords: n.keywords.Extract(title + "\n" + body),
		Digest:   domain.Digest(crypto.Digest([]byte(body))),
	}, nil
}

// NormalizeBody applies NFC, unifies line endings, strips trailing
// whitespace, collapses blank-line runs and trims the result.
func NormalizeBody(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// NormalizeTitle applies NFC and collapses internal whitespace.
func NormalizeTitle(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// NormalizeTags lowercases, trims, hyphenates, caps at 64 runes and dedupes
// tags, sorted.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(t))), "-")
		t = strings.TrimPrefix(t, "#")
		if r := []rune(t); len(r) > maxTagRunes {
			t = strings.TrimRight(string(r[:maxTagRunes]), "-")
		}
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sortStrings(out)
	return out
}

// Compile-time assertion that Normalizer implements domain.Transformer.
var _ domain.Transformer = (*Normalizer)(nil)
