package transform

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeywordExtractor picks the most frequent meaningful tokens of a text.
type KeywordExtractor struct {
	limit     int
	minLength int
}

// NewKeywordExtractor returns an extractor keeping limit keywords of at least
// minLength runes.
func NewKeywordExtractor(limit, minLength int) *KeywordExtractor {
	return &KeywordExtractor{limit: limit, minLength: minLength}
}

// Extract returns up to limit keywords, sorted alphabetically. Tokens are
// ranked by frequency, ties broken alphabetically.
func (k *KeywordExtractor) Extract(text string) []string {
	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		if utf8.RuneCountInString(tok) < k.minLength || isNumber(tok) || IsStopword(tok) {
			continue
		}
		counts[tok]++
	}

	ranked := make([]string, 0, len(counts))
	for tok := range counts {
		ranked = append(ranked, tok)
	}
	slices.SortFunc(ranked, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(ranked) > k.limit {
		ranked = ranked[:k.limit]
	}
	sortStrings(ranked)
	return ranked
}

// Tokenize lowercases text and splits it on anything that is not a letter or
// digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isNumber(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func sortStrings(s []string) { slices.Sort(s) }

// IsStopword reports whether tok carries no topical meaning.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

var stopwords = func() map[string]struct{} {
	words := strings.Fields(`
		a about above after again against all also am an and any are aren as at
		be because been before being below between both but by can cannot could
		did do does doing don down during each few for from further had has have
		having he her here hers herself him himself his how however if in into is
		isn it its itself just let like may me might more most must my myself no
		nor not now of off on once one only or other ought our ours ourselves out
		over own same shall she should so some such than that the their theirs
		them themselves then there these they this those through to too under
		until up upon us very via was we were what when where which while who
		whom why will with within without would yet you your yours yourself
		yourselves http https www com org net html
	`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
