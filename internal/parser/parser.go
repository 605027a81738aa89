package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"ozymandias/internal/apperr"
	"ozymandias/internal/domain"
)

// maxTitleRunes caps titles derived from body text.
const maxTitleRunes = 80

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (domain.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return domain.FormatMarkdown, nil
	case ".txt", ".text":
		return domain.FormatText, nil
	case ".pdf":
		return domain.FormatPDF, nil
	default:
		return "", apperr.NewValidationError(fmt.Sprintf("unsupported file type %q", filepath.Ext(path))).
			WithDetail("path", path)
	}
}

// Registry dispatches to a Parser by detected format.
type Registry struct {
	parsers map[domain.Format]domain.Parser
}

// NewRegistry returns a Registry with the markdown and text parsers.
func NewRegistry() *Registry {
	return &Registry{parsers: map[domain.Format]domain.Parser{
		domain.FormatMarkdown: MarkdownParser{},
		domain.FormatText:     TextParser{},
	}}
}

// Parse detects the format of source and parses data with the matching parser.
func (r *Registry) Parse(source string, data []byte) (domain.ParsedData, error) {
	format, err := DetectFormat(source)
	if err != nil {
		return domain.ParsedData{}, err
	}
	p, ok := r.parsers[format]
	if !ok {
		return domain.ParsedData{}, apperr.NewValidationError(fmt.Sprintf("%s files are not supported yet", format)).
			WithDetail("path", source)
	}
	if !utf8.Valid(data) {
		return domain.ParsedData{}, apperr.NewValidationError("file is not valid UTF-8").
			WithDetail("path", source)
	}
	return p.Parse(source, data)
}

// Supports reports whether path has a format the registry can parse.
func (r *Registry) Supports(path string) bool {
	format, err := DetectFormat(path)
	if err != nil {
		return false
	}
	_, ok := r.parsers[format]
	return ok
}

// ReadFile reads path, refusing files larger than maxBytes.
func ReadFile(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.NewValidationError(fmt.Sprintf("file %s does not exist", path))
		}
		return nil, apperr.NewCommandError("failed to open file").WithCause(err).WithDetail("path", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, apperr.NewCommandError("failed to stat file").WithCause(err).WithDetail("path", path)
	}
	if info.IsDir() {
		return nil, apperr.NewValidationError(fmt.Sprintf("%s is a directory", path))
	}

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, apperr.NewCommandError("failed to read file").WithCause(err).WithDetail("path", path)
	}
	if int64(len(data)) > maxBytes {
		return nil, apperr.NewValidationError(fmt.Sprintf("file %s exceeds %d bytes", path, maxBytes)).
			WithDetail("max_bytes", maxBytes)
	}
	return data, nil
}

// firstLineTitle returns the first non-empty line, truncated.
func firstLineTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return truncateRunes(line, maxTitleRunes)
		}
	}
	return ""
}

// stemTitle derives a title from the file name.
func stemTitle(source string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return strings.TrimSpace(stem)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

// Compile-time assertion that Registry implements domain.Parser.
var _ domain.Parser = (*Registry)(nil)
