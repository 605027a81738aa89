// Package parser turns source files into domain.ParsedData.
//
// Formats are chosen by file extension. Markdown files may start with a YAML
// frontmatter block carrying title, tags and category; the title otherwise
// falls back to the first heading, the first line, then the file name. PDF
// files are recognised but not supported.
package parser
