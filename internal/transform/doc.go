// Package transform normalises parsed documents and extracts keywords.
package transform
