package types

// DocumentID uniquely identifies a stored document.
type DocumentID string

// String returns the string form of the identifier.
func (id DocumentID) String() string { return string(id) }

// Category is a taxonomy bucket a document is classified into.
type Category string

// String returns the string form of the category.
func (c Category) String() string { return string(c) }

// Digest is the hex content hash of a normalised document body.
type Digest string

// String returns the string form of the digest.
func (d Digest) String() string { return string(d) }

// Format is the source file format of a document.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatPDF      Format = "pdf"
)

// String returns the string form of the format.
func (f Format) String() string { return string(f) }
