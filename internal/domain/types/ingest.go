package types

// IngestStatus describes what Ingest did with a file.
type IngestStatus string

const (
	IngestAdded     IngestStatus = "added"
	IngestUpdated   IngestStatus = "updated"
	IngestUnchanged IngestStatus = "unchanged"
	IngestFailed    IngestStatus = "failed"
)

// String returns the string form of the status.
func (s IngestStatus) String() string { return string(s) }

// IngestResult reports the outcome for a single file.
type IngestResult struct {
	Path     string       `json:"path"`
	Status   IngestStatus `json:"status"`
	Document Document     `json:"document"`
	Err      error        `json:"-"`
}

// InitReport describes what workspace initialisation created.
type InitReport struct {
	Home          string
	ConfigPath    string
	Backend       string
	StoragePath   string
	CreatedHome   bool
	CreatedConfig bool
}
