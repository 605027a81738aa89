package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"ozymandias/internal/apperr"
	"ozymandias/internal/domain"
)

// sqliteDSNParams enables WAL and waits on locks instead of failing.
const sqliteDSNParams = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		source        TEXT NOT NULL,
		format        TEXT NOT NULL,
		body          TEXT NOT NULL,
		keywords_json TEXT NOT NULL DEFAULT '[]',
		tags_json     TEXT NOT NULL DEFAULT '[]',
		category      TEXT NOT NULL,
		digest        TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_source ON documents(source)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_digest ON documents(digest)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category)`,
}

const documentColumns = `id, title, source, format, body, keywords_json, tags_json, category, digest, created_at, updated_at`

// SQLiteStore keeps documents in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, apperr.NewStorageError("open", err).WithDetail("path", path)
	}

	db, err := sql.Open("sqlite", path+sqliteDSNParams)
	if err != nil {
		return nil, apperr.NewStorageError("open", err).WithDetail("path", path)
	}
	// A single connection serialises writers without SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperr.NewStorageError("init schema", err)
		}
	}
	return nil
}

// Store inserts or replaces doc.
func (s *SQLiteStore) Store(ctx context.Context, doc domain.Document) error {
	doc = normalize(doc)
	keywords, err := encodeTerms(doc.Keywords)
	if err != nil {
		return apperr.NewStorageError("store", err)
	}
	tags, err := encodeTerms(doc.Tags)
	if err != nil {
		return apperr.NewStorageError("store", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.NewStorageError("store", err)
	}
	defer func() { _ = tx.Rollback() }()

	var otherID, otherSource string
	err = tx.QueryRowContext(ctx,
		`SELECT id, source FROM documents WHERE id <> ? AND (source = ? OR digest = ?) LIMIT 1`,
		doc.ID.String(), doc.Source, doc.Digest.String(),
	).Scan(&otherID, &otherSource)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return apperr.NewStorageError("store", err)
	default:
		field := "digest"
		if otherSource == doc.Source {
			field = "source"
		}
		return conflict(doc, domain.DocumentID(otherID), field)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			source = excluded.source,
			format = excluded.format,
			body = excluded.body,
			keywords_json = excluded.keywords_json,
			tags_json = excluded.tags_json,
			category = excluded.category,
			digest = excluded.digest,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		doc.ID.String(), doc.Title, doc.Source, doc.Format.String(), doc.Body,
		keywords, tags, doc.Category.String(), doc.Digest.String(),
		formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt),
	)
	if err != nil {
		return apperr.NewStorageError("store", err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.NewStorageError("store", err)
	}
	return nil
}

// Retrieve returns the document with id.
func (s *SQLiteStore) Retrieve(ctx context.Context, id domain.DocumentID) (domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id.String())
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Document{}, notFound(id)
	}
	if err != nil {
		return domain.Document{}, apperr.NewStorageError("retrieve", err)
	}
	return d, nil
}

// List returns the documents matching filter.
func (s *SQLiteStore) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category.String())
	}
	if filter.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(documents.tags_json) WHERE json_each.value = ?)")
		args = append(args, filter.Tag)
	}

	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY title, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.NewStorageError("list", err)
	}
	defer rows.Close()

	out := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, apperr.NewStorageError("list", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewStorageError("list", err)
	}
	return out, nil
}

// Delete removes the document with id.
func (s *SQLiteStore) Delete(ctx context.Context, id domain.DocumentID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id.String())
	if err != nil {
		return apperr.NewStorageError("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewStorageError("delete", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// FindBySource returns the document ingested from source.
func (s *SQLiteStore) FindBySource(ctx context.Context, source string) (domain.Document, bool, error) {
	return s.findOne(ctx, "find by source", `source = ?`, source)
}

// FindByDigest returns the document whose body hashes to digest.
func (s *SQLiteStore) FindByDigest(ctx context.Context, digest domain.Digest) (domain.Document, bool, error) {
	return s.findOne(ctx, "find by digest", `digest = ?`, digest.String())
}

func (s *SQLiteStore) findOne(ctx context.Context, op, cond string, arg any) (domain.Document, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE `+cond+` LIMIT 1`, arg)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Document{}, false, nil
	}
	if err != nil {
		return domain.Document{}, false, apperr.NewStorageError(op, err)
	}
	return d, true, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return apperr.NewStorageError("close", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(r rowScanner) (domain.Document, error) {
	var (
		d                  domain.Document
		id, format         string
		category, digest   string
		keywords, tags     string
		createdAt, updated string
	)
	if err := r.Scan(&id, &d.Title, &d.Source, &format, &d.Body,
		&keywords, &tags, &category, &digest, &createdAt, &updated); err != nil {
		return domain.Document{}, err
	}
	d.ID = domain.DocumentID(id)
	d.Format = domain.Format(format)
	d.Category = domain.Category(category)
	d.Digest = domain.Digest(digest)

	var err error
	if d.Keywords, err = decodeTerms(keywords); err != nil {
		return domain.Document{}, err
	}
	if d.Tags, err = decodeTerms(tags); err != nil {
		return domain.Document{}, err
	}
	if d.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return domain.Document{}, err
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return domain.Document{}, err
	}
	return d, nil
}

func encodeTerms(terms []string) (string, error) {
	if terms == nil {
		terms = []string{}
	}
	b, err := json.Marshal(terms)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeTerms(s string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Compile-time assertion that SQLiteStore implements domain.DocumentStore.
var _ domain.DocumentStore = (*SQLiteStore)(nil)
