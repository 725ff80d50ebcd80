// Package sqlite exports decoded EPW documents into a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/couchcryptid/epw-codec/internal/epw"
)

// metaRecord is the record index stored for metafields in epw_header_fields.
const metaRecord = -1

// Store implements pipeline.Loader on top of a SQLite database.
type Store struct {
	db       *sql.DB
	registry *epw.Registry
	insert   string
}

// Open opens (or creates) the database at dsn and creates the export tables.
// The epw_records columns follow the registry's data schema.
func Open(dsn string, registry *epw.Registry) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, registry: registry, insert: recordInsert(registry.Data())}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS epw_documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			city TEXT,
			country TEXT,
			wmo TEXT,
			latitude REAL,
			longitude REAL,
			record_count INTEGER NOT NULL,
			loaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS epw_header_fields (
			document_id INTEGER NOT NULL REFERENCES epw_documents(id) ON DELETE CASCADE,
			header TEXT NOT NULL,
			record INTEGER NOT NULL,
			position INTEGER NOT NULL,
			field TEXT NOT NULL,
			value TEXT,
			PRIMARY KEY (document_id, header, record, position)
		)`,
		recordTable(s.registry.Data()),
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func recordTable(schema epw.FieldSchema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS epw_records (\n")
	b.WriteString("\tdocument_id INTEGER NOT NULL REFERENCES epw_documents(id) ON DELETE CASCADE,\n")
	b.WriteString("\trecord_index INTEGER NOT NULL,\n")
	for _, f := range schema.Fields() {
		fmt.Fprintf(&b, "\t%s %s,\n", f.Name, columnType(f.Kind))
	}
	b.WriteString("\tPRIMARY KEY (document_id, record_index)\n)")
	return b.String()
}

func recordInsert(schema epw.FieldSchema) string {
	names := schema.Names()
	marks := strings.Repeat(", ?", len(names))
	return "INSERT INTO epw_records (document_id, record_index, " +
		strings.Join(names, ", ") + ") VALUES (?, ?" + marks + ")"
}

func columnType(k epw.Kind) string {
	switch k {
	case epw.Integer:
		return "INTEGER"
	case epw.Float:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Load writes doc in a single transaction. Missing floats are stored as NULL.
func (s *Store) Load(ctx context.Context, source string, doc *epw.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	id, err := insertDocument(ctx, tx, source, doc)
	if err != nil {
		return err
	}
	if err := insertHeaderFields(ctx, tx, id, doc); err != nil {
		return err
	}
	if err := s.insertRecords(ctx, tx, id, doc.Data()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertDocument(ctx context.Context, tx *sql.Tx, source string, doc *epw.Document) (int64, error) {
	loc, err := doc.Header(epw.Location)
	if err != nil {
		return 0, err
	}
	args := []any{source}
	for _, name := range []string{"city", "country", "wmo", "latitude", "longitude"} {
		v, err := loc.Meta(name)
		if err != nil {
			return 0, err
		}
		args = append(args, sqlValue(v))
	}
	args = append(args, doc.Data().Len())

	res, err := tx.ExecContext(ctx, `
		INSERT INTO epw_documents (source, city, country, wmo, latitude, longitude, record_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	return res.LastInsertId()
}

func insertHeaderFields(ctx context.Context, tx *sql.Tx, id int64, doc *epw.Document) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO epw_header_fields (document_id, header, record, position, field, value)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare header fields: %w", err)
	}
	defer stmt.Close()

	for _, b := range doc.Headers() {
		spec := b.Spec()
		for i, v := range b.Metadata() {
			if _, err := stmt.ExecContext(ctx, id, b.Name(), metaRecord, i, spec.Meta.At(i).Name, sqlText(v)); err != nil {
				return fmt.Errorf("insert %s metadata: %w", b.Name(), err)
			}
		}

		if payload, ok := b.Opaque(); ok {
			if payload == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, id, b.Name(), 0, 0, spec.Fields.At(0).Name, payload); err != nil {
				return fmt.Errorf("insert %s payload: %w", b.Name(), err)
			}
			continue
		}

		rs, ok := b.Records()
		if !ok {
			continue
		}
		for r := range rs.Len() {
			for i, v := range rs.Row(r) {
				if _, err := stmt.ExecContext(ctx, id, b.Name(), r, i, spec.Fields.At(i).Name, sqlText(v)); err != nil {
					return fmt.Errorf("insert %s record %d: %w", b.Name(), r, err)
				}
			}
		}
	}
	return nil
}

func (s *Store) insertRecords(ctx context.Context, tx *sql.Tx, id int64, rs *epw.RecordSet) error {
	stmt, err := tx.PrepareContext(ctx, s.insert)
	if err != nil {
		return fmt.Errorf("prepare records: %w", err)
	}
	defer stmt.Close()

	args := make([]any, 0, rs.Schema().Len()+2)
	for r := range rs.Len() {
		args = append(args[:0], id, r)
		for _, v := range rs.Row(r) {
			args = append(args, sqlValue(v))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert record %d: %w", r, err)
		}
	}
	return nil
}

// Count returns the number of stored documents and data records.
func (s *Store) Count(ctx context.Context) (documents, records int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM epw_documents), (SELECT COUNT(*) FROM epw_records)
	`).Scan(&documents, &records)
	if err != nil {
		return 0, 0, fmt.Errorf("count: %w", err)
	}
	return documents, records, nil
}

func sqlValue(v epw.Value) any {
	switch v.Kind() {
	case epw.Integer:
		return v.Int()
	case epw.Float:
		if f := v.Float(); !math.IsNaN(f) {
			return f
		}
		return nil
	default:
		return v.Text()
	}
}

// sqlText keeps the encoded token so header values survive export unchanged.
func sqlText(v epw.Value) any {
	if v.IsMissing() {
		return nil
	}
	return v.Text()
}
