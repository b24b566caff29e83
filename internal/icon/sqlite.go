package icon

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // register sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS icons (
	id    TEXT PRIMARY KEY,
	glyph TEXT NOT NULL,
	pack  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_icons_pack ON icons(pack);
`

// SQLiteSource stores icon descriptors in a SQLite database.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens or creates an icon database at path.
func OpenSQLite(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open icon db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

// Close closes the database.
func (s *SQLiteSource) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Put inserts or replaces descriptors in a single transaction.
func (s *SQLiteSource) Put(ctx context.Context, descs ...Descriptor) error {
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO icons (id, glyph, pack) VALUES (?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET glyph = excluded.glyph, pack = excluded.pack")
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, d := range descs {
		if _, err := stmt.ExecContext(ctx, d.ID, d.Glyph, d.Pack); err != nil {
			return fmt.Errorf("insert %q: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

// Delete removes an id. Deleting a missing id is not an error.
func (s *SQLiteSource) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM icons WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete %q: %w", id, err)
	}
	return nil
}

// Load reads every stored descriptor, ordered by id.
func (s *SQLiteSource) Load(ctx context.Context) ([]Descriptor, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, glyph, pack FROM icons ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query icons: %w", err)
	}
	defer rows.Close()

	var descs []Descriptor
	for rows.Next() {
		var d Descriptor
		if err := rows.Scan(&d.ID, &d.Glyph, &d.Pack); err != nil {
			return nil, fmt.Errorf("scan icon: %w", err)
		}
		descs = append(descs, d)
	}
	return descs, rows.Err()
}
