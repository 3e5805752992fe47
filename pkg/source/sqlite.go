package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/liliang-cn/flixvec/internal/encoding"
	"github.com/liliang-cn/flixvec/pkg/catalog"
	"github.com/liliang-cn/flixvec/pkg/core"
)

const sqliteSchema = `
CREATE TABLE movie_vectors (
	position INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	vector BLOB NOT NULL
);

CREATE TABLE movie_metadata (
	id TEXT PRIMARY KEY,
	genre TEXT,
	poster_link TEXT
);
`

func openSQLite(path string, readOnly bool) (*sql.DB, error) {
	dsn := path + "?_busy_timeout=5000"
	if readOnly {
		dsn = "file:" + path + "?mode=ro&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func readSQLiteFile(ctx context.Context, path string) (*decoded, error) {
	// the driver would create a missing file
	if _, err := os.Stat(path); err != nil {
		return nil, core.NewLoadError(path, 0, "", err)
	}

	db, err := openSQLite(path, true)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, vector FROM movie_vectors ORDER BY position`)
	if err != nil {
		return nil, malformed(path, 0, "", "%v", err)
	}
	defer rows.Close()

	d := &decoded{}
	record := 0
	for rows.Next() {
		record++
		var (
			id   string
			blob []byte
		)
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, malformed(path, record, "", "%v", err)
		}
		vec, err := encoding.DecodeVector(blob)
		if err != nil {
			return nil, core.NewLoadError(path, record, id, fmt.Errorf("%w: %v", core.ErrMalformed, err))
		}
		d.records = append(d.records, core.MovieVector{ID: id, Vector: vec})
	}
	if err := rows.Err(); err != nil {
		return nil, malformed(path, record, "", "%v", err)
	}

	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'movie_metadata'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return d, nil
	}
	if err != nil {
		return nil, core.NewLoadError(path, 0, "", err)
	}

	// metadata follows vector order; titles without vectors come last
	meta, err := db.QueryContext(ctx, `
		SELECT m.id, COALESCE(m.genre, ''), COALESCE(m.poster_link, '')
		FROM movie_metadata m
		LEFT JOIN movie_vectors v ON v.id = m.id
		ORDER BY v.position IS NULL, v.position, m.rowid`)
	if err != nil {
		return nil, malformed(path, 0, "", "%v", err)
	}
	defer meta.Close()

	record = 0
	for meta.Next() {
		record++
		var e catalog.Entry
		if err := meta.Scan(&e.Title, &e.Genre, &e.PosterLink); err != nil {
			return nil, malformed(path, record, "", "%v", err)
		}
		d.entries = append(d.entries, e)
	}
	if err := meta.Err(); err != nil {
		return nil, malformed(path, record, "", "%v", err)
	}
	return d, nil
}

// writeSQLiteFile replaces any file at path with a fresh database.
func writeSQLiteFile(ctx context.Context, path string, ds *Dataset) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("source: replace %s: %w", path, err)
	}

	db, err := openSQLite(path, false)
	if err != nil {
		return fmt.Errorf("source: %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("source: create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("source: begin: %w", err)
	}
	defer tx.Rollback()

	vecStmt, err := tx.PrepareContext(ctx, `INSERT INTO movie_vectors (position, id, vector) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("source: prepare: %w", err)
	}
	defer vecStmt.Close()

	for i, rec := range ds.Vectors.Records() {
		blob, err := encoding.EncodeVector(rec.Vector)
		if err != nil {
			return fmt.Errorf("source: encode %q: %w", rec.ID, err)
		}
		if _, err := vecStmt.ExecContext(ctx, i, rec.ID, blob); err != nil {
			return fmt.Errorf("source: insert %q: %w", rec.ID, err)
		}
	}

	if ds.Catalog != nil {
		metaStmt, err := tx.PrepareContext(ctx, `INSERT INTO movie_metadata (id, genre, poster_link) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("source: prepare: %w", err)
		}
		defer metaStmt.Close()

		err = catalogEntries(ds, func(e catalog.Entry) error {
			_, err := metaStmt.ExecContext(ctx, e.Title, e.Genre, e.PosterLink)
			return err
		})
		if err != nil {
			return fmt.Errorf("source: insert metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("source: commit: %w", err)
	}
	return nil
}
