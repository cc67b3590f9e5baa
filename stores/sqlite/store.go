// Package sqlite keeps the document blob in a local SQLite file. Useful for
// air-gapped setups where the "remote" bucket is just another disk.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"kbcloud/core"
)

type Store struct {
	db   *sql.DB
	name string
}

// NewStore opens (and initializes) the database and scopes the store to one
// named document.
func NewStore(dataSourceName, name string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	stmt := `CREATE TABLE IF NOT EXISTS documents (name TEXT PRIMARY KEY, data BLOB NOT NULL);`
	if _, err := db.Exec(stmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &Store{db: db, name: name}, nil
}

func (s *Store) Load(ctx context.Context) (*core.Document, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE name = ?`, s.name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrDocumentNotFound
	}
	if err != nil {
		return nil, &core.StoreError{Op: "download", Err: err}
	}
	return core.DecodeDocument(data)
}

func (s *Store) Save(ctx context.Context, doc *core.Document) error {
	data, err := core.EncodeDocument(doc)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (name, data) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
		s.name, data)
	if err != nil {
		return &core.StoreError{Op: "upload", Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"name":  s.name,
		"bytes": len(data),
	}).Info("Document saved")
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
