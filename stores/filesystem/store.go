// Package filesystem keeps the document as a single JSON file on local disk,
// mostly for development and tests.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"kbcloud/core"
)

type Store struct {
	path string
}

// NewStore creates a file-backed store rooted at basePath.
func NewStore(basePath, filename string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	return &Store{path: filepath.Join(basePath, filename)}, nil
}

func (s *Store) Load(ctx context.Context) (*core.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrDocumentNotFound
		}
		return nil, &core.StoreError{Op: "download", Err: err}
	}
	return core.DecodeDocument(data)
}

func (s *Store) Save(ctx context.Context, doc *core.Document) error {
	data, err := core.EncodeDocument(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return &core.StoreError{Op: "upload", Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"path":  s.path,
		"bytes": len(data),
	}).Info("Document saved")
	return nil
}
