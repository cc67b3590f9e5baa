// Package memory holds the encoded document in process memory. It exists for
// tests and for trying the application without any storage configured; data
// is gone when the process exits.
package memory

import (
	"context"
	"sync"

	"kbcloud/core"
)

type Store struct {
	mu   sync.RWMutex
	data []byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) Load(ctx context.Context) (*core.Document, error) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	if data == nil {
		return nil, core.ErrDocumentNotFound
	}
	return core.DecodeDocument(data)
}

func (s *Store) Save(ctx context.Context, doc *core.Document) error {
	data, err := core.EncodeDocument(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}
