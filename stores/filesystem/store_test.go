package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"kbcloud/core"
)

func TestNewStore_CreatesDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "data")

	_, err := NewStore(base, "knowledge.json")
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	if _, err := os.Stat(base); os.IsNotExist(err) {
		t.Error("NewStore() did not create the base directory")
	}
}

func TestLoad_Absent(t *testing.T) {
	store, err := NewStore(t.TempDir(), "knowledge.json")
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}

	_, err = store.Load(context.Background())
	if !errors.Is(err, core.ErrDocumentNotFound) {
		t.Fatalf("Load() = %v, want ErrDocumentNotFound", err)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir(), "knowledge.json")
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	ctx := context.Background()
	doc := core.DefaultDocument()

	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(doc, loaded) {
		t.Error("loaded document differs from saved document")
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base, "knowledge.json")
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(base, "knowledge.json"), []byte("{broken"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	_, err = store.Load(context.Background())
	var decodeErr *core.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Load() = %v, want *DecodeError", err)
	}
}

func TestLoad_LegacyShapeTreatedAsAbsent(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base, "knowledge.json")
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(base, "knowledge.json"), []byte(`{"categories": []}`), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err = store.Load(context.Background())
	if !errors.Is(err, core.ErrDocumentNotFound) {
		t.Fatalf("Load() = %v, want ErrDocumentNotFound for missing items", err)
	}
}
