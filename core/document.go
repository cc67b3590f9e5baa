package core

import (
	"context"
	"encoding/json"
)

type (
	// Document is the entire knowledge base as persisted remotely: one JSON
	// object holding the category list and every entry. There is no per-entry
	// persistence; every mutation rewrites the whole document.
	Document struct {
		Categories []string `json:"categories"`
		Items      []Entry  `json:"items"`
	}

	// Entry is a single knowledge-base record. Content may carry markdown,
	// which is opaque to this layer.
	Entry struct {
		ID        string   `json:"id"`
		Title     string   `json:"title"`
		Category  string   `json:"category"`
		Tags      []string `json:"tags"`
		Content   string   `json:"content"`
		CreatedAt string   `json:"createdAt"`
		UpdatedAt string   `json:"updatedAt"`
		Author    string   `json:"author"`

		// Extra holds JSON fields this application does not model, so that
		// documents written by newer or foreign clients round-trip through
		// edits without losing data.
		Extra map[string]json.RawMessage `json:"-"`
	}

	// BlobStore persists the document as a single named object. Load returns
	// ErrDocumentNotFound when the object has never been created.
	BlobStore interface {
		Load(ctx context.Context) (*Document, error)
		Save(ctx context.Context, doc *Document) error
	}
)

// knownEntryFields are the JSON keys owned by Entry itself; everything else
// lands in Extra.
var knownEntryFields = []string{
	"id", "title", "category", "tags", "content", "createdAt", "updatedAt", "author",
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range knownEntryFields {
		delete(raw, key)
	}
	if len(raw) > 0 {
		p.Extra = raw
	}

	*e = Entry(p)
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	p := plain(e)
	if p.Tags == nil {
		p.Tags = []string{}
	}

	encoded, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return encoded, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &merged); err != nil {
		return nil, err
	}
	for key, value := range e.Extra {
		if _, owned := merged[key]; owned {
			continue
		}
		merged[key] = value
	}
	return json.Marshal(merged)
}

// Clone returns a deep copy, so callers can mutate a snapshot without
// touching the committed document.
func (d *Document) Clone() *Document {
	out := &Document{
		Categories: append([]string(nil), d.Categories...),
		Items:      make([]Entry, len(d.Items)),
	}
	for i, item := range d.Items {
		out.Items[i] = item.Clone()
	}
	return out
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	out.Tags = append([]string(nil), e.Tags...)
	if e.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(e.Extra))
		for key, value := range e.Extra {
			out.Extra[key] = append(json.RawMessage(nil), value...)
		}
	}
	return out
}

// FindItem returns the index of the entry with the given id, or -1.
func (d *Document) FindItem(id string) int {
	for i := range d.Items {
		if d.Items[i].ID == id {
			return i
		}
	}
	return -1
}
