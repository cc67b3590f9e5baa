// Package syncer owns the in-memory copy of the knowledge base and sequences
// every load and save against the blob store. The whole document is the unit
// of persistence: each mutation rewrites the remote object, and the in-memory
// state is only committed once the store confirms the write.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"kbcloud/core"
)

// Status is the sync state exposed to the UI layer.
type Status string

const (
	StatusUnconfigured Status = "unconfigured"
	StatusIdle         Status = "idle"
	StatusSyncing      Status = "syncing"
	StatusSynced       Status = "synced"
	StatusError        Status = "error"
)

var (
	// ErrNotConfigured means no storage credentials have been supplied yet.
	ErrNotConfigured = errors.New("storage not configured")
	// ErrSyncInFlight rejects an operation while another load or save is
	// unresolved. At most one document write may be in flight; there is no
	// queue, the caller retries once the current sync settles.
	ErrSyncInFlight = errors.New("sync already in progress")
	// ErrEntryNotFound reports an unknown entry id.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrInvalidEntry rejects an entry without title or content.
	ErrInvalidEntry = errors.New("title and content are required")
)

// StoreFactory builds a blob store backend for freshly supplied credentials.
type StoreFactory func(core.StorageCredentials) (core.BlobStore, error)

// EntryInput carries the caller-editable fields of an entry.
type EntryInput struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Content  string   `json:"content"`
	Author   string   `json:"author"`
}

// Orchestrator is the exclusive owner of the document snapshot. It is safe
// for concurrent use; overlapping syncs are rejected rather than interleaved.
type Orchestrator struct {
	newStore StoreFactory

	mu      sync.Mutex
	store   core.BlobStore
	doc     *core.Document
	status  Status
	message string
	busy    bool

	now func() time.Time
}

// New returns an unconfigured orchestrator. Credentials arrive later via
// Configure (from persisted settings on startup, or from the settings form).
func New(newStore StoreFactory) *Orchestrator {
	return &Orchestrator{
		newStore: newStore,
		status:   StatusUnconfigured,
		now:      time.Now,
	}
}

// Configure swaps in a backend for the given credentials and immediately
// runs a load cycle against it. Credentials may be replaced at any time
// except while a sync is in flight.
func (o *Orchestrator) Configure(ctx context.Context, creds core.StorageCredentials) error {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return ErrSyncInFlight
	}
	store, err := o.newStore(creds)
	if err != nil {
		o.mu.Unlock()
		return err
	}
	o.store = store
	o.status = StatusIdle
	o.message = ""
	o.mu.Unlock()

	return o.Load(ctx)
}

// Configured reports whether storage credentials have been supplied.
func (o *Orchestrator) Configured() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.store != nil
}

// Status returns the current sync state and its human-readable message.
func (o *Orchestrator) Status() (Status, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status, o.message
}

// Snapshot returns a deep copy of the committed document. Mutating the copy
// has no effect on the orchestrator.
func (o *Orchestrator) Snapshot() *core.Document {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.doc == nil {
		return &core.Document{}
	}
	return o.doc.Clone()
}

// Load pulls the remote document and adopts it verbatim (last writer wins,
// any local draft is discarded). An absent remote object is seeded with the
// built-in defaults, which are saved back once to establish it.
func (o *Orchestrator) Load(ctx context.Context) error {
	store, err := o.begin("pulling data from cloud storage")
	if err != nil {
		return err
	}

	doc, err := store.Load(ctx)
	if errors.Is(err, core.ErrDocumentNotFound) {
		logrus.Info("Remote document absent, seeding default data")
		seed := core.DefaultDocument()
		if err := store.Save(ctx, seed); err != nil {
			return o.fail(err)
		}
		o.commit(seed, "initialized default data")
		return nil
	}
	if err != nil {
		return o.fail(err)
	}

	o.commit(doc, "sync complete")
	return nil
}

// Refresh re-runs the load cycle on user request.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	return o.Load(ctx)
}

// CreateEntry appends a new entry and persists the resulting document. The
// id is minted locally and the two timestamps start out identical.
func (o *Orchestrator) CreateEntry(ctx context.Context, in EntryInput) (core.Entry, error) {
	if in.Title == "" || in.Content == "" {
		return core.Entry{}, ErrInvalidEntry
	}

	var created core.Entry
	err := o.saveWith(ctx, func(doc *core.Document) error {
		now := o.timestamp()
		category := defaultCategory(in.Category, doc)
		author := in.Author
		if author == "" {
			author = "User"
		}

		created = core.Entry{
			ID:        ulid.Make().String(),
			Title:     in.Title,
			Category:  category,
			Tags:      in.Tags,
			Content:   in.Content,
			CreatedAt: now,
			UpdatedAt: now,
			Author:    author,
		}
		if created.Tags == nil {
			created.Tags = []string{}
		}
		doc.Items = append([]core.Entry{created}, doc.Items...)
		return nil
	})
	if err != nil {
		return core.Entry{}, err
	}
	return created, nil
}

// UpdateEntry replaces the editable fields of an existing entry, bumps
// updatedAt and persists. Id, createdAt and fields this application does not
// model are preserved.
func (o *Orchestrator) UpdateEntry(ctx context.Context, id string, in EntryInput) (core.Entry, error) {
	if in.Title == "" || in.Content == "" {
		return core.Entry{}, ErrInvalidEntry
	}

	var updated core.Entry
	err := o.saveWith(ctx, func(doc *core.Document) error {
		i := doc.FindItem(id)
		if i < 0 {
			return ErrEntryNotFound
		}
		entry := &doc.Items[i]
		entry.Title = in.Title
		entry.Category = defaultCategory(in.Category, doc)
		entry.Content = in.Content
		entry.Author = in.Author
		entry.Tags = in.Tags
		if entry.Tags == nil {
			entry.Tags = []string{}
		}
		entry.UpdatedAt = o.timestamp()
		updated = entry.Clone()
		return nil
	})
	if err != nil {
		return core.Entry{}, err
	}
	return updated, nil
}

// DeleteEntry removes an entry by exclusion from the next saved document.
// There is no soft delete and no history.
func (o *Orchestrator) DeleteEntry(ctx context.Context, id string) error {
	return o.saveWith(ctx, func(doc *core.Document) error {
		i := doc.FindItem(id)
		if i < 0 {
			return ErrEntryNotFound
		}
		doc.Items = append(doc.Items[:i], doc.Items[i+1:]...)
		return nil
	})
}

// ReplaceCategories persists a new category list. Entries referencing a
// removed category keep their stale category string; deletion never cascades.
func (o *Orchestrator) ReplaceCategories(ctx context.Context, categories []string) error {
	return o.saveWith(ctx, func(doc *core.Document) error {
		doc.Categories = append([]string(nil), categories...)
		return nil
	})
}

// saveWith clones the committed document, applies the change and uploads the
// result. The clone only becomes the committed state after the store
// confirms the write; on failure the previous document stays in place and
// the status parks on error.
func (o *Orchestrator) saveWith(ctx context.Context, apply func(*core.Document) error) error {
	o.mu.Lock()
	if o.store == nil {
		o.mu.Unlock()
		return ErrNotConfigured
	}
	if o.busy {
		o.mu.Unlock()
		return ErrSyncInFlight
	}
	next := &core.Document{}
	if o.doc != nil {
		next = o.doc.Clone()
	}
	if err := apply(next); err != nil {
		// Nothing was sent, leave status untouched.
		o.mu.Unlock()
		return err
	}
	store := o.store
	o.busy = true
	o.status = StatusSyncing
	o.message = "saving to cloud storage"
	o.mu.Unlock()

	if err := store.Save(ctx, next); err != nil {
		return o.fail(err)
	}
	o.commit(next, "saved")
	return nil
}

func (o *Orchestrator) begin(message string) (core.BlobStore, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.store == nil {
		return nil, ErrNotConfigured
	}
	if o.busy {
		return nil, ErrSyncInFlight
	}
	o.busy = true
	o.status = StatusSyncing
	o.message = message
	return o.store, nil
}

func (o *Orchestrator) fail(err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false
	o.status = StatusError
	o.message = err.Error()
	logrus.WithError(err).Error("Sync failed")
	return err
}

func (o *Orchestrator) commit(doc *core.Document, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false
	o.doc = doc
	o.status = StatusSynced
	o.message = message
}

func (o *Orchestrator) timestamp() string {
	return o.now().UTC().Format(time.RFC3339)
}

// defaultCategory keeps every entry attached to a category: an empty choice
// falls back to the first configured one.
func defaultCategory(category string, doc *core.Document) string {
	if category != "" {
		return category
	}
	if len(doc.Categories) > 0 {
		return doc.Categories[0]
	}
	return "Misc"
}
