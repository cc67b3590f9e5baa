// Package entries exposes the knowledge-base records over HTTP. Handlers
// only ever touch the orchestrator's committed snapshot; filtering and
// ordering happen here, not in the store.
package entries

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"kbcloud/core"
	"kbcloud/handlers/api/respond"
	"kbcloud/syncer"
)

// HandleList returns entries, newest first, optionally filtered by the
// category and q query parameters. q matches title, content and tags,
// case-insensitively.
func HandleList(o *syncer.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		query := strings.ToLower(r.URL.Query().Get("q"))

		doc := o.Snapshot()
		matched := make([]core.Entry, 0, len(doc.Items))
		for _, item := range doc.Items {
			if category != "" && item.Category != category {
				continue
			}
			if query != "" && !matchesQuery(item, query) {
				continue
			}
			matched = append(matched, item)
		}

		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt > matched[j].CreatedAt
		})

		render.JSON(w, r, matched)
	}
}

func matchesQuery(item core.Entry, query string) bool {
	if strings.Contains(strings.ToLower(item.Title), query) ||
		strings.Contains(strings.ToLower(item.Content), query) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// HandleGet returns a single entry by id.
func HandleGet(o *syncer.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		doc := o.Snapshot()
		if i := doc.FindItem(id); i >= 0 {
			render.JSON(w, r, doc.Items[i])
			return
		}
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "Entry not found"})
	}
}

// HandleCreate adds an entry and persists the whole document. The response
// only carries the entry once the remote write is confirmed.
func HandleCreate(o *syncer.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in syncer.EntryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		entry, err := o.CreateEntry(r.Context(), in)
		if err != nil {
			logrus.WithError(err).Error("Failed to create entry")
			respond.SyncError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, entry)
	}
}

// HandleUpdate edits the caller-editable fields of an entry.
func HandleUpdate(o *syncer.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var in syncer.EntryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		entry, err := o.UpdateEntry(r.Context(), id, in)
		if err != nil {
			logrus.WithFields(logrus.Fields{"error": err, "id": id}).Error("Failed to update entry")
			respond.SyncError(w, r, err)
			return
		}

		render.JSON(w, r, entry)
	}
}

// HandleDelete removes an entry. Deletion is exclusion from the next saved
// document; there is no undo.
func HandleDelete(o *syncer.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := o.DeleteEntry(r.Context(), id); err != nil {
			logrus.WithFields(logrus.Fields{"error": err, "id": id}).Error("Failed to delete entry")
			respond.SyncError(w, r, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}
