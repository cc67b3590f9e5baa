// Package respond maps orchestrator errors onto HTTP responses so every API
// handler reports sync failures the same way.
package respond

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"kbcloud/syncer"
)

// SyncError writes the error response for a failed orchestrator call.
func SyncError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, syncer.ErrNotConfigured):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, map[string]string{"error": "Cloud storage is not configured"})
	case errors.Is(err, syncer.ErrSyncInFlight):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, map[string]string{"error": "A sync is already in progress"})
	case errors.Is(err, syncer.ErrEntryNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "Entry not found"})
	case errors.Is(err, syncer.ErrInvalidEntry):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": err.Error()})
	default:
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, map[string]string{"error": err.Error()})
	}
}
