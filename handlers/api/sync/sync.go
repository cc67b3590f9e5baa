// Package sync exposes the orchestrator's status machine to the UI and lets
// the operator force a refresh from the remote object.
package sync

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"kbcloud/handlers/api/respond"
	"kbcloud/syncer"
)

// HandleStatus reports the current sync state and its message.
func HandleStatus(o *syncer.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, message := o.Status()
		render.JSON(w, r, map[string]any{
			"status":     status,
			"message":    message,
			"configured": o.Configured(),
		})
	}
}

// HandleRefresh re-pulls the remote document, discarding any local state
// (last writer wins).
func HandleRefresh(o *syncer.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := o.Refresh(r.Context()); err != nil {
			logrus.WithError(err).Error("Refresh failed")
			respond.SyncError(w, r, err)
			return
		}

		status, message := o.Status()
		render.JSON(w, r, map[string]any{
			"status":  status,
			"message": message,
		})
	}
}
