// Package settings manages the storage credentials and the category list,
// the two things the original settings screen edited.
package settings

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"kbcloud/config"
	"kbcloud/core"
	"kbcloud/handlers/api/respond"
	"kbcloud/syncer"
)

// HandleGetStorage returns the configured credentials with the secret masked.
func HandleGetStorage(o *syncer.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := config.Load()
		if err != nil {
			logrus.WithError(err).Error("Failed to read settings")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to read settings"})
			return
		}
		if settings == nil {
			render.JSON(w, r, map[string]any{"configured": false})
			return
		}

		creds := settings.Storage
		if creds.SecretKey != "" {
			creds.SecretKey = "********"
		}
		render.JSON(w, r, map[string]any{
			"configured": o.Configured(),
			"storage":    creds,
		})
	}
}

// HandlePutStorage validates, persists and applies new credentials, then
// forces a fresh load cycle against the new target.
func HandlePutStorage(o *syncer.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds core.StorageCredentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		if err := creds.Validate(); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}

		if err := config.Save(&config.Settings{Storage: creds}); err != nil {
			logrus.WithError(err).Error("Failed to persist settings")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to persist settings"})
			return
		}

		if err := o.Configure(r.Context(), creds); err != nil {
			logrus.WithError(err).Error("Failed to sync with new storage settings")
			respond.SyncError(w, r, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "configured"})
	}
}

// HandleGetCategories returns the category list of the committed document.
func HandleGetCategories(o *syncer.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := o.Snapshot()
		if doc.Categories == nil {
			doc.Categories = []string{}
		}
		render.JSON(w, r, doc.Categories)
	}
}

// HandlePutCategories replaces the category list and saves immediately.
// Removing a category never rewrites entries that reference it; they keep
// the stale name and simply drop out of the navigation.
func HandlePutCategories(o *syncer.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var categories []string
		if err := json.NewDecoder(r.Body).Decode(&categories); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		cleaned := make([]string, 0, len(categories))
		seen := make(map[string]bool, len(categories))
		for _, c := range categories {
			c = strings.TrimSpace(c)
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			cleaned = append(cleaned, c)
		}

		if err := o.ReplaceCategories(r.Context(), cleaned); err != nil {
			logrus.WithError(err).Error("Failed to save categories")
			respond.SyncError(w, r, err)
			return
		}

		render.JSON(w, r, cleaned)
	}
}
