package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"kbcloud/config"
	"kbcloud/handlers/api/entries"
	"kbcloud/handlers/api/settings"
	syncapi "kbcloud/handlers/api/sync"
	"kbcloud/handlers/auth"
	"kbcloud/middleware"
	"kbcloud/stores"
	"kbcloud/syncer"
)

func setupRouter(o *syncer.Orchestrator) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Origin", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.HandleLogin)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", entries.HandleList(o))
			r.Post("/", entries.HandleCreate(o))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", entries.HandleGet(o))
				r.Put("/", entries.HandleUpdate(o))
				r.Delete("/", entries.HandleDelete(o))
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", settings.HandleGetCategories(o))
			r.Put("/", settings.HandlePutCategories(o))
		})

		r.Route("/settings/storage", func(r chi.Router) {
			r.Get("/", settings.HandleGetStorage(o))
			r.Put("/", settings.HandlePutStorage(o))
		})

		r.Route("/sync", func(r chi.Router) {
			r.Get("/", syncapi.HandleStatus(o))
			r.Post("/refresh", syncapi.HandleRefresh(o))
		})
	})

	return r
}

// configureFromSettings applies persisted storage credentials on startup, if
// any. Without them the orchestrator stays unconfigured until the settings
// endpoint supplies credentials.
func configureFromSettings(o *syncer.Orchestrator) {
	persisted, err := config.Load()
	if err != nil {
		logrus.WithError(err).Warn("Could not read persisted settings")
		return
	}
	if persisted == nil {
		logrus.Info("No storage settings found, waiting for configuration")
		return
	}
	if err := persisted.Storage.Validate(); err != nil {
		logrus.WithError(err).Warn("Persisted storage settings are incomplete")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := o.Configure(ctx, persisted.Storage); err != nil {
		// The orchestrator keeps the error in its status; the UI shows it.
		logrus.WithError(err).Warn("Initial sync failed")
	}
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	listenAddress := flag.String("listen", ":3002", "The address to listen on.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	auth.Init()

	orchestrator := syncer.New(stores.GetStore)
	configureFromSettings(orchestrator)

	server := &http.Server{
		Addr:    *listenAddress,
		Handler: setupRouter(orchestrator),
	}

	go func() {
		logrus.WithField("addr", *listenAddress).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-signalC

	logrus.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Shutdown failed")
	}
}
