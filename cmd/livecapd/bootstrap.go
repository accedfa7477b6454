package main

import (
	"log/slog"
	"net/http"
	"time"

	"livecap/internal/archive"
	"livecap/internal/config"
	"livecap/internal/manager"
	"livecap/internal/media"
	"livecap/internal/notifications"
	"livecap/internal/report"
	"livecap/internal/services/translate"
)

// bootstrap assembles the pipeline dependencies. Capture, recognition, and
// rendering are platform adapters registered by the host integration; the
// daemon runs with no-op surfaces until one attaches.
func bootstrap(cfg *config.Config, logger *slog.Logger) (*archive.Store, *report.Ring, *manager.Manager, error) {
	var store *archive.Store
	if cfg.Archive.Enabled {
		opened, err := archive.Open(cfg.ArchivePath())
		if err != nil {
			return nil, nil, nil, err
		}
		store = opened
	}

	ring := report.NewRing(0)
	mgr := manager.New(manager.Deps{
		Config:     cfg,
		Logger:     logger,
		Capture:    hostCapture(),
		Recognizer: hostRecognizer(),
		Translator: buildTranslator(cfg),
		Render:     hostRenderSurface(),
		Status:     hostStatusSurface(),
		Feed:       hostDetectionFeed(),
		Notifier:   notifications.NewService(cfg),
		Reports:    ring,
		Store:      store,
	})
	return store, ring, mgr, nil
}

// buildTranslator returns nil when no provider is configured; captions then
// carry the original-language transcript.
func buildTranslator(cfg *config.Config) media.Translator {
	if cfg.Translation.BaseURL == "" {
		return nil
	}
	return translate.NewClient(cfg.Translation.BaseURL, cfg.Translation.APIKey,
		translate.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Translation.TimeoutSeconds) * time.Second}))
}
