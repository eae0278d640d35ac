package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/decora-ai/decora/internal/config"
	"github.com/decora-ai/decora/internal/crew"
	"github.com/decora-ai/decora/internal/report"
	"github.com/decora-ai/decora/internal/search"
	"github.com/decora-ai/decora/internal/server"
	"github.com/decora-ai/decora/internal/version"
)

var (
	serveAddr  string
	serveDebug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI and HTTP API",
	Long: `Serve the browser-based consultation UI and the JSON API.

The API mirrors the CLI: start consultations, follow their progress over
server-sent events, fetch reports, and run layout checks. Edits to
agents.yaml and tasks.yaml in the crew definitions directory are picked
up without a restart; runs already in flight keep their definitions.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Write a debug log under outputs/logs")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveDebug {
		cfg.Crew.Verbose = true
	}

	sentryEnabled := false
	if cfg.Sentry.DSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Release:          version.Get(),
			AttachStacktrace: true,
		})
		if err != nil {
			log.Printf("sentry initialization failed: %v", err)
		} else {
			sentryEnabled = true
		}
	}

	provider, cleanup, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireSerperKey(cfg); err != nil {
		return err
	}
	announceProvider(provider)

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	defs, err := loadDefs(cfg)
	if err != nil {
		return err
	}

	logger := crew.NopLogger()
	if cfg.Crew.Verbose {
		logger = crew.NewDebugLoggerForDir(cfg.Reports.LogsDir)
		defer logger.Close()
	}

	var serper *search.SerperClient
	if key, err := config.GetSerperAPIKey(cfg); err == nil {
		serper = search.NewSerperClient(key)
	}

	runs := server.NewRunManager(server.RunnerConfig{
		Provider: provider,
		Store:    db,
		Reports:  report.NewWriter(cfg.Reports.Dir),
		Search:   serper,
		Scraper:  search.NewScraper(),
		Crew:     cfg.Crew,
		LLM:      cfg.LLM,
		Logger:   logger,
	}, defs)

	watcher, err := watchCrewDefs(cfg.Crew.DefsDir, runs)
	if err != nil {
		log.Printf("crew definitions hot reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	mux := http.NewServeMux()
	srv := server.NewServer(mux, db, runs)
	srv.RegisterRoutes()

	middlewares := []server.Middleware{
		server.RequestIDMiddleware(),
		server.LoggingMiddleware(),
	}
	rl := server.RateLimitConfig{
		RequestsPerSecond: cfg.Server.RateLimitRPS,
		Burst:             cfg.Server.RateBurst,
	}
	if rl.Enabled() {
		middlewares = append(middlewares, server.RateLimitMiddleware(rl))
	}
	handler := server.ApplyMiddlewares(mux, middlewares...)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("decora %s listening on %s", version.Get(), cfg.Server.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Printf("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
	return nil
}

// watchCrewDefs reloads agents.yaml and tasks.yaml on change and swaps
// the definitions used for new runs. A file that fails to parse keeps
// the previous definitions in place.
func watchCrewDefs(dir string, runs *server.RunManager) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				name := filepath.Base(ev.Name)
				if name != "agents.yaml" && name != "tasks.yaml" {
					continue
				}
				defs, err := config.LoadCrewDefs(dir)
				if err != nil {
					log.Printf("crew definitions reload failed, keeping previous: %v", err)
					continue
				}
				runs.SetDefs(defs)
				log.Printf("crew definitions reloaded (%s)", name)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("crew definitions watcher: %v", err)
			}
		}
	}()
	return watcher, nil
}
