package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/memodeck/backend/internal/api"
	"github.com/memodeck/backend/internal/auth"
	"github.com/memodeck/backend/internal/generator"
	"github.com/memodeck/backend/internal/infrastructure/config"
	"github.com/memodeck/backend/internal/janitor"
	"github.com/memodeck/backend/internal/scheduler"
	"github.com/memodeck/backend/internal/service"
	"github.com/memodeck/backend/internal/store"
)

func main() {
	flags := pflag.NewFlagSet("memodeck", pflag.ExitOnError)
	configFile := flags.String("config", "", "path to a YAML config file")
	flags.String("server.address", ":8080", "listen address")
	flags.String("db.path", "memodeck.db", "path to the SQLite database file")
	flags.Parse(os.Args[1:])

	cfg := config.MustLoad(flags, *configFile)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	authSvc := auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	llm := generator.NewLLMGenerator(cfg.LLM.URL, cfg.LLM.Model, cfg.LLM.APIKey)
	generationSvc := service.NewGenerationService(db, llm, cfg.LLM.MaxConcurrent, logger)
	defer generationSvc.Close()

	sched := scheduler.New(db, db)
	handler := api.NewHandler(db, sched, generationSvc, authSvc, logger)

	jan := janitor.New(db, logger)
	jan.Start(cfg.Janitor.Interval)
	defer jan.Stop()

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.Server.Address)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
