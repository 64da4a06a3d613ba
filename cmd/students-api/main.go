// main is the entry point of the Students API application.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (JWT secret is mandatory)
//  2. Initialise the logger
//  3. Connect to (and set up) the SQLite database
//  4. Build the auth core: token manager + auth service
//  5. Register all HTTP routes; student routes go behind the auth middleware
//  6. Start the HTTP server in a separate goroutine
//  7. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  8. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	JWT_SECRET=change-me go run ./cmd/students-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml JWT_SECRET=change-me go run ./cmd/students-api
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phalves/students-api/internal/auth"
	"github.com/phalves/students-api/internal/config"
	authhandler "github.com/phalves/students-api/internal/http/handlers/auth"
	"github.com/phalves/students-api/internal/http/handlers/student"
	"github.com/phalves/students-api/internal/http/middleware"
	"github.com/phalves/students-api/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config and panics if anything is wrong —
	// including a missing JWT_SECRET, which has no usable default.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger (stdlib since Go 1.21).
	log := setupLogger(cfg.Env)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", "2.0.0"),
	)

	// ── 3. Initialise Storage (Database) ──────────────────────────────────
	// sqlite.New opens the SQLite file and creates the tables.
	// We store the result as the storage.Storage INTERFACE, not *sqlite.SQLite,
	// so the rest of the code only knows about the interface.
	storage, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1) // non-zero exit code signals failure to the OS / CI system
	}

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath))

	// ── 4. Build the Auth Core ────────────────────────────────────────────
	// The token manager holds the signing secret and token lifetime; the
	// auth service orchestrates registration and login on top of the
	// storage and the token manager. Both are plain dependency-injected
	// values — no globals, no singletons.
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Error("failed to initialise token manager",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	authService := auth.NewService(storage, tokens)

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	// Route table:
	//   POST   /auth/register       → create an account          (open)
	//   POST   /auth/login          → exchange credentials for a token (open)
	//   POST   /api/students        → create a new student       (bearer token)
	//   GET    /api/students        → list all students          (bearer token)
	//   GET    /api/students/{id}   → get one student by ID      (bearer token)
	//   PUT    /api/students/{id}   → update a student           (bearer token)
	//   DELETE /api/students/{id}   → delete a student           (bearer token)
	router := http.NewServeMux()

	router.HandleFunc("POST /auth/register", authhandler.Register(authService))
	router.HandleFunc("POST /auth/login", authhandler.Login(authService))

	// protect wraps a handler in the bearer-token middleware. Declared
	// once here so every student route reads the same.
	protect := middleware.Auth(tokens)

	router.Handle("POST /api/students", protect(student.New(storage)))
	router.Handle("GET /api/students", protect(student.GetList(storage)))
	router.Handle("GET /api/students/{id}", protect(student.GetByID(storage)))
	router.Handle("PUT /api/students/{id}", protect(student.Update(storage)))
	router.Handle("DELETE /api/students/{id}", protect(student.Delete(storage)))

	// ── 6. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr, // e.g. "localhost:8082"
		Handler: router,              // every request goes through our router

		// Production hardening — set timeouts to prevent slow-client attacks.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 7. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks forever. If we called it here in main(), the
	// graceful-shutdown code below would never run.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected — we don't want to log it as an error.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 8. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered so we don't miss the signal if main is briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	// context.WithTimeout gives the shutdown a 5-second deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// server.Shutdown:
	//   • Stops accepting new connections
	//   • Waits for active requests to complete (up to ctx deadline)
	//   • Returns nil on clean shutdown, error if deadline exceeded
	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
//
//	JSON logs are easy to ingest by log aggregators (Loki, CloudWatch, etc.)
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo, // INFO and above in production
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // more verbose in staging
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // all levels in development
			}),
		)
	}
}
