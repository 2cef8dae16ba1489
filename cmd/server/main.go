/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave workflow server. Builds the immutable
  configuration once, wires the store, mailer and workflow together, and
  handles graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment configuration (.env supported)
  2. Parse command-line flags (flags override env)
  3. Initialize SQLite store and seed the staff directory
  4. Wire mailer, workflow and HTTP handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: PORT env or 8080)
  -db      SQLite database path (default: DB_PATH env or leave.db)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - config/config.go: Recognized environment variables
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/leave-workflow/api"
	"github.com/warp/leave-workflow/config"
	"github.com/warp/leave-workflow/mail"
	"github.com/warp/leave-workflow/store/sqlite"
	"github.com/warp/leave-workflow/workflow"
)

func main() {
	cfg := config.Load()

	// Flags override environment
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Seed the staff directory from config
	for _, s := range cfg.Staff {
		if err := store.SaveStaff(context.Background(), sqlite.StaffMember{Name: s.Name, Email: s.Email}); err != nil {
			log.Printf("Warning: failed to seed staff %s: %v", s.Email, err)
		}
	}

	// Wire collaborators
	mailer := mail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromAddress)
	flow := workflow.New(store, mailer, workflow.Config{
		Approvers: cfg.Approvers,
		AlwaysCC:  cfg.AlwaysCC,
		BaseURL:   cfg.BaseURL,
	})

	handler := api.NewHandler(store, flow, mailer, cfg)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
