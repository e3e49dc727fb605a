/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the point-of-sale engine server: builds the
  stock ledger, session registry, inventory facade, receipt archive,
  and transaction orchestrator, seeds sample data, and serves the REST
  API with graceful shutdown.

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: 8080)
  -db         Receipt journal path (default: receipts.db)
              Use ":memory:" for an in-memory SQLite journal, or ""
              to keep receipts purely in process memory
  -threshold  Low-stock threshold (default: 10)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the receipt journal
  4. Exit

EXAMPLES:
  # Run with a file-backed receipt journal
  ./server -db="./data/receipts.db"

  # Run fully in memory
  ./server -db=""

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Receipt journal
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/pos-engine/api"
	"github.com/warp/pos-engine/employee"
	"github.com/warp/pos-engine/inventory"
	"github.com/warp/pos-engine/store/sqlite"
	"github.com/warp/pos-engine/transaction"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "receipts.db", "receipt journal path (\":memory:\" for in-memory SQLite, \"\" for no journal)")
	threshold := flag.Int("threshold", inventory.DefaultLowStockThreshold, "low-stock threshold")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Engine wiring: process-scoped state, created once, no teardown needed.
	ledger := inventory.NewStockLedger(*threshold, logger)
	session := inventory.NewSessionRegistry(logger)
	inv := inventory.NewService(ledger, session, logger)

	var archive transaction.Archive
	if *dbPath == "" {
		archive = transaction.NewMemoryArchive()
	} else {
		journal, err := sqlite.New(*dbPath)
		if err != nil {
			logger.Fatal("failed to open receipt journal", zap.Error(err))
		}
		defer journal.Close()
		archive = journal
	}
	orch := transaction.NewOrchestrator(inv, archive, logger)

	directory := employee.NewDirectory()
	handler := api.NewHandler(inv, orch, directory, logger)
	if err := api.Seed(inv, directory, logger); err != nil {
		logger.Fatal("failed to seed sample data", zap.Error(err))
	}

	router := api.NewRouter(handler)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.Int("port", *port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
