package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpattn/changelog/internal/auth"
	"github.com/rpattn/changelog/internal/changelog"
	"github.com/rpattn/changelog/internal/config"
	"github.com/rpattn/changelog/internal/db"
	"github.com/rpattn/changelog/internal/export"
	"github.com/rpattn/changelog/internal/middleware"
	"github.com/rpattn/changelog/internal/paragraphloader"
	"github.com/rpattn/changelog/internal/repository"

	"github.com/rs/cors"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	conn, err := db.NewConnection(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.DB, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	changeLogRepo := repository.NewChangeLogRepository(conn.Pool)
	recordRepo := repository.NewRecordRepository(conn.Pool)
	paragraphRepo := repository.NewParagraphRepository(conn.Pool)
	fileRepo := repository.NewFileRepository(conn.Pool)

	// Change detection core
	paragraphs := paragraphloader.New(paragraphRepo)
	detector := changelog.NewDetector(paragraphs, fileRepo, changeLogRepo)
	service := changelog.NewService(recordRepo, detector)

	exportService := export.NewService(changeLogRepo)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	wrap := func(h http.Handler) http.Handler {
		return corsHandler.Handler(middleware.LoggingMiddleware(auth.Middleware(h)))
	}

	changesHandler := wrap(changelog.NewHTTPHandler(service, changeLogRepo))

	mux := http.NewServeMux()
	mux.Handle("/changes", changesHandler)
	mux.Handle("/changes/", changesHandler)
	mux.Handle("/exports/changes", wrap(export.NewHTTPHandler(exportService)))

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting change log server on %s", cfg.ListenAddr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
