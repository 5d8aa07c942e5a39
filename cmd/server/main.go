package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"docvault/internal/audit"
	"docvault/internal/auth"
	"docvault/internal/config"
	"docvault/internal/contentstore"
	"docvault/internal/filetypes"
	"docvault/internal/handler"
	"docvault/internal/middleware"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOutput := io.Writer(os.Stdout)
	if logFile, err := config.SetupLogFile(cfg.LogDir, 10); err != nil {
		slog.Warn("file logging disabled", "error", err)
	} else {
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Token verifier: JWKS when configured, static owner in dev
	var verifier auth.Verifier
	if cfg.JWKSURL != "" {
		v, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		verifier = v
	} else {
		if cfg.Environment == "prod" {
			log.Fatal("JWKS_URL is required in prod")
		}
		logger.Warn("JWKS_URL not set - using static dev auth", "owner_id", cfg.DevOwnerID)
		verifier = &auth.StaticVerifier{OwnerID: cfg.DevOwnerID}
	}
	defer verifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names and bootstrap schema
	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Content store (filesystem-backed blob service)
	store, err := contentstore.NewFilesystemStore(cfg.ContentDir)
	if err != nil {
		log.Fatalf("Failed to create content store: %v", err)
	}

	// File type registry (embedded YAML)
	typeRegistry, err := filetypes.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load file type registry: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Audit sink (fire-and-forget events for the notification consumer)
	sink := audit.NewLogSink(logger)

	// Create services
	folderService := service.NewFolderService(docRepo, txManager, store, sink, logger)
	docService := service.NewDocumentService(docRepo, store, sink, logger)
	ingestService := service.NewIngestService(docRepo, store, typeRegistry, sink, logger)

	// Create handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	docHandler := handler.NewDocumentHandler(docService, folderService, logger)
	uploadHandler := handler.NewUploadHandler(ingestService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Folder routes (folders are addressed by name - they have no id)
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("POST /api/folders/reconcile", folderHandler.ReconcileFolders)
	mux.HandleFunc("PATCH /api/folders/{name}", folderHandler.RenameFolder)
	mux.HandleFunc("DELETE /api/folders/{name}", folderHandler.DeleteFolder)

	// Document routes
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/move", docHandler.MoveDocument)
	mux.HandleFunc("GET /api/documents/{id}/download", docHandler.DownloadDocument)

	// Upload routes
	mux.HandleFunc("POST /api/documents/upload", uploadHandler.Upload)
	mux.HandleFunc("POST /api/documents/bulk", uploadHandler.BulkUpload)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.Auth(verifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  5 * time.Minute, // bulk uploads can be large
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
