package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"apnagate-backend/config"
	"apnagate-backend/internal/api"
	"apnagate-backend/internal/auth"
	"apnagate-backend/internal/db"
	"apnagate-backend/internal/notification"
	"apnagate-backend/internal/realtime"
	"apnagate-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "apnagate ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.SecretKey == "" {
		logger.Fatalf("A signing secret must be configured (auth.secret_key or SECRET_KEY).")
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		logger.Fatalf("failed to create upload directory %s: %v", cfg.Upload.Dir, err)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	tokens := auth.NewTokens(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)

	// Realtime hub for connected resident/guard clients
	hub := realtime.NewHub()
	go hub.Run()

	// Web push is optional; without VAPID keys only the Expo channel and
	// the realtime broadcast are used.
	var webPushOpts *webpush.Options
	if cfg.Push.VAPIDPublicKey != "" && cfg.Push.VAPIDPrivate != "" {
		webPushOpts = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.Push.VAPIDPrivate,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Println("VAPID keys not configured; browser web push disabled")
	}

	expo := notification.NewExpoSender(cfg.Push.ExpoURL, cfg.Push.Timeout)
	dispatcher := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize,
		appStore, expo, webPushOpts, hub)
	dispatcher.Start(ctx)

	router := api.NewRouter(appStore, tokens, dispatcher, hub, cfg)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
