package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handler "project-pulse-backend/api"
	"project-pulse-backend/pkg/config"
	"project-pulse-backend/pkg/database"
)

// Long-lived entry point. Unlike the serverless handler this keeps SSE
// streams open indefinitely.
func main() {
	cfg := config.GetCached()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	db := database.GetDatabase(database.Config{
		PostgresDSN: cfg.PostgresDSN,
		SupabaseURL: cfg.SupabaseURL,
		SupabaseKey: cfg.SupabaseKey,
		UseMemoryDB: cfg.UseMemoryDB,
		Debug:       cfg.Debug,
	})
	defer db.Close()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(cfg, db),
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: it would cut off long-lived event streams
	}

	go func() {
		fmt.Printf("🚀 Project Pulse backend listening on :%s (%s)\n", cfg.Port, cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("❌ Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	fmt.Println("👋 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Printf("⚠️  Forced shutdown: %v\n", err)
	}
}
