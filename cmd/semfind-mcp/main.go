package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/semfind/internal/app"
	"github.com/dshills/semfind/internal/cache"
	"github.com/dshills/semfind/internal/config"
	"github.com/dshills/semfind/internal/mcp"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("semfind MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", cache.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", cache.DriverName)
		os.Exit(0)
	}

	// Log startup info to stderr (stdout reserved for MCP protocol)
	log.SetOutput(os.Stderr)
	log.Printf("semfind MCP Server v%s starting...", version)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Model: %s, Cache: %s (%s), Driver: %s, Workers: %d",
		cfg.Model, cfg.CacheDir, cfg.CacheBackend, cache.DriverName, cfg.Workers)

	logger := log.New(os.Stderr, "semfind: ", log.LstdFlags)
	a, err := app.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("Close: %v", err)
		}
	}()

	// Create MCP server
	server, err := mcp.NewServer(a)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Printf("Server error: %v", err)
			return
		}
	}

	log.Println("Server stopped")
}
