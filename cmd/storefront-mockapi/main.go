// ABOUTME: Entry point for the local fixture marketplace API server
// ABOUTME: Serves the full HTTP surface the storefront client consumes

package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/rbr-labs/storefront/internal/config"
	"github.com/rbr-labs/storefront/internal/mockapi"
)

const banner = `
                   _                 _
 _ __ ___   ___   ___| | ____ _ _ __ (_)
| '_ ' _ \ / _ \ / __| |/ / _' | '_ \| |
| | | | | | (_) | (__|   < (_| | |_) | |
|_| |_| |_|\___/ \___|_|\_\__,_| .__/|_|
                               |_|
`

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file (YAML)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if addr != "" {
		cfg.Mock.Addr = addr
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	secret := cfg.Mock.JWTSecret
	if secret == "" {
		// Ephemeral secret: tokens stop working across restarts
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return fmt.Errorf("generating jwt secret: %w", err)
		}
		secret = base64.StdEncoding.EncodeToString(raw)
		logger.Warn("mock.jwt_secret not configured, using a random secret")
	}

	srv := mockapi.New([]byte(secret), logger)

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	cyan.Print(banner)
	fmt.Println()
	green.Print("    ▶ ")
	fmt.Printf("Listening: %s\n", cfg.Mock.Addr)
	green.Print("    ▶ ")
	fmt.Println("Accounts:  superadmin/super-secret, rahul/vendor-secret")
	fmt.Println()

	logger.Info("starting mock marketplace api", "addr", cfg.Mock.Addr)

	httpServer := &http.Server{
		Addr:         cfg.Mock.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return config.Load("config.yaml")
	}
	return config.Default(), nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
