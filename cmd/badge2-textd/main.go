package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chaz8081/badge2-textd/internal/ble"
	"github.com/chaz8081/badge2-textd/internal/config"
	"github.com/chaz8081/badge2-textd/internal/display"
	"github.com/chaz8081/badge2-textd/internal/session"
	"github.com/chaz8081/badge2-textd/internal/store"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "path to config file (default: ~/.config/badge2-textd/config.yaml)")
	flag.Parse()

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	printBanner(cfg)

	// Generate the boot-time device password. It lives only in memory
	// and on the local display; it is never logged.
	password, err := session.GeneratePassword()
	if err != nil {
		log.Fatalf("Failed to generate device password: %v", err)
	}

	transport, err := ble.NewTinyGoTransport(cfg.ServiceUUID, cfg.CharUUID)
	if err != nil {
		log.Fatalf("Failed to create BLE transport: %v", err)
	}

	sess, err := session.New(
		transport,
		store.NewFileStore(cfg.StorePath),
		display.Console{},
		password,
		session.Options{
			DeviceName:    cfg.DeviceName,
			BaseURL:       cfg.BaseURL,
			ListenTimeout: time.Duration(cfg.ListenTimeout),
			MaxPayload:    cfg.MaxPayload,
			RetryDelay:    time.Second,
		},
	)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	// Signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Advertising as %q. Ctrl+C to quit.", cfg.DeviceName)

	if err := sess.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("session: %v", err)
	}
	log.Println("Goodbye!")
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	// Try default config path
	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		log.Printf("Config loaded from %s", defaultPath)
		return cfg, nil
	}

	// No config file, use defaults
	log.Println("No config file found, using defaults")
	return config.Default(), nil
}

// printBanner displays the startup configuration summary.
func printBanner(cfg *config.Config) {
	fmt.Println("=== badge2-textd ===")
	fmt.Printf("  Device:  %s\n", cfg.DeviceName)
	fmt.Printf("  Service: %s\n", cfg.ServiceUUID)
	fmt.Printf("  Char:    %s\n", cfg.CharUUID)
	fmt.Printf("  Store:   %s\n", cfg.StorePath)
	fmt.Printf("  Listen:  %s timeout\n", cfg.ListenTimeout)
	fmt.Printf("  Log:     %s\n", cfg.LogLevel)
	fmt.Println("====================")
}
