package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/wayfarer/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (default ~/.config/wayfarer/config.toml)")
	dataDir := flag.String("data", "", "data directory (overrides config data_dir)")
	backend := flag.String("storage", "", "storage backend: file or sqlite (overrides config storage)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		DataDir:    *dataDir,
		Storage:    *backend,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "wayfarer: %v\n", err)
		return 1
	}
	return 0
}
