package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/vkotelnikov/autopark/internal/cli"
	"github.com/vkotelnikov/autopark/internal/config"
	"github.com/vkotelnikov/autopark/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
