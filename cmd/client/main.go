package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/punchkeeper/internal/client/cli"
	"github.com/dmitrijs2005/punchkeeper/internal/client/config"
	"github.com/dmitrijs2005/punchkeeper/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	if cfg.AccessToken == "" && cli.StdinIsTerminal() {
		token, err := cli.GetSecret(os.Stdout, "Access token")
		if err != nil {
			log.Fatalf("%v", err)
		}
		cfg.AccessToken = token
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
