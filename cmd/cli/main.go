package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/babelx/internal/buildinfo"
	"github.com/dmitrijs2005/babelx/internal/client/cli"
	"github.com/dmitrijs2005/babelx/internal/client/config"
	"github.com/dmitrijs2005/babelx/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	log := logging.New(os.Stderr, cfg.LogLevel)
	log.Debug(ctx, "starting", "version", buildinfo.String(), "driver", cfg.StorageDriver)

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run(ctx)

}
