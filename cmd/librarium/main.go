package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/librarium/core/config"
	"github.com/dmitrymomot/librarium/core/logger"
	"github.com/dmitrymomot/librarium/core/simulation"
)

type appConfig struct {
	Log        logger.Config
	Simulation simulation.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Log, logger.WithAppName("librarium"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim, err := simulation.New(cfg.Simulation, simulation.WithLogger(log))
	if err != nil {
		log.Error("failed to build simulation", logger.Error(err))
		os.Exit(1)
	}

	report, err := sim.Run(ctx)
	if err != nil {
		log.Error("simulation failed", logger.Error(err))
		os.Exit(1)
	}

	log.Info("final report",
		slog.Int("books_remaining", report.BooksRemaining),
		slog.Int("pending_requests", report.PendingRequests),
		slog.Int64("served", report.Served),
		slog.Int64("unavailable", report.Unavailable),
		slog.Int64("rejected", report.Rejected))

	fmt.Println(report.String())
}
