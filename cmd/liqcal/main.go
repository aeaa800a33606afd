package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/liqcal/calibration-core/cmd/liqcal/commands"
	"github.com/liqcal/calibration-core/pkg/logger"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx, Version, Commit, BuildDate); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
