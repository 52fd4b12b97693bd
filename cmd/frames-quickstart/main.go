package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonhull/frames-quickstart/internal/commands"
	"github.com/simonhull/frames-quickstart/internal/input"
	"github.com/simonhull/frames-quickstart/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.RootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	if errors.Is(err, input.ErrInterrupted) || errors.Is(err, context.Canceled) {
		output.Error("Cancelled")
		os.Exit(130)
	}
	output.Error(err.Error())
	os.Exit(1)
}
