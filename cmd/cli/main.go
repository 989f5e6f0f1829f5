package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hamed0406/capprobe/internal/cli"
)

func main() {
	// SIGINT stops the run; probes that have not started are reported as skipped.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
