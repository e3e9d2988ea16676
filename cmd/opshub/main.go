package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/opshub/internal/interfaces/cli"
)

// version se fija en el build: -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh := cli.NewShell(version)
	err := cli.NewRootCommand(sh).ExecuteContext(ctx)
	if err == nil {
		return
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		fmt.Fprintln(os.Stderr, "\nOperation cancelled by user")
		stop()
		os.Exit(cli.ExitInterrupted)
	}
	if !errors.Is(err, cli.ErrAccessDenied) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(cli.ExitCode(err))
}
