package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/five82/pathpilot/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	undo, _ := maxprocs.Set()
	defer undo()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCommand(ctx).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pathpilot: %v\n", err)
		return 1
	}
	return 0
}
