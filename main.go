// Package main implements a CLI tool that computes the next semantic version
// of a git repository from its Conventional Commits and publishes a GitHub release.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd, err := newRootCmd(os.Stdout, os.Stderr)
	if err == nil {
		err = cmd.ExecuteContext(ctx)
	}
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
