// Command imgshare is the command-line client for the image-sharing service.
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
	defer stop()

	a := &app{logOut: os.Stderr}
	if err := run(ctx, a, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describeError(err))
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command failure to callers
	}
}
