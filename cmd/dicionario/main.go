// Command dicionario serves the Portuguese dictionary API and runs its
// maintenance tasks.
//
// Usage:
//
//	dicionario [serve]             start the HTTP server (default)
//	dicionario migrate up|down|status
//	dicionario resolve <term>      resolve one term and print it as JSON
//	dicionario prune-history       delete word history past the retention window
//	dicionario version
//
// Configuration comes from --config, CONFIG_PATH or ./config.yaml,
// overlaid with environment variables.
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

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
