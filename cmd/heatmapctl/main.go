// Command heatmapctl renders the temperature heatmaps offline and dumps the
// aggregates behind them.
//
// Usage:
//
//	heatmapctl render --level 2 --mode min -o level2.svg
//	heatmapctl aggregates --level 1 --format yaml
//	heatmapctl cell --year 2012 --month 7 -o july.svg
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
