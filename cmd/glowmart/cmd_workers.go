package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glowmart/glowmart/app/jobs"
	"github.com/glowmart/glowmart/config"
	"github.com/glowmart/glowmart/pkg/cache"
	"github.com/glowmart/glowmart/pkg/logger"
	"github.com/glowmart/glowmart/pkg/queue"
)

var queueWorkersFlag int

// glowmart queue:work — run queue workers in a standalone process.
// Requires Redis so the workers see jobs pushed by the API process.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cache.Connect(ctx); err != nil {
			return fmt.Errorf("queue:work needs redis: %w", err)
		}
		defer cache.Close()
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))

		jobs.Register()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		logger.Info("queue worker started", "workers", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		queue.Stop()
		logger.Info("queue worker stopped")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVar(&queueWorkersFlag, "workers", 5, "number of concurrent workers")
}
