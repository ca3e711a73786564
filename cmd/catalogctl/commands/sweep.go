package commands

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	bookJob "library-catalog/internal/domains/book/job"
	"library-catalog/internal/infrastructure/queue"
)

var (
	sweepNow    bool
	sweepDryRun bool
	sweepLimit  int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete books whose author no longer exists",
	Long: `Delete books whose author no longer exists.

By default the task is enqueued for the worker. With --now it runs in this process.

Examples:
  catalogctl sweep                  # enqueue catalog:sweep_orphan_books
  catalogctl sweep --now --dry-run  # count orphans without deleting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := bookJob.SweepOrphanBooksPayload{DryRun: sweepDryRun, Limit: sweepLimit}

		c, err := newContainer()
		if err != nil {
			return err
		}
		defer c.Cleanup()

		if sweepNow {
			n, err := bookJob.NewSweepOrphanBooksHandler(c.BookRepo).Sweep(cmd.Context(), payload)
			if err != nil {
				return err
			}
			verb := "deleted"
			if sweepDryRun {
				verb = "found"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %d orphan book(s)\n", verb, n)
			return nil
		}

		client := queue.NewClient(c.Config.Redis)
		defer client.Close()

		return enqueueSweep(cmd.Context(), client, c.Config.Jobs.OrphanSweepQueue, payload, cmd)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().BoolVar(&sweepNow, "now", false, "Run the sweep in this process instead of enqueueing it")
	sweepCmd.Flags().BoolVar(&sweepDryRun, "dry-run", false, "Only count orphan books")
	sweepCmd.Flags().IntVar(&sweepLimit, "limit", 0, "Maximum number of books to delete (0 = all)")
}

func enqueueSweep(ctx context.Context, client *asynq.Client, queueName string, payload bookJob.SweepOrphanBooksPayload, cmd *cobra.Command) error {
	task, err := bookJob.NewSweepOrphanBooksTask(payload)
	if err != nil {
		return err
	}

	info, err := client.EnqueueContext(ctx, task, asynq.Queue(queueName), asynq.MaxRetry(2))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", bookJob.TypeSweepOrphanBooks, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ enqueued %s (id %s, queue %s)\n", info.Type, info.ID, info.Queue)
	return nil
}
