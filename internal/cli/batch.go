package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"Astrolabe/internal/domain/models"
)

// BatchItem is one entry of a batch result.
type BatchItem struct {
	Index  int           `json:"index"`
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Chart  *models.Chart `json:"chart,omitempty"`
	Error  *CLIError     `json:"error,omitempty"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Compute charts for every request in a file",
		Long: `Compute charts for a YAML or JSON list of requests, concurrently.

Results are printed in input order. A failing request is reported in place and
makes the command exit with status 1 once all requests are done.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(rootOpts, args[0], workers, cmd)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers (config batch.workers when 0)")
	return cmd
}

func runBatch(opts *RootOptions, path string, workers int, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	reqs, err := loadRequests(path)
	if err != nil {
		return formatter.Fail(err, "")
	}
	app, err := opts.loadApp()
	if err != nil {
		return formatter.Fail(err, "")
	}
	defer func() { _ = app.Shutdown(cmd.Context()) }()

	runner := app.Batch()
	if workers > 0 {
		runner = runner.WithWorkers(workers)
	}
	formatter.VerboseLog("computing %d charts", len(reqs))

	results, runErr := runner.Run(cmd.Context(), reqs)
	items := make([]BatchItem, len(results))
	failed := 0
	for i, res := range results {
		items[i] = BatchItem{Index: res.Index, ID: res.ID, Status: "ok", Chart: res.Chart}
		if res.Err != nil {
			failed++
			code, details := errorCode(res.Err)
			items[i].Status = "error"
			items[i].Error = &CLIError{Code: code, Message: errorMessage(res.Err), Details: details}
		}
	}
	if err := formatter.Success(batchView(items), ""); err != nil {
		return err
	}

	if runErr != nil {
		return &ExitError{Code: ExitFailure, Message: "batch interrupted", Err: runErr, Reported: true}
	}
	if failed > 0 {
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d of %d requests failed", failed, len(items)), Reported: true}
	}
	return nil
}
