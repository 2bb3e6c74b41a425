package cli

import (
	"github.com/spf13/cobra"
)

// NewChartCommand creates the chart command.
func NewChartCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute a full chart",
		Long: `Compute a chart for a birth instant and location.

The instant is given either as --timestamp (unix seconds or ISO-8601 UTC) or
as --date/--time with --tz or --raw-offset/--dst-offset. A request file may be
given with --file; flags set explicitly override its fields.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(rootOpts, flags, cmd)
		},
	}
	flags.bindChart(cmd)
	return cmd
}

func runChart(opts *RootOptions, flags *requestFlags, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	req, err := flags.request(cmd)
	if err != nil {
		return formatter.Fail(err, "")
	}
	app, err := opts.loadApp()
	if err != nil {
		return formatter.Fail(err, "")
	}
	defer func() { _ = app.Shutdown(cmd.Context()) }()

	chart, err := app.Charts().Build(cmd.Context(), req)
	if err != nil {
		return formatter.Fail(err, req.ID)
	}
	for _, w := range chart.Warnings {
		formatter.VerboseLog("warning: %s", w)
	}
	return formatter.Success(chartView{chart}, chart.ID)
}
