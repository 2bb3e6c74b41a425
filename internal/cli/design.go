package cli

import (
	"time"

	"github.com/spf13/cobra"

	"Astrolabe/internal/domain/models"
)

// DesignResult is the design instant of a natal instant with the solver diagnostics.
type DesignResult struct {
	NatalUTC  time.Time           `json:"natal_utc"`
	DesignUTC time.Time           `json:"design_utc"`
	DesignJD  float64             `json:"design_jd"`
	SolarArc  float64             `json:"solar_arc"`
	Solver    models.SolverReport `json:"solver"`
}

// NewDesignCommand creates the design command.
func NewDesignCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Find the design instant of a birth time",
		Long: `Back-solve the instant before birth at which the Sun stood the configured
solar arc (88 degrees by default) behind its natal longitude.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesign(rootOpts, flags, cmd)
		},
	}
	flags.bindTime(cmd)
	return cmd
}

func runDesign(opts *RootOptions, flags *requestFlags, cmd *cobra.Command) error {
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

	builder := app.Charts()
	res, err := builder.Resolve(req)
	if err != nil {
		return formatter.Fail(err, "")
	}
	instant, report, err := builder.DesignInstant(cmd.Context(), res.Instant)
	if err != nil {
		return formatter.Fail(err, "")
	}
	return formatter.Success(designView{DesignResult{
		NatalUTC:  res.Instant,
		DesignUTC: instant.UTC(),
		DesignJD:  builder.JulianDay(instant),
		SolarArc:  builder.Options().SolarArc,
		Solver:    report,
	}}, "")
}
