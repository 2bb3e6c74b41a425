package cli

import (
	"time"

	"github.com/spf13/cobra"

	"Astrolabe/internal/domain/models"
)

// ResolveResult is a resolved birth instant.
type ResolveResult struct {
	InstantUTC    time.Time              `json:"instant_utc"`
	JulianDay     float64                `json:"jd"`
	Mode          models.ResolutionMode  `json:"mode"`
	Adjustment    models.LocalAdjustment `json:"adjustment,omitempty"`
	OffsetSeconds int                    `json:"offset_seconds"`
	Zone          string                 `json:"zone,omitempty"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a birth time to a UTC instant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, flags, cmd)
		},
	}
	flags.bindTime(cmd)
	return cmd
}

func runResolve(opts *RootOptions, flags *requestFlags, cmd *cobra.Command) error {
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

	res, err := app.Charts().Resolve(req)
	if err != nil {
		return formatter.Fail(err, "")
	}
	return formatter.Success(resolveView{ResolveResult{
		InstantUTC:    res.Instant,
		JulianDay:     app.Charts().JulianDay(res.Instant),
		Mode:          res.Mode,
		Adjustment:    res.Adjustment,
		OffsetSeconds: res.OffsetSeconds,
		Zone:          res.Zone,
	}}, "")
}
