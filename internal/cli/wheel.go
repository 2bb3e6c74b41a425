package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"Astrolabe/internal/domain/models"
	"Astrolabe/internal/services/wheel"
	"Astrolabe/pkg/angle"
)

// WheelResult is the wheel coordinate of one longitude.
type WheelResult struct {
	Longitude float64 `json:"lon"`
	models.WheelCoordinate
}

// NewWheelCommand creates the wheel command.
func NewWheelCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		lon        float64
		gate       int
		line       int
		convention string
	)
	cmd := &cobra.Command{
		Use:   "wheel",
		Short: "Encode a longitude on the 64-gate wheel",
		Long: `Encode an ecliptic longitude as gate, line, color, tone and base.

With --gate (and optionally --line) instead of --lon, the longitude where that
gate and line begin is encoded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			conv, err := wheel.ParseConvention(convention)
			if err != nil {
				return formatter.Fail(err, "")
			}
			if cmd.Flags().Changed("gate") {
				start, ok := wheel.Longitude(gate, line)
				if !ok {
					return formatter.Fail(NewExitError(ExitCommandError,
						fmt.Sprintf("no gate %d line %d on the wheel", gate, line)), "")
				}
				lon = start
			}
			l := angle.Normalize(lon)
			return formatter.Success(wheelView{WheelResult{
				Longitude:       l,
				WheelCoordinate: wheel.Encode(l, conv),
			}}, "")
		},
	}
	cmd.Flags().Float64Var(&lon, "lon", 0, "ecliptic longitude in degrees")
	cmd.Flags().IntVar(&gate, "gate", 0, "gate number 1-64, instead of --lon")
	cmd.Flags().IntVar(&line, "line", 1, "line 1-6 within --gate")
	cmd.Flags().StringVar(&convention, "convention", "standard", "wheel convention (standard|alternate)")
	cmd.MarkFlagsOneRequired("lon", "gate")
	cmd.MarkFlagsMutuallyExclusive("lon", "gate")
	return cmd
}
