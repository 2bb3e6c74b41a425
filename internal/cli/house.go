package cli

import (
	"github.com/spf13/cobra"

	"Astrolabe/internal/services/houses"
	"Astrolabe/pkg/angle"
	"Astrolabe/pkg/util"
)

// HouseResult is the house of one longitude among given cusps.
type HouseResult struct {
	Longitude float64     `json:"lon"`
	Sign      string      `json:"sign"`
	House     int         `json:"house"`
	Fallback  bool        `json:"house_fallback"`
	Cusps     [12]float64 `json:"cusps"`
}

// NewHouseCommand creates the house command.
func NewHouseCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		lon   float64
		cusps string
	)
	cmd := &cobra.Command{
		Use:   "house",
		Short: "Classify a longitude into a house",
		Long: `Find which of twelve houses contains a longitude.

--cusps takes 12 comma-separated cusp longitudes starting with house 1, or 13
values where the first is ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			raw, err := util.ParseFloats(cusps)
			if err != nil {
				return formatter.Fail(WrapExitError(ExitCommandError, "parse --cusps", err), "")
			}
			c, err := houses.CuspsTo12(raw)
			if err != nil {
				return formatter.Fail(err, "")
			}
			l := angle.Normalize(lon)
			house, ok := houses.HouseOf(l, c)
			return formatter.Success(houseView{HouseResult{
				Longitude: l,
				Sign:      angle.SignFromLongitude(l),
				House:     house,
				Fallback:  !ok,
				Cusps:     c,
			}}, "")
		},
	}
	cmd.Flags().Float64Var(&lon, "lon", 0, "ecliptic longitude in degrees")
	cmd.Flags().StringVar(&cusps, "cusps", "", "comma-separated cusp longitudes")
	_ = cmd.MarkFlagRequired("cusps")
	return cmd
}
