package cli

import (
	"github.com/spf13/cobra"

	"Astrolabe/internal/buildinfo"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			if formatter.Format == "json" {
				return formatter.Success(buildinfo.Get(), "")
			}
			return formatter.Success(buildinfo.String(), "")
		},
	}
}
