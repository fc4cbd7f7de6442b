package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMeasureCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Measure A-weighted levels",
		Long: `Capture audio and report LAeq, LAFmax, LAFmin and LApeak.

The offset comes from --offset, else the calibration file, else the 94 dB
placeholder (reported as uncalibrated).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("offset") {
				offset, err := cmd.Flags().GetFloat64("offset")
				if err != nil {
					return err
				}
				opts.cfg.Calibration.Offset = &offset

				if err := opts.cfg.Validate(); err != nil {
					return err
				}
			}

			a, err := opts.newApp()
			if err != nil {
				return err
			}

			m, err := a.Measure(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), RenderMeasurement(m))
			return err
		},
	}

	cmd.Flags().Float64("offset", 0, "calibration offset in dB, bypassing the calibration file")
	cmd.Flags().String("trace", "", "write the LAF trace to this CSV file")
	cmd.Flags().Bool("selfcheck", false, "run the filter self-check first")

	return cmd
}
