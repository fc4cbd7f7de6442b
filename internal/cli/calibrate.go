package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-slm/internal/app"
	"github.com/cwbudde/algo-slm/measure/calibration"
)

func newCalibrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Calibrate the recording chain",
		Long: `Derive and store the offset that maps full-scale RMS to dB SPL.

A failed calibration leaves the calibration file untouched.`,
	}

	hard := &cobra.Command{
		Use:   "hard",
		Short: "Calibrate against an acoustic calibrator tone at 1 kHz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrate(cmd, opts, app.CalibrateHard, opts.cfg.Calibration.KnownSPL)
		},
	}
	hard.Flags().Float64("known-spl", calibration.DefaultKnownSPL, "calibrator level in dB SPL")

	var reference float64

	soft := &cobra.Command{
		Use:   "soft",
		Short: "Calibrate against the LAeq of a reference meter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrate(cmd, opts, app.CalibrateSoft, reference)
		},
	}
	soft.Flags().Float64Var(&reference, "reference-spl", 0, "LAeq reported by the reference meter in dB")
	_ = soft.MarkFlagRequired("reference-spl")

	cmd.AddCommand(hard, soft)

	return cmd
}

func runCalibrate(cmd *cobra.Command, opts *options, mode app.CalibrationMode, target float64) error {
	a, err := opts.newApp()
	if err != nil {
		return err
	}

	c, err := a.Calibrate(cmd.Context(), mode, target)
	if err != nil {
		return fmt.Errorf("%s calibration: %w", mode, err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), RenderCalibration(c))
	return err
}
