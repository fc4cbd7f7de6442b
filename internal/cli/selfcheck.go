package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errSelfCheckFailed = errors.New("self-check failed")

func newSelfCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "selfcheck",
		Short: "Verify the A-weighting filter at the configured sample rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}

			check, err := a.SelfCheck()
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), RenderSelfCheck(check)); err != nil {
				return err
			}

			if !check.OK() {
				return errSelfCheckFailed
			}

			return nil
		},
	}
}
