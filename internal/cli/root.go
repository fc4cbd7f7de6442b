// Package cli implements the splmeter command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-slm/internal/app"
	"github.com/cwbudde/algo-slm/internal/config"
)

// flagKeys maps flag names to configuration keys. Flags not listed here
// are not bound to viper.
var flagKeys = map[string]string{
	"verbose":         "verbose",
	"log-level":       "log_level",
	"input":           "capture.input",
	"device":          "capture.device",
	"fs":              "capture.sample_rate",
	"open-ch":         "capture.channels",
	"duration":        "capture.duration_sec",
	"pre-roll-ms":     "capture.pre_roll_ms",
	"channel-mode":    "capture.channel_mode",
	"start-offset-ms": "analysis.start_offset_ms",
	"window-sec":      "analysis.window_sec",
	"cal-file":        "calibration.file",
	"known-spl":       "calibration.known_spl",
	"trace":           "trace",
	"selfcheck":       "selfcheck",
}

type options struct {
	configFile string
	newLogger  func(level string, verbose bool) (*zap.Logger, error)

	cfg    *config.Config
	logger *zap.Logger
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{newLogger: app.NewLogger})
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "splmeter",
		Short: "Calibrated A-weighted sound level meter",
		Long: `Measure A-weighted sound pressure levels (LAeq, LAFmax, LAFmin, LApeak)
from a recording, and calibrate the recording chain against an acoustic
calibrator or a reference meter.

Calibration offsets are stored per device, sample rate and channel count.
Without a stored offset levels are reported relative to a 94 dB placeholder.

Examples:
  # Calibrate with a 94 dB calibrator recording
  splmeter calibrate hard --input cal-1k.wav --device UR22

  # Measure the first 5 s after a 500 ms offset and write the LAF trace
  splmeter measure --input take.wav --device UR22 --start-offset-ms 500 --window-sec 5 --trace laf.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initialize(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "",
		"config file (default is ./splmeter.yaml or $HOME/.config/splmeter/splmeter.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.StringP("input", "i", "", "WAV file to analyse")
	pf.StringP("device", "d", "", "device name for the calibration key (default is the input file name)")
	pf.Int("fs", 48000, "sample rate in Hz")
	pf.Int("open-ch", 2, "number of channels to open")
	pf.Float64("duration", 10, "capture duration in seconds, 0 for all")
	pf.Int("pre-roll-ms", 200, "lead-in discarded before the capture in ms")
	pf.Int("start-offset-ms", 0, "analysis window start in ms")
	pf.Float64("window-sec", 0, "analysis window length in seconds, 0 to the end")
	pf.String("channel-mode", "loudest", "channel selection (loudest, average, first)")
	pf.String("cal-file", "", "calibration file (default is in the user config directory)")

	root.AddCommand(
		newMeasureCmd(opts),
		newCalibrateCmd(opts),
		newSelfCheckCmd(opts),
	)

	return root
}

// initialize loads the configuration once flags are parsed.
func (o *options) initialize(cmd *cobra.Command) error {
	v := viper.New()
	config.Setup(v, o.configFile)

	if err := bindFlags(cmd, v); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if err := config.ReadFile(v, o.configFile != ""); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := o.newLogger(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return err
	}

	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}

	o.cfg = cfg
	o.logger = logger

	return nil
}

// bindFlags binds each mapped flag to its configuration key, and to an
// environment variable named after the flag.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}

		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}

		envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if err := v.BindEnv(key, config.EnvPrefix+"_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

func (o *options) newApp() (*app.App, error) {
	return app.New(o.cfg, o.logger)
}
