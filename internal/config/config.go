// Package config holds the splmeter configuration and its viper wiring.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/cwbudde/algo-slm/dsp/filter/weighting"
	"github.com/cwbudde/algo-slm/internal/calstore"
	"github.com/cwbudde/algo-slm/internal/capture"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. SPLMETER_CAPTURE_SAMPLE_RATE.
	EnvPrefix = "SPLMETER"
	// ConfigName is the config file base name searched for.
	ConfigName = "splmeter"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config represents the application configuration.
type Config struct {
	Verbose  bool   `mapstructure:"verbose"`
	LogLevel string `mapstructure:"log_level"`

	Capture     CaptureConfig     `mapstructure:"capture"`
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	Calibration CalibrationConfig `mapstructure:"calibration"`

	// Trace is the CSV path for the LAF series; empty disables it.
	Trace string `mapstructure:"trace"`
	// SelfCheck runs the filter self-check before measuring.
	SelfCheck bool `mapstructure:"selfcheck"`
}

// CaptureConfig describes where audio comes from.
type CaptureConfig struct {
	// Device is the device name hint and calibration key.
	Device string `mapstructure:"device"`
	// Input is a WAV file standing in for the device.
	Input       string  `mapstructure:"input"`
	SampleRate  int     `mapstructure:"sample_rate"`
	Channels    int     `mapstructure:"channels"`
	DurationSec float64 `mapstructure:"duration_sec"`
	PreRollMS   int     `mapstructure:"pre_roll_ms"`
	ChannelMode string  `mapstructure:"channel_mode"`
}

// AnalysisConfig selects the analysed span of the capture.
type AnalysisConfig struct {
	StartOffsetMS int `mapstructure:"start_offset_ms"`
	// WindowSec is the window length; 0 analyses to the end.
	WindowSec float64 `mapstructure:"window_sec"`
}

// CalibrationConfig controls offset resolution.
type CalibrationConfig struct {
	File string `mapstructure:"file"`
	// Offset bypasses the store when set.
	Offset   *float64 `mapstructure:"offset"`
	KnownSPL float64  `mapstructure:"known_spl"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("trace", "")
	v.SetDefault("selfcheck", false)

	v.SetDefault("capture.device", "")
	v.SetDefault("capture.input", "")
	v.SetDefault("capture.sample_rate", 48000)
	v.SetDefault("capture.channels", 2)
	v.SetDefault("capture.duration_sec", 10.0)
	v.SetDefault("capture.pre_roll_ms", 200)
	v.SetDefault("capture.channel_mode", capture.ModeLoudest.String())

	v.SetDefault("analysis.start_offset_ms", 0)
	v.SetDefault("analysis.window_sec", 0.0)

	v.SetDefault("calibration.file", defaultCalibrationFile())
	v.SetDefault("calibration.known_spl", 94.0)
}

// Setup prepares v for environment overrides and the config file search.
// An explicit file takes precedence over the search path.
func Setup(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	// No default exists for the override, so AutomaticEnv alone would not
	// surface it through Unmarshal.
	_ = v.BindEnv("calibration.offset")

	SetDefaults(v)
}

// ReadFile reads the config file if one is found. A missing file is only an
// error when it was named explicitly.
func ReadFile(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) && !explicit {
		return nil
	}

	return fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}

	if float64(c.Capture.SampleRate) <= weighting.MinSampleRate {
		return fmt.Errorf("%w: sample rate %d Hz must exceed %g Hz", ErrInvalidConfig, c.Capture.SampleRate, weighting.MinSampleRate)
	}

	if c.Capture.Channels < 1 {
		return fmt.Errorf("%w: channels must be >= 1, got %d", ErrInvalidConfig, c.Capture.Channels)
	}

	if c.Capture.DurationSec < 0 || math.IsNaN(c.Capture.DurationSec) {
		return fmt.Errorf("%w: duration must be >= 0, got %v", ErrInvalidConfig, c.Capture.DurationSec)
	}

	if c.Capture.PreRollMS < 0 {
		return fmt.Errorf("%w: pre-roll must be >= 0, got %d ms", ErrInvalidConfig, c.Capture.PreRollMS)
	}

	if _, err := capture.ParseMode(c.Capture.ChannelMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Analysis.StartOffsetMS < 0 {
		return fmt.Errorf("%w: start offset must be >= 0, got %d ms", ErrInvalidConfig, c.Analysis.StartOffsetMS)
	}

	if c.Analysis.WindowSec < 0 || math.IsNaN(c.Analysis.WindowSec) {
		return fmt.Errorf("%w: window must be >= 0, got %v s", ErrInvalidConfig, c.Analysis.WindowSec)
	}

	if math.IsNaN(c.Calibration.KnownSPL) || math.IsInf(c.Calibration.KnownSPL, 0) {
		return fmt.Errorf("%w: known SPL must be finite", ErrInvalidConfig)
	}

	if o := c.Calibration.Offset; o != nil && (math.IsNaN(*o) || math.IsInf(*o, 0)) {
		return fmt.Errorf("%w: offset override must be finite", ErrInvalidConfig)
	}

	return nil
}

// Duration returns the capture length; 0 means all available audio.
func (c CaptureConfig) Duration() time.Duration { return seconds(c.DurationSec) }

// PreRoll returns the discarded lead-in.
func (c CaptureConfig) PreRoll() time.Duration {
	return time.Duration(c.PreRollMS) * time.Millisecond
}

// Mode returns the parsed channel mode, defaulting to loudest.
func (c CaptureConfig) Mode() capture.Mode {
	m, err := capture.ParseMode(c.ChannelMode)
	if err != nil {
		return capture.ModeLoudest
	}
	return m
}

// StartOffset returns the window start.
func (a AnalysisConfig) StartOffset() time.Duration {
	return time.Duration(a.StartOffsetMS) * time.Millisecond
}

// Window returns the window length; 0 means to the end.
func (a AnalysisConfig) Window() time.Duration { return seconds(a.WindowSec) }

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func defaultCalibrationFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, ConfigName, "calibration.yaml")
	}
	return calstore.DefaultFile
}
