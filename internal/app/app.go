// Package app runs measurement and calibration sessions: capture, offset
// resolution, metrics and persistence, with structured logging.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-slm/dsp/filter/weighting"
	"github.com/cwbudde/algo-slm/internal/calstore"
	"github.com/cwbudde/algo-slm/internal/capture"
	"github.com/cwbudde/algo-slm/internal/config"
	"github.com/cwbudde/algo-slm/internal/trace"
	"github.com/cwbudde/algo-slm/measure/calibration"
	"github.com/cwbudde/algo-slm/measure/spl"
)

// ErrNoSource is returned when no capture source is configured.
var ErrNoSource = errors.New("app: no capture source configured (set an input file)")

// CalibrationMode selects hard (calibrator tone) or soft (reference meter).
type CalibrationMode int

const (
	CalibrateHard CalibrationMode = iota
	CalibrateSoft
)

func (m CalibrationMode) String() string {
	if m == CalibrateSoft {
		return "soft"
	}
	return "hard"
}

// Measurement is the outcome of one measurement session.
type Measurement struct {
	Device     string
	SampleRate float64
	Channels   int
	// Selected is the analysed channel, -1 when channels were averaged.
	Selected int
	Window   spl.Window
	Offset   calibration.Offset
	Metrics  spl.Result

	// RawRMS and RawPeak are unweighted full-scale values of the capture.
	RawRMS  float64
	RawPeak float64

	// Check is set when the self-check ran before measuring.
	Check *weighting.Check
	// Trace is the CSV path written, if any.
	Trace string
}

// Calibration is the outcome of a calibration session.
type Calibration struct {
	Mode   CalibrationMode
	Key    calibration.Key
	Target float64
	Result calibration.Result
	// StorePath is where the offset was saved.
	StorePath string
}

// Option configures an App.
type Option func(*App)

// WithSource replaces the configured capture source.
func WithSource(s capture.Source) Option {
	return func(a *App) { a.source = s }
}

// WithStore replaces the configured calibration store.
func WithStore(s calibration.Store) Option {
	return func(a *App) { a.store = s }
}

// App runs sessions for one configuration.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	source capture.Source
	store  calibration.Store
	engine *calibration.Engine
}

// New creates an App. Without options the source is the configured WAV
// input and the store is the configured YAML file. An App without a source
// can still run the self-check.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{cfg: cfg, logger: logger}

	if cfg.Capture.Input != "" {
		a.source = capture.WAVFile{Path: cfg.Capture.Input}
	}

	a.store = calstore.New(cfg.Calibration.File)

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	a.engine = calibration.NewEngine(a.store)

	logger.Debug("session initialized",
		zap.String("device", cfg.Capture.Device),
		zap.String("input", cfg.Capture.Input),
		zap.Int("sample_rate", cfg.Capture.SampleRate),
		zap.Int("channels", cfg.Capture.Channels),
		zap.String("channel_mode", cfg.Capture.Mode().String()),
		zap.String("calibration_file", cfg.Calibration.File),
	)

	return a, nil
}

// SelfCheck verifies the A filter at the configured sample rate.
func (a *App) SelfCheck() (weighting.Check, error) {
	check, err := weighting.Verify(float64(a.cfg.Capture.SampleRate))
	if err != nil {
		return check, fmt.Errorf("app: self-check: %w", err)
	}

	fields := []zap.Field{
		zap.Float64("sample_rate", check.SampleRate),
		zap.Float64("gain_db", check.GainDB),
		zap.Float64("rms_error_db", check.RMSErrorDB),
	}

	if check.OK() {
		a.logger.Debug("self-check passed", fields...)
	} else {
		a.logger.Warn("self-check failed", fields...)
	}

	return check, nil
}

// Measure captures audio and computes its metrics with the resolved offset.
func (a *App) Measure(ctx context.Context) (Measurement, error) {
	var m Measurement

	if a.cfg.SelfCheck {
		check, err := a.SelfCheck()
		if err != nil {
			return m, err
		}
		m.Check = &check
	}

	rec, err := a.capture(ctx)
	if err != nil {
		return m, err
	}

	key := a.key(rec)
	m.Device = rec.Device
	m.SampleRate = rec.Buffer.SampleRate
	m.Channels = rec.Channels
	m.Selected = rec.Selected
	m.RawRMS = rec.RawRMS()
	m.RawPeak = rec.RawPeak()
	m.Window = a.window()
	m.Offset = a.resolveOffset(key)

	var sink spl.TraceSink
	if a.cfg.Trace != "" {
		sink = trace.CSVFile{Path: a.cfg.Trace}
		m.Trace = a.cfg.Trace
	}

	m.Metrics, err = spl.Compute(rec.Buffer, m.Offset.DB, m.Window, sink)
	if err != nil {
		return m, fmt.Errorf("app: measure: %w", err)
	}

	a.logger.Info("measurement complete",
		zap.String("device", m.Device),
		zap.Stringer("window", m.Window),
		zap.Float64("offset_db", m.Offset.DB),
		zap.Bool("calibrated", m.Offset.Calibrated),
		zap.Float64("laeq", m.Metrics.LeqA),
		zap.Float64("lafmax", m.Metrics.LAFmax),
		zap.Float64("lafmin", m.Metrics.LAFmin),
		zap.Float64("lapeak", m.Metrics.LApeak),
	)

	return m, nil
}

// Calibrate captures audio and calibrates against target (the calibrator
// level for hard mode, the reference LAeq for soft mode). The offset is
// stored only if calibration succeeds.
func (a *App) Calibrate(ctx context.Context, mode CalibrationMode, target float64) (Calibration, error) {
	out := Calibration{Mode: mode, Target: target}

	rec, err := a.capture(ctx)
	if err != nil {
		return out, err
	}

	out.Key = a.key(rec)
	if s, ok := a.store.(*calstore.Store); ok {
		out.StorePath = s.Path()
	}

	switch mode {
	case CalibrateSoft:
		out.Result, err = a.engine.CalibrateSoft(out.Key, rec.Buffer, a.window(), target)
	default:
		out.Result, err = a.engine.CalibrateHard(out.Key, rec.Buffer, a.window(), target)
	}

	if err != nil {
		a.logger.Error("calibration failed",
			zap.Stringer("mode", mode),
			zap.Stringer("key", out.Key),
			zap.Float64("target_db", target),
			zap.Float64("snr_db", out.Result.SNR),
			zap.Float64("offset_db", out.Result.OffsetDB),
			zap.Error(err),
		)

		return out, err
	}

	a.logger.Info("calibration saved",
		zap.Stringer("mode", mode),
		zap.Stringer("key", out.Key),
		zap.Float64("offset_db", out.Result.OffsetDB),
		zap.Float64("rms_fs", out.Result.RMS),
		zap.Float64("snr_db", out.Result.SNR),
	)

	return out, nil
}

func (a *App) capture(ctx context.Context) (capture.Recording, error) {
	if a.source == nil {
		return capture.Recording{}, ErrNoSource
	}

	req := capture.Request{
		Device:     a.cfg.Capture.Device,
		SampleRate: a.cfg.Capture.SampleRate,
		Channels:   a.cfg.Capture.Channels,
		Duration:   a.cfg.Capture.Duration(),
		PreRoll:    a.cfg.Capture.PreRoll(),
		Mode:       a.cfg.Capture.Mode(),
	}

	rec, err := a.source.Capture(ctx, req)
	if err != nil {
		return rec, fmt.Errorf("app: capture: %w", err)
	}

	a.logger.Debug("capture complete",
		zap.String("device", rec.Device),
		zap.Float64("sample_rate", rec.Buffer.SampleRate),
		zap.Int("samples", rec.Buffer.Len()),
		zap.Int("channel", rec.Selected),
		zap.Float64("raw_rms_fs", rec.RawRMS()),
		zap.Float64("raw_peak_fs", rec.RawPeak()),
	)

	return rec, nil
}

func (a *App) key(rec capture.Recording) calibration.Key {
	return calibration.Key{
		Device:     rec.Device,
		SampleRate: int(rec.Buffer.SampleRate),
		Channels:   rec.Channels,
	}
}

func (a *App) window() spl.Window {
	return spl.Window{Start: a.cfg.Analysis.StartOffset(), Length: a.cfg.Analysis.Window()}
}

// resolveOffset applies the override, then the store, then the placeholder.
func (a *App) resolveOffset(key calibration.Key) calibration.Offset {
	if o := a.cfg.Calibration.Offset; o != nil {
		return calibration.Override(*o)
	}

	off, err := a.engine.Resolve(key)
	if err != nil {
		a.logger.Warn("calibration store unavailable, using placeholder offset",
			zap.Stringer("key", key),
			zap.Float64("offset_db", off.DB),
			zap.Error(err),
		)

		return off
	}

	if !off.Calibrated {
		a.logger.Debug("no calibration found, using placeholder offset",
			zap.Stringer("key", key),
			zap.Float64("offset_db", off.DB),
		)
	}

	return off
}
