package calibration

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/algo-slm/measure/spl"
)

// PlaceholderDB is used when no calibration is known. Levels measured with
// it are not absolute.
const PlaceholderDB = 94.0

// Source records where an offset came from.
type Source string

const (
	SourceStore       Source = "store"
	SourceOverride    Source = "override"
	SourceHard        Source = "hard"
	SourceSoft        Source = "soft"
	SourcePlaceholder Source = "placeholder"
)

// Offset is a resolved calibration offset.
type Offset struct {
	DB         float64
	Calibrated bool
	Source     Source
}

// Placeholder returns the uncalibrated fallback offset.
func Placeholder() Offset {
	return Offset{DB: PlaceholderDB, Source: SourcePlaceholder}
}

// Override returns a user-supplied offset that bypasses the store.
func Override(db float64) Offset {
	return Offset{DB: db, Calibrated: true, Source: SourceOverride}
}

func (o Offset) String() string {
	if !o.Calibrated {
		return fmt.Sprintf("%.2f dB (%s, uncalibrated)", o.DB, o.Source)
	}
	return fmt.Sprintf("%.2f dB (%s)", o.DB, o.Source)
}

// Key identifies a calibration: the same microphone chain opened with a
// different rate or channel count is calibrated separately.
type Key struct {
	Device     string
	SampleRate int
	Channels   int
}

// String returns the persisted form "<device>|fs=<rate>|opench=<channels>".
func (k Key) String() string {
	return k.Device + "|fs=" + strconv.Itoa(k.SampleRate) + "|opench=" + strconv.Itoa(k.Channels)
}

// Store persists offsets by key.
type Store interface {
	// Lookup returns the offset for key and whether one was found.
	Lookup(key Key) (float64, bool, error)
	// Upsert inserts or replaces the offset for key.
	Upsert(key Key, offsetDB float64) error
}

// Engine runs calibrations and persists their results.
type Engine struct {
	Store Store
}

// NewEngine returns an engine backed by store.
func NewEngine(store Store) *Engine {
	return &Engine{Store: store}
}

// CalibrateHard runs [Hard] and stores the offset under key on success.
// The result is returned even if persisting fails.
func (e *Engine) CalibrateHard(key Key, buf spl.Buffer, w spl.Window, knownSPL float64) (Result, error) {
	res, err := Hard(buf, w, knownSPL)
	if err != nil {
		return res, err
	}

	return res, e.persist(key, res.OffsetDB)
}

// CalibrateSoft runs [Soft] and stores the offset under key on success.
func (e *Engine) CalibrateSoft(key Key, buf spl.Buffer, w spl.Window, referenceSPL float64) (Result, error) {
	res, err := Soft(buf, w, referenceSPL)
	if err != nil {
		return res, err
	}

	return res, e.persist(key, res.OffsetDB)
}

// Resolve looks up the offset for key. A missing entry yields the
// placeholder with a nil error. A failing store or an implausible stored
// value yields the placeholder together with an error matching
// ErrStoreUnavailable, which callers should log and otherwise ignore.
func (e *Engine) Resolve(key Key) (Offset, error) {
	if e.Store == nil {
		return Placeholder(), fmt.Errorf("%w: no store configured", ErrStoreUnavailable)
	}

	db, ok, err := e.Store.Lookup(key)
	if err != nil {
		return Placeholder(), fmt.Errorf("%w: lookup %q: %w", ErrStoreUnavailable, key, err)
	}

	if !ok {
		return Placeholder(), nil
	}

	if err := ValidateOffset(db); err != nil {
		return Placeholder(), fmt.Errorf("%w: stored entry %q: %w", ErrStoreUnavailable, key, err)
	}

	return Offset{DB: db, Calibrated: true, Source: SourceStore}, nil
}

func (e *Engine) persist(key Key, db float64) error {
	if e.Store == nil {
		return fmt.Errorf("%w: no store configured", ErrStoreUnavailable)
	}

	if err := e.Store.Upsert(key, db); err != nil {
		return fmt.Errorf("calibration: persist %q: %w", key, err)
	}

	return nil
}
