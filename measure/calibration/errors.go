package calibration

import (
	"errors"
	"fmt"
)

var (
	// ErrToneNotDetected matches *ToneNotDetectedError.
	ErrToneNotDetected = errors.New("calibration: tone not detected")
	// ErrImplausibleOffset matches *ImplausibleOffsetError.
	ErrImplausibleOffset = errors.New("calibration: implausible offset")
	// ErrStoreUnavailable reports a store that could not be read or written.
	// Callers fall back to the placeholder offset.
	ErrStoreUnavailable = errors.New("calibration: store unavailable")
)

// ToneNotDetectedError is returned by hard calibration when the reference
// tone does not reach MinToneSNR.
type ToneNotDetectedError struct {
	SNR float64
}

func (e *ToneNotDetectedError) Error() string {
	return fmt.Sprintf("tone not detected (SNR %.1f dB)", e.SNR)
}

// Is makes errors.Is(err, ErrToneNotDetected) hold.
func (e *ToneNotDetectedError) Is(target error) bool {
	return target == ErrToneNotDetected
}

// ImplausibleOffsetError is returned when a computed offset falls outside
// [MinOffsetDB, MaxOffsetDB].
type ImplausibleOffsetError struct {
	Offset float64
}

func (e *ImplausibleOffsetError) Error() string {
	return fmt.Sprintf("offset %.2f dB outside [%g, %g] dB", e.Offset, MinOffsetDB, MaxOffsetDB)
}

// Is makes errors.Is(err, ErrImplausibleOffset) hold.
func (e *ImplausibleOffsetError) Is(target error) bool {
	return target == ErrImplausibleOffset
}
