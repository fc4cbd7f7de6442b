package cli

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-slm/dsp/filter/weighting"
	"github.com/cwbudde/algo-slm/internal/app"
)

// RenderSelfCheck formats a filter self-check.
func RenderSelfCheck(c weighting.Check) string {
	status := "ok"
	if !c.OK() {
		status = "FAILED"
	}

	line := keyValue("Selfcheck", fmt.Sprintf("%s (%s)", c.String(), status))
	if !c.OK() {
		return line + "\n" + WarnStyle.Render(fmt.Sprintf("  tolerances: gain ±%.2f dB, sine RMS ±%.2f dB at %g Hz",
			weighting.GainTolerance, weighting.RMSTolerance, c.SampleRate))
	}

	return line
}

// RenderMeasurement formats a measurement report.
func RenderMeasurement(m app.Measurement) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("Sound level (A-weighted)"))
	sb.WriteString("\n")

	if m.Check != nil {
		sb.WriteString(RenderSelfCheck(*m.Check))
		sb.WriteString("\n")
	}

	sb.WriteString(keyValue("Device", deviceLabel(m)))
	sb.WriteString("\n")
	sb.WriteString(keyValue("Window", m.Window.String()))
	sb.WriteString("\n")
	sb.WriteString(keyValue("Offset", m.Offset.String()))
	sb.WriteString("\n")

	for _, row := range []struct {
		name  string
		level float64
	}{
		{"LAeq", m.Metrics.LeqA},
		{"LAFmax", m.Metrics.LAFmax},
		{"LAFmin", m.Metrics.LAFmin},
		{"LApeak", m.Metrics.LApeak},
	} {
		sb.WriteString(keyValue(row.name, fmt.Sprintf("%.2f dB", row.level)))
		sb.WriteString("\n")
	}

	if m.Trace != "" {
		sb.WriteString(keyValue("Trace", m.Trace))
		sb.WriteString("\n")
	}

	if !m.Offset.Calibrated {
		sb.WriteString(WarnStyle.Render(fmt.Sprintf("uncalibrated: levels assume a %.1f dB placeholder offset", m.Offset.DB)))
		sb.WriteString("\n")
	}

	return sb.String()
}

func deviceLabel(m app.Measurement) string {
	channel := "average"
	if m.Selected >= 0 {
		channel = fmt.Sprintf("channel %d", m.Selected+1)
	}

	return fmt.Sprintf("%s (%g Hz, %s of %d)", m.Device, m.SampleRate, channel, m.Channels)
}

// RenderCalibration formats a saved calibration.
func RenderCalibration(c app.Calibration) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(fmt.Sprintf("Calibration (%s)", c.Mode)))
	sb.WriteString("\n")
	sb.WriteString(keyValue("Key", c.Key.String()))
	sb.WriteString("\n")
	sb.WriteString(keyValue("Target", fmt.Sprintf("%.2f dB", c.Target)))
	sb.WriteString("\n")
	sb.WriteString(keyValue("RMS", fmt.Sprintf("%.3e FS", c.Result.RMS)))
	sb.WriteString("\n")

	if c.Mode == app.CalibrateHard {
		sb.WriteString(keyValue("SNR", fmt.Sprintf("%.1f dB", c.Result.SNR)))
		sb.WriteString("\n")
	}

	saved := fmt.Sprintf("%.2f dB", c.Result.OffsetDB)
	if c.StorePath != "" {
		saved += " -> " + c.StorePath
	}

	sb.WriteString(keyValue("Offset", saved))
	sb.WriteString("\n")

	return sb.String()
}
