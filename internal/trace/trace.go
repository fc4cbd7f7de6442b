// Package trace writes Fast time-weighted level traces as CSV.
package trace

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/cwbudde/algo-slm/measure/spl"
)

// Header is the first CSV row.
var Header = []string{"t_sec", "LAF_dB"}

// ErrLengthMismatch is returned when times and levels differ in length.
var ErrLengthMismatch = errors.New("trace: times and levels differ in length")

// CSVFile writes one trace per call to Path, replacing earlier content.
type CSVFile struct {
	Path string
}

var _ spl.TraceSink = CSVFile{}

// WriteTrace implements spl.TraceSink.
func (f CSVFile) WriteTrace(times, levels []float64) (err error) {
	if len(times) != len(levels) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(times), len(levels))
	}

	file, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("trace: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(file)
	w := csv.NewWriter(bw)

	if err := w.Write(Header); err != nil {
		return fmt.Errorf("trace: %w", err)
	}

	row := make([]string, 2)
	for i := range times {
		row[0] = strconv.FormatFloat(times[i], 'f', -1, 64)
		row[1] = strconv.FormatFloat(levels[i], 'f', 4, 64)

		if err := w.Write(row); err != nil {
			return fmt.Errorf("trace: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("trace: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("trace: %w", err)
	}

	return nil
}
