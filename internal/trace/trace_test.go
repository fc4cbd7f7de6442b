package trace

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-slm/internal/testutil"
	"github.com/cwbudde/algo-slm/measure/spl"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	return rows
}

func TestWriteTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "laf.csv")
	sink := CSVFile{Path: path}

	require.NoError(t, sink.WriteTrace([]float64{0.5, 0.5000208333}, []float64{-206, 70.98761}))

	rows := readCSV(t, path)
	assert.Equal(t, [][]string{
		{"t_sec", "LAF_dB"},
		{"0.5", "-206.0000"},
		{"0.5000208333", "70.9876"},
	}, rows)
}

func TestWriteTraceTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "laf.csv")
	sink := CSVFile{Path: path}

	require.NoError(t, sink.WriteTrace([]float64{0, 1, 2}, []float64{1, 2, 3}))
	require.NoError(t, sink.WriteTrace([]float64{0}, []float64{9}))

	assert.Len(t, readCSV(t, path), 2)
}

func TestWriteTraceErrors(t *testing.T) {
	err := CSVFile{Path: filepath.Join(t.TempDir(), "x.csv")}.WriteTrace([]float64{1}, nil)
	require.ErrorIs(t, err, ErrLengthMismatch)

	err = CSVFile{Path: filepath.Join(t.TempDir(), "missing", "x.csv")}.WriteTrace(nil, nil)
	require.Error(t, err)
}

func TestComputeWritesTrace(t *testing.T) {
	const fs = 8000.0

	path := filepath.Join(t.TempDir(), "laf.csv")
	buf := spl.Buffer{Samples: testutil.DeterministicSine(1000, fs, 0.1, 8000), SampleRate: fs}

	_, err := spl.Compute(buf, 94, spl.Window{Start: 250 * time.Millisecond}, CSVFile{Path: path})
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 1+6000)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "0.25", rows[1][0])
}
