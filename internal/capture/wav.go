package capture

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-slm/measure/spl"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag; other encodings are rejected.
const wavFormatPCM = 1

const readChunkFrames = 4096

// ErrUnsupportedFormat is returned for WAV files that are not integer PCM.
var ErrUnsupportedFormat = errors.New("capture: unsupported WAV format")

// WAVFile reads recordings from an integer PCM WAV file.
type WAVFile struct {
	Path string
}

var _ Source = WAVFile{}

// Capture decodes the file, skips the pre-roll, truncates to the requested
// duration and reduces the channels per req.Mode. The reported device is
// req.Device, or the file name without extension.
func (f WAVFile) Capture(ctx context.Context, req Request) (Recording, error) {
	if err := ctx.Err(); err != nil {
		return Recording{}, err
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return Recording{}, fmt.Errorf("capture: %w", err)
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return Recording{}, fmt.Errorf("capture: %s: %w", f.Path, err)
		}
		return Recording{}, fmt.Errorf("%w: %s is not a readable WAV file", ErrUnsupportedFormat, f.Path)
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return Recording{}, fmt.Errorf("%w: format tag %d in %s", ErrUnsupportedFormat, dec.WavAudioFormat, f.Path)
	}

	rate := int(dec.SampleRate)
	if req.SampleRate > 0 && req.SampleRate != rate {
		return Recording{}, fmt.Errorf("%w: requested %d Hz, %s is %d Hz", ErrSampleRateMismatch, req.SampleRate, f.Path, rate)
	}

	fileChannels := int(dec.NumChans)
	open := fileChannels
	if req.Channels > 0 {
		if req.Channels > fileChannels {
			return Recording{}, fmt.Errorf("%w: requested %d channels, %s has %d", ErrInvalidChannels, req.Channels, f.Path, fileChannels)
		}
		open = req.Channels
	}

	frames, err := decode(ctx, dec, fileChannels, open)
	if err != nil {
		return Recording{}, fmt.Errorf("capture: %s: %w", f.Path, err)
	}

	skip := int(req.PreRoll.Seconds() * float64(rate))
	total := len(frames) / open
	if skip >= total {
		return Recording{}, fmt.Errorf("%w: %s has %d frames, pre-roll %v", ErrNoAudio, f.Path, total, req.PreRoll)
	}

	end := total
	if req.Duration > 0 {
		end = min(skip+int(math.Round(req.Duration.Seconds()*float64(rate))), total)
	}

	samples, selected, err := Select(frames[skip*open:end*open], open, req.Mode)
	if err != nil {
		return Recording{}, err
	}

	device := req.Device
	if device == "" {
		device = strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
	}

	return Recording{
		Buffer:   spl.Buffer{Samples: samples, SampleRate: float64(rate)},
		Device:   device,
		Channels: open,
		Selected: selected,
	}, nil
}

// decode reads all PCM frames scaled to full scale [-1, 1), keeping the
// first open of fileChannels channels.
func decode(ctx context.Context, dec *wav.Decoder, fileChannels, open int) ([]float64, error) {
	bitDepth := int(dec.BitDepth)
	scale := 1 / math.Pow(2, float64(bitDepth-1))

	var bias float64
	if bitDepth == 8 {
		bias = 128
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: fileChannels, SampleRate: int(dec.SampleRate)},
		Data:   make([]int, readChunkFrames*fileChannels),
	}

	var (
		out     []float64
		pending []int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, err
		}

		if n == 0 {
			break
		}

		// Short reads may end mid-frame; carry the tail into the next round.
		pending = append(pending, buf.Data[:n]...)
		whole := len(pending) - len(pending)%fileChannels

		for i := 0; i < whole; i += fileChannels {
			for c := range open {
				out = append(out, (float64(pending[i+c])-bias)*scale)
			}
		}

		pending = append(pending[:0], pending[whole:]...)
	}

	return out, nil
}
