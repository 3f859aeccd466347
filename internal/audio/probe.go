package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
)

// Target format for speech recognition input.
const (
	TargetSampleRate = 16000
	TargetChannels   = 1
	TargetBitDepth   = 16
)

// ErrUnsupported is returned by Probe for files it cannot inspect.
var ErrUnsupported = errors.New("unsupported audio container")

// Info describes a probed audio file.
type Info struct {
	Duration   float64
	SampleRate int
	Channels   int
	BitDepth   int
}

// IsTarget reports whether the audio already matches the speech model input
// format.
func (i Info) IsTarget() bool {
	return i.SampleRate == TargetSampleRate && i.Channels == TargetChannels && i.BitDepth == TargetBitDepth
}

// Probe reads format details from a WAV file. Other containers return
// ErrUnsupported.
func Probe(path string) (Info, error) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return Info{}, fmt.Errorf("probe %s: %w", filepath.Base(path), ErrUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("probe: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("probe %s: invalid wav file", filepath.Base(path))
	}
	if err := dec.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("probe %s: locate pcm data: %w", filepath.Base(path), err)
	}
	bytesPerSecond := int64(dec.SampleRate) * int64(dec.NumChans) * int64(dec.BitDepth) / 8
	if bytesPerSecond <= 0 {
		return Info{}, fmt.Errorf("probe %s: invalid wav format", filepath.Base(path))
	}
	return Info{
		Duration:   float64(dec.PCMLen()) / float64(bytesPerSecond),
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}, nil
}

// Duration returns the audio length in seconds, or zero when it cannot be
// determined without decoding the stream.
func Duration(path string) float64 {
	info, err := Probe(path)
	if err != nil {
		return 0
	}
	return info.Duration
}
