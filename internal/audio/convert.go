package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// FFmpegCommand is the default ffmpeg executable.
const FFmpegCommand = "ffmpeg"

// CommandRunner executes an external command, returning an error that
// includes its output on failure.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Converter resamples audio to 16 kHz mono PCM WAV with ffmpeg.
type Converter struct {
	ffmpegBinary  string
	commandRunner CommandRunner
}

// NewConverter returns a Converter using the given ffmpeg binary.
func NewConverter(ffmpegBinary string) *Converter {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = FFmpegCommand
	}
	return &Converter{ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Converter) WithCommandRunner(runner CommandRunner) {
	c.commandRunner = runner
}

// ToWAV converts source into a speech-ready WAV at dest.
func (c *Converter) ToWAV(ctx context.Context, source, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("convert audio: ensure output dir: %w", err)
	}
	if err := c.run(ctx, c.ffmpegBinary, buildWAVArgs(source, dest)...); err != nil {
		return fmt.Errorf("ffmpeg convert: %w", err)
	}
	return nil
}

// Prepare returns a path to speech-ready audio for source. WAV input already
// in the target format is returned unchanged; anything else is converted into
// workDir. The cleanup function removes any file Prepare created.
func (c *Converter) Prepare(ctx context.Context, source, workDir string) (string, func(), error) {
	if info, err := Probe(source); err == nil && info.IsTarget() {
		return source, func() {}, nil
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	dest := filepath.Join(workDir, base+".16k.wav")
	if err := c.ToWAV(ctx, source, dest); err != nil {
		return "", func() {}, err
	}
	return dest, func() { _ = os.Remove(dest) }, nil
}

func (c *Converter) run(ctx context.Context, name string, args ...string) error {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func buildWAVArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", strconv.Itoa(TargetChannels),
		"-ar", strconv.Itoa(TargetSampleRate),
		"-c:a", "pcm_s16le",
		dest,
	}
}
