package segmenter

import (
	"fmt"
	"math"

	"audiosrt/internal/services"
)

const (
	DefaultMaxChars    = 50
	DefaultMaxDuration = 5.0
)

// Options holds the width and duration ceilings for a cue.
type Options struct {
	// MaxChars is measured in Unicode code points.
	MaxChars int
	// MaxDuration is in seconds.
	MaxDuration float64
}

// DefaultOptions returns the standard 50 character / 5 second limits.
func DefaultOptions() Options {
	return Options{MaxChars: DefaultMaxChars, MaxDuration: DefaultMaxDuration}
}

// Validate rejects non-positive or non-finite limits.
func (o Options) Validate() error {
	if o.MaxChars <= 0 {
		return services.Wrap(services.ErrConfiguration, "segmenter", "validate options",
			fmt.Sprintf("max chars must be positive, got %d", o.MaxChars), nil)
	}
	if math.IsNaN(o.MaxDuration) || math.IsInf(o.MaxDuration, 0) || o.MaxDuration <= 0 {
		return services.Wrap(services.ErrConfiguration, "segmenter", "validate options",
			fmt.Sprintf("max duration must be a positive number of seconds, got %v", o.MaxDuration), nil)
	}
	return nil
}
