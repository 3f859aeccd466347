package transcript

import (
	"context"
	"fmt"
	"math"
)

// Word is a single recognized token with its time span in seconds. Text may
// carry the leading space the recognizer emitted as a separator.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// NewWord validates and returns a Word.
func NewWord(text string, start, end float64) (Word, error) {
	if err := checkSpan(start, end); err != nil {
		return Word{}, fmt.Errorf("word %q: %w", text, err)
	}
	return Word{Text: text, Start: start, End: end}, nil
}

// Duration returns End - Start.
func (w Word) Duration() float64 {
	return w.End - w.Start
}

// Segment is a recognizer-produced chunk of speech. It is immutable after
// construction.
type Segment struct {
	text  string
	start float64
	end   float64
	words []Word
}

// NewSegment validates and returns a Segment. A nil words slice marks a
// segment without word timings; an empty non-nil slice marks one whose
// timings came back empty.
func NewSegment(text string, start, end float64, words []Word) (Segment, error) {
	if err := checkSpan(start, end); err != nil {
		return Segment{}, fmt.Errorf("segment %q: %w", text, err)
	}
	var copied []Word
	if words != nil {
		copied = make([]Word, len(words))
		for i, w := range words {
			if err := checkSpan(w.Start, w.End); err != nil {
				return Segment{}, fmt.Errorf("segment %q word %d (%q): %w", text, i, w.Text, err)
			}
			copied[i] = w
		}
	}
	return Segment{text: text, start: start, end: end, words: copied}, nil
}

func (s Segment) Text() string { return s.text }

func (s Segment) Start() float64 { return s.start }

func (s Segment) End() float64 { return s.end }

// Duration returns End - Start.
func (s Segment) Duration() float64 { return s.end - s.start }

// HasWordTimings reports whether the recognizer supplied word timings, even
// if the list is empty.
func (s Segment) HasWordTimings() bool { return s.words != nil }

// Words returns a copy of the segment's words, preserving nil.
func (s Segment) Words() []Word {
	if s.words == nil {
		return nil
	}
	out := make([]Word, len(s.words))
	copy(out, s.words)
	return out
}

// Transcript is the full recognition result for one audio file.
type Transcript struct {
	// Language is an ISO 639-1 code, empty when unknown.
	Language string
	// Duration is the audio length in seconds, zero when unknown.
	Duration float64
	Segments []Segment
}

// Transcriber turns an audio file into a Transcript with word-level
// timestamps. Implementations must be safe to reuse across files.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (Transcript, error)
}

// TranscriberFunc adapts a function to the Transcriber interface.
type TranscriberFunc func(ctx context.Context, audioPath string) (Transcript, error)

func (f TranscriberFunc) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	return f(ctx, audioPath)
}

func checkSpan(start, end float64) error {
	switch {
	case math.IsNaN(start) || math.IsNaN(end):
		return fmt.Errorf("timestamp is NaN")
	case math.IsInf(start, 0) || math.IsInf(end, 0):
		return fmt.Errorf("timestamp is infinite")
	case start < 0:
		return fmt.Errorf("negative start %.3f", start)
	case start > end:
		return fmt.Errorf("start %.3f after end %.3f", start, end)
	}
	return nil
}
