package segmenter

import (
	"strings"
	"unicode/utf8"

	"audiosrt/internal/subtitles"
	"audiosrt/internal/transcript"
)

// span is an unnumbered cue.
type span struct {
	text  string
	start float64
	end   float64
}

// Segmenter converts segments into cues, numbering them from 1 across calls.
// It is not safe for concurrent use.
type Segmenter struct {
	opts Options
	next int
}

// New validates opts and returns a Segmenter whose first cue is numbered 1.
func New(opts Options) (*Segmenter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Segmenter{opts: opts, next: 1}, nil
}

// Options returns the limits in effect.
func (s *Segmenter) Options() Options {
	return s.opts
}

// Reset restarts cue numbering at 1.
func (s *Segmenter) Reset() {
	s.next = 1
}

// Segment converts one segment into zero or more cues. Segments whose text is
// blank produce nothing and consume no index.
func (s *Segmenter) Segment(seg transcript.Segment) []subtitles.Cue {
	spans := s.split(seg)
	cues := make([]subtitles.Cue, 0, len(spans))
	for _, sp := range spans {
		cues = append(cues, subtitles.Cue{
			Index: s.next,
			Start: sp.start,
			End:   sp.end,
			Text:  sp.text,
		})
		s.next++
	}
	return cues
}

// SegmentAll converts segments in order, continuing the cue numbering.
func (s *Segmenter) SegmentAll(segs []transcript.Segment) []subtitles.Cue {
	var cues []subtitles.Cue
	for _, seg := range segs {
		cues = append(cues, s.Segment(seg)...)
	}
	return cues
}

// Cues segments a full transcript with fresh numbering.
func Cues(t transcript.Transcript, opts Options) ([]subtitles.Cue, error) {
	s, err := New(opts)
	if err != nil {
		return nil, err
	}
	return s.SegmentAll(t.Segments), nil
}

func (s *Segmenter) split(seg transcript.Segment) []span {
	text := strings.TrimSpace(seg.Text())
	if text == "" {
		return nil
	}
	whole := span{text: text, start: seg.Start(), end: seg.End()}
	if s.withinLimits(text, seg.Duration()) {
		return []span{whole}
	}
	if !seg.HasWordTimings() {
		return splitByTime(text, seg.Start(), seg.End())
	}

	words := seg.Words()
	if len(words) == 0 || zeroSpan(words) {
		return []span{whole}
	}
	spans := splitByWords(words, s.opts)
	if len(spans) == 0 {
		// Word tokens were all blank while the segment text was not.
		return []span{whole}
	}
	return spans
}

func (s *Segmenter) withinLimits(text string, duration float64) bool {
	return runeLen(text) <= s.opts.MaxChars && duration <= s.opts.MaxDuration
}

func zeroSpan(words []transcript.Word) bool {
	return words[len(words)-1].End == words[0].Start
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
