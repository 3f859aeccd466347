package segmenter

import (
	"strings"

	"audiosrt/internal/transcript"
)

type splitState int

const (
	// stateClosed: no pending cue; the next word opens one.
	stateClosed splitState = iota
	// stateAccumulating: at least one word is pending.
	stateAccumulating
)

// wordSplitter greedily packs words into cues. A pending cue is closed when
// adding the next word would exceed either limit.
type wordSplitter struct {
	opts    Options
	state   splitState
	acc     strings.Builder
	anchor  float64
	lastEnd float64
	prevEnd float64
	hasPrev bool
	out     []span
}

func newWordSplitter(opts Options) *wordSplitter {
	return &wordSplitter{opts: opts}
}

func (w *wordSplitter) feed(word transcript.Word) {
	if w.state == stateAccumulating {
		candidate := w.acc.String() + word.Text
		duration := word.End - w.anchor
		if runeLen(candidate) <= w.opts.MaxChars && duration <= w.opts.MaxDuration {
			w.acc.WriteString(word.Text)
			w.lastEnd = word.End
			return
		}
		w.close()
	}
	w.open(word)
}

func (w *wordSplitter) open(word transcript.Word) {
	w.state = stateAccumulating
	w.acc.Reset()
	w.acc.WriteString(word.Text)
	w.anchor = word.Start
	if w.hasPrev && w.anchor < w.prevEnd {
		w.anchor = w.prevEnd
	}
	w.lastEnd = word.End
}

func (w *wordSplitter) close() {
	if w.state != stateAccumulating {
		return
	}
	w.state = stateClosed
	text := strings.TrimSpace(w.acc.String())
	w.acc.Reset()
	if text == "" {
		return
	}
	end := w.lastEnd
	if end < w.anchor {
		end = w.anchor
	}
	w.out = append(w.out, span{text: text, start: w.anchor, end: end})
	w.prevEnd = end
	w.hasPrev = true
}

// finish closes any pending cue and returns all cues produced. The last cue
// ends at its last word's end, which may be earlier than the segment end.
func (w *wordSplitter) finish() []span {
	w.close()
	return w.out
}

func splitByWords(words []transcript.Word, opts Options) []span {
	w := newWordSplitter(opts)
	for _, word := range words {
		w.feed(word)
	}
	return w.finish()
}
