package segmenter

import "strings"

// splitByTime halves an over-limit segment that has no word timings. Text is
// split at the middle whitespace token and time at the midpoint. It splits at
// most once, so either half may still exceed the limits.
func splitByTime(text string, start, end float64) []span {
	tokens := strings.Fields(text)
	if len(tokens) < 2 {
		return []span{{text: text, start: start, end: end}}
	}
	half := len(tokens) / 2
	mid := start + (end-start)/2
	return []span{
		{text: strings.Join(tokens[:half], " "), start: start, end: mid},
		{text: strings.Join(tokens[half:], " "), start: mid, end: end},
	}
}
