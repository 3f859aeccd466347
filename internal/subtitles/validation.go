package subtitles

import (
	"fmt"
	"math"
)

// DurationToleranceSeconds is how far the last cue may end from the audio
// duration before the file is flagged.
const DurationToleranceSeconds = 8.0

// Issue codes reported by Validate.
const (
	IssueEmptyFile         = "empty_subtitle_file"
	IssueNoValidTimestamps = "no_valid_timestamps"
)

// ValidateSRTContent checks an SRT file for format issues.
// Returns a list of issues found; empty slice means validation passed.
// audioSeconds <= 0 skips the duration comparison.
func ValidateSRTContent(path string, audioSeconds float64) []string {
	cues, err := ParseFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read_error: %v", err)}
	}
	return Validate(cues, audioSeconds)
}

// Validate checks parsed cues for structural problems.
func Validate(cues []Cue, audioSeconds float64) []string {
	if len(cues) == 0 {
		return []string{IssueEmptyFile}
	}

	var issues []string
	first, last := Bounds(cues)
	if first == 0 && last == 0 {
		issues = append(issues, IssueNoValidTimestamps)
	}

	for i, cue := range cues {
		if cue.Index != i+1 {
			issues = append(issues, fmt.Sprintf("index_gap: position=%d index=%d", i+1, cue.Index))
			break
		}
	}
	for _, cue := range cues {
		if cue.End < cue.Start {
			issues = append(issues, fmt.Sprintf("inverted_cue: index=%d", cue.Index))
			break
		}
	}
	for i := 1; i < len(cues); i++ {
		if cues[i].Start < cues[i-1].End {
			issues = append(issues, fmt.Sprintf("overlapping_cues: index=%d", cues[i].Index))
			break
		}
	}

	if delta, suspect := durationMismatch(last, audioSeconds); suspect {
		issues = append(issues, fmt.Sprintf("duration_mismatch: delta=%.1fs", delta))
	}
	return issues
}

// Bounds returns the earliest start and latest end across cues.
func Bounds(cues []Cue) (float64, float64) {
	if len(cues) == 0 {
		return 0, 0
	}
	first := math.Inf(1)
	var last float64
	for _, cue := range cues {
		first = math.Min(first, cue.Start)
		last = math.Max(last, cue.End)
	}
	return first, last
}

func durationMismatch(last, audioSeconds float64) (float64, bool) {
	if audioSeconds <= 0 || last <= 0 {
		return 0, false
	}
	delta := audioSeconds - last
	return delta, math.Abs(delta) > DurationToleranceSeconds
}
