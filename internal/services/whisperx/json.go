package whisperx

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	langpkg "audiosrt/internal/language"
	"audiosrt/internal/services"
	"audiosrt/internal/transcript"
)

// Word represents a single word with timing from WhisperX output. Alignment
// leaves Start and End unset for tokens it could not place (often numerals).
type Word struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// Segment represents a transcribed segment from WhisperX JSON output. Words
// is nil when the file carries no word list.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// Payload is the JSON document WhisperX writes.
type Payload struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) (Payload, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Payload{}, err
	}
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Payload{}, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload, nil
}

// LoadTranscript reads a WhisperX JSON file and converts it into a
// transcript. fallbackLanguage is used when the file does not name one.
func LoadTranscript(jsonPath, fallbackLanguage string) (transcript.Transcript, error) {
	payload, err := LoadSegments(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return transcript.Transcript{}, services.Wrap(services.ErrNotFound, "whisperx", "load json", "WhisperX JSON not found", err)
		}
		return transcript.Transcript{}, services.Wrap(services.ErrValidation, "whisperx", "load json", "Unreadable WhisperX JSON", err)
	}
	return payload.Transcript(fallbackLanguage)
}

// Transcript converts the payload into validated transcript segments.
func (p Payload) Transcript(fallbackLanguage string) (transcript.Transcript, error) {
	lang := langpkg.ToISO2(p.Language)
	if lang == "" {
		lang = langpkg.ToISO2(fallbackLanguage)
	}
	spaced := langpkg.UsesWordSpacing(lang)

	out := transcript.Transcript{Language: lang}
	for i, raw := range p.Segments {
		words := repairWords(raw.Words, raw.Start)
		seg, err := transcript.NewSegment(raw.Text, raw.Start, raw.End, transcript.SpaceWords(words, spaced))
		if err != nil {
			return transcript.Transcript{}, services.Wrap(services.ErrValidation, "whisperx", "decode segment", fmt.Sprintf("segment %d", i), err)
		}
		out.Segments = append(out.Segments, seg)
	}
	return out, nil
}

// repairWords fills missing timings from neighbouring words and orders words
// by start time. A missing start takes the previous word's end (or the
// segment start); a missing end takes the word's own start.
func repairWords(raw []Word, segStart float64) []transcript.Word {
	if raw == nil {
		return nil
	}
	words := make([]transcript.Word, 0, len(raw))
	prevEnd := segStart
	for _, w := range raw {
		start := prevEnd
		if w.Start != nil {
			start = *w.Start
		}
		if start < 0 {
			start = 0
		}
		end := start
		if w.End != nil && *w.End > start {
			end = *w.End
		}
		words = append(words, transcript.Word{Text: w.Word, Start: start, End: end})
		prevEnd = end
	}
	sort.SliceStable(words, func(i, j int) bool { return words[i].Start < words[j].Start })
	return words
}
