package transcript

import (
	"unicode"
	"unicode/utf8"
)

// SpaceWords returns words with a leading space added to any token that does
// not already start with whitespace, so that concatenating word texts yields
// readable text. When spaced is false (scripts written without spaces) the
// words are returned unchanged. A nil slice stays nil.
func SpaceWords(words []Word, spaced bool) []Word {
	if words == nil || !spaced {
		return words
	}
	out := make([]Word, len(words))
	for i, w := range words {
		r, _ := utf8.DecodeRuneInString(w.Text)
		if w.Text != "" && !unicode.IsSpace(r) {
			w.Text = " " + w.Text
		}
		out[i] = w
	}
	return out
}
