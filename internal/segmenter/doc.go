// Package segmenter turns transcript segments into numbered subtitle cues
// that respect a maximum character width and a maximum display duration.
//
// Segments already within both limits pass through unchanged. Longer ones are
// split at word boundaries using word timestamps, greedily filling each cue
// until the next word would break a limit. Segments without word timings are
// split once, at the middle token and the middle of their time span.
//
// Limits are soft: a single word that alone exceeds them still becomes its own
// cue. Cue numbering runs across all segments of one audio file; use a fresh
// Segmenter (or Reset) per file.
package segmenter
