// Package transcript defines the timed transcription model exchanged between
// recognition backends and the subtitle segmenter.
//
// Words and segments are built through NewWord and NewSegment so every value
// downstream code sees has ordered, non-negative timestamps. A segment keeps
// the distinction between "no word timings" (nil words) and "word timings
// requested but empty", which drives the segmenter's fallback choice.
package transcript
