// Package convert turns audio files into SubRip subtitles.
//
// A Service owns one transcriber for its whole lifetime and runs files
// strictly one after another: transcribe, segment, write, validate, record.
// Convert handles a single file and surfaces its error to the caller. Batch
// walks one directory, isolates per-file failures, and reports a summary.
package convert
