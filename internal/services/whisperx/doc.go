// Package whisperx runs WhisperX speech recognition and converts its JSON
// output into transcripts with word-level timestamps.
//
// This package handles:
//   - WhisperX invocation through uvx, with CPU or CUDA device selection
//   - Optional ffmpeg resampling to 16 kHz mono WAV before recognition
//   - Decoding WhisperX JSON, repairing words that alignment left untimed
//   - Replaying a previously written WhisperX JSON without rerunning the model
//
// Both Service and Replay implement transcript.Transcriber.
package whisperx
