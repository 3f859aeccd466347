// Package audio inspects and prepares audio files ahead of transcription.
//
// Probe reads WAV headers to report duration and format so written subtitles
// can be checked against the audio length. Converter wraps ffmpeg to produce
// the 16 kHz mono PCM WAV that speech models expect, skipping the conversion
// when the input already matches.
package audio
