// Package subtitles reads, writes, and validates SubRip (.srt) subtitle files.
//
// Cues are composed into the canonical block layout (index line, timing line,
// text, blank line) and written with a single whole-file write. The parser is
// lenient about CRLF line endings and period millisecond separators so files
// produced by other tools can be validated too.
package subtitles
