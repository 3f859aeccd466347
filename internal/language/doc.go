// Package language normalizes language identifiers reported by transcription
// backends.
//
// Backends disagree on format: WhisperX reports ISO 639-1 codes, OpenAI
// returns English words such as "english", and users may configure BCP 47
// tags like "pt-BR". Everything is folded to ISO 639-1 here, and the package
// knows which scripts are written without spaces between words.
package language
