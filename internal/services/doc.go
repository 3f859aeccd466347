// Package services defines shared utilities consumed by the conversion
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, source files, and batch
//     positions for logging and history records.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses (failed, not_found, invalid).
//
// Use these helpers when wiring new adapters so operational behaviour (error
// handling, observability) stays uniform across single-file and batch runs.
package services
