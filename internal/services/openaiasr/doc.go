// Package openaiasr transcribes audio through an OpenAI-compatible
// /v1/audio/transcriptions endpoint, such as OpenAI itself or a self-hosted
// LocalAI server.
//
// Requests ask for verbose JSON with both word and segment timestamp
// granularities. The response lists words separately from segments, so each
// word is attached to the segment whose span contains its midpoint.
package openaiasr
