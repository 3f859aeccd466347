// Package main hosts the audiosrt CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds
// the configured transcription backend, and hands the work to the convert
// service. Auxiliary commands inspect the run history, check external tools
// and validate existing subtitle files.
package main
