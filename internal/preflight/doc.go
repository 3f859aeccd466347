// Package preflight provides readiness checks for the external tools,
// endpoints and filesystem paths that audiosrt depends on.
//
// The `audiosrt doctor` command runs RunAll and CheckSystemDeps and renders
// the results. Checks that only apply to one backend are skipped when a
// different backend is configured.
package preflight
