// Package history persists a record of every conversion attempt in a local
// SQLite database so users can review past runs with `audiosrt history`.
//
// The store is opened per command invocation. Schema changes bump
// schemaVersion; an older database must be cleared before it can be reused.
package history
