// Package store persists the translation cache and run history in a single
// SQLite database under the configured state directory.
//
// The schema is embedded and versioned; a database created by a different
// schema version is rejected with ErrSchemaMismatch and must be cleared.
// Writes retry briefly on SQLITE_BUSY so concurrent translation workers can
// share one handle.
package store
