// Package services defines shared utilities consumed by the pipeline stages
// and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and the media source
//     for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into consistent run outcomes (invalid input vs tool failure).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
