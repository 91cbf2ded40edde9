// Package main hosts the clipdeck CLI entrypoint and command graph.
//
// The Cobra command tree turns a recording into sentence clips and a
// flashcard import file (run), checks external tools (check), and exposes
// the local state kept between runs: translation cache (cache), run history
// (history), and configuration scaffolding (config).
//
// Keep this package thin. Pipeline behaviour lives in internal packages; the
// commands here resolve configuration, apply flag overrides, and render
// results.
package main
