// Package config loads, normalizes, and validates clipdeck configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, canonicalises language codes, and honours
// environment fallbacks such as OPENAI_API_KEY and HF_TOKEN. The Config type
// centralizes every knob the pipeline and CLI need so output directories,
// engine selection, and worker pools are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
