// Package fetch resolves a run source to a local media file.
//
// Local paths are checked for existence. http(s) URLs are downloaded with
// yt-dlp into a temporary directory that the caller removes through
// Source.Release once the run finishes.
package fetch
