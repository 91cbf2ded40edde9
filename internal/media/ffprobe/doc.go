// Package ffprobe inspects source media with ffprobe before a run starts.
//
// Inspect returns the parsed stream and container metadata; RequireAudio
// rejects sources that have nothing to transcribe or slice.
package ffprobe
