// Package preflight checks that the directories and external programs a run
// depends on are usable before any work starts.
//
// The run command calls RunAll and SystemDeps and aborts on the first
// failure so a missing ffmpeg is reported before a long transcription. The
// "clipdeck check" command prints the same results as a table and may add
// CheckTranslationAPI for remote translation engines.
package preflight
