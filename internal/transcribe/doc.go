// Package transcribe produces word-timestamped transcripts by running a
// speech recognizer over the source audio.
//
// Two engines are supported:
//   - whisper: the openai-whisper CLI with --word_timestamps
//   - whisperx: WhisperX launched through uvx, with forced alignment
//
// Both start from a mono 16 kHz WAV extracted with ffmpeg and write their
// JSON output into a scratch directory, which is decoded into a
// transcript.Transcript.
package transcribe
