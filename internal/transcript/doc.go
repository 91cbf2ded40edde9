// Package transcript models speech-recognition output and flattens it into
// the ordered word sequence the aligner consumes.
//
// Transcripts use the whisper / whisperx JSON layout: a list of segments, each
// with an ordered list of timed words. Flatten preserves recognizer order
// exactly and rejects words with missing or inverted timestamps with a
// *MalformedError so nothing downstream runs on a broken transcript.
package transcript
