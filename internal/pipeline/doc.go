// Package pipeline runs one source through every clipdeck stage:
//
//	fetch → probe → transcribe → flatten → split → align → translate → clips → cards
//
// Stages run strictly in sequence. Transcript, alignment, and translation
// failures abort the run before any clip or card is written; individual clip
// failures are collected in the Report and the affected cards are written
// without audio. Every run, successful or not, is recorded in the store's
// run history when a store is configured.
package pipeline
