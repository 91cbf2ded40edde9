// Package cards assembles aligned sentences, their translations, and clip
// file names into a flashcard import file.
//
// Each line of the file is one note:
//
//	[sound:lesson-0-clip.mp4];Hola mundo.<br>Hello world.
//
// An optional "#tags:" header applies tags to every note. Field separators
// inside sentence text are not escaped; UnsafeRecords reports them so the
// caller can warn.
package cards
