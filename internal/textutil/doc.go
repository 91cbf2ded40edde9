// Package textutil sanitizes names that end up in clip file names and in
// flashcard sound references.
package textutil
