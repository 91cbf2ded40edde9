package textutil

import (
	"strings"
	"unicode"
)

// fileNameReplacer replaces characters that are unsafe on common filesystems
// or that would break a "[sound:...]" reference inside a card field.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	";", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"[", "",
	"]", "",
)

// SanitizeFileName replaces unsafe characters in a file name. Slashes,
// colons, asterisks, and semicolons become dashes; other unsafe characters
// are removed. Runs of whitespace collapse to a single underscore.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = fileNameReplacer.Replace(name)
	return strings.Join(strings.FieldsFunc(name, unicode.IsSpace), "_")
}
