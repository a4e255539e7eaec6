package simpleexport

import (
	"strings"
	"unicode"
)

const defaultFileName = "data"

// SafeFileName derives a filesystem-safe display name from a file name. The
// result is independent of the content hash used for storage; it is what the
// download link suggests to the user's browser.
func SafeFileName(name string) string {
	base := name
	ext := ""
	if idx := strings.LastIndex(name, "."); idx > 0 {
		base = name[:idx]
		ext = name[idx+1:]
	}

	base = slugify(base)
	ext = slugify(ext)

	if base == "" {
		base = defaultFileName
	}
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// slugify collapses anything that is not a letter, digit, dot or dash into
// single underscores and trims separators from the ends.
func slugify(s string) string {
	var b strings.Builder
	lastSep := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-':
			b.WriteRune(unicode.ToLower(r))
			lastSep = false
		default:
			if !lastSep {
				b.WriteRune('_')
				lastSep = true
			}
		}
	}
	return strings.Trim(b.String(), "_.-")
}
