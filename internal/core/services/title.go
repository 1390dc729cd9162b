package services

import (
	"regexp"
	"strings"
	"unicode"
)

// Noise patterns stripped from filename-derived titles. Order matters:
// later patterns rely on earlier removals leaving collapsible whitespace.
var (
	bracketedRun = regexp.MustCompile(`\[.*?\]`)
	numericRange = regexp.MustCompile(`\d+[-~]\d+`)
	noiseToken   = regexp.MustCompile(`完|@\S*|텍본`)
	spaceRun     = regexp.MustCompile(`\s+`)
)

// SanitizeTitle strips known filename noise from a candidate book title:
// bracketed tags, volume/chapter ranges, the completion marker, uploader
// tags and the raw-text marker. The result may be empty when the whole stem
// was noise; callers substitute a fallback label in that case.
// SanitizeTitle is idempotent.
func SanitizeTitle(stem string) string {
	title := bracketedRun.ReplaceAllString(stem, "")
	title = numericRange.ReplaceAllString(title, "")
	title = noiseToken.ReplaceAllString(title, "")
	return strings.TrimSpace(spaceRun.ReplaceAllString(title, " "))
}

// SafeFileName reduces a title to filesystem-safe characters: letters,
// digits, spaces, hyphens and underscores survive, everything else is
// dropped.
func SafeFileName(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
