package utils

import (
	"strings"
	"unicode"
)

// Slugify derives a workflow-step slug from its display name:
// lowercase, alphanumerics kept, runs of anything else collapse to one
// hyphen ("In Progress" -> "in-progress").
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
