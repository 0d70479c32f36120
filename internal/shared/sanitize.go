package shared

import (
	"fmt"
	"strings"
)

// maxTitleLength is the longest title either platform accepts.
const maxTitleLength = 100

// placeholderTitle is substituted when sanitization leaves an empty title.
const placeholderTitle = "Untitled Video"

// SanitizeTitle strips characters the platforms reject from a title and enforces the
// length limit, returning the usable title plus human-readable warnings.
//
// It never fails: an empty result is replaced with a placeholder.
func SanitizeTitle(title string) (string, []string) {
	var warnings []string
	sanitized := title

	for _, ch := range []string{"<", ">"} {
		if strings.Contains(sanitized, ch) {
			sanitized = strings.ReplaceAll(sanitized, ch, "")
			warnings = append(warnings, fmt.Sprintf("Removed invalid character: %q", ch))
		}
	}

	if n := len([]rune(sanitized)); n > maxTitleLength {
		warnings = append(warnings, fmt.Sprintf("Title is %d characters (max %d). It will be truncated.", n, maxTitleLength))
		sanitized = string([]rune(sanitized)[:maxTitleLength])
	} else if n == 0 {
		warnings = append(warnings, "Title is empty after sanitization. Using default.")
		sanitized = placeholderTitle
	}

	return sanitized, warnings
}
