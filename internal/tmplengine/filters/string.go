package filters

import (
	"regexp"
	"strings"
)

// RegexReplace applies a regular expression substitution, grounded on the
// original implementation's regex-based string filters
// (original_source/src/apply/templating/filters.rs).
func RegexReplace(pattern, replacement, s string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", err
	}
	return re.ReplaceAllString(s, replacement), nil
}

// Truncate shortens s to maxLen runes, appending "..." when truncated.
func Truncate(maxLen int, s string) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// Slugify lower-cases s and replaces runs of non-alphanumeric characters
// with a single hyphen, trimming leading/trailing hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastWasHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastWasHyphen = false
		default:
			if !lastWasHyphen {
				b.WriteByte('-')
				lastWasHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// StringFuncMap returns the string-domain filters for registration with the
// template engine.
func StringFuncMap() map[string]interface{} {
	return map[string]interface{}{
		"regex_replace": RegexReplace,
		"truncate":      Truncate,
		"slugify":       Slugify,
	}
}
