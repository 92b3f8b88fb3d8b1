// Package shared provides common utility functions used across multiple
// packages in the keywordscan codebase.
package shared

import "strings"

// StripKeyword removes the stability prefix from a keyword, turning
// "~amd64" or "-amd64" into "amd64".
func StripKeyword(keyword string) string {
	return strings.TrimLeft(keyword, "~-")
}

// IsUnstableKeyword reports whether the keyword carries the unstable
// "~" prefix.
func IsUnstableKeyword(keyword string) bool {
	return strings.HasPrefix(keyword, "~")
}

// IsMaskedKeyword reports whether the keyword carries the explicit
// "-" mask prefix.
func IsMaskedKeyword(keyword string) bool {
	return strings.HasPrefix(keyword, "-")
}

// StripUseDefault removes a use-dep default suffix, turning "ssl(+)"
// into "ssl" so flags compare by bare name.
func StripUseDefault(flag string) string {
	if strings.HasSuffix(flag, ")") {
		if i := strings.LastIndex(flag, "("); i >= 0 {
			return flag[:i]
		}
	}
	return flag
}
