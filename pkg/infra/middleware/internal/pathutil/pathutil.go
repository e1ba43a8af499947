// Package pathutil provides path matching helpers shared by the
// middleware packages.
package pathutil

import "strings"

// ShouldSkip reports whether the path matches any of the exact paths or
// prefixes.
func ShouldSkip(path string, skipPaths, skipPrefixes []string) bool {
	for _, p := range skipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
