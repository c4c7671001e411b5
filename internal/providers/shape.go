package providers

import "strings"

const base62Dashed = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-"

// isAlphabet returns true if all characters in s are in the allowed set.
func isAlphabet(s, allowed string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(allowed, rune(s[i])) {
			return false
		}
	}
	return true
}

func hasPrefix(s, prefix string) bool {
	return strings.HasPrefix(s, prefix)
}

// lengthBetween returns true if len(s) is within [min,max].
func lengthBetween(s string, min, max int) bool {
	n := len(s)
	return n >= min && n <= max
}
