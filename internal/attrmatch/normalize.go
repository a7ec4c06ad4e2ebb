// Package attrmatch implements similarity scoring between incoming and
// existing attribute names, and the greedy matching procedure used to map
// a new file's fields onto an existing table's columns.
package attrmatch

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9_]+`)
var repeatedUnderscore = regexp.MustCompile(`_+`)

// Normalize lowercases, maps non-alphanumerics to underscore, collapses
// repeats, and trims leading/trailing underscores.
func Normalize(attr string) string {
	if attr == "" {
		return ""
	}
	lower := strings.ToLower(attr)
	lower = nonAlnum.ReplaceAllString(lower, "_")
	lower = repeatedUnderscore.ReplaceAllString(lower, "_")
	return strings.Trim(lower, "_")
}

var idPatterns = map[string]bool{
	"id":         true,
	"pk":         true,
	"key":        true,
	"identifier": true,
}

// IsIDAttribute reports whether the normalized form of attr identifies it as
// an ID attribute.
func IsIDAttribute(attr string) bool {
	norm := Normalize(attr)
	if norm == "" {
		return false
	}
	if idPatterns[norm] {
		return true
	}
	if strings.HasPrefix(norm, "id_") || strings.HasSuffix(norm, "_id") {
		return true
	}
	return false
}

var camelPattern = regexp.MustCompile(`[a-z0-9]+|[A-Z][a-z0-9]*`)

// Tokenize splits an attribute name on underscores and camelCase boundaries,
// returning a lowercase token set.
func Tokenize(attr string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, part := range strings.Split(attr, "_") {
		if part == "" {
			continue
		}
		for _, cp := range camelPattern.FindAllString(part, -1) {
			if cp == "" {
				continue
			}
			tokens[strings.ToLower(cp)] = struct{}{}
		}
	}
	return tokens
}
