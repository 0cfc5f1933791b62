package valueobjects

import (
	"strings"
	"unicode/utf8"
)

// Flag is the tag convention marking a moment green, red or blue
type Flag string

const (
	FlagNone  Flag = ""
	FlagGreen Flag = "green"
	FlagRed   Flag = "red"
	FlagBlue  Flag = "blue"
)

var conversationTags = map[string]struct{}{
	"conversation":  {},
	"communication": {},
	"talk":          {},
	"deep talk":     {},
	"deep-talk":     {},
	"call":          {},
	"phone call":    {},
	"texting":       {},
}

// NormalizeTag lowercases and trims a tag
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes every tag and drops empties and duplicates,
// preserving first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// TagLength counts runes, not bytes
func TagLength(tag string) int {
	return utf8.RuneCountInString(tag)
}

// FlagOf reads a single tag as a flag: "green flag", "green-flag" and
// "green_flag" are all FlagGreen.
func FlagOf(tag string) Flag {
	t := strings.NewReplacer("-", " ", "_", " ").Replace(NormalizeTag(tag))
	switch t {
	case "green flag":
		return FlagGreen
	case "red flag":
		return FlagRed
	case "blue flag":
		return FlagBlue
	default:
		return FlagNone
	}
}

// FlagFromTags returns the first flag found among the tags
func FlagFromTags(tags []string) Flag {
	for _, t := range tags {
		if f := FlagOf(t); f != FlagNone {
			return f
		}
	}
	return FlagNone
}

// IsConversationTag reports whether the tag marks a talk or call
func IsConversationTag(tag string) bool {
	_, ok := conversationTags[NormalizeTag(tag)]
	return ok
}

// HasConversationTag reports whether any tag marks a talk or call
func HasConversationTag(tags []string) bool {
	for _, t := range tags {
		if IsConversationTag(t) {
			return true
		}
	}
	return false
}
