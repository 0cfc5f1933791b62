package insights

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
)

// percent returns round(part/total*100), or 0 for an empty total
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func positiveRatio(ms []entities.MomentSnapshot) float64 {
	if len(ms) == 0 {
		return 0
	}
	pos := 0
	for _, m := range ms {
		if valueobjects.IsPositiveEmoji(m.Emoji) {
			pos++
		}
	}
	return float64(pos) / float64(len(ms))
}

func negativeRatio(ms []entities.MomentSnapshot) float64 {
	if len(ms) == 0 {
		return 0
	}
	neg := 0
	for _, m := range ms {
		if valueobjects.IsNegativeEmoji(m.Emoji) {
			neg++
		}
	}
	return float64(neg) / float64(len(ms))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// joinNames renders "A", "A and B" or "A, B and C"
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
