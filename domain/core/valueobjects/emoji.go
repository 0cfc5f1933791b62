package valueobjects

import "strings"

// Polarity is the emotional direction of a moment's emoji
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
)

// Opposite returns the reverse polarity. Neutral has no opposite.
func (p Polarity) Opposite() Polarity {
	switch p {
	case PolarityPositive:
		return PolarityNegative
	case PolarityNegative:
		return PolarityPositive
	default:
		return PolarityNeutral
	}
}

var (
	positiveEmojis = newEmojiSet(
		"😊", "😍", "🥰", "❤️", "💕", "💖", "💗", "💓", "💞", "😘",
		"🤗", "😄", "😁", "😀", "🥳", "✨", "💯", "🙌", "😌", "🌹", "☺️",
	)
	negativeEmojis = newEmojiSet(
		"😢", "😭", "😔", "😞", "😠", "😡", "🤬", "💔", "😤", "😩",
		"😒", "😕", "😟", "🙄", "😣", "😰", "😫",
	)
	conflictEmojis   = newEmojiSet("😠", "😡", "🤬", "💔", "😤", "⚡")
	resolutionEmojis = newEmojiSet("🤝", "🫂", "🤗", "🕊️", "🙏", "😌", "❤️", "💕")
)

type emojiSet struct {
	members map[string]struct{}
	ordered []string
}

func newEmojiSet(emojis ...string) emojiSet {
	set := emojiSet{members: make(map[string]struct{}, len(emojis)), ordered: emojis}
	for _, e := range emojis {
		set.members[NormalizeEmoji(e)] = struct{}{}
	}
	return set
}

func (s emojiSet) contains(emoji string) bool {
	_, ok := s.members[NormalizeEmoji(emoji)]
	return ok
}

func (s emojiSet) list() []string {
	out := make([]string, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// NormalizeEmoji strips whitespace and the emoji presentation selector so
// "❤" and "❤️" compare equal.
func NormalizeEmoji(emoji string) string {
	return strings.ReplaceAll(strings.TrimSpace(emoji), "\uFE0F", "")
}

// ClassifyEmoji maps an emoji onto its polarity
func ClassifyEmoji(emoji string) Polarity {
	switch {
	case positiveEmojis.contains(emoji):
		return PolarityPositive
	case negativeEmojis.contains(emoji):
		return PolarityNegative
	default:
		return PolarityNeutral
	}
}

// IsPositiveEmoji reports membership in the positive set
func IsPositiveEmoji(emoji string) bool { return positiveEmojis.contains(emoji) }

// IsNegativeEmoji reports membership in the negative set
func IsNegativeEmoji(emoji string) bool { return negativeEmojis.contains(emoji) }

// IsConflictEmoji reports whether the emoji marks a conflict
func IsConflictEmoji(emoji string) bool { return conflictEmojis.contains(emoji) }

// IsResolutionEmoji reports whether the emoji marks a reconciliation
func IsResolutionEmoji(emoji string) bool { return resolutionEmojis.contains(emoji) }

// PositiveEmojis returns a copy of the positive set
func PositiveEmojis() []string { return positiveEmojis.list() }

// NegativeEmojis returns a copy of the negative set
func NegativeEmojis() []string { return negativeEmojis.list() }

// ConflictEmojis returns a copy of the conflict set
func ConflictEmojis() []string { return conflictEmojis.list() }

// ResolutionEmojis returns a copy of the resolution set
func ResolutionEmojis() []string { return resolutionEmojis.list() }
