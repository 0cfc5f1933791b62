package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEmoji(t *testing.T) {
	tests := []struct {
		emoji string
		want  Polarity
	}{
		{"😊", PolarityPositive},
		{"❤️", PolarityPositive},
		{"❤", PolarityPositive},
		{" 🥰 ", PolarityPositive},
		{"😢", PolarityNegative},
		{"😠", PolarityNegative},
		{"📝", PolarityNeutral},
		{"", PolarityNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.emoji, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEmoji(tt.emoji))
		})
	}
}

func TestEmojiSets(t *testing.T) {
	assert.True(t, IsConflictEmoji("😡"))
	assert.False(t, IsConflictEmoji("😊"))
	assert.True(t, IsResolutionEmoji("🤝"))
	assert.True(t, IsResolutionEmoji("🕊"))

	for _, e := range ConflictEmojis() {
		assert.False(t, IsResolutionEmoji(e), "%s is both conflict and resolution", e)
	}

	list := PositiveEmojis()
	list[0] = "x"
	assert.NotEqual(t, "x", PositiveEmojis()[0])
	assert.NotEmpty(t, NegativeEmojis())
	assert.NotEmpty(t, ResolutionEmojis())
}

func TestPolarityOpposite(t *testing.T) {
	assert.Equal(t, PolarityNegative, PolarityPositive.Opposite())
	assert.Equal(t, PolarityPositive, PolarityNegative.Opposite())
	assert.Equal(t, PolarityNeutral, PolarityNeutral.Opposite())
}

func TestFlagOf(t *testing.T) {
	tests := []struct {
		tag  string
		want Flag
	}{
		{"green flag", FlagGreen},
		{"Green-Flag", FlagGreen},
		{"green_flag", FlagGreen},
		{" RED FLAG ", FlagRed},
		{"blue-flag", FlagBlue},
		{"greenflag", FlagNone},
		{"date night", FlagNone},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, FlagOf(tt.tag))
		})
	}

	assert.Equal(t, FlagRed, FlagFromTags([]string{"dinner", "red flag", "green flag"}))
	assert.Equal(t, FlagNone, FlagFromTags(nil))
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Date Night ", "date night", "", "  ", "Conversation"})

	assert.Equal(t, []string{"date night", "conversation"}, got)
	assert.True(t, HasConversationTag(got))
	assert.False(t, HasConversationTag([]string{"dinner"}))
	assert.Equal(t, 3, TagLength("día"))
}

func TestParseRelationshipStage(t *testing.T) {
	stage, err := ParseRelationshipStage(" Dating ")
	require.NoError(t, err)
	assert.Equal(t, StageDating, stage)

	_, err = ParseRelationshipStage("roommates")
	assert.Error(t, err)

	_, err = ParseRelationshipStage("")
	assert.Error(t, err)

	assert.Len(t, RelationshipStages(), 9)
}

func TestParseZodiacSignAndLoveLanguage(t *testing.T) {
	sign, err := ParseZodiacSign("Leo")
	require.NoError(t, err)
	assert.Equal(t, ZodiacLeo, sign)

	sign, err = ParseZodiacSign("")
	require.NoError(t, err)
	assert.Equal(t, ZodiacSign(""), sign)

	_, err = ParseZodiacSign("ophiuchus")
	assert.Error(t, err)

	for _, in := range []string{"quality time", "Quality-Time", "quality_time"} {
		l, err := ParseLoveLanguage(in)
		require.NoError(t, err)
		assert.Equal(t, LoveQualityTime, l)
	}
	assert.Equal(t, "quality time", LoveQualityTime.Label())

	_, err = ParseLoveLanguage("cooking")
	assert.Error(t, err)
}

func TestIDs(t *testing.T) {
	id := NewMomentID()
	parsed, err := NewMomentIDFromString(id.String())
	require.NoError(t, err)
	assert.True(t, id.Equals(parsed))
	assert.False(t, id.IsZero())

	_, err = NewMomentIDFromString("not-a-uuid")
	assert.Error(t, err)
	_, err = NewConnectionIDFromString("")
	assert.Error(t, err)

	conn := NewConnectionID()
	data, err := json.Marshal(struct {
		ID ConnectionID `json:"id"`
	}{conn})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+conn.String()+`"}`, string(data))

	var decoded struct {
		ID ConnectionID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, conn.Equals(decoded.ID))
}
