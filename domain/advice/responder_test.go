package advice

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
)

var now = time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)

func testData() ([]entities.ConnectionSnapshot, []entities.MomentSnapshot) {
	connections := []entities.ConnectionSnapshot{
		{ID: "c-alex", Name: "Alex", RelationshipStage: valueobjects.StageDating, LoveLanguage: valueobjects.LoveQualityTime, ZodiacSign: valueobjects.ZodiacLeo},
		{ID: "c-sam", Name: "Sam", RelationshipStage: valueobjects.StageFriendship},
	}
	moments := []entities.MomentSnapshot{
		{ID: "1", ConnectionID: "c-alex", Emoji: "😊", Tags: []string{"conversation"}, CreatedAt: now.AddDate(0, 0, -10)},
		{ID: "2", ConnectionID: "c-alex", Emoji: "😠", IsResolved: true, CreatedAt: now.AddDate(0, 0, -8)},
		{ID: "3", ConnectionID: "c-alex", Emoji: "🥰", IsIntimate: true, CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "4", ConnectionID: "c-sam", Emoji: "😢", CreatedAt: now.AddDate(0, 0, -5)},
	}
	return connections, moments
}

func TestRespond_PersonalizesCommunicationForNamedConnection(t *testing.T) {
	// Arrange
	connections, moments := testData()
	r := NewResponder(WithClock(func() time.Time { return now }))

	// Act
	named := r.Respond("How can I improve communication with Alex?", connections, moments, entities.ProfileSnapshot{})
	generic := r.Respond("How can I improve communication?", connections, moments, entities.ProfileSnapshot{})

	// Assert
	assert.Contains(t, named, "Alex")
	assert.Contains(t, named, "1 conversation moments with Alex")
	assert.NotContains(t, generic, "Alex")
	assert.NotEqual(t, named, generic)
}

func TestClassify_TopicOrderIsSignificant(t *testing.T) {
	r := NewResponder()

	tests := []struct {
		question string
		want     string
	}{
		{"We keep fighting about communication", "communication"},
		{"We keep fighting", "conflict"},
		{"I feel so DISTANT lately and we argue", "distance"},
		{"How do we keep the spark?", "intimacy"},
		{"Are we compatible?", "compatibility"},
		{"What is his love language?", "love language"},
		{"How can we get better?", "general improvement"},
		{"What's for dinner?", ""},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Classify(tt.question))
		})
	}
}

func TestTopics_Order(t *testing.T) {
	assert.Equal(t, []string{
		"communication",
		"distance",
		"conflict",
		"intimacy",
		"compatibility",
		"love language",
		"general improvement",
	}, NewResponder().Topics())
}

func TestRespond_DefaultParagraph(t *testing.T) {
	connections, moments := testData()

	got := GeneratePersonalizedResponse("What's for dinner?", connections, moments, entities.ProfileSnapshot{})

	assert.Equal(t, DefaultResponse, got)
}

func TestRespond_NeverFailsOnEmptyInput(t *testing.T) {
	r := NewResponder()

	for _, q := range []string{"", "talk", "distance", "fight", "romance", "zodiac", "love language", "help"} {
		assert.NotEmpty(t, r.Respond(q, nil, nil, entities.ProfileSnapshot{}), q)
	}
}

func TestRespond_FirstNamedConnectionWins(t *testing.T) {
	connections, moments := testData()
	r := NewResponder(WithClock(func() time.Time { return now }))

	got := r.Respond("is sam or alex drifting apart from me", connections, moments, entities.ProfileSnapshot{})

	assert.Contains(t, got, "Your last logged moment with Alex was 3 days ago")
}

func TestRespond_TopicHandlers(t *testing.T) {
	connections, moments := testData()
	r := NewResponder(WithClock(func() time.Time { return now }))
	profile := entities.ProfileSnapshot{ZodiacSign: valueobjects.ZodiacPisces, LoveLanguage: valueobjects.LoveActsOfService}

	tests := []struct {
		question string
		contains []string
	}{
		{"why do alex and I argue", []string{"1 conflict moments with Alex", "marked 1 as resolved"}},
		{"more romance with Alex", []string{"1 intimate moments out of 3 with Alex"}},
		{"more romance", []string{"acts of service"}},
		{"are alex and I compatible", []string{"As a pisces with a leo", "leaning positive"}},
		{"are we compatible", []string{"As a pisces"}},
		{"alex's love language", []string{"Alex's love language is quality time"}},
		{"sam's love language", []string{"haven't recorded Sam's love language"}},
		{"what is my love language", []string{"Your love language is acts of service"}},
		{"help me with sam", []string{"Your recent moments with Sam are leaning difficult"}},
		{"help", []string{"Across all 4 moments"}},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got := r.Respond(tt.question, connections, moments, profile)
			for _, want := range tt.contains {
				assert.True(t, strings.Contains(got, want), "%q missing from %q", want, got)
			}
		})
	}
}

func TestLoveLanguageTip(t *testing.T) {
	tip, ok := LoveLanguageTip(valueobjects.LovePhysicalTouch)
	assert.True(t, ok)
	assert.NotEmpty(t, tip)

	_, ok = LoveLanguageTip("")
	assert.False(t, ok)
}
