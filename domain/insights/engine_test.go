package insights

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindra/domain/config"
	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
)

func TestGenerateAdvancedInsights_EmptyInput(t *testing.T) {
	got := GenerateAdvancedInsights(nil, nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, GenerateAdvancedInsights([]entities.MomentSnapshot{}, []entities.ConnectionSnapshot{}))
}

func TestEngine_EmptyInputIgnoresLoosenedMinimums(t *testing.T) {
	cfg := config.DefaultAnalyticsConfig()
	cfg.MinWeeklyRhythmMoments = 0
	cfg.MinConflicts = 0
	require.Error(t, cfg.Validate())

	got := NewEngine(cfg).Generate(nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEngine_AnalyzerRegistrationOrder(t *testing.T) {
	engine := NewEngine(nil)

	assert.Equal(t, []string{
		"weekly_rhythm",
		"emotional_momentum",
		"attention_imbalance",
		"relationship_stage",
		"predictive_trajectory",
		"conflict_resolution",
		"flag_balance",
		"cycle_correlation",
	}, engine.AnalyzerNames())
}

// busyFixture makes six dating connections with ten positive moments each,
// enough for more than eight insights.
func busyFixture(t *testing.T) *fixture {
	f := newFixture(t)
	at := sunday
	for _, name := range []string{"Ana", "Ben", "Cai", "Dee", "Eli", "Fay"} {
		id := f.connection(name, valueobjects.StageDating)
		at = f.series(id, at, repeat(happy, 10)...)
	}
	return f
}

func TestEngine_GenerateCapsAndOrders(t *testing.T) {
	// Arrange
	f := busyFixture(t)
	engine := NewEngine(nil, WithClock(func() time.Time { return sunday.AddDate(0, 1, 0) }))

	// Act
	all := engine.GenerateAll(f.moments, f.connections)
	top := engine.Generate(f.moments, f.connections)

	// Assert
	require.Greater(t, len(all), 8)
	require.Len(t, top, 8)
	for i, in := range top {
		assert.GreaterOrEqual(t, in.Confidence, 0)
		assert.LessOrEqual(t, in.Confidence, 100)
		assert.NotEmpty(t, in.DataPoints, in.Title)
		if i > 0 {
			assert.LessOrEqual(t, in.Confidence, top[i-1].Confidence)
		}
	}
}

func TestEngine_GenerateDoesNotMutateInput(t *testing.T) {
	f := newFixture(t)
	id := f.connection("Sam", valueobjects.StageDating)
	f.moment(id, happy, sunday.Add(2*time.Hour))
	f.moment(id, sad, sunday)
	before := append([]entities.MomentSnapshot(nil), f.moments...)

	NewEngine(nil).Generate(f.moments, f.connections)

	assert.Empty(t, cmp.Diff(before, f.moments))
}

func TestEngine_CustomConfigChangesTopN(t *testing.T) {
	f := busyFixture(t)
	cfg := config.DefaultAnalyticsConfig()
	cfg.TopN = 3

	got := NewEngine(cfg).Generate(f.moments, f.connections)

	assert.Len(t, got, 3)
}

func TestRank_StableOnTies(t *testing.T) {
	in := []Insight{
		{Title: "first", Confidence: 75},
		{Title: "second", Confidence: 90},
		{Title: "third", Confidence: 75},
		{Title: "fourth", Confidence: 75},
	}

	got := rank(in, 3)

	want := []Insight{
		{Title: "second", Confidence: 90},
		{Title: "first", Confidence: 75},
		{Title: "third", Confidence: 75},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rank() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "first", in[0].Title, "input must not be reordered")
}

func TestFinalize(t *testing.T) {
	tests := []struct {
		name     string
		in       Insight
		wantOK   bool
		wantConf int
	}{
		{"no evidence is dropped", Insight{Confidence: 50}, false, 0},
		{"over 100 is clamped", Insight{Confidence: 140, DataPoints: []string{"x"}}, true, 100},
		{"negative is clamped", Insight{Confidence: -3, DataPoints: []string{"x"}}, true, 0},
		{"in range is kept", Insight{Confidence: 64, DataPoints: []string{"x"}}, true, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := finalize(tt.in)

			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantConf, got.Confidence)
				assert.NotNil(t, got.ActionItems)
				assert.NotNil(t, got.RelatedConnections)
			}
		})
	}
}

func TestEngine_CommunicationStats(t *testing.T) {
	// Arrange
	f := newFixture(t)
	sam := f.connection("Sam", valueobjects.StageDating)
	quiet := f.connection("Quinn", valueobjects.StageFriendship)
	now := sunday.AddDate(0, 0, 14)
	f.moment(sam, happy, sunday)
	f.moment(sam, happy, sunday.AddDate(0, 0, 3))
	f.moment(sam, sad, sunday.AddDate(0, 0, 7))
	last := f.moment(sam, neutral, sunday.AddDate(0, 0, 10)).CreatedAt

	// Act
	stats := NewEngine(nil, WithClock(func() time.Time { return now })).CommunicationStats(f.moments, f.connections)

	// Assert
	require.Len(t, stats, 2)
	assert.Equal(t, CommunicationStats{
		ConnectionID:     sam,
		Name:             "Sam",
		MomentCount:      4,
		WeeklyAverage:    2,
		LastInteraction:  last,
		PositiveCount:    2,
		NegativeCount:    1,
		EmotionalBalance: 1,
	}, stats[0])
	assert.Equal(t, CommunicationStats{ConnectionID: quiet, Name: "Quinn"}, stats[1])
}

func TestEngine_CommunicationStatsMinimumOneWeek(t *testing.T) {
	f := newFixture(t)
	sam := f.connection("Sam", valueobjects.StageDating)
	f.series(sam, sunday, happy, happy, happy)

	stats := NewEngine(nil, WithClock(func() time.Time { return sunday.Add(24 * time.Hour) })).
		CommunicationStats(f.moments, f.connections)

	assert.Equal(t, 3.0, stats[0].WeeklyAverage)
}
