package insights

import (
	"fmt"

	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
)

// longestStreak walks moments newest to oldest and returns the longest run
// of same-polarity emoji. Neutral moments end a run and the first longest
// run encountered wins ties.
func longestStreak(chronological []entities.MomentSnapshot) (int, valueobjects.Polarity) {
	best, run := 0, 0
	bestPolarity, runPolarity := valueobjects.PolarityNeutral, valueobjects.PolarityNeutral

	for i := len(chronological) - 1; i >= 0; i-- {
		p := valueobjects.ClassifyEmoji(chronological[i].Emoji)
		switch {
		case p == valueobjects.PolarityNeutral:
			run, runPolarity = 0, valueobjects.PolarityNeutral
			continue
		case p == runPolarity:
			run++
		default:
			run, runPolarity = 1, p
		}
		if run > best {
			best, bestPolarity = run, runPolarity
		}
	}
	return best, bestPolarity
}

// analyzeMomentum reports a long positive or negative streak
func analyzeMomentum(a *analysis) []Insight {
	best, bestPolarity := longestStreak(a.moments)
	if best <= a.cfg.MomentumStreakThreshold {
		return nil
	}

	confidence := min(a.cfg.MomentumMaxConf, best*a.cfg.MomentumFactor)
	points := []string{
		fmt.Sprintf("Longest streak: %d %s moments in a row", best, bestPolarity),
		fmt.Sprintf("Moments analyzed: %d", len(a.moments)),
	}

	if bestPolarity == valueobjects.PolarityPositive {
		return []Insight{{
			Title:       "Positive Emotional Momentum",
			Description: fmt.Sprintf("You logged %d positive moments in a row. Good energy is compounding.", best),
			Type:        TypePositive,
			Category:    CategoryTrend,
			Confidence:  confidence,
			DataPoints:  points,
			ActionItems: []string{
				"Notice what has been going well and keep doing it",
				"Share the good streak with the people involved",
			},
		}}
	}
	return []Insight{{
		Title:       "Difficult Emotional Streak",
		Description: fmt.Sprintf("You logged %d difficult moments in a row. It may be time to pause and reset.", best),
		Type:        TypeWarning,
		Category:    CategoryTrend,
		Confidence:  confidence,
		DataPoints:  points,
		ActionItems: []string{
			"Take time for self-care before the next hard conversation",
			"Talk to someone you trust about what has been happening",
		},
	}}
}
