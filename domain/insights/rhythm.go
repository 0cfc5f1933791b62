package insights

import (
	"fmt"
	"time"
)

// analyzeWeeklyRhythm finds the busiest and quietest day of the week.
// Days are enumerated Sunday..Saturday and the first extreme wins ties.
func analyzeWeeklyRhythm(a *analysis) []Insight {
	total := len(a.moments)
	if total < a.cfg.MinWeeklyRhythmMoments {
		return nil
	}

	var counts [7]int
	for _, m := range a.moments {
		counts[m.CreatedAt.Weekday()]++
	}

	peak, low := time.Sunday, time.Sunday
	for d := time.Monday; d <= time.Saturday; d++ {
		if counts[d] > counts[peak] {
			peak = d
		}
		if counts[d] < counts[low] {
			low = d
		}
	}

	peakPct := percent(counts[peak], total)
	lowPct := percent(counts[low], total)

	return []Insight{{
		Title: fmt.Sprintf("%s Is Your Connection Day", peak),
		Description: fmt.Sprintf(
			"%d%% of your moments happen on %ss, while %ss are the quietest at %d%%.",
			peakPct, peak, low, lowPct),
		Type:       TypeNeutral,
		Category:   CategoryPattern,
		Confidence: min(a.cfg.WeeklyRhythmMaxConf, peakPct*a.cfg.WeeklyRhythmFactor),
		DataPoints: []string{
			fmt.Sprintf("Peak day: %s (%d moments, %d%%)", peak, counts[peak], peakPct),
			fmt.Sprintf("Quietest day: %s (%d moments, %d%%)", low, counts[low], lowPct),
			fmt.Sprintf("Moments analyzed: %d", total),
		},
		ActionItems: []string{
			fmt.Sprintf("Plan something meaningful for %s, when you are most engaged", peak),
			fmt.Sprintf("Use %s for a small check-in so the week stays balanced", low),
		},
	}}
}
