package insights

import (
	"fmt"
	"math"

	"kindra/domain/core/entities"
)

// analyzeCycle compares how difficult cycle-related moments feel against
// the rest
func analyzeCycle(a *analysis) []Insight {
	if len(a.moments) < a.cfg.MinCycleTotal {
		return nil
	}

	var cycle, other []entities.MomentSnapshot
	for _, m := range a.moments {
		if m.RelatedToMenstrualCycle {
			cycle = append(cycle, m)
		} else {
			other = append(other, m)
		}
	}
	if len(cycle) < a.cfg.MinCycleMoments || len(other) == 0 {
		return nil
	}

	cycleNeg, otherNeg := negativeRatio(cycle), negativeRatio(other)
	diff := math.Abs(cycleNeg - otherNeg)
	if diff < a.cfg.CycleMinDiff {
		return nil
	}

	cyclePct, otherPct := int(math.Round(cycleNeg*100)), int(math.Round(otherNeg*100))
	description := fmt.Sprintf("Cycle-related moments are difficult %d%% of the time versus %d%% otherwise.", cyclePct, otherPct)
	actions := []string{"Plan gentler days around your cycle", "Let close connections know when you need extra care"}
	if cycleNeg < otherNeg {
		description = fmt.Sprintf("Cycle-related moments are difficult only %d%% of the time versus %d%% otherwise.", cyclePct, otherPct)
		actions = []string{"Notice what supports you during your cycle", "Carry those habits into the rest of the month"}
	}

	return []Insight{{
		Title:       "Cycle and Mood Connection",
		Description: description,
		Type:        TypeNeutral,
		Category:    CategoryCorrelation,
		Confidence:  min(a.cfg.CycleMaxConf, a.cfg.CycleBaseConf+int(math.Round(diff*100))),
		DataPoints: []string{
			fmt.Sprintf("Cycle-related moments: %d (%d%% difficult)", len(cycle), cyclePct),
			fmt.Sprintf("Other moments: %d (%d%% difficult)", len(other), otherPct),
		},
		ActionItems: actions,
	}}
}
