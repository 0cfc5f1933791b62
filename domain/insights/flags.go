package insights

import (
	"fmt"

	"kindra/domain/core/valueobjects"
)

// analyzeFlags weighs green flags against red flags
func analyzeFlags(a *analysis) []Insight {
	counts := map[valueobjects.Flag]int{}
	for _, m := range a.moments {
		if f := valueobjects.FlagFromTags(m.Tags); f != valueobjects.FlagNone {
			counts[f]++
		}
	}
	green, red, blue := counts[valueobjects.FlagGreen], counts[valueobjects.FlagRed], counts[valueobjects.FlagBlue]
	flagged := green + red + blue
	if flagged < a.cfg.MinFlaggedMoments {
		return nil
	}

	in := Insight{
		Category:   CategoryBehavioral,
		Confidence: min(a.cfg.FlagMaxConf, a.cfg.FlagBaseConf+flagged*a.cfg.FlagPerMomentConf),
		DataPoints: []string{
			fmt.Sprintf("Green flags: %d", green),
			fmt.Sprintf("Red flags: %d", red),
			fmt.Sprintf("Blue flags: %d", blue),
		},
	}
	switch {
	case green > red:
		in.Title = "Green Flags Outweigh Red"
		in.Description = fmt.Sprintf("You have noticed %d green flags against %d red flags.", green, red)
		in.Type = TypePositive
		in.ActionItems = []string{"Acknowledge the green flags out loud", "Keep noting what builds trust"}
	case red > green:
		in.Title = "Red Flags Need Attention"
		in.Description = fmt.Sprintf("Red flags (%d) outnumber green flags (%d).", red, green)
		in.Type = TypeWarning
		in.ActionItems = []string{"Review the red-flag moments together for a pattern", "Decide which boundaries are non-negotiable"}
	default:
		in.Title = "Mixed Signals"
		in.Description = fmt.Sprintf("Green and red flags are balanced at %d each.", green)
		in.Type = TypeNeutral
		in.ActionItems = []string{"Pay attention to which flags repeat", "Use blue-flag moments as chances to grow together"}
	}
	return []Insight{in}
}
