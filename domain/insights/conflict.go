package insights

import (
	"fmt"
	"math"
	"time"

	"kindra/domain/core/valueobjects"
)

// Resolution methods, keyed off the average time to reconcile
const (
	MethodImmediate  = "immediate communication"
	MethodReflection = "thoughtful reflection"
	MethodExtended   = "extended processing"
	MethodUnresolved = "unresolved"
)

// conflictSummary is the raw pairing result of the conflict detector
type conflictSummary struct {
	Conflicts       int
	Resolved        int
	MarkedResolved  int
	AverageHours    float64
	Method          string
	SuccessRate     float64
	ConnectionNames []string
}

// summarizeConflicts pairs each conflict moment with the first resolution
// moment among the next few moments, giving up once a moment falls outside
// the time window.
func (a *analysis) summarizeConflicts() conflictSummary {
	var s conflictSummary
	window := time.Duration(a.cfg.ResolutionWindowHours * float64(time.Hour))
	seen := make(map[string]bool)
	var totalHours float64

	for i, m := range a.moments {
		if !valueobjects.IsConflictEmoji(m.Emoji) {
			continue
		}
		s.Conflicts++
		if m.IsResolved {
			s.MarkedResolved++
		}
		if name := a.nameOf(m.ConnectionID); !seen[name] {
			seen[name] = true
			s.ConnectionNames = append(s.ConnectionNames, name)
		}

		last := min(len(a.moments)-1, i+a.cfg.ResolutionLookahead)
		for j := i + 1; j <= last; j++ {
			gap := a.moments[j].CreatedAt.Sub(m.CreatedAt)
			if gap > window {
				break
			}
			if valueobjects.IsResolutionEmoji(a.moments[j].Emoji) {
				s.Resolved++
				totalHours += gap.Hours()
				break
			}
		}
	}

	if s.Conflicts > 0 {
		s.SuccessRate = float64(s.Resolved) / float64(s.Conflicts)
	}
	if s.Resolved == 0 {
		s.Method = MethodUnresolved
		return s
	}
	s.AverageHours = totalHours / float64(s.Resolved)
	switch {
	case s.AverageHours < a.cfg.ImmediateHours:
		s.Method = MethodImmediate
	case s.AverageHours < a.cfg.ReflectionHours:
		s.Method = MethodReflection
	default:
		s.Method = MethodExtended
	}
	return s
}

// analyzeConflicts reports how conflicts tend to get resolved
func analyzeConflicts(a *analysis) []Insight {
	s := a.summarizeConflicts()
	if s.Conflicts < a.cfg.MinConflicts {
		return nil
	}

	insightType := TypeWarning
	switch {
	case s.SuccessRate >= a.cfg.ConflictSuccessRate:
		insightType = TypePositive
	case s.SuccessRate < a.cfg.ConflictCriticalRate:
		insightType = TypeCritical
	}

	successPct := int(math.Round(s.SuccessRate * 100))
	points := []string{
		fmt.Sprintf("Conflicts detected: %d", s.Conflicts),
		fmt.Sprintf("Reconciled within %g hours: %d (%d%%)", a.cfg.ResolutionWindowHours, s.Resolved, successPct),
	}
	if s.Resolved > 0 {
		points = append(points, fmt.Sprintf("Average time to reconcile: %.1f hours", s.AverageHours))
	}
	if s.MarkedResolved > 0 {
		points = append(points, fmt.Sprintf("Marked resolved in the app: %d", s.MarkedResolved))
	}

	var description string
	var actions []string
	switch insightType {
	case TypePositive:
		description = fmt.Sprintf("You resolve %d%% of conflicts, usually through %s.", successPct, s.Method)
		actions = []string{"Keep the repair habits that work for you", "Name what helped after each disagreement"}
	case TypeCritical:
		description = fmt.Sprintf("Only %d%% of conflicts show signs of repair. Unresolved tension tends to build.", successPct)
		actions = []string{"Agree on a way to pause and come back to hard topics", "Consider support from a counselor"}
	default:
		description = fmt.Sprintf("About %d%% of conflicts get resolved, mostly through %s.", successPct, s.Method)
		actions = []string{"Follow up after disagreements instead of letting them fade", "Use \"I feel\" statements when you reconnect"}
	}

	return []Insight{{
		Title:              "Conflict Resolution Pattern",
		Description:        description,
		Type:               insightType,
		Category:           CategoryBehavioral,
		Confidence:         min(a.cfg.ConflictMaxConf, a.cfg.ConflictBaseConf+s.Conflicts*a.cfg.ConflictPerInstanceConf),
		DataPoints:         points,
		ActionItems:        actions,
		RelatedConnections: s.ConnectionNames,
	}}
}
