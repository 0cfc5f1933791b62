package insights

import (
	"fmt"
	"math"
)

// Direction is the predicted course of a relationship
type Direction string

const (
	DirectionUpward   Direction = "upward"
	DirectionDownward Direction = "downward"
	DirectionStable   Direction = "stable"
)

// trajectory is the raw result of comparing a connection's recent moments
// with its older ones
type trajectory struct {
	ConnectionID string
	Recent       int
	Older        int
	RecentRatio  float64
	OlderRatio   float64
	Change       float64
	Direction    Direction
	Confidence   int
}

// trajectoryFor splits a connection's history into older and recent
// segments. ok is false when the history is too short.
func (a *analysis) trajectoryFor(connectionID string) (trajectory, bool) {
	ms := a.byConnection[connectionID]
	n := len(ms)
	if n < a.cfg.MinTrajectoryPerPerson {
		return trajectory{}, false
	}

	recentN := max(a.cfg.MinRecentMoments, int(math.Ceil(float64(n)*a.cfg.RecentFraction)))
	if recentN >= n {
		return trajectory{}, false
	}
	older, recent := ms[:n-recentN], ms[n-recentN:]

	t := trajectory{
		ConnectionID: connectionID,
		Recent:       len(recent),
		Older:        len(older),
		RecentRatio:  positiveRatio(recent),
		OlderRatio:   positiveRatio(older),
	}
	t.Change = t.RecentRatio - t.OlderRatio

	magnitude := math.Abs(t.Change)
	switch {
	case magnitude < a.cfg.StableThreshold:
		t.Direction = DirectionStable
		t.Confidence = a.cfg.StableConfidence
	case t.Change > 0:
		t.Direction = DirectionUpward
	default:
		t.Direction = DirectionDownward
	}
	if t.Direction != DirectionStable {
		t.Confidence = min(a.cfg.TrajectoryMaxConf,
			int(math.Round(magnitude*a.cfg.TrajectoryScale+a.cfg.TrajectoryBaseConf)))
	}
	return t, true
}

// analyzeTrajectories predicts each connection's direction from how its
// recent moments compare with older ones
func analyzeTrajectories(a *analysis) []Insight {
	if len(a.moments) < a.cfg.MinTrajectoryTotal {
		return nil
	}

	var out []Insight
	for _, c := range a.connections {
		t, ok := a.trajectoryFor(c.ID)
		if !ok || t.Confidence <= a.cfg.TrajectoryEmitThreshold {
			continue
		}

		in := Insight{
			Category:   CategoryPrediction,
			Confidence: t.Confidence,
			DataPoints: []string{
				fmt.Sprintf("Recent %d moments: %d%% positive", t.Recent, int(math.Round(t.RecentRatio*100))),
				fmt.Sprintf("Earlier %d moments: %d%% positive", t.Older, int(math.Round(t.OlderRatio*100))),
				fmt.Sprintf("Change: %+d points", int(math.Round(t.Change*100))),
			},
			RelatedConnections: []string{c.Name},
		}

		switch t.Direction {
		case DirectionUpward:
			in.Title = fmt.Sprintf("%s: Upward Trajectory", c.Name)
			in.Description = fmt.Sprintf("Things with %s are improving. Recent moments are noticeably more positive than before.", c.Name)
			in.Type = TypePositive
			in.ActionItems = []string{
				fmt.Sprintf("Tell %s what has felt good lately", c.Name),
				"Keep the habits that started this upswing",
			}
		case DirectionDownward:
			in.Title = fmt.Sprintf("%s: Downward Trajectory", c.Name)
			in.Description = fmt.Sprintf("Recent moments with %s are less positive than earlier ones.", c.Name)
			in.Type = TypeWarning
			in.ActionItems = []string{
				fmt.Sprintf("Check in with %s about how things have felt recently", c.Name),
				"Look back at what changed around the time things dipped",
			}
		default:
			in.Title = fmt.Sprintf("%s: Steady Course", c.Name)
			in.Description = fmt.Sprintf("Your moments with %s have stayed emotionally consistent.", c.Name)
			in.Type = TypeNeutral
			in.ActionItems = []string{
				fmt.Sprintf("Try something new with %s to keep things fresh", c.Name),
			}
		}
		out = append(out, in)
	}
	return out
}
