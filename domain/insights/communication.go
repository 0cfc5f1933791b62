package insights

import (
	"fmt"
	"math"
	"time"

	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
)

const hoursPerWeek = 24 * 7

// CommunicationStats summarizes one connection's moment history
type CommunicationStats struct {
	ConnectionID     string    `json:"connectionId"`
	Name             string    `json:"name"`
	MomentCount      int       `json:"momentCount"`
	WeeklyAverage    float64   `json:"weeklyAverage"`
	LastInteraction  time.Time `json:"lastInteraction,omitempty"`
	PositiveCount    int       `json:"positiveCount"`
	NegativeCount    int       `json:"negativeCount"`
	EmotionalBalance int       `json:"emotionalBalance"`
}

// CommunicationStats computes per-connection statistics in connection order
func (e *Engine) CommunicationStats(moments []entities.MomentSnapshot, connections []entities.ConnectionSnapshot) []CommunicationStats {
	a := newAnalysis(e.cfg, e.now(), moments, connections)
	out := make([]CommunicationStats, 0, len(connections))
	for _, c := range connections {
		out = append(out, a.statsFor(c))
	}
	return out
}

func (a *analysis) statsFor(c entities.ConnectionSnapshot) CommunicationStats {
	ms := a.byConnection[c.ID]
	stats := CommunicationStats{ConnectionID: c.ID, Name: c.Name, MomentCount: len(ms)}
	if len(ms) == 0 {
		return stats
	}

	for _, m := range ms {
		switch valueobjects.ClassifyEmoji(m.Emoji) {
		case valueobjects.PolarityPositive:
			stats.PositiveCount++
		case valueobjects.PolarityNegative:
			stats.NegativeCount++
		}
	}
	stats.EmotionalBalance = stats.PositiveCount - stats.NegativeCount
	stats.LastInteraction = ms[len(ms)-1].CreatedAt

	weeks := math.Max(1, a.now.Sub(ms[0].CreatedAt).Hours()/hoursPerWeek)
	stats.WeeklyAverage = math.Round(float64(len(ms))/weeks*100) / 100
	return stats
}

// analyzeImbalance flags attention concentrated on one connection or
// withheld from another. Shares are over moments attributed to known
// connections; a connection with no moments has a 0% share.
func analyzeImbalance(a *analysis) []Insight {
	if len(a.connections) < 2 {
		return nil
	}

	counts := make([]int, len(a.connections))
	total := 0
	for i, c := range a.connections {
		counts[i] = len(a.byConnection[c.ID])
		total += counts[i]
	}
	if total < a.cfg.MinImbalanceMoments {
		return nil
	}

	shares := make([]float64, len(counts))
	maxIdx, minIdx := 0, 0
	for i, n := range counts {
		shares[i] = float64(n) / float64(total)
		if shares[i] > shares[maxIdx] {
			maxIdx = i
		}
		if shares[i] < shares[minIdx] {
			minIdx = i
		}
	}

	dominant := shares[maxIdx] > a.cfg.DominantShare
	var neglected []string
	for i, s := range shares {
		if s < a.cfg.NeglectedShare {
			neglected = append(neglected, a.connections[i].Name)
		}
	}
	if !dominant && len(neglected) == 0 {
		return nil
	}

	dominantName := a.connections[maxIdx].Name
	description := ""
	related := []string{}
	if dominant {
		description = fmt.Sprintf("%s receives %d%% of your logged attention. ", dominantName, percent(counts[maxIdx], total))
		related = append(related, dominantName)
	}
	if len(neglected) > 0 {
		description += fmt.Sprintf("%s %s less than %d%% of your moments.",
			joinNames(neglected), pluralVerb(len(neglected), "has", "have"), int(a.cfg.NeglectedShare*100))
		related = append(related, neglected...)
	} else {
		description += "Other relationships may be getting less of your energy."
	}

	points := make([]string, 0, len(a.connections)+1)
	for i, c := range a.connections {
		points = append(points, fmt.Sprintf("%s: %d moments (%d%%)", c.Name, counts[i], percent(counts[i], total)))
	}
	points = append(points, fmt.Sprintf("Share spread: %d points", percent(counts[maxIdx]-counts[minIdx], total)))

	spread := shares[maxIdx] - shares[minIdx]
	return []Insight{{
		Title:              "Relationship Focus Imbalance",
		Description:        description,
		Type:               TypeWarning,
		Category:           CategoryBehavioral,
		Confidence:         min(a.cfg.ImbalanceMaxConf, a.cfg.ImbalanceBaseConf+int(math.Round(spread*a.cfg.ImbalanceSpreadScale))),
		DataPoints:         points,
		ActionItems:        imbalanceActions(dominantName, neglected),
		RelatedConnections: related,
	}}
}

func imbalanceActions(dominant string, neglected []string) []string {
	actions := make([]string, 0, 3)
	for _, name := range neglected {
		actions = append(actions, fmt.Sprintf("Reach out to %s this week", name))
		if len(actions) == 2 {
			break
		}
	}
	actions = append(actions, fmt.Sprintf("Keep investing in %s without letting other bonds fade", dominant))
	return actions
}

func pluralVerb(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

var stageRecommendations = map[valueobjects.RelationshipStage][]string{
	valueobjects.StageTalking:       {"Keep early conversations curious and light", "Notice whether effort feels mutual"},
	valueobjects.StageDating:        {"Plan new shared experiences", "Talk openly about what you each want"},
	valueobjects.StageSituationship: {"Name what you want from this connection", "Check whether the ambiguity still works for you"},
	valueobjects.StageExclusive:     {"Protect regular quality time", "Build small shared rituals"},
	valueobjects.StageEngaged:       {"Keep romance alive alongside the planning", "Discuss expectations for married life"},
	valueobjects.StageMarried:       {"Schedule intentional date nights", "Revisit your shared goals together"},
	valueobjects.StageFriendship:    {"Reach out without needing a reason", "Celebrate their wins out loud"},
	valueobjects.StageComplicated:   {"Set boundaries that protect your wellbeing", "Talk it through with someone you trust"},
	valueobjects.StageEx:            {"Give yourself space to heal", "Reflect on what this relationship taught you"},
}

// StageRecommendations returns the canned advice for a relationship stage
func StageRecommendations(stage valueobjects.RelationshipStage) []string {
	recs, ok := stageRecommendations[stage]
	if !ok {
		return []string{"Keep logging moments to learn what this relationship needs"}
	}
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}

// analyzeStages compares how positive each relationship stage feels
func analyzeStages(a *analysis) []Insight {
	grouped := make(map[valueobjects.RelationshipStage][]entities.ConnectionSnapshot)
	for _, c := range a.connections {
		grouped[c.RelationshipStage] = append(grouped[c.RelationshipStage], c)
	}

	var out []Insight
	for _, stage := range valueobjects.RelationshipStages() {
		conns := grouped[stage]
		if len(conns) < a.cfg.MinStageConnections {
			continue
		}

		var ms []entities.MomentSnapshot
		names := make([]string, 0, len(conns))
		for _, c := range conns {
			ms = append(ms, a.byConnection[c.ID]...)
			names = append(names, c.Name)
		}
		if len(ms) < a.cfg.MinStageMoments {
			continue
		}

		ratio := positiveRatio(ms)
		insightType := TypeNeutral
		switch {
		case ratio >= a.cfg.StagePositiveRatio:
			insightType = TypePositive
		case ratio < a.cfg.StageWarningRatio:
			insightType = TypeWarning
		}

		label := capitalize(string(stage))
		out = append(out, Insight{
			Title: fmt.Sprintf("%s Relationships Pattern", label),
			Description: fmt.Sprintf("Across your %d %s connections, %d%% of moments feel positive.",
				len(conns), stage, int(math.Round(ratio*100))),
			Type:       insightType,
			Category:   CategoryCorrelation,
			Confidence: min(a.cfg.StageMaxConf, a.cfg.StageBaseConf+len(ms)),
			DataPoints: []string{
				fmt.Sprintf("Connections in %s stage: %d", stage, len(conns)),
				fmt.Sprintf("Combined moments: %d", len(ms)),
				fmt.Sprintf("Positive ratio: %d%%", int(math.Round(ratio*100))),
			},
			ActionItems:        StageRecommendations(stage),
			RelatedConnections: names,
		})
	}
	return out
}
